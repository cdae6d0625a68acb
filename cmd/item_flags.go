package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/hobby"
	"github.com/shopspring/decimal"
)

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }
func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// itemFlags are the item fields shared by add and edit.
type itemFlags struct {
	grade            string
	name             string
	quantity         int
	purchasePrice    string
	desiredSalePrice string
	purchaseLocation string
	details          string
	images           stringList
	shippingCost     string
	otherFees        string
}

func (c *itemFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "item name")
	f.StringVar(&c.grade, "g", "", "grade, e.g. HG, RG, MG, PG")
	f.IntVar(&c.quantity, "q", 1, "quantity")
	f.StringVar(&c.purchasePrice, "p", "", "purchase price, empty when unknown")
	f.StringVar(&c.desiredSalePrice, "d", "", "desired sale price")
	f.StringVar(&c.purchaseLocation, "l", "", "purchase location")
	f.StringVar(&c.details, "details", "", "free text details")
	f.Var(&c.images, "img", "image URL, can be repeated")
	f.StringVar(&c.shippingCost, "ship", "", "shipping cost")
	f.StringVar(&c.otherFees, "fees", "", "other fees")
}

// prices parses the price flags in the order purchase, desired, shipping, fees.
func (c *itemFlags) prices() ([4]decimal.NullDecimal, error) {
	var out [4]decimal.NullDecimal
	for i, p := range []struct{ field, value string }{
		{"purchasePrice", c.purchasePrice},
		{"desiredSalePrice", c.desiredSalePrice},
		{"shippingCost", c.shippingCost},
		{"otherFees", c.otherFees},
	} {
		d, err := hobby.ParsePrice(p.field, p.value)
		if err != nil {
			return out, err
		}
		out[i] = d
	}
	return out, nil
}

// newItem builds the item to add from the flags.
func (c *itemFlags) newItem() (hobby.NewItem, error) {
	p, err := c.prices()
	if err != nil {
		return hobby.NewItem{}, err
	}
	return hobby.NewItem{
		Grade:            hobby.Grade(c.grade),
		Name:             c.name,
		Quantity:         c.quantity,
		PurchasePrice:    p[0],
		DesiredSalePrice: p[1],
		PurchaseLocation: c.purchaseLocation,
		Details:          c.details,
		ImageURLs:        c.images,
		ShippingCost:     p[2],
		OtherFees:        p[3],
	}, nil
}

// patch builds an update holding only the flags set on the command line.
func (c *itemFlags) patch(f *flag.FlagSet) (hobby.ItemPatch, error) {
	var patch hobby.ItemPatch
	p, err := c.prices()
	if err != nil {
		return patch, err
	}
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "n":
			patch.Name = &c.name
		case "g":
			g := hobby.Grade(c.grade)
			patch.Grade = &g
		case "q":
			patch.Quantity = &c.quantity
		case "p":
			patch.PurchasePrice = &p[0]
		case "d":
			patch.DesiredSalePrice = &p[1]
		case "l":
			patch.PurchaseLocation = &c.purchaseLocation
		case "details":
			patch.Details = &c.details
		case "img":
			urls := []string(c.images)
			patch.ImageURLs = &urls
		case "ship":
			patch.ShippingCost = &p[2]
		case "fees":
			patch.OtherFees = &p[3]
		}
	})
	return patch, nil
}
