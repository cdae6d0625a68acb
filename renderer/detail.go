package renderer

import (
	"strings"

	"github.com/etnz/hobby"
)

// detail is the view of a single item rendered by templates/detail.md.
type detail struct {
	ID               int64
	Name             string
	Stage            string
	Grade            string
	Quantity         int
	PurchasePrice    string
	DesiredSalePrice string
	PurchaseLocation string
	ShippingCost     string
	OtherFees        string
	Details          string
	ImageURLs        []string
	Sold             bool
	SalePrice        string
	SaleMedium       string
	Profit           string
}

// Detail renders every field of a located item.
func Detail(l hobby.Located, cur string) string {
	d := detail{
		ID:               l.ID,
		Name:             l.Name,
		Stage:            l.Stage.String(),
		Grade:            string(l.Grade),
		Quantity:         l.Quantity,
		PurchasePrice:    hobby.FormatPrice(l.PurchasePrice, cur),
		DesiredSalePrice: hobby.FormatPrice(l.DesiredSalePrice, cur),
		PurchaseLocation: orDash(l.PurchaseLocation),
		ShippingCost:     hobby.FormatPrice(l.ShippingCost, cur),
		OtherFees:        hobby.FormatPrice(l.OtherFees, cur),
		Details:          strings.TrimSpace(l.Details),
		ImageURLs:        l.ImageURLs,
	}
	if l.Stage == hobby.Sold {
		d.Sold = true
		d.SalePrice = hobby.FormatAmount(l.SalePrice, cur)
		d.SaleMedium = l.SaleMedium
		d.Profit = hobby.SignedAmount(hobby.NetProfit(l.SoldItem), cur)
	}

	partials := map[string]string{
		"detail_sale":   "",
		"detail_images": "detail_images.md",
	}
	if d.Sold {
		partials["detail_sale"] = "detail_sale.md"
	}
	return renderTemplate("detail", "detail.md", partials, d)
}
