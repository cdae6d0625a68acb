package cache

import (
	"fmt"
	"time"

	"github.com/etnz/hobby"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
)

// snapshotVersion is bumped whenever the snapshot layout changes.
const snapshotVersion = 1

// snapshot is the msgpack layout of a hobby.State. Amounts are kept as their
// decimal text so that no precision is lost.
type snapshot struct {
	Version int        `msgpack:"v"`
	Held    []item     `msgpack:"held"`
	Listed  []item     `msgpack:"listed"`
	Sold    []soldItem `msgpack:"sold"`
	Balance string     `msgpack:"balance"`
	History []entry    `msgpack:"history"`
}

type item struct {
	ID               int64    `msgpack:"id"`
	Grade            string   `msgpack:"grade"`
	Name             string   `msgpack:"name"`
	Quantity         int      `msgpack:"quantity"`
	PurchasePrice    *string  `msgpack:"purchasePrice"`
	DesiredSalePrice *string  `msgpack:"desiredSalePrice"`
	PurchaseLocation string   `msgpack:"purchaseLocation"`
	Details          string   `msgpack:"details"`
	ImageURLs        []string `msgpack:"imageUrls"`
	ShippingCost     *string  `msgpack:"shippingCost"`
	OtherFees        *string  `msgpack:"otherFees"`
}

type soldItem struct {
	Item       item   `msgpack:"item"`
	SalePrice  string `msgpack:"salePrice"`
	SaleMedium string `msgpack:"saleMedium"`
}

type entry struct {
	Date   time.Time `msgpack:"date"`
	Amount string    `msgpack:"amount"`
	Reason string    `msgpack:"reason"`
}

func optional(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}

func fromItem(it hobby.Item) item {
	return item{
		ID:               it.ID,
		Grade:            string(it.Grade),
		Name:             it.Name,
		Quantity:         it.Quantity,
		PurchasePrice:    optional(it.PurchasePrice),
		DesiredSalePrice: optional(it.DesiredSalePrice),
		PurchaseLocation: it.PurchaseLocation,
		Details:          it.Details,
		ImageURLs:        it.ImageURLs,
		ShippingCost:     optional(it.ShippingCost),
		OtherFees:        optional(it.OtherFees),
	}
}

// encode serializes st to msgpack.
func encode(st hobby.State) ([]byte, error) {
	s := snapshot{
		Version: snapshotVersion,
		Balance: st.Fund.Balance.String(),
	}
	for _, it := range st.Held {
		s.Held = append(s.Held, fromItem(it))
	}
	for _, it := range st.Listed {
		s.Listed = append(s.Listed, fromItem(it))
	}
	for _, it := range st.Sold {
		s.Sold = append(s.Sold, soldItem{
			Item:       fromItem(it.Item),
			SalePrice:  it.SalePrice.String(),
			SaleMedium: it.SaleMedium,
		})
	}
	for _, e := range st.Fund.History {
		s.History = append(s.History, entry{Date: e.Date, Amount: e.Amount.String(), Reason: e.Reason})
	}
	return msgpack.Marshal(&s)
}

// decoder converts snapshot amounts back to decimals, keeping the first error.
type decoder struct{ err error }

func (d *decoder) amount(field, s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil && d.err == nil {
		d.err = fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return v
}

func (d *decoder) optional(field string, s *string) decimal.NullDecimal {
	if s == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d.amount(field, *s))
}

func (d *decoder) item(it item) hobby.Item {
	urls := it.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	return hobby.Item{
		ID:               it.ID,
		Grade:            hobby.Grade(it.Grade),
		Name:             it.Name,
		Quantity:         it.Quantity,
		PurchasePrice:    d.optional("purchasePrice", it.PurchasePrice),
		DesiredSalePrice: d.optional("desiredSalePrice", it.DesiredSalePrice),
		PurchaseLocation: it.PurchaseLocation,
		Details:          it.Details,
		ImageURLs:        urls,
		ShippingCost:     d.optional("shippingCost", it.ShippingCost),
		OtherFees:        d.optional("otherFees", it.OtherFees),
	}
}

// decode deserializes a snapshot written by encode.
func decode(data []byte) (hobby.State, error) {
	var s snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return hobby.State{}, fmt.Errorf("invalid snapshot: %w", err)
	}
	if s.Version != snapshotVersion {
		return hobby.State{}, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}

	var d decoder
	st := hobby.NewState()
	for _, it := range s.Held {
		st.Held = append(st.Held, d.item(it))
	}
	for _, it := range s.Listed {
		st.Listed = append(st.Listed, d.item(it))
	}
	for _, it := range s.Sold {
		st.Sold = append(st.Sold, hobby.SoldItem{
			Item:       d.item(it.Item),
			SalePrice:  d.amount("salePrice", it.SalePrice),
			SaleMedium: it.SaleMedium,
		})
	}
	st.Fund.Balance = d.amount("balance", s.Balance)
	for _, e := range s.History {
		st.Fund.History = append(st.Fund.History, hobby.Entry{
			Date:   e.Date.UTC(),
			Amount: d.amount("amount", e.Amount),
			Reason: e.Reason,
		})
	}
	if d.err != nil {
		return hobby.State{}, d.err
	}
	return st, nil
}
