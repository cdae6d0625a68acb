package hobby

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// D is a helper for test to create a decimal from a constant.
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// t0 is the start of every test clock.
var t0 = time.Date(2025, 7, 23, 16, 30, 0, 0, time.UTC)

// clock is a test clock that starts at t0 and advances one second at each call.
func clock() func() time.Time {
	t := t0
	return func() time.Time {
		now := t
		t = t.Add(time.Second)
		return now
	}
}

func samePrice(a, b decimal.NullDecimal) bool {
	return a.Valid == b.Valid && (!a.Valid || a.Decimal.Equal(b.Decimal))
}

// sameItem compares items field by field, decimals by value.
func sameItem(a, b Item) bool {
	return a.ID == b.ID &&
		a.Grade == b.Grade &&
		a.Name == b.Name &&
		a.Quantity == b.Quantity &&
		samePrice(a.PurchasePrice, b.PurchasePrice) &&
		samePrice(a.DesiredSalePrice, b.DesiredSalePrice) &&
		a.PurchaseLocation == b.PurchaseLocation &&
		a.Details == b.Details &&
		slices.Equal(a.ImageURLs, b.ImageURLs) &&
		samePrice(a.ShippingCost, b.ShippingCost) &&
		samePrice(a.OtherFees, b.OtherFees)
}

func sameSold(a, b SoldItem) bool {
	return sameItem(a.Item, b.Item) && a.SalePrice.Equal(b.SalePrice) && a.SaleMedium == b.SaleMedium
}

func sameEntry(a, b Entry) bool {
	return a.Date.Equal(b.Date) && a.Amount.Equal(b.Amount) && a.Reason == b.Reason
}

// sameState compares states field by field, decimals by value.
func sameState(a, b State) bool {
	return slices.EqualFunc(a.Held, b.Held, sameItem) &&
		slices.EqualFunc(a.Listed, b.Listed, sameItem) &&
		slices.EqualFunc(a.Sold, b.Sold, sameSold) &&
		a.Fund.Balance.Equal(b.Fund.Balance) &&
		slices.EqualFunc(a.Fund.History, b.Fund.History, sameEntry)
}

// strikeFreedom is the item used by most tests.
func strikeFreedom() NewItem {
	return NewItem{
		Grade:            "MG",
		Name:             "Strike Freedom",
		PurchasePrice:    P(50000),
		DesiredSalePrice: P(75000),
		PurchaseLocation: "Gundam Base",
		Details:          "box opened, runners sealed",
		ImageURLs:        []string{"https://img.example/sf-1.jpg", "https://img.example/sf-2.jpg"},
	}
}
