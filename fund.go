package hobby

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one immutable, reasoned change to the fund balance.
type Entry struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

// Stock gives read-only access to the items a Fund values.
// *Inventory implements it.
type Stock interface {
	Held() []Item
	Listed() []Item
	Sold() []SoldItem
}

// Fund is the fund ledger: a cash balance and its history, most recent first.
//
// The balance is always the sum of the history amounts: every change to the
// balance comes with exactly one Entry.
//
// A Fund is not safe for concurrent use, see Store.
type Fund struct {
	balance decimal.Decimal
	entries []Entry
	stock   Stock
	now     func() time.Time
}

// NewFund creates an empty fund valuing the items in stock. stock may be nil,
// in which case every stock aggregate is zero.
func NewFund(stock Stock) *Fund {
	return &Fund{
		balance: decimal.Zero,
		entries: make([]Entry, 0),
		stock:   stock,
		now:     time.Now,
	}
}

// Balance returns the current balance.
func (f *Fund) Balance() decimal.Decimal { return f.balance }

// History returns a copy of the entries, most recent first.
func (f *Fund) History() []Entry { return slices.Clone(f.entries) }

// Adjust changes the balance by amount for the given reason.
//
// It returns a *ValidationError if the reason is blank.
func (f *Fund) Adjust(amount decimal.Decimal, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return &ValidationError{Field: "reason", Reason: "must not be empty"}
	}
	f.adjust(amount, reason)
	return nil
}

func (f *Fund) adjust(amount decimal.Decimal, reason string) Entry {
	e := Entry{Date: f.now().UTC(), Amount: amount, Reason: reason}
	f.balance = f.balance.Add(amount)
	f.entries = slices.Insert(f.entries, 0, e)
	return e
}

// NetProfit returns the profit of a sale: the sale price minus the purchase
// price, the shipping cost and the other fees. Missing prices count as zero.
func NetProfit(s SoldItem) decimal.Decimal {
	return s.SalePrice.
		Sub(orZero(s.PurchasePrice)).
		Sub(orZero(s.ShippingCost)).
		Sub(orZero(s.OtherFees))
}

// RecordSaleProfit credits the fund with the net profit of s.
func (f *Fund) RecordSaleProfit(s SoldItem) Entry {
	return f.adjust(NetProfit(s), "sale of "+s.Name)
}

// RevertSaleProfit debits the fund with the net profit of s, cancelling a
// previous RecordSaleProfit of the same item.
func (f *Fund) RevertSaleProfit(s SoldItem) Entry {
	return f.adjust(NetProfit(s).Neg(), "sale reversed: "+s.Name)
}

// CorrectSaleProfit records the change of net profit of a sold item edited
// from before to after. ok is false when the profit is unchanged.
func (f *Fund) CorrectSaleProfit(before, after SoldItem) (e Entry, ok bool) {
	diff := NetProfit(after).Sub(NetProfit(before))
	if diff.IsZero() {
		return Entry{}, false
	}
	return f.adjust(diff, "sale corrected: "+after.Name), true
}

// StockValue sums the purchase prices of the items still owned.
func StockValue(held, listed []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range held {
		sum = sum.Add(orZero(it.PurchasePrice))
	}
	for _, it := range listed {
		sum = sum.Add(orZero(it.PurchasePrice))
	}
	return sum
}

// RealizedProfit sums the net profit of the sold items.
func RealizedProfit(sold []SoldItem) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range sold {
		sum = sum.Add(NetProfit(s))
	}
	return sum
}

// EstimatedSaleValue sums the desired sale prices of the listed items.
func EstimatedSaleValue(listed []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range listed {
		sum = sum.Add(orZero(it.DesiredSalePrice))
	}
	return sum
}

// StockValue returns the purchase value of held and listed items.
func (f *Fund) StockValue() decimal.Decimal {
	if f.stock == nil {
		return decimal.Zero
	}
	return StockValue(f.stock.Held(), f.stock.Listed())
}

// RealizedProfit returns the net profit of all sold items.
func (f *Fund) RealizedProfit() decimal.Decimal {
	if f.stock == nil {
		return decimal.Zero
	}
	return RealizedProfit(f.stock.Sold())
}

// EstimatedSaleValue returns the desired sale value of listed items.
func (f *Fund) EstimatedSaleValue() decimal.Decimal {
	if f.stock == nil {
		return decimal.Zero
	}
	return EstimatedSaleValue(f.stock.Listed())
}

// TotalAssets returns the balance plus the stock value.
func (f *Fund) TotalAssets() decimal.Decimal {
	return f.balance.Add(f.StockValue())
}

// Check verifies that the balance is the sum of the history.
func (f *Fund) Check() error {
	if sum := sumEntries(f.entries); !sum.Equal(f.balance) {
		return fmt.Errorf("balance %s does not match history total %s", f.balance, sum)
	}
	return nil
}

func sumEntries(entries []Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// CarriedForward is the reason of the entry added when a restored balance is
// not explained by its history.
const CarriedForward = "balance carried forward"

// restore replaces the balance and history.
//
// When the history does not add up to the balance, an entry carrying the
// difference is appended as the oldest one and returned.
func (f *Fund) restore(balance decimal.Decimal, history []Entry) (carried *Entry) {
	entries := slices.Clone(history)
	if entries == nil {
		entries = make([]Entry, 0)
	}
	if diff := balance.Sub(sumEntries(entries)); !diff.IsZero() {
		date := f.now().UTC()
		if len(entries) > 0 {
			date = entries[len(entries)-1].Date
		}
		e := Entry{Date: date, Amount: diff, Reason: CarriedForward}
		entries = append(entries, e)
		carried = &e
	}
	f.balance = balance
	f.entries = entries
	return carried
}
