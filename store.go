package hobby

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// State is a full copy of a Store: the three item collections and the fund.
type State struct {
	Held   []Item     `json:"held"`
	Listed []Item     `json:"listed"`
	Sold   []SoldItem `json:"sold"`
	Fund   FundState  `json:"fund"`
}

// FundState is the exportable shape of a Fund.
type FundState struct {
	Balance decimal.Decimal `json:"balance"`
	History []Entry         `json:"history"`
}

// NewState returns an empty state.
func NewState() State {
	return State{
		Held:   []Item{},
		Listed: []Item{},
		Sold:   []SoldItem{},
		Fund:   FundState{Balance: decimal.Zero, History: []Entry{}},
	}
}

// Summary gathers the fund balance and the stock aggregates.
type Summary struct {
	Balance            decimal.Decimal `json:"balance"`
	StockValue         decimal.Decimal `json:"stockValue"`
	RealizedProfit     decimal.Decimal `json:"realizedProfit"`
	EstimatedSaleValue decimal.Decimal `json:"estimatedSaleValue"`
	TotalAssets        decimal.Decimal `json:"totalAssets"`
	Held               int             `json:"held"`
	Listed             int             `json:"listed"`
	Sold               int             `json:"sold"`
}

// Store ties an Inventory and its Fund together.
//
// It is the entry point for collaborators: it validates their input, runs a
// sale or a reversal on both ledgers under the same lock, and notifies change
// listeners. A Store is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	inv       *Inventory
	fund      *Fund
	now       func() time.Time
	log       zerolog.Logger
	listeners []func(State)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report mutations.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l.With().Str("component", "store").Logger() }
}

// WithClock sets the clock used for ids and entry dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.inv = NewInventory()
	s.inv.now = s.now
	s.fund = NewFund(s.inv)
	s.fund.now = s.now
	return s
}

// OnChange registers fn to be called with a copy of the state after every
// successful mutation. fn is called with the store locked and must not call
// back into the store.
func (s *Store) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// changed notifies the listeners. s.mu must be held.
func (s *Store) changed() {
	if len(s.listeners) == 0 {
		return
	}
	st := s.state()
	for _, fn := range s.listeners {
		fn(st)
	}
}

func validatePrice(field string, d decimal.NullDecimal) error {
	if d.Valid && d.Decimal.IsNegative() {
		return &ValidationError{Field: field, Reason: "must not be negative"}
	}
	return nil
}

func validateNewItem(n NewItem) error {
	if strings.TrimSpace(n.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if n.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	for field, d := range map[string]decimal.NullDecimal{
		"purchasePrice": n.PurchasePrice,
		"shippingCost":  n.ShippingCost,
		"otherFees":     n.OtherFees,
	} {
		if err := validatePrice(field, d); err != nil {
			return err
		}
	}
	return nil
}

func validatePatch(p ItemPatch) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if p.Quantity != nil && *p.Quantity < 1 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	for field, d := range map[string]*decimal.NullDecimal{
		"purchasePrice": p.PurchasePrice,
		"shippingCost":  p.ShippingCost,
		"otherFees":     p.OtherFees,
	} {
		if d == nil {
			continue
		}
		if err := validatePrice(field, *d); err != nil {
			return err
		}
	}
	if p.SalePrice != nil && p.SalePrice.IsNegative() {
		return &ValidationError{Field: "salePrice", Reason: "must not be negative"}
	}
	if p.SaleMedium != nil && strings.TrimSpace(*p.SaleMedium) == "" {
		return &ValidationError{Field: "saleMedium", Reason: "is required"}
	}
	return nil
}

// Add validates n and adds it to Held.
func (s *Store) Add(n NewItem) (Item, error) {
	if err := validateNewItem(n); err != nil {
		return Item{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.inv.Add(n)
	s.log.Debug().Int64("id", it.ID).Str("name", it.Name).Msg("item added")
	s.changed()
	return it, nil
}

// Update validates p and merges it into the item id.
//
// When p changes the net profit of a sold item, the difference is recorded in
// the fund so that a later Revert restores the balance held before the sale.
func (s *Store) Update(id int64, p ItemPatch) (bool, error) {
	if err := validatePatch(p); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	before, ok := s.inv.Find(id)
	if !ok || !s.inv.Update(id, p) {
		return false, nil
	}
	s.log.Debug().Int64("id", id).Msg("item updated")
	if before.Stage == Sold {
		after, _ := s.inv.Find(id)
		if e, ok := s.fund.CorrectSaleProfit(before.SoldItem, after.SoldItem); ok {
			s.log.Info().Int64("id", id).Str("name", after.Name).Stringer("correction", e.Amount).Msg("sale corrected")
		}
	}
	s.changed()
	return true, nil
}

// MoveToListed offers the held item id for sale.
func (s *Store) MoveToListed(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inv.MoveToListed(id) {
		return false
	}
	s.log.Debug().Int64("id", id).Msg("item listed")
	s.changed()
	return true
}

// MoveToHeld withdraws the listed item id from sale.
func (s *Store) MoveToHeld(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inv.MoveToHeld(id) {
		return false
	}
	s.log.Debug().Int64("id", id).Msg("item held")
	s.changed()
	return true
}

// Delete removes the item id from whichever stage holds it.
//
// Deleting a sold item does not change the fund.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inv.Delete(id) {
		return false
	}
	s.log.Debug().Int64("id", id).Msg("item deleted")
	s.changed()
	return true
}

// Find looks up the item id across all stages.
func (s *Store) Find(id int64) (Located, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.Find(id)
}

// Sell completes the sale of the listed item id: the item moves to Sold and
// its net profit is recorded in the fund, both or neither.
func (s *Store) Sell(id int64, d SaleDetails) (SoldItem, bool, error) {
	if strings.TrimSpace(d.SaleMedium) == "" {
		return SoldItem{}, false, &ValidationError{Field: "saleMedium", Reason: "is required"}
	}
	if d.SalePrice.IsNegative() {
		return SoldItem{}, false, &ValidationError{Field: "salePrice", Reason: "must not be negative"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sold, ok := s.inv.Sell(id, d)
	if !ok {
		return SoldItem{}, false, nil
	}
	e := s.fund.RecordSaleProfit(sold)
	s.log.Info().Int64("id", id).Str("name", sold.Name).Stringer("profit", e.Amount).Msg("item sold")
	s.changed()
	return sold, true, nil
}

// Revert cancels the sale of the sold item id: the item moves back to Listed
// without its sale details and the fund entry of the sale is cancelled.
func (s *Store) Revert(id int64) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, sold, ok := s.inv.Revert(id)
	if !ok {
		return Item{}, false
	}
	e := s.fund.RevertSaleProfit(sold)
	s.log.Info().Int64("id", id).Str("name", sold.Name).Stringer("amount", e.Amount).Msg("sale reverted")
	s.changed()
	return it, true
}

// Adjust changes the fund balance by amount for reason.
func (s *Store) Adjust(amount decimal.Decimal, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fund.Adjust(amount, reason); err != nil {
		return err
	}
	s.log.Info().Stringer("amount", amount).Str("reason", reason).Msg("fund adjusted")
	s.changed()
	return nil
}

// Held returns a copy of the held items.
func (s *Store) Held() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.Held()
}

// Listed returns a copy of the listed items.
func (s *Store) Listed() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.Listed()
}

// Sold returns a copy of the sold items.
func (s *Store) Sold() []SoldItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inv.Sold()
}

// History returns the fund entries, most recent first.
func (s *Store) History() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fund.History()
}

// Summary computes the fund balance and aggregates.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	held, listed, sold := s.inv.Len()
	return Summary{
		Balance:            s.fund.Balance(),
		StockValue:         s.fund.StockValue(),
		RealizedProfit:     s.fund.RealizedProfit(),
		EstimatedSaleValue: s.fund.EstimatedSaleValue(),
		TotalAssets:        s.fund.TotalAssets(),
		Held:               held,
		Listed:             listed,
		Sold:               sold,
	}
}

// State returns a copy of the whole store.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Store) state() State {
	return State{
		Held:   s.inv.Held(),
		Listed: s.inv.Listed(),
		Sold:   s.inv.Sold(),
		Fund:   FundState{Balance: s.fund.Balance(), History: s.fund.History()},
	}
}

// Restore replaces the whole store with st. It is the bulk entry point of
// session caches. Listeners are not notified.
//
// On error the store is left unchanged.
func (s *Store) Restore(st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restore(st)
}

func (s *Store) restore(st State) error {
	inv := &Inventory{lastID: s.inv.lastID, now: s.now}
	if err := inv.restore(st.Held, st.Listed, st.Sold); err != nil {
		return fmt.Errorf("invalid state: %w", err)
	}
	fund := NewFund(inv)
	fund.now = s.now
	if e := fund.restore(st.Fund.Balance, st.Fund.History); e != nil {
		s.log.Warn().Stringer("amount", e.Amount).Msg("fund history does not explain the balance, difference carried forward")
	}
	s.inv, s.fund = inv, fund
	return nil
}

// Check verifies the store invariants.
func (s *Store) Check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.inv.Check(); err != nil {
		return err
	}
	return s.fund.Check()
}

// Import replaces the whole store with the workbook read from r.
//
// filename is the name of the document; the returned base name is filename
// without its export timestamp, to be reused by the next Export. A malformed
// document returns a *DecodeError and leaves the store unchanged.
func (s *Store) Import(r io.Reader, filename string) (string, error) {
	st, err := DecodeWorkbook(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.restore(st); err != nil {
		return "", &DecodeError{Err: err}
	}
	base := BaseName(filename)
	s.log.Info().Str("file", filename).Str("base", base).Msg("document imported")
	s.changed()
	return base, nil
}

// Export writes the whole store as a workbook to w and returns the file name
// it should be saved under.
func (s *Store) Export(w io.Writer, base string, now time.Time) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", &ValidationError{Field: "name", Reason: "is required"}
	}
	st := s.State()
	if err := EncodeWorkbook(w, st); err != nil {
		return "", err
	}
	name := ExportFileName(base, now)
	s.log.Info().Str("file", name).Msg("document exported")
	return name, nil
}
