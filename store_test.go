package hobby

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestStore() *Store { return NewStore(WithClock(clock())) }

// TestStore_Scenario follows one kit from purchase to a reverted sale.
func TestStore_Scenario(t *testing.T) {
	s := newTestStore()

	it, err := s.Add(NewItem{Name: "Strike Freedom", PurchasePrice: P(50000)})
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Summary(); got.Held != 1 || !got.StockValue.Equal(D(50000)) {
		t.Errorf("after Add: %+v", got)
	}

	s.MoveToListed(it.ID)
	if got := s.Summary(); got.Held != 0 || got.Listed != 1 {
		t.Errorf("after MoveToListed: %+v", got)
	}

	if _, ok, err := s.Sell(it.ID, SaleDetails{SalePrice: D(70000), SaleMedium: "X"}); err != nil || !ok {
		t.Fatalf("Sell() = %v, %v", ok, err)
	}
	got := s.Summary()
	if got.Sold != 1 || !got.Balance.Equal(D(20000)) {
		t.Errorf("after Sell: %+v", got)
	}
	if h := s.History(); len(h) != 1 || !h[0].Amount.Equal(D(20000)) {
		t.Errorf("after Sell history = %+v", h)
	}

	back, ok := s.Revert(it.ID)
	if !ok {
		t.Fatal("Revert() = false")
	}
	got = s.Summary()
	if got.Listed != 1 || got.Sold != 0 || !got.Balance.IsZero() {
		t.Errorf("after Revert: %+v", got)
	}
	if !sameItem(back, it) {
		t.Errorf("reverted item %+v, want %+v", back, it)
	}
	loc, _ := s.Find(it.ID)
	if loc.Stage != Listed || !loc.SalePrice.IsZero() || loc.SaleMedium != "" {
		t.Errorf("Find() after Revert = %+v", loc)
	}
	if err := s.Check(); err != nil {
		t.Error(err)
	}
}

// TestStore_EditSoldItem edits the prices of a sold kit before reverting the sale.
func TestStore_EditSoldItem(t *testing.T) {
	s := newTestStore()
	if err := s.Adjust(D(10000), "budget"); err != nil {
		t.Fatal(err)
	}
	it, _ := s.Add(NewItem{Name: "Strike Freedom", PurchasePrice: P(50000)})
	s.MoveToListed(it.ID)
	if _, _, err := s.Sell(it.ID, SaleDetails{SalePrice: D(70000), SaleMedium: "X"}); err != nil {
		t.Fatal(err)
	}

	price := D(80000)
	shipping := P(3000)
	if ok, err := s.Update(it.ID, ItemPatch{SalePrice: &price, ShippingCost: &shipping}); err != nil || !ok {
		t.Fatalf("Update() = %v, %v", ok, err)
	}
	if got := s.Summary().Balance; !got.Equal(D(37000)) {
		t.Errorf("balance after edit = %s, want 37000", got)
	}
	if h := s.History(); len(h) != 3 || h[0].Reason != "sale corrected: Strike Freedom" || !h[0].Amount.Equal(D(7000)) {
		t.Errorf("history after edit = %+v", h)
	}

	name := "Strike Freedom Ver. MG"
	if _, err := s.Update(it.ID, ItemPatch{Name: &name}); err != nil {
		t.Fatal(err)
	}
	if h := s.History(); len(h) != 3 {
		t.Errorf("renaming recorded an entry: %+v", h[0])
	}

	negative := D(-1)
	if _, err := s.Update(it.ID, ItemPatch{SalePrice: &negative}); err == nil {
		t.Error("Update() accepted a negative sale price")
	}

	if _, ok := s.Revert(it.ID); !ok {
		t.Fatal("Revert() = false")
	}
	if got := s.Summary().Balance; !got.Equal(D(10000)) {
		t.Errorf("balance after Revert = %s, want the 10000 held before the sale", got)
	}
	if err := s.Check(); err != nil {
		t.Error(err)
	}
}

func TestStore_Validation(t *testing.T) {
	s := newTestStore()
	it, _ := s.Add(NewItem{Name: "Sazabi"})
	s.MoveToListed(it.ID)

	blank := " "
	zero := 0
	negative := P(-1)
	testCases := []struct {
		name  string
		op    func() error
		field string
	}{
		{"add without name", func() error { _, err := s.Add(NewItem{}); return err }, "name"},
		{"add negative quantity", func() error { _, err := s.Add(NewItem{Name: "x", Quantity: -2}); return err }, "quantity"},
		{"add negative price", func() error { _, err := s.Add(NewItem{Name: "x", PurchasePrice: P(-5)}); return err }, "purchasePrice"},
		{"update blank name", func() error { _, err := s.Update(it.ID, ItemPatch{Name: &blank}); return err }, "name"},
		{"update zero quantity", func() error { _, err := s.Update(it.ID, ItemPatch{Quantity: &zero}); return err }, "quantity"},
		{"update negative fees", func() error { _, err := s.Update(it.ID, ItemPatch{OtherFees: &negative}); return err }, "otherFees"},
		{"sell without medium", func() error { _, _, err := s.Sell(it.ID, SaleDetails{SalePrice: D(1)}); return err }, "saleMedium"},
		{"sell negative price", func() error { _, _, err := s.Sell(it.ID, SaleDetails{SalePrice: D(-1), SaleMedium: "X"}); return err }, "salePrice"},
		{"adjust without reason", func() error { return s.Adjust(D(1), "") }, "reason"},
	}
	before := s.State()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var verr *ValidationError
			if err := tc.op(); !errors.As(err, &verr) || verr.Field != tc.field {
				t.Errorf("error = %v, want a ValidationError on %s", err, tc.field)
			}
			if !sameState(s.State(), before) {
				t.Error("rejected operation changed the state")
			}
		})
	}
}

func TestStore_MissingIDs(t *testing.T) {
	s := newTestStore()
	if s.Delete(99) || s.MoveToListed(99) || s.MoveToHeld(99) {
		t.Error("operation on an unknown id reported a change")
	}
	if _, ok, err := s.Sell(99, SaleDetails{SalePrice: D(1), SaleMedium: "X"}); ok || err != nil {
		t.Errorf("Sell(unknown) = %v, %v", ok, err)
	}
	if _, ok := s.Revert(99); ok {
		t.Error("Revert(unknown) = true")
	}
	if len(s.History()) != 0 {
		t.Error("operation on an unknown id touched the fund")
	}
}

func TestStore_OnChange(t *testing.T) {
	s := newTestStore()
	var states []State
	s.OnChange(func(st State) { states = append(states, st) })

	it, _ := s.Add(NewItem{Name: "Zaku"})
	s.MoveToListed(it.ID)
	s.MoveToListed(it.ID) // no-op, no notification
	s.Sell(it.ID, SaleDetails{SalePrice: D(10), SaleMedium: "X"})

	if len(states) != 3 {
		t.Fatalf("got %d notifications, want 3", len(states))
	}
	if last := states[2]; len(last.Sold) != 1 || !last.Fund.Balance.Equal(D(10)) {
		t.Errorf("last notification = %+v", last)
	}
}

func TestStore_RestoreRejectsDuplicates(t *testing.T) {
	s := newTestStore()
	s.Add(NewItem{Name: "kept"})
	st := NewState()
	st.Held = []Item{{ID: 1, Name: "a"}}
	st.Sold = []SoldItem{{Item: Item{ID: 1, Name: "a"}}}
	if err := s.Restore(st); err == nil {
		t.Fatal("Restore() accepted a duplicate id")
	}
	if held := s.Held(); len(held) != 1 || held[0].Name != "kept" {
		t.Errorf("failed Restore changed the store: %+v", held)
	}
}

// TestStore_ConcurrentSales checks that sales and reversals running in
// parallel keep both ledgers consistent.
func TestStore_ConcurrentSales(t *testing.T) {
	s := NewStore()
	var ids []int64
	for i := 0; i < 50; i++ {
		it, _ := s.Add(NewItem{Name: "kit", PurchasePrice: P(1000)})
		s.MoveToListed(it.ID)
		ids = append(ids, it.ID)
	}
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		id := id
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				s.Sell(id, SaleDetails{SalePrice: D(1500), SaleMedium: "X"})
				s.Revert(id)
			}
		}()
	}
	wg.Wait()
	if err := s.Check(); err != nil {
		t.Fatal(err)
	}
	if got := s.Summary(); !got.Balance.IsZero() || got.Listed != 50 {
		t.Errorf("Summary() = %+v, want every sale reverted", got)
	}
}

// FuzzStore_StockValue runs random operation sequences and checks the
// aggregates against their definition after every step.
func FuzzStore_StockValue(f *testing.F) {
	f.Add(int64(1), 20)
	f.Add(int64(42), 200)
	f.Add(int64(-7), 1000)
	f.Fuzz(func(t *testing.T, seed int64, steps int) {
		if steps < 0 || steps > 2000 {
			t.Skip()
		}
		rng := rand.New(rand.NewSource(seed))
		s := newTestStore()
		var ids []int64
		pick := func() int64 {
			if len(ids) == 0 || rng.Intn(10) == 0 {
				return rng.Int63n(1000)
			}
			return ids[rng.Intn(len(ids))]
		}
		for i := 0; i < steps; i++ {
			switch rng.Intn(7) {
			case 0, 1:
				n := NewItem{Name: "kit"}
				if rng.Intn(4) > 0 {
					n.PurchasePrice = P(rng.Int63n(100000))
				}
				it, err := s.Add(n)
				if err != nil {
					t.Fatal(err)
				}
				ids = append(ids, it.ID)
			case 2:
				s.MoveToListed(pick())
			case 3:
				s.MoveToHeld(pick())
			case 4:
				s.Sell(pick(), SaleDetails{SalePrice: decimal.NewFromInt(rng.Int63n(100000)), SaleMedium: "X"})
			case 5:
				s.Revert(pick())
			case 6:
				if rng.Intn(3) == 0 {
					s.Delete(pick())
				}
			}

			want := decimal.Zero
			for _, it := range append(s.Held(), s.Listed()...) {
				want = want.Add(orZero(it.PurchasePrice))
			}
			got := s.Summary()
			if !got.StockValue.Equal(want) {
				t.Fatalf("StockValue = %s, want %s", got.StockValue, want)
			}
			if !got.TotalAssets.Equal(got.Balance.Add(want)) {
				t.Fatalf("TotalAssets = %s, want %s", got.TotalAssets, got.Balance.Add(want))
			}
			if err := s.Check(); err != nil {
				t.Fatal(err)
			}
		}
	})
}
