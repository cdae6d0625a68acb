package hobby

import (
	"testing"
	"time"
)

func newTestInventory() *Inventory {
	inv := NewInventory()
	inv.now = clock()
	return inv
}

func TestInventory_Add(t *testing.T) {
	inv := newTestInventory()
	in := strikeFreedom()
	it := inv.Add(in)

	if it.ID == 0 {
		t.Fatal("Add() did not assign an id")
	}
	want := Item{
		ID:               it.ID,
		Grade:            in.Grade,
		Name:             in.Name,
		Quantity:         1,
		PurchasePrice:    in.PurchasePrice,
		DesiredSalePrice: in.DesiredSalePrice,
		PurchaseLocation: in.PurchaseLocation,
		Details:          in.Details,
		ImageURLs:        in.ImageURLs,
	}
	got, ok := inv.Find(it.ID)
	if !ok {
		t.Fatalf("Find(%d) not found", it.ID)
	}
	if got.Stage != Held {
		t.Errorf("Find(%d).Stage = %v, want held", it.ID, got.Stage)
	}
	if !sameItem(got.Item, want) {
		t.Errorf("Find(%d) = %+v, want %+v", it.ID, got.Item, want)
	}
	if held := inv.Held(); len(held) != 1 || held[0].ID != it.ID {
		t.Errorf("Held() = %v, want exactly item %d", held, it.ID)
	}
}

func TestInventory_AddDefaults(t *testing.T) {
	inv := newTestInventory()
	it := inv.Add(NewItem{})

	if it.Grade != GradeUnspecified {
		t.Errorf("Grade = %q, want %q", it.Grade, GradeUnspecified)
	}
	if it.Quantity != 1 {
		t.Errorf("Quantity = %d, want 1", it.Quantity)
	}
	if it.PurchasePrice.Valid || it.DesiredSalePrice.Valid || it.ShippingCost.Valid || it.OtherFees.Valid {
		t.Errorf("monetary fields should default to null: %+v", it)
	}
	if it.ImageURLs == nil || len(it.ImageURLs) != 0 {
		t.Errorf("ImageURLs = %#v, want empty list", it.ImageURLs)
	}
	if it.Name != "" {
		t.Errorf("Name = %q, want it stored as given", it.Name)
	}
}

func TestInventory_IDsAreUnique(t *testing.T) {
	inv := NewInventory()
	// a frozen clock forces the allocator to bump ids.
	inv.now = func() time.Time { return t0 }
	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		it := inv.Add(NewItem{Name: "kit"})
		if seen[it.ID] {
			t.Fatalf("id %d allocated twice", it.ID)
		}
		seen[it.ID] = true
	}
}

func TestInventory_AddDoesNotAlias(t *testing.T) {
	inv := newTestInventory()
	in := strikeFreedom()
	it := inv.Add(in)
	in.ImageURLs[0] = "mutated"
	it.ImageURLs[1] = "mutated"

	got, _ := inv.Find(it.ID)
	if got.ImageURLs[0] == "mutated" || got.ImageURLs[1] == "mutated" {
		t.Errorf("inventory shares memory with its callers: %v", got.ImageURLs)
	}
}

func TestInventory_MoveRoundTrip(t *testing.T) {
	inv := newTestInventory()
	it := inv.Add(strikeFreedom())

	if !inv.MoveToListed(it.ID) {
		t.Fatal("MoveToListed() = false")
	}
	if h, l, s := inv.Len(); h != 0 || l != 1 || s != 0 {
		t.Errorf("Len() = %d, %d, %d, want 0, 1, 0", h, l, s)
	}
	if !inv.MoveToHeld(it.ID) {
		t.Fatal("MoveToHeld() = false")
	}
	got, _ := inv.Find(it.ID)
	if got.Stage != Held || !sameItem(got.Item, it) {
		t.Errorf("after round trip got %v %+v, want held %+v", got.Stage, got.Item, it)
	}
	if err := inv.Check(); err != nil {
		t.Error(err)
	}
}

func TestInventory_MissingIDIsNoop(t *testing.T) {
	inv := newTestInventory()
	it := inv.Add(strikeFreedom())

	testCases := []struct {
		name string
		op   func() bool
	}{
		{"MoveToListed unknown", func() bool { return inv.MoveToListed(42) }},
		{"MoveToHeld from held", func() bool { return inv.MoveToHeld(it.ID) }},
		{"Sell from held", func() bool { _, ok := inv.Sell(it.ID, SaleDetails{}); return ok }},
		{"Revert from held", func() bool { _, _, ok := inv.Revert(it.ID); return ok }},
		{"Update unknown", func() bool { return inv.Update(42, ItemPatch{}) }},
		{"Delete unknown", func() bool { return inv.Delete(42) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.op() {
				t.Error("operation reported a change")
			}
			if h, l, s := inv.Len(); h != 1 || l != 0 || s != 0 {
				t.Errorf("Len() = %d, %d, %d, want 1, 0, 0", h, l, s)
			}
		})
	}
}

func TestInventory_DeleteOnEmpty(t *testing.T) {
	inv := newTestInventory()
	if inv.Delete(1234) {
		t.Error("Delete() on an empty inventory reported a change")
	}
	if h, l, s := inv.Len(); h+l+s != 0 {
		t.Errorf("Len() = %d, %d, %d, want empty", h, l, s)
	}
}

func TestInventory_SellRevert(t *testing.T) {
	inv := newTestInventory()
	it := inv.Add(strikeFreedom())
	inv.MoveToListed(it.ID)

	sold, ok := inv.Sell(it.ID, SaleDetails{SalePrice: D(70000), SaleMedium: "X"})
	if !ok {
		t.Fatal("Sell() = false")
	}
	if !sameItem(sold.Item, it) || !sold.SalePrice.Equal(D(70000)) || sold.SaleMedium != "X" {
		t.Errorf("Sell() = %+v", sold)
	}
	if _, l, s := inv.Len(); l != 0 || s != 1 {
		t.Errorf("after Sell, listed=%d sold=%d", l, s)
	}

	back, before, ok := inv.Revert(it.ID)
	if !ok {
		t.Fatal("Revert() = false")
	}
	if !sameSold(before, sold) {
		t.Errorf("Revert() returned sold item %+v, want %+v", before, sold)
	}
	got, _ := inv.Find(it.ID)
	if got.Stage != Listed || !sameItem(got.Item, it) || !sameItem(back, it) {
		t.Errorf("after Revert got %v %+v, want listed %+v", got.Stage, got.Item, it)
	}
	if !got.SalePrice.IsZero() || got.SaleMedium != "" {
		t.Errorf("sale details not stripped: %+v", got.SoldItem)
	}
}

func TestInventory_Update(t *testing.T) {
	inv := newTestInventory()
	held := inv.Add(NewItem{Name: "Aerial", Grade: "HG"})
	listed := inv.Add(NewItem{Name: "Sazabi", Grade: "RG"})
	sold := inv.Add(NewItem{Name: "Nu Gundam", Grade: "MG"})
	inv.MoveToListed(listed.ID)
	inv.MoveToListed(sold.ID)
	inv.Sell(sold.ID, SaleDetails{SalePrice: D(30000), SaleMedium: "기타"})

	name := "Aerial Rebuild"
	details := "painted"
	medium := "중고나라"
	cleared := P(0)
	cleared.Valid = false

	inv.Update(held.ID, ItemPatch{Name: &name})
	inv.Update(listed.ID, ItemPatch{Details: &details, DesiredSalePrice: &cleared})
	inv.Update(sold.ID, ItemPatch{SaleMedium: &medium})

	if got, _ := inv.Find(held.ID); got.Name != name || got.Grade != "HG" {
		t.Errorf("held update: %+v", got.Item)
	}
	if got, _ := inv.Find(listed.ID); got.Details != details || got.DesiredSalePrice.Valid {
		t.Errorf("listed update: %+v", got.Item)
	}
	if got, _ := inv.Find(sold.ID); got.SaleMedium != medium || !got.SalePrice.Equal(D(30000)) {
		t.Errorf("sold update: %+v", got.SoldItem)
	}
}

func TestInventory_UpdateBlankGrade(t *testing.T) {
	inv := newTestInventory()
	it := inv.Add(NewItem{Name: "Zaku"})
	empty := Grade("")
	inv.Update(it.ID, ItemPatch{Grade: &empty})
	got, ok := inv.Find(it.ID)
	if !ok {
		t.Fatal("item lost after update")
	}
	if got.Grade != GradeUnspecified {
		t.Errorf("Grade = %q, want %q", got.Grade, GradeUnspecified)
	}
}

func TestInventory_DeleteSearchesAllStages(t *testing.T) {
	inv := newTestInventory()
	a := inv.Add(NewItem{Name: "a"})
	b := inv.Add(NewItem{Name: "b"})
	c := inv.Add(NewItem{Name: "c"})
	inv.MoveToListed(b.ID)
	inv.MoveToListed(c.ID)
	inv.Sell(c.ID, SaleDetails{SalePrice: D(1), SaleMedium: "X"})

	for _, id := range []int64{a.ID, b.ID, c.ID} {
		if !inv.Delete(id) {
			t.Errorf("Delete(%d) = false", id)
		}
		if _, ok := inv.Find(id); ok {
			t.Errorf("item %d still found after Delete", id)
		}
	}
}

func TestInventory_Restore(t *testing.T) {
	inv := newTestInventory()
	err := inv.restore(
		[]Item{{ID: 5, Name: "a"}, {Name: "no id"}},
		[]Item{{ID: 9, Name: "b"}},
		nil,
	)
	if err != nil {
		t.Fatal(err)
	}
	held := inv.Held()
	if held[1].ID <= 9 {
		t.Errorf("restored item without id got %d, want an id above 9", held[1].ID)
	}
	if it := inv.Add(NewItem{Name: "c"}); it.ID <= held[1].ID {
		t.Errorf("new id %d is not above restored ids", it.ID)
	}

	err = inv.restore([]Item{{ID: 1}}, []Item{{ID: 1}}, nil)
	if err == nil {
		t.Error("restore() accepted an id in two stages")
	}
	if h, l, _ := inv.Len(); h != 3 || l != 1 {
		t.Errorf("failed restore changed the inventory: held=%d listed=%d", h, l)
	}
}
