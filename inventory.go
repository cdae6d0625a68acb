package hobby

import (
	"fmt"
	"slices"
	"time"
)

// Inventory is the item ledger: three disjoint collections of items, Held,
// Listed and Sold, and the moves between them.
//
// An id belongs to at most one collection. Every move removes the item from
// its source before inserting it into its destination. Operations on an
// unknown id do nothing and report false.
//
// An Inventory is not safe for concurrent use, see Store.
type Inventory struct {
	held   []Item
	listed []Item
	sold   []SoldItem
	lastID int64
	now    func() time.Time
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		held:   make([]Item, 0),
		listed: make([]Item, 0),
		sold:   make([]SoldItem, 0),
		now:    time.Now,
	}
}

// nextID allocates a new id. Ids are creation times in milliseconds, bumped
// when needed so that they are never reused.
func (inv *Inventory) nextID() int64 {
	id := inv.now().UnixMilli()
	if id <= inv.lastID {
		id = inv.lastID + 1
	}
	inv.lastID = id
	return id
}

// Add creates a new item in Held and returns it.
//
// Add applies defaults but does not validate: an empty name is stored as is.
func (inv *Inventory) Add(n NewItem) Item {
	it := Item{
		ID:               inv.nextID(),
		Grade:            n.Grade,
		Name:             n.Name,
		Quantity:         n.Quantity,
		PurchasePrice:    n.PurchasePrice,
		DesiredSalePrice: n.DesiredSalePrice,
		PurchaseLocation: n.PurchaseLocation,
		Details:          n.Details,
		ImageURLs:        slices.Clone(n.ImageURLs),
		ShippingCost:     n.ShippingCost,
		OtherFees:        n.OtherFees,
	}
	if it.Grade == "" {
		it.Grade = GradeUnspecified
	}
	if it.Quantity == 0 {
		it.Quantity = 1
	}
	if it.ImageURLs == nil {
		it.ImageURLs = []string{}
	}
	inv.held = append(inv.held, it)
	return it.clone()
}

func indexOf(items []Item, id int64) int {
	return slices.IndexFunc(items, func(it Item) bool { return it.ID == id })
}

func soldIndexOf(items []SoldItem, id int64) int {
	return slices.IndexFunc(items, func(it SoldItem) bool { return it.ID == id })
}

// move relocates the item id from one collection to the other.
func move(from, to *[]Item, id int64) bool {
	i := indexOf(*from, id)
	if i < 0 {
		return false
	}
	it := (*from)[i]
	*from = slices.Delete(*from, i, i+1)
	*to = append(*to, it)
	return true
}

// MoveToListed offers a held item for sale.
func (inv *Inventory) MoveToListed(id int64) bool { return move(&inv.held, &inv.listed, id) }

// MoveToHeld withdraws a listed item from sale.
func (inv *Inventory) MoveToHeld(id int64) bool { return move(&inv.listed, &inv.held, id) }

// Sell moves a listed item to Sold with the sale details attached.
//
// Sell does not touch any fund, see Store.Sell.
func (inv *Inventory) Sell(id int64, d SaleDetails) (SoldItem, bool) {
	i := indexOf(inv.listed, id)
	if i < 0 {
		return SoldItem{}, false
	}
	it := inv.listed[i]
	inv.listed = slices.Delete(inv.listed, i, i+1)
	s := SoldItem{Item: it, SalePrice: d.SalePrice, SaleMedium: d.SaleMedium}
	inv.sold = append(inv.sold, s)
	return s.clone(), true
}

// Revert moves a sold item back to Listed, stripping the sale details.
//
// It returns the listed item and the sold item as it was before the reversal.
func (inv *Inventory) Revert(id int64) (Item, SoldItem, bool) {
	i := soldIndexOf(inv.sold, id)
	if i < 0 {
		return Item{}, SoldItem{}, false
	}
	s := inv.sold[i]
	inv.sold = slices.Delete(inv.sold, i, i+1)
	inv.listed = append(inv.listed, s.Item)
	return s.Item.clone(), s.clone(), true
}

// Update merges the patch into the item id, whatever its stage.
func (inv *Inventory) Update(id int64, p ItemPatch) bool {
	for _, list := range [][]Item{inv.held, inv.listed} {
		if i := indexOf(list, id); i >= 0 {
			p.apply(&list[i])
			return true
		}
	}
	if i := soldIndexOf(inv.sold, id); i >= 0 {
		p.applySold(&inv.sold[i])
		return true
	}
	return false
}

// Delete removes the item id from whichever collection holds it.
func (inv *Inventory) Delete(id int64) bool {
	if i := indexOf(inv.held, id); i >= 0 {
		inv.held = slices.Delete(inv.held, i, i+1)
		return true
	}
	if i := indexOf(inv.listed, id); i >= 0 {
		inv.listed = slices.Delete(inv.listed, i, i+1)
		return true
	}
	if i := soldIndexOf(inv.sold, id); i >= 0 {
		inv.sold = slices.Delete(inv.sold, i, i+1)
		return true
	}
	return false
}

// Find looks up the item id across all stages.
func (inv *Inventory) Find(id int64) (Located, bool) {
	if i := indexOf(inv.held, id); i >= 0 {
		return Located{Stage: Held, SoldItem: SoldItem{Item: inv.held[i].clone()}}, true
	}
	if i := indexOf(inv.listed, id); i >= 0 {
		return Located{Stage: Listed, SoldItem: SoldItem{Item: inv.listed[i].clone()}}, true
	}
	if i := soldIndexOf(inv.sold, id); i >= 0 {
		return Located{Stage: Sold, SoldItem: inv.sold[i].clone()}, true
	}
	return Located{}, false
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.clone()
	}
	return out
}

func cloneSold(items []SoldItem) []SoldItem {
	out := make([]SoldItem, len(items))
	for i, it := range items {
		out[i] = it.clone()
	}
	return out
}

// Held returns a copy of the held items, oldest first.
func (inv *Inventory) Held() []Item { return cloneItems(inv.held) }

// Listed returns a copy of the listed items, in the order they were listed.
func (inv *Inventory) Listed() []Item { return cloneItems(inv.listed) }

// Sold returns a copy of the sold items, in the order they were sold.
func (inv *Inventory) Sold() []SoldItem { return cloneSold(inv.sold) }

// Len returns the number of items in each stage.
func (inv *Inventory) Len() (held, listed, sold int) {
	return len(inv.held), len(inv.listed), len(inv.sold)
}

// Check verifies that no id belongs to more than one collection, or twice to
// the same one.
func (inv *Inventory) Check() error {
	seen := make(map[int64]Stage)
	visit := func(id int64, s Stage) error {
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("item %d is both %v and %v", id, prev, s)
		}
		seen[id] = s
		return nil
	}
	for _, it := range inv.held {
		if err := visit(it.ID, Held); err != nil {
			return err
		}
	}
	for _, it := range inv.listed {
		if err := visit(it.ID, Listed); err != nil {
			return err
		}
	}
	for _, it := range inv.sold {
		if err := visit(it.ID, Sold); err != nil {
			return err
		}
	}
	return nil
}

// restore replaces the collections. Items without an id get a new one, and
// the id allocator is moved past every id present.
func (inv *Inventory) restore(held, listed []Item, sold []SoldItem) error {
	next := &Inventory{
		held:   cloneItems(held),
		listed: cloneItems(listed),
		sold:   cloneSold(sold),
		lastID: inv.lastID,
		now:    inv.now,
	}
	for _, it := range next.held {
		next.lastID = max(next.lastID, it.ID)
	}
	for _, it := range next.listed {
		next.lastID = max(next.lastID, it.ID)
	}
	for _, it := range next.sold {
		next.lastID = max(next.lastID, it.ID)
	}
	for i := range next.held {
		if next.held[i].ID == 0 {
			next.held[i].ID = next.nextID()
		}
	}
	for i := range next.listed {
		if next.listed[i].ID == 0 {
			next.listed[i].ID = next.nextID()
		}
	}
	for i := range next.sold {
		if next.sold[i].ID == 0 {
			next.sold[i].ID = next.nextID()
		}
	}
	if err := next.Check(); err != nil {
		return err
	}
	*inv = *next
	return nil
}
