package hobby

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Grade is the grade of a model kit, e.g. "MG".
type Grade string

// GradeUnspecified is the grade of an item created without one.
const GradeUnspecified Grade = "N/A"

// Grades lists the well known grades, in the order they are suggested.
var Grades = []Grade{"HG", "RG", "MG", "PG", "SD", "RE/100", "Hi-RM", "Mega"}

// SaleMediums lists the usual places an item is sold. Any other medium is accepted.
var SaleMediums = []string{"당근마켓", "중고나라", "기타"}

// Item is a collectible item.
//
// Monetary fields are optional: an invalid decimal.NullDecimal is a price that
// has not been entered.
type Item struct {
	ID               int64               `json:"id"`
	Grade            Grade               `json:"grade"`
	Name             string              `json:"name"`
	Quantity         int                 `json:"quantity"`
	PurchasePrice    decimal.NullDecimal `json:"purchasePrice"`
	DesiredSalePrice decimal.NullDecimal `json:"desiredSalePrice"`
	PurchaseLocation string              `json:"purchaseLocation"`
	Details          string              `json:"details"`
	ImageURLs        []string            `json:"imageUrls"`
	ShippingCost     decimal.NullDecimal `json:"shippingCost"`
	OtherFees        decimal.NullDecimal `json:"otherFees"`
}

// clone returns a copy of it that shares no memory with it.
func (it Item) clone() Item {
	it.ImageURLs = slices.Clone(it.ImageURLs)
	if it.ImageURLs == nil {
		it.ImageURLs = []string{}
	}
	return it
}

// SaleDetails are the fields attached to an item when it is sold.
type SaleDetails struct {
	SalePrice  decimal.Decimal `json:"salePrice"`
	SaleMedium string          `json:"saleMedium"`
}

// SoldItem is an Item whose sale has been finalized.
type SoldItem struct {
	Item
	SalePrice  decimal.Decimal `json:"salePrice"`
	SaleMedium string          `json:"saleMedium"`
}

func (s SoldItem) clone() SoldItem {
	s.Item = s.Item.clone()
	return s
}

// NewItem holds the fields of an item to be added.
//
// Zero values select the defaults: GradeUnspecified, a quantity of 1, no prices
// and no images.
type NewItem struct {
	Grade            Grade               `json:"grade"`
	Name             string              `json:"name"`
	Quantity         int                 `json:"quantity"`
	PurchasePrice    decimal.NullDecimal `json:"purchasePrice"`
	DesiredSalePrice decimal.NullDecimal `json:"desiredSalePrice"`
	PurchaseLocation string              `json:"purchaseLocation"`
	Details          string              `json:"details"`
	ImageURLs        []string            `json:"imageUrls"`
	ShippingCost     decimal.NullDecimal `json:"shippingCost"`
	OtherFees        decimal.NullDecimal `json:"otherFees"`
}

// ItemPatch holds the fields of an update. Nil fields are left unchanged.
//
// SalePrice and SaleMedium only apply to sold items.
type ItemPatch struct {
	Grade            *Grade
	Name             *string
	Quantity         *int
	PurchasePrice    *decimal.NullDecimal
	DesiredSalePrice *decimal.NullDecimal
	PurchaseLocation *string
	Details          *string
	ImageURLs        *[]string
	ShippingCost     *decimal.NullDecimal
	OtherFees        *decimal.NullDecimal
	SalePrice        *decimal.Decimal
	SaleMedium       *string
}

func (p ItemPatch) apply(it *Item) {
	if p.Grade != nil {
		it.Grade = *p.Grade
		if it.Grade == "" {
			it.Grade = GradeUnspecified
		}
	}
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Quantity != nil {
		it.Quantity = *p.Quantity
	}
	if p.PurchasePrice != nil {
		it.PurchasePrice = *p.PurchasePrice
	}
	if p.DesiredSalePrice != nil {
		it.DesiredSalePrice = *p.DesiredSalePrice
	}
	if p.PurchaseLocation != nil {
		it.PurchaseLocation = *p.PurchaseLocation
	}
	if p.Details != nil {
		it.Details = *p.Details
	}
	if p.ImageURLs != nil {
		it.ImageURLs = slices.Clone(*p.ImageURLs)
		if it.ImageURLs == nil {
			it.ImageURLs = []string{}
		}
	}
	if p.ShippingCost != nil {
		it.ShippingCost = *p.ShippingCost
	}
	if p.OtherFees != nil {
		it.OtherFees = *p.OtherFees
	}
}

func (p ItemPatch) applySold(s *SoldItem) {
	p.apply(&s.Item)
	if p.SalePrice != nil {
		s.SalePrice = *p.SalePrice
	}
	if p.SaleMedium != nil {
		s.SaleMedium = *p.SaleMedium
	}
}

// UnmarshalJSON decodes a patch where an explicit null clears an optional
// price, while an absent property leaves it unchanged.
func (p *ItemPatch) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var errs []error
	str := func(name string) *string {
		raw, ok := fields[name]
		if !ok {
			return nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			return nil
		}
		return &s
	}
	price := func(name string) *decimal.NullDecimal {
		raw, ok := fields[name]
		if !ok {
			return nil
		}
		var d decimal.NullDecimal
		if !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			if err := json.Unmarshal(raw, &d); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return nil
			}
		}
		return &d
	}

	if g := str("grade"); g != nil {
		grade := Grade(*g)
		p.Grade = &grade
	}
	p.Name = str("name")
	p.PurchaseLocation = str("purchaseLocation")
	p.Details = str("details")
	p.SaleMedium = str("saleMedium")
	p.PurchasePrice = price("purchasePrice")
	p.DesiredSalePrice = price("desiredSalePrice")
	p.ShippingCost = price("shippingCost")
	p.OtherFees = price("otherFees")
	if raw, ok := fields["quantity"]; ok {
		var q int
		if err := json.Unmarshal(raw, &q); err != nil {
			errs = append(errs, fmt.Errorf("quantity: %w", err))
		} else {
			p.Quantity = &q
		}
	}
	if raw, ok := fields["imageUrls"]; ok {
		var urls []string
		if err := json.Unmarshal(raw, &urls); err != nil {
			errs = append(errs, fmt.Errorf("imageUrls: %w", err))
		} else {
			p.ImageURLs = &urls
		}
	}
	if raw, ok := fields["salePrice"]; ok {
		var d decimal.Decimal
		if err := json.Unmarshal(raw, &d); err != nil {
			errs = append(errs, fmt.Errorf("salePrice: %w", err))
		} else {
			p.SalePrice = &d
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid item patch: %v", errs)
	}
	return nil
}

// Stage is one of the three disjoint collections an item belongs to.
type Stage int

const (
	// Held items are kept, not offered for sale.
	Held Stage = iota
	// Listed items are offered for sale.
	Listed
	// Sold items have been sold.
	Sold
)

func (s Stage) String() string {
	switch s {
	case Held:
		return "held"
	case Listed:
		return "listed"
	case Sold:
		return "sold"
	default:
		return "unknown"
	}
}

// ParseStage parses a string into a Stage.
func ParseStage(s string) (Stage, error) {
	switch s {
	case "held":
		return Held, nil
	case "listed":
		return Listed, nil
	case "sold":
		return Sold, nil
	default:
		return 0, fmt.Errorf("unknown stage: %q", s)
	}
}

// Located is the result of a lookup across all stages. Sale fields are only
// meaningful when Stage is Sold.
type Located struct {
	Stage Stage
	SoldItem
}

// MarshalJSON encodes the item with its stage, sale fields are omitted unless sold.
func (l Located) MarshalJSON() ([]byte, error) {
	if l.Stage == Sold {
		return json.Marshal(struct {
			Stage string `json:"stage"`
			SoldItem
		}{l.Stage.String(), l.SoldItem})
	}
	return json.Marshal(struct {
		Stage string `json:"stage"`
		Item
	}{l.Stage.String(), l.Item})
}
