package hobby

import "strings"

// AllGrades is the grade filter value that matches every grade.
const AllGrades Grade = "All"

// Filter selects items by grade and by a free text query.
//
// The zero Filter matches everything.
type Filter struct {
	Query string
	Grade Grade
}

func (f Filter) gradeMatch(g Grade) bool {
	return f.Grade == "" || f.Grade == AllGrades || f.Grade == g
}

func contains(field, query string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), query)
}

// Match reports whether it is selected by the filter.
func (f Filter) Match(it Item) bool {
	if !f.gradeMatch(it.Grade) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return contains(it.Name, q) ||
		contains(string(it.Grade), q) ||
		contains(it.PurchaseLocation, q) ||
		contains(it.Details, q)
}

// MatchSold reports whether s is selected by the filter. The sale medium is
// also searched.
func (f Filter) MatchSold(s SoldItem) bool {
	if f.Match(s.Item) {
		return true
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	return q != "" && f.gradeMatch(s.Grade) && contains(s.SaleMedium, q)
}

// Items returns the items selected by the filter.
func (f Filter) Items(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// SoldItems returns the sold items selected by the filter.
func (f Filter) SoldItems(items []SoldItem) []SoldItem {
	out := make([]SoldItem, 0, len(items))
	for _, it := range items {
		if f.MatchSold(it) {
			out = append(out, it)
		}
	}
	return out
}
