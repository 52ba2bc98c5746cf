package catalog

import "estate_market/internal/client/store"

// MaxCompare is the number of listings shown side by side.
const MaxCompare = 3

// Comparison is an ordered set of at most MaxCompare listings.
type Comparison struct {
	items []store.Property
}

// Toggle removes p when present, otherwise appends it while there is room.
// It reports whether p is in the set afterwards.
func (c *Comparison) Toggle(p store.Property) bool {
	for i, it := range c.items {
		if it.ID == p.ID {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return false
		}
	}
	if len(c.items) >= MaxCompare {
		return false
	}
	c.items = append(c.items, p)
	return true
}

func (c *Comparison) Items() []store.Property {
	return append([]store.Property(nil), c.items...)
}

func (c *Comparison) Len() int { return len(c.items) }

// Row is one attribute across the compared listings.
type Row struct {
	Label  string
	Values []string
}

// Rows renders the comparison table.
func (c *Comparison) Rows() []Row {
	type column struct {
		label string
		value func(store.Property) string
	}
	columns := []column{
		{"Price", func(p store.Property) string { return FormatPrice(p.Price) }},
		{"Bedrooms", func(p store.Property) string { return itoa(p.Bedrooms) }},
		{"Bathrooms", func(p store.Property) string { return itoa(p.Bathrooms) }},
		{"Area (sqft)", func(p store.Property) string { return trimFloat(p.Area) + " sqft" }},
		{"Property Type", func(p store.Property) string { return string(p.PropertyType) }},
		{"Status", func(p store.Property) string { return string(p.Status) }},
		{"Featured", func(p store.Property) string { return yesNo(p.IsFeatured) }},
		{"Premium", func(p store.Property) string { return yesNo(p.IsPremium) }},
		{"Budget Friendly", func(p store.Property) string { return yesNo(p.IsBudgetFriendly) }},
	}
	rows := make([]Row, 0, len(columns))
	for _, s := range columns {
		r := Row{Label: s.label, Values: make([]string, len(c.items))}
		for i, p := range c.items {
			r.Values[i] = s.value(p)
		}
		rows = append(rows, r)
	}
	return rows
}
