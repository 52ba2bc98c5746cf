// Package catalog holds the browse-side computations over the loaded
// listings: filtering, search, comparison, pricing and dashboard counts.
package catalog

import (
	"sort"
	"strings"

	"estate_market/internal/client/store"
	"estate_market/internal/domain"
)

type Preset string

const (
	PresetAll      Preset = ""
	PresetFeatured Preset = "featured"
	PresetLatest   Preset = "latest"
	PresetBudget   Preset = "budget"
	PresetPremium  Preset = "premium"
)

func (p Preset) Valid() bool {
	switch p {
	case PresetAll, PresetFeatured, PresetLatest, PresetBudget, PresetPremium:
		return true
	}
	return false
}

// Filters are the advanced filters. Zero values are inactive.
type Filters struct {
	PriceMin     int64
	PriceMax     int64
	AreaMin      float64
	AreaMax      float64
	Bedrooms     int // minimum
	Bathrooms    int // minimum
	PropertyType domain.PropertyType
	Status       domain.PropertyStatus
	City         string
}

// Query combines a preset, the advanced filters, a selected city tab and a
// free-text search. A selected city overrides Filters.City.
type Query struct {
	Preset       Preset
	Filters      Filters
	SelectedCity string
	Search       string
}

// Apply returns the listings matching q. The input is never modified.
func Apply(props []store.Property, q Query) []store.Property {
	out := make([]store.Property, 0, len(props))
	for _, p := range props {
		if matchPreset(p, q.Preset) && q.Filters.match(p) && matchCity(p, q) && matchSearch(p, q.Search) {
			out = append(out, p)
		}
	}
	if q.Preset == PresetLatest {
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

func matchPreset(p store.Property, preset Preset) bool {
	switch preset {
	case PresetFeatured:
		return p.IsFeatured
	case PresetBudget:
		return p.IsBudgetFriendly
	case PresetPremium:
		return p.IsPremium
	}
	return true
}

func (f Filters) match(p store.Property) bool {
	switch {
	case f.PriceMin != 0 && p.Price < f.PriceMin,
		f.PriceMax != 0 && p.Price > f.PriceMax,
		f.AreaMin != 0 && p.Area < f.AreaMin,
		f.AreaMax != 0 && p.Area > f.AreaMax,
		f.Bedrooms != 0 && p.Bedrooms < f.Bedrooms,
		f.Bathrooms != 0 && p.Bathrooms < f.Bathrooms,
		f.PropertyType != "" && p.PropertyType != f.PropertyType,
		f.Status != "" && p.Status != f.Status:
		return false
	}
	return true
}

func matchCity(p store.Property, q Query) bool {
	if q.SelectedCity != "" {
		return p.City == q.SelectedCity
	}
	return q.Filters.City == "" || p.City == q.Filters.City
}

func matchSearch(p store.Property, search string) bool {
	if search == "" {
		return true
	}
	s := strings.ToLower(search)
	for _, field := range []string{p.Title, p.City, string(p.PropertyType), p.Description} {
		if strings.Contains(strings.ToLower(field), s) {
			return true
		}
	}
	return false
}

// QuickSearchLimit caps the quick lookup results.
const QuickSearchLimit = 5

// Search is the quick lookup box: title, city or type, case-insensitive,
// first limit hits. A non-positive limit returns every hit.
func Search(props []store.Property, query string, limit int) []store.Property {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	s := strings.ToLower(query)
	var out []store.Property
	for _, p := range props {
		if strings.Contains(strings.ToLower(p.Title), s) || strings.Contains(strings.ToLower(p.City), s) ||
			strings.Contains(string(p.PropertyType), s) {
			out = append(out, p)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

// Title is the heading shown for a preset.
func Title(p Preset) string {
	switch p {
	case PresetFeatured:
		return "Featured Properties"
	case PresetLatest:
		return "Latest Listings"
	case PresetBudget:
		return "Budget Friendly"
	case PresetPremium:
		return "Premium Properties"
	}
	return "All Properties"
}
