package catalog_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate_market/internal/client/catalog"
	"estate_market/internal/client/store"
	"estate_market/internal/domain"
)

var now = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

func listing(id string, mod func(*store.Property)) store.Property {
	p := store.Property{ID: id, CreatedAt: now.Add(-24 * time.Hour)}
	p.Title = "Listing " + id
	p.City = "Mumbai"
	p.Price = 5_000_000
	p.Area = 1000
	p.Bedrooms = 2
	p.Bathrooms = 2
	p.PropertyType = domain.TypeApartment
	p.Status = domain.StatusActive
	if mod != nil {
		mod(&p)
	}
	return p
}

func ids(ps []store.Property) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func fixture() []store.Property {
	return []store.Property{
		listing("a", func(p *store.Property) { p.IsFeatured = true; p.CreatedAt = now.Add(-72 * time.Hour) }),
		listing("b", func(p *store.Property) {
			p.IsBudgetFriendly = true
			p.Price = 3_200_000
			p.City = "Pune"
			p.Bedrooms = 1
			p.Description = "Close to the IT park"
		}),
		listing("c", func(p *store.Property) {
			p.IsPremium = true
			p.Price = 25_000_000
			p.Area = 4200
			p.Bedrooms = 5
			p.Bathrooms = 5
			p.PropertyType = domain.TypeVilla
			p.Status = domain.StatusHotDeal
			p.City = "Goa"
			p.CreatedAt = now.Add(-time.Hour)
		}),
	}
}

func TestApply_Presets(t *testing.T) {
	props := fixture()
	cases := map[catalog.Preset][]string{
		catalog.PresetAll:      {"a", "b", "c"},
		catalog.PresetFeatured: {"a"},
		catalog.PresetBudget:   {"b"},
		catalog.PresetPremium:  {"c"},
		catalog.PresetLatest:   {"c", "b", "a"},
	}
	for preset, want := range cases {
		t.Run(string(preset), func(t *testing.T) {
			assert.Equal(t, want, ids(catalog.Apply(props, catalog.Query{Preset: preset})))
		})
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids(props), "input untouched")
}

func TestApply_Filters(t *testing.T) {
	props := fixture()
	cases := []struct {
		name string
		f    catalog.Filters
		want []string
	}{
		{"price range", catalog.Filters{PriceMin: 4_000_000, PriceMax: 10_000_000}, []string{"a"}},
		{"min bedrooms", catalog.Filters{Bedrooms: 2}, []string{"a", "c"}},
		{"min bathrooms", catalog.Filters{Bathrooms: 3}, []string{"c"}},
		{"area", catalog.Filters{AreaMin: 2000}, []string{"c"}},
		{"area max", catalog.Filters{AreaMax: 1000}, []string{"a", "b"}},
		{"type", catalog.Filters{PropertyType: domain.TypeVilla}, []string{"c"}},
		{"status", catalog.Filters{Status: domain.StatusHotDeal}, []string{"c"}},
		{"city", catalog.Filters{City: "Pune"}, []string{"b"}},
		{"none match", catalog.Filters{City: "Delhi"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(catalog.Apply(props, catalog.Query{Filters: tc.f})))
		})
	}
}

func TestApply_SelectedCityOverridesFilter(t *testing.T) {
	got := catalog.Apply(fixture(), catalog.Query{SelectedCity: "Goa", Filters: catalog.Filters{City: "Pune"}})
	assert.Equal(t, []string{"c"}, ids(got))
}

func TestApply_Search(t *testing.T) {
	props := fixture()
	assert.Equal(t, []string{"c"}, ids(catalog.Apply(props, catalog.Query{Search: "VILLA"})))
	assert.Equal(t, []string{"b"}, ids(catalog.Apply(props, catalog.Query{Search: "it park"})))
	assert.Equal(t, []string{"b"}, ids(catalog.Apply(props, catalog.Query{Search: "pune"})))
	assert.Equal(t, []string{"b"}, ids(catalog.Apply(props, catalog.Query{Preset: catalog.PresetBudget, Search: "listing"})))
}

func TestSearch_QuickLookup(t *testing.T) {
	var props []store.Property
	for i := 0; i < 8; i++ {
		props = append(props, listing(string(rune('a'+i)), nil))
	}
	assert.Len(t, catalog.Search(props, "mumbai", catalog.QuickSearchLimit), catalog.QuickSearchLimit)
	assert.Len(t, catalog.Search(props, "apartment", 0), 8)
	assert.Nil(t, catalog.Search(props, "   ", 5))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Featured Properties", catalog.Title(catalog.PresetFeatured))
	assert.Equal(t, "Latest Listings", catalog.Title(catalog.PresetLatest))
	assert.Equal(t, "Budget Friendly", catalog.Title(catalog.PresetBudget))
	assert.Equal(t, "Premium Properties", catalog.Title(catalog.PresetPremium))
	assert.Equal(t, "All Properties", catalog.Title(""))
	assert.False(t, catalog.Preset("cheap").Valid())
}

func TestFormatPrice(t *testing.T) {
	cases := map[int64]string{
		25_000_000: "₹2.50 Cr",
		10_000_000: "₹1.00 Cr",
		8_500_000:  "₹85.00 L",
		100_000:    "₹1.00 L",
		99_999:     "₹99,999",
		500:        "₹500",
	}
	for in, want := range cases {
		assert.Equal(t, want, catalog.FormatPrice(in), "price %d", in)
	}
}

func TestComparison_Toggle(t *testing.T) {
	var c catalog.Comparison
	props := fixture()
	extra := listing("d", nil)

	for _, p := range props {
		assert.True(t, c.Toggle(p))
	}
	assert.False(t, c.Toggle(extra), "full")
	assert.Equal(t, []string{"a", "b", "c"}, ids(c.Items()))

	assert.False(t, c.Toggle(props[1]), "removed")
	assert.Equal(t, []string{"a", "c"}, ids(c.Items()))
	assert.True(t, c.Toggle(extra))
	assert.Equal(t, []string{"a", "c", "d"}, ids(c.Items()))

	rows := c.Rows()
	require.NotEmpty(t, rows)
	assert.Equal(t, "Price", rows[0].Label)
	assert.Equal(t, []string{"₹50.00 L", "₹2.50 Cr", "₹50.00 L"}, rows[0].Values)
	assert.Equal(t, "Area (sqft)", rows[3].Label)
	assert.Equal(t, "4200 sqft", rows[3].Values[1])
}

func TestCalculate_Defaults(t *testing.T) {
	r := catalog.Calculate(catalog.DefaultInvestment)
	assert.Equal(t, 400000.0, r.LoanAmount)
	assert.Equal(t, 2982.0, r.MonthlyEMI)
	assert.Equal(t, 715750.0, r.TotalLoanCost)
	assert.Equal(t, 315750.0, r.TotalInterest)
	assert.Equal(t, -482.0, r.MonthlyProfit)
	assert.Equal(t, -5788.0, r.YearlyProfit)
	assert.InDelta(t, -1.16, r.ROI, 1e-9)
}

func TestCalculate_ZeroInterest(t *testing.T) {
	r := catalog.Calculate(catalog.InvestmentInput{
		PropertyPrice:  1_200_000,
		LoanTermYears:  10,
		MonthlyRental:  15000,
		AnnualExpenses: 12000,
	})
	assert.Equal(t, 10000.0, r.MonthlyEMI)
	assert.Equal(t, 1_200_000.0, r.TotalLoanCost)
	assert.Zero(t, r.TotalInterest)
	assert.Equal(t, 4000.0, r.MonthlyProfit)
	assert.Equal(t, 48000.0, r.YearlyProfit)
	assert.InDelta(t, 4.0, r.ROI, 1e-9)
}

func TestCalculate_NoTermNoPrice(t *testing.T) {
	r := catalog.Calculate(catalog.InvestmentInput{})
	assert.Zero(t, r.MonthlyEMI)
	assert.Zero(t, r.ROI)
}

func TestDashboard(t *testing.T) {
	props := fixture()
	props = append(props, listing("old", func(p *store.Property) { p.CreatedAt = now.Add(-8 * 24 * time.Hour) }))
	visit := func(st domain.SiteVisitStatus) store.SiteVisit {
		v := store.SiteVisit{}
		v.Status = st
		return v
	}
	visits := []store.SiteVisit{
		visit(domain.VisitPending), visit(domain.VisitConfirmed),
		visit(domain.VisitCompleted), visit(domain.VisitCancelled),
	}
	s := catalog.Dashboard(props, visits, now)
	assert.Equal(t, catalog.Stats{TotalProperties: 4, NewListings: 3, OpenSiteVisits: 2, HotDeals: 1}, s)
}
