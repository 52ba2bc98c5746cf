package domain_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate_market/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestPropertyPatch_ValidateCreate_MissingFields(t *testing.T) {
	cases := map[string]domain.PropertyPatch{
		"no city":    {Title: ptr("T"), Price: ptr(int64(100)), Area: ptr(50.0), PropertyType: ptr(domain.TypeVilla)},
		"no title":   {City: ptr("C"), Price: ptr(int64(100)), Area: ptr(50.0), PropertyType: ptr(domain.TypeVilla)},
		"no price":   {Title: ptr("T"), City: ptr("C"), Area: ptr(50.0), PropertyType: ptr(domain.TypeVilla)},
		"no area":    {Title: ptr("T"), City: ptr("C"), Price: ptr(int64(100)), PropertyType: ptr(domain.TypeVilla)},
		"blank":      {Title: ptr("  "), City: ptr("C"), Price: ptr(int64(100)), Area: ptr(50.0), PropertyType: ptr(domain.TypeVilla)},
		"no type":    {Title: ptr("T"), City: ptr("C"), Price: ptr(int64(100)), Area: ptr(50.0)},
		"empty type": {Title: ptr("T"), City: ptr("C"), Price: ptr(int64(100)), Area: ptr(50.0), PropertyType: ptr(domain.PropertyType(""))},
		"bad type":   {Title: ptr("T"), City: ptr("C"), Price: ptr(int64(100)), Area: ptr(50.0), PropertyType: ptr(domain.PropertyType("castle"))},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			err := p.ValidateCreate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestPropertyPatch_NewProperty_Defaults(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := domain.PropertyPatch{Title: ptr("T"), City: ptr("C"), Price: ptr(int64(100)), Area: ptr(50.0), PropertyType: ptr(domain.TypePlot)}
	require.NoError(t, p.ValidateCreate())

	prop := p.NewProperty(now)
	assert.Equal(t, "T", prop.Title)
	assert.Equal(t, domain.StatusActive, prop.Status)
	assert.Equal(t, domain.TypePlot, prop.PropertyType)
	assert.Equal(t, []string{}, prop.Images)
	assert.Equal(t, []string{}, prop.Amenities)
	assert.False(t, prop.IsFeatured)
	assert.Equal(t, domain.Location{}, prop.Location)
	assert.Equal(t, now, prop.CreatedAt)
}

func TestPropertyPatch_Validate_Enums(t *testing.T) {
	bad := domain.PropertyType("castle")
	err := domain.PropertyPatch{PropertyType: &bad}.Validate()
	assert.ErrorIs(t, err, domain.ErrValidation)

	ok := domain.TypePlot
	assert.NoError(t, domain.PropertyPatch{PropertyType: &ok}.Validate())
}

func TestPatchFromFields_SkipsEmptyEnums(t *testing.T) {
	p := domain.PatchFromFields(domain.PropertyFields{Title: "T", City: "C"})
	assert.Nil(t, p.PropertyType)
	assert.Nil(t, p.Status)
	require.NotNil(t, p.Price)
	assert.Equal(t, int64(0), *p.Price)
}

func TestLeadFields_ValidateAndDefaults(t *testing.T) {
	err := domain.LeadFields{Name: "A"}.Validate()
	assert.ErrorIs(t, err, domain.ErrValidation)

	f := domain.LeadFields{Name: " A ", Phone: "1"}
	require.NoError(t, f.Validate())
	l := f.NewLead(time.Now())
	assert.Equal(t, "A", l.Name)
	assert.Equal(t, domain.LeadRaw, l.Status)
}

func TestSiteVisitFields_Validate(t *testing.T) {
	err := domain.SiteVisitFields{Name: "A", Phone: "1", PropertyID: domain.Ref("P1")}.Validate()
	assert.ErrorIs(t, err, domain.ErrValidation, "date is required")

	v := domain.SiteVisitFields{Name: "A", Phone: "1", PropertyID: domain.Ref("P1"), Date: time.Now()}
	require.NoError(t, v.Validate())
	assert.Equal(t, domain.VisitPending, v.NewSiteVisit(time.Now()).Status)
}

func TestPropertyRef_DecodesAllShapes(t *testing.T) {
	var doc struct {
		A domain.PropertyRef `json:"a"`
		B domain.PropertyRef `json:"b"`
		C domain.PropertyRef `json:"c"`
		D domain.PropertyRef `json:"d"`
	}
	in := `{"a":null,"b":"abc","c":{"_id":"p1","title":"Villa"},"d":{"id":"p2","city":"Goa"}}`
	require.NoError(t, json.Unmarshal([]byte(in), &doc))

	assert.True(t, doc.A.IsZero())
	assert.Equal(t, "abc", doc.B.ID)
	assert.Nil(t, doc.B.Property)
	require.NotNil(t, doc.C.Property)
	assert.Equal(t, "p1", doc.C.ID)
	assert.Equal(t, "Villa", doc.C.Property.Title)
	assert.Equal(t, "p2", doc.D.ID)
	assert.Equal(t, "Goa", doc.D.Property.City)
}

func TestPropertyRef_EncodesIDOrNull(t *testing.T) {
	b, err := json.Marshal(struct {
		X domain.PropertyRef `json:"x"`
		Y domain.PropertyRef `json:"y"`
	}{X: domain.Ref("p1")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":"p1","y":null}`, string(b))
}
