package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate_market/internal/app"
	"estate_market/internal/domain"
)

func TestCreateProperty_ValidatesAndDefaults(t *testing.T) {
	repo := &fakeRepo{}
	cmd := app.NewCommandService(repo, nil)

	_, err := cmd.CreateProperty(context.Background(), domain.PropertyPatch{
		Title: ptr("Villa"), Price: ptr(int64(100)), Area: ptr(10.0),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, repo.props)

	p, err := cmd.CreateProperty(context.Background(), domain.PropertyPatch{
		Title:        ptr("Villa"),
		City:         ptr("Goa"),
		Price:        ptr(int64(100)),
		Area:         ptr(10.0),
		PropertyType: ptr(domain.TypeVilla),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, domain.StatusActive, p.Status)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestPropertyWrites_InvalidateCache(t *testing.T) {
	repo := &fakeRepo{props: []domain.Property{seedProp("p1", "Villa")}}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, time.Minute)
	cmd := app.NewCommandService(repo, cache)
	ctx := context.Background()

	_, err := q.ListProperties(ctx)
	require.NoError(t, err)
	_, err = q.GetProperty(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, cache.store, 2)

	_, err = cmd.UpdateProperty(ctx, "p1", domain.PropertyPatch{Title: ptr("Renamed")})
	require.NoError(t, err)
	assert.Empty(t, cache.store)
	assert.ElementsMatch(t, []string{"properties:all", "property:p1"}, cache.deleted)

	got, err := q.GetProperty(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	list, err := q.ListProperties(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", list[0].Title)

	require.NoError(t, cmd.DeleteProperty(ctx, "p1"))
	list, err = q.ListProperties(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateProperty_InvalidEnumRejected(t *testing.T) {
	repo := &fakeRepo{props: []domain.Property{seedProp("p1", "Villa")}}
	cmd := app.NewCommandService(repo, nil)

	bad := domain.PropertyStatus("gone")
	_, err := cmd.UpdateProperty(context.Background(), "p1", domain.PropertyPatch{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, repo.lastUpdate.Empty(), "repo must not be called")
}

func TestCreateLeadAndVisit_Validation(t *testing.T) {
	cmd := app.NewCommandService(&fakeRepo{}, nil)
	ctx := context.Background()

	_, err := cmd.CreateLead(ctx, domain.LeadFields{Phone: "1"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	l, err := cmd.CreateLead(ctx, domain.LeadFields{Name: "A", Phone: "1"})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadRaw, l.Status)

	_, err = cmd.CreateSiteVisit(ctx, domain.SiteVisitFields{Name: "A", Phone: "1"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	v, err := cmd.CreateSiteVisit(ctx, domain.SiteVisitFields{
		Name: "A", Phone: "1", PropertyID: domain.Ref("p1"), Date: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VisitPending, v.Status)
}
