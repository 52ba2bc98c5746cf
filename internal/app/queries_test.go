package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate_market/internal/app"
	"estate_market/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu         sync.Mutex
	props      []domain.Property
	leads      []domain.Lead
	visits     []domain.SiteVisit
	listCalls  int
	createErr  error
	nextID     int
	lastUpdate domain.PropertyPatch
}

func (f *fakeRepo) id() string {
	f.nextID++
	return fmt.Sprintf("id%d", f.nextID)
}

func (f *fakeRepo) CreateProperty(ctx context.Context, p domain.Property) (domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.id()
	f.props = append([]domain.Property{p}, f.props...)
	return p, nil
}
func (f *fakeRepo) UpdateProperty(ctx context.Context, id string, patch domain.PropertyPatch) (domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastUpdate = patch
	for i := range f.props {
		if f.props[i].ID == id {
			patch.Apply(&f.props[i])
			return f.props[i], nil
		}
	}
	return domain.Property{}, domain.ErrNotFound
}
func (f *fakeRepo) DeleteProperty(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.props {
		if f.props[i].ID == id {
			f.props = append(f.props[:i], f.props[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
func (f *fakeRepo) ListProperties(ctx context.Context) ([]domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]domain.Property{}, f.props...), nil
}
func (f *fakeRepo) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.props {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Property{}, domain.ErrNotFound
}
func (f *fakeRepo) CreateLead(ctx context.Context, l domain.Lead) (domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return domain.Lead{}, f.createErr
	}
	l.ID = f.id()
	f.leads = append([]domain.Lead{l}, f.leads...)
	return l, nil
}
func (f *fakeRepo) UpdateLead(ctx context.Context, id string, patch domain.LeadPatch) (domain.Lead, error) {
	return domain.Lead{}, domain.ErrNotFound
}
func (f *fakeRepo) DeleteLead(ctx context.Context, id string) error { return nil }
func (f *fakeRepo) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Lead{}, f.leads...), nil
}
func (f *fakeRepo) CreateSiteVisit(ctx context.Context, v domain.SiteVisit) (domain.SiteVisit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v.ID = f.id()
	f.visits = append(f.visits, v)
	return v, nil
}
func (f *fakeRepo) UpdateSiteVisit(ctx context.Context, id string, patch domain.SiteVisitPatch) (domain.SiteVisit, error) {
	return domain.SiteVisit{}, domain.ErrNotFound
}
func (f *fakeRepo) DeleteSiteVisit(ctx context.Context, id string) error { return nil }
func (f *fakeRepo) ListSiteVisits(ctx context.Context) ([]domain.SiteVisit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.SiteVisit{}, f.visits...), nil
}

// fakeCache stores JSON so reads never alias the writer's values.
type fakeCache struct {
	store   map[string][]byte
	deleted []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.store, k)
	}
	c.deleted = append(c.deleted, keys...)
	return nil
}

// ---- tests ----

func seedProp(id, title string) domain.Property {
	return domain.Property{ID: id, PropertyFields: domain.PropertyFields{Title: title, City: "Pune", Images: []string{}, Amenities: []string{}}}
}

func TestListProperties_CacheMissThenHit(t *testing.T) {
	repo := &fakeRepo{props: []domain.Property{seedProp("p1", "Villa")}}
	q := app.NewQueryService(repo, &fakeCache{}, 10*time.Minute)

	out, err := q.ListProperties(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)

	repo.props[0].Title = "SHOULD NOT SEE THIS"
	out2, err := q.ListProperties(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Villa", out2[0].Title)
	assert.Equal(t, 1, repo.listCalls)
}

func TestGetProperty_NotFoundIsNotCached(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, time.Minute)

	_, err := q.GetProperty(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Empty(t, cache.store)
}

func TestQueryService_NilCacheReadsThrough(t *testing.T) {
	repo := &fakeRepo{props: []domain.Property{seedProp("p1", "Villa")}}
	q := app.NewQueryService(repo, nil, time.Minute)

	_, err := q.ListProperties(context.Background())
	require.NoError(t, err)
	_, err = q.ListProperties(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)

	p, err := q.GetProperty(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Villa", p.Title)
}

func ptr[T any](v T) *T { return &v }
