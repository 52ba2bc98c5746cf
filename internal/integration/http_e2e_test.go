//go:build integration

package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	driver "go.mongodb.org/mongo-driver/mongo"

	"estate_market/internal/adapters/gateway"
	httpserver "estate_market/internal/adapters/http_server"
	"estate_market/internal/app"
	"estate_market/internal/client/persist"
	"estate_market/internal/client/store"
	"estate_market/internal/domain"
	mongorepo "estate_market/internal/storage/mongo"
)

// ---------- helpers ----------
func ptr[T any](v T) *T { return &v }

func startMongo(t *testing.T) *driver.Database {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7.0",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mongo: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	uri := fmt.Sprintf("mongodb://127.0.0.1:%s", resource.GetPort("27017/tcp"))
	var cli *driver.Client
	if err := pool.Retry(func() error {
		var e error
		cli, e = mongorepo.Connect(context.Background(), uri)
		return e
	}); err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() { _ = cli.Disconnect(context.Background()) })
	return cli.Database("estate_e2e")
}

// stack wires the real repo, services and router behind an httptest server.
func stack(t *testing.T) (*mongorepo.Repo, *gateway.Client) {
	t.Helper()
	repo := mongorepo.New(startMongo(t))
	require.NoError(t, repo.EnsureIndexes(context.Background()))

	srv := httpserver.New(httpserver.Options{})
	srv.MountHandlers(&httpserver.Handlers{
		Q: app.NewQueryService(repo, nil, 0),
		C: app.NewCommandService(repo, nil),
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return repo, gateway.New(ts.URL+"/api", nil)
}

// ---------- the tests ----------
func TestHTTP_EndToEnd_ListingVisitAndLead(t *testing.T) {
	_, gw := stack(t)
	ctx := context.Background()

	status, err := gw.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Server is running", status)

	s := store.New(ctx, gw, persist.NewMemoryStorage(), store.Options{
		Passphrase: "admin123",
		Logger:     zerolog.Nop(),
	})
	t.Cleanup(func() { _ = s.Close() })
	require.True(t, s.Login(ctx, "admin123"))

	var in domain.Property
	domain.PropertyPatch{
		Title:        ptr("Sea View Flat"),
		City:         ptr("Mumbai"),
		Price:        ptr(int64(9_500_000)),
		Area:         ptr(1100.0),
		PropertyType: ptr(domain.TypeApartment),
		Images:       ptr([]string{"blob:http://localhost/abc"}),
	}.Apply(&in)
	p, err := s.AddProperty(ctx, in.PropertyFields)
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	assert.Equal(t, []string{store.Placeholder}, p.Images)

	when := time.Date(2026, 11, 2, 11, 0, 0, 0, time.UTC)
	v, err := s.AddSiteVisit(ctx, domain.SiteVisitFields{
		Name:       "Asha",
		Phone:      "+91 90000 00000",
		PropertyID: domain.Ref(p.ID),
		Date:       when,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VisitPending, v.Status)

	require.NoError(t, s.Refresh(ctx))

	leads := s.Leads()
	require.Len(t, leads, 1)
	assert.Equal(t, domain.LeadSiteVisitRequested, leads[0].Status)
	require.NotNil(t, leads[0].VisitDate)
	assert.True(t, when.Equal(*leads[0].VisitDate))
	require.NotNil(t, leads[0].PropertyID.Property, "list endpoints populate the listing")
	assert.Equal(t, "Sea View Flat", leads[0].PropertyID.Property.Title)

	visits := s.SiteVisits()
	require.Len(t, visits, 1)
	require.NotNil(t, visits[0].PropertyID.Property)
	assert.Equal(t, p.ID, visits[0].PropertyID.ID)

	require.NoError(t, s.UpdateSiteVisitStatus(ctx, v.ID, domain.VisitConfirmed))
	require.NoError(t, s.UpdateLeadStatus(ctx, leads[0].ID, domain.LeadNegotiation))
	assert.Equal(t, domain.LeadNegotiation, s.Leads()[0].Status)

	_, err = gw.GetProperty(ctx, "does-not-exist")
	assert.ErrorIs(t, err, gateway.ErrNotFound)

	_, err = gw.CreateProperty(ctx, domain.PropertyFields{Title: "No city"})
	assert.ErrorIs(t, err, gateway.ErrBadRequest)

	require.NoError(t, s.DeleteProperty(ctx, p.ID))
	_, ok := s.Property(p.ID)
	assert.False(t, ok)
}

func TestHTTP_EndToEnd_ReconcilerRepairsMissingLead(t *testing.T) {
	repo, gw := stack(t)
	ctx := context.Background()

	prop, err := gw.CreateProperty(ctx, domain.PropertyFields{
		Title: "Plot", City: "Goa", Price: 2_000_000, Area: 2400, PropertyType: domain.TypePlot,
	})
	require.NoError(t, err)

	// Book straight through the gateway so no companion lead is written.
	_, err = gw.CreateSiteVisit(ctx, domain.SiteVisitFields{
		Name: "Vikram", Phone: "9000", PropertyID: domain.Ref(prop.Key()),
		Date: time.Date(2026, 12, 16, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	rep, err := app.NewReconciler(repo).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Created)

	rep, err = app.NewReconciler(repo).Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, rep.Created, "second run is a no-op")

	leads, err := gw.ListLeads(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Vikram", leads[0].Name)
}
