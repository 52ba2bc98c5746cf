package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate_market/internal/app"
	"estate_market/internal/domain"
)

func visit(id, phone, prop string, at time.Time, st domain.SiteVisitStatus) domain.SiteVisit {
	return domain.SiteVisit{ID: id, SiteVisitFields: domain.SiteVisitFields{
		Name: "N", Phone: phone, PropertyID: domain.Ref(prop), Date: at, Status: st,
	}}
}

func TestReconciler_CreatesMissingCompanionLeads(t *testing.T) {
	at := time.Date(2026, 6, 1, 11, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		visits: []domain.SiteVisit{
			visit("v1", "111", "p1", at, domain.VisitPending),
			visit("v2", "222", "p2", at, domain.VisitConfirmed),
			visit("v3", "333", "p3", at, domain.VisitCancelled),
		},
	}
	// v1 already has its companion lead
	_, err := repo.CreateLead(context.Background(), repo.visits[0].CompanionLead().NewLead(at))
	require.NoError(t, err)

	rep, err := app.NewReconciler(repo).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Visits)
	assert.Equal(t, 1, rep.Created)
	assert.Zero(t, rep.Failed)

	leads, _ := repo.ListLeads(context.Background())
	require.Len(t, leads, 2)
	got := leads[0]
	assert.Equal(t, "222", got.Phone)
	assert.Equal(t, "p2", got.PropertyID.ID)
	assert.Equal(t, domain.LeadSiteVisitRequested, got.Status)
	assert.Equal(t, domain.CompanionSource, got.Source)
	require.NotNil(t, got.VisitDate)
	assert.True(t, got.VisitDate.Equal(at))

	// second run is a no-op
	rep, err = app.NewReconciler(repo).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rep.Created)
}

func TestReconciler_UndatedLeadMatches(t *testing.T) {
	at := time.Now().UTC()
	repo := &fakeRepo{
		visits: []domain.SiteVisit{visit("v1", "111", "p1", at, domain.VisitPending)},
		leads: []domain.Lead{{ID: "l1", LeadFields: domain.LeadFields{
			Name: "N", Phone: "111", PropertyID: domain.Ref("p1"),
		}}},
	}
	rep, err := app.NewReconciler(repo).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rep.Created)
}

func TestReconciler_CountsCreateFailures(t *testing.T) {
	repo := &fakeRepo{
		visits:    []domain.SiteVisit{visit("v1", "111", "p1", time.Now(), domain.VisitPending)},
		createErr: errors.New("boom"),
	}
	rep, err := app.NewReconciler(repo).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Failed)
	assert.Zero(t, rep.Created)
}
