package catalog

import (
	"time"

	"estate_market/internal/client/store"
	"estate_market/internal/domain"
)

// NewListingWindow is how far back a listing counts as new.
const NewListingWindow = 7 * 24 * time.Hour

type Stats struct {
	TotalProperties int `json:"totalProperties"`
	NewListings     int `json:"newListings"`
	OpenSiteVisits  int `json:"siteVisits"` // pending or confirmed
	HotDeals        int `json:"hotDeals"`
}

// Dashboard counts the headline figures as of now.
func Dashboard(props []store.Property, visits []store.SiteVisit, now time.Time) Stats {
	s := Stats{TotalProperties: len(props)}
	cutoff := now.Add(-NewListingWindow)
	for _, p := range props {
		if p.CreatedAt.After(cutoff) {
			s.NewListings++
		}
		if p.Status == domain.StatusHotDeal {
			s.HotDeals++
		}
	}
	for _, v := range visits {
		if v.Status == domain.VisitPending || v.Status == domain.VisitConfirmed {
			s.OpenSiteVisits++
		}
	}
	return s
}
