package domain

import "context"

type PropertyRepository interface {
	// Write paths
	CreateProperty(ctx context.Context, p Property) (Property, error)
	UpdateProperty(ctx context.Context, id string, patch PropertyPatch) (Property, error)
	DeleteProperty(ctx context.Context, id string) error

	// Read paths (newest first)
	ListProperties(ctx context.Context) ([]Property, error)
	GetProperty(ctx context.Context, id string) (Property, error)
}

type LeadRepository interface {
	CreateLead(ctx context.Context, l Lead) (Lead, error)
	UpdateLead(ctx context.Context, id string, patch LeadPatch) (Lead, error)
	DeleteLead(ctx context.Context, id string) error

	// ListLeads returns leads newest first with propertyId populated.
	ListLeads(ctx context.Context) ([]Lead, error)
}

type SiteVisitRepository interface {
	CreateSiteVisit(ctx context.Context, v SiteVisit) (SiteVisit, error)
	UpdateSiteVisit(ctx context.Context, id string, patch SiteVisitPatch) (SiteVisit, error)
	DeleteSiteVisit(ctx context.Context, id string) error

	// ListSiteVisits returns visits by date ascending with propertyId populated.
	ListSiteVisits(ctx context.Context) ([]SiteVisit, error)
}

// Repository is the full document store.
type Repository interface {
	PropertyRepository
	LeadRepository
	SiteVisitRepository
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, keys ...string) error
}
