package store

import (
	"strings"
	"time"

	"estate_market/internal/adapters/gateway"
	"estate_market/internal/domain"
)

// Placeholder replaces images that cannot be dereferenced after upload.
const Placeholder = "/placeholder.svg"

// Property is a listing in canonical client shape.
type Property struct {
	ID string `json:"id"`
	domain.PropertyFields
	CreatedAt time.Time `json:"createdAt"`
}

// Lead keeps the populated listing, when the server sent one, in PropertyID.
type Lead struct {
	ID string `json:"id"`
	domain.LeadFields
	CreatedAt time.Time `json:"createdAt"`
}

type SiteVisit struct {
	ID string `json:"id"`
	domain.SiteVisitFields
	CreatedAt time.Time `json:"createdAt"`
}

// NormalizeImages swaps blob URLs and dev asset paths for the placeholder
// and never returns an empty list.
func NormalizeImages(in []string) []string {
	if len(in) == 0 {
		return []string{Placeholder}
	}
	out := make([]string, len(in))
	for i, u := range in {
		if strings.HasPrefix(u, "blob:") || strings.Contains(u, "/src/assets/") {
			u = Placeholder
		}
		out[i] = u
	}
	return out
}

func normalizeProperty(r gateway.PropertyRecord) Property {
	f := r.PropertyFields
	f.Images = NormalizeImages(f.Images)
	if f.Amenities == nil {
		f.Amenities = []string{}
	}
	return Property{ID: r.Key(), PropertyFields: f, CreatedAt: r.CreatedAt}
}

func normalizeRef(ref domain.PropertyRef) domain.PropertyRef {
	if ref.Property == nil {
		return ref
	}
	p := *ref.Property
	p.Images = NormalizeImages(p.Images)
	return domain.PropertyRef{ID: ref.ID, Property: &p}
}

func normalizeLead(r gateway.LeadRecord) Lead {
	f := r.LeadFields
	f.PropertyID = normalizeRef(f.PropertyID)
	return Lead{ID: r.Key(), LeadFields: f, CreatedAt: r.CreatedAt}
}

func normalizeSiteVisit(r gateway.SiteVisitRecord) SiteVisit {
	f := r.SiteVisitFields
	f.PropertyID = normalizeRef(f.PropertyID)
	return SiteVisit{ID: r.Key(), SiteVisitFields: f, CreatedAt: r.CreatedAt}
}

func mapSlice[T, U any](in []T, f func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
