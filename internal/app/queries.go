package app

import (
	"context"
	"time"

	"estate_market/internal/domain"
)

const (
	keyAllProperties = "properties:all"
	keyPropertyPref  = "property:"
)

func propertyKey(id string) string { return keyPropertyPref + id }

type QueryService struct {
	repo     domain.Repository
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewQueryService wires the read side. cache may be nil.
func NewQueryService(r domain.Repository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	var out []domain.Property
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, keyAllProperties, &out); ok {
			return out, nil
		}
	}
	out, err := s.repo.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, keyAllProperties, out, int(s.cacheTTL.Seconds()))
	}
	return copyProperties(out), nil
}

func (s *QueryService) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	key := propertyKey(id)
	var p domain.Property
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &p); ok {
			return p, nil
		}
	}
	p, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds()))
	}
	return p, nil
}

// Leads and visits are admin views and always read through to the store.

func (s *QueryService) ListLeads(ctx context.Context) ([]domain.Lead, error) {
	return s.repo.ListLeads(ctx)
}

func (s *QueryService) ListSiteVisits(ctx context.Context) ([]domain.SiteVisit, error) {
	return s.repo.ListSiteVisits(ctx)
}

// copyProperties avoids aliasing the slice handed to the cache.
func copyProperties(in []domain.Property) []domain.Property {
	out := make([]domain.Property, len(in))
	copy(out, in)
	return out
}
