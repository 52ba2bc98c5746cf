package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"estate_market/internal/domain"
)

type CommandService struct {
	repo  domain.Repository
	cache domain.Cache
	now   func() time.Time
}

// NewCommandService wires the write side. cache may be nil.
func NewCommandService(r domain.Repository, c domain.Cache) *CommandService {
	return &CommandService{repo: r, cache: c, now: time.Now}
}

// ---- properties ----

func (s *CommandService) CreateProperty(ctx context.Context, in domain.PropertyPatch) (domain.Property, error) {
	if err := in.ValidateCreate(); err != nil {
		return domain.Property{}, err
	}
	p, err := s.repo.CreateProperty(ctx, in.NewProperty(s.now().UTC()))
	if err != nil {
		return domain.Property{}, err
	}
	s.invalidate(ctx, "")
	return p, nil
}

func (s *CommandService) UpdateProperty(ctx context.Context, id string, patch domain.PropertyPatch) (domain.Property, error) {
	if err := patch.Validate(); err != nil {
		return domain.Property{}, err
	}
	p, err := s.repo.UpdateProperty(ctx, id, patch)
	if err != nil {
		return domain.Property{}, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

func (s *CommandService) DeleteProperty(ctx context.Context, id string) error {
	if err := s.repo.DeleteProperty(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// invalidate evicts the list snapshot and, when id is set, the single entry.
func (s *CommandService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	keys := []string{keyAllProperties}
	if id != "" {
		keys = append(keys, propertyKey(id))
	}
	if err := s.cache.Del(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}

// ---- leads ----

func (s *CommandService) CreateLead(ctx context.Context, in domain.LeadFields) (domain.Lead, error) {
	if err := in.Validate(); err != nil {
		return domain.Lead{}, err
	}
	return s.repo.CreateLead(ctx, in.NewLead(s.now().UTC()))
}

func (s *CommandService) UpdateLead(ctx context.Context, id string, patch domain.LeadPatch) (domain.Lead, error) {
	if err := patch.Validate(); err != nil {
		return domain.Lead{}, err
	}
	return s.repo.UpdateLead(ctx, id, patch)
}

func (s *CommandService) DeleteLead(ctx context.Context, id string) error {
	return s.repo.DeleteLead(ctx, id)
}

// ---- site visits ----

func (s *CommandService) CreateSiteVisit(ctx context.Context, in domain.SiteVisitFields) (domain.SiteVisit, error) {
	if err := in.Validate(); err != nil {
		return domain.SiteVisit{}, err
	}
	return s.repo.CreateSiteVisit(ctx, in.NewSiteVisit(s.now().UTC()))
}

func (s *CommandService) UpdateSiteVisit(ctx context.Context, id string, patch domain.SiteVisitPatch) (domain.SiteVisit, error) {
	if err := patch.Validate(); err != nil {
		return domain.SiteVisit{}, err
	}
	return s.repo.UpdateSiteVisit(ctx, id, patch)
}

func (s *CommandService) DeleteSiteVisit(ctx context.Context, id string) error {
	return s.repo.DeleteSiteVisit(ctx, id)
}
