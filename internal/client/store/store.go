// Package store is the client-side application state: the listing, lead and
// visit collections plus the locally persisted favorites, recently viewed
// ids and admin flag.
package store

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"estate_market/internal/adapters/gateway"
	"estate_market/internal/client/persist"
	"estate_market/internal/domain"
)

// MaxRecentlyViewed bounds the recently viewed list.
const MaxRecentlyViewed = 10

// Gateway is the subset of the REST client the store drives.
type Gateway interface {
	ListProperties(ctx context.Context) ([]gateway.PropertyRecord, error)
	CreateProperty(ctx context.Context, in domain.PropertyFields) (gateway.PropertyRecord, error)
	UpdateProperty(ctx context.Context, id string, patch domain.PropertyPatch) (gateway.PropertyRecord, error)
	DeleteProperty(ctx context.Context, id string) error

	ListLeads(ctx context.Context) ([]gateway.LeadRecord, error)
	CreateLead(ctx context.Context, in domain.LeadFields) (gateway.LeadRecord, error)
	UpdateLead(ctx context.Context, id string, patch domain.LeadPatch) (gateway.LeadRecord, error)

	ListSiteVisits(ctx context.Context) ([]gateway.SiteVisitRecord, error)
	CreateSiteVisit(ctx context.Context, in domain.SiteVisitFields) (gateway.SiteVisitRecord, error)
	UpdateSiteVisit(ctx context.Context, id string, patch domain.SiteVisitPatch) (gateway.SiteVisitRecord, error)
}

type Options struct {
	// Passphrase unlocks admin mode. A value starting with "$2" is treated
	// as a bcrypt hash. Empty disables login.
	Passphrase string
	Logger     zerolog.Logger
}

// CompanionLeadError reports a booked visit whose companion lead failed.
// The visit is kept; the server reconciler creates the lead later.
type CompanionLeadError struct {
	VisitID string
	Err     error
}

func (e *CompanionLeadError) Error() string {
	return fmt.Sprintf("site visit %s booked but companion lead failed: %v", e.VisitID, e.Err)
}

func (e *CompanionLeadError) Unwrap() error { return e.Err }

type Store struct {
	gw   Gateway
	kv   persist.Storage
	pass string
	log  zerolog.Logger

	mu         sync.RWMutex
	properties []Property
	leads      []Lead
	visits     []SiteVisit
	favorites  []string
	recent     []string
	admin      bool
	loading    bool

	// saveMu orders persisted writes the same way mu ordered the edits.
	// dirty holds the keys whose last write failed.
	saveMu sync.Mutex
	dirty  map[string]bool
}

// New loads the persisted client state and eagerly fetches the collections.
// Fetch failures are logged and leave the collections empty.
func New(ctx context.Context, gw Gateway, kv persist.Storage, opts Options) *Store {
	s := &Store{gw: gw, kv: kv, pass: opts.Passphrase, log: opts.Logger, dirty: map[string]bool{}}

	var err error
	if s.favorites, err = persist.LoadList(kv, persist.KeyFavorites); err != nil {
		s.log.Warn().Err(err).Msg("load favorites")
	}
	if s.recent, err = persist.LoadList(kv, persist.KeyRecentlyViewed); err != nil {
		s.log.Warn().Err(err).Msg("load recently viewed")
	}
	if s.admin, err = persist.LoadFlag(kv, persist.KeyIsAdmin); err != nil {
		s.log.Warn().Err(err).Msg("load admin flag")
	}

	if err := s.Refresh(ctx); err != nil {
		s.log.Error().Err(err).Msg("initial fetch failed")
	}
	return s
}

// Close retries the list writes that failed earlier. Lists that were saved
// are left alone, so changes made meanwhile by another session survive.
func (s *Store) Close() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	var errs []error
	for _, key := range []string{persist.KeyFavorites, persist.KeyRecentlyViewed} {
		if !s.dirty[key] {
			continue
		}
		s.mu.RLock()
		list := clone(s.favorites)
		if key == persist.KeyRecentlyViewed {
			list = clone(s.recent)
		}
		s.mu.RUnlock()
		if err := persist.SaveList(s.kv, key, list); err != nil {
			errs = append(errs, err)
			continue
		}
		delete(s.dirty, key)
	}
	return errors.Join(errs...)
}

// saveList writes list under key and tracks failures for Close.
// Callers hold saveMu.
func (s *Store) saveList(key string, list []string) {
	if err := persist.SaveList(s.kv, key, list); err != nil {
		s.dirty[key] = true
		s.log.Error().Err(err).Str("key", key).Msg("persist list")
		return
	}
	delete(s.dirty, key)
}

// ---- fetching ----

// Refresh re-reads properties, then leads and visits concurrently while admin.
func (s *Store) Refresh(ctx context.Context) error {
	errProps := s.fetchProperties(ctx)
	if !s.IsAdmin() {
		return errProps
	}
	return errors.Join(errProps, s.fetchAdmin(ctx))
}

func (s *Store) fetchProperties(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	recs, err := s.gw.ListProperties(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.log.Error().Err(err).Msg("fetch properties")
		return err
	}
	s.properties = mapSlice(recs, normalizeProperty)
	return nil
}

func (s *Store) fetchAdmin(ctx context.Context) error {
	var (
		leads  []gateway.LeadRecord
		visits []gateway.SiteVisitRecord
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		if leads, err = s.gw.ListLeads(ctx); err != nil {
			s.log.Error().Err(err).Msg("fetch leads")
			return err
		}
		s.mu.Lock()
		s.leads = mapSlice(leads, normalizeLead)
		s.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		var err error
		if visits, err = s.gw.ListSiteVisits(ctx); err != nil {
			s.log.Error().Err(err).Msg("fetch site visits")
			return err
		}
		s.mu.Lock()
		s.visits = mapSlice(visits, normalizeSiteVisit)
		s.mu.Unlock()
		return nil
	})
	return g.Wait()
}

// ---- client-only state ----

// ToggleFavorite flips membership of id and reports the new membership.
func (s *Store) ToggleFavorite(id string) bool {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	on := true
	if i := indexOf(s.favorites, id); i >= 0 {
		s.favorites = append(s.favorites[:i:i], s.favorites[i+1:]...)
		on = false
	} else {
		s.favorites = append(clone(s.favorites), id)
	}
	fav := clone(s.favorites)
	s.mu.Unlock()

	s.saveList(persist.KeyFavorites, fav)
	return on
}

// AddToRecentlyViewed moves id to the front and keeps the newest ten.
func (s *Store) AddToRecentlyViewed(id string) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	next := make([]string, 0, MaxRecentlyViewed)
	next = append(next, id)
	for _, v := range s.recent {
		if v != id && len(next) < MaxRecentlyViewed {
			next = append(next, v)
		}
	}
	s.recent = next
	rec := clone(next)
	s.mu.Unlock()

	s.saveList(persist.KeyRecentlyViewed, rec)
}

// ---- properties ----

func (s *Store) AddProperty(ctx context.Context, in domain.PropertyFields) (Property, error) {
	rec, err := s.gw.CreateProperty(ctx, in)
	if err != nil {
		s.log.Error().Err(err).Msg("add property")
		return Property{}, err
	}
	p := normalizeProperty(rec)
	s.mu.Lock()
	s.properties = prepend(s.properties, p)
	s.mu.Unlock()
	return p, nil
}

func (s *Store) UpdateProperty(ctx context.Context, id string, patch domain.PropertyPatch) (Property, error) {
	rec, err := s.gw.UpdateProperty(ctx, id, patch)
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("update property")
		return Property{}, err
	}
	p := normalizeProperty(rec)
	s.mu.Lock()
	s.properties = replace(s.properties, id, p, func(v Property) string { return v.ID })
	s.mu.Unlock()
	return p, nil
}

func (s *Store) DeleteProperty(ctx context.Context, id string) error {
	if err := s.gw.DeleteProperty(ctx, id); err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("delete property")
		return err
	}
	s.mu.Lock()
	s.properties = remove(s.properties, id, func(v Property) string { return v.ID })
	s.mu.Unlock()
	return nil
}

// ---- leads and visits ----

func (s *Store) AddLead(ctx context.Context, in domain.LeadFields) (Lead, error) {
	rec, err := s.gw.CreateLead(ctx, in)
	if err != nil {
		s.log.Error().Err(err).Msg("add lead")
		return Lead{}, err
	}
	l := normalizeLead(rec)
	s.mu.Lock()
	s.leads = prepend(s.leads, l)
	s.mu.Unlock()
	return l, nil
}

// AddSiteVisit books a visit and then records its companion lead. The two
// writes are independent: a failed lead yields *CompanionLeadError with the
// visit kept in state.
func (s *Store) AddSiteVisit(ctx context.Context, in domain.SiteVisitFields) (SiteVisit, error) {
	rec, err := s.gw.CreateSiteVisit(ctx, in)
	if err != nil {
		s.log.Error().Err(err).Msg("add site visit")
		return SiteVisit{}, err
	}
	v := normalizeSiteVisit(rec)
	s.mu.Lock()
	s.visits = prepend(s.visits, v)
	s.mu.Unlock()

	if _, err := s.AddLead(ctx, in.CompanionLead()); err != nil {
		return v, &CompanionLeadError{VisitID: v.ID, Err: err}
	}
	return v, nil
}

func (s *Store) UpdateLeadStatus(ctx context.Context, id string, st domain.LeadStatus) error {
	rec, err := s.gw.UpdateLead(ctx, id, domain.LeadPatch{Status: &st})
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("update lead status")
		return err
	}
	l := normalizeLead(rec)
	s.mu.Lock()
	s.leads = replace(s.leads, id, l, func(v Lead) string { return v.ID })
	s.mu.Unlock()
	return nil
}

func (s *Store) UpdateSiteVisitStatus(ctx context.Context, id string, st domain.SiteVisitStatus) error {
	rec, err := s.gw.UpdateSiteVisit(ctx, id, domain.SiteVisitPatch{Status: &st})
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("update site visit status")
		return err
	}
	v := normalizeSiteVisit(rec)
	s.mu.Lock()
	s.visits = replace(s.visits, id, v, func(x SiteVisit) string { return x.ID })
	s.mu.Unlock()
	return nil
}

// ---- admin session ----

// Login unlocks admin mode on a passphrase match and loads leads and visits.
func (s *Store) Login(ctx context.Context, password string) bool {
	if !s.matches(password) {
		return false
	}
	s.setAdmin(true)
	if err := s.fetchAdmin(ctx); err != nil {
		s.log.Error().Err(err).Msg("admin fetch failed")
	}
	return true
}

// Logout clears the admin flag. Leads and visits stay in memory.
func (s *Store) Logout() {
	s.setAdmin(false)
}

func (s *Store) setAdmin(on bool) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.mu.Lock()
	s.admin = on
	s.mu.Unlock()
	if err := persist.SaveFlag(s.kv, persist.KeyIsAdmin, on); err != nil {
		s.log.Error().Err(err).Bool("admin", on).Msg("persist admin flag")
	}
}

func (s *Store) matches(password string) bool {
	if s.pass == "" {
		return false
	}
	if strings.HasPrefix(s.pass, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(s.pass), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.pass), []byte(password)) == 1
}

// ---- accessors ----

func (s *Store) Properties() []Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.properties)
}

// Property looks a listing up by id in the loaded collection.
func (s *Store) Property(id string) (Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.properties {
		if p.ID == id {
			return p, true
		}
	}
	return Property{}, false
}

func (s *Store) Leads() []Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.leads)
}

func (s *Store) SiteVisits() []SiteVisit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.visits)
}

func (s *Store) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.favorites)
}

func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.favorites, id) >= 0
}

func (s *Store) RecentlyViewed() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.recent)
}

func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin
}

func (s *Store) IsLoadingProperties() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// ---- slice helpers ----

func clone[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func prepend[T any](in []T, v T) []T {
	out := make([]T, 0, len(in)+1)
	out = append(out, v)
	return append(out, in...)
}

func replace[T any](in []T, id string, v T, key func(T) string) []T {
	out := clone(in)
	for i := range out {
		if key(out[i]) == id {
			out[i] = v
		}
	}
	return out
}

func remove[T any](in []T, id string, key func(T) string) []T {
	out := make([]T, 0, len(in))
	for _, x := range in {
		if key(x) != id {
			out = append(out, x)
		}
	}
	return out
}

func indexOf(list []string, id string) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}
