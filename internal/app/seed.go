package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"estate_market/internal/domain"
)

// SeedLead points at a listing by its position in SeedData.Properties.
// A negative Property leaves the lead unattached.
type SeedLead struct {
	domain.LeadFields
	Property int
}

type SeedVisit struct {
	domain.SiteVisitFields
	Property int
}

type SeedData struct {
	Properties []domain.PropertyPatch
	Leads      []SeedLead
	Visits     []SeedVisit
}

type SeedReport struct {
	Properties int
	Leads      int
	Visits     int
	Failed     int
}

// Seeder loads fixture data through the command service.
type Seeder struct {
	cmd     *CommandService
	workers int64
}

func NewSeeder(cmd *CommandService, workers int) *Seeder {
	if workers < 1 {
		workers = 1
	}
	return &Seeder{cmd: cmd, workers: int64(workers)}
}

// Seed inserts the listings first, then leads and visits wired to the new ids.
func (s *Seeder) Seed(ctx context.Context, data SeedData) (SeedReport, error) {
	var rep SeedReport
	ids := make([]string, len(data.Properties))

	failed, err := s.fanOut(ctx, len(data.Properties), func(i int) error {
		p, err := s.cmd.CreateProperty(ctx, data.Properties[i])
		if err != nil {
			return err
		}
		ids[i] = p.ID
		return nil
	})
	if err != nil {
		return rep, err
	}
	rep.Properties = len(data.Properties) - failed
	rep.Failed += failed

	ref := func(i int) (domain.PropertyRef, bool) {
		if i < 0 {
			return domain.PropertyRef{}, true
		}
		if i >= len(ids) || ids[i] == "" {
			return domain.PropertyRef{}, false
		}
		return domain.Ref(ids[i]), true
	}

	failed, err = s.fanOut(ctx, len(data.Leads), func(i int) error {
		in := data.Leads[i]
		r, ok := ref(in.Property)
		if !ok {
			return eris.Errorf("lead %q: property %d was not seeded", in.Name, in.Property)
		}
		in.PropertyID = r
		_, err := s.cmd.CreateLead(ctx, in.LeadFields)
		return err
	})
	if err != nil {
		return rep, err
	}
	rep.Leads = len(data.Leads) - failed
	rep.Failed += failed

	failed, err = s.fanOut(ctx, len(data.Visits), func(i int) error {
		in := data.Visits[i]
		r, ok := ref(in.Property)
		if !ok || r.ID == "" {
			return eris.Errorf("visit %q: property %d was not seeded", in.Name, in.Property)
		}
		in.PropertyID = r
		_, err := s.cmd.CreateSiteVisit(ctx, in.SiteVisitFields)
		return err
	})
	if err != nil {
		return rep, err
	}
	rep.Visits = len(data.Visits) - failed
	rep.Failed += failed
	return rep, nil
}

// fanOut runs fn for 0..n-1 with at most s.workers in flight and counts
// failures. Only a cancelled context aborts.
func (s *Seeder) fanOut(ctx context.Context, n int, fn func(i int) error) (int, error) {
	sem := semaphore.NewWeighted(s.workers)
	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)
	for i := 0; i < n; i++ {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return int(failed.Load()), eris.Wrap(err, "semaphore acquire")
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			if err := fn(i); err != nil {
				failed.Add(1)
				log.Warn().Int("index", i).Err(err).Msg("seed insert failed")
			}
		}(i)
	}
	wg.Wait()
	return int(failed.Load()), nil
}
