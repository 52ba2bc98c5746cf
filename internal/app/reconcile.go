package app

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"estate_market/internal/domain"
)

// Reconciler repairs site visits whose companion lead was never written.
type Reconciler struct {
	repo domain.Repository
	now  func() time.Time
}

func NewReconciler(r domain.Repository) *Reconciler {
	return &Reconciler{repo: r, now: time.Now}
}

type ReconcileReport struct {
	Visits  int
	Created int
	Failed  int
}

// Run lists visits and leads, then creates the missing companion leads.
// Cancelled visits are skipped. Individual create failures are counted and
// logged; only list failures abort the run.
func (r *Reconciler) Run(ctx context.Context) (ReconcileReport, error) {
	var (
		visits []domain.SiteVisit
		leads  []domain.Lead
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		visits, err = r.repo.ListSiteVisits(gctx)
		return eris.Wrap(err, "list site visits")
	})
	g.Go(func() error {
		var err error
		leads, err = r.repo.ListLeads(gctx)
		return eris.Wrap(err, "list leads")
	})
	if err := g.Wait(); err != nil {
		return ReconcileReport{}, err
	}

	// undated leads match any visit for the same phone and listing
	have := make(map[companionKey]struct{}, len(leads))
	for _, l := range leads {
		have[leadKey(l)] = struct{}{}
	}

	rep := ReconcileReport{Visits: len(visits)}
	for _, v := range visits {
		if v.Status == domain.VisitCancelled {
			continue
		}
		k := visitKey(v)
		if _, ok := have[k]; ok {
			continue
		}
		if _, ok := have[companionKey{phone: k.phone, propertyID: k.propertyID}]; ok {
			continue
		}
		in := v.CompanionLead()
		if _, err := r.repo.CreateLead(ctx, in.NewLead(r.now().UTC())); err != nil {
			rep.Failed++
			log.Error().Err(err).Str("visit_id", v.ID).Msg("companion lead create failed")
			continue
		}
		have[k] = struct{}{}
		rep.Created++
	}
	return rep, nil
}

type companionKey struct {
	phone, propertyID string
	visitMillis       int64
}

func leadKey(l domain.Lead) companionKey {
	k := companionKey{phone: l.Phone, propertyID: l.PropertyID.ID}
	if l.VisitDate != nil {
		k.visitMillis = l.VisitDate.UnixMilli()
	}
	return k
}

func visitKey(v domain.SiteVisit) companionKey {
	return companionKey{phone: v.Phone, propertyID: v.PropertyID.ID, visitMillis: v.Date.UnixMilli()}
}
