package scan

import (
	"github.com/rs/zerolog"

	"github.com/inboxdot/inboxdot/internal/logging"
	"github.com/inboxdot/inboxdot/internal/page"
	"github.com/inboxdot/inboxdot/internal/store"
)

// Reconciler brings visible thread rows in line with the stored verdicts.
// It only reads the store; verdicts are written by the Evaluator alone.
type Reconciler struct {
	store     *store.Store
	extractor *idExtractor
	label     string
	logger    zerolog.Logger
}

// NewReconciler creates a Reconciler. label is the descriptive text attached
// to each marker.
func NewReconciler(st *store.Store, sectionPrefix, label string) *Reconciler {
	return &Reconciler{
		store:     st,
		extractor: newIDExtractor(sectionPrefix),
		label:     label,
		logger:    logging.Component("reconciler"),
	}
}

// Reconcile scans the visible rows and adds or removes markers according to
// the stored verdicts. Rows without a verdict get no marker. The operation is
// idempotent.
func (r *Reconciler) Reconcile(p page.Page) error {
	rows, err := p.ThreadRows()
	if err != nil {
		return err
	}

	marked := 0
	for _, row := range rows {
		id, ok := r.extractor.extract(row.Href())
		if !ok {
			continue
		}

		verdict, ok := r.store.Get(id)
		if ok && verdict.IsDue {
			row.EnsureMarker(r.label)
			marked++
		} else {
			row.RemoveMarker()
		}
	}

	r.logger.Debug().Int("rows", len(rows)).Int("marked", marked).Msg("reconciled thread list")
	return nil
}
