package scan

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/inboxdot/inboxdot/internal/logging"
	"github.com/inboxdot/inboxdot/internal/models"
	"github.com/inboxdot/inboxdot/internal/page"
	"github.com/inboxdot/inboxdot/internal/store"
	"github.com/inboxdot/inboxdot/internal/timetext"
)

// idExtractor pulls the conversation identifier out of a navigational target.
type idExtractor struct {
	pattern *regexp.Regexp
}

func newIDExtractor(sectionPrefix string) *idExtractor {
	trimmed := strings.Trim(sectionPrefix, "/")
	return &idExtractor{
		pattern: regexp.MustCompile(regexp.QuoteMeta(trimmed) + `/(\S+)`),
	}
}

// extract returns the conversation id referenced by a path or href. Query
// params and fragments are stripped so list targets and the location path
// yield the same id.
func (e *idExtractor) extract(target string) (string, bool) {
	m := e.pattern.FindStringSubmatch(target)
	if m == nil {
		return "", false
	}
	id := m[1]
	if cut := strings.IndexAny(id, "?#"); cut >= 0 {
		id = id[:cut]
	}
	id = strings.TrimSuffix(id, "/")
	if id == "" {
		return "", false
	}
	return id, true
}

// Evaluator derives the verdict for the currently open conversation and
// writes it to the store. It is the only writer of verdicts.
type Evaluator struct {
	store         *store.Store
	normalizer    *timetext.Normalizer
	extractor     *idExtractor
	thresholdDays int
	logger        zerolog.Logger
}

// NewEvaluator creates an Evaluator. thresholdDays is the minimum age, in
// days, for a local-user-sent last message to be considered due.
func NewEvaluator(st *store.Store, normalizer *timetext.Normalizer, sectionPrefix string, thresholdDays int) *Evaluator {
	return &Evaluator{
		store:         st,
		normalizer:    normalizer,
		extractor:     newIDExtractor(sectionPrefix),
		thresholdDays: thresholdDays,
		logger:        logging.Component("evaluator"),
	}
}

// Evaluate inspects the open conversation's latest message and records its
// verdict. When no conversation is open, the detail view is missing, or the
// time text is unparsable, nothing is written and any cached verdict stays
// untouched.
func (e *Evaluator) Evaluate(p page.Page) {
	id, ok := e.extractor.extract(p.Location())
	if !ok {
		return
	}

	msg, ok := p.LatestMessage()
	if !ok {
		e.logger.Debug().Str("conversation_id", id).Msg("no detail view, keeping cached verdict")
		return
	}

	age, known := e.normalizer.Normalize(msg.TimeText)
	if !known {
		e.logger.Debug().
			Str("conversation_id", id).
			Str("time_text", msg.TimeText).
			Msg("unparsable time text, keeping cached verdict")
		return
	}

	ageDays := age.Hours() / 24
	verdict := models.ConversationVerdict{
		IsDue:   msg.FromMe && ageDays >= float64(e.thresholdDays),
		FromMe:  msg.FromMe,
		Time:    msg.TimeText,
		AgeDays: ageDays,
	}
	e.store.Set(id, verdict)

	e.logger.Debug().
		Str("conversation_id", id).
		Bool("is_due", verdict.IsDue).
		Bool("from_me", verdict.FromMe).
		Float64("age_days", verdict.AgeDays).
		Msg("evaluated open conversation")
}
