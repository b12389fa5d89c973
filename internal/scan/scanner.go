package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/inboxdot/inboxdot/internal/logging"
	"github.com/inboxdot/inboxdot/internal/page"
	"github.com/inboxdot/inboxdot/internal/store"
	"github.com/inboxdot/inboxdot/internal/timetext"
)

// Scanner errors.
var (
	ErrScannerAlreadyRunning = errors.New("scanner already running")
	ErrScannerNotRunning     = errors.New("scanner not running")
)

// Config contains scanner configuration.
type Config struct {
	// Debounce is the trigger-coalescing window.
	// Default: 300ms
	Debounce time.Duration

	// Interval is the periodic rescan interval, catching age thresholds
	// crossed purely by time passing.
	// Default: 60s
	Interval time.Duration

	// SectionPrefix is the monitored section's path prefix.
	SectionPrefix string

	// ThresholdDays is the follow-up threshold in days.
	// Default: 1
	ThresholdDays int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Debounce:      300 * time.Millisecond,
		Interval:      60 * time.Second,
		SectionPrefix: page.DefaultSectionPrefix,
		ThresholdDays: 1,
	}
}

// PageSource provides a fresh view of the host page for each scan and applies
// the scan's decorations afterwards.
type PageSource interface {
	// Acquire returns the current host page.
	Acquire() (page.Page, error)

	// Commit applies any decoration changes made during the scan.
	Commit(p page.Page) error
}

// Scanner runs the evaluate-then-reconcile cycle, fed by the host document's
// change feed and a periodic timer, both funneled through a single debounce
// gate.
type Scanner struct {
	config     Config
	source     PageSource
	store      *store.Store
	evaluator  *Evaluator
	reconciler *Reconciler
	gate       *Gate
	changes    <-chan struct{}
	logger     zerolog.Logger

	normalizerOverride *timetext.Normalizer
	afterOverride      func(time.Duration, func())

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithChangeFeed attaches the host document's change-notification feed.
func WithChangeFeed(changes <-chan struct{}) Option {
	return func(s *Scanner) {
		s.changes = changes
	}
}

// WithNormalizer overrides the time-text normalizer, for tests with a fixed
// clock.
func WithNormalizer(n *timetext.Normalizer) Option {
	return func(s *Scanner) {
		if n != nil {
			s.normalizerOverride = n
		}
	}
}

// WithGateAfterFunc overrides the gate's delay timer, for tests.
func WithGateAfterFunc(after func(time.Duration, func())) Option {
	return func(s *Scanner) {
		s.afterOverride = after
	}
}

// MarkerLabel returns the descriptive label carried by markers for the given
// threshold.
func MarkerLabel(thresholdDays int) string {
	return fmt.Sprintf("No reply for ≥ %d days (heuristic)", thresholdDays)
}

// NewScanner creates a Scanner.
func NewScanner(config Config, source PageSource, st *store.Store, opts ...Option) *Scanner {
	defaults := DefaultConfig()
	if config.Debounce <= 0 {
		config.Debounce = defaults.Debounce
	}
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.SectionPrefix == "" {
		config.SectionPrefix = defaults.SectionPrefix
	}
	if config.ThresholdDays < 0 {
		config.ThresholdDays = defaults.ThresholdDays
	}

	s := &Scanner{
		config: config,
		source: source,
		store:  st,
		logger: logging.Component("scanner"),
	}
	for _, opt := range opts {
		opt(s)
	}

	normalizer := s.normalizerOverride
	if normalizer == nil {
		normalizer = timetext.New()
	}

	s.evaluator = NewEvaluator(st, normalizer, config.SectionPrefix, config.ThresholdDays)
	s.reconciler = NewReconciler(st, config.SectionPrefix, MarkerLabel(config.ThresholdDays))

	gateOpts := []GateOption{}
	if s.afterOverride != nil {
		gateOpts = append(gateOpts, WithAfterFunc(s.afterOverride))
	}
	s.gate = NewGate(config.Debounce, s.runScan, gateOpts...)

	return s
}

// Start begins the scan loop: one initial scan, then triggers from the change
// feed and the periodic timer.
func (s *Scanner) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrScannerAlreadyRunning
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	s.logger.Info().
		Dur("debounce", s.config.Debounce).
		Dur("interval", s.config.Interval).
		Int("threshold_days", s.config.ThresholdDays).
		Str("section", s.config.SectionPrefix).
		Msg("scanner starting")

	s.gate.Trigger()

	s.wg.Add(1)
	go s.runLoop()

	return nil
}

// Stop halts the scan loop.
func (s *Scanner) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return ErrScannerNotRunning
	}
	s.cancel()
	s.running = false
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info().Msg("scanner stopped")
	return nil
}

// IsRunning returns true if the scanner is running.
func (s *Scanner) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// ScanNow runs a single scan synchronously, bypassing the gate's delay but
// honoring its no-overlap guarantee.
func (s *Scanner) ScanNow() {
	s.gate.runMu.Lock()
	defer s.gate.runMu.Unlock()
	s.runScan()
}

func (s *Scanner) runLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.gate.Trigger()
		case _, ok := <-s.changes:
			if !ok {
				// Feed closed; keep running on the timer alone.
				s.changes = nil
				continue
			}
			s.gate.Trigger()
		}
	}
}

// runScan is one scan execution: evaluate the open conversation first, then
// reconcile every visible row against the store. Every failure mode degrades
// to "no marker change this cycle".
func (s *Scanner) runScan() {
	scanID := uuid.New().String()[:8]
	logger := logging.WithScan(scanID)

	p, err := s.source.Acquire()
	if err != nil {
		logger.Warn().Err(err).Msg("failed to acquire page, will retry on next trigger")
		return
	}

	if !strings.HasPrefix(p.Location(), s.config.SectionPrefix) {
		logger.Debug().Str("location", p.Location()).Msg("outside monitored section")
		return
	}

	s.evaluator.Evaluate(p)

	if err := s.reconciler.Reconcile(p); err != nil {
		logger.Warn().Err(err).Msg("reconcile failed, will retry on next trigger")
		return
	}

	if err := s.source.Commit(p); err != nil {
		logger.Warn().Err(err).Msg("failed to commit decorated page")
		return
	}

	logger.Debug().Msg("scan complete")
}
