// Package scan contains the staleness engine: the debounced scheduling gate,
// the evaluator that writes verdicts for the open conversation, the
// reconciler that applies markers to visible rows, and the scanner that ties
// them to the change feed and the periodic timer.
package scan

import (
	"sync"
	"time"
)

// Gate is a single-slot scheduling gate: any number of triggers arriving
// during the debounce window collapse into one run. Runs are serialized and
// never overlap; a trigger during a run schedules the next one.
type Gate struct {
	delay time.Duration
	run   func()
	after func(time.Duration, func())

	mu      sync.Mutex
	pending bool

	runMu sync.Mutex
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithAfterFunc overrides the delay timer, for tests with a controllable
// clock.
func WithAfterFunc(after func(time.Duration, func())) GateOption {
	return func(g *Gate) {
		if after != nil {
			g.after = after
		}
	}
}

// NewGate creates a Gate that invokes run once per collapsed trigger burst.
func NewGate(delay time.Duration, run func(), opts ...GateOption) *Gate {
	g := &Gate{
		delay: delay,
		run:   run,
		after: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Trigger schedules a run after the debounce delay. Idempotent while a run is
// already pending.
func (g *Gate) Trigger() {
	g.mu.Lock()
	if g.pending {
		g.mu.Unlock()
		return
	}
	g.pending = true
	g.mu.Unlock()

	g.after(g.delay, g.fire)
}

// Pending reports whether a run is scheduled but not yet started.
func (g *Gate) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// fire clears the pending slot before running, so triggers arriving during
// the run schedule a fresh one.
func (g *Gate) fire() {
	g.mu.Lock()
	g.pending = false
	g.mu.Unlock()

	g.runMu.Lock()
	defer g.runMu.Unlock()
	g.run()
}
