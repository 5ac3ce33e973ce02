// Package adwin implements the ADWIN2 adaptive-windowing algorithm of Bifet
// and Gavaldà: an online estimate of the mean of a real-valued stream that
// discards observations predating a detected distribution shift, so the
// reported mean tracks only the current regime.
package adwin

import (
	"fmt"
	"log/slog"
	"math"
)

// Config configures an AdaptiveMean.
type Config struct {
	// Delta is the target false-positive rate of the change test, in
	// (0,1). Smaller values make drift detection more conservative.
	Delta float64

	// OnShift is invoked synchronously, inside the Fit call that detected
	// the shift, after the prune has already been applied. It sees the
	// post-prune state. A nil OnShift is replaced with a no-op.
	OnShift func(*AdaptiveMean)

	// Logger, if non-nil, receives one debug record per detected shift.
	// Logging is an optional diagnostic hook, not part of the core
	// algorithm: a nil Logger costs a single nil check per Fit.
	Logger *slog.Logger
}

// DefaultConfig returns the reference defaults: Delta 0.001, a no-op
// OnShift, and no logger.
func DefaultConfig() *Config {
	return &Config{
		Delta:   0.001,
		OnShift: func(*AdaptiveMean) {},
	}
}

// state tracks whether the most recent Fit pruned the window. OnShift fires
// exactly on the tracking -> justPruned transition; a run of consecutive
// drifting Fit calls only fires it once, on the first one.
type state int

const (
	stateTracking state = iota
	stateJustPruned
)

// AdaptiveMean is the public handle for a single stream's adaptive window.
// It is not safe for concurrent use: Fit must not be called concurrently
// with itself, with any accessor, or re-entrantly from within OnShift.
type AdaptiveMean struct {
	cfg    Config
	window *window
	state  state
}

// New constructs an AdaptiveMean. A nil cfg uses DefaultConfig(). The
// passed Config is copied, so later mutation of the caller's struct has no
// effect on the returned handle.
func New(cfg *Config) (*AdaptiveMean, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if !(cfg.Delta > 0 && cfg.Delta < 1) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidDelta, cfg.Delta)
	}

	c := *cfg
	if c.OnShift == nil {
		c.OnShift = func(*AdaptiveMean) {}
	}

	return &AdaptiveMean{cfg: c, window: newWindow()}, nil
}

// Fit ingests one sample: it updates the write slot and aggregate, runs
// cascaded compression, then runs the change detector. It returns
// ErrNonFinite for NaN or infinite input without modifying any state.
func (a *AdaptiveMean) Fit(x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Errorf("%w: got %v", ErrNonFinite, x)
	}

	a.window.fit(x)
	drifted := a.window.detect(a.cfg.Delta)

	if drifted && a.state == stateTracking {
		a.state = stateJustPruned
		if a.cfg.Logger != nil {
			a.cfg.Logger.Debug("adwin: shift detected",
				"nobs", int64(a.window.aggregate.n),
				"mean", a.window.aggregate.mu,
			)
		}
		a.cfg.OnShift(a)
		return nil
	}

	if drifted {
		a.state = stateJustPruned
	} else {
		a.state = stateTracking
	}
	return nil
}

// Mean returns the current mean of the live window.
func (a *AdaptiveMean) Mean() float64 { return a.window.aggregate.mu }

// Value is an alias for Mean.
func (a *AdaptiveMean) Value() float64 { return a.Mean() }

// NObs returns the number of samples currently live in the window.
func (a *AdaptiveMean) NObs() int64 { return int64(a.window.aggregate.n) }

// VarianceSummary is a read-only snapshot of a variance summary, returned
// by Stats.
type VarianceSummary struct {
	N        int64
	Mean     float64
	Variance float64
}

// Stats returns a snapshot of the window aggregate's variance summary.
func (a *AdaptiveMean) Stats() VarianceSummary {
	agg := a.window.aggregate
	return VarianceSummary{
		N:        int64(agg.n),
		Mean:     agg.mu,
		Variance: agg.variance(),
	}
}

// Wrapper ingests samples through the same bucket-compression pipeline as
// the AdaptiveMean it wraps, but never runs the change detector. It is
// useful for A/B comparisons of what the compressed window would report if
// drift pruning were disabled. Per spec.md section 9, this is a second
// free-function entry point over shared state rather than a dynamically
// dispatched variant.
type Wrapper struct {
	am *AdaptiveMean
}

// WithoutDropping returns a Wrapper sharing am's underlying window.
func WithoutDropping(am *AdaptiveMean) *Wrapper {
	return &Wrapper{am: am}
}

// Fit ingests one sample through compression only; the detector never runs.
func (w *Wrapper) Fit(x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Errorf("%w: got %v", ErrNonFinite, x)
	}
	w.am.window.fit(x)
	return nil
}

// Mean, Value, NObs, and Stats read through to the underlying AdaptiveMean.
func (w *Wrapper) Mean() float64          { return w.am.Mean() }
func (w *Wrapper) Value() float64         { return w.am.Value() }
func (w *Wrapper) NObs() int64            { return w.am.NObs() }
func (w *Wrapper) Stats() VarianceSummary { return w.am.Stats() }
