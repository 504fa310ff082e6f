package weights

import (
	"log/slog"
	"math"
)

// DefaultEpsilon is the weight below which a sample is considered fully decayed.
const DefaultEpsilon = 1e-4

// SmoothingMode selects how a sample's weight approaches its target.
type SmoothingMode uint8

const (
	// SmoothingLinear moves by dt/timeConstant of the remaining gap each tick.
	// This is framerate dependent; the factor is capped at 1 so a large dt
	// lands on the target instead of overshooting it.
	SmoothingLinear SmoothingMode = iota
	// SmoothingExponential moves by 1-exp(-dt/timeConstant) of the gap,
	// which is independent of how the time is split into ticks.
	SmoothingExponential
)

// String returns the config name of the mode.
func (m SmoothingMode) String() string {
	switch m {
	case SmoothingExponential:
		return "exponential"
	default:
		return "linear"
	}
}

// ParseSmoothingMode maps a config name to a mode. Unknown names return false.
func ParseSmoothingMode(name string) (SmoothingMode, bool) {
	switch name {
	case "", "linear":
		return SmoothingLinear, true
	case "exponential":
		return SmoothingExponential, true
	}
	return SmoothingLinear, false
}

// Step returns the fraction of the remaining gap covered in one tick.
func (m SmoothingMode) Step(dt, timeConstant float64) float64 {
	if m == SmoothingExponential {
		return 1 - math.Exp(-dt/timeConstant)
	}
	return math.Min(dt/timeConstant, 1)
}

// Registry owns the live set of samples.
// It is not safe for concurrent use; register between ticks.
type Registry struct {
	samples []*Sample
	view    []Sample

	mode    SmoothingMode
	epsilon float64
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithSmoothing sets the smoothing mode.
func WithSmoothing(mode SmoothingMode) Option {
	return func(r *Registry) { r.mode = mode }
}

// WithEpsilon sets the prune threshold. Non-positive values are ignored.
func WithEpsilon(eps float64) Option {
	return func(r *Registry) {
		if eps > 0 {
			r.epsilon = eps
		}
	}
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		mode:    SmoothingLinear,
		epsilon: DefaultEpsilon,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register starts tracking src. The new sample sits at the source's current
// position with zero weight and ramps up over the following ticks.
// Registering the same source twice yields two independent samples.
func (r *Registry) Register(src Source) *Sample {
	if src == nil {
		r.logger.Warn("ignoring nil weight source")
		return nil
	}
	s := &Sample{source: src, Position: src.Position()}
	r.samples = append(r.samples, s)
	return s
}

// Tick advances every sample by dt seconds and prunes decayed ones.
// timeConstant must be positive; otherwise the tick is skipped.
func (r *Registry) Tick(dt, timeConstant float64) {
	if timeConstant <= 0 {
		r.logger.Error("weight tick skipped: time constant must be positive", "time_constant", timeConstant)
		return
	}
	k := r.mode.Step(dt, timeConstant)

	live := r.samples[:0]
	for _, s := range r.samples {
		target := 0.0
		if s.Alive() {
			s.Position = s.source.Position()
			target = math.Max(s.source.Weight(), 0)
		}
		s.Weight += (target - s.Weight) * k

		// A sample still rising toward a small positive target survives its
		// first ticks; only samples settling at zero are dropped.
		if math.Abs(s.Weight) < r.epsilon && target < r.epsilon {
			r.logger.Debug("weight sample pruned", "x", s.Position.X, "y", s.Position.Y, "alive", s.Alive())
			continue
		}
		live = append(live, s)
	}
	for i := len(live); i < len(r.samples); i++ {
		r.samples[i] = nil
	}
	r.samples = live
}

// Snapshot returns the samples as of the latest tick in registration order.
// The returned slice is reused by the next call.
func (r *Registry) Snapshot() []Sample {
	r.view = r.view[:0]
	for _, s := range r.samples {
		r.view = append(r.view, *s)
	}
	return r.view
}

// Len returns the number of live samples.
func (r *Registry) Len() int {
	return len(r.samples)
}

// Mode returns the smoothing mode.
func (r *Registry) Mode() SmoothingMode {
	return r.mode
}

// SetMode changes the smoothing mode for subsequent ticks.
func (r *Registry) SetMode(mode SmoothingMode) {
	r.mode = mode
}

// Epsilon returns the prune threshold.
func (r *Registry) Epsilon() float64 {
	return r.epsilon
}

// SetEpsilon changes the prune threshold. Non-positive values are ignored.
func (r *Registry) SetEpsilon(eps float64) {
	if eps > 0 {
		r.epsilon = eps
	}
}
