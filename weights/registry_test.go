package weights

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

type stubSource struct {
	pos       r2.Vec
	weight    float64
	important bool
	active    bool
}

func (s *stubSource) Position() r2.Vec { return s.pos }
func (s *stubSource) Weight() float64  { return s.weight }
func (s *stubSource) Important() bool  { return s.important }
func (s *stubSource) Active() bool     { return s.active }

const dt = 1.0 / 60.0

func TestRegisterStartsAtZeroWeight(t *testing.T) {
	reg := NewRegistry()
	src := &stubSource{pos: r2.Vec{X: 3, Y: 4}, weight: 1, active: true}

	s := reg.Register(src)
	if s == nil {
		t.Fatal("expected a sample")
	}
	if s.Weight != 0 {
		t.Errorf("expected initial weight 0, got %f", s.Weight)
	}
	if s.Position != src.pos {
		t.Errorf("expected position %v, got %v", src.pos, s.Position)
	}
	if reg.Len() != 1 {
		t.Errorf("expected 1 sample, got %d", reg.Len())
	}
}

func TestRegisterTwiceYieldsTwoSamples(t *testing.T) {
	reg := NewRegistry()
	src := &stubSource{weight: 1, active: true}

	reg.Register(src)
	reg.Register(src)
	reg.Tick(dt, 1)

	if got := len(reg.Snapshot()); got != 2 {
		t.Errorf("expected 2 samples, got %d", got)
	}
}

func TestRegisterNilIgnored(t *testing.T) {
	reg := NewRegistry()
	if s := reg.Register(nil); s != nil {
		t.Error("expected nil sample for nil source")
	}
	if reg.Len() != 0 {
		t.Errorf("expected empty registry, got %d", reg.Len())
	}
}

func TestTickApproachesTargetWithoutOvershoot(t *testing.T) {
	for _, mode := range []SmoothingMode{SmoothingLinear, SmoothingExponential} {
		t.Run(mode.String(), func(t *testing.T) {
			reg := NewRegistry(WithSmoothing(mode))
			src := &stubSource{weight: 2, active: true}
			reg.Register(src)

			prev := 0.0
			for i := 0; i < 2000; i++ {
				reg.Tick(dt, 0.5)
				w := reg.Snapshot()[0].Weight
				if w < prev {
					t.Fatalf("tick %d: weight moved away from target: %f -> %f", i, prev, w)
				}
				if w > src.weight {
					t.Fatalf("tick %d: weight overshot target: %f", i, w)
				}
				prev = w
			}
			if math.Abs(prev-src.weight) > 1e-6 {
				t.Errorf("expected weight to converge to %f, got %f", src.weight, prev)
			}
		})
	}
}

func TestTickLinearFormula(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubSource{weight: 1, active: true})

	reg.Tick(0.1, 1)
	if w := reg.Snapshot()[0].Weight; math.Abs(w-0.1) > 1e-12 {
		t.Errorf("expected weight 0.1 after one tick, got %f", w)
	}

	reg.Tick(0.1, 1)
	// 0.1 + (1 - 0.1) * 0.1
	if w := reg.Snapshot()[0].Weight; math.Abs(w-0.19) > 1e-12 {
		t.Errorf("expected weight 0.19 after two ticks, got %f", w)
	}
}

func TestTickLargeStepLandsOnTarget(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubSource{weight: 3, active: true})

	// dt/timeConstant = 1.5 would overshoot without the cap
	reg.Tick(0.3, 0.2)
	if w := reg.Snapshot()[0].Weight; w != 3 {
		t.Errorf("expected weight to land on 3, got %f", w)
	}
}

func TestTickTracksLivePosition(t *testing.T) {
	reg := NewRegistry()
	src := &stubSource{weight: 1, active: true}
	reg.Register(src)

	src.pos = r2.Vec{X: 10, Y: -2}
	reg.Tick(dt, 1)

	if got := reg.Snapshot()[0].Position; got != src.pos {
		t.Errorf("expected position %v, got %v", src.pos, got)
	}
}

func TestInactiveSourceFadesAndIsPruned(t *testing.T) {
	reg := NewRegistry()
	src := &stubSource{pos: r2.Vec{X: 5, Y: 5}, weight: 1, active: true}
	reg.Register(src)

	for i := 0; i < 600; i++ {
		reg.Tick(dt, 1)
	}
	peak := reg.Snapshot()[0].Weight

	src.active = false
	src.pos = r2.Vec{X: 100, Y: 100}

	reg.Tick(dt, 1)
	s := reg.Snapshot()[0]
	if s.Position != (r2.Vec{X: 5, Y: 5}) {
		t.Errorf("expected last known position to persist, got %v", s.Position)
	}
	if s.Weight >= peak {
		t.Errorf("expected weight to decay from %f, got %f", peak, s.Weight)
	}
	if s.Important() {
		t.Error("inactive sample must not be important")
	}

	// (1 - 1/60)^n * peak < DefaultEpsilon needs n ~ 550
	bound := int(math.Ceil(math.Log(DefaultEpsilon/peak)/math.Log(1-dt))) + 1
	ticks := 1
	for reg.Len() > 0 {
		reg.Tick(dt, 1)
		ticks++
		if ticks > bound {
			t.Fatalf("sample not pruned within %d ticks", bound)
		}
	}
}

func TestZeroWeightSourcePrunedOnFirstTick(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubSource{weight: 0, active: true})
	reg.Register(&stubSource{weight: 1, active: true})

	reg.Tick(dt, 1)

	if reg.Len() != 1 {
		t.Fatalf("expected 1 live sample, got %d", reg.Len())
	}
}

func TestSmallWeightSourceSurvives(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
	}{
		{name: "tenth of a percent", weight: 0.001},
		{name: "half a percent", weight: 0.005},
		{name: "one percent", weight: 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			s := reg.Register(&stubSource{weight: tt.weight, active: true})

			prev := 0.0
			for i := 0; i < 120; i++ {
				reg.Tick(dt, 1)
				if reg.Len() != 1 {
					t.Fatalf("tick %d: expected sample to stay registered, got %d", i, reg.Len())
				}
				if s.Weight <= prev {
					t.Fatalf("tick %d: expected weight to rise past %g, got %g", i, prev, s.Weight)
				}
				prev = s.Weight
			}
			if s.Weight > tt.weight {
				t.Errorf("expected weight at most %g, got %g", tt.weight, s.Weight)
			}
		})
	}
}

func TestSetEpsilon(t *testing.T) {
	tests := []struct {
		name string
		eps  float64
		want float64
	}{
		{name: "positive", eps: 0.05, want: 0.05},
		{name: "zero ignored", eps: 0, want: DefaultEpsilon},
		{name: "negative ignored", eps: -1, want: DefaultEpsilon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			reg.SetEpsilon(tt.eps)
			if got := reg.Epsilon(); got != tt.want {
				t.Errorf("expected epsilon %g, got %g", tt.want, got)
			}
		})
	}

	// A larger threshold prunes a decayed sample sooner.
	reg := NewRegistry()
	src := &stubSource{weight: 1, active: true}
	reg.Register(src)
	reg.Tick(1, 1)
	src.active = false
	reg.Tick(0.97, 1)
	if reg.Len() != 1 {
		t.Fatalf("expected sample at weight 0.03 under default epsilon, got %d", reg.Len())
	}
	reg.SetEpsilon(0.05)
	reg.Tick(dt, 1)
	if reg.Len() != 0 {
		t.Errorf("expected sample pruned after raising epsilon, got %d", reg.Len())
	}
}

func TestNegativeSourceWeightTreatedAsZero(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubSource{weight: -5, active: true})

	reg.Tick(dt, 1)

	if reg.Len() != 0 {
		t.Errorf("expected negative-weight sample to be pruned, got %d samples", reg.Len())
	}
}

func TestTickRejectsNonPositiveTimeConstant(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubSource{weight: 1, active: true})
	reg.Tick(dt, 1)
	before := reg.Snapshot()[0].Weight

	reg.Tick(dt, 0)
	reg.Tick(dt, -1)

	after := reg.Snapshot()[0].Weight
	if after != before || math.IsInf(after, 0) || math.IsNaN(after) {
		t.Errorf("expected weight unchanged at %f, got %f", before, after)
	}
}

func TestImportantFollowsSource(t *testing.T) {
	reg := NewRegistry()
	src := &stubSource{weight: 1, important: true, active: true}
	reg.Register(src)
	reg.Tick(dt, 1)

	if !reg.Snapshot()[0].Important() {
		t.Error("expected sample to be important")
	}
	src.important = false
	if reg.Snapshot()[0].Important() {
		t.Error("expected sample to follow source importance")
	}
}

func TestParseSmoothingMode(t *testing.T) {
	tests := []struct {
		name string
		want SmoothingMode
		ok   bool
	}{
		{"", SmoothingLinear, true},
		{"linear", SmoothingLinear, true},
		{"exponential", SmoothingExponential, true},
		{"cubic", SmoothingLinear, false},
	}
	for _, tt := range tests {
		got, ok := ParseSmoothingMode(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseSmoothingMode(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}
