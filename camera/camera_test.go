package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/weightcam/weights"
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

func sample(x, y, w float64, important bool) weights.Sample {
	src := &stubSource{pos: r2.Vec{X: x, Y: y}, weight: w, important: important, active: true}
	return weights.NewSample(src, src.pos, w)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// newTestController builds the 100x60 level with a 60 degree 16:9 lens.
func newTestController(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	lens, err := NewLens(60, 16.0/9.0, 0.3)
	if err != nil {
		t.Fatalf("NewLens: %v", err)
	}
	bounds := NewBounds(0, 0, 100, 60)
	limits := DeriveZoomLimits(bounds, lens, 1, 50)
	c, err := NewController(lens, bounds, limits, opts...)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return c
}

func TestHorizontalFOVCache(t *testing.T) {
	lens, err := NewLens(60, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(lens.HorizontalFOV(), lens.VerticalFOV()) {
		t.Errorf("square aspect: expected hfov %f, got %f", lens.VerticalFOV(), lens.HorizontalFOV())
	}

	lens.SetAspect(2)
	want := 2 * math.Atan(math.Tan(math.Pi/6)*2)
	if !approx(lens.HorizontalFOV(), want) {
		t.Errorf("after resize: expected hfov %f, got %f", want, lens.HorizontalFOV())
	}
}

func TestNewLensRejectsDegenerate(t *testing.T) {
	tests := []struct {
		name        string
		fov, aspect float64
		near        float64
	}{
		{"zero fov", 0, 1, 0},
		{"straight fov", 180, 1, 0},
		{"zero aspect", 60, 0, 0},
		{"negative aspect", 60, -1, 0},
		{"negative near", 60, 1, -0.1},
	}
	for _, tt := range tests {
		if _, err := NewLens(tt.fov, tt.aspect, tt.near); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestNewControllerRejectsBadSetup(t *testing.T) {
	lens, _ := NewLens(60, 1, 0)
	if _, err := NewController(lens, NewBounds(0, 0, 0, 10), ZoomLimits{Min: 1, Max: 2}); err == nil {
		t.Error("expected error for empty bounds")
	}
	if _, err := NewController(lens, NewBounds(0, 0, 10, 10), ZoomLimits{Min: 3, Max: 2}); err == nil {
		t.Error("expected error for min > max")
	}
}

func TestDeriveZoomLimits(t *testing.T) {
	lens, _ := NewLens(60, 16.0/9.0, 0.3)
	bounds := NewBounds(0, 0, 100, 60)

	fit := FitDistance(bounds, lens)
	// Width is the tighter axis: 50 / tan(hfov/2)
	want := 50 / math.Tan(lens.HorizontalFOV()/2)
	if !approx(fit, want) {
		t.Fatalf("expected fit distance %f, got %f", want, fit)
	}

	limits := DeriveZoomLimits(bounds, lens, 1, 50)
	if limits.Min != 1 || !approx(limits.Max, fit) {
		t.Errorf("expected [1, %f], got [%f, %f]", fit, limits.Min, limits.Max)
	}

	limits = DeriveZoomLimits(bounds, lens, 1, 20)
	if limits.Max != 20 {
		t.Errorf("expected configured max 20 to win, got %f", limits.Max)
	}

	limits = DeriveZoomLimits(bounds, lens, 100, 0)
	if limits.Min != limits.Max {
		t.Errorf("expected min capped at max, got [%f, %f]", limits.Min, limits.Max)
	}
}

func TestFocusWeightedCentroid(t *testing.T) {
	samples := []weights.Sample{
		sample(0, 0, 1, false),
		sample(10, 0, 3, false),
	}
	focus, total := Focus(samples, r2.Vec{X: -99, Y: -99})
	if focus != (r2.Vec{X: 7.5, Y: 0}) {
		t.Errorf("expected focus (7.5, 0), got %v", focus)
	}
	if total != 4 {
		t.Errorf("expected total weight 4, got %f", total)
	}
}

func TestFocusFallbackWithoutWeight(t *testing.T) {
	fallback := r2.Vec{X: 12, Y: -3}

	focus, _ := Focus(nil, fallback)
	if focus != fallback {
		t.Errorf("empty: expected %v, got %v", fallback, focus)
	}

	focus, _ = Focus([]weights.Sample{sample(5, 5, 0, true)}, fallback)
	if focus != fallback {
		t.Errorf("zero weight: expected %v, got %v", fallback, focus)
	}
}

func TestAdvanceKeepsPoseWithoutWeight(t *testing.T) {
	start := r3.Vec{X: 4, Y: -2, Z: -10}
	c := newTestController(t, WithPose(start))

	pose := c.Update(nil)
	if pose != start {
		t.Errorf("expected pose unchanged at %v, got %v", start, pose)
	}
}

func TestZoomBindingAxis(t *testing.T) {
	c := newTestController(t, WithEdgeBuffer(r2.Vec{X: 2, Y: 2}))
	tanV := math.Tan(c.Lens().VerticalFOV() / 2)
	tanH := math.Tan(c.Lens().HorizontalFOV() / 2)

	tests := []struct {
		name   string
		target r2.Vec
		axis   Axis
		dist   float64
	}{
		{"wide spread", r2.Vec{X: 20}, AxisHorizontal, 22 / tanH},
		{"tall spread", r2.Vec{Y: 10}, AxisVertical, 12 / tanV},
		{"on center", r2.Vec{}, AxisVertical, 2 / tanV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := c.zoom(r2.Vec{}, c.Pose().Z, []weights.Sample{sample(tt.target.X, tt.target.Y, 1, true)})
			if res.axis != tt.axis {
				t.Errorf("expected %s axis, got %s", tt.axis, res.axis)
			}
			if !approx(res.depth, -tt.dist) {
				t.Errorf("expected depth %f, got %f", -tt.dist, res.depth)
			}
		})
	}
}

func TestZoomWithinLimits(t *testing.T) {
	c := newTestController(t)
	limits := c.Limits()

	for _, x := range []float64{0, 0.1, 5, 50, 1e3, 1e9} {
		depth := c.Zoom(r2.Vec{}, []weights.Sample{sample(x, x/2, 1, true)})
		if -depth < limits.Min-1e-9 || -depth > limits.Max+1e-9 {
			t.Errorf("sample at %f: depth %f outside [%f, %f]", x, depth, limits.Min, limits.Max)
		}
		if depth > 0 {
			t.Errorf("sample at %f: depth must be negative, got %f", x, depth)
		}
	}
}

func TestZoomUnchangedWithoutImportant(t *testing.T) {
	start := r3.Vec{Z: -17.25}
	c := newTestController(t, WithPose(start), WithEdgeBuffer(r2.Vec{X: 2, Y: 2}))

	samples := []weights.Sample{sample(30, 10, 1, false), sample(-30, -10, 1, false)}
	frame := c.Advance(samples)

	if frame.Pose.Z != start.Z {
		t.Errorf("expected depth unchanged at %f, got %f", start.Z, frame.Pose.Z)
	}
	if frame.Axis != AxisNone || frame.Important != 0 {
		t.Errorf("expected no binding axis, got %s with %d important", frame.Axis, frame.Important)
	}
}

func TestZoomTieKeepsFirst(t *testing.T) {
	c := newTestController(t)

	// Mirror images: equally far from the candidate.
	up := sample(0, 5, 1, true)
	down := sample(0, -5, 1, true)

	res := c.zoom(r2.Vec{}, 0, []weights.Sample{up, down})
	if res.farthest != up.Position {
		t.Errorf("expected first sample %v, got %v", up.Position, res.farthest)
	}
	res = c.zoom(r2.Vec{}, 0, []weights.Sample{down, up})
	if res.farthest != down.Position {
		t.Errorf("expected first sample %v, got %v", down.Position, res.farthest)
	}
}

func TestZoomIgnoresInactiveSource(t *testing.T) {
	c := newTestController(t)
	src := &stubSource{pos: r2.Vec{X: 40}, weight: 1, important: true, active: false}
	samples := []weights.Sample{weights.NewSample(src, src.pos, 1)}

	res := c.zoom(r2.Vec{}, -9, samples)
	if res.important != 0 || res.depth != -9 {
		t.Errorf("expected inactive source to be skipped, got %d important, depth %f", res.important, res.depth)
	}
}

func TestClampKeepsViewInsideBounds(t *testing.T) {
	c := newTestController(t)
	half := c.Bounds().HalfExtents()
	limits := c.Limits()

	for depth := limits.Min; depth <= limits.Max; depth += 0.5 {
		for _, p := range []r2.Vec{{X: 0, Y: 0}, {X: 1e4, Y: 1e4}, {X: -1e4, Y: 3}, {X: 49, Y: -29}, {X: 20, Y: 20}} {
			pose := c.Clamp(r3.Vec{X: p.X, Y: p.Y, Z: -depth})
			if math.Abs(pose.X) > half.X || math.Abs(pose.Y) > half.Y {
				t.Fatalf("depth %f: pose %v escaped bounds", depth, pose)
			}
			if pose.Z != -depth {
				t.Fatalf("clamp changed depth: %f -> %f", -depth, pose.Z)
			}

			m := c.MaxOffset(-depth)
			reach := c.Lens().HalfExtents(depth - c.Lens().NearClip)
			if m.X > 0 && math.Abs(pose.X)+reach.X > half.X+1e-9 {
				t.Fatalf("depth %f: view spills past x edge at %v", depth, pose)
			}
			if m.Y > 0 && math.Abs(pose.Y)+reach.Y > half.Y+1e-9 {
				t.Fatalf("depth %f: view spills past y edge at %v", depth, pose)
			}
		}
	}
}

func TestClampOffCenterBounds(t *testing.T) {
	lens, _ := NewLens(60, 1, 0)
	bounds := NewBounds(200, -50, 40, 40)
	c, err := NewController(lens, bounds, DeriveZoomLimits(bounds, lens, 1, 0))
	if err != nil {
		t.Fatal(err)
	}

	pose := c.Clamp(r3.Vec{X: 0, Y: 0, Z: -2})
	if !bounds.Contains(r2.Vec{X: pose.X, Y: pose.Y}) {
		t.Errorf("expected pose inside %v, got %v", bounds.Box(), pose)
	}

	// The range is measured from the bounds center, not the origin.
	m := c.MaxOffset(-2)
	ctr := bounds.Center
	if !approx(pose.X, ctr.X-m.X) || !approx(pose.Y, ctr.Y+m.Y) {
		t.Errorf("expected pose at (%f, %f), got %v", ctr.X-m.X, ctr.Y+m.Y, pose)
	}
}

func TestScenarioSingleImportantSample(t *testing.T) {
	c := newTestController(t, WithEdgeBuffer(r2.Vec{X: 2, Y: 2}))
	reg := weights.NewRegistry()
	reg.Register(&stubSource{pos: r2.Vec{X: 40}, weight: 1, important: true, active: true})

	var frame Frame
	var prevZ float64
	for i := 0; i < 60; i++ {
		reg.Tick(1.0/60.0, 1)
		prevZ = c.Pose().Z
		frame = c.Advance(reg.Snapshot())
	}

	depth := -frame.Pose.Z
	if depth < 1 || depth > 50 {
		t.Fatalf("expected depth in [1, 50], got %f", depth)
	}
	// Camera sits on the only sample, so only the buffer drives zoom.
	if frame.Axis != AxisVertical {
		t.Errorf("expected vertical axis, got %s", frame.Axis)
	}
	m := c.MaxOffset(prevZ)
	if want := clamp(40, -m.X, m.X); !approx(frame.Pose.X, want) {
		t.Errorf("expected x %f, got %f", want, frame.Pose.X)
	}
}

func TestAdvanceClampsWithPreviousDepth(t *testing.T) {
	c := newTestController(t)
	samples := []weights.Sample{sample(40, 0, 1, true)}

	tests := []struct {
		name string
	}{
		{name: "zoom in from fit depth"},
		{name: "hold zoomed depth"},
	}
	for _, tt := range tests {
		prevZ := c.Pose().Z
		frame := c.Advance(samples)

		m := c.MaxOffset(prevZ)
		if want := clamp(40, -m.X, m.X); !approx(frame.Pose.X, want) {
			t.Errorf("%s: expected x %f from depth %f, got %f", tt.name, want, -prevZ, frame.Pose.X)
		}
		if frame.Pose.Z != frame.Unclamped.Z {
			t.Errorf("%s: expected new depth %f in pose, got %f", tt.name, frame.Unclamped.Z, frame.Pose.Z)
		}
	}

	// Starting fully zoomed out the view covers the level, so the first tick
	// may not move x even though the new depth would allow it.
	c = newTestController(t)
	frame := c.Advance(samples)
	if loose := c.MaxOffset(frame.Pose.Z); loose.X < 40 {
		t.Fatalf("expected new depth to allow x = 40, max offset %f", loose.X)
	}
	if frame.Pose.X >= 40 {
		t.Errorf("expected first tick held by the fit-depth range, got x %f", frame.Pose.X)
	}
	frame = c.Advance(samples)
	if !approx(frame.Pose.X, 40) {
		t.Errorf("expected second tick to reach x 40, got %f", frame.Pose.X)
	}
}

func TestScenarioBalancedFocus(t *testing.T) {
	c := newTestController(t, WithEdgeBuffer(r2.Vec{X: 2, Y: 2}))
	samples := []weights.Sample{
		sample(40, 0, 1, true),
		sample(-40, 0, 1, false),
	}

	frame := c.Advance(samples)

	// dx = 40 + 2 against dy = 2: the horizontal FOV binds.
	if frame.Axis != AxisHorizontal {
		t.Fatalf("expected horizontal axis, got %s", frame.Axis)
	}
	want := 42 / math.Tan(c.Lens().HorizontalFOV()/2)
	if !approx(-frame.Pose.Z, want) {
		t.Errorf("expected depth %f, got %f", want, -frame.Pose.Z)
	}
	if frame.Pose.X != 0 || frame.Pose.Y != 0 {
		t.Errorf("expected camera on focus (0, 0), got %v", frame.Pose)
	}
}
