// Package camera frames weighted points of interest with a perspective
// camera that looks straight at the level plane.
//
// The camera sits at negative depth looking down +Z. Each tick it moves to the
// weighted centroid of the samples, backs off far enough to keep every
// important sample plus an edge buffer in view, and is then clamped so the
// visible rectangle never leaves the level bounds.
package camera

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/weightcam/weights"
)

// Axis is the field of view that bounded the zoom on a tick.
type Axis uint8

const (
	AxisNone Axis = iota // no important samples, depth kept
	AxisVertical
	AxisHorizontal
)

func (a Axis) String() string {
	switch a {
	case AxisVertical:
		return "vertical"
	case AxisHorizontal:
		return "horizontal"
	default:
		return "none"
	}
}

// Frame holds the intermediate results of one tick.
type Frame struct {
	Focus       r2.Vec
	TotalWeight float64
	Samples     int
	Important   int
	Farthest    r2.Vec // farthest important sample, or the focus if none stood out
	Axis        Axis
	Unclamped   r3.Vec
	Pose        r3.Vec
}

// Controller computes the camera pose from weighted samples.
// It keeps no state across ticks other than its own pose.
type Controller struct {
	lens       *Lens
	bounds     Bounds
	limits     ZoomLimits
	edgeBuffer r2.Vec
	pose       r3.Vec

	logger *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithEdgeBuffer sets the margin kept around important samples.
func WithEdgeBuffer(buf r2.Vec) Option {
	return func(c *Controller) { c.edgeBuffer = buf }
}

// WithPose sets the starting pose.
func WithPose(pose r3.Vec) Option {
	return func(c *Controller) { c.pose = pose }
}

// WithLogger sets the controller's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController validates the setup and creates a controller.
// Unless overridden, the camera starts over the level center at max zoom.
func NewController(lens *Lens, bounds Bounds, limits ZoomLimits, opts ...Option) (*Controller, error) {
	if err := lens.Validate(); err != nil {
		return nil, err
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		lens:   lens,
		bounds: bounds,
		limits: limits,
		pose:   r3.Vec{X: bounds.Center.X, Y: bounds.Center.Y, Z: -limits.Max},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger.Debug("framing controller ready",
		"fov", lens.FOV,
		"aspect", lens.Aspect(),
		"min_zoom", limits.Min,
		"max_zoom", limits.Max,
		"bounds_w", bounds.Size.X,
		"bounds_h", bounds.Size.Y,
	)
	return c, nil
}

// Lens returns the controller's lens. Aspect changes take effect next tick.
func (c *Controller) Lens() *Lens { return c.lens }

// Bounds returns the level bounds.
func (c *Controller) Bounds() Bounds { return c.bounds }

// Limits returns the zoom limits.
func (c *Controller) Limits() ZoomLimits { return c.limits }

// Pose returns the current camera position.
func (c *Controller) Pose() r3.Vec { return c.pose }

// SetPose moves the camera, e.g. to cut to a new location.
func (c *Controller) SetPose(pose r3.Vec) { c.pose = pose }

// EdgeBuffer returns the margin kept around important samples.
func (c *Controller) EdgeBuffer() r2.Vec { return c.edgeBuffer }

// SetEdgeBuffer changes the margin for subsequent ticks.
func (c *Controller) SetEdgeBuffer(buf r2.Vec) { c.edgeBuffer = buf }

// Update advances one tick and returns the new pose.
func (c *Controller) Update(samples []weights.Sample) r3.Vec {
	return c.Advance(samples).Pose
}

// Advance advances one tick and returns every intermediate result.
func (c *Controller) Advance(samples []weights.Sample) Frame {
	prev := c.pose

	focus, total := Focus(samples, r2.Vec{X: prev.X, Y: prev.Y})
	z := c.zoom(focus, prev.Z, samples)

	unclamped := r3.Vec{X: focus.X, Y: focus.Y, Z: z.depth}

	// The clamp range comes from the depth the camera held going into this
	// tick; the new depth is written afterwards.
	pose := c.Clamp(r3.Vec{X: focus.X, Y: focus.Y, Z: prev.Z})
	pose.Z = z.depth
	c.pose = pose

	return Frame{
		Focus:       focus,
		TotalWeight: total,
		Samples:     len(samples),
		Important:   z.important,
		Farthest:    z.farthest,
		Axis:        z.axis,
		Unclamped:   unclamped,
		Pose:        c.pose,
	}
}

// Focus returns the weighted centroid of the samples and their total weight.
// With no positive weight it returns fallback.
func Focus(samples []weights.Sample, fallback r2.Vec) (r2.Vec, float64) {
	var sum r2.Vec
	var total float64
	for _, s := range samples {
		if s.Weight <= 0 {
			continue
		}
		sum = r2.Add(sum, r2.Scale(s.Weight, s.Position))
		total += s.Weight
	}
	if total <= 0 {
		return fallback, 0
	}
	return r2.Scale(1/total, sum), total
}

// Zoom returns the signed depth that keeps the important samples in view
// from the candidate position. Without important samples the current depth
// is returned.
func (c *Controller) Zoom(candidate r2.Vec, samples []weights.Sample) float64 {
	return c.zoom(candidate, c.pose.Z, samples).depth
}

type zoomResult struct {
	depth     float64
	farthest  r2.Vec
	axis      Axis
	important int
}

func (c *Controller) zoom(candidate r2.Vec, prevDepth float64, samples []weights.Sample) zoomResult {
	aspect := c.lens.Aspect()

	// Farthest in view-normalized units; ties keep the earliest sample.
	res := zoomResult{depth: prevDepth, farthest: candidate}
	var best float64
	for _, s := range samples {
		if !s.Important() {
			continue
		}
		res.important++
		d := math.Max(math.Abs(s.Position.X-candidate.X)/aspect, math.Abs(s.Position.Y-candidate.Y))
		if d > best {
			best = d
			res.farthest = s.Position
		}
	}
	if res.important == 0 {
		return res
	}

	dx := math.Abs(candidate.X-res.farthest.X) + c.edgeBuffer.X
	dy := math.Abs(candidate.Y-res.farthest.Y) + c.edgeBuffer.Y

	var dist float64
	if dy > dx/aspect {
		res.axis = AxisVertical
		dist = dy / math.Tan(c.lens.VerticalFOV()/2)
	} else {
		res.axis = AxisHorizontal
		dist = dx / math.Tan(c.lens.HorizontalFOV()/2)
	}
	res.depth = -c.limits.Clamp(dist)
	return res
}

// MaxOffset returns how far from the level center the camera may sit on each
// axis at the given depth without the view crossing the level edge.
//
// Edge rays at the half FOV angles are cast backward from the right and top
// level edges; where they land at the camera's distance (less the near clip)
// gives the furthest the center can go. Half the viewport rect is kept as
// extra margin.
func (c *Controller) MaxOffset(depth float64) r2.Vec {
	dist := math.Abs(depth) - c.lens.NearClip
	half := c.bounds.HalfExtents()

	hx := c.lens.HorizontalFOV() / 2
	vy := c.lens.VerticalFOV() / 2

	// Backward axis (-Z) rotated outward by each half angle.
	xEdge := r3.Vec{X: -math.Sin(hx), Z: -math.Cos(hx)}
	yEdge := r3.Vec{Y: -math.Sin(vy), Z: -math.Cos(vy)}

	right := r3.Vec{X: half.X}
	top := r3.Vec{Y: half.Y}
	xHit := r3.Add(right, r3.Scale(dist/math.Cos(hx), xEdge))
	yHit := r3.Add(top, r3.Scale(dist/math.Cos(vy), yEdge))

	return r2.Vec{
		X: clamp(xHit.X-c.lens.Viewport.X/2, 0, half.X),
		Y: clamp(yHit.Y-c.lens.Viewport.Y/2, 0, half.Y),
	}
}

// Clamp keeps the pose's x/y within the region where the view at the pose's
// depth stays inside the level bounds. Depth is unchanged.
//
// The allowed range is centered on the bounds center, x in
// [cx-maxX, cx+maxX] and y in [cy-maxY, cy+maxY], rather than on the world
// origin. For a level centered at the origin this is [-maxX, maxX].
func (c *Controller) Clamp(pose r3.Vec) r3.Vec {
	m := c.MaxOffset(pose.Z)
	ctr := c.bounds.Center
	pose.X = clamp(pose.X, ctr.X-m.X, ctr.X+m.X)
	pose.Y = clamp(pose.Y, ctr.Y-m.Y, ctr.Y+m.Y)
	return pose
}
