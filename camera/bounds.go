package camera

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Bounds is the level rectangle the view must stay inside.
type Bounds struct {
	Center r2.Vec
	Size   r2.Vec
}

// NewBounds creates bounds from a center and a size.
func NewBounds(cx, cy, width, height float64) Bounds {
	return Bounds{
		Center: r2.Vec{X: cx, Y: cy},
		Size:   r2.Vec{X: width, Y: height},
	}
}

// Validate checks that the rectangle has area.
func (b Bounds) Validate() error {
	if !(b.Size.X > 0 && b.Size.Y > 0) {
		return fmt.Errorf("%w: got %vx%v", ErrInvalidBounds, b.Size.X, b.Size.Y)
	}
	return nil
}

// HalfExtents returns half the width and height.
func (b Bounds) HalfExtents() r2.Vec {
	return r2.Scale(0.5, b.Size)
}

// Box returns the rectangle as min/max corners.
func (b Bounds) Box() r2.Box {
	h := b.HalfExtents()
	return r2.Box{Min: r2.Sub(b.Center, h), Max: r2.Add(b.Center, h)}
}

// Contains reports whether p lies inside or on the rectangle.
func (b Bounds) Contains(p r2.Vec) bool {
	h := b.HalfExtents()
	return math.Abs(p.X-b.Center.X) <= h.X && math.Abs(p.Y-b.Center.Y) <= h.Y
}

// ZoomLimits bounds the camera's distance from the level plane.
type ZoomLimits struct {
	Min, Max float64
}

// Validate checks 0 <= Min <= Max.
func (z ZoomLimits) Validate() error {
	if z.Min < 0 || z.Max < z.Min || math.IsNaN(z.Min) || math.IsNaN(z.Max) {
		return fmt.Errorf("%w: got [%v, %v]", ErrInvalidZoom, z.Min, z.Max)
	}
	return nil
}

// Clamp restricts a distance to the limits.
func (z ZoomLimits) Clamp(d float64) float64 {
	return clamp(d, z.Min, z.Max)
}

// FitDistance returns the distance at which the view exactly covers the
// level on its tighter axis. Any farther and the view would show area
// outside the level.
func FitDistance(b Bounds, l *Lens) float64 {
	h := b.HalfExtents()
	byWidth := h.X / math.Tan(l.HorizontalFOV()/2)
	byHeight := h.Y / math.Tan(l.VerticalFOV()/2)
	return math.Min(byWidth, byHeight)
}

// DeriveZoomLimits computes the limits for a level and lens.
// Max is the fit distance, tightened by maxDist when maxDist > 0.
// Min is minDist, never above Max.
func DeriveZoomLimits(b Bounds, l *Lens, minDist, maxDist float64) ZoomLimits {
	fit := FitDistance(b, l)
	limits := ZoomLimits{Min: math.Max(minDist, 0), Max: fit}
	if maxDist > 0 && maxDist < fit {
		limits.Max = maxDist
	}
	if limits.Min > limits.Max {
		limits.Min = limits.Max
	}
	return limits
}

// clamp restricts a value to a range.
func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
