package camera

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Lens describes the perspective camera looking at the level plane.
type Lens struct {
	// FOV is the vertical field of view in degrees.
	FOV float64
	// NearClip is the distance from the camera to the near clip plane.
	NearClip float64
	// Viewport is the normalized size of the camera's screen rect.
	// Full screen is (1, 1).
	Viewport r2.Vec

	aspect float64

	// Horizontal FOV cache, valid for hfovAspect.
	hfov       float64
	hfovAspect float64
}

// NewLens creates a full-screen lens and validates its parameters.
func NewLens(fovDeg, aspect, nearClip float64) (*Lens, error) {
	l := &Lens{
		FOV:      fovDeg,
		NearClip: nearClip,
		Viewport: r2.Vec{X: 1, Y: 1},
		aspect:   aspect,
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks that the lens is non-degenerate.
func (l *Lens) Validate() error {
	if !(l.FOV > 0 && l.FOV < 180) {
		return fmt.Errorf("%w: got %v", ErrInvalidFOV, l.FOV)
	}
	if !(l.aspect > 0) || math.IsInf(l.aspect, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidAspect, l.aspect)
	}
	if l.NearClip < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidNearClip, l.NearClip)
	}
	if l.Viewport.X < 0 || l.Viewport.X > 1 || l.Viewport.Y < 0 || l.Viewport.Y > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidViewport, l.Viewport)
	}
	return nil
}

// Aspect returns width / height of the view.
func (l *Lens) Aspect() float64 {
	return l.aspect
}

// SetAspect updates the aspect ratio, e.g. after a window resize.
// The horizontal FOV is recomputed lazily on the next query.
func (l *Lens) SetAspect(aspect float64) {
	l.aspect = aspect
}

// VerticalFOV returns the vertical field of view in radians.
func (l *Lens) VerticalFOV() float64 {
	return l.FOV * math.Pi / 180
}

// HorizontalFOV returns the horizontal field of view in radians.
func (l *Lens) HorizontalFOV() float64 {
	if l.aspect != l.hfovAspect {
		l.hfovAspect = l.aspect
		l.hfov = 2 * math.Atan(math.Tan(l.VerticalFOV()/2)*l.aspect)
	}
	return l.hfov
}

// HalfExtents returns the half width and half height of the view on a plane
// at the given distance in front of the camera.
func (l *Lens) HalfExtents(distance float64) r2.Vec {
	return r2.Vec{
		X: distance * math.Tan(l.HorizontalFOV()/2),
		Y: distance * math.Tan(l.VerticalFOV()/2),
	}
}
