// Package renderer draws the framing scene with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/weightcam/camera"
)

// Mode selects what the view shows.
type Mode int

const (
	ModeOverview Mode = iota // Whole level with the camera view on top
	ModeCamera               // What the framing camera sees
)

// String returns the mode name for the HUD.
func (m Mode) String() string {
	if m == ModeCamera {
		return "camera"
	}
	return "overview"
}

// overviewMargin leaves room around the level in overview mode.
const overviewMargin = 1.1

// View maps level-plane coordinates to screen pixels. World Y points up,
// screen Y points down.
type View struct {
	Mode Mode

	screenW, screenH float32
	center           r2.Vec  // World point at the screen center
	scale            float64 // Pixels per world unit
}

// NewView creates a view for a screen of the given size.
func NewView(screenW, screenH int32) *View {
	return &View{
		screenW: float32(screenW),
		screenH: float32(screenH),
		scale:   1,
	}
}

// Resize updates the screen size.
func (v *View) Resize(screenW, screenH int32) {
	v.screenW = float32(screenW)
	v.screenH = float32(screenH)
}

// ToggleMode switches between overview and camera mode.
func (v *View) ToggleMode() Mode {
	if v.Mode == ModeOverview {
		v.Mode = ModeCamera
	} else {
		v.Mode = ModeOverview
	}
	return v.Mode
}

// Fit positions the view for the current mode.
func (v *View) Fit(bounds camera.Bounds, lens *camera.Lens, pose r3.Vec) {
	switch v.Mode {
	case ModeCamera:
		half := lens.HalfExtents(math.Abs(pose.Z))
		v.center = r2.Vec{X: pose.X, Y: pose.Y}
		if half.Y > 0 {
			v.scale = float64(v.screenH) / (2 * half.Y)
		}
	default:
		half := r2.Scale(overviewMargin, bounds.HalfExtents())
		v.center = bounds.Center
		v.scale = math.Min(float64(v.screenW)/(2*half.X), float64(v.screenH)/(2*half.Y))
	}
}

// Scale returns pixels per world unit.
func (v *View) Scale() float64 {
	return v.scale
}

// ToScreen converts a level-plane point to screen pixels.
func (v *View) ToScreen(p r2.Vec) rl.Vector2 {
	d := r2.Scale(v.scale, r2.Sub(p, v.center))
	return rl.Vector2{
		X: v.screenW/2 + float32(d.X),
		Y: v.screenH/2 - float32(d.Y),
	}
}

// ToWorld converts screen pixels to a level-plane point.
func (v *View) ToWorld(s rl.Vector2) r2.Vec {
	d := r2.Vec{
		X: float64(s.X - v.screenW/2),
		Y: float64(v.screenH/2 - s.Y),
	}
	return r2.Add(v.center, r2.Scale(1/v.scale, d))
}

// BoxToScreen converts a level-plane box to a screen rectangle.
func (v *View) BoxToScreen(b r2.Box) rl.Rectangle {
	topLeft := v.ToScreen(r2.Vec{X: b.Min.X, Y: b.Max.Y})
	bottomRight := v.ToScreen(r2.Vec{X: b.Max.X, Y: b.Min.Y})
	return rl.Rectangle{
		X:      topLeft.X,
		Y:      topLeft.Y,
		Width:  bottomRight.X - topLeft.X,
		Height: bottomRight.Y - topLeft.Y,
	}
}
