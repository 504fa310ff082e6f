package camera

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ScreenRegion is a sub-rectangle of the view given as fractions of the
// full view, e.g. a safe area that keeps HUD elements clear.
type ScreenRegion struct {
	Width, Height             float64 // fraction of the view, [0, 1]
	WidthOffset, HeightOffset float64 // left/bottom inset as a fraction, [0, 1]
}

// FullScreen covers the whole view.
var FullScreen = ScreenRegion{Width: 1, Height: 1}

// Rect returns the world rectangle the region covers on the level plane when
// the camera is at pose.
func (s ScreenRegion) Rect(l *Lens, pose r3.Vec) r2.Box {
	h := l.HalfExtents(abs(pose.Z))
	min := r2.Vec{
		X: pose.X - h.X + 2*h.X*s.WidthOffset,
		Y: pose.Y - h.Y + 2*h.Y*s.HeightOffset,
	}
	size := r2.Vec{X: 2 * h.X * s.Width, Y: 2 * h.Y * s.Height}
	return r2.Box{Min: min, Max: r2.Add(min, size)}
}

// Aspect returns the region's aspect ratio on a screen of the given size.
func (s ScreenRegion) Aspect(screenW, screenH float64) float64 {
	return (screenW * s.Width) / (screenH * s.Height)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
