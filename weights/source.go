// Package weights tracks weighted points of interest for the framing camera.
//
// Each registered source is mirrored by a Sample whose weight ramps toward the
// source's current weight every tick. When a source goes inactive the sample
// keeps its last position and fades to zero, after which the registry drops it.
package weights

import "gonum.org/v1/gonum/spatial/r2"

// Source is a point of interest that the camera should consider.
// Sources are queried once per tick and are otherwise passive.
type Source interface {
	// Position is the source's location on the level plane.
	Position() r2.Vec
	// Weight is the instantaneous pull of the source on the camera focus.
	Weight() float64
	// Important sources must stay inside the view; they drive zoom.
	Important() bool
	// Active reports whether the source still exists and is enabled.
	// An inactive source is treated exactly like a destroyed one.
	Active() bool
}

// Sample is the registry's smoothed view of one source.
type Sample struct {
	source Source

	// Position is the last known source position.
	Position r2.Vec
	// Weight is the smoothed weight, always >= 0.
	Weight float64
}

// NewSample builds a detached sample, e.g. for feeding a controller directly.
func NewSample(src Source, pos r2.Vec, weight float64) Sample {
	return Sample{source: src, Position: pos, Weight: weight}
}

// Source returns the source backing the sample. It may no longer be active.
func (s Sample) Source() Source {
	return s.source
}

// Alive reports whether the backing source is present and active.
func (s Sample) Alive() bool {
	return s.source != nil && s.source.Active()
}

// Important reports whether the sample must stay visible.
// Only live sources can be important.
func (s Sample) Important() bool {
	return s.Alive() && s.source.Important()
}
