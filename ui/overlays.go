package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/weightcam/renderer"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayGrid     OverlayID = "grid"
	OverlayLevel    OverlayID = "level"
	OverlayClamp    OverlayID = "clamp"
	OverlayView     OverlayID = "view"
	OverlaySafeArea OverlayID = "safe_area"
	OverlayTargets  OverlayID = "targets"
	OverlaySamples  OverlayID = "samples"
	OverlayFocus    OverlayID = "focus"
	OverlayLabels   OverlayID = "labels"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32  // Keyboard key to toggle (0 = no key)
	KeyLabel string // Key label for display
	Category string // "scene" or "camera"
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the default overlays, all enabled.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{ID: OverlayGrid, Name: "Grid", Key: rl.KeyG, KeyLabel: "G", Category: "scene"})
	r.Register(OverlayDescriptor{ID: OverlayLevel, Name: "Level Bounds", Key: rl.KeyB, KeyLabel: "B", Category: "scene"})
	r.Register(OverlayDescriptor{ID: OverlayTargets, Name: "Targets", Key: rl.KeyT, KeyLabel: "T", Category: "scene"})
	r.Register(OverlayDescriptor{ID: OverlayLabels, Name: "Labels", Key: rl.KeyL, KeyLabel: "L", Category: "scene"})

	r.Register(OverlayDescriptor{ID: OverlaySamples, Name: "Samples", Key: rl.KeyW, KeyLabel: "W", Category: "camera"})
	r.Register(OverlayDescriptor{ID: OverlayFocus, Name: "Focus", Key: rl.KeyF, KeyLabel: "F", Category: "camera"})
	r.Register(OverlayDescriptor{ID: OverlayView, Name: "View Rect", Key: rl.KeyV, KeyLabel: "V", Category: "camera"})
	r.Register(OverlayDescriptor{ID: OverlayClamp, Name: "Clamp Region", Key: rl.KeyC, KeyLabel: "C", Category: "camera"})
	r.Register(OverlayDescriptor{ID: OverlaySafeArea, Name: "Safe Area", Key: rl.KeyA, KeyLabel: "A", Category: "camera"})
}

// Register adds an overlay to the registry, enabled.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = true
}

// Toggle switches an overlay on/off and returns the new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress toggles the overlay bound to key.
// Returns the overlay ID, its new state, and whether a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// Layers converts the overlay state to renderer layers.
func (r *OverlayRegistry) Layers() renderer.Layers {
	return renderer.Layers{
		Grid:     r.enabled[OverlayGrid],
		Level:    r.enabled[OverlayLevel],
		Clamp:    r.enabled[OverlayClamp],
		View:     r.enabled[OverlayView],
		SafeArea: r.enabled[OverlaySafeArea],
		Targets:  r.enabled[OverlayTargets],
		Samples:  r.enabled[OverlaySamples],
		Focus:    r.enabled[OverlayFocus],
		Labels:   r.enabled[OverlayLabels],
	}
}
