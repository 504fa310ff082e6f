// Package components defines ECS components for the demo scene.
package components

// Position represents an entity's position on the level plane.
type Position struct {
	X, Y float64
}

// Velocity represents an entity's velocity in world units per second.
type Velocity struct {
	X, Y float64
}

// Target marks an entity as a point of interest for the camera.
type Target struct {
	Name      string
	Weight    float64
	Important bool
	Enabled   bool
}

// Lifetime despawns an entity once Remaining reaches zero.
// Entities without it live until removed explicitly.
type Lifetime struct {
	Remaining float64 // seconds
}
