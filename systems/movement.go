// Package systems holds the ECS systems that drive the demo scene.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/weightcam/camera"
	"github.com/pthm-cable/weightcam/components"
)

// MovementSystem integrates velocities and bounces entities off the level edges.
type MovementSystem struct {
	filter ecs.Filter2[components.Position, components.Velocity]
	bounds camera.Bounds
}

// NewMovementSystem creates a movement system confined to bounds.
func NewMovementSystem(w *ecs.World, bounds camera.Bounds) *MovementSystem {
	return &MovementSystem{
		filter: *ecs.NewFilter2[components.Position, components.Velocity](w),
		bounds: bounds,
	}
}

// Update advances all moving entities by dt seconds.
func (s *MovementSystem) Update(dt float64) {
	box := s.bounds.Box()

	query := s.filter.Query()
	for query.Next() {
		pos, vel := query.Get()
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt

		if pos.X < box.Min.X {
			pos.X = 2*box.Min.X - pos.X
			vel.X = -vel.X
		} else if pos.X > box.Max.X {
			pos.X = 2*box.Max.X - pos.X
			vel.X = -vel.X
		}
		if pos.Y < box.Min.Y {
			pos.Y = 2*box.Min.Y - pos.Y
			vel.Y = -vel.Y
		} else if pos.Y > box.Max.Y {
			pos.Y = 2*box.Max.Y - pos.Y
			vel.Y = -vel.Y
		}
	}
}
