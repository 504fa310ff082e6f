package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/weightcam/components"
)

// LifetimeSystem removes entities whose lifetime ran out.
type LifetimeSystem struct {
	filter  ecs.Filter1[components.Lifetime]
	expired []ecs.Entity
}

// NewLifetimeSystem creates a lifetime system.
func NewLifetimeSystem(w *ecs.World) *LifetimeSystem {
	return &LifetimeSystem{
		filter: *ecs.NewFilter1[components.Lifetime](w),
	}
}

// Update ticks lifetimes down by dt and removes expired entities.
// It returns the removed entities; the slice is reused by the next call.
func (s *LifetimeSystem) Update(w *ecs.World, dt float64) []ecs.Entity {
	s.expired = s.expired[:0]

	// Collect first; the world is locked while a query is open.
	query := s.filter.Query()
	for query.Next() {
		life := query.Get()
		life.Remaining -= dt
		if life.Remaining <= 0 {
			s.expired = append(s.expired, query.Entity())
		}
	}

	for _, e := range s.expired {
		w.RemoveEntity(e)
	}
	return s.expired
}
