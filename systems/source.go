package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/weightcam/components"
)

// TargetSources creates weight sources backed by ECS entities.
type TargetSources struct {
	world   *ecs.World
	posMap  *ecs.Map1[components.Position]
	targMap *ecs.Map1[components.Target]
}

// NewTargetSources creates a source factory for the world.
func NewTargetSources(w *ecs.World) *TargetSources {
	return &TargetSources{
		world:   w,
		posMap:  ecs.NewMap1[components.Position](w),
		targMap: ecs.NewMap1[components.Target](w),
	}
}

// Source returns a weight source for an entity with Position and Target.
func (t *TargetSources) Source(e ecs.Entity) *EntitySource {
	return &EntitySource{owner: t, entity: e}
}

// EntitySource adapts an entity to weights.Source. It does not keep the
// entity alive; once the entity is removed the source reports inactive.
type EntitySource struct {
	owner  *TargetSources
	entity ecs.Entity
}

// Entity returns the backing entity.
func (s *EntitySource) Entity() ecs.Entity {
	return s.entity
}

func (s *EntitySource) alive() bool {
	return s.owner.world.Alive(s.entity)
}

// Position returns the entity position, or the origin once removed.
func (s *EntitySource) Position() r2.Vec {
	if !s.alive() {
		return r2.Vec{}
	}
	pos := s.owner.posMap.Get(s.entity)
	return r2.Vec{X: pos.X, Y: pos.Y}
}

// Weight returns the target weight, or zero once removed.
func (s *EntitySource) Weight() float64 {
	if !s.alive() {
		return 0
	}
	return s.owner.targMap.Get(s.entity).Weight
}

// Important reports the target's important flag.
func (s *EntitySource) Important() bool {
	return s.alive() && s.owner.targMap.Get(s.entity).Important
}

// Active reports whether the entity exists and its target is enabled.
func (s *EntitySource) Active() bool {
	return s.alive() && s.owner.targMap.Get(s.entity).Enabled
}
