package game

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/weightcam/components"
	"github.com/pthm-cable/weightcam/config"
	"github.com/pthm-cable/weightcam/systems"
)

// TargetView is a read-only copy of a target for display.
type TargetView struct {
	Entity    ecs.Entity
	Name      string
	Position  r2.Vec
	Weight    float64
	Important bool
	Enabled   bool
}

// spawnDue spawns every pending target whose spawn time has come.
func (g *Game) spawnDue() {
	now := g.SimTime()
	n := 0
	for n < len(g.pending) && g.pending[n].SpawnAt <= now {
		g.SpawnTarget(g.pending[n])
		n++
	}
	g.pending = g.pending[n:]
}

// SpawnTarget creates a target entity and registers it with the camera.
func (g *Game) SpawnTarget(tc config.TargetConfig) ecs.Entity {
	pos := components.Position{X: tc.X, Y: tc.Y}
	vel := components.Velocity{X: tc.VX, Y: tc.VY}
	target := components.Target{
		Name:      tc.Name,
		Weight:    tc.Weight,
		Important: tc.Important,
		Enabled:   !tc.Disabled,
	}

	var e ecs.Entity
	if tc.Lifetime > 0 {
		e = g.mortalMapper.NewEntity(&pos, &vel, &target, &components.Lifetime{Remaining: tc.Lifetime})
	} else {
		e = g.moverMapper.NewEntity(&pos, &vel, &target)
	}
	g.names[e] = tc.Name
	g.registry.Register(g.sources.Source(e))

	g.logger.Debug("target spawned",
		"name", tc.Name,
		"x", tc.X,
		"y", tc.Y,
		"weight", tc.Weight,
		"important", tc.Important,
		"tick", g.tick,
	)
	return e
}

// find returns the live entity with the given name.
func (g *Game) find(name string) (ecs.Entity, bool) {
	for e, n := range g.names {
		if n == name && g.world.Alive(e) {
			return e, true
		}
	}
	return ecs.Entity{}, false
}

// SetTargetEnabled enables or disables a named target. A disabled target
// fades out of the framing like a removed one.
func (g *Game) SetTargetEnabled(name string, enabled bool) bool {
	e, ok := g.find(name)
	if !ok {
		return false
	}
	g.targetMap.Get(e).Enabled = enabled
	if enabled {
		g.ensureSample(e)
	}
	return true
}

// ToggleTarget flips a named target's enabled flag.
func (g *Game) ToggleTarget(name string) bool {
	e, ok := g.find(name)
	if !ok {
		return false
	}
	t := g.targetMap.Get(e)
	t.Enabled = !t.Enabled
	if t.Enabled {
		g.ensureSample(e)
	}
	return true
}

// ensureSample registers e again if its sample already faded out while the
// target was disabled.
func (g *Game) ensureSample(e ecs.Entity) {
	for _, s := range g.registry.Snapshot() {
		if src, ok := s.Source().(*systems.EntitySource); ok && src.Entity() == e {
			return
		}
	}
	g.registry.Register(g.sources.Source(e))
}

// RemoveTarget destroys a named target. Its sample lingers while it fades.
func (g *Game) RemoveTarget(name string) bool {
	e, ok := g.find(name)
	if !ok {
		return false
	}
	g.world.RemoveEntity(e)
	delete(g.names, e)
	return true
}

// Targets returns all live targets.
func (g *Game) Targets() []TargetView {
	var out []TargetView
	query := g.targetFilter.Query()
	for query.Next() {
		pos, t := query.Get()
		out = append(out, TargetView{
			Entity:    query.Entity(),
			Name:      t.Name,
			Position:  r2.Vec{X: pos.X, Y: pos.Y},
			Weight:    t.Weight,
			Important: t.Important,
			Enabled:   t.Enabled,
		})
	}
	return out
}
