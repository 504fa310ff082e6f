package ui

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/weightcam/config"
	"github.com/pthm-cable/weightcam/game"
	"github.com/pthm-cable/weightcam/renderer"
)

// Input maps keyboard and mouse events onto the game and view.
type Input struct {
	Overlays *OverlayRegistry
	Controls *ControlsPanel
	View     *renderer.View

	spawned []string // Names of targets added by clicking, oldest first
	markers int
}

// Handle processes input for one frame. It returns true when the game
// should advance a single step while paused.
func (in *Input) Handle(g *game.Game) bool {
	in.handleResize(g)

	if rl.IsKeyPressed(rl.KeySpace) {
		g.SetPaused(!g.Paused())
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		in.View.ToggleMode()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		in.Controls.Toggle()
	}
	for key := int32(rl.KeyOne); key <= rl.KeyNine; key++ {
		if !rl.IsKeyPressed(key) {
			continue
		}
		targets := g.Targets()
		if i := int(key - rl.KeyOne); i < len(targets) {
			g.ToggleTarget(targets[i].Name)
		}
	}
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, on, ok := in.Overlays.HandleKeyPress(key); ok {
			slog.Debug("overlay toggled", "overlay", id, "enabled", on)
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		in.spawnAt(g, in.View.ToWorld(rl.GetMousePosition()), rl.IsKeyDown(rl.KeyLeftShift))
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(in.spawned) > 0 {
		name := in.spawned[len(in.spawned)-1]
		in.spawned = in.spawned[:len(in.spawned)-1]
		g.RemoveTarget(name)
	}

	return g.Paused() && rl.IsKeyPressed(rl.KeyN)
}

func (in *Input) spawnAt(g *game.Game, pos r2.Vec, important bool) {
	in.markers++
	name := fmt.Sprintf("marker-%d", in.markers)
	g.SpawnTarget(config.TargetConfig{
		Name:      name,
		X:         pos.X,
		Y:         pos.Y,
		Weight:    1,
		Important: important,
	})
	in.spawned = append(in.spawned, name)
}

func (in *Input) handleResize(g *game.Game) {
	if !rl.IsWindowResized() {
		return
	}
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	in.View.Resize(w, h)
	g.Resize(int(w), int(h))
}
