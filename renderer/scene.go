package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/weightcam/camera"
	"github.com/pthm-cable/weightcam/game"
	"github.com/pthm-cable/weightcam/weights"
)

// Layers selects which scene elements are drawn.
type Layers struct {
	Grid     bool
	Level    bool
	Clamp    bool // Region the camera center may occupy
	View     bool // Camera view rectangle
	SafeArea bool
	Targets  bool
	Samples  bool // Smoothed samples, including fading ones
	Focus    bool
	Labels   bool
}

// AllLayers enables everything.
func AllLayers() Layers {
	return Layers{
		Grid: true, Level: true, Clamp: true, View: true, SafeArea: true,
		Targets: true, Samples: true, Focus: true, Labels: true,
	}
}

// gridSpacing is the distance between grid lines in world units.
const gridSpacing = 10.0

// SceneRenderer draws the level, targets and camera state.
type SceneRenderer struct {
	Background rl.Color
	GridColor  rl.Color
	LevelColor rl.Color
	ClampColor rl.Color
	ViewColor  rl.Color
	SafeColor  rl.Color
	Important  rl.Color
	Ordinary   rl.Color
	Disabled   rl.Color
	FocusColor rl.Color
}

// NewSceneRenderer creates a renderer with the default palette.
func NewSceneRenderer() *SceneRenderer {
	return &SceneRenderer{
		Background: rl.Color{R: 18, G: 22, B: 28, A: 255},
		GridColor:  rl.Color{R: 40, G: 46, B: 56, A: 255},
		LevelColor: rl.Color{R: 180, G: 180, B: 190, A: 255},
		ClampColor: rl.Color{R: 200, G: 120, B: 60, A: 160},
		ViewColor:  rl.Color{R: 90, G: 200, B: 250, A: 255},
		SafeColor:  rl.Color{R: 90, G: 200, B: 250, A: 90},
		Important:  rl.Color{R: 240, G: 90, B: 90, A: 255},
		Ordinary:   rl.Color{R: 110, G: 200, B: 120, A: 255},
		Disabled:   rl.Color{R: 90, G: 90, B: 90, A: 255},
		FocusColor: rl.Yellow,
	}
}

// Draw renders the scene for g through v.
func (s *SceneRenderer) Draw(v *View, g *game.Game, safe camera.ScreenRegion, layers Layers) {
	ctrl := g.Controller()
	frame := g.Frame()
	bounds := ctrl.Bounds()

	rl.ClearBackground(s.Background)

	if layers.Grid {
		s.drawGrid(v, bounds)
	}
	if layers.Level {
		rl.DrawRectangleLinesEx(v.BoxToScreen(bounds.Box()), 2, s.LevelColor)
	}
	if layers.Clamp {
		s.drawClampRegion(v, ctrl, frame.Pose)
	}
	if layers.Samples {
		s.drawSamples(v, g.Registry().Snapshot())
	}
	if layers.Targets {
		s.drawTargets(v, g.Targets(), layers.Labels)
	}
	if layers.Focus {
		s.drawFocus(v, frame)
	}
	if v.Mode == ModeOverview && layers.View {
		rect := camera.FullScreen.Rect(ctrl.Lens(), frame.Pose)
		rl.DrawRectangleLinesEx(v.BoxToScreen(rect), 2, s.ViewColor)
	}
	if layers.SafeArea {
		rect := safe.Rect(ctrl.Lens(), frame.Pose)
		rl.DrawRectangleLinesEx(v.BoxToScreen(rect), 1, s.SafeColor)
	}
}

func (s *SceneRenderer) drawGrid(v *View, b camera.Bounds) {
	box := b.Box()
	for x := math.Ceil(box.Min.X/gridSpacing) * gridSpacing; x <= box.Max.X; x += gridSpacing {
		rl.DrawLineV(v.ToScreen(r2.Vec{X: x, Y: box.Min.Y}), v.ToScreen(r2.Vec{X: x, Y: box.Max.Y}), s.GridColor)
	}
	for y := math.Ceil(box.Min.Y/gridSpacing) * gridSpacing; y <= box.Max.Y; y += gridSpacing {
		rl.DrawLineV(v.ToScreen(r2.Vec{X: box.Min.X, Y: y}), v.ToScreen(r2.Vec{X: box.Max.X, Y: y}), s.GridColor)
	}
}

func (s *SceneRenderer) drawClampRegion(v *View, ctrl *camera.Controller, pose r3.Vec) {
	m := ctrl.MaxOffset(pose.Z)
	c := ctrl.Bounds().Center
	box := r2.Box{Min: r2.Sub(c, m), Max: r2.Add(c, m)}
	rl.DrawRectangleLinesEx(v.BoxToScreen(box), 1, s.ClampColor)
}

func (s *SceneRenderer) drawTargets(v *View, targets []game.TargetView, labels bool) {
	for _, t := range targets {
		color := s.Ordinary
		if t.Important {
			color = s.Important
		}
		if !t.Enabled {
			color = s.Disabled
		}
		pos := v.ToScreen(t.Position)
		rl.DrawCircleV(pos, targetRadius(t.Weight), color)
		if labels {
			rl.DrawText(t.Name, int32(pos.X)+10, int32(pos.Y)-18, 12, rl.LightGray)
		}
	}
}

// drawSamples draws each sample as a ring sized by its smoothed weight.
// Samples whose source is gone keep fading at their last position.
func (s *SceneRenderer) drawSamples(v *View, samples []weights.Sample) {
	for _, smp := range samples {
		pos := v.ToScreen(smp.Position)
		color := s.ViewColor
		if !smp.Alive() {
			color = s.Disabled
		}
		rl.DrawCircleLinesV(pos, targetRadius(smp.Weight)+4, color)
	}
}

func (s *SceneRenderer) drawFocus(v *View, f camera.Frame) {
	focus := v.ToScreen(f.Focus)
	rl.DrawLineV(rl.Vector2{X: focus.X - 8, Y: focus.Y}, rl.Vector2{X: focus.X + 8, Y: focus.Y}, s.FocusColor)
	rl.DrawLineV(rl.Vector2{X: focus.X, Y: focus.Y - 8}, rl.Vector2{X: focus.X, Y: focus.Y + 8}, s.FocusColor)

	if f.Important > 0 {
		far := v.ToScreen(f.Farthest)
		rl.DrawLineV(focus, far, rl.Fade(s.FocusColor, 0.4))
		rl.DrawText(f.Axis.String(), int32(far.X)+8, int32(far.Y)+8, 10, s.FocusColor)
	}

	pose := v.ToScreen(r2.Vec{X: f.Pose.X, Y: f.Pose.Y})
	rl.DrawCircleLinesV(pose, 5, s.ViewColor)
}

// targetRadius maps a weight to a circle radius in pixels.
func targetRadius(weight float64) float32 {
	return float32(4 + 6*math.Sqrt(math.Max(weight, 0)))
}
