package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/weightcam/config"
	"github.com/pthm-cable/weightcam/game"
	"github.com/pthm-cable/weightcam/weights"
)

// FramingPanel edits the framing parameters live.
type FramingPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewFramingPanel creates a framing panel.
func NewFramingPanel(x, y, width int32) *FramingPanel {
	return &FramingPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *FramingPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the sliders and returns the edited parameters and whether
// anything changed.
func (p *FramingPanel) Draw(f config.FramingConfig) (config.FramingConfig, bool) {
	r := p.renderer
	padding := r.Theme.Padding
	panelX := float32(p.x + padding)
	panelY := float32(p.y + padding)
	sliderW := float32(p.width - padding*2 - 50)

	r.DrawPanel(p.x, p.y, p.width, 190)
	rl.DrawText("Framing", int32(panelX), int32(panelY), 16, rl.White)
	panelY += 24

	changed := false
	slider := func(label, minText, maxText string, value *float64, min, max float32) {
		rl.DrawText(label, int32(panelX), int32(panelY), r.Theme.FontSize, r.Theme.LabelColor)
		panelY += 14
		next := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: sliderW, Height: 16},
			minText, maxText,
			float32(*value), min, max,
		)
		rl.DrawText(fmt.Sprintf("%.2f", *value), int32(panelX+sliderW+8), int32(panelY+2), r.Theme.FontSize, r.Theme.ValueColor)
		if next != float32(*value) {
			*value = float64(next)
			changed = true
		}
		panelY += 24
	}

	slider("Edge buffer X", "", "", &f.EdgeBufferX, 0, 20)
	slider("Edge buffer Y", "", "", &f.EdgeBufferY, 0, 20)
	slider("Time constant (s)", "", "", &f.TimeConstant, 0.05, 5)

	mode, _ := weights.ParseSmoothingMode(f.Smoothing)
	if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: sliderW, Height: 24}, "Smoothing: "+mode.String()) {
		if mode == weights.SmoothingLinear {
			f.Smoothing = weights.SmoothingExponential.String()
		} else {
			f.Smoothing = weights.SmoothingLinear.String()
		}
		changed = true
	}
	return f, changed
}

// TargetsPanel lists targets with their weights and enable buttons.
type TargetsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewTargetsPanel creates a targets panel.
func NewTargetsPanel(x, y, width int32) *TargetsPanel {
	return &TargetsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *TargetsPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the list and returns the name of a target whose button was
// pressed, or "".
func (p *TargetsPanel) Draw(targets []game.TargetView) string {
	r := p.renderer
	padding := r.Theme.Padding
	rowHeight := r.Theme.LineHeight + 6
	height := int32(len(targets))*rowHeight + padding*2 + 20

	r.DrawPanel(p.x, p.y, p.width, height)
	y := r.DrawSectionHeader(p.x+padding, p.y+padding, "Targets") + 4

	pressed := ""
	for _, t := range targets {
		fill := r.Theme.BarFill
		if t.Important {
			fill = r.Theme.BarFillAlt
		}
		r.DrawBar(p.x+padding, y, t.Name, float32(t.Weight), 5, p.width-padding*2-40, fill)

		label := "On"
		if !t.Enabled {
			label = "Off"
		}
		btn := rl.Rectangle{X: float32(p.x + p.width - padding - 36), Y: float32(y), Width: 36, Height: float32(r.Theme.LineHeight)}
		if gui.Button(btn, label) {
			pressed = t.Name
		}
		y += rowHeight
	}
	return pressed
}
