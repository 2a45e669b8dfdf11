package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/strata/systems"
	"github.com/pthm-cable/strata/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Mode         string
	Tick         int64
	FPS          int32
	X, Y, Z      float64
	Speed        float64
	Grounded     bool
	Class        string
	CursorLocked bool
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	x := r.Theme.Padding
	y := r.Theme.Padding

	r.DrawPanel(x-4, y-4, 280, 8*r.Theme.LineHeight+8)
	y = r.DrawSectionHeader(x, y, data.Title)
	y = r.DrawLabelValue(x, y, "Mode", data.Mode)
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d  (%d fps)", data.Tick, data.FPS))
	y = r.DrawLabelValue(x, y, "Eye", fmt.Sprintf("%.2f, %.2f, %.2f", data.X, data.Y, data.Z))
	y = r.DrawLabelValue(x, y, "Speed", fmt.Sprintf("%.2f", data.Speed))

	contact := "airborne"
	if data.Grounded {
		contact = "grounded"
	}
	y = r.DrawLabelValue(x, y, "Contact", contact)

	class := data.Class
	if class == "" {
		class = "-"
	}
	r.DrawLabelValue(x, y, "Terrain", class)

	if !data.CursorLocked {
		msg := "Click to capture the mouse"
		w := rl.MeasureText(msg, 20)
		rl.DrawText(msg, (data.ScreenWidth-w)/2, data.ScreenHeight/2, 20, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.DarkGray)
}

// DrawLegend renders the terrain class swatches.
func (h *HUD) DrawLegend(x, y int32) {
	r := h.renderer
	for c := systems.TerrainClass(0); c < systems.NumClasses; c++ {
		col := c.Color()
		y = r.DrawColorSwatch(x, y, c.String(), rl.NewColor(
			uint8(col.R*255), uint8(col.G*255), uint8(col.B*255), 255,
		))
	}
}

// PerfPanel renders the per-phase tick timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	const width = 260
	x, y := p.x, p.y

	r.DrawPanel(x-4, y-4, width+8, 7*r.Theme.LineHeight+8)
	y = r.DrawSectionHeader(x, y, "Tick timing")
	y = r.DrawLabelValue(x, y, "Avg", stats.AvgTickDuration.Round(100*time.Nanosecond).String())
	y = r.DrawLabelValue(x, y, "Max", stats.MaxTickDuration.Round(100*time.Nanosecond).String())

	for _, phase := range []string{
		telemetry.PhaseInput,
		telemetry.PhaseLook,
		telemetry.PhaseController,
		telemetry.PhaseTelemetry,
	} {
		y = r.DrawBar(x, y, phase, float32(stats.PhasePct[phase]/100), 0.5, width)
	}
}
