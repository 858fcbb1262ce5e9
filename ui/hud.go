package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/systems"
	"github.com/pthm-cable/nebula/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Status       systems.Status
	Winner       string
	Participants int
	Messages     int
	Avatars      int
	Visible      int // Particles carrying the current layout
	Capacity     int
	Pending      int
	Applied      int
	Failed       int
	Spin         float64
	Scale        float64
	FPS          int32
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
	theme := h.renderer.Theme
	x := data.ScreenWidth - 260

	rl.DrawText(data.Title, x, 10, 20, rl.White)
	rl.DrawText(data.Status.String(), x, 35, 18, theme.SectionHeader)
	if data.Winner != "" && data.Status >= systems.StatusConverging {
		rl.DrawText(data.Winner, x, 57, 18, theme.Accent)
	}

	rl.DrawText(
		fmt.Sprintf("People: %d | Avatars: %d | Msgs: %d", data.Participants, data.Avatars, data.Messages),
		x, 80, 12, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Particles: %d/%d | FPS: %d", data.Visible, data.Capacity, data.FPS),
		x, 96, 12, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Spin: %.2f rad/s | Scale: %.2f", data.Spin, data.Scale),
		x, 112, 12, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Portraits: %d ok, %d failed, %d pending", data.Applied, data.Failed, data.Pending),
		x, 128, 12, rl.LightGray,
	)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase frame timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Draw renders frame timing with a bar per phase.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	phases := []string{
		telemetry.PhaseTargets,
		telemetry.PhaseSimulation,
		telemetry.PhaseDecoration,
		telemetry.PhaseRender,
	}
	height := r.Theme.Padding*2 + r.Theme.LineHeight*3 + int32(len(phases))*(r.Theme.LineHeight+2)
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding
	y = r.DrawSectionHeader(x, y, "Frame")
	y = r.DrawLabelValue(x, y, "avg / p90", fmt.Sprintf("%dus / %dus",
		stats.AvgFrameDuration.Microseconds(), stats.P90FrameDuration.Microseconds()))
	for _, phase := range phases {
		y = r.DrawBar(x, y, phase, float32(stats.PhasePct[phase]/100), p.width-r.Theme.Padding*2)
	}
}
