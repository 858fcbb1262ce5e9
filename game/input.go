package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/systems"
	"github.com/pthm-cable/nebula/ui"
)

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	g.overlays.HandleKeys()

	if rl.IsKeyPressed(rl.KeySpace) {
		switch g.controller.Status() {
		case systems.StatusIdle, systems.StatusRevealed:
			g.controller.Start()
		case systems.StatusRolling, systems.StatusShuffling:
			g.stopDraw()
		}
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.controller.Shuffle()
	}
	if rl.IsKeyPressed(rl.KeyEnter) {
		g.controller.Reveal()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.controller.Reset()
	}
	if rl.IsKeyPressed(rl.KeyD) {
		g.auto = !g.auto
	}
}

// apply runs an action clicked in the control panel.
func (g *Game) apply(a ui.Action) {
	switch a {
	case ui.ActionStart:
		g.controller.Start()
	case ui.ActionShuffle:
		g.controller.Shuffle()
	case ui.ActionStop:
		g.stopDraw()
	case ui.ActionReveal:
		g.controller.Reveal()
	case ui.ActionReset:
		g.controller.Reset()
	case ui.ActionAuto:
		g.auto = !g.auto
	}
}

// handleResize checks for window resize and propagates new dimensions.
// A minimised window reports zero size and is ignored.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if !g.camera.Resize(w, h) {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.perfUI = ui.NewPerfPanel(10, int32(h)-150, 260)
	g.logger.Debug("viewport resized", "width", w, "height", h)
}
