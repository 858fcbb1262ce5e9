package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/telemetry"
	"github.com/pthm-cable/nebula/ui"
)

// Draw renders one frame and closes the frame timing window.
func (g *Game) Draw() {
	g.perf.StartPhase(telemetry.PhaseRender)

	rl.BeginDrawing()
	rl.ClearBackground(g.backgroundRGB)

	sim := g.scene.Simulation()
	if sim.Ready() {
		g.points.Draw(g.camera, sim.Positions, sim.Colors, sim.Transform())
	}

	layer := g.scene.Decor()
	if g.overlays.IsEnabled(ui.OverlayAvatars) {
		g.markers.DrawAvatars(g.camera, layer, sim.Transform())
	}
	if g.overlays.IsEnabled(ui.OverlayMessages) {
		g.markers.DrawMessages(g.camera, layer)
	}
	if g.overlays.IsEnabled(ui.OverlayCard) {
		g.card.Draw(g.camera, layer.Card())
	}

	g.drawUI()
	rl.EndDrawing()

	g.perf.EndFrame()
	g.perf.RecordPresent()
}

func (g *Game) drawUI() {
	if g.overlays.IsEnabled(ui.OverlayHUD) {
		pending, applied, failed := g.scene.PortraitStats()
		snap := g.snapshot()
		visible := 0
		if l := g.scene.Targets(); l != nil {
			visible = l.Visible
		}
		sim := g.scene.Simulation()
		g.hud.Draw(ui.HUDData{
			Title:        "LUCKY DRAW",
			Status:       g.controller.Status(),
			Winner:       g.controller.Winner().Name,
			Participants: len(snap.Participants),
			Messages:     g.scene.Decor().MessageCount(),
			Avatars:      g.scene.Decor().AvatarCount(),
			Visible:      visible,
			Capacity:     g.scene.Capacity(),
			Pending:      pending,
			Applied:      applied,
			Failed:       failed,
			Spin:         sim.Spin(),
			Scale:        sim.Transform().Scale,
			FPS:          rl.GetFPS(),
			ScreenWidth:  int32(g.screenWidth),
			ScreenHeight: int32(g.screenHeight),
		})
		g.hud.DrawControls(int32(g.screenHeight), "[Space] start/stop  [S] shuffle  [Enter] reveal  [R] reset  [D] auto  [F11] fullscreen")
	}
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfUI.Draw(g.perf.Stats())
	}
	if g.overlays.IsEnabled(ui.OverlayControls) {
		g.apply(g.controls.Draw(ui.ControlState{
			Status: g.controller.Status(),
			Winner: g.controller.Winner().Name,
			Auto:   g.auto,
		}, g.overlays))
	}
}
