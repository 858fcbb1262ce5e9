package game

import (
	"github.com/pthm-cable/nebula/telemetry"
)

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.time) {
		return
	}

	sim := g.scene.Simulation()
	sample := telemetry.Sample{
		Frame:    g.frame,
		Time:     g.time,
		Status:   g.controller.Status().String(),
		Avatars:  g.scene.Decor().AvatarCount(),
		Messages: g.scene.Decor().MessageCount(),
		Spin:     sim.Spin(),
		Scale:    sim.Transform().Scale,
		Picks:    g.scene.Decor().Card().Picks(),
	}
	_, sample.PortraitsApplied, sample.PortraitsFailed = g.scene.PortraitStats()
	if l := g.scene.Targets(); l != nil && sim.Ready() {
		g.errScratch = telemetry.ParticleErrors(g.errScratch, sim.Positions, l.Positions)
		sample.Errors = g.errScratch
	}

	stats := g.collector.Flush(sample)
	perfStats := g.perf.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			g.logger.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			g.logger.Error("failed to write perf", "error", err)
		}
	}
}
