package telemetry

import (
	"math"

	"github.com/pthm-cable/nebula/systems"
)

// Sample is the engine state observed at the end of a window.
type Sample struct {
	Frame    int64
	Time     float64
	Status   string
	Avatars  int
	Messages int
	Spin     float64
	Scale    float64
	Picks    int

	// Cumulative portrait counters; the collector reports deltas.
	PortraitsApplied int
	PortraitsFailed  int

	// Per-particle distance from the current target.
	Errors []float64
}

// Collector accumulates status changes within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec float64

	windowStartFrame int64
	windowStartTime  float64

	transitions int
	draws       int

	lastApplied int
	lastFailed  int
	lastPicks   int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in engine seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 5
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordTransition records a status change. Entering rolling counts as a draw.
func (c *Collector) RecordTransition(to systems.Status) {
	c.transitions++
	if to == systems.StatusRolling {
		c.draws++
	}
}

// ShouldFlush returns true if enough time has passed to flush the window.
func (c *Collector) ShouldFlush(now float64) bool {
	return now-c.windowStartTime >= c.windowDurationSec
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(s Sample) WindowStats {
	mean, p10, p50, p90 := ComputeStats(s.Errors)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   s.Frame,
		TimeSec:          s.Time,
		Status:           s.Status,
		Transitions:      c.transitions,
		Draws:            c.draws,
		PortraitsApplied: s.PortraitsApplied - c.lastApplied,
		PortraitsFailed:  s.PortraitsFailed - c.lastFailed,
		Picks:            s.Picks - c.lastPicks,
		Avatars:          s.Avatars,
		Messages:         s.Messages,
		Spin:             s.Spin,
		Scale:            s.Scale,
		ErrorMean:        mean,
		ErrorP10:         p10,
		ErrorP50:         p50,
		ErrorP90:         p90,
	}

	c.windowStartFrame = s.Frame
	c.windowStartTime = s.Time
	c.transitions = 0
	c.draws = 0
	c.lastApplied = s.PortraitsApplied
	c.lastFailed = s.PortraitsFailed
	c.lastPicks = s.Picks

	return stats
}

// ParticleErrors fills dst with the distance of each particle from its target.
// Positions and targets are packed xyz triples; dst is grown as needed.
func ParticleErrors(dst []float64, positions, targets []float32) []float64 {
	n := min(len(positions), len(targets)) / 3
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	for i := 0; i < n; i++ {
		dx := float64(positions[i*3] - targets[i*3])
		dy := float64(positions[i*3+1] - targets[i*3+1])
		dz := float64(positions[i*3+2] - targets[i*3+2])
		dst[i] = math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return dst
}
