package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/nebula/systems"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(5)

	if c.ShouldFlush(4.9) {
		t.Error("expected no flush before the window elapses")
	}
	if !c.ShouldFlush(5) {
		t.Error("expected flush once the window elapses")
	}

	c.RecordTransition(systems.StatusRolling)
	c.RecordTransition(systems.StatusShuffling)
	c.RecordTransition(systems.StatusConverging)
	c.RecordTransition(systems.StatusRolling)

	s := c.Flush(Sample{
		Frame:            300,
		Time:             5,
		Status:           "CONVERGING",
		Avatars:          12,
		PortraitsApplied: 2,
		PortraitsFailed:  1,
		Picks:            40,
		Errors:           []float64{1, 2, 3},
	})
	if s.Transitions != 4 || s.Draws != 2 {
		t.Errorf("expected 4 transitions and 2 draws, got %d and %d", s.Transitions, s.Draws)
	}
	if s.PortraitsApplied != 2 || s.PortraitsFailed != 1 || s.Picks != 40 {
		t.Errorf("unexpected counters: %+v", s)
	}
	if s.WindowStartFrame != 0 || s.WindowEndFrame != 300 || s.Avatars != 12 {
		t.Errorf("unexpected window: %+v", s)
	}
	if math.Abs(s.ErrorMean-2) > 1e-9 {
		t.Errorf("expected mean error 2, got %f", s.ErrorMean)
	}

	// Second window reports deltas against the first
	if c.ShouldFlush(9) {
		t.Error("expected window to restart at the flush time")
	}
	s = c.Flush(Sample{Frame: 600, Time: 10, PortraitsApplied: 3, PortraitsFailed: 1, Picks: 45})
	if s.Transitions != 0 || s.Draws != 0 {
		t.Errorf("expected counters reset, got %+v", s)
	}
	if s.PortraitsApplied != 1 || s.PortraitsFailed != 0 || s.Picks != 5 {
		t.Errorf("expected deltas, got applied=%d failed=%d picks=%d", s.PortraitsApplied, s.PortraitsFailed, s.Picks)
	}
	if s.WindowStartFrame != 300 {
		t.Errorf("expected window to start at frame 300, got %d", s.WindowStartFrame)
	}
}

func TestParticleErrors(t *testing.T) {
	pos := []float32{3, 4, 0, 1, 1, 1}
	tgt := []float32{0, 0, 0, 1, 1, 1}

	errs := ParticleErrors(nil, pos, tgt)
	if len(errs) != 2 {
		t.Fatalf("expected 2 distances, got %d", len(errs))
	}
	if errs[0] != 5 || errs[1] != 0 {
		t.Errorf("expected [5 0], got %v", errs)
	}

	// Reuses the destination when it is large enough
	buf := make([]float64, 0, 8)
	errs = ParticleErrors(buf, pos, tgt)
	if &errs[0] != &buf[:1][0] {
		t.Error("expected destination buffer to be reused")
	}
}
