package scene

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/feed"
	"github.com/pthm-cable/nebula/systems"
	"github.com/pthm-cable/nebula/telemetry"
)

const frame = 1.0 / 60

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testParams(t *testing.T) Params {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	p := ParamsFromConfig(cfg)
	p.Capacity = 1000
	p.Sampler.Width, p.Sampler.Height = 4, 4
	return p
}

func solidPNG(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// mapFetcher serves fixed bodies by url.
type mapFetcher map[string][]byte

func (m mapFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	data, ok := m[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

// newQueuedScene returns a scene whose portrait jobs wait until run is called.
func newQueuedScene(t *testing.T, f feed.Fetcher) (*Scene, func()) {
	s := New(context.Background(), testParams(t), rand.New(rand.NewSource(1)), f, nil, quietLogger)
	var queue []func()
	s.Spawn = func(fn func()) { queue = append(queue, fn) }
	run := func() {
		for len(queue) > 0 {
			fn := queue[0]
			queue = queue[1:]
			fn()
		}
	}
	return s, run
}

func assertOnSphere(t *testing.T, positions []float32, radius float64) {
	t.Helper()
	for i := 0; i < len(positions)/3; i++ {
		x, y, z := positions[i*3], positions[i*3+1], positions[i*3+2]
		r := math.Sqrt(float64(x*x + y*y + z*z))
		if math.Abs(r-radius) > 0.1 {
			t.Fatalf("particle %d at r=%f, expected %f", i, r, radius)
		}
	}
}

// Scenario A: N=1000, Idle, reset puts every particle on the shell.
func TestResetPlacesAllOnSphere(t *testing.T) {
	s, _ := newQueuedScene(t, mapFetcher{})
	s.Update(Frame{Status: systems.StatusIdle, DT: frame})
	s.Reset()

	l := s.Targets()
	if l.Len() != 1000 {
		t.Fatalf("expected 1000 targets, got %d", l.Len())
	}
	assertOnSphere(t, l.Positions, 600)
	assertOnSphere(t, s.Simulation().Positions, 600)
}

func TestResetIdempotent(t *testing.T) {
	s, _ := newQueuedScene(t, mapFetcher{})
	s.Reset()
	a := s.Targets()
	s.Reset()
	b := s.Targets()

	assertOnSphere(t, a.Positions, 600)
	assertOnSphere(t, b.Positions, 600)
	if a.Len() != b.Len() || len(a.Colors) != len(b.Colors) {
		t.Error("expected buffer lengths unchanged across resets")
	}
	if a.Version == b.Version {
		t.Error("expected each reset to publish a new layout")
	}
}

// Scenario B: a 4x4 opaque white portrait fills 16 targets and hides the rest.
func TestConvergingAppliesPortrait(t *testing.T) {
	f := mapFetcher{"winner.png": solidPNG(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255})}
	s, run := newQueuedScene(t, f)

	s.Update(Frame{Status: systems.StatusIdle, DT: frame})
	s.Update(Frame{Status: systems.StatusConverging, WinnerURL: "winner.png", DT: frame})
	run()
	s.Update(Frame{Status: systems.StatusConverging, WinnerURL: "winner.png", DT: frame})

	l := s.Targets()
	if l.Kind != systems.LayoutPortrait || l.Visible != 16 {
		t.Fatalf("expected 16-sample portrait, got kind=%d visible=%d", l.Kind, l.Visible)
	}
	want := math.Min(1, math.Pow(1, 0.9)*1.1)
	for i := 0; i < 16; i++ {
		for c := 0; c < 3; c++ {
			if math.Abs(float64(l.Colors[i*3+c])-want) > 1e-4 {
				t.Fatalf("particle %d channel %d = %f, expected %f", i, c, l.Colors[i*3+c], want)
			}
		}
	}
	for i := 16; i < 1000; i++ {
		if !l.Hidden(i) {
			t.Fatalf("particle %d should be hidden", i)
		}
		if l.Colors[i*3] > 1e-6 || l.Colors[i*3+1] > 1e-6 || l.Colors[i*3+2] > 1e-6 {
			t.Fatalf("particle %d should be black", i)
		}
	}
	if _, applied, _ := s.PortraitStats(); applied != 1 {
		t.Errorf("expected 1 applied portrait, got %d", applied)
	}
}

func TestDecodeFailureKeepsLayout(t *testing.T) {
	f := mapFetcher{"broken.png": []byte("not an image")}
	s, run := newQueuedScene(t, f)
	before := s.Targets()

	s.Update(Frame{Status: systems.StatusConverging, WinnerURL: "broken.png", DT: frame})
	run()
	s.Update(Frame{Status: systems.StatusConverging, WinnerURL: "broken.png", DT: frame})

	if s.Targets() != before {
		t.Error("expected the previous layout to stay published")
	}
	if _, _, failed := s.PortraitStats(); failed != 1 {
		t.Errorf("expected 1 failed portrait, got %d", failed)
	}

	// A missing url behaves the same
	s.Update(Frame{Status: systems.StatusConverging, WinnerURL: "missing.png", DT: frame})
	run()
	s.Update(Frame{Status: systems.StatusConverging, WinnerURL: "missing.png", DT: frame})
	if s.Targets() != before {
		t.Error("expected fetch failure to keep the layout")
	}
}

func TestStalePortraitDiscardedAfterStatusChange(t *testing.T) {
	f := mapFetcher{"winner.png": solidPNG(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255})}
	s, run := newQueuedScene(t, f)

	s.Update(Frame{Status: systems.StatusConverging, WinnerURL: "winner.png", DT: frame})
	// The draw is abandoned before the image finishes decoding
	s.Update(Frame{Status: systems.StatusIdle, DT: frame})
	run()
	s.Update(Frame{Status: systems.StatusIdle, DT: frame})

	if s.Targets().Kind != systems.LayoutSphere {
		t.Error("expected stale portrait to be discarded")
	}
}

func TestStalePortraitDiscardedOnNewWinner(t *testing.T) {
	f := mapFetcher{
		"red.png":   solidPNG(t, color.NRGBA{R: 255, A: 255}),
		"green.png": solidPNG(t, color.NRGBA{G: 255, A: 255}),
	}
	s, run := newQueuedScene(t, f)

	s.Update(Frame{Status: systems.StatusConverging, WinnerURL: "red.png", DT: frame})
	s.Update(Frame{Status: systems.StatusConverging, WinnerURL: "green.png", DT: frame})
	run()
	s.Update(Frame{Status: systems.StatusConverging, WinnerURL: "green.png", DT: frame})

	l := s.Targets()
	if l.Kind != systems.LayoutPortrait {
		t.Fatal("expected the newer portrait to apply")
	}
	if l.Colors[0] != 0 || l.Colors[1] < 0.9 {
		t.Errorf("expected green portrait, got %v", l.Colors[:3])
	}
}

func TestResetAbandonsPendingPortrait(t *testing.T) {
	f := mapFetcher{"winner.png": solidPNG(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255})}
	s, run := newQueuedScene(t, f)

	s.Update(Frame{Status: systems.StatusConverging, WinnerURL: "winner.png", DT: frame})
	s.Reset()
	run()
	s.Update(Frame{Status: systems.StatusConverging, WinnerURL: "winner.png", DT: frame})

	if s.Targets().Kind != systems.LayoutSphere {
		t.Error("expected reset to win over the pending portrait")
	}
}

func TestRevealedAcceptsLatePortrait(t *testing.T) {
	f := mapFetcher{"winner.png": solidPNG(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255})}
	s, run := newQueuedScene(t, f)

	s.Update(Frame{Status: systems.StatusConverging, WinnerURL: "winner.png", DT: frame})
	s.Update(Frame{Status: systems.StatusRevealed, WinnerURL: "winner.png", DT: frame})
	run()
	s.Update(Frame{Status: systems.StatusRevealed, WinnerURL: "winner.png", DT: frame})

	if s.Targets().Kind != systems.LayoutPortrait {
		t.Error("expected a portrait finishing after reveal to apply")
	}
}

func TestAsyncPortraitPipeline(t *testing.T) {
	f := mapFetcher{"winner.png": solidPNG(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255})}
	s := New(context.Background(), testParams(t), rand.New(rand.NewSource(1)), f, nil, quietLogger)

	for i := 0; i < 2000 && s.Targets().Kind != systems.LayoutPortrait; i++ {
		s.Update(Frame{Status: systems.StatusConverging, WinnerURL: "winner.png", DT: frame})
		time.Sleep(time.Millisecond)
	}
	if s.Targets().Kind != systems.LayoutPortrait {
		t.Error("expected goroutine result to be applied")
	}
}

type phaseRecorder []string

func (p *phaseRecorder) StartPhase(name string) {
	*p = append(*p, name)
}

func TestUpdateReportsPhases(t *testing.T) {
	s, _ := newQueuedScene(t, mapFetcher{})
	var rec phaseRecorder
	s.Timer = &rec
	s.Update(Frame{Status: systems.StatusIdle, DT: frame})

	want := []string{telemetry.PhaseTargets, telemetry.PhaseSimulation, telemetry.PhaseDecoration}
	if len(rec) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, rec)
	}
	for i := range want {
		if rec[i] != want[i] {
			t.Errorf("phase %d: expected %s, got %s", i, want[i], rec[i])
		}
	}
}

func TestFeedReachesDecor(t *testing.T) {
	s, _ := newQueuedScene(t, mapFetcher{})
	snap := &feed.Snapshot{
		Participants:        []feed.Participant{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
		Messages:            []feed.Message{{ID: 1, Name: "A", Content: "hi"}},
		ParticipantsVersion: 1,
		MessagesVersion:     1,
	}
	s.Update(Frame{Status: systems.StatusIdle, Feed: snap, DT: frame})

	if got := s.Decor().AvatarCount(); got != 2 {
		t.Errorf("expected 2 avatars, got %d", got)
	}
	if !s.Decor().HasMessage(1) {
		t.Error("expected message marker")
	}
}

func TestParamsFromConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	p := ParamsFromConfig(cfg)
	if p.Capacity != cfg.Particles.Capacity || p.Radius != 600 {
		t.Errorf("unexpected capacity/radius: %d/%f", p.Capacity, p.Radius)
	}
	if p.Hidden.Ring != 720 || p.Hidden.Depth != -500 {
		t.Errorf("unexpected hidden placement: %+v", p.Hidden)
	}
	if p.Sampler.AlphaThreshold != 128 || p.Sampler.Width*p.Sampler.Height > p.Capacity {
		t.Errorf("unexpected sampler params: %+v", p.Sampler)
	}
	if p.Decor.Card.Interval != 0.05 || p.FetchTimeout.Seconds() != 8 {
		t.Errorf("unexpected decor/feed params: %+v %v", p.Decor.Card, p.FetchTimeout)
	}
}
