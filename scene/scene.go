// Package scene composes the particle engine without any graphics: the target
// buffer, the simulation core, the decoration layer and the asynchronous
// winner portrait pipeline.
package scene

import (
	"context"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/nebula/decor"
	"github.com/pthm-cable/nebula/feed"
	"github.com/pthm-cable/nebula/systems"
	"github.com/pthm-cable/nebula/telemetry"
)

// resultBuffer bounds portrait results waiting for the next frame.
const resultBuffer = 4

// Frame is the per-frame input from the status controller.
type Frame struct {
	Status    systems.Status
	WinnerURL string         // Read while Converging
	Feed      *feed.Snapshot // May be nil
	DT        float64        // Seconds since the previous frame
}

// PhaseTimer receives phase boundaries for per-frame timing.
type PhaseTimer interface {
	StartPhase(phase string)
}

// portraitResult is the outcome of one fetch-and-sample job.
type portraitResult struct {
	generation uint64
	url        string
	samples    []systems.Sample
	err        error
}

// Scene owns the particle set and everything that drives it.
type Scene struct {
	params  Params
	rng     *rand.Rand
	ctx     context.Context
	fetcher feed.Fetcher
	logger  *slog.Logger

	targets *systems.TargetBuffer
	sim     *systems.Simulation
	decor   *decor.Layer

	// Spawn runs a portrait job. Defaults to a new goroutine.
	Spawn func(func())
	// Timer, when set, is told where each update phase starts.
	Timer PhaseTimer

	results    chan portraitResult
	generation uint64
	status     systems.Status
	requested  string
	pending    int
	applied    int
	failed     int
}

// New creates a scene and publishes the initial sphere layout.
// Fetches are cancelled when ctx is done. images may be nil.
func New(ctx context.Context, p Params, rng *rand.Rand, fetcher feed.Fetcher, images decor.ImageSource, logger *slog.Logger) *Scene {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scene{
		params:  p,
		rng:     rng,
		ctx:     ctx,
		fetcher: fetcher,
		logger:  logger,
		targets: systems.NewTargetBuffer(p.Capacity, p.Hidden),
		sim:     systems.NewSimulation(p.Capacity, p.Motion, rand.New(rand.NewSource(rng.Int63()))),
		decor:   decor.NewLayer(p.Decor, rand.New(rand.NewSource(rng.Int63())), images),
		Spawn:   func(f func()) { go f() },
		results: make(chan portraitResult, resultBuffer),
	}
	s.targets.SetFromSphere(s.rng, p.Radius, p.Palette)
	return s
}

// Reset publishes a fresh random sphere layout and abandons any pending portrait.
// It does not change the status.
func (s *Scene) Reset() {
	s.generation++
	s.requested = ""
	l := s.targets.SetFromSphere(s.rng, s.params.Radius, s.params.Palette)
	s.logger.Info("targets reset", "layout", l.Version)
}

// Update advances the scene by one frame.
func (s *Scene) Update(f Frame) {
	s.phase(telemetry.PhaseTargets)
	s.drainResults()
	s.observe(f)

	s.phase(telemetry.PhaseSimulation)
	s.sim.Step(f.Status, s.targets.Load(), f.DT)

	s.phase(telemetry.PhaseDecoration)
	in := decor.Input{Status: f.Status}
	if f.Feed != nil {
		in.Participants = f.Feed.Participants
		in.Messages = f.Feed.Messages
		in.ParticipantsVersion = f.Feed.ParticipantsVersion
		in.MessagesVersion = f.Feed.MessagesVersion
	}
	s.decor.Update(in, f.DT)
}

func (s *Scene) phase(name string) {
	if s.Timer != nil {
		s.Timer.StartPhase(name)
	}
}

// observe reacts to status and winner changes.
func (s *Scene) observe(f Frame) {
	prev := s.status
	s.status = f.Status

	if f.Status != prev && !f.Status.AcceptsPortrait() {
		// Anything in flight belongs to a finished draw
		if s.requested != "" {
			s.generation++
			s.requested = ""
		}
	}

	if f.Status == systems.StatusConverging && f.WinnerURL != "" && f.WinnerURL != s.requested {
		s.requestPortrait(f.WinnerURL)
	}
}

// requestPortrait starts a background fetch and sample of url.
func (s *Scene) requestPortrait(url string) {
	s.generation++
	s.requested = url
	s.pending++

	gen := s.generation
	rng := rand.New(rand.NewSource(s.rng.Int63()))
	params := s.params.Sampler
	fetcher := s.fetcher
	ctx := s.ctx
	out := s.results

	s.logger.Info("portrait requested", "url", url, "generation", gen)
	s.Spawn(func() {
		res := portraitResult{generation: gen, url: url}
		data, err := fetcher.Fetch(ctx, url)
		if err == nil {
			res.samples, err = systems.SampleBytes(data, params, rng)
		}
		res.err = err

		select {
		case out <- res:
		case <-ctx.Done():
		}
	})
}

// drainResults applies finished portrait jobs that still match the current draw.
func (s *Scene) drainResults() {
	for {
		select {
		case res := <-s.results:
			s.apply(res)
		default:
			return
		}
	}
}

func (s *Scene) apply(res portraitResult) {
	s.pending--
	if res.err != nil {
		s.failed++
		s.logger.Warn("portrait failed, keeping current layout", "url", res.url, "error", res.err)
		return
	}
	if res.generation != s.generation || !s.status.AcceptsPortrait() {
		s.logger.Debug("stale portrait discarded", "url", res.url, "generation", res.generation, "status", s.status.String())
		return
	}
	l := s.targets.SetFromSamples(res.samples)
	s.applied++
	s.logger.Info("portrait applied", "url", res.url, "samples", len(res.samples), "visible", l.Visible, "layout", l.Version)
}

// Targets returns the currently published target layout.
func (s *Scene) Targets() *systems.Layout {
	return s.targets.Load()
}

// Simulation returns the simulation core.
func (s *Scene) Simulation() *systems.Simulation {
	return s.sim
}

// Decor returns the decoration layer.
func (s *Scene) Decor() *decor.Layer {
	return s.decor
}

// Capacity returns the fixed particle count.
func (s *Scene) Capacity() int {
	return s.params.Capacity
}

// Params returns the scene parameters.
func (s *Scene) Params() Params {
	return s.params
}

// PortraitStats reports portrait jobs in flight, applied and failed.
func (s *Scene) PortraitStats() (pending, applied, failed int) {
	return s.pending, s.applied, s.failed
}
