// Package game runs the frame loop: it owns the window-facing pieces (camera,
// renderers, UI) and drives the scene from the draw controller every frame.
package game

import (
	"context"
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/camera"
	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/control"
	"github.com/pthm-cable/nebula/decor"
	"github.com/pthm-cable/nebula/feed"
	"github.com/pthm-cable/nebula/renderer"
	"github.com/pthm-cable/nebula/scene"
	"github.com/pthm-cable/nebula/systems"
	"github.com/pthm-cable/nebula/telemetry"
	"github.com/pthm-cable/nebula/ui"
)

// maxFrameDT caps the step after a stall so the show never jumps.
const maxFrameDT = 0.1

// FeedSource provides the latest participants and messages.
type FeedSource interface {
	Latest() *feed.Snapshot
}

// Options configures a game instance.
type Options struct {
	Seed           int64
	Headless       bool
	Auto           bool // Start with the scripted director driving the draw
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string

	Feed    FeedSource        // May be nil
	Fetcher feed.Fetcher      // Winner portrait source
	Images  decor.ImageSource // Avatar thumbnails, may be nil
	Logger  *slog.Logger
}

// Game holds the complete engine state.
type Game struct {
	cfg    *config.Config
	rng    *rand.Rand
	logger *slog.Logger

	scene      *scene.Scene
	controller *control.Controller
	director   *control.Director
	auto       bool
	feed       FeedSource
	emptyFeed  *feed.Snapshot

	// Rendering (nil when headless)
	camera   *camera.Camera
	points   *renderer.PointCloud
	markers  *renderer.MarkerRenderer
	card     *renderer.CardRenderer
	hud      *ui.HUD
	controls *ui.ControlsPanel
	perfUI   *ui.PerfPanel
	overlays *ui.OverlayRegistry

	// Telemetry
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	logStats      bool
	errScratch    []float64

	frame         int64
	time          float64
	headless      bool
	screenWidth   float32
	screenHeight  float32
	backgroundRGB rl.Color
}

// NewGameWithOptions creates a game. In graphical mode the raylib window must
// already be open.
func NewGameWithOptions(ctx context.Context, opts Options) *Game {
	cfg := config.Cfg()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	bg := cfg.Derived.Background

	g := &Game{
		cfg:           cfg,
		rng:           rng,
		logger:        logger,
		feed:          opts.Feed,
		emptyFeed:     &feed.Snapshot{},
		auto:          opts.Auto,
		headless:      opts.Headless,
		logStats:      opts.LogStats,
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:     telemetry.NewCollector(opts.StatsWindowSec),
		screenWidth:   float32(cfg.Screen.Width),
		screenHeight:  float32(cfg.Screen.Height),
		backgroundRGB: rl.Color{R: bg[0], G: bg[1], B: bg[2], A: 255},
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = feed.NewAutoFetcher(scene.ParamsFromConfig(cfg).FetchTimeout)
	}
	g.scene = scene.New(ctx, scene.ParamsFromConfig(cfg), rng, fetcher, opts.Images, logger)
	g.scene.Timer = g.perf

	g.controller = control.NewController(cfg.Director.RevealDelay)
	g.controller.OnReset = g.scene.Reset
	g.controller.OnTransition = g.onTransition
	g.director = control.NewDirector(g.controller, control.DirectorParams{
		Idle:      cfg.Director.Idle,
		Rolling:   cfg.Director.Rolling,
		Shuffling: cfg.Director.Shuffling,
		Revealed:  cfg.Director.Revealed,
	}, rand.New(rand.NewSource(rng.Int63())))

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			logger.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				logger.Error("failed to write config", "error", err)
			}
		}
	}

	if !opts.Headless {
		g.initGraphics(opts.Images)
	}
	return g
}

func (g *Game) initGraphics(images decor.ImageSource) {
	cfg := g.cfg
	g.camera = camera.New(g.screenWidth, g.screenHeight,
		float32(cfg.Screen.FovY), float32(cfg.Screen.CameraZ), float32(cfg.Screen.Near), float32(cfg.Screen.Far))

	g.points = renderer.NewPointCloud(cfg.Derived.PointSize32)
	g.points.Init()
	g.markers = renderer.NewMarkerRenderer(images, cfg.Decor.AvatarCap*2, cfg.Derived.AccentRGB)
	g.card = renderer.NewCardRenderer()

	g.hud = ui.NewHUD()
	g.controls = ui.NewControlsPanel(10, 10, 220)
	g.perfUI = ui.NewPerfPanel(10, int32(g.screenHeight)-150, 260)
	g.overlays = ui.NewOverlayRegistry()
}

// Controller returns the draw controller, the handle for external triggers.
func (g *Game) Controller() *control.Controller {
	return g.controller
}

// Scene returns the engine scene.
func (g *Game) Scene() *scene.Scene {
	return g.scene
}

// Frame returns the number of frames stepped.
func (g *Game) Frame() int64 {
	return g.frame
}

// Draws returns the number of draws completed by the director.
func (g *Game) Draws() int {
	return g.director.Draws()
}

// Update handles input and steps one frame at the display rate.
func (g *Game) Update() {
	g.perf.StartFrame()
	g.handleInput()
	g.step(min(float64(rl.GetFrameTime()), maxFrameDT))
}

// UpdateHeadless steps one frame at the configured target rate without raylib.
func (g *Game) UpdateHeadless() {
	g.perf.StartFrame()
	g.step(1 / float64(max(g.cfg.Screen.TargetFPS, 1)))
	g.perf.EndFrame()
}

// step advances the controller, the scene and telemetry by dt.
func (g *Game) step(dt float64) {
	if dt <= 0 {
		return
	}
	snap := g.snapshot()

	g.controller.Update(dt)
	if g.auto {
		g.director.Update(dt, snap.Participants)
	}

	g.scene.Update(scene.Frame{
		Status:    g.controller.Status(),
		WinnerURL: g.controller.Winner().AvatarURL,
		Feed:      snap,
		DT:        dt,
	})

	g.frame++
	g.time += dt
	g.flushTelemetry()
}

func (g *Game) snapshot() *feed.Snapshot {
	if g.feed == nil {
		return g.emptyFeed
	}
	if snap := g.feed.Latest(); snap != nil {
		return snap
	}
	return g.emptyFeed
}

// onTransition logs and records every status change.
func (g *Game) onTransition(from, to systems.Status, w control.Winner) {
	g.logger.Info("status", "from", from.String(), "to", to.String(), "winner", w.Name, "frame", g.frame)
	g.collector.RecordTransition(to)
	if err := g.outputManager.WriteStatus(telemetry.NewStatusEvent(g.frame, g.time, from.String(), to.String(), w.Name)); err != nil {
		g.logger.Error("failed to write status", "error", err)
	}
}

// stopDraw ends the current draw with a random participant.
func (g *Game) stopDraw() {
	g.controller.Stop(control.PickWinner(g.rng, g.snapshot().Participants))
}

// Unload releases all resources and flushes output files.
func (g *Game) Unload() {
	if g.points != nil {
		g.points.Unload()
	}
	if g.markers != nil {
		g.markers.Unload()
	}
	if g.card != nil {
		g.card.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		g.logger.Error("failed to close output", "error", err)
	}
}
