package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/feed"
	"github.com/pthm-cable/nebula/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	roster := flag.String("roster", "", "Participant roster CSV (overrides feed.roster_path)")
	auto := flag.Bool("auto", false, "Let the scripted director run the draw (always on when headless)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Use config log interval if not overridden by CLI
	statsWindowSec := cfg.Telemetry.LogInterval
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	fetcher := feed.NewAutoFetcher(seconds(cfg.Feed.FetchTimeout))
	poller := newPoller(cfg, fetcher, *roster, logger)
	go poller.Run(ctx)
	avatars := feed.NewAvatarCache(ctx, fetcher, cfg.Feed.AvatarCacheSize, cfg.Feed.AvatarThumb, logger)

	// Build game options
	opts := game.Options{
		Seed:           rngSeed,
		Headless:       *headless,
		Auto:           *auto || *headless,
		LogStats:       *logStats,
		StatsWindowSec: statsWindowSec,
		OutputDir:      *outputDir,
		Feed:           poller,
		Fetcher:        fetcher,
		Images:         avatars,
		Logger:         logger,
	}

	if *headless {
		// Headless mode - no raylib needed
		g := game.NewGameWithOptions(ctx, opts)
		defer g.Unload()

		slog.Info("starting headless run",
			"seed", rngSeed,
			"capacity", cfg.Particles.Capacity,
			"max_frames", *maxFrames,
		)

		for ctx.Err() == nil {
			g.UpdateHeadless()

			if *maxFrames > 0 && int(g.Frame()) >= *maxFrames {
				slog.Info("max frames reached", "frame", g.Frame(), "draws", g.Draws())
				return
			}
		}
		return
	}

	// Graphical mode
	if cfg.Screen.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Lucky Draw")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGameWithOptions(ctx, opts)
	defer g.Unload()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		g.Update()
		g.Draw()

		if *maxFrames > 0 && int(g.Frame()) >= *maxFrames {
			break
		}
	}
}

// newPoller builds the feed poller. A roster file replaces the participants endpoint.
func newPoller(cfg *config.Config, fetcher feed.Fetcher, roster string, logger *slog.Logger) *feed.Poller {
	source := &feed.HTTPSource{
		Fetcher:         fetcher,
		ParticipantsURL: cfg.Feed.ParticipantsURL,
		MessagesURL:     cfg.Feed.MessagesURL,
	}

	var participants feed.ParticipantSource = source
	if roster == "" {
		roster = cfg.Feed.RosterPath
	}
	if roster != "" {
		participants = &feed.RosterFile{Fetcher: fetcher, Path: roster}
	}

	return feed.NewPoller(participants, source,
		seconds(cfg.Feed.ParticipantsEvery), seconds(cfg.Feed.MessagesEvery), logger)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
