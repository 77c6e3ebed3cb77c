package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/scroggo/frogjump/config"
	"github.com/scroggo/frogjump/game"
	"github.com/scroggo/frogjump/systems"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	levelsPath := flag.String("levels", "", "Path to a levels.yaml (empty = use built-in levels)")
	startLevel := flag.String("level", "", "Level to start at (empty = the set's first)")
	jumpScript := flag.String("jump-script", "", "Jump hold windows as press:release tick pairs, e.g. \"30:75,200:260\"")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	logCollisions := flag.Bool("log-collisions", false, "Log per-collision debug detail")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *logCollisions {
		config.Cfg().Logging.Collisions = true
	}

	level := slog.LevelInfo
	if *logCollisions {
		level = slog.LevelDebug
	}
	game.SetupLogger(level)

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	var detector systems.JumpDetector
	if *jumpScript != "" {
		windows, err := systems.ParseJumpScript(*jumpScript)
		if err != nil {
			slog.Error("bad jump script", "error", err)
			os.Exit(1)
		}
		detector = systems.NewScriptedJumps(windows)
	}

	g, err := game.New(game.Options{
		LevelsPath: *levelsPath,
		StartLevel: *startLevel,
		Jump:       detector,
		OutputDir:  *outputDir,
		Seed:       rngSeed,
	})
	if err != nil {
		slog.Error("failed to start game", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"max_ticks", *maxTicks,
		"start_level", *startLevel,
		"ticks_per_sec", config.Cfg().Derived.TicksPerSec,
	)

	g.Run(*maxTicks)
	if err := g.Close(); err != nil {
		slog.Error("closing outputs", "error", err)
		os.Exit(1)
	}
	slog.Info("simulation finished", "tick", g.Tick(), "done", g.Done())
}
