// Package game wires the world, physics space, level progression, and
// per-tick systems into a headless simulation loop.
package game

import (
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/scroggo/frogjump/components"
	"github.com/scroggo/frogjump/config"
	"github.com/scroggo/frogjump/geom"
	"github.com/scroggo/frogjump/level"
	"github.com/scroggo/frogjump/physics"
	"github.com/scroggo/frogjump/systems"
	"github.com/scroggo/frogjump/telemetry"
	"github.com/scroggo/frogjump/tilemap"
)

// Options configures a new Game.
type Options struct {
	// LevelsPath overrides the embedded level set when non-empty.
	LevelsPath string
	// StartLevel starts at a specific level instead of the set's first.
	StartLevel string
	// Jump decides when the frog jumps. Nil means never.
	Jump systems.JumpDetector
	// OutputDir receives CSV telemetry when non-empty.
	OutputDir string
	Seed      int64
}

// Game owns the ECS world and steps it one physics tick at a time.
type Game struct {
	world *ecs.World

	playerMapper    *ecs.Map3[components.Position, components.Rotation, components.Player]
	flyMapper       *ecs.Map2[components.Position, components.Fly]
	dragonflyMapper *ecs.Map2[components.Position, components.DragonFly]
	gatorMapper     *ecs.Map2[components.Position, components.Alligator]

	playerFilter    *ecs.Filter2[components.Position, components.Player]
	flyFilter       *ecs.Filter1[components.Fly]
	dragonflyFilter *ecs.Filter1[components.DragonFly]
	gatorFilter     *ecs.Filter1[components.Alligator]

	space *physics.Space
	layer *tilemap.Layer

	progression *level.Progression
	playerInfo  components.PlayerInfo
	hasInfo     bool
	bonusFound  bool

	playerSystem *systems.PlayerSystem
	flySystem    *systems.FlySystem
	gatorSystem  *systems.AlligatorSystem
	jump         *systems.JumpHandler
	detector     systems.JumpDetector

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager

	dt   float64
	tick int32
	done bool
	rng  *rand.Rand
}

// New builds a game from the loaded config and the given options.
func New(opts Options) (*Game, error) {
	cfg := config.Cfg()

	set, err := level.Load(opts.LevelsPath)
	if err != nil {
		return nil, err
	}
	progression, ok := level.NewProgression(set, opts.StartLevel)
	if !ok {
		return nil, fmt.Errorf("unknown start level %q", opts.StartLevel)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}

	detector := opts.Jump
	if detector == nil {
		detector = systems.NeverPressed{}
	}

	world := ecs.NewWorld()
	g := &Game{
		world:           world,
		playerMapper:    ecs.NewMap3[components.Position, components.Rotation, components.Player](world),
		flyMapper:       ecs.NewMap2[components.Position, components.Fly](world),
		dragonflyMapper: ecs.NewMap2[components.Position, components.DragonFly](world),
		gatorMapper:     ecs.NewMap2[components.Position, components.Alligator](world),
		playerFilter:    ecs.NewFilter2[components.Position, components.Player](world),
		flyFilter:       ecs.NewFilter1[components.Fly](world),
		dragonflyFilter: ecs.NewFilter1[components.DragonFly](world),
		gatorFilter:     ecs.NewFilter1[components.Alligator](world),
		progression:     progression,
		jump:            systems.NewJumpHandler(detector, cfg.Player.JumpMaxHold),
		detector:        detector,
		collector:       telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Physics.DT),
		perf:            telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:          output,
		dt:              cfg.Physics.DT,
		rng:             rand.New(rand.NewSource(opts.Seed)),
	}
	if g.output != nil {
		if err := g.output.WriteConfig(config.Cfg()); err != nil {
			return nil, err
		}
	}
	if err := g.loadLevel(progression.Current()); err != nil {
		return nil, err
	}
	return g, nil
}

// loadLevel tears down the previous level's entities and builds the new
// one's terrain and actors.
func (g *Game) loadLevel(def *level.Definition) error {
	layer, err := def.BuildLayer()
	if err != nil {
		return err
	}
	g.layer = layer
	g.space = physics.NewSpace()
	g.space.AddLayer(layer)

	g.removeAll()
	g.spawnActors(def)

	// The jump handler survives level changes but any charge in progress
	// does not.
	g.jump.Reset()

	g.playerSystem = systems.NewPlayerSystem(g.world, g.space, g.layer, g.jump, g.collector)
	g.flySystem = systems.NewFlySystem(g.world, g.space, g.collector)
	g.flySystem.OnBonus = func() { g.bonusFound = true }
	g.gatorSystem = systems.NewAlligatorSystem(g.world, g.collector)
	g.gatorSystem.OnPlayerEaten = g.respawnPlayer

	Logf("level %q loaded", def.Name)
	return nil
}

// Tick returns the number of completed physics ticks.
func (g *Game) Tick() int {
	return int(g.tick)
}

// Done reports whether the run finished: the last level was won.
func (g *Game) Done() bool {
	return g.done
}

// World exposes the ECS world, mostly for tests.
func (g *Game) World() *ecs.World {
	return g.world
}

// PlayerState returns the single player's position and state, if one exists.
func (g *Game) PlayerState() (geom.Vec, *components.Player, bool) {
	query := g.playerFilter.Query()
	for query.Next() {
		pos, pl := query.Get()
		playerCopy := *pl
		posVec := pos.Vec()
		// Consume the rest of the query to release the world lock.
		for query.Next() {
		}
		return posVec, &playerCopy, true
	}
	return geom.Vec{}, nil, false
}

// Close flushes and closes telemetry outputs.
func (g *Game) Close() error {
	if g.output == nil {
		return nil
	}
	stats, events := g.collector.Flush(g.tick)
	if err := g.output.WriteWindow(stats); err != nil {
		return err
	}
	if err := g.output.WriteEvents(events); err != nil {
		return err
	}
	if err := g.output.WritePerf(g.perf.Stats().Record(g.tick)); err != nil {
		return err
	}
	return g.output.Close()
}
