package game

import (
	"github.com/scroggo/frogjump/level"
	"github.com/scroggo/frogjump/telemetry"
)

// Update advances the simulation by one fixed physics tick.
func (g *Game) Update() {
	if g.done {
		return
	}
	g.perf.StartTick()
	g.collector.SetTick(g.tick)

	if adv, ok := g.detector.(interface{ Advance() }); ok {
		adv.Advance()
	}

	g.perf.StartPhase(telemetry.PhasePlayer)
	g.playerSystem.Update(g.dt)

	g.perf.StartPhase(telemetry.PhasePredators)
	g.flySystem.Update(g.dt)
	g.gatorSystem.Update(g.dt)

	g.perf.StartPhase(telemetry.PhaseLevel)
	g.checkProgress()

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perf.EndTick()
	g.tick++
}

// Run steps until the run completes or maxTicks elapse. A maxTicks of zero
// or less means no limit.
func (g *Game) Run(maxTicks int) {
	for !g.done {
		if maxTicks > 0 && g.Tick() >= maxTicks {
			return
		}
		g.Update()
	}
}

// checkProgress ends the level when every prey has been caught, and loads
// whatever level the progression points at next.
func (g *Game) checkProgress() {
	if g.bonusFound {
		g.progression.FindBonus()
		g.bonusFound = false
	}
	if g.progression.State() == level.Playing && g.preyRemaining() == 0 {
		g.progression.Win()
	}
	if g.progression.State() == level.Playing {
		return
	}

	g.rememberPlayer()
	Logf("level %q finished (%s) at tick %d", g.progression.Current().Name, g.progression.State(), g.tick)
	next, ok := g.progression.Advance()
	if !ok {
		g.jump.Disable()
		g.done = true
		return
	}
	if err := g.loadLevel(next); err != nil {
		// Level definitions were validated at load time, so this is a bug
		// worth stopping on.
		Logf("loading level %q: %v", next.Name, err)
		g.done = true
	}
}

// preyRemaining counts the flies and dragonflies still uncaught.
func (g *Game) preyRemaining() int {
	n := 0
	fq := g.flyFilter.Query()
	for fq.Next() {
		n++
	}
	dq := g.dragonflyFilter.Query()
	for dq.Next() {
		n++
	}
	return n
}

// rememberPlayer captures the player's state so the next level can carry
// their facing over.
func (g *Game) rememberPlayer() {
	query := g.playerFilter.Query()
	for query.Next() {
		pos, pl := query.Get()
		g.playerInfo.Pos = pos.Vec()
		g.playerInfo.Vel = pl.TargetVelocity
		g.playerInfo.Dir = pl.Dir
		g.hasInfo = true
	}
}

func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}
	stats, events := g.collector.Flush(g.tick)
	stats.Log()
	perfStats := g.perf.Stats()
	perfStats.LogStats()
	if g.output == nil {
		return
	}
	if err := g.output.WriteWindow(stats); err != nil {
		Logf("writing window stats: %v", err)
	}
	if err := g.output.WriteEvents(events); err != nil {
		Logf("writing events: %v", err)
	}
	if err := g.output.WritePerf(perfStats.Record(g.tick)); err != nil {
		Logf("writing perf stats: %v", err)
	}
}
