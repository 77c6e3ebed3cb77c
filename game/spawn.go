package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/scroggo/frogjump/components"
	"github.com/scroggo/frogjump/config"
	"github.com/scroggo/frogjump/geom"
	"github.com/scroggo/frogjump/level"
)

// spawnActors populates the world from a level definition.
func (g *Game) spawnActors(def *level.Definition) {
	cfg := config.Cfg()

	dir := components.Right
	if g.hasInfo {
		// Carry the frog's facing across level transitions.
		dir = g.playerInfo.Dir
	}
	g.spawnPlayer(def.Player.Vec(), dir)

	for _, f := range def.Flies {
		pos := components.Position{X: f.Pos.X, Y: f.Pos.Y}
		speed := f.Speed
		if speed <= 0 {
			speed = cfg.Predators.FlySpeed
		}
		fly := components.Fly{
			SelfDirected: f.SelfDirected,
			State:        components.FlyCalibrating,
			Dir:          randomDirection(g.rng),
			Speed:        speed,
			Bonus:        f.Bonus,
		}
		g.flyMapper.NewEntity(&pos, &fly)
	}

	for _, d := range def.DragonFlies {
		pos := components.Position{X: d.Pos.X, Y: d.Pos.Y}
		df := components.DragonFly{Bonus: d.Bonus}
		g.dragonflyMapper.NewEntity(&pos, &df)
	}

	for _, a := range def.Alligators {
		pos := components.Position{X: a.Pos.X, Y: a.Pos.Y}
		focus := a.FocusRadius
		if focus <= 0 {
			focus = cfg.Predators.GatorFocus
		}
		eat := a.EatRadius
		if eat <= 0 {
			eat = cfg.Predators.GatorEatRadius
		}
		gator := components.Alligator{
			FocusRadius: focus,
			EatRadius:   eat,
			ScaleX:      1,
			Anim:        "idle",
		}
		g.gatorMapper.NewEntity(&pos, &gator)
	}
}

func (g *Game) spawnPlayer(at geom.Vec, dir components.Direction) ecs.Entity {
	pos := components.Position{X: at.X, Y: at.Y}
	rot := components.Rotation{}
	pl := components.Player{Dir: dir, Anim: "default"}
	// The respawn snapshot is the state the player enters the level with.
	g.playerInfo = components.PlayerInfo{Pos: at, Dir: dir}
	g.hasInfo = true
	return g.playerMapper.NewEntity(&pos, &rot, &pl)
}

// respawnPlayer replaces an eaten player with a fresh one at the level's
// start. The new entity invalidates any predator handles to the old one.
func (g *Game) respawnPlayer(eaten ecs.Entity) {
	if g.world.Alive(eaten) {
		g.world.RemoveEntity(eaten)
	}
	g.spawnPlayer(g.playerInfo.Pos, g.playerInfo.Dir)
	g.jump.Reset()
	Logf("player eaten, respawning at (%.1f, %.1f)", g.playerInfo.Pos.X, g.playerInfo.Pos.Y)
}

// removeAll clears every entity ahead of a level load.
func (g *Game) removeAll() {
	var doomed []ecs.Entity
	pq := g.playerFilter.Query()
	for pq.Next() {
		doomed = append(doomed, pq.Entity())
	}
	fq := g.flyFilter.Query()
	for fq.Next() {
		doomed = append(doomed, fq.Entity())
	}
	dq := g.dragonflyFilter.Query()
	for dq.Next() {
		doomed = append(doomed, dq.Entity())
	}
	gq := g.gatorFilter.Query()
	for gq.Next() {
		doomed = append(doomed, gq.Entity())
	}
	for _, e := range doomed {
		g.world.RemoveEntity(e)
	}
}

func randomDirection(rng interface{ Intn(int) int }) components.Direction {
	if rng.Intn(2) == 0 {
		return components.Right
	}
	return components.Left
}
