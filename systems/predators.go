package systems

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/scroggo/frogjump/components"
	"github.com/scroggo/frogjump/config"
	"github.com/scroggo/frogjump/geom"
	"github.com/scroggo/frogjump/physics"
	"github.com/scroggo/frogjump/telemetry"
)

// FlySystem hovers flies over the terrain and lets the frog snap them up on
// contact. A caught fly is removed from the world; flies carrying a bonus
// report it through the OnBonus callback.
type FlySystem struct {
	world       *ecs.World
	flies       *ecs.Filter2[components.Position, components.Fly]
	dragonflies *ecs.Filter2[components.Position, components.DragonFly]
	players     *ecs.Filter2[components.Position, components.Player]
	space       *physics.Space
	events      *telemetry.Collector

	rayLength   float64
	lookAhead   float64
	eatRadiusSq float64

	// OnBonus fires when a caught fly carried a bonus.
	OnBonus func()
}

func NewFlySystem(w *ecs.World, space *physics.Space, events *telemetry.Collector) *FlySystem {
	cfg := config.Cfg()
	return &FlySystem{
		world:       w,
		flies:       ecs.NewFilter2[components.Position, components.Fly](w),
		dragonflies: ecs.NewFilter2[components.Position, components.DragonFly](w),
		players:     ecs.NewFilter2[components.Position, components.Player](w),
		space:       space,
		events:      events,
		rayLength:   cfg.Predators.FlyRayLength,
		lookAhead:   cfg.Predators.FlyLookAhead,
		eatRadiusSq: cfg.Predators.FlyEatRadius * cfg.Predators.FlyEatRadius,
	}
}

func (s *FlySystem) Update(dt float64) {
	playerPositions := s.playerPositions()

	var caught []ecs.Entity
	query := s.flies.Query()
	for query.Next() {
		pos, fly := query.Get()
		if fly.SelfDirected {
			s.steer(pos, fly, dt)
		}
		for _, pp := range playerPositions {
			if geom.Norm2(pp.Sub(pos.Vec())) < s.eatRadiusSq {
				caught = append(caught, query.Entity())
				s.events.RecordPreyEaten(pos.Vec(), fly.Bonus)
				if fly.Bonus && s.OnBonus != nil {
					s.OnBonus()
				}
				break
			}
		}
	}
	// Dragonflies don't patrol, but the frog can still catch them.
	dq := s.dragonflies.Query()
	for dq.Next() {
		pos, df := dq.Get()
		for _, pp := range playerPositions {
			if geom.Norm2(pp.Sub(pos.Vec())) < s.eatRadiusSq {
				caught = append(caught, dq.Entity())
				s.events.RecordPreyEaten(pos.Vec(), df.Bonus)
				if df.Bonus && s.OnBonus != nil {
					s.OnBonus()
				}
				break
			}
		}
	}
	for _, e := range caught {
		s.world.RemoveEntity(e)
	}
}

// steer runs the fly's two-state hover behavior. A fly starts calibrating:
// it drops until a downward ray finds ground, then hovers, patrolling
// horizontally and turning around at walls and ledges.
func (s *FlySystem) steer(pos *components.Position, fly *components.Fly, dt float64) {
	switch fly.State {
	case components.FlyCalibrating:
		from := pos.Vec()
		to := from.Add(geom.Vec{Y: s.rayLength})
		if _, ok := s.space.RayCast(from, to); ok {
			fly.State = components.FlyHovering
		} else {
			// Keep dropping until there is ground below.
			pos.Set(from.Add(geom.Vec{Y: fly.Speed * dt}))
		}
	case components.FlyHovering:
		heading := geom.Vec{X: fly.Speed * dt}
		probe := geom.Vec{X: s.lookAhead}
		if fly.Dir == components.Left {
			heading.X = -heading.X
			probe.X = -probe.X
		}
		from := pos.Vec()

		// Turn around at walls ahead or when the ground runs out.
		_, wallAhead := s.space.RayCast(from, from.Add(probe))
		groundFrom := from.Add(probe)
		_, groundAhead := s.space.RayCast(groundFrom, groundFrom.Add(geom.Vec{Y: s.rayLength}))
		if wallAhead || !groundAhead {
			fly.Dir = fly.Dir.Flip()
			return
		}
		pos.Set(from.Add(heading))
	}
}

func (s *FlySystem) playerPositions() []geom.Vec {
	var out []geom.Vec
	query := s.players.Query()
	for query.Next() {
		pos, _ := query.Get()
		out = append(out, pos.Vec())
	}
	return out
}

// AlligatorSystem makes alligators track the nearest frog. An alligator that
// gets a frog within its eat radius swallows it; the OnPlayerEaten callback
// lets the game respawn the frog.
type AlligatorSystem struct {
	world   *ecs.World
	gators  *ecs.Filter2[components.Position, components.Alligator]
	players *ecs.Filter2[components.Position, components.Player]
	events  *telemetry.Collector

	OnPlayerEaten func(player ecs.Entity)
}

func NewAlligatorSystem(w *ecs.World, events *telemetry.Collector) *AlligatorSystem {
	return &AlligatorSystem{
		world:   w,
		gators:  ecs.NewFilter2[components.Position, components.Alligator](w),
		players: ecs.NewFilter2[components.Position, components.Player](w),
		events:  events,
	}
}

func (s *AlligatorSystem) Update(dt float64) {
	// Eating a player mutates the world, which can't happen while a query
	// is open.
	var eaten []ecs.Entity
	query := s.gators.Query()
	for query.Next() {
		pos, gator := query.Get()
		if target, ok := s.track(pos.Vec(), gator); ok {
			eaten = append(eaten, target)
		}
	}
	for _, target := range eaten {
		if s.OnPlayerEaten != nil {
			s.OnPlayerEaten(target)
		}
	}
}

// track updates one alligator and returns the player it ate, if any.
func (s *AlligatorSystem) track(gatorPos geom.Vec, gator *components.Alligator) (ecs.Entity, bool) {
	// Handles can go stale when the focused player respawned as a new
	// entity.
	if gator.HasFocus && !s.world.Alive(gator.FocusedPlayer) {
		gator.HasFocus = false
		gator.Anim = "idle"
	}

	target, targetPos, found := s.closestPlayer(gatorPos)
	if !found {
		gator.HasFocus = false
		gator.Anim = "idle"
		return ecs.Entity{}, false
	}

	dist := geom.Norm(targetPos.Sub(gatorPos))
	switch {
	case dist < gator.EatRadius:
		s.events.RecordPlayerEaten(targetPos)
		gator.HasFocus = false
		gator.Anim = "chomp"
		return target, true
	case dist < gator.FocusRadius:
		gator.FocusedPlayer = target
		gator.HasFocus = true
		gator.Anim = "alert"
		// Face the frog.
		if targetPos.X < gatorPos.X {
			gator.ScaleX = -math.Abs(gator.ScaleX)
		} else {
			gator.ScaleX = math.Abs(gator.ScaleX)
		}
	default:
		if gator.HasFocus {
			slog.Debug("alligator lost focus", "distance", dist)
		}
		gator.HasFocus = false
		gator.Anim = "idle"
	}
	return ecs.Entity{}, false
}

func (s *AlligatorSystem) closestPlayer(from geom.Vec) (ecs.Entity, geom.Vec, bool) {
	var (
		best     ecs.Entity
		bestPos  geom.Vec
		bestDist = math.Inf(1)
		found    bool
	)
	query := s.players.Query()
	for query.Next() {
		pos, _ := query.Get()
		d := geom.Norm2(pos.Vec().Sub(from))
		if d < bestDist {
			bestDist = d
			best = query.Entity()
			bestPos = pos.Vec()
			found = true
		}
	}
	return best, bestPos, found
}
