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
	"github.com/scroggo/frogjump/tilemap"
)

// The player's width works well for collisions, but make it a little bit
// smaller so that the player can land on surfaces that don't have enough
// room for their full body but do for their feet.
const widthModifier = 0.7

// jumpAngle is how far from straight up the player launches, signed by the
// direction they face.
const jumpAngle = 5 * math.Pi / 16

// cornerTolerance decides whether a collision position coincides with a
// polygon vertex. Contact points are computed numerically, so exact equality
// is not available.
const cornerTolerance = 0.05

// shimmyArriveDistSq is the squared distance below which a shimmy snaps to
// its destination. This works because delta is small.
const shimmyArriveDistSq = 1.0

// overhangDot is the dot-product threshold in FindShimmyDest below which the
// player is considered to hang off a surface end.
const overhangDot = -0.95

// PlayerSystem drives the frog's landing, shimmy, and jump behavior each
// physics tick.
type PlayerSystem struct {
	filter *ecs.Filter3[components.Position, components.Rotation, components.Player]
	space  *physics.Space
	parent *tilemap.Layer
	jump   *JumpHandler
	events *telemetry.Collector

	box              physics.Box
	halfWidth        float64
	halfHeight       float64
	fallAcceleration float64
	shimmySpeed      float64
	maxJumpStrength  float64
	debug            bool
}

// NewPlayerSystem creates the player system. parent is the layer the player
// node is parented to; its origin defines the player's local coordinate
// space, like a scene-tree parent transform.
func NewPlayerSystem(w *ecs.World, space *physics.Space, parent *tilemap.Layer, jump *JumpHandler, events *telemetry.Collector) *PlayerSystem {
	cfg := config.Cfg()
	return &PlayerSystem{
		filter: ecs.NewFilter3[components.Position, components.Rotation, components.Player](w),
		space:  space,
		parent: parent,
		jump:   jump,
		events: events,
		box: physics.Box{
			Size:       geom.Vec{X: cfg.Player.Width, Y: cfg.Player.Height},
			SafeMargin: cfg.Player.SafeMargin,
		},
		halfWidth:        cfg.Derived.HalfWidth,
		halfHeight:       cfg.Derived.HalfHeight,
		fallAcceleration: cfg.Physics.FallAcceleration,
		shimmySpeed:      cfg.Player.ShimmySpeed,
		maxJumpStrength:  cfg.Player.MaxJumpStrength,
		debug:            cfg.Logging.Collisions,
	}
}

// Update advances every player by one physics tick.
func (s *PlayerSystem) Update(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, rot, pl := query.Get()
		s.step(pos, rot, pl, dt)
	}
}

func (s *PlayerSystem) step(pos *components.Position, rot *components.Rotation, pl *components.Player, dt float64) {
	oldPosition := pos.Vec()
	if pl.HasShimmy {
		s.stepShimmy(pos, pl, dt)
		return
	}
	if !pl.OnSurface {
		pl.TargetVelocity.Y += dt * s.fallAcceleration
	}
	motion := pl.TargetVelocity.Scale(dt)
	globalFrom := s.toGlobal(oldPosition)
	newGlobal, collision := s.space.MoveAndCollide(s.box, globalFrom, rot.Angle, motion)
	pos.Set(s.toLocal(newGlobal))
	if collision != nil {
		s.debugf("moved", "from", oldPosition, "to", pos.Vec(), "diff", pos.Vec().Sub(oldPosition))
		s.debugCollision(collision)
		s.land(pos, rot, pl, collision, motion)
	}

	if pl.OnSurface {
		if strength, jumped := s.jump.HandleInput(dt); jumped {
			s.launch(pos, rot, pl, strength)
		} else {
			pl.TargetVelocity = geom.Vec{}
		}
	}
}

// stepShimmy glides the player toward the shimmy destination, ignoring
// gravity and collision, and snaps to it on arrival.
func (s *PlayerSystem) stepShimmy(pos *components.Position, pl *components.Player, dt float64) {
	oldPosition := pos.Vec()
	newPosition := pl.ShimmyDest
	if direction, ok := geom.TryNormalize(pl.ShimmyDest.Sub(oldPosition)); ok {
		possible := oldPosition.Add(direction.Scale(s.shimmySpeed * dt))
		if geom.Norm2(possible.Sub(pl.ShimmyDest)) >= shimmyArriveDistSq {
			newPosition = possible
		}
	}
	if newPosition == pl.ShimmyDest {
		pl.HasShimmy = false
		pl.Anim = "default"
	}
	pos.Set(newPosition)
}

// land handles a collision reported by the motion sweep: depenetration,
// landing-surface selection, rotation and orientation updates, and
// repositioning flush against the surface.
func (s *PlayerSystem) land(pos *components.Position, rot *components.Rotation, pl *components.Player, collision *physics.Collision, motion geom.Vec) {
	if collision.Depth > 0 {
		// The player is penetrating the wall. Move back along the direction
		// of motion far enough to remove the overlap.
		if motionNormalized, ok := geom.TryNormalize(motion); ok {
			reverseMotion := motionNormalized.Scale(-1)
			depthVector := collision.Normal.Scale(collision.Depth)
			cos := math.Cos(geom.AngleBetween(reverseMotion, depthVector))
			if math.Abs(cos) > 1e-9 {
				offset := geom.Norm(depthVector) / cos
				pos.Set(pos.Vec().Add(reverseMotion.Scale(offset)))
			}
		}
	}

	var landingSurface geom.LandingSurface
	haveSurface := false
	collisionPosition := collision.Position
	landedOnCorner := false
	if layer, ok := collision.Collider.(*tilemap.Layer); ok {
		if points, ok := tilemap.ColliderPoints(layer, collisionPosition); ok {
			s.debugf("returned points", "count", len(points))
			if index, found := points.FindVertex(collisionPosition, cornerTolerance); found {
				s.debugf("hit a corner")
				landedOnCorner = true
				landingSurface, haveSurface = s.pickSideToLandOnFromCorner(pos, points, index, motion, collision.Normal)
			} else {
				landingSurface, haveSurface = s.pickSideToLandOn(pos, points, collisionPosition, motion, collision.Normal)
			}
		}
	} else {
		slog.Error("collided with something other than a tile-map layer", "collider", collision.Collider)
	}
	s.debugf("landing surface", "found", haveSurface)
	pl.OnSurface = true

	// Reverse the jump animation to land.
	pl.Anim = "land"

	normal := collision.Normal
	if haveSurface {
		normal = landingSurface.Normal
	}
	rot.Angle = geom.Angle(normal) + math.Pi/2
	switch {
	case normal.X > 0.5:
		pl.Dir = components.Right
		pl.FlipH = false
	case normal.X < -0.5:
		pl.Dir = components.Left
		pl.FlipH = true
	case normal.Y > 0.5:
		pl.OnCeiling = true
		pl.FlipH = pl.Dir == components.Left
	case normal.Y < -0.5:
		pl.FlipH = pl.Dir == components.Right
	default:
		slog.Error("landed with surprise normal", "normal", normal)
		s.events.RecordGeometryAnomaly(collisionPosition, "off-axis landing normal")
	}

	// Now that the player is rotated in the proper direction, move them so
	// they are properly on their new surface.
	if haveSurface {
		// When landing on a corner, `a` is the corner.
		if geom.Norm(collisionPosition.Sub(landingSurface.A)) < cornerTolerance {
			s.landOnCorner(pos, rot, pl, landingSurface, normal)
		} else {
			s.landOnEdge(pos, rot, pl, landingSurface, normal)
		}
		s.debugf("player local position", "pos", pos.Vec())
		if s.wouldCollide(pos.Vec(), rot.Angle, geom.Vec{}) {
			slog.Error("created a new collision")
		}
	}
	s.events.RecordLanding(collisionPosition, normal, landedOnCorner)
}

// landOnCorner places the player on the corner directly, pushed away by the
// normal, then shimmies more fully onto the surface over the next several
// frames.
func (s *PlayerSystem) landOnCorner(pos *components.Position, rot *components.Rotation, pl *components.Player, surface geom.LandingSurface, normal geom.Vec) {
	globalPosition := surface.A.Add(normal.Scale(s.heightAboveSurface()))
	newPlayerPosition := s.toLocal(globalPosition)
	pos.Set(newPlayerPosition)

	if surfaceDirection, ok := geom.TryNormalize(surface.B.Sub(surface.A)); ok {
		motion := surfaceDirection.Scale(s.halfWidth * widthModifier)
		if s.wouldCollide(pos.Vec(), rot.Angle, motion) {
			s.debugf("shimmying (corner) would cause collisions")
		} else {
			pl.HasShimmy = true
			pl.ShimmyDest = newPlayerPosition.Add(motion)
			pl.Anim = "shimmy"
			s.events.RecordShimmyStart(pl.ShimmyDest)
		}
	}
}

// landOnEdge lines the player up so that they appear to be resting directly
// on the surface, shimmying fully onto it if they overhang an end.
func (s *PlayerSystem) landOnEdge(pos *components.Position, rot *components.Rotation, pl *components.Player, surface geom.LandingSurface, normal geom.Vec) {
	// The surface uses global positions.
	globalPosition := s.toGlobal(pos.Vec())

	// We have the normal for the plane, we just need its distance from the
	// origin.
	d := geom.Dot(normal, surface.A)
	distanceToSurface := geom.Dot(normal, globalPosition) - d
	distToMove := s.heightAboveSurface() - distanceToSurface
	pos.Set(pos.Vec().Add(normal.Scale(distToMove)))

	if !s.canLandOnSurface(surface) {
		s.debugf("don't fit on surface")
		return
	}
	shimmyDest, ok := s.findShimmyDest(pos.Vec(), surface)
	if !ok {
		return
	}
	motion := shimmyDest.Sub(pos.Vec())
	if s.wouldCollide(pos.Vec(), rot.Angle, motion) {
		s.debugf("shimmying would cause collisions")
		return
	}
	pl.HasShimmy = true
	pl.ShimmyDest = shimmyDest
	pl.Anim = "shimmy"
	s.events.RecordShimmyStart(shimmyDest)
}

// launch fires a jump with the given strength.
func (s *PlayerSystem) launch(pos *components.Position, rot *components.Rotation, pl *components.Player, strength float64) {
	if !pl.OnCeiling {
		// Jump right-side up, facing the player's direction.
		rot.Angle = 0
		pl.FlipH = pl.Dir == components.Right

		// Sometimes the rotation causes new collisions. (The change to FlipH
		// makes no difference because the collision rectangle is centered
		// around the player.) Remove any overlap.
		if collision := s.space.TestMove(s.box, s.toGlobal(pos.Vec()), rot.Angle, geom.Vec{}); collision != nil {
			// Since this is an unusual collision - the rectangle
			// instantaneously changed - the depth is incorrect. But landing
			// on this surface previously placed the player height/2 away
			// from the surface, and now they should be width/2 away, so add
			// the difference.
			diff := (s.box.Size.X - s.box.Size.Y) / 2
			offset := collision.Normal.Scale(collision.Depth + diff)
			pos.Set(pos.Vec().Add(offset))
		}
	}
	if s.wouldCollide(pos.Vec(), rot.Angle, geom.Vec{}) {
		slog.Error("shouldn't still have a collision")
	}

	pl.TargetVelocity = s.jumpVelocity(pl, strength)
	pl.Anim = "jump"
	pl.OnSurface = false
	pl.OnCeiling = false
	s.events.RecordJump(s.toGlobal(pos.Vec()), strength)
}

// jumpVelocity computes the launch velocity from jump strength, facing, and
// whether the player hangs from a ceiling.
func (s *PlayerSystem) jumpVelocity(pl *components.Player, jumpRatio float64) geom.Vec {
	ceilingMultiplier := -1.0
	if pl.OnCeiling {
		ceilingMultiplier = 1.0
	}
	jumpStrength := jumpRatio * s.maxJumpStrength * ceilingMultiplier
	angle := jumpAngle * ceilingMultiplier
	if pl.Dir == components.Right {
		angle = -angle
	}
	return geom.Rotated(geom.Vec{X: 0, Y: jumpStrength}, angle)
}

// pickSideToLandOn finds the polygon edge a mid-edge collision belongs to.
// When that edge is too short to support the player, the neighboring edges
// on each side are considered; if both qualify, the one whose shared corner
// is closer to the player wins. If neither qualifies, the too-short surface
// is returned anyway.
func (s *PlayerSystem) pickSideToLandOn(pos *components.Position, points geom.Polygon, collisionPosition, playerMotion, collisionNormal geom.Vec) (geom.LandingSurface, bool) {
	for i := range points {
		i2 := points.NextIndex(i)
		a := points[i]
		b := points[i2]

		n, ok := geom.Normal(a, b, playerMotion)
		if !ok {
			// This side is too small. Skip it.
			continue
		}
		surface := geom.LandingSurface{A: a, B: b, Normal: n}
		if !surface.HitBy(collisionPosition, collisionNormal) {
			continue
		}
		if !s.canLandOnSurface(surface) {
			nextSurface, nextOK := geom.FindSurface(points, i2, points.NextIndex(i2))
			nextOK = nextOK && s.canLandOnSurface(nextSurface)
			priorSurface, priorOK := geom.FindSurface(points, i, points.PriorIndex(i))
			priorOK = priorOK && s.canLandOnSurface(priorSurface)
			switch {
			case nextOK && priorOK:
				// Pick the closer corner.
				global := s.toGlobal(pos.Vec())
				if geom.Norm2(global.Sub(nextSurface.A)) < geom.Norm2(global.Sub(priorSurface.A)) {
					return nextSurface, true
				}
				return priorSurface, true
			case nextOK:
				return nextSurface, true
			case priorOK:
				return priorSurface, true
			}
		}
		return surface, true
	}
	return geom.LandingSurface{}, false
}

// pickSideToLandOnFromCorner picks between the two edges adjacent to the
// polygon vertex the player landed on. The edge whose normal better matches
// the collision normal is tried first; the first candidate wide enough to
// support the player wins.
func (s *PlayerSystem) pickSideToLandOnFromCorner(pos *components.Position, points geom.Polygon, index int, playerMotion, collisionNormal geom.Vec) (geom.LandingSurface, bool) {
	if geom.Norm2(playerMotion) == 0 {
		// Properly positioning the player after a landing should prevent
		// new zero-motion collisions; if one happens anyway there is no way
		// to disambiguate the sides.
		slog.Error("no player motion")
		s.events.RecordGeometryAnomaly(points[index], "corner hit with zero motion")
		return geom.LandingSurface{}, false
	}

	surfaceA, okA := pickAdjacentSide(points, index, points.PriorIndex, playerMotion)
	surfaceB, okB := pickAdjacentSide(points, index, points.NextIndex, playerMotion)
	// Prefer the surface whose normal is closest to the collision normal.
	// Since these are normals, the larger dot product wins.
	if okA && okB && geom.Dot(surfaceB.Normal, collisionNormal) > geom.Dot(surfaceA.Normal, collisionNormal) {
		surfaceA, surfaceB = surfaceB, surfaceA
	} else if !okA {
		surfaceA, okA = surfaceB, okB
		okB = false
	}

	candidates := []geom.LandingSurface{}
	if okA {
		candidates = append(candidates, surfaceA)
	}
	if okB {
		candidates = append(candidates, surfaceB)
	}
	for _, surface := range candidates {
		if s.canLandOnSurface(surface) {
			// The surface picked its normal from the player motion, which
			// generally works - the player collides from outside the
			// polygon. But corners are funny: the chosen side can make the
			// motion look like it came from inside.
			return surface.CorrectNormal(points), true
		}
	}
	slog.Error("couldn't land anywhere", "corner", points[index])
	s.events.RecordGeometryAnomaly(points[index], "no viable landing side at corner")
	return geom.LandingSurface{}, false
}

// pickAdjacentSide builds the surface from a corner vertex toward the
// neighbor selected by adjacent. The corner stays in slot A.
func pickAdjacentSide(points geom.Polygon, index int, adjacent func(int) int, playerMotion geom.Vec) (geom.LandingSurface, bool) {
	// Smoothing already removed points too close together, so the normal
	// should exist; a degenerate edge is skipped instead of trusted.
	return geom.NewLandingSurface(points[index], points[adjacent(index)], playerMotion)
}

// wouldCollide reports whether moving by motion from the given local
// position would collide.
func (s *PlayerSystem) wouldCollide(local geom.Vec, rotation float64, motion geom.Vec) bool {
	collision := s.space.TestMove(s.box, s.toGlobal(local), rotation, motion)
	if collision != nil {
		s.debugCollision(collision)
		return true
	}
	return false
}

// canLandOnSurface reports whether there is enough room for the player on
// the surface.
func (s *PlayerSystem) canLandOnSurface(surface geom.LandingSurface) bool {
	return surface.LengthSquared() > geom.Squared(s.width()*widthModifier)
}

// findShimmyDest returns where the player should shimmy to when they hang
// off one end of the surface or the other.
func (s *PlayerSystem) findShimmyDest(local geom.Vec, surface geom.LandingSurface) (geom.Vec, bool) {
	if dest, ok := s.findShimmyDestInternal(local, surface.A, surface.B, surface.Normal); ok {
		return dest, true
	}
	return s.findShimmyDestInternal(local, surface.B, surface.A, surface.Normal)
}

func (s *PlayerSystem) findShimmyDestInternal(local geom.Vec, a, b, n geom.Vec) (geom.Vec, bool) {
	currentPosition := s.toGlobal(local)

	// The bottom middle of the player, which should be in the plane of the
	// surface.
	playerMiddle := currentPosition.Sub(n.Scale(s.heightAboveSurface()))

	surfaceDirection, ok := geom.TryNormalize(a.Sub(b))
	if !ok {
		return geom.Vec{}, false
	}
	bottomCorner := playerMiddle.Add(surfaceDirection.Scale(s.halfWidth))
	v := a.Sub(bottomCorner)
	vUnit, ok := geom.TryNormalize(v)
	if !ok {
		return geom.Vec{}, false
	}
	// Since these are normalized, -1 would be exactly the opposite
	// direction. Use a small tolerance.
	if geom.Dot(vUnit, surfaceDirection) < overhangDot {
		// Player is overhanging the surface in the direction of `a`. Move
		// the other way to be on the surface.
		return s.toLocal(currentPosition.Add(v.Scale(widthModifier))), true
	}
	return geom.Vec{}, false
}

func (s *PlayerSystem) width() float64 {
	return s.box.Size.X
}

// heightAboveSurface is how far above a surface, in terms of its normal, the
// player should rest: half the collision box plus a little padding to avoid
// further collisions.
func (s *PlayerSystem) heightAboveSurface() float64 {
	return s.halfHeight + s.box.SafeMargin
}

func (s *PlayerSystem) toGlobal(local geom.Vec) geom.Vec {
	return s.parent.ToGlobal(local)
}

func (s *PlayerSystem) toLocal(global geom.Vec) geom.Vec {
	return s.parent.ToLocal(global)
}

func (s *PlayerSystem) debugf(msg string, args ...any) {
	if s.debug {
		slog.Debug(msg, args...)
	}
}

func (s *PlayerSystem) debugCollision(collision *physics.Collision) {
	if !s.debug {
		return
	}
	slog.Debug("collision",
		"normal", collision.Normal,
		"position", collision.Position,
		"depth", collision.Depth,
		"travel", collision.Travel,
		"remainder", collision.Remainder,
	)
}
