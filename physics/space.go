// Package physics provides the motion-sweep and ray-cast services the
// landing core calls into: a kinematic rectangle body swept against the
// collision polygons of tile-map layers. Per-tile polygons are assumed
// convex; concave shapes only arise after seam merging, which happens in the
// landing logic, not here.
package physics

import (
	"math"

	"github.com/scroggo/frogjump/geom"
	"github.com/scroggo/frogjump/tilemap"
)

// Box describes a body's rectangular collision shape, centered on the body.
type Box struct {
	Size       geom.Vec
	SafeMargin float64
}

// corners returns the box's four corners for a body at pos with the given
// rotation.
func (b Box) corners(pos geom.Vec, rot float64) geom.Polygon {
	hw := b.Size.X / 2
	hh := b.Size.Y / 2
	local := [4]geom.Vec{
		{X: -hw, Y: -hh},
		{X: hw, Y: -hh},
		{X: hw, Y: hh},
		{X: -hw, Y: hh},
	}
	out := make(geom.Polygon, 4)
	for i, c := range local {
		out[i] = pos.Add(geom.Rotated(c, rot))
	}
	return out
}

// Collision describes one contact reported by a sweep. Normal points from
// the collider toward the body. Position is the contact point on the
// collider, in global coordinates.
type Collision struct {
	Collider  any
	Position  geom.Vec
	Normal    geom.Vec
	Depth     float64
	Travel    geom.Vec
	Remainder geom.Vec
}

// Space holds the static colliders bodies sweep against.
type Space struct {
	layers []*tilemap.Layer
}

// NewSpace creates an empty space.
func NewSpace() *Space {
	return &Space{}
}

// AddLayer registers a tile-map layer as a static collider.
func (s *Space) AddLayer(l *tilemap.Layer) {
	s.layers = append(s.layers, l)
}

// TestMove reports the collision a body would have when swept by motion from
// pos, without committing any movement.
func (s *Space) TestMove(box Box, pos geom.Vec, rot float64, motion geom.Vec) *Collision {
	_, col := s.sweep(box, pos, rot, motion)
	return col
}

// MoveAndCollide sweeps the body by motion and returns the final position
// together with the first collision, if any. On a hit the final position
// penetrates the collider by a small positive depth, which the caller
// resolves.
func (s *Space) MoveAndCollide(box Box, pos geom.Vec, rot float64, motion geom.Vec) (geom.Vec, *Collision) {
	return s.sweep(box, pos, rot, motion)
}

// sweepRefineSteps bounds the binary refinement of the first-hit time.
const sweepRefineSteps = 24

func (s *Space) sweep(box Box, pos geom.Vec, rot float64, motion geom.Vec) (geom.Vec, *Collision) {
	if hit := s.overlapAt(box, pos, rot); hit != nil {
		// Already colliding before moving; report in place.
		col := hit.collision()
		col.Remainder = motion
		return pos, col
	}
	length := geom.Norm(motion)
	if length == 0 {
		return pos, nil
	}

	// Step finely enough that the body cannot tunnel through a tile.
	maxStep := math.Min(box.Size.X, box.Size.Y) / 4
	if maxStep <= 0 {
		maxStep = 1e-3
	}
	steps := int(math.Ceil(length/maxStep)) + 1

	lo := 0.0
	hi := -1.0
	for k := 1; k <= steps; k++ {
		t := float64(k) / float64(steps)
		if s.overlapAt(box, pos.Add(motion.Scale(t)), rot) != nil {
			hi = t
			break
		}
		lo = t
	}
	if hi < 0 {
		return pos.Add(motion), nil
	}

	// Narrow [lo, hi] to a just-touching overlap.
	for i := 0; i < sweepRefineSteps; i++ {
		mid := (lo + hi) / 2
		if s.overlapAt(box, pos.Add(motion.Scale(mid)), rot) != nil {
			hi = mid
		} else {
			lo = mid
		}
	}
	finalPos := pos.Add(motion.Scale(hi))
	hit := s.overlapAt(box, finalPos, rot)
	if hit == nil {
		// The bracket collapsed below float precision; treat as a miss.
		return pos.Add(motion), nil
	}
	col := hit.collision()
	col.Travel = motion.Scale(hi)
	col.Remainder = motion.Scale(1 - hi)
	return finalPos, col
}

// overlap captures one penetrating configuration for contact reporting.
type overlap struct {
	collider any
	polygon  geom.Polygon
	body     geom.Polygon
	normal   geom.Vec
	depth    float64
}

// overlapAt returns the deepest overlap between the body at pos and any
// collider polygon, or nil when the configuration is clear.
func (s *Space) overlapAt(box Box, pos geom.Vec, rot float64) *overlap {
	body := box.corners(pos, rot)
	min, max := polygonBounds(body)
	pad := geom.Vec{X: 1, Y: 1}
	min = min.Sub(pad)
	max = max.Add(pad)

	var best *overlap
	for _, layer := range s.layers {
		for _, cell := range layer.CellsInBox(min, max) {
			for _, poly := range layer.WorldPolygons(cell) {
				normal, depth, ok := satCollide(body, pos, poly)
				if !ok {
					continue
				}
				if best == nil || depth > best.depth {
					best = &overlap{
						collider: layer,
						polygon:  poly,
						body:     body,
						normal:   normal,
						depth:    depth,
					}
				}
			}
		}
	}
	return best
}

// collision converts an overlap into the engine-style collision report. The
// contact point is the deepest body corner projected onto the collider's
// boundary, so a landing on a polygon corner reports (close to) that corner.
func (o *overlap) collision() *Collision {
	deepest := deepestPoint(o.body, o.normal)
	contact := o.polygon.ClosestBoundaryPoint(deepest)
	return &Collision{
		Collider: o.collider,
		Position: contact,
		Normal:   o.normal,
		Depth:    o.depth,
	}
}

// deepestPoint returns the body vertex furthest against the contact normal.
// Flat contacts average the tied corners so the contact lands mid-edge.
func deepestPoint(body geom.Polygon, normal geom.Vec) geom.Vec {
	const tieEps = 1e-6
	minProj := math.Inf(1)
	for _, v := range body {
		if p := geom.Dot(v, normal); p < minProj {
			minProj = p
		}
	}
	sum := geom.Vec{}
	n := 0
	for _, v := range body {
		if geom.Dot(v, normal)-minProj < tieEps {
			sum = sum.Add(v)
			n++
		}
	}
	return sum.Scale(1 / float64(n))
}

// satCollide runs a separating-axis test between the body polygon and a
// convex collider polygon. On overlap it returns the minimum translation
// axis oriented from the collider toward the body, and the penetration
// depth.
func satCollide(body geom.Polygon, bodyCenter geom.Vec, poly geom.Polygon) (geom.Vec, float64, bool) {
	bestDepth := math.Inf(1)
	var bestAxis geom.Vec

	check := func(p geom.Polygon) bool {
		for i := range p {
			edge := p[p.NextIndex(i)].Sub(p[i])
			axis, ok := geom.TryNormalize(geom.Orthogonal(edge))
			if !ok {
				continue
			}
			minA, maxA := projectOnto(body, axis)
			minB, maxB := projectOnto(poly, axis)
			depth := math.Min(maxA, maxB) - math.Max(minA, minB)
			if depth <= 0 {
				return false
			}
			if depth < bestDepth {
				bestDepth = depth
				bestAxis = axis
			}
		}
		return true
	}
	if !check(body) || !check(poly) {
		return geom.Vec{}, 0, false
	}

	// Orient the axis from the collider toward the body.
	if geom.Dot(bestAxis, bodyCenter.Sub(centroid(poly))) < 0 {
		bestAxis = bestAxis.Scale(-1)
	}
	return bestAxis, bestDepth, true
}

func projectOnto(p geom.Polygon, axis geom.Vec) (float64, float64) {
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, v := range p {
		d := geom.Dot(v, axis)
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

func centroid(p geom.Polygon) geom.Vec {
	sum := geom.Vec{}
	for _, v := range p {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(p)))
}

func polygonBounds(p geom.Polygon) (geom.Vec, geom.Vec) {
	min := geom.Vec{X: math.Inf(1), Y: math.Inf(1)}
	max := geom.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, v := range p {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
	}
	return min, max
}
