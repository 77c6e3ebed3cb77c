package physics

import (
	"math"

	"github.com/scroggo/frogjump/geom"
)

// RayHit describes the first intersection of a ray cast with a collider.
type RayHit struct {
	Position geom.Vec
	Normal   geom.Vec
	Collider any
}

// RayCast intersects the segment from->to with the registered colliders and
// returns the nearest hit.
func (s *Space) RayCast(from, to geom.Vec) (RayHit, bool) {
	min := geom.Vec{X: math.Min(from.X, to.X) - 1, Y: math.Min(from.Y, to.Y) - 1}
	max := geom.Vec{X: math.Max(from.X, to.X) + 1, Y: math.Max(from.Y, to.Y) + 1}
	dir := to.Sub(from)

	bestT := math.Inf(1)
	var best RayHit
	for _, layer := range s.layers {
		for _, cell := range layer.CellsInBox(min, max) {
			for _, poly := range layer.WorldPolygons(cell) {
				for i := range poly {
					a := poly[i]
					b := poly[poly.NextIndex(i)]
					t, ok := segmentIntersect(from, to, a, b)
					if !ok || t >= bestT {
						continue
					}
					normal, ok := geom.TryNormalize(geom.Orthogonal(b.Sub(a)))
					if !ok {
						continue
					}
					// Face the normal against the ray.
					if geom.Dot(normal, dir) > 0 {
						normal = normal.Scale(-1)
					}
					bestT = t
					best = RayHit{
						Position: from.Add(dir.Scale(t)),
						Normal:   normal,
						Collider: layer,
					}
				}
			}
		}
	}
	return best, !math.IsInf(bestT, 1)
}

// segmentIntersect returns the parameter along p->p2 where it crosses
// q->q2, if the segments intersect.
func segmentIntersect(p, p2, q, q2 geom.Vec) (float64, bool) {
	r := p2.Sub(p)
	s := q2.Sub(q)
	denom := geom.Cross(r, s)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	qp := q.Sub(p)
	t := geom.Cross(qp, s) / denom
	u := geom.Cross(qp, r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}
