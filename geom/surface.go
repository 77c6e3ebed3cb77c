package geom

import (
	"log/slog"
	"math"
)

// LandingSurface is one candidate edge the player may rest on: two world
// positions and the outward normal. The end points may just be the ends of
// a tile; the physical surface can extend further. By convention, when the
// player landed on a corner, that corner is A.
type LandingSurface struct {
	A      Vec
	B      Vec
	Normal Vec
}

// NewLandingSurface builds a surface for the segment a->b with the normal
// opposing the player's motion. It reports false when the segment is too
// small or unusable.
func NewLandingSurface(a, b, playerMotion Vec) (LandingSurface, bool) {
	n, ok := Normal(a, b, playerMotion)
	if !ok {
		return LandingSurface{}, false
	}
	return LandingSurface{A: a, B: b, Normal: n}, true
}

// LengthSquared returns the squared distance between the surface's end
// points.
func (s LandingSurface) LengthSquared() float64 {
	return Norm2(s.A.Sub(s.B))
}

// CorrectNormal flips the normal if it points into the polygon the surface
// belongs to. A test point just off the middle of the segment decides the
// proper direction; for simple shapes that is sufficient. When both offset
// test points are inside the polygon the source shape is not simple; the
// surface is returned unchanged and the anomaly is logged.
func (s LandingSurface) CorrectNormal(polygon Polygon) LandingSurface {
	testPoint := s.A.Add(s.B).Scale(0.5).Add(s.Normal)
	if !polygon.Contains(testPoint) {
		return s
	}
	slog.Debug("correcting landing surface normal", "a", s.A, "b", s.B)

	testPoint2 := testPoint.Add(s.Normal.Scale(-2))
	if polygon.Contains(testPoint2) {
		slog.Error("both normal test points are inside polygon",
			"test_point", testPoint, "test_point2", testPoint2, "points", len(polygon))
		// Neither direction is any good, so keep the original.
		return s
	}
	return LandingSurface{A: s.A, B: s.B, Normal: s.Normal.Scale(-1)}
}

// FindSurface builds a surface from two polygon indices, which are either
// consecutive or can be treated as such, with a containment-validated
// normal. It reports false when the edge is degenerate.
func FindSurface(polygon Polygon, i, i2 int) (LandingSurface, bool) {
	a := polygon[i]
	b := polygon[i2]
	normal, ok := TryNormalize(Orthogonal(a.Sub(b)))
	if !ok {
		return LandingSurface{}, false
	}
	s := LandingSurface{A: a, B: b, Normal: normal}
	return s.CorrectNormal(polygon), true
}

// hitTolerance bounds the plane distance, the normal mismatch, and the
// triangle-equality slack when matching a collision to a surface.
const hitTolerance = 0.2

// HitBy reports whether a collision event geometrically belongs to this
// surface: the collision position must lie in the surface's plane, the
// normals must be nearly parallel, and the position must fall between the
// two end points.
func (s LandingSurface) HitBy(collisionPosition, collisionNormal Vec) bool {
	// A plane is a normal and a distance from the origin.
	d := Dot(s.Normal, s.A)
	distance := Dot(s.Normal, collisionPosition) - d
	if math.Abs(distance) >= hitTolerance {
		return false
	}
	if 1-Dot(s.Normal, collisionNormal) >= hitTolerance {
		return false
	}
	// If the collision is between the two points, the length of ab roughly
	// equals ac + bc.
	ab := Norm(s.A.Sub(s.B))
	ac := Norm(s.A.Sub(collisionPosition))
	bc := Norm(s.B.Sub(collisionPosition))
	return math.Abs(ab-(ac+bc)) < hitTolerance
}
