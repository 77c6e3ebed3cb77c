// Package geom provides the 2D geometry used for surface landing:
// vector helpers, polygons, and landing surfaces. Coordinates follow the
// screen convention (Y grows downward), so the normal of a floor is (0, -1).
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a 2D vector. It is gonum's r2.Vec as a local type so the vector
// arithmetic reads as methods; gonum only ships package-level functions.
type Vec r2.Vec

// Add returns v + w.
func (v Vec) Add(w Vec) Vec {
	return Vec(r2.Add(r2.Vec(v), r2.Vec(w)))
}

// Sub returns v - w.
func (v Vec) Sub(w Vec) Vec {
	return Vec(r2.Sub(r2.Vec(v), r2.Vec(w)))
}

// Scale returns v scaled by f.
func (v Vec) Scale(f float64) Vec {
	return Vec(r2.Scale(f, r2.Vec(v)))
}

// Norm returns the length of v.
func Norm(v Vec) float64 {
	return r2.Norm(r2.Vec(v))
}

// Norm2 returns the squared length of v.
func Norm2(v Vec) float64 {
	return r2.Norm2(r2.Vec(v))
}

// Dot returns the dot product of a and b.
func Dot(a, b Vec) float64 {
	return r2.Dot(r2.Vec(a), r2.Vec(b))
}

// Cross returns the 2D cross product of a and b.
func Cross(a, b Vec) float64 {
	return r2.Cross(r2.Vec(a), r2.Vec(b))
}

// Orthogonal returns v rotated a quarter turn clockwise, (v.Y, -v.X).
func Orthogonal(v Vec) Vec {
	return Vec{X: v.Y, Y: -v.X}
}

// Angle returns the angle of v, measured from the positive X axis.
func Angle(v Vec) float64 {
	return math.Atan2(v.Y, v.X)
}

// AngleBetween returns the signed angle from a to b, in (-Pi, Pi].
func AngleBetween(a, b Vec) float64 {
	return math.Atan2(Cross(a, b), Dot(a, b))
}

// Project returns the projection of v onto axis.
func Project(v, axis Vec) Vec {
	n2 := Norm2(axis)
	if n2 == 0 {
		return Vec{}
	}
	return axis.Scale(Dot(v, axis) / n2)
}

// TryNormalize returns the unit vector of v, or false if v is too short to
// normalize.
func TryNormalize(v Vec) (Vec, bool) {
	n := Norm(v)
	if n < 1e-12 {
		return Vec{}, false
	}
	return v.Scale(1 / n), true
}

// Rotated returns v rotated by angle radians about the origin.
func Rotated(v Vec, angle float64) Vec {
	sin, cos := math.Sincos(angle)
	return Vec{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// Normal computes the unit normal of the segment a->b that opposes the
// player's motion. It reports false when the segment is degenerate or the
// motion has no component along the segment's orthogonal axis; callers treat
// that as "this side is unusable, skip it".
func Normal(a, b, playerMotion Vec) (Vec, bool) {
	ortho := Orthogonal(b.Sub(a))
	return TryNormalize(Project(playerMotion.Scale(-1), ortho))
}

// Squared returns n*n. Comparing squared lengths avoids square roots.
func Squared(n float64) float64 {
	return n * n
}

// normalAngleTolerance is the maximum angle, in radians, between two unit
// normals that are still considered the same surface orientation.
const normalAngleTolerance = 0.05

// SameNormalsApprox reports whether two unit normals are close enough in
// angle to be merged into one continuous surface.
func SameNormalsApprox(n1, n2 Vec) bool {
	return math.Abs(AngleBetween(n1, n2)) < normalAngleTolerance
}
