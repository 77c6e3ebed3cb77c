package geom

import (
	"math"
	"testing"
)

const tol = 1e-9

func vecNear(a, b Vec, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

func TestOrthogonal(t *testing.T) {
	tests := []struct {
		name string
		in   Vec
		want Vec
	}{
		{"right turns up", Vec{X: 1, Y: 0}, Vec{X: 0, Y: -1}},
		{"down turns right", Vec{X: 0, Y: 1}, Vec{X: 1, Y: 0}},
		{"diagonal", Vec{X: 2, Y: 3}, Vec{X: 3, Y: -2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Orthogonal(tt.in)
			if !vecNear(got, tt.want, tol) {
				t.Errorf("Orthogonal(%v) = %v, want %v", tt.in, got, tt.want)
			}
			if dot := Dot(got, tt.in); math.Abs(dot) > tol {
				t.Errorf("Orthogonal(%v) not perpendicular, dot = %v", tt.in, dot)
			}
		})
	}
}

func TestTryNormalize(t *testing.T) {
	v, ok := TryNormalize(Vec{X: 3, Y: 4})
	if !ok {
		t.Fatal("TryNormalize(3,4) failed")
	}
	if !vecNear(v, Vec{X: 0.6, Y: 0.8}, tol) {
		t.Errorf("TryNormalize(3,4) = %v, want (0.6, 0.8)", v)
	}

	if _, ok := TryNormalize(Vec{}); ok {
		t.Error("TryNormalize of zero vector should fail")
	}
}

func TestAngleBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec
		want float64
	}{
		{"same direction", Vec{X: 1}, Vec{X: 5}, 0},
		{"quarter turn", Vec{X: 1}, Vec{Y: 1}, math.Pi / 2},
		{"quarter turn negative", Vec{Y: 1}, Vec{X: 1}, -math.Pi / 2},
		{"opposite", Vec{X: 1}, Vec{X: -1}, math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngleBetween(tt.a, tt.b)
			if math.Abs(got-tt.want) > tol {
				t.Errorf("AngleBetween(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRotated(t *testing.T) {
	got := Rotated(Vec{X: 1, Y: 0}, math.Pi/2)
	if !vecNear(got, Vec{X: 0, Y: 1}, tol) {
		t.Errorf("Rotated((1,0), pi/2) = %v, want (0, 1)", got)
	}
	got = Rotated(Vec{X: 0, Y: -1}, -math.Pi/2)
	if !vecNear(got, Vec{X: -1, Y: 0}, tol) {
		t.Errorf("Rotated((0,-1), -pi/2) = %v, want (-1, 0)", got)
	}
}

func TestNormalOpposesMotion(t *testing.T) {
	// A horizontal floor edge with the player falling down: the normal must
	// be unit length, perpendicular to the edge, and oppose the motion.
	a := Vec{X: 0, Y: 0}
	b := Vec{X: 10, Y: 0}
	motion := Vec{X: 0, Y: 5}

	n, ok := Normal(a, b, motion)
	if !ok {
		t.Fatal("Normal failed for a horizontal edge")
	}
	if math.Abs(Norm(n)-1) > tol {
		t.Errorf("normal not unit length: %v", n)
	}
	if math.Abs(Dot(n, b.Sub(a))) > tol {
		t.Errorf("normal not perpendicular to edge: %v", n)
	}
	if Dot(n, motion) >= 0 {
		t.Errorf("normal %v does not oppose motion %v", n, motion)
	}
	if !vecNear(n, Vec{X: 0, Y: -1}, tol) {
		t.Errorf("floor normal = %v, want (0, -1)", n)
	}
}

func TestNormalDegenerateEdge(t *testing.T) {
	a := Vec{X: 1, Y: 1}
	if _, ok := Normal(a, a, Vec{Y: 1}); ok {
		t.Error("Normal of a zero-length edge should fail")
	}
}

func TestSameNormalsApprox(t *testing.T) {
	n := Vec{X: 0, Y: -1}
	if !SameNormalsApprox(n, n) {
		t.Error("a normal should match itself")
	}
	nudged := Rotated(n, 0.01)
	if !SameNormalsApprox(n, nudged) {
		t.Error("normals within tolerance should match")
	}
	if SameNormalsApprox(n, n.Scale(-1)) {
		t.Error("opposite normals should not match")
	}
	if SameNormalsApprox(n, Rotated(n, 0.2)) {
		t.Error("normals past tolerance should not match")
	}
}

func TestProject(t *testing.T) {
	got := Project(Vec{X: 3, Y: 4}, Vec{X: 10, Y: 0})
	if !vecNear(got, Vec{X: 3, Y: 0}, tol) {
		t.Errorf("Project = %v, want (3, 0)", got)
	}
}
