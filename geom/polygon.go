package geom

import (
	"fmt"
	"log/slog"
	"math"
)

// Polygon is an ordered, cyclic sequence of points: the last point connects
// back to the first. Winding order is not prescribed; normals are validated
// against containment instead.
type Polygon []Vec

// NextIndex returns the index following i, wrapping to 0 at the end.
func (p Polygon) NextIndex(i int) int {
	if i == len(p)-1 {
		return 0
	}
	return i + 1
}

// PriorIndex returns the index preceding i, wrapping to the last point.
func (p Polygon) PriorIndex(i int) int {
	if i == 0 {
		return len(p) - 1
	}
	return i - 1
}

// FindVertex returns the index of a vertex within tol of pos, or false if
// pos does not coincide with any vertex.
func (p Polygon) FindVertex(pos Vec, tol float64) (int, bool) {
	best := -1
	bestDist := tol * tol
	for i, v := range p {
		if d := Norm2(v.Sub(pos)); d <= bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// Contains reports whether pos is inside the polygon, using an even-odd
// ray cast along +X.
func (p Polygon) Contains(pos Vec) bool {
	inside := false
	for i := range p {
		a := p[i]
		b := p[p.NextIndex(i)]
		if (a.Y > pos.Y) != (b.Y > pos.Y) {
			x := a.X + (pos.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if pos.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// ClosestBoundaryPoint returns the point on the polygon's boundary nearest
// to pos.
func (p Polygon) ClosestBoundaryPoint(pos Vec) Vec {
	best := Vec{}
	bestDist := math.Inf(1)
	for i := range p {
		c := closestOnSegment(pos, p[i], p[p.NextIndex(i)])
		if d := Norm2(c.Sub(pos)); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

func closestOnSegment(pos, a, b Vec) Vec {
	ab := b.Sub(a)
	n2 := Norm2(ab)
	if n2 == 0 {
		return a
	}
	t := Dot(pos.Sub(a), ab) / n2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t))
}

// signedArea returns twice the signed area; the sign encodes winding.
func (p Polygon) signedArea() float64 {
	var sum float64
	for i := range p {
		a := p[i]
		b := p[p.NextIndex(i)]
		sum += Cross(a, b)
	}
	return sum
}

// reversed returns the polygon with the opposite winding.
func (p Polygon) reversed() Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// duplicatePointDistSq is the squared distance below which two adjacent
// polygon points are treated as the same point. Tile data does not always
// line up perfectly.
const duplicatePointDistSq = 1.0

// Smooth removes unnecessary points from the polygon: first adjacent points
// that are effectively the same point, then shared points of consecutive
// edges whose normals are approximately equal, which collapses tile seams
// into one continuous surface. Not exhaustive for all hypothetical polygons.
func (p Polygon) Smooth() Polygon {
	// First pass: drop near-duplicate points so the second pass does not
	// have to consider zero-length edges.
	var remove []int
	for i := range p {
		i2 := p.NextIndex(i)
		if Norm2(p[i].Sub(p[i2])) < duplicatePointDistSq {
			remove = append(remove, i2)
		}
	}
	out := p.without(remove)

	remove = remove[:0]
	for i := range out {
		i2 := out.NextIndex(i)
		ab, ok := FindSurface(out, i, i2)
		if !ok {
			continue
		}
		i3 := out.NextIndex(i2)
		bc, ok := FindSurface(out, i2, i3)
		if !ok {
			continue
		}
		if SameNormalsApprox(ab.Normal, bc.Normal) {
			remove = append(remove, i2)
		}
	}
	return out.without(remove)
}

// without returns a copy of the polygon with the given indices removed.
func (p Polygon) without(indices []int) Polygon {
	if len(indices) == 0 {
		return p
	}
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	out := make(Polygon, 0, len(p))
	for i, v := range p {
		if !drop[i] {
			out = append(out, v)
		}
	}
	return out
}

// mergeEps is the coordinate tolerance when matching seam vertices during a
// polygon union. Tile polygons on both sides of a seam are produced by the
// same grid arithmetic, so matching points differ by float error at most.
const mergeEps = 1e-4

// MergePolygons computes the union of two simple polygons whose interiors do
// not overlap but whose boundaries may share collinear stretches, which is
// the tile-seam case. When the polygons do not connect, both are returned
// unchanged; callers treat more than one result as "neighbor is
// disconnected" and keep their original polygon.
func MergePolygons(p, q Polygon) []Polygon {
	if len(p) < 3 || len(q) < 3 {
		return []Polygon{p, q}
	}
	// The cancellation below requires consistent winding.
	if p.signedArea()*q.signedArea() < 0 {
		q = q.reversed()
	}
	ps := splitAtSharedVertices(p, q)
	qs := splitAtSharedVertices(q, p)

	type dirEdge struct {
		a, b Vec
		used bool
	}
	var edges []dirEdge
	for i := range ps {
		edges = append(edges, dirEdge{a: ps[i], b: ps[ps.NextIndex(i)]})
	}
	for i := range qs {
		edges = append(edges, dirEdge{a: qs[i], b: qs[qs.NextIndex(i)]})
	}

	// Edges traversed in both directions lie on the shared boundary and
	// cancel out of the union.
	byKey := make(map[string]int, len(edges))
	for i := range edges {
		k := edgeKey(edges[i].a, edges[i].b)
		rk := edgeKey(edges[i].b, edges[i].a)
		if j, ok := byKey[rk]; ok && !edges[j].used {
			edges[i].used = true
			edges[j].used = true
			delete(byKey, rk)
			continue
		}
		byKey[k] = i
	}

	// Chain the surviving directed edges into closed loops.
	starts := make(map[string][]int)
	for i := range edges {
		if !edges[i].used {
			starts[pointKey(edges[i].a)] = append(starts[pointKey(edges[i].a)], i)
		}
	}
	var loops []Polygon
	for i := range edges {
		if edges[i].used {
			continue
		}
		var loop Polygon
		j := i
		for !edges[j].used {
			edges[j].used = true
			loop = append(loop, edges[j].a)
			next := -1
			for _, k := range starts[pointKey(edges[j].b)] {
				if !edges[k].used {
					next = k
					break
				}
			}
			if next < 0 {
				break
			}
			j = next
		}
		if len(loop) >= 3 {
			loops = append(loops, loop)
		}
	}
	if len(loops) == 0 {
		slog.Error("polygon merge produced no loops", "p", len(p), "q", len(q))
		return []Polygon{p, q}
	}
	return loops
}

// splitAtSharedVertices inserts the other polygon's vertices into p wherever
// they lie on one of p's edges, so shared boundary stretches become
// identical vertex runs on both polygons.
func splitAtSharedVertices(p, other Polygon) Polygon {
	out := make(Polygon, 0, len(p))
	for i := range p {
		a := p[i]
		b := p[p.NextIndex(i)]
		out = append(out, a)

		ab := b.Sub(a)
		n2 := Norm2(ab)
		if n2 == 0 {
			continue
		}
		type split struct {
			t float64
			v Vec
		}
		var splits []split
		for _, v := range other {
			if Norm(v.Sub(a)) < mergeEps || Norm(v.Sub(b)) < mergeEps {
				continue
			}
			c := closestOnSegment(v, a, b)
			if Norm(c.Sub(v)) >= mergeEps {
				continue
			}
			splits = append(splits, split{t: Dot(v.Sub(a), ab) / n2, v: v})
		}
		// Insertion sort; edges carry at most a few splits.
		for j := 1; j < len(splits); j++ {
			for k := j; k > 0 && splits[k].t < splits[k-1].t; k-- {
				splits[k], splits[k-1] = splits[k-1], splits[k]
			}
		}
		for _, s := range splits {
			out = append(out, s.v)
		}
	}
	return out
}

func pointKey(v Vec) string {
	return fmt.Sprintf("%d,%d", int64(math.Round(v.X/mergeEps)), int64(math.Round(v.Y/mergeEps)))
}

func edgeKey(a, b Vec) string {
	return pointKey(a) + ">" + pointKey(b)
}
