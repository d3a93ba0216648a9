package polygon

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// bruteForceDistance is an O(n·m) reference used to cross-check the library
// distance: 0 on any edge crossing or containment, otherwise the best
// vertex-to-edge distance in either direction.
type bruteForceDistance struct{}

func (bruteForceDistance) Distance(a, b Polygon) float64 {
	if a.IsEmpty() || b.IsEmpty() {
		return math.Inf(1)
	}
	if edgesIntersect(a, b) || b.Contains(a.Vertices[0]) || a.Contains(b.Vertices[0]) {
		return 0
	}
	return math.Min(verticesToEdges(a, b), verticesToEdges(b, a))
}

func edgesIntersect(a, b Polygon) bool {
	for i := 0; i < a.Len(); i++ {
		a0, a1 := a.Edge(i)
		for j := 0; j < b.Len(); j++ {
			b0, b1 := b.Edge(j)
			if segmentsIntersect(a0, a1, b0, b1) {
				return true
			}
		}
	}
	return false
}

func verticesToEdges(from, to Polygon) float64 {
	best := math.Inf(1)
	for _, v := range from.Vertices {
		for j := 0; j < to.Len(); j++ {
			e0, e1 := to.Edge(j)
			best = math.Min(best, pointSegmentDistance(v, e0, e1))
		}
	}
	return best
}

// orientation is the sign of the turn a->b->c.
func orientation(a, b, c r2.Vec) int {
	v := r2.Cross(r2.Sub(b, a), r2.Sub(c, a))
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func onSegment(a, q, b r2.Vec) bool {
	return q.X <= math.Max(a.X, b.X) && q.X >= math.Min(a.X, b.X) &&
		q.Y <= math.Max(a.Y, b.Y) && q.Y >= math.Min(a.Y, b.Y)
}

func segmentsIntersect(p1, q1, p2, q2 r2.Vec) bool {
	o1 := orientation(p1, q1, p2)
	o2 := orientation(p1, q1, q2)
	o3 := orientation(p2, q2, p1)
	o4 := orientation(p2, q2, q1)
	if o1 != o2 && o3 != o4 {
		return true
	}
	return (o1 == 0 && onSegment(p1, p2, q1)) ||
		(o2 == 0 && onSegment(p1, q2, q1)) ||
		(o3 == 0 && onSegment(p2, p1, q2)) ||
		(o4 == 0 && onSegment(p2, q1, q2))
}
