package polygon

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Polygon is a closed planar ring stored as an ordered list of vertices.
// The closing edge from the last vertex back to the first is implicit.
type Polygon struct {
	Vertices []r2.Vec
}

// New copies the given vertices into a Polygon. A trailing vertex equal to
// the first one (an explicitly closed ring) is dropped.
func New(vertices ...r2.Vec) Polygon {
	n := len(vertices)
	if n > 1 && vertices[0] == vertices[n-1] {
		n--
	}
	out := make([]r2.Vec, n)
	copy(out, vertices[:n])
	return Polygon{Vertices: out}
}

// Len returns the number of vertices.
func (p Polygon) Len() int { return len(p.Vertices) }

// IsEmpty reports whether the polygon has no vertices.
func (p Polygon) IsEmpty() bool { return len(p.Vertices) == 0 }

// Edge returns the endpoints of edge i, which runs from vertex i to vertex
// i+1 (wrapping to vertex 0).
func (p Polygon) Edge(i int) (r2.Vec, r2.Vec) {
	n := len(p.Vertices)
	return p.Vertices[i], p.Vertices[(i+1)%n]
}

// Bounds returns the axis-aligned bounding box of the polygon. The box of an
// empty polygon is the zero box.
func (p Polygon) Bounds() r2.Box {
	if len(p.Vertices) == 0 {
		return r2.Box{}
	}
	b := r2.Box{Min: p.Vertices[0], Max: p.Vertices[0]}
	for _, v := range p.Vertices[1:] {
		b.Min.X = math.Min(b.Min.X, v.X)
		b.Min.Y = math.Min(b.Min.Y, v.Y)
		b.Max.X = math.Max(b.Max.X, v.X)
		b.Max.Y = math.Max(b.Max.Y, v.Y)
	}
	return b
}

// Area returns the absolute area enclosed by the ring (shoelace formula).
func (p Polygon) Area() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	var twice float64
	for i := 0; i < n; i++ {
		a, b := p.Edge(i)
		twice += r2.Cross(a, b)
	}
	return math.Abs(twice) / 2
}

// Contains reports whether pt lies inside the polygon or on its boundary.
func (p Polygon) Contains(pt r2.Vec) bool {
	n := len(p.Vertices)
	if n == 0 {
		return false
	}
	inside := false
	for i := 0; i < n; i++ {
		a, b := p.Edge(i)
		if pointSegmentDistance(pt, a, b) == 0 {
			return true
		}
		// Even-odd ray cast towards +x.
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			xCross := a.X + (pt.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if pt.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// pointSegmentDistance returns the distance from p to the closed segment ab.
func pointSegmentDistance(p, a, b r2.Vec) float64 {
	ab := r2.Sub(b, a)
	lenSq := r2.Norm2(ab)
	if lenSq == 0 {
		return r2.Norm(r2.Sub(p, a))
	}
	t := r2.Dot(r2.Sub(p, a), ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	closest := r2.Add(a, r2.Scale(t, ab))
	return r2.Norm(r2.Sub(p, closest))
}
