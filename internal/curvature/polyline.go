package curvature

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// Polyline is an ordered sequence of points with precomputed cumulative arc
// lengths. It does not modify the points it was built from.
type Polyline struct {
	points     []r2.Vec
	cumulative []float64 // cumulative[i] is the arc length from points[0] to points[i]
}

// NewPolyline precomputes the cumulative arc length at every vertex.
func NewPolyline(points []r2.Vec) *Polyline {
	n := len(points)
	segments := make([]float64, n)
	for i := 1; i < n; i++ {
		segments[i] = r2.Norm(r2.Sub(points[i], points[i-1]))
	}
	cumulative := make([]float64, n)
	if n > 0 {
		floats.CumSum(cumulative, segments)
	}
	return &Polyline{points: points, cumulative: cumulative}
}

// Len returns the number of vertices.
func (pl *Polyline) Len() int { return len(pl.points) }

// Length returns the total arc length.
func (pl *Polyline) Length() float64 {
	if len(pl.cumulative) == 0 {
		return 0
	}
	return pl.cumulative[len(pl.cumulative)-1]
}

// ArcLength returns the cumulative arc length at vertex i.
func (pl *Polyline) ArcLength(i int) float64 { return pl.cumulative[i] }

// IndexAt returns the vertex at which curvature is sampled for the given arc
// length: the first vertex whose cumulative distance reaches position, or
// the last usable vertex when position lies beyond the end, clamped into
// [1, Len-2]. It returns -1 when the polyline has fewer than 3 points.
func (pl *Polyline) IndexAt(position float64) int {
	n := len(pl.points)
	if n < 3 {
		return -1
	}
	idx := sort.SearchFloat64s(pl.cumulative, position)
	if idx >= n {
		idx = n - 2
	}
	if idx < 1 {
		idx = 1
	}
	if idx > n-2 {
		idx = n - 2
	}
	return idx
}

// CurvatureAt returns the signed curvature sampled at arc length position.
// Polylines with fewer than 3 points have curvature 0 everywhere.
func (pl *Polyline) CurvatureAt(position float64) float64 {
	idx := pl.IndexAt(position)
	if idx < 0 {
		return 0
	}
	return Menger(pl.points[idx-1], pl.points[idx], pl.points[idx+1])
}

// AtPosition returns the signed curvature of shape at arc length position
// measured from its first point. Positions past the end sample the final
// valid triple; shapes with fewer than 3 points return 0.
func AtPosition(shape []r2.Vec, position float64) float64 {
	if len(shape) < 3 {
		return 0
	}
	return NewPolyline(shape).CurvatureAt(position)
}
