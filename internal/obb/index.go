package obb

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r2"
)

// indexTolerance is the half-size of the rectangle stored for each point.
const indexTolerance = 1e-9

// queryPad returns the slack added around a query box so candidates lying
// exactly on the search boundary survive the R-tree's strict overlap test at
// any coordinate magnitude. The exact squared-distance check still decides
// membership.
func queryPad(origin r2.Vec, reach float64) float64 {
	return 1e-6 * (1 + reach + math.Abs(origin.X) + math.Abs(origin.Y))
}

// candidateEntry wraps a keyed point for R-tree storage.
type candidateEntry struct {
	key   string
	point []float64
	rect  rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *candidateEntry) Bounds() rtreego.Rect {
	return e.rect
}

// CandidateIndex is an R-tree over a candidate set. It answers the same
// question as FilterInRadius but amortises the scan when many origins are
// queried against one snapshot. It is immutable once built and safe for
// concurrent queries.
type CandidateIndex struct {
	tree *rtreego.Rtree
	size int
}

// NewCandidateIndex indexes every point with at least two coordinates.
func NewCandidateIndex(points map[string][]float64) *CandidateIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node
	size := 0
	for key, pt := range points {
		if len(pt) < 2 {
			continue
		}
		entry := &candidateEntry{
			key:   key,
			point: pt,
			rect:  rtreego.Point{pt[0], pt[1]}.ToRect(indexTolerance),
		}
		tree.Insert(entry)
		size++
	}
	return &CandidateIndex{tree: tree, size: size}
}

// Len returns the number of indexed candidates.
func (ci *CandidateIndex) Len() int { return ci.size }

// Query returns the indexed candidates within radius+margin of origin, with
// the same inclusive squared-distance rule as FilterInRadius.
func (ci *CandidateIndex) Query(origin r2.Vec, radius, margin float64) map[string][]float64 {
	candidates := make(map[string][]float64)
	if ci.size == 0 {
		return candidates
	}

	reach := math.Abs(radius + margin)
	half := reach + queryPad(origin, reach)
	side := 2 * half
	bbox, err := rtreego.NewRect(
		rtreego.Point{origin.X - half, origin.Y - half},
		[]float64{side, side},
	)
	if err != nil {
		return candidates
	}

	reachSq := (radius + margin) * (radius + margin)
	for _, item := range ci.tree.SearchIntersect(bbox) {
		entry := item.(*candidateEntry)
		if withinSquared(origin, entry.point, reachSq) {
			candidates[entry.key] = entry.point
		}
	}
	return candidates
}
