package obb

import "gonum.org/v1/gonum/spatial/r2"

// FilterInRadius returns the subset of points whose planar distance from
// origin is at most radius+margin. Only the first two coordinates of each
// point are used; points with fewer than two cannot be placed and are left
// out.
//
// The comparison is on squared distances so no square root is taken per
// candidate. This is a coarse pre-filter ahead of exact polygon distance;
// pad margin with BoundingMargin to avoid dropping footprints whose centre is
// out of range but whose corners are not. The boundary is inclusive.
func FilterInRadius(origin r2.Vec, points map[string][]float64, radius, margin float64) map[string][]float64 {
	reachSq := (radius + margin) * (radius + margin)
	candidates := make(map[string][]float64)
	for key, pt := range points {
		if withinSquared(origin, pt, reachSq) {
			candidates[key] = pt
		}
	}
	return candidates
}

func withinSquared(origin r2.Vec, pt []float64, reachSq float64) bool {
	if len(pt) < 2 {
		return false
	}
	dx := pt[0] - origin.X
	dy := pt[1] - origin.Y
	return dx*dx+dy*dy <= reachSq
}
