// Package curvature computes signed curvature along planar polylines.
//
// Curvature at a vertex is the Menger curvature of the triangle it forms
// with its neighbours: positive for a left (counter-clockwise) turn,
// negative for a right turn, and exactly zero for straight or degenerate
// samples. Arc-length lookups use prefix sums and a binary search.
package curvature
