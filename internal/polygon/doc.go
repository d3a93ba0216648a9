// Package polygon provides the planar polygon abstraction used by the
// footprint geometry packages.
//
// Responsibilities: ordered-vertex polygons, axis-aligned bounds,
// point containment, and the minimum-distance query between two
// polygons. Key types: Polygon, Distancer, SimpleFeaturesDistance.
//
// Distance is exposed through the Distancer interface so a different
// algorithm (GJK, SAT) can be substituted by callers without touching the
// footprint code. No logging or I/O is allowed in this package.
package polygon
