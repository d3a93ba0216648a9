package obb

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/vehgeom/internal/polygon"
)

// Footprint is a keyed vehicle footprint referenced by its centre pose.
type Footprint struct {
	Key  string
	Pose Pose // Centre-referenced
	Dims Dimensions
}

// FootprintFromFront creates a Footprint from a front-bumper pose.
func FootprintFromFront(key string, front Pose, dims Dimensions) Footprint {
	return Footprint{Key: key, Pose: front.Center(dims.Length), Dims: dims}
}

// Polygon builds the footprint's OBB polygon.
func (f Footprint) Polygon() polygon.Polygon {
	return BuildFromPose(f.Pose, f.Dims)
}

// Center returns the footprint's centre position.
func (f Footprint) Center() r2.Vec { return f.Pose.Position }

// BoundingMargin returns the worst-case bounding radius of the footprint.
func (f Footprint) BoundingMargin() float64 {
	return BoundingMargin(f.Dims.Length, f.Dims.Width)
}

// Targets builds one Target per footprint, preserving order.
func Targets(footprints []Footprint) []Target {
	out := make([]Target, len(footprints))
	for i, f := range footprints {
		out[i] = Target{Key: f.Key, Polygon: f.Polygon()}
	}
	return out
}

// Centers returns a candidate set mapping each footprint key to its centre,
// suitable for FilterInRadius and NewCandidateIndex.
func Centers(footprints []Footprint) map[string][]float64 {
	out := make(map[string][]float64, len(footprints))
	for _, f := range footprints {
		out[f.Key] = []float64{f.Pose.Position.X, f.Pose.Position.Y}
	}
	return out
}
