package obb

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/vehgeom/internal/polygon"
	"github.com/banshee-data/vehgeom/internal/units"
)

// Corner indices into a footprint polygon's vertex list.
const (
	FrontLeft = iota
	FrontRight
	RearRight
	RearLeft

	// CornerCount is the number of vertices in every footprint polygon.
	CornerCount
)

// Dimensions are the footprint extents in metres.
type Dimensions struct {
	Width  float64 // Lateral extent, perpendicular to heading
	Length float64 // Longitudinal extent, along heading
}

// Build returns the footprint polygon of a box centred on center with the
// given dimensions, rotated by headingDeg.
//
// Body-frame corners are (±length/2, ±width/2) in the order front-left,
// front-right, rear-right, rear-left. The order does not depend on the sign
// of the heading.
func Build(center r2.Vec, dims Dimensions, headingDeg float64) polygon.Polygon {
	hl, hw := dims.Length/2, dims.Width/2
	body := [CornerCount]r2.Vec{
		FrontLeft:  {X: hl, Y: hw},
		FrontRight: {X: hl, Y: -hw},
		RearRight:  {X: -hl, Y: -hw},
		RearLeft:   {X: -hl, Y: hw},
	}

	rot := r2.NewRotation(units.DegToRad(headingDeg), r2.Vec{})
	vertices := make([]r2.Vec, CornerCount)
	for i, c := range body {
		vertices[i] = r2.Add(rot.Rotate(c), center)
	}
	return polygon.Polygon{Vertices: vertices}
}

// BuildFromPose builds the footprint for a centre-referenced pose.
func BuildFromPose(center Pose, dims Dimensions) polygon.Polygon {
	return Build(center.Position, dims, center.HeadingDeg)
}

// BuildFromFront builds the footprint for a front-bumper-referenced pose,
// the convention used by traffic simulators.
func BuildFromFront(front Pose, dims Dimensions) polygon.Polygon {
	return BuildFromPose(front.Center(dims.Length), dims)
}

// BoundingMargin returns half the footprint diagonal: the radius of a circle
// around the centre that contains the footprint at any heading. Add it to a
// pre-filter radius so that no footprint within range is missed.
func BoundingMargin(length, width float64) float64 {
	return math.Sqrt(length*length+width*width) / 2
}
