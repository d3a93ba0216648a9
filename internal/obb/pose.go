package obb

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/vehgeom/internal/units"
)

// Pose is a planar position with a heading in degrees.
type Pose struct {
	Position   r2.Vec
	HeadingDeg float64
}

// Center treats p as a front-bumper pose and returns the centre pose of a
// vehicle of the given length.
func (p Pose) Center(length float64) Pose {
	return Pose{Position: CenterFromFront(p.Position, length, p.HeadingDeg), HeadingDeg: p.HeadingDeg}
}

// Front treats p as a centre pose and returns the front-bumper pose of a
// vehicle of the given length.
func (p Pose) Front(length float64) Pose {
	return Pose{Position: FrontFromCenter(p.Position, length, p.HeadingDeg), HeadingDeg: p.HeadingDeg}
}

// headingVector returns the unit vector along headingDeg.
func headingVector(headingDeg float64) r2.Vec {
	rad := units.DegToRad(headingDeg)
	return r2.Vec{X: math.Cos(rad), Y: math.Sin(rad)}
}

// CenterFromFront converts a front-bumper reference point into the vehicle's
// geometric centre by stepping back half the length along the heading.
func CenterFromFront(front r2.Vec, length, headingDeg float64) r2.Vec {
	return r2.Sub(front, r2.Scale(length/2, headingVector(headingDeg)))
}

// FrontFromCenter is the inverse of CenterFromFront.
func FrontFromCenter(center r2.Vec, length, headingDeg float64) r2.Vec {
	return r2.Add(center, r2.Scale(length/2, headingVector(headingDeg)))
}
