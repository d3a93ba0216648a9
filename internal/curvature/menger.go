package curvature

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Epsilon is the smallest side-length product treated as a real triangle.
// Below it the points are considered coincident and curvature is 0.
const Epsilon = 1e-10

// Menger returns the signed curvature at p2 of the path p1→p2→p3 (1/m).
//
// The magnitude is 4·Area/(a·b·c), the reciprocal of the circumradius, with
// the area from Heron's formula. Coincident or collinear points yield 0,
// never NaN. The sign follows the z component of (p2-p1)×(p3-p2): a right
// turn is negative, a left turn or straight line non-negative.
func Menger(p1, p2, p3 r2.Vec) float64 {
	a := r2.Norm(r2.Sub(p2, p1))
	b := r2.Norm(r2.Sub(p3, p2))
	c := r2.Norm(r2.Sub(p3, p1))

	product := a * b * c
	if product < Epsilon {
		return 0
	}

	s := (a + b + c) / 2
	areaSq := s * (s - a) * (s - b) * (s - c)
	if !(areaSq > 0) {
		return 0
	}

	k := 4 * math.Sqrt(areaSq) / product
	if r2.Cross(r2.Sub(p2, p1), r2.Sub(p3, p2)) < 0 {
		return -k
	}
	return k
}
