// Package units provides shared angle conversions and decimal rounding
// helpers for the footprint geometry packages.
package units

import (
	"math"
	"strconv"
	"strings"
)

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// NormalizeAngle wraps an angle in degrees into [0, 360).
// Negative inputs wrap the same way a floored modulo does, so -90 becomes 270.
func NormalizeAngle(deg float64) float64 {
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	// -tiny + 360 rounds to exactly 360.
	if m >= 360 {
		m = 0
	}
	return m
}

// NormalizeAngleHalf wraps an angle in degrees into [-180, 180).
func NormalizeAngleHalf(deg float64) float64 {
	return NormalizeAngle(deg+180) - 180
}

// DecimalPlaces returns the number of significant decimal places in x,
// considering at most 10 places. DecimalPlaces(0.05) is 2 and
// DecimalPlaces(1.0) is 0.
func DecimalPlaces(x float64) int {
	s := strings.TrimRight(strconv.FormatFloat(x, 'f', 10, 64), "0")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// RoundToDecimalPlaces rounds value to the number of decimal places carried
// by reference. It cleans up accumulated error such as 3*0.05 giving
// 0.15000000000000002.
func RoundToDecimalPlaces(value, reference float64) float64 {
	places := DecimalPlaces(reference)
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(value, 'f', places, 64), 64)
	if err != nil {
		return value
	}
	return rounded
}
