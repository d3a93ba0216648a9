package curvature

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"
)

// Sample is the curvature at one polyline vertex.
type Sample struct {
	Index     int
	ArcLength float64 // metres from the first vertex
	Curvature float64 // 1/m, signed
}

// Profile returns one Sample per vertex of shape. Interior vertices use the
// Menger curvature of their neighbours; the two endpoints have no full
// triple and report 0.
func Profile(shape []r2.Vec) []Sample {
	pl := NewPolyline(shape)
	out := make([]Sample, pl.Len())
	for i := range out {
		out[i] = Sample{Index: i, ArcLength: pl.ArcLength(i)}
		if i > 0 && i < pl.Len()-1 {
			out[i].Curvature = Menger(shape[i-1], shape[i], shape[i+1])
		}
	}
	return out
}

// Resample samples curvature at regular arc-length steps from 0 to the end
// of shape inclusive. Each sample's Index is the vertex the curvature was
// taken at, -1 for shapes too short to have one. A non-positive step returns
// nil.
func Resample(shape []r2.Vec, step float64) []Sample {
	if step <= 0 {
		return nil
	}
	pl := NewPolyline(shape)
	total := pl.Length()
	// Positions are i*step rather than a running sum, so a length that is
	// an exact multiple of step still gets its final sample.
	n := int(math.Floor(total/step + 1e-9))
	out := make([]Sample, 0, n+1)
	for i := 0; i <= n; i++ {
		s := math.Min(float64(i)*step, total)
		out = append(out, Sample{Index: pl.IndexAt(s), ArcLength: s, Curvature: pl.CurvatureAt(s)})
	}
	return out
}

// Summary holds aggregate curvature statistics over a set of samples.
type Summary struct {
	Count   int
	Min     float64 // most negative (sharpest right turn)
	Max     float64 // most positive (sharpest left turn)
	MaxAbs  float64
	MeanAbs float64
}

// Summarize aggregates samples. An empty input yields the zero Summary.
func Summarize(samples []Sample) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	values := make([]float64, len(samples))
	abs := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Curvature
		abs[i] = math.Abs(s.Curvature)
	}
	return Summary{
		Count:   len(samples),
		Min:     floats.Min(values),
		Max:     floats.Max(values),
		MaxAbs:  floats.Max(abs),
		MeanAbs: stat.Mean(abs, nil),
	}
}

// Radius returns the turning radius for curvature k, +Inf for a straight
// line.
func Radius(k float64) float64 {
	if k == 0 {
		return math.Inf(1)
	}
	return 1 / math.Abs(k)
}
