package obb

import (
	"errors"
	"fmt"
	"sort"

	"github.com/banshee-data/vehgeom/internal/polygon"
)

// ErrShapeMismatch is returned when element-wise distances are requested for
// collections of different lengths.
var ErrShapeMismatch = errors.New("obb: collection lengths differ")

// Target is a keyed polygon for nearest-target queries.
type Target struct {
	Key     string
	Polygon polygon.Polygon
}

// KeyedDistance pairs a target key with its distance from a reference.
type KeyedDistance struct {
	Key      string
	Distance float64
}

// Engine computes footprint separations using a pluggable polygon distance
// algorithm. The zero value uses polygon.SimpleFeaturesDistance.
type Engine struct {
	Distancer polygon.Distancer
}

var defaultEngine Engine

func (e Engine) distancer() polygon.Distancer {
	if e.Distancer == nil {
		return polygon.SimpleFeaturesDistance{}
	}
	return e.Distancer
}

// PolygonDistance returns the minimum distance between a and b, 0 when they
// touch or overlap.
func (e Engine) PolygonDistance(a, b polygon.Polygon) float64 {
	return e.distancer().Distance(a, b)
}

// DistancePair returns the separation between two footprints.
func (e Engine) DistancePair(a, b polygon.Polygon) float64 {
	return e.PolygonDistance(a, b)
}

// DistanceManyToMany returns element-wise separations a[i]↔b[i] in input
// order. Collections of different lengths yield an error wrapping
// ErrShapeMismatch.
func (e Engine) DistanceManyToMany(a, b []polygon.Polygon) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrShapeMismatch, len(a), len(b))
	}
	d := e.distancer()
	out := make([]float64, len(a))
	for i := range a {
		out[i] = d.Distance(a[i], b[i])
	}
	return out, nil
}

// DistanceOneToMany broadcasts ref against every element of others and
// returns one separation per element, in order.
func (e Engine) DistanceOneToMany(ref polygon.Polygon, others []polygon.Polygon) []float64 {
	d := e.distancer()
	out := make([]float64, len(others))
	for i, o := range others {
		out[i] = d.Distance(ref, o)
	}
	return out
}

// DistancesToTargets returns the distance from ref to every target, sorted
// ascending. Equal distances keep the order in which targets were given.
func (e Engine) DistancesToTargets(ref polygon.Polygon, targets []Target) []KeyedDistance {
	d := e.distancer()
	out := make([]KeyedDistance, len(targets))
	for i, t := range targets {
		out[i] = KeyedDistance{Key: t.Key, Distance: d.Distance(ref, t.Polygon)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	return out
}

// NearestTarget returns the closest target to ref. ok is false when targets
// is empty.
func (e Engine) NearestTarget(ref polygon.Polygon, targets []Target) (nearest KeyedDistance, ok bool) {
	sorted := e.DistancesToTargets(ref, targets)
	if len(sorted) == 0 {
		return KeyedDistance{}, false
	}
	return sorted[0], true
}

// PolygonDistance uses the default engine.
func PolygonDistance(a, b polygon.Polygon) float64 {
	return defaultEngine.PolygonDistance(a, b)
}

// DistancePair uses the default engine.
func DistancePair(a, b polygon.Polygon) float64 {
	return defaultEngine.DistancePair(a, b)
}

// DistanceManyToMany uses the default engine.
func DistanceManyToMany(a, b []polygon.Polygon) ([]float64, error) {
	return defaultEngine.DistanceManyToMany(a, b)
}

// DistanceOneToMany uses the default engine.
func DistanceOneToMany(ref polygon.Polygon, others []polygon.Polygon) []float64 {
	return defaultEngine.DistanceOneToMany(ref, others)
}

// DistancesToTargets uses the default engine.
func DistancesToTargets(ref polygon.Polygon, targets []Target) []KeyedDistance {
	return defaultEngine.DistancesToTargets(ref, targets)
}
