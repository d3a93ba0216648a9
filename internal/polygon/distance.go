package polygon

import (
	"math"

	"github.com/peterstace/simplefeatures/geom"
)

// Distancer answers the minimum Euclidean distance between two polygons.
// Implementations must return 0 when the polygons touch or overlap and must
// never return a negative value.
type Distancer interface {
	Distance(a, b Polygon) float64
}

// DistanceFunc adapts a plain function to the Distancer interface.
type DistanceFunc func(a, b Polygon) float64

// Distance calls f(a, b).
func (f DistanceFunc) Distance(a, b Polygon) float64 { return f(a, b) }

// SimpleFeaturesDistance answers distances with the simplefeatures geometry
// library. Touching or overlapping polygons, including one nested inside the
// other, are 0 apart.
type SimpleFeaturesDistance struct{}

// Distance implements Distancer. An empty polygon is infinitely far from
// everything.
func (SimpleFeaturesDistance) Distance(a, b Polygon) float64 {
	d, ok := geom.Distance(a.Geometry(), b.Geometry())
	if !ok {
		return math.Inf(1)
	}
	return d
}

// Distance is a convenience wrapper around SimpleFeaturesDistance.
func Distance(a, b Polygon) float64 {
	return SimpleFeaturesDistance{}.Distance(a, b)
}

// Geometry converts p to a simplefeatures geometry. Rings with fewer than
// three vertices degrade to a point or a line string so they still measure
// correctly; an empty polygon becomes the empty geometry.
func (p Polygon) Geometry() geom.Geometry {
	switch n := len(p.Vertices); n {
	case 0:
		return geom.Geometry{}
	case 1:
		v := p.Vertices[0]
		return geom.XY{X: v.X, Y: v.Y}.AsPoint().AsGeometry()
	case 2:
		return geom.NewLineString(p.sequence(false)).AsGeometry()
	default:
		ring := geom.NewLineString(p.sequence(true))
		return geom.NewPolygon([]geom.LineString{ring}).AsGeometry()
	}
}

func (p Polygon) sequence(closed bool) geom.Sequence {
	coords := make([]float64, 0, 2*len(p.Vertices)+2)
	for _, v := range p.Vertices {
		coords = append(coords, v.X, v.Y)
	}
	if closed {
		coords = append(coords, p.Vertices[0].X, p.Vertices[0].Y)
	}
	return geom.NewSequence(coords, geom.DimXY)
}
