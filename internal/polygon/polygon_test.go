package polygon

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func square(cx, cy, half float64) Polygon {
	return New(
		r2.Vec{X: cx + half, Y: cy + half},
		r2.Vec{X: cx + half, Y: cy - half},
		r2.Vec{X: cx - half, Y: cy - half},
		r2.Vec{X: cx - half, Y: cy + half},
	)
}

func TestNew_DropsClosingVertex(t *testing.T) {
	p := New(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 0}, r2.Vec{X: 1, Y: 1}, r2.Vec{X: 0, Y: 0})
	assert.Equal(t, 3, p.Len())
}

func TestNew_CopiesInput(t *testing.T) {
	in := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	p := New(in...)
	in[0] = r2.Vec{X: 99, Y: 99}
	assert.Equal(t, r2.Vec{X: 0, Y: 0}, p.Vertices[0])
}

func TestBoundsAndArea(t *testing.T) {
	p := square(2, 3, 1)
	b := p.Bounds()
	assert.Equal(t, r2.Vec{X: 1, Y: 2}, b.Min)
	assert.Equal(t, r2.Vec{X: 3, Y: 4}, b.Max)
	assert.InDelta(t, 4.0, p.Area(), 1e-12)

	assert.Equal(t, r2.Box{}, Polygon{}.Bounds())
	assert.Zero(t, Polygon{}.Area())
}

func TestContains(t *testing.T) {
	p := square(0, 0, 1)

	tests := []struct {
		name string
		pt   r2.Vec
		want bool
	}{
		{"centre", r2.Vec{X: 0, Y: 0}, true},
		{"on edge", r2.Vec{X: 1, Y: 0}, true},
		{"on corner", r2.Vec{X: 1, Y: 1}, true},
		{"outside right", r2.Vec{X: 1.5, Y: 0}, false},
		{"outside diagonal", r2.Vec{X: -2, Y: -2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Contains(tt.pt))
		})
	}
	assert.False(t, Polygon{}.Contains(r2.Vec{}))
}

func TestSimpleFeaturesDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Polygon
		want float64
	}{
		{"identical", square(0, 0, 1), square(0, 0, 1), 0},
		{"overlapping", square(0, 0, 1), square(1, 1, 1), 0},
		{"touching edges", square(0, 0, 1), square(2, 0, 1), 0},
		{"touching corners", square(0, 0, 1), square(2, 2, 1), 0},
		{"contained", square(0, 0, 5), square(1, 1, 1), 0},
		{"separated along x", square(0, 0, 1), square(5, 0, 1), 3},
		{"separated diagonally", square(0, 0, 1), square(4, 4, 1), math.Sqrt(8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SimpleFeaturesDistance{}.Distance(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-12)
			// Symmetric.
			assert.InDelta(t, got, Distance(tt.b, tt.a), 1e-12)
			assert.InDelta(t, bruteForceDistance{}.Distance(tt.a, tt.b), got, 1e-12)
		})
	}
}

func TestDistance_VertexToEdge(t *testing.T) {
	// Diamond whose left corner points at the square's right edge.
	diamond := New(
		r2.Vec{X: 4, Y: 0},
		r2.Vec{X: 5, Y: 1},
		r2.Vec{X: 6, Y: 0},
		r2.Vec{X: 5, Y: -1},
	)
	assert.InDelta(t, 3.0, Distance(square(0, 0, 1), diamond), 1e-12)
}

func TestDistance_Degenerate(t *testing.T) {
	pt := New(r2.Vec{X: 3, Y: 0})
	require.Equal(t, 1, pt.Len())
	assert.InDelta(t, 2.0, Distance(square(0, 0, 1), pt), 1e-12)
	assert.InDelta(t, 0.0, Distance(square(0, 0, 1), New(r2.Vec{X: 0.5, Y: 0.5})), 1e-12)

	seg := New(r2.Vec{X: 3, Y: -5}, r2.Vec{X: 3, Y: 5})
	assert.InDelta(t, 2.0, Distance(square(0, 0, 1), seg), 1e-12)

	assert.True(t, math.IsInf(Distance(Polygon{}, square(0, 0, 1)), 1))
	assert.True(t, math.IsInf(Distance(square(0, 0, 1), Polygon{}), 1))
}

// rotatedRect builds a w×l rectangle centred on c and rotated by theta.
func rotatedRect(c r2.Vec, w, l, theta float64) Polygon {
	rot := r2.NewRotation(theta, r2.Vec{})
	var vs []r2.Vec
	for _, corner := range []r2.Vec{{X: l / 2, Y: w / 2}, {X: l / 2, Y: -w / 2}, {X: -l / 2, Y: -w / 2}, {X: -l / 2, Y: w / 2}} {
		vs = append(vs, r2.Add(c, rot.Rotate(corner)))
	}
	return New(vs...)
}

func TestDistance_MatchesBruteForce(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		a := rotatedRect(r2.Vec{X: rnd.Float64()*40 - 20, Y: rnd.Float64()*40 - 20}, 1+rnd.Float64()*2, 3+rnd.Float64()*4, rnd.Float64()*2*math.Pi)
		b := rotatedRect(r2.Vec{X: rnd.Float64()*40 - 20, Y: rnd.Float64()*40 - 20}, 1+rnd.Float64()*2, 3+rnd.Float64()*4, rnd.Float64()*2*math.Pi)

		want := bruteForceDistance{}.Distance(a, b)
		got := Distance(a, b)
		require.InDelta(t, want, got, 1e-9, "case %d: %v vs %v", i, a.Vertices, b.Vertices)
		require.GreaterOrEqual(t, got, 0.0)
	}
}

func TestDistanceFunc(t *testing.T) {
	var calls int
	var d Distancer = DistanceFunc(func(a, b Polygon) float64 {
		calls++
		return 42
	})
	assert.Equal(t, 42.0, d.Distance(Polygon{}, Polygon{}))
	assert.Equal(t, 1, calls)
}

func TestSegmentsIntersect(t *testing.T) {
	o := r2.Vec{}
	tests := []struct {
		name           string
		p1, q1, p2, q2 r2.Vec
		want           bool
	}{
		{"crossing", o, r2.Vec{X: 2, Y: 2}, r2.Vec{X: 0, Y: 2}, r2.Vec{X: 2, Y: 0}, true},
		{"parallel", o, r2.Vec{X: 2, Y: 0}, r2.Vec{X: 0, Y: 1}, r2.Vec{X: 2, Y: 1}, false},
		{"collinear overlap", o, r2.Vec{X: 2, Y: 0}, r2.Vec{X: 1, Y: 0}, r2.Vec{X: 3, Y: 0}, true},
		{"collinear disjoint", o, r2.Vec{X: 1, Y: 0}, r2.Vec{X: 2, Y: 0}, r2.Vec{X: 3, Y: 0}, false},
		{"shared endpoint", o, r2.Vec{X: 1, Y: 1}, r2.Vec{X: 1, Y: 1}, r2.Vec{X: 2, Y: 0}, true},
		{"T junction", o, r2.Vec{X: 2, Y: 0}, r2.Vec{X: 1, Y: 0}, r2.Vec{X: 1, Y: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, segmentsIntersect(tt.p1, tt.q1, tt.p2, tt.q2))
		})
	}
}
