package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/vehgeom/internal/config"
	"github.com/banshee-data/vehgeom/internal/monitoring"
	"github.com/banshee-data/vehgeom/internal/obb"
	"github.com/banshee-data/vehgeom/internal/timeutil"
)

func init() {
	monitoring.SetLogger(nil)
}

const convoyJSON = `{
  "name": "convoy",
  "vehicles": [
    {"id": "ego", "x": 0, "y": 0, "heading": 0, "width": 2, "length": 5, "reference": "center"},
    {"id": "a", "x": 10, "y": 0, "heading": 0, "width": 2, "length": 5, "reference": "center"},
    {"id": "b", "x": 5, "y": 0, "heading": 0, "width": 2, "length": 5, "reference": "center"},
    {"id": "far", "x": 500, "y": 0, "heading": 0, "width": 2, "length": 5, "reference": "center"}
  ],
  "path": [[0, 0], [10, 0], [20, 0], [30, 10], [40, 0]],
  "egos": ["ego"]
}`

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(convoyJSON), nil)
	require.NoError(t, err)

	assert.Equal(t, "convoy", sc.Name)
	require.Len(t, sc.Footprints, 4)
	assert.Equal(t, []string{"ego"}, sc.Egos)
	assert.Len(t, sc.Path, 5)

	b, ok := sc.Footprint("b")
	require.True(t, ok)
	assert.Equal(t, r2.Vec{X: 5, Y: 0}, b.Center())
	assert.Equal(t, obb.Dimensions{Width: 2, Length: 5}, b.Dims)

	_, ok = sc.Footprint("nope")
	assert.False(t, ok)
}

func TestParse_DefaultsAndFrontReference(t *testing.T) {
	cfg := config.DefaultAnalysisConfig()
	sc, err := Parse([]byte(`{"vehicles": [{"x": 100, "y": 50, "heading": 90}, {"x": 0, "y": 0, "heading": -90}]}`), cfg)
	require.NoError(t, err)
	require.Len(t, sc.Footprints, 2)

	fp := sc.Footprints[0]
	_, err = uuid.Parse(fp.Key)
	assert.NoError(t, err, "generated id should be a UUID")
	assert.Equal(t, obb.Dimensions{Width: config.DefaultWidth, Length: config.DefaultLength}, fp.Dims)

	// Front-bumper pose is converted to the centre.
	assert.InDelta(t, 100, fp.Center().X, 1e-9)
	assert.InDelta(t, 50-config.DefaultLength/2, fp.Center().Y, 1e-9)

	// Headings are normalised into [0, 360).
	assert.InDelta(t, 270, sc.Footprints[1].Pose.HeadingDeg, 1e-9)

	// Every vehicle is an ego when none are listed.
	assert.Equal(t, []string{sc.Footprints[0].Key, sc.Footprints[1].Key}, sc.Egos)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"bad json", `{`, "failed to parse scenario JSON"},
		{"duplicate id", `{"vehicles": [{"id": "x"}, {"id": "x"}]}`, `duplicate id "x"`},
		{"bad reference", `{"vehicles": [{"id": "x", "reference": "rear"}]}`, `unknown reference "rear"`},
		{"zero width", `{"vehicles": [{"id": "x", "width": 0}]}`, "dimensions must be positive"},
		{"short path point", `{"vehicles": [], "path": [[1, 2], [3]]}`, "path point 1"},
		{"unknown ego", `{"vehicles": [{"id": "x"}], "egos": ["y"]}`, `unknown ego vehicle "y"`},
		{"duplicate ego", `{"vehicles": [{"id": "a"}, {"id": "b"}], "egos": ["a", "a"]}`, `duplicate ego "a"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "snapshot.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"vehicles": [{"id": "solo"}]}`), 0644))

	sc, err := Load(p, nil)
	require.NoError(t, err)
	assert.Equal(t, "snapshot.json", sc.Name)

	_, err = Load(filepath.Join(dir, "missing.json"), nil)
	assert.ErrorContains(t, err, "failed to read scenario file")
}

func TestAnalyzer_Run(t *testing.T) {
	sc, err := Parse([]byte(convoyJSON), nil)
	require.NoError(t, err)

	radius := 20.0
	cfg := config.DefaultAnalysisConfig()
	cfg.SearchRadius = &radius

	for _, useIndex := range []bool{false, true} {
		cfg.UseSpatialIndex = &useIndex

		res, err := NewAnalyzer(cfg, obb.Engine{}).Run(context.Background(), sc)
		require.NoError(t, err)

		_, err = uuid.Parse(res.RunID)
		assert.NoError(t, err)
		assert.Equal(t, "convoy", res.Scenario)
		require.Len(t, res.Egos, 1)

		ego := res.Egos[0]
		assert.Equal(t, "ego", ego.Ego)
		assert.Equal(t, 2, ego.Candidates, "index=%v", useIndex)
		require.Len(t, ego.Neighbors, 2)
		assert.Equal(t, "b", ego.Neighbors[0].Key)
		assert.InDelta(t, 0.0, ego.Neighbors[0].Distance, 1e-12)
		assert.Equal(t, "a", ego.Neighbors[1].Key)
		assert.InDelta(t, 5.0, ego.Neighbors[1].Distance, 1e-12)

		assert.InDelta(t, 20+2*14.142135623730951, res.PathLength, 1e-9)
		require.Len(t, res.VertexCurvature, 5)
		assert.Equal(t, 0.0, res.VertexCurvature[1].Curvature)
		assert.Greater(t, res.VertexCurvature[2].Curvature, 0.0)
		assert.Less(t, res.VertexCurvature[3].Curvature, 0.0)
		assert.NotEmpty(t, res.Curvature)
		assert.Equal(t, len(res.Curvature), res.CurvatureSummary.Count)
		assert.Less(t, res.CurvatureSummary.Min, 0.0)
		assert.Greater(t, res.CurvatureSummary.Max, 0.0)
	}
}

func TestAnalyzer_BoundingMarginKeepsCornerReach(t *testing.T) {
	// The neighbour's centre is 12m away, its footprint only 7m away.
	body := `{"vehicles": [
    {"id": "ego", "x": 0, "y": 0, "width": 2, "length": 5, "reference": "center"},
    {"id": "n", "x": 12, "y": 0, "width": 2, "length": 5, "reference": "center"}
  ], "egos": ["ego"]}`
	sc, err := Parse([]byte(body), nil)
	require.NoError(t, err)

	radius := 10.0
	off := false
	cfg := &config.AnalysisConfig{SearchRadius: &radius, UseBoundingMargin: &off}
	res, err := NewAnalyzer(cfg, obb.Engine{}).Run(context.Background(), sc)
	require.NoError(t, err)
	assert.Empty(t, res.Egos[0].Neighbors)

	on := true
	cfg.UseBoundingMargin = &on
	res, err = NewAnalyzer(cfg, obb.Engine{}).Run(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, res.Egos[0].Neighbors, 1)
	assert.InDelta(t, 7.0, res.Egos[0].Neighbors[0].Distance, 1e-12)
}

func TestAnalyzer_AllEgosKeepOrder(t *testing.T) {
	sc, err := Parse([]byte(`{"vehicles": [
    {"id": "v1", "x": 0, "y": 0, "reference": "center"},
    {"id": "v2", "x": 8, "y": 0, "reference": "center"},
    {"id": "v3", "x": 16, "y": 0, "reference": "center"}
  ]}`), nil)
	require.NoError(t, err)

	workers := 1
	res, err := NewAnalyzer(&config.AnalysisConfig{Workers: &workers}, obb.Engine{}).Run(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, res.Egos, 3)
	for i, want := range []string{"v1", "v2", "v3"} {
		assert.Equal(t, want, res.Egos[i].Ego)
	}
	// v2 sits between the other two at equal distance; file order breaks the tie.
	require.Len(t, res.Egos[1].Neighbors, 2)
	assert.Equal(t, "v1", res.Egos[1].Neighbors[0].Key)
	assert.Equal(t, "v3", res.Egos[1].Neighbors[1].Key)
	assert.Empty(t, res.VertexCurvature)
}

func TestAnalyzer_Cancelled(t *testing.T) {
	sc, err := Parse([]byte(convoyJSON), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewAnalyzer(nil, obb.Engine{}).Run(ctx, sc)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewAnalyzer(nil, obb.Engine{}).Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestAnalyzer_UsesClock(t *testing.T) {
	sc, err := Parse([]byte(convoyJSON), nil)
	require.NoError(t, err)

	stamp := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	res, err := NewAnalyzer(nil, obb.Engine{}).WithClock(timeutil.NewMockClock(stamp)).Run(context.Background(), sc)
	require.NoError(t, err)
	assert.True(t, res.CreatedAt.Equal(stamp))
	assert.Equal(t, 4, res.VehicleCount)
	assert.Equal(t, 50.0, res.SearchRadius)
}
