package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/vehgeom/internal/config"
	"github.com/banshee-data/vehgeom/internal/curvature"
	"github.com/banshee-data/vehgeom/internal/monitoring"
	"github.com/banshee-data/vehgeom/internal/obb"
	"github.com/banshee-data/vehgeom/internal/polygon"
	"github.com/banshee-data/vehgeom/internal/timeutil"
)

// EgoResult lists the footprints within the search radius of one ego
// vehicle, nearest first.
type EgoResult struct {
	Ego        string
	Candidates int // survivors of the radius pre-filter, ego excluded
	Neighbors  []obb.KeyedDistance
}

// Result is the outcome of one analysis run.
type Result struct {
	RunID            string
	Scenario         string
	CreatedAt        time.Time
	SearchRadius     float64
	VehicleCount     int
	Egos             []EgoResult // in scenario ego order
	PathLength       float64
	VertexCurvature  []curvature.Sample
	Curvature        []curvature.Sample // resampled at the configured step
	CurvatureSummary curvature.Summary
}

// Analyzer runs proximity and curvature analysis with a fixed config.
type Analyzer struct {
	cfg    *config.AnalysisConfig
	engine obb.Engine
	clock  timeutil.Clock
}

// NewAnalyzer creates an Analyzer. A nil cfg uses built-in defaults.
func NewAnalyzer(cfg *config.AnalysisConfig, engine obb.Engine) *Analyzer {
	if cfg == nil {
		cfg = config.EmptyAnalysisConfig()
	}
	return &Analyzer{cfg: cfg, engine: engine, clock: timeutil.RealClock{}}
}

// WithClock sets the clock used to stamp and time runs.
func (a *Analyzer) WithClock(c timeutil.Clock) *Analyzer {
	a.clock = c
	return a
}

// Run analyses sc. Ego vehicles are evaluated concurrently, bounded by the
// configured worker count; results keep scenario ego order.
func (a *Analyzer) Run(ctx context.Context, sc *Scenario) (*Result, error) {
	if sc == nil {
		return nil, fmt.Errorf("nil scenario")
	}

	res := &Result{
		RunID:        uuid.NewString(),
		Scenario:     sc.Name,
		CreatedAt:    a.clock.Now(),
		SearchRadius: a.cfg.GetSearchRadius(),
		VehicleCount: len(sc.Footprints),
		Egos:         make([]EgoResult, len(sc.Egos)),
	}

	monitoring.Logf("scenario %q: %d vehicles, %d egos, radius %.1fm (run %s)",
		sc.Name, len(sc.Footprints), len(sc.Egos), a.cfg.GetSearchRadius(), res.RunID)

	targets := obb.Targets(sc.Footprints)
	maxMargin := 0.0
	for _, fp := range sc.Footprints {
		if m := fp.BoundingMargin(); m > maxMargin {
			maxMargin = m
		}
	}
	centers := obb.Centers(sc.Footprints)

	var index *obb.CandidateIndex
	if a.cfg.GetUseSpatialIndex() {
		index = obb.NewCandidateIndex(centers)
	}

	g, gctx := errgroup.WithContext(ctx)
	if w := a.cfg.GetWorkers(); w > 0 {
		g.SetLimit(w)
	}
	for i, ego := range sc.Egos {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fp, ok := sc.Footprint(ego)
			if !ok {
				return fmt.Errorf("unknown ego vehicle %q", ego)
			}
			res.Egos[i] = a.evaluateEgo(fp, targets, centers, index, maxMargin)
			monitoring.Verbosef("ego %s: %d candidates, %d neighbours", ego, res.Egos[i].Candidates, len(res.Egos[i].Neighbors))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to analyse scenario %q: %w", sc.Name, err)
	}

	if len(sc.Path) > 0 {
		res.PathLength = curvature.NewPolyline(sc.Path).Length()
		res.VertexCurvature = curvature.Profile(sc.Path)
		res.Curvature = curvature.Resample(sc.Path, a.cfg.GetCurvatureStep())
		res.CurvatureSummary = curvature.Summarize(res.Curvature)
		monitoring.Logf("scenario %q: path %.1fm, max |curvature| %.4f 1/m",
			sc.Name, res.PathLength, res.CurvatureSummary.MaxAbs)
	}

	monitoring.Verbosef("run %s finished in %s", res.RunID, a.clock.Since(res.CreatedAt))
	return res, nil
}

// evaluateEgo pre-filters neighbours by centre distance, then ranks the
// survivors by exact footprint distance and keeps those within the radius.
func (a *Analyzer) evaluateEgo(
	ego obb.Footprint,
	targets []obb.Target,
	centers map[string][]float64,
	index *obb.CandidateIndex,
	maxMargin float64,
) EgoResult {
	radius := a.cfg.GetSearchRadius()
	margin := 0.0
	if a.cfg.GetUseBoundingMargin() {
		margin = ego.BoundingMargin() + maxMargin
	}

	var candidates map[string][]float64
	if index != nil {
		candidates = index.Query(ego.Center(), radius, margin)
	} else {
		candidates = obb.FilterInRadius(ego.Center(), centers, radius, margin)
	}
	delete(candidates, ego.Key)

	// targets follow scenario order so equal distances rank deterministically.
	inRange := make([]obb.Target, 0, len(candidates))
	var egoPoly polygon.Polygon
	for _, t := range targets {
		if t.Key == ego.Key {
			egoPoly = t.Polygon
		}
		if _, ok := candidates[t.Key]; ok {
			inRange = append(inRange, t)
		}
	}

	ranked := a.engine.DistancesToTargets(egoPoly, inRange)
	neighbors := make([]obb.KeyedDistance, 0, len(ranked))
	for _, kd := range ranked {
		if kd.Distance > radius {
			break
		}
		neighbors = append(neighbors, kd)
	}

	return EgoResult{Ego: ego.Key, Candidates: len(candidates), Neighbors: neighbors}
}
