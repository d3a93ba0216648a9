package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/banshee-data/vehgeom/internal/curvature"
	"github.com/banshee-data/vehgeom/internal/scenario"
	"github.com/banshee-data/vehgeom/internal/units"
)

// NeighborJSON is one ranked neighbour in the JSON output.
type NeighborJSON struct {
	Target   string  `json:"target"`
	Distance float64 `json:"distance_m"`
}

// EgoJSON is one ego vehicle's neighbours in the JSON output.
type EgoJSON struct {
	Ego        string         `json:"ego"`
	Candidates int            `json:"candidates"`
	Neighbors  []NeighborJSON `json:"neighbors"`
}

// CurvatureJSON summarises the path curvature in the JSON output.
type CurvatureJSON struct {
	PathLength float64 `json:"path_length_m"`
	Samples    int     `json:"samples"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	MaxAbs     float64 `json:"max_abs"`
	MeanAbs    float64 `json:"mean_abs"`
	MinRadius  float64 `json:"min_radius_m,omitempty"`
}

// ResultJSON is the machine-readable form of a run.
type ResultJSON struct {
	RunID        string         `json:"run_id"`
	Scenario     string         `json:"scenario"`
	CreatedAt    time.Time      `json:"created_at"`
	SearchRadius float64        `json:"search_radius_m"`
	Vehicles     int            `json:"vehicles"`
	Egos         []EgoJSON      `json:"egos"`
	Curvature    *CurvatureJSON `json:"curvature,omitempty"`
}

// ToJSON converts res, rounding distances to the decimal places carried by
// resolution.
func ToJSON(res *scenario.Result, resolution float64) ResultJSON {
	round := func(v float64) float64 { return units.RoundToDecimalPlaces(v, resolution) }

	out := ResultJSON{
		RunID:        res.RunID,
		Scenario:     res.Scenario,
		CreatedAt:    res.CreatedAt,
		SearchRadius: res.SearchRadius,
		Vehicles:     res.VehicleCount,
		Egos:         make([]EgoJSON, len(res.Egos)),
	}
	for i, e := range res.Egos {
		ej := EgoJSON{Ego: e.Ego, Candidates: e.Candidates, Neighbors: make([]NeighborJSON, len(e.Neighbors))}
		for j, kd := range e.Neighbors {
			ej.Neighbors[j] = NeighborJSON{Target: kd.Key, Distance: round(kd.Distance)}
		}
		out.Egos[i] = ej
	}

	if res.CurvatureSummary.Count > 0 {
		s := res.CurvatureSummary
		cj := &CurvatureJSON{
			PathLength: round(res.PathLength),
			Samples:    s.Count,
			Min:        s.Min,
			Max:        s.Max,
			MaxAbs:     s.MaxAbs,
			MeanAbs:    s.MeanAbs,
		}
		// +Inf cannot be encoded; a straight path omits the radius.
		if s.MaxAbs > 0 {
			cj.MinRadius = round(curvature.Radius(s.MaxAbs))
		}
		out.Curvature = cj
	}
	return out
}

// WriteJSON writes res as indented JSON.
func WriteJSON(out io.Writer, res *scenario.Result, resolution float64) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToJSON(res, resolution)); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// WriteSummary writes a human-readable table of res.
func WriteSummary(out io.Writer, res *scenario.Result, resolution float64) error {
	rj := ToJSON(res, resolution)

	fmt.Fprintf(out, "Run %s  scenario=%s  vehicles=%d  radius=%gm\n",
		rj.RunID, rj.Scenario, rj.Vehicles, rj.SearchRadius)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EGO\tRANK\tTARGET\tDISTANCE (m)")
	for _, e := range rj.Egos {
		if len(e.Neighbors) == 0 {
			fmt.Fprintf(tw, "%s\t-\t(none within radius)\t\n", e.Ego)
			continue
		}
		for i, n := range e.Neighbors {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%v\n", e.Ego, i+1, n.Target, n.Distance)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if c := rj.Curvature; c != nil {
		fmt.Fprintf(out, "Path: %vm, %d samples, curvature min=%.5f max=%.5f mean|k|=%.5f\n",
			c.PathLength, c.Samples, c.Min, c.Max, c.MeanAbs)
		if c.MinRadius > 0 {
			fmt.Fprintf(out, "Tightest turn radius: %vm\n", c.MinRadius)
		}
	}
	return nil
}
