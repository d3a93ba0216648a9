// Package scenario loads instantaneous vehicle snapshots and runs the
// footprint proximity and path curvature analysis over them.
package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/vehgeom/internal/config"
	"github.com/banshee-data/vehgeom/internal/obb"
	"github.com/banshee-data/vehgeom/internal/units"
)

// Pose reference conventions accepted in scenario files.
const (
	ReferenceFront  = "front"  // front-bumper centre, the simulator convention
	ReferenceCenter = "center" // geometric centre
)

// VehicleSpec is one vehicle as written in a scenario file.
type VehicleSpec struct {
	ID        string   `json:"id,omitempty"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Heading   float64  `json:"heading"` // degrees, 0 = +x, counter-clockwise positive
	Width     *float64 `json:"width,omitempty"`
	Length    *float64 `json:"length,omitempty"`
	Reference string   `json:"reference,omitempty"`
}

// File is the on-disk scenario format.
type File struct {
	Name     string        `json:"name,omitempty"`
	Vehicles []VehicleSpec `json:"vehicles"`
	Path     [][]float64   `json:"path,omitempty"`
	Egos     []string      `json:"egos,omitempty"` // empty means every vehicle
}

// Scenario is a validated snapshot with centre-referenced footprints.
type Scenario struct {
	Name       string
	Footprints []obb.Footprint // in file order
	Path       []r2.Vec
	Egos       []string
}

// Load reads and parses a scenario file.
func Load(path string, cfg *config.AnalysisConfig) (*Scenario, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	sc, err := Parse(data, cfg)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = filepath.Base(path)
	}
	return sc, nil
}

// Parse decodes and validates a scenario. Vehicles without an id get a
// random UUID; vehicles without dimensions take the config defaults.
func Parse(data []byte, cfg *config.AnalysisConfig) (*Scenario, error) {
	if cfg == nil {
		cfg = config.EmptyAnalysisConfig()
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse scenario JSON: %w", err)
	}

	sc := &Scenario{
		Name:       f.Name,
		Footprints: make([]obb.Footprint, 0, len(f.Vehicles)),
	}

	seen := make(map[string]bool, len(f.Vehicles))
	for i, v := range f.Vehicles {
		fp, err := footprintFromSpec(v, cfg)
		if err != nil {
			return nil, fmt.Errorf("vehicle %d: %w", i, err)
		}
		if seen[fp.Key] {
			return nil, fmt.Errorf("vehicle %d: duplicate id %q", i, fp.Key)
		}
		seen[fp.Key] = true
		sc.Footprints = append(sc.Footprints, fp)
	}

	for i, pt := range f.Path {
		if len(pt) < 2 {
			return nil, fmt.Errorf("path point %d: need at least 2 coordinates, got %d", i, len(pt))
		}
		sc.Path = append(sc.Path, r2.Vec{X: pt[0], Y: pt[1]})
	}

	sc.Egos = f.Egos
	if len(sc.Egos) == 0 {
		sc.Egos = make([]string, len(sc.Footprints))
		for i, fp := range sc.Footprints {
			sc.Egos[i] = fp.Key
		}
	}
	listed := make(map[string]bool, len(sc.Egos))
	for _, ego := range sc.Egos {
		if !seen[ego] {
			return nil, fmt.Errorf("unknown ego vehicle %q", ego)
		}
		if listed[ego] {
			return nil, fmt.Errorf("duplicate ego %q", ego)
		}
		listed[ego] = true
	}

	return sc, nil
}

func footprintFromSpec(v VehicleSpec, cfg *config.AnalysisConfig) (obb.Footprint, error) {
	dims := obb.Dimensions{Width: cfg.GetDefaultWidth(), Length: cfg.GetDefaultLength()}
	if v.Width != nil {
		dims.Width = *v.Width
	}
	if v.Length != nil {
		dims.Length = *v.Length
	}
	if dims.Width <= 0 || dims.Length <= 0 {
		return obb.Footprint{}, fmt.Errorf("dimensions must be positive, got width=%g length=%g", dims.Width, dims.Length)
	}

	key := v.ID
	if key == "" {
		key = uuid.NewString()
	}

	pose := obb.Pose{Position: r2.Vec{X: v.X, Y: v.Y}, HeadingDeg: units.NormalizeAngle(v.Heading)}
	switch v.Reference {
	case "", ReferenceFront:
		return obb.FootprintFromFront(key, pose, dims), nil
	case ReferenceCenter:
		return obb.Footprint{Key: key, Pose: pose, Dims: dims}, nil
	default:
		return obb.Footprint{}, fmt.Errorf("unknown reference %q (want %q or %q)", v.Reference, ReferenceFront, ReferenceCenter)
	}
}

// Footprint returns the footprint with the given key.
func (sc *Scenario) Footprint(key string) (obb.Footprint, bool) {
	for _, fp := range sc.Footprints {
		if fp.Key == key {
			return fp, true
		}
	}
	return obb.Footprint{}, false
}
