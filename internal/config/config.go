package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical analysis defaults file.
const DefaultConfigPath = "config/analysis.defaults.json"

// Default values used when a field is omitted from the JSON file.
const (
	DefaultWidth            = 1.8  // metres, passenger car
	DefaultLength           = 5.0  // metres, passenger car
	DefaultSearchRadius     = 50.0 // metres
	DefaultCurvatureStep    = 1.0  // metres between resampled curvature points
	DefaultWorkers          = 4
	DefaultReportResolution = 0.001 // metres
)

// AnalysisConfig is the root configuration for scenario analysis runs.
// Every field is optional; the Get* accessors supply defaults.
type AnalysisConfig struct {
	// Footprint defaults for vehicles that omit their dimensions
	DefaultWidth  *float64 `json:"default_width,omitempty"`
	DefaultLength *float64 `json:"default_length,omitempty"`

	// Neighbour search
	SearchRadius      *float64 `json:"search_radius,omitempty"`
	UseBoundingMargin *bool    `json:"use_bounding_margin,omitempty"`
	UseSpatialIndex   *bool    `json:"use_spatial_index,omitempty"`

	// Curvature sampling along the reference path
	CurvatureStep *float64 `json:"curvature_step,omitempty"`

	// Execution and output
	Workers          *int     `json:"workers,omitempty"`
	ReportResolution *float64 `json:"report_resolution,omitempty"`
	PlotDir          *string  `json:"plot_dir,omitempty"`
	DBPath           *string  `json:"db_path,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyAnalysisConfig returns an AnalysisConfig with all fields set to nil.
func EmptyAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{}
}

// DefaultAnalysisConfig returns a config with every numeric field populated
// with its default value.
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		DefaultWidth:      ptrFloat64(DefaultWidth),
		DefaultLength:     ptrFloat64(DefaultLength),
		SearchRadius:      ptrFloat64(DefaultSearchRadius),
		UseBoundingMargin: ptrBool(true),
		UseSpatialIndex:   ptrBool(false),
		CurvatureStep:     ptrFloat64(DefaultCurvatureStep),
		Workers:           ptrInt(DefaultWorkers),
		ReportResolution:  ptrFloat64(DefaultReportResolution),
	}
}

// LoadAnalysisConfig loads an AnalysisConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted from
// the file keep nil values and resolve to defaults through the Get* methods.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyAnalysisConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and its parents up to the repo root.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *AnalysisConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadAnalysisConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *AnalysisConfig) Validate() error {
	if c.DefaultWidth != nil && *c.DefaultWidth <= 0 {
		return fmt.Errorf("default_width must be positive, got %f", *c.DefaultWidth)
	}
	if c.DefaultLength != nil && *c.DefaultLength <= 0 {
		return fmt.Errorf("default_length must be positive, got %f", *c.DefaultLength)
	}
	if c.SearchRadius != nil && *c.SearchRadius <= 0 {
		return fmt.Errorf("search_radius must be positive, got %f", *c.SearchRadius)
	}
	if c.CurvatureStep != nil && *c.CurvatureStep <= 0 {
		return fmt.Errorf("curvature_step must be positive, got %f", *c.CurvatureStep)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.ReportResolution != nil && *c.ReportResolution <= 0 {
		return fmt.Errorf("report_resolution must be positive, got %f", *c.ReportResolution)
	}
	return nil
}

// GetDefaultWidth returns the default_width value or the default.
func (c *AnalysisConfig) GetDefaultWidth() float64 {
	if c.DefaultWidth == nil {
		return DefaultWidth
	}
	return *c.DefaultWidth
}

// GetDefaultLength returns the default_length value or the default.
func (c *AnalysisConfig) GetDefaultLength() float64 {
	if c.DefaultLength == nil {
		return DefaultLength
	}
	return *c.DefaultLength
}

// GetSearchRadius returns the search_radius value or the default.
func (c *AnalysisConfig) GetSearchRadius() float64 {
	if c.SearchRadius == nil {
		return DefaultSearchRadius
	}
	return *c.SearchRadius
}

// GetUseBoundingMargin returns the use_bounding_margin value or the default.
func (c *AnalysisConfig) GetUseBoundingMargin() bool {
	if c.UseBoundingMargin == nil {
		return true // default: never miss a footprint whose centre is just out of range
	}
	return *c.UseBoundingMargin
}

// GetUseSpatialIndex returns the use_spatial_index value or the default.
func (c *AnalysisConfig) GetUseSpatialIndex() bool {
	if c.UseSpatialIndex == nil {
		return false
	}
	return *c.UseSpatialIndex
}

// GetCurvatureStep returns the curvature_step value or the default.
func (c *AnalysisConfig) GetCurvatureStep() float64 {
	if c.CurvatureStep == nil {
		return DefaultCurvatureStep
	}
	return *c.CurvatureStep
}

// GetWorkers returns the workers value or the default. Zero means one
// worker per ego vehicle.
func (c *AnalysisConfig) GetWorkers() int {
	if c.Workers == nil {
		return DefaultWorkers
	}
	return *c.Workers
}

// GetReportResolution returns the report_resolution value or the default.
func (c *AnalysisConfig) GetReportResolution() float64 {
	if c.ReportResolution == nil {
		return DefaultReportResolution
	}
	return *c.ReportResolution
}

// GetPlotDir returns the plot_dir value, empty when plotting is disabled.
func (c *AnalysisConfig) GetPlotDir() string {
	if c.PlotDir == nil {
		return ""
	}
	return *c.PlotDir
}

// GetDBPath returns the db_path value, empty when results are not stored.
func (c *AnalysisConfig) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}
