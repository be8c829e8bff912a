package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RunConfig holds the parameters of one batch run. Fields omitted from a
// config file stay nil and fall back to the defaults returned by the Get*
// accessors, so partial configs are safe.
type RunConfig struct {
	// Analysis params
	TargetPress    *float64 `json:"target_press,omitempty"`
	AverageSize    *int     `json:"average_size,omitempty"`
	NoiseThreshold *float64 `json:"noise_threshold,omitempty"`
	StrictPeak     *bool    `json:"strict_peak,omitempty"`

	// Input params
	PressureDir        *string `json:"pressure_dir,omitempty"`
	SensorDir          *string `json:"sensor_dir,omitempty"`
	Extension          *string `json:"extension,omitempty"`
	PressureHeaderRows *int    `json:"pressure_header_rows,omitempty"`
	SensorHeaderRows   *int    `json:"sensor_header_rows,omitempty"`

	// Output params
	OutputDir *string `json:"output_dir,omitempty"`
	DBPath    *string `json:"db_path,omitempty"`

	// Execution params
	Workers *int `json:"workers,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyRunConfig returns a RunConfig with all fields set to nil.
func EmptyRunConfig() *RunConfig {
	return &RunConfig{}
}

// DefaultRunConfig returns a RunConfig with every field set to its default.
func DefaultRunConfig() *RunConfig {
	c := EmptyRunConfig()
	return &RunConfig{
		TargetPress:        ptrFloat64(c.GetTargetPress()),
		AverageSize:        ptrInt(c.GetAverageSize()),
		NoiseThreshold:     ptrFloat64(c.GetNoiseThreshold()),
		StrictPeak:         ptrBool(c.GetStrictPeak()),
		PressureDir:        ptrString(c.GetPressureDir()),
		SensorDir:          ptrString(c.GetSensorDir()),
		Extension:          ptrString(c.GetExtension()),
		PressureHeaderRows: ptrInt(c.GetPressureHeaderRows()),
		SensorHeaderRows:   ptrInt(c.GetSensorHeaderRows()),
		OutputDir:          ptrString(c.GetOutputDir()),
		DBPath:             ptrString(c.GetDBPath()),
		Workers:            ptrInt(c.GetWorkers()),
	}
}

// LoadRunConfig loads a RunConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadRunConfig(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
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

	cfg := EmptyRunConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Merge copies every non-nil field of o over c.
func (c *RunConfig) Merge(o *RunConfig) {
	if o == nil {
		return
	}
	if o.TargetPress != nil {
		c.TargetPress = o.TargetPress
	}
	if o.AverageSize != nil {
		c.AverageSize = o.AverageSize
	}
	if o.NoiseThreshold != nil {
		c.NoiseThreshold = o.NoiseThreshold
	}
	if o.StrictPeak != nil {
		c.StrictPeak = o.StrictPeak
	}
	if o.PressureDir != nil {
		c.PressureDir = o.PressureDir
	}
	if o.SensorDir != nil {
		c.SensorDir = o.SensorDir
	}
	if o.Extension != nil {
		c.Extension = o.Extension
	}
	if o.PressureHeaderRows != nil {
		c.PressureHeaderRows = o.PressureHeaderRows
	}
	if o.SensorHeaderRows != nil {
		c.SensorHeaderRows = o.SensorHeaderRows
	}
	if o.OutputDir != nil {
		c.OutputDir = o.OutputDir
	}
	if o.DBPath != nil {
		c.DBPath = o.DBPath
	}
	if o.Workers != nil {
		c.Workers = o.Workers
	}
}

// Validate checks that the configuration values are valid.
func (c *RunConfig) Validate() error {
	if c.AverageSize != nil {
		if *c.AverageSize < 1 || *c.AverageSize%2 == 0 {
			return fmt.Errorf("average_size must be a positive odd number, got %d", *c.AverageSize)
		}
	}

	if c.NoiseThreshold != nil && *c.NoiseThreshold <= 0 {
		return fmt.Errorf("noise_threshold must be positive, got %f", *c.NoiseThreshold)
	}

	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}

	if c.PressureHeaderRows != nil && *c.PressureHeaderRows < 0 {
		return fmt.Errorf("pressure_header_rows must be non-negative, got %d", *c.PressureHeaderRows)
	}
	if c.SensorHeaderRows != nil && *c.SensorHeaderRows < 0 {
		return fmt.Errorf("sensor_header_rows must be non-negative, got %d", *c.SensorHeaderRows)
	}

	if c.Extension != nil && *c.Extension == "" {
		return fmt.Errorf("extension must not be empty")
	}

	return nil
}

// GetTargetPress returns the target_press value or the default.
func (c *RunConfig) GetTargetPress() float64 {
	if c.TargetPress == nil {
		return 50.0
	}
	return *c.TargetPress
}

// GetAverageSize returns the average_size value or the default.
func (c *RunConfig) GetAverageSize() int {
	if c.AverageSize == nil {
		return 3
	}
	return *c.AverageSize
}

// GetNoiseThreshold returns the noise_threshold value or the default.
func (c *RunConfig) GetNoiseThreshold() float64 {
	if c.NoiseThreshold == nil {
		return 1.0
	}
	return *c.NoiseThreshold
}

// GetStrictPeak returns the strict_peak value or the default.
func (c *RunConfig) GetStrictPeak() bool {
	if c.StrictPeak == nil {
		return false // default: warn and continue with a zero peak
	}
	return *c.StrictPeak
}

// GetPressureDir returns the pressure_dir value or the default.
func (c *RunConfig) GetPressureDir() string {
	if c.PressureDir == nil || *c.PressureDir == "" {
		return "EG1データ"
	}
	return *c.PressureDir
}

// GetSensorDir returns the sensor_dir value or the default.
func (c *RunConfig) GetSensorDir() string {
	if c.SensorDir == nil || *c.SensorDir == "" {
		return "面圧データ"
	}
	return *c.SensorDir
}

// GetExtension returns the extension value or the default.
func (c *RunConfig) GetExtension() string {
	if c.Extension == nil || *c.Extension == "" {
		return "csv"
	}
	return *c.Extension
}

// GetPressureHeaderRows returns the pressure_header_rows value or the default.
func (c *RunConfig) GetPressureHeaderRows() int {
	if c.PressureHeaderRows == nil {
		return 1
	}
	return *c.PressureHeaderRows
}

// GetSensorHeaderRows returns the sensor_header_rows value or the default.
func (c *RunConfig) GetSensorHeaderRows() int {
	if c.SensorHeaderRows == nil {
		return 5
	}
	return *c.SensorHeaderRows
}

// GetOutputDir returns the output_dir value or the default.
func (c *RunConfig) GetOutputDir() string {
	if c.OutputDir == nil || *c.OutputDir == "" {
		return "."
	}
	return *c.OutputDir
}

// GetDBPath returns the db_path value. Empty disables run persistence.
func (c *RunConfig) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}

// GetWorkers returns the workers value or the default.
func (c *RunConfig) GetWorkers() int {
	if c.Workers == nil {
		return 1
	}
	return *c.Workers
}
