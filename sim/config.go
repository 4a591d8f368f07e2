package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// SimulationConfig holds the immutable parameters of one invocation.
// Times are in simulated minutes.
type SimulationConfig struct {
	Duration                 float64 `yaml:"duration" json:"duration"`
	MouldingMachines         int     `yaml:"moulding_machines" json:"mouldingMachines"`
	InspectionStations       int     `yaml:"inspection_stations" json:"inspectionStations"`
	PackagingMachines        int     `yaml:"packaging_machines" json:"packagingMachines"`
	ArrivalIntervalMean      float64 `yaml:"arrival_interval_mean" json:"arrivalIntervalMean"`
	DegradationCostPerMinute float64 `yaml:"degradation_cost_per_minute" json:"degradationCostPerMinute"`
	DegradationThreshold     float64 `yaml:"degradation_threshold" json:"degradationThreshold"`
	Replications             int     `yaml:"replications" json:"replications"`
	Seed                     int64   `yaml:"seed" json:"seed"`

	// Workers bounds how many replications run at once (0 = GOMAXPROCS).
	// It never changes results.
	Workers int `yaml:"workers,omitempty" json:"-"`
}

// DefaultConfig returns the reference configuration: one 8-hour shift,
// 2 moulding machines, 2 inspection stations, 1 packaging machine.
func DefaultConfig() SimulationConfig {
	return SimulationConfig{
		Duration:                 480,
		MouldingMachines:         2,
		InspectionStations:       2,
		PackagingMachines:        1,
		ArrivalIntervalMean:      5,
		DegradationCostPerMinute: 2.5,
		DegradationThreshold:     0,
		Replications:             1,
		Seed:                     42,
	}
}

// Servers returns the server count configured for stage s.
func (c SimulationConfig) Servers(s Stage) int {
	switch s {
	case StageMoulding:
		return c.MouldingMachines
	case StageInspection:
		return c.InspectionStations
	case StagePackaging:
		return c.PackagingMachines
	}
	return 0
}

// WithServers returns a copy of c with the server count of stage s set to n.
func (c SimulationConfig) WithServers(s Stage, n int) SimulationConfig {
	switch s {
	case StageMoulding:
		c.MouldingMachines = n
	case StageInspection:
		c.InspectionStations = n
	case StagePackaging:
		c.PackagingMachines = n
	}
	return c
}

// ErrInvalidConfig is matched by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid simulation config")

// InvalidConfigError reports the first offending field of a config.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid simulation config: %s %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidConfig) succeed.
func (e *InvalidConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Validate checks that every required-positive field is positive and that
// the degradation parameters are finite and non-negative.
func (c SimulationConfig) Validate() error {
	if err := validateFinitePositive("duration", c.Duration); err != nil {
		return err
	}
	if err := validateFinitePositive("arrival_interval_mean", c.ArrivalIntervalMean); err != nil {
		return err
	}
	for _, s := range Stages {
		if n := c.Servers(s); n <= 0 {
			return &InvalidConfigError{Field: serverFieldNames[s], Reason: fmt.Sprintf("must be positive, got %d", n)}
		}
	}
	if err := validateFiniteNonNegative("degradation_cost_per_minute", c.DegradationCostPerMinute); err != nil {
		return err
	}
	if err := validateFiniteNonNegative("degradation_threshold", c.DegradationThreshold); err != nil {
		return err
	}
	if c.Replications < 1 {
		return &InvalidConfigError{Field: "replications", Reason: fmt.Sprintf("must be at least 1, got %d", c.Replications)}
	}
	if c.Workers < 0 {
		return &InvalidConfigError{Field: "workers", Reason: fmt.Sprintf("must be non-negative, got %d", c.Workers)}
	}
	return nil
}

var serverFieldNames = [NumStages]string{"moulding_machines", "inspection_stations", "packaging_machines"}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return &InvalidConfigError{Field: name, Reason: fmt.Sprintf("must be a finite number, got %f", val)}
	}
	if val <= 0 {
		return &InvalidConfigError{Field: name, Reason: fmt.Sprintf("must be positive, got %f", val)}
	}
	return nil
}

func validateFiniteNonNegative(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return &InvalidConfigError{Field: name, Reason: fmt.Sprintf("must be a finite number, got %f", val)}
	}
	if val < 0 {
		return &InvalidConfigError{Field: name, Reason: fmt.Sprintf("must be non-negative, got %f", val)}
	}
	return nil
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
// Uses strict parsing: unrecognized keys (typos) are rejected.
// The result is not validated; call Validate before running.
func LoadConfig(path string) (SimulationConfig, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading simulation config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing simulation config: %w", err)
	}
	return cfg, nil
}
