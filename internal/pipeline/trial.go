package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pressure-map/internal/monitoring"
	"github.com/banshee-data/pressure-map/internal/pressure"
)

// Options control how each trial is reduced to a grid.
type Options struct {
	TargetPress    float64
	AverageSize    int
	NoiseThreshold float64
	// StrictPeak fails a trial whose trace or sensor series has no stable
	// peak instead of carrying on with zero timing.
	StrictPeak bool
	Workers    int
}

// DefaultOptions returns the options used when no config is supplied.
func DefaultOptions() Options {
	return Options{
		TargetPress:    50,
		AverageSize:    3,
		NoiseThreshold: pressure.DefaultNoiseThreshold,
		Workers:        1,
	}
}

// Validate rejects options the smoother or worker pool cannot honour.
func (o Options) Validate() error {
	if o.AverageSize < 1 || o.AverageSize%2 == 0 {
		return fmt.Errorf("%w: average size %d", pressure.ErrInvalidWindow, o.AverageSize)
	}
	if o.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", o.Workers)
	}
	return nil
}

// TrialResult is the outcome of processing one trial.
type TrialResult struct {
	Name      string
	Alignment pressure.Alignment
	Grid      *mat.Dense
}

// ProcessTrial aligns trace and sensor, then reshapes and smooths the
// selected snapshot.
func ProcessTrial(name string, trace pressure.Series, sensor pressure.SensorSeries, opts Options) (TrialResult, error) {
	d := pressure.NewDetector(opts.NoiseThreshold)

	a, err := d.Align(trace, sensor, opts.TargetPress)
	if err != nil {
		return TrialResult{}, fmt.Errorf("trial %s: %w", name, err)
	}

	if !a.TracePeak.Found() || !a.SensorPeak.Found() {
		if opts.StrictPeak {
			return TrialResult{}, fmt.Errorf("trial %s: %w (trace %v, sensor %v)",
				name, pressure.ErrNoPeakDetected, a.TracePeak.Found(), a.SensorPeak.Found())
		}
		monitoring.Warnf("pipeline", "%s has no stable peak (trace=%v sensor=%v), using zero timing",
			name, a.TracePeak.Found(), a.SensorPeak.Found())
	}
	if !a.Crossed {
		monitoring.Warnf("pipeline", "%s never fell to %.2f after peak", name, opts.TargetPress)
	}

	monitoring.Logf("[pipeline] %s: peak %.2f at %.4f, time to target %.4f, sensor peak %.4f, snapshot %.4f",
		name, a.TracePeak.Value, a.TracePeak.Time, a.Elapsed, a.SensorPeak.Time, a.Frame.Time)

	raw, err := pressure.Reshape(a.Frame.Cells)
	if err != nil {
		return TrialResult{}, fmt.Errorf("trial %s: %w", name, err)
	}
	grid, err := pressure.Smooth(raw, opts.AverageSize)
	if err != nil {
		return TrialResult{}, fmt.Errorf("trial %s: %w", name, err)
	}

	return TrialResult{Name: name, Alignment: a, Grid: grid}, nil
}
