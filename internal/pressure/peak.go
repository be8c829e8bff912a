package pressure

import "math"

// Peak is the largest stable value of a series and the time it was sampled.
type Peak struct {
	Value float64
	Time  float64
}

// Found reports whether any sample updated the peak. A zero Peak is what the
// detector returns when nothing passed the noise check.
func (p Peak) Found() bool {
	return p != Peak{}
}

// Detector applies the adjacent-step noise check shared by the peak and
// crossing searches.
type Detector struct {
	// NoiseThreshold is the exclusive upper bound on a stable step.
	NoiseThreshold float64
}

// NewDetector returns a Detector with the given noise threshold. A
// non-positive threshold selects DefaultNoiseThreshold.
func NewDetector(noiseThreshold float64) *Detector {
	if noiseThreshold <= 0 {
		noiseThreshold = DefaultNoiseThreshold
	}
	return &Detector{NoiseThreshold: noiseThreshold}
}

func (d *Detector) threshold() float64 {
	if d == nil || d.NoiseThreshold <= 0 {
		return DefaultNoiseThreshold
	}
	return d.NoiseThreshold
}

// leadingStable reports whether the sample at i is stable. The step into the
// sample is checked in both directions, the step out of it only for a fall:
// any rise to the next sample passes.
func (d *Detector) leadingStable(v []float64, i int) bool {
	t := d.threshold()
	return math.Abs(v[i-1]-v[i]) < t && (v[i]-v[i+1]) < t
}

// stable reports whether both steps around i are below the threshold.
func (d *Detector) stable(v []float64, i int) bool {
	t := d.threshold()
	return math.Abs(v[i-1]-v[i]) < t && math.Abs(v[i]-v[i+1]) < t
}

// Peak scans the interior of s and returns the largest sample passing the
// one-sided noise check. Later equal maxima replace earlier ones. The running
// maximum starts at zero, so a series that never reaches zero yields a zero
// Peak, as does a series shorter than three samples.
func (d *Detector) Peak(s Series) Peak {
	return d.scanPeak(s, d.leadingStable)
}

// StablePeak is Peak with the noise check applied symmetrically on both sides.
// It is used on the sensor mean series.
func (d *Detector) StablePeak(s Series) Peak {
	return d.scanPeak(s, d.stable)
}

func (d *Detector) scanPeak(s Series, ok func([]float64, int) bool) Peak {
	var p Peak
	if len(s) < 3 {
		return p
	}
	v := s.Values()
	for i := 1; i < len(v)-1; i++ {
		if !ok(v, i) {
			continue
		}
		if p.Value <= v[i] {
			p = Peak{Value: v[i], Time: s[i].Time}
		}
	}
	return p
}

// TimeToTarget returns the time of the first stable sample at or below target
// that follows, or coincides with, the first stable sample at or above peak.
// The second return value is false, and the time zero, when no such sample
// exists.
func (d *Detector) TimeToTarget(s Series, target, peak float64) (float64, bool) {
	if len(s) < 3 {
		return 0, false
	}
	v := s.Values()
	reached := false
	for i := 1; i < len(v)-1; i++ {
		if !d.stable(v, i) {
			continue
		}
		if v[i] >= peak {
			reached = true
		}
		if reached && v[i] <= target {
			return s[i].Time, true
		}
	}
	return 0, false
}
