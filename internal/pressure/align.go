package pressure

import "fmt"

// Alignment records every timing decision made while picking a trial's
// snapshot. Trace times and sensor times live on unrelated clocks; only the
// elapsed interval is carried across.
type Alignment struct {
	TracePeak    Peak
	CrossingTime float64 // zero when the trace never fell to the target
	Crossed      bool
	Elapsed      float64 // CrossingTime - TracePeak.Time
	SensorPeak   Peak
	TargetTime   float64 // SensorPeak.Time + Elapsed
	Frame        SensorFrame
}

// Align locates the trace peak and the time taken to fall to target, finds the
// peak of the sensor mean series, and selects the first sensor frame recorded
// at or after the sensor peak plus that interval.
func (d *Detector) Align(trace Series, sensor SensorSeries, target float64) (Alignment, error) {
	var a Alignment
	a.TracePeak = d.Peak(trace)
	a.CrossingTime, a.Crossed = d.TimeToTarget(trace, target, a.TracePeak.Value)
	a.Elapsed = a.CrossingTime - a.TracePeak.Time
	a.SensorPeak = d.StablePeak(sensor.MeanSeries())
	a.TargetTime = a.SensorPeak.Time + a.Elapsed

	frame, ok := SelectFrame(sensor, a.TargetTime)
	if !ok {
		return a, fmt.Errorf("%w: target %.4f, last frame %.4f", ErrAlignment, a.TargetTime, lastTime(sensor))
	}
	a.Frame = frame
	return a, nil
}

// SelectFrame returns the first frame, in series order, whose timestamp is at
// or after t.
func SelectFrame(sensor SensorSeries, t float64) (SensorFrame, bool) {
	for _, f := range sensor {
		if f.Time >= t {
			return f, true
		}
	}
	return SensorFrame{}, false
}

func lastTime(sensor SensorSeries) float64 {
	if len(sensor) == 0 {
		return 0
	}
	return sensor[len(sensor)-1].Time
}
