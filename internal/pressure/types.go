package pressure

import "strconv"

const (
	// GridSize is the edge length of the tactile sensor grid.
	GridSize = 16
	// FrameCells is the number of cells reported in one sensor frame.
	FrameCells = GridSize * GridSize

	// DefaultNoiseThreshold is the largest adjacent-sample step still treated as stable.
	DefaultNoiseThreshold = 1.0

	// meanScale is the fixed-point factor applied to cell readings before a frame
	// mean is accumulated.
	meanScale = 100.0
)

// TimedSample is one reading of a scalar signal.
type TimedSample struct {
	Value float64
	Time  float64
}

// Series is a scalar signal in acquisition order. Times are expected to be
// non-decreasing but this is not enforced.
type Series []TimedSample

// Values returns the sample values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Times returns the sample timestamps in order.
func (s Series) Times() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Time
	}
	return out
}

// SensorFrame is one acquisition instant of the tactile sensor.
type SensorFrame struct {
	Time  float64
	Cells []float64
}

// Mean returns the average cell reading. Readings are scaled to hundredths
// and summed one at a time in cell order; the total is divided by
// cells x scale in a single step.
func (f SensorFrame) Mean() float64 {
	if len(f.Cells) == 0 {
		return 0
	}
	var sum float64
	for _, v := range f.Cells {
		sum += v * meanScale
	}
	return sum / (float64(len(f.Cells)) * meanScale)
}

// SensorSeries is the ordered frame sequence of one trial.
type SensorSeries []SensorFrame

// MeanSeries collapses every frame to its mean reading.
func (s SensorSeries) MeanSeries() Series {
	out := make(Series, len(s))
	for i, f := range s {
		out[i] = TimedSample{Value: f.Mean(), Time: f.Time}
	}
	return out
}

// Round2 rounds the stored value of v to two decimals, ties to even.
// Scaling by 100 first would round the product, which can sit on the
// other side of a tie from v itself (0.015 is stored just below it).
func Round2(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return r
}
