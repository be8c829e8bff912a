package pressure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uniformFrame returns a frame whose every cell reads v.
func uniformFrame(t, v float64) SensorFrame {
	cells := make([]float64, FrameCells)
	for i := range cells {
		cells[i] = v
	}
	return SensorFrame{Time: t, Cells: cells}
}

// alignmentTrace peaks at 100 at t=5 and first stably reaches 50 at t=8.
func alignmentTrace() Series {
	return seriesOf(0, 40, 80, 99, 99.5, 100, 99.6, 50.5, 50, 49.8, 49.5, 0)
}

// alignmentSensor has its stable mean peak at t=4.
func alignmentSensor() SensorSeries {
	times := []float64{0, 1, 2, 3, 4, 5, 6, 6.5, 7.25, 8, 9}
	means := []float64{0, 20, 40, 49.5, 50, 49.6, 30, 25, 20, 10, 0}
	s := make(SensorSeries, len(times))
	for i := range times {
		s[i] = uniformFrame(times[i], means[i])
	}
	return s
}

func TestAlign(t *testing.T) {
	t.Parallel()
	d := NewDetector(DefaultNoiseThreshold)

	a, err := d.Align(alignmentTrace(), alignmentSensor(), 50)
	require.NoError(t, err)

	assert.Equal(t, Peak{Value: 100, Time: 5}, a.TracePeak)
	assert.True(t, a.Crossed)
	assert.Equal(t, 8.0, a.CrossingTime)
	assert.Equal(t, 3.0, a.Elapsed)
	assert.Equal(t, 4.0, a.SensorPeak.Time)
	assert.InDelta(t, 50.0, a.SensorPeak.Value, 1e-9)
	assert.Equal(t, 7.0, a.TargetTime)
	assert.Equal(t, 7.25, a.Frame.Time)
	assert.Len(t, a.Frame.Cells, FrameCells)
}

func TestAlign_NoFrameAfterTarget(t *testing.T) {
	t.Parallel()
	d := NewDetector(DefaultNoiseThreshold)
	sensor := alignmentSensor()[:8] // last frame at t=6.5

	_, err := d.Align(alignmentTrace(), sensor, 50)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlignment))
}

func TestAlign_TargetNeverReachedUsesNegativeElapsed(t *testing.T) {
	t.Parallel()
	d := NewDetector(DefaultNoiseThreshold)

	a, err := d.Align(alignmentTrace(), alignmentSensor(), -10)
	require.NoError(t, err)
	assert.False(t, a.Crossed)
	assert.Equal(t, -5.0, a.Elapsed)
	assert.Equal(t, -1.0, a.TargetTime)
	assert.Equal(t, 0.0, a.Frame.Time)
}

func TestSelectFrame(t *testing.T) {
	t.Parallel()
	s := alignmentSensor()

	f, ok := SelectFrame(s, 6.5)
	assert.True(t, ok)
	assert.Equal(t, 6.5, f.Time)

	f, ok = SelectFrame(s, 6.6)
	assert.True(t, ok)
	assert.Equal(t, 7.25, f.Time)

	_, ok = SelectFrame(s, 9.1)
	assert.False(t, ok)

	_, ok = SelectFrame(nil, 0)
	assert.False(t, ok)
}

func TestSensorFrame_Mean(t *testing.T) {
	t.Parallel()
	assert.InDelta(t, 1.01, uniformFrame(0, 1.01).Mean(), 1e-12)
	assert.Equal(t, 0.0, SensorFrame{}.Mean())

	cells := make([]float64, FrameCells)
	for i := range cells {
		cells[i] = float64(i)
	}
	assert.InDelta(t, 127.5, SensorFrame{Cells: cells}.Mean(), 1e-12)
}
