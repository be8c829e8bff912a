package trialio

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pressure-map/internal/pressure"
	"github.com/banshee-data/pressure-map/internal/testutil"
)

func TestReadPressure(t *testing.T) {
	t.Parallel()
	in := testutil.PressureCSV([]float64{0, 0.1, 0.2}, []float64{1.5, 2.5, 3.5})

	got, err := ReadPressure(strings.NewReader(in), "trial.csv", DefaultPressureHeaderRows)
	require.NoError(t, err)
	assert.Equal(t, pressure.Series{
		{Value: 1.5, Time: 0},
		{Value: 2.5, Time: 0.1},
		{Value: 3.5, Time: 0.2},
	}, got)
}

func TestReadPressure_ExtraColumnsAndSpaces(t *testing.T) {
	t.Parallel()
	in := "No,Time,Cuff,Pulse\n1, 0.5 , 80.25 ,60\n"

	got, err := ReadPressure(strings.NewReader(in), "trial.csv", 1)
	require.NoError(t, err)
	assert.Equal(t, pressure.Series{{Value: 80.25, Time: 0.5}}, got)
}

func TestReadPressure_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		input  string
		line   int
		column int
	}{
		{"bad_time", "h\n0,abc,1\n", 2, 1},
		{"bad_pressure", "h\n0,0.1,1\n1,0.2,x\n", 3, 2},
		{"short_row", "h\n0,0.1\n", 2, -1},
		{"missing_header", "", 1, -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadPressure(strings.NewReader(tc.input), "p.csv", 1)
			require.Error(t, err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "want *ParseError, got %T", err)
			assert.Equal(t, "p.csv", pe.File)
			assert.Equal(t, tc.line, pe.Line)
			assert.Equal(t, tc.column, pe.Column)
		})
	}
}

func TestReadPressure_NumError(t *testing.T) {
	t.Parallel()
	_, err := ReadPressure(strings.NewReader("h\n0,abc,1\n"), "p.csv", 1)

	var ne *strconv.NumError
	assert.True(t, errors.As(err, &ne))
	assert.Contains(t, err.Error(), "p.csv line 2 column 1")
}

func TestReadSensor(t *testing.T) {
	t.Parallel()
	in := testutil.SensorCSV([]float64{0.25, 0.5}, func(frame, idx int) float64 {
		return float64(frame*1000 + idx)
	})

	got, err := ReadSensor(strings.NewReader(in), "s.csv", DefaultSensorHeaderRows)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 0.25, got[0].Time)
	assert.Equal(t, 0.5, got[1].Time)
	for f, frame := range got {
		require.Len(t, frame.Cells, pressure.FrameCells)
		assert.Equal(t, float64(f*1000), frame.Cells[0])
		assert.Equal(t, float64(f*1000+255), frame.Cells[255])
	}
}

func TestReadSensor_IgnoresTrailingColumns(t *testing.T) {
	t.Parallel()
	row := "1" + strings.Repeat(",2", pressure.FrameCells) + ",extra,"
	in := strings.Repeat("header\n", DefaultSensorHeaderRows) + row + "\n"

	got, err := ReadSensor(strings.NewReader(in), "s.csv", DefaultSensorHeaderRows)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Mean())
}

func TestReadSensor_ShortRow(t *testing.T) {
	t.Parallel()
	row := "1" + strings.Repeat(",2", pressure.FrameCells-1)
	in := strings.Repeat("header\n", DefaultSensorHeaderRows) + row + "\n"

	_, err := ReadSensor(strings.NewReader(in), "s.csv", DefaultSensorHeaderRows)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 6, pe.Line)
	assert.True(t, errors.Is(err, errShortRow))
}

func TestReadSensor_BadCell(t *testing.T) {
	t.Parallel()
	in := testutil.SensorCSV([]float64{0}, func(_, idx int) float64 { return float64(idx) })
	in = strings.Replace(in, ",17,", ",1x,", 1)

	_, err := ReadSensor(strings.NewReader(in), "s.csv", DefaultSensorHeaderRows)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 18, pe.Column)
}

func TestReadSensor_HeaderOnly(t *testing.T) {
	t.Parallel()
	in := strings.Repeat("header\n", DefaultSensorHeaderRows)

	got, err := ReadSensor(strings.NewReader(in), "s.csv", DefaultSensorHeaderRows)
	require.NoError(t, err)
	assert.Empty(t, got)
}
