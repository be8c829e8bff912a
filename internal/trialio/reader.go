package trialio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/pressure-map/internal/pressure"
)

const (
	// DefaultPressureHeaderRows is the number of rows preceding data in a
	// reference-pressure file.
	DefaultPressureHeaderRows = 1
	// DefaultSensorHeaderRows is the number of rows preceding data in a
	// sensor file.
	DefaultSensorHeaderRows = 5

	pressureTimeColumn  = 1
	pressureValueColumn = 2
	sensorTimeColumn    = 0
	sensorFirstCell     = 1
)

var errShortRow = errors.New("too few columns")

// rowReader wraps csv.Reader with line tracking and header skipping.
type rowReader struct {
	file string
	r    *csv.Reader
}

func newRowReader(r io.Reader, file string) *rowReader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return &rowReader{file: file, r: cr}
}

func (rr *rowReader) line() int {
	line, _ := rr.r.FieldPos(0)
	return line
}

// skip discards n header rows.
func (rr *rowReader) skip(n int) error {
	for i := 0; i < n; i++ {
		if _, err := rr.r.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return &ParseError{File: rr.file, Line: i + 1, Column: -1, Err: fmt.Errorf("missing header row %d", i+1)}
			}
			return rr.wrap(err)
		}
	}
	return nil
}

// next returns the next data row, or io.EOF.
func (rr *rowReader) next() ([]string, error) {
	rec, err := rr.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, rr.wrap(err)
	}
	return rec, nil
}

func (rr *rowReader) wrap(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{File: rr.file, Line: pe.Line, Column: -1, Err: pe.Err}
	}
	return &ParseError{File: rr.file, Column: -1, Err: err}
}

func (rr *rowReader) float(rec []string, col int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
	if err != nil {
		return 0, &ParseError{File: rr.file, Line: rr.line(), Column: col, Err: err}
	}
	return v, nil
}

// ReadPressure parses a reference-pressure file. headerRows rows are skipped;
// every following row must carry at least index, time and pressure columns.
func ReadPressure(r io.Reader, file string, headerRows int) (pressure.Series, error) {
	rr := newRowReader(r, file)
	if err := rr.skip(headerRows); err != nil {
		return nil, err
	}

	var out pressure.Series
	for {
		rec, err := rr.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if len(rec) <= pressureValueColumn {
			return nil, &ParseError{File: file, Line: rr.line(), Column: -1, Err: fmt.Errorf("%w: got %d, want at least %d", errShortRow, len(rec), pressureValueColumn+1)}
		}
		t, err := rr.float(rec, pressureTimeColumn)
		if err != nil {
			return nil, err
		}
		v, err := rr.float(rec, pressureValueColumn)
		if err != nil {
			return nil, err
		}
		out = append(out, pressure.TimedSample{Value: v, Time: t})
	}
}

// ReadSensor parses a tactile sensor file. headerRows rows are skipped; every
// following row must carry a time column and 256 cell columns. Columns past
// the last cell are ignored.
func ReadSensor(r io.Reader, file string, headerRows int) (pressure.SensorSeries, error) {
	rr := newRowReader(r, file)
	if err := rr.skip(headerRows); err != nil {
		return nil, err
	}

	want := sensorFirstCell + pressure.FrameCells
	var out pressure.SensorSeries
	for {
		rec, err := rr.next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < want {
			return nil, &ParseError{File: file, Line: rr.line(), Column: -1, Err: fmt.Errorf("%w: got %d, want at least %d", errShortRow, len(rec), want)}
		}
		t, err := rr.float(rec, sensorTimeColumn)
		if err != nil {
			return nil, err
		}
		cells := make([]float64, pressure.FrameCells)
		for i := range cells {
			if cells[i], err = rr.float(rec, sensorFirstCell+i); err != nil {
				return nil, err
			}
		}
		out = append(out, pressure.SensorFrame{Time: t, Cells: cells})
	}
}
