// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers and trial file fixtures to
// reduce code duplication across test files.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t testing.TB, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// SensorHeaderRows is the number of header rows SensorCSV emits.
const SensorHeaderRows = 5

// SensorCells is the number of cell columns per sensor row.
const SensorCells = 256

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PressureCSV renders a reference-pressure file: one header row, then
// index,time,pressure rows.
func PressureCSV(times, values []float64) string {
	var b strings.Builder
	b.WriteString("No,Time[sec],Cuff[mmHg]\n")
	for i := range times {
		b.WriteString(strconv.Itoa(i))
		b.WriteByte(',')
		b.WriteString(formatFloat(times[i]))
		b.WriteByte(',')
		b.WriteString(formatFloat(values[i]))
		b.WriteByte('\n')
	}
	return b.String()
}

// SensorCSV renders a sensor file: SensorHeaderRows header rows, then a time
// column and SensorCells cell columns per frame. cell returns the reading of
// one cell in one frame.
func SensorCSV(times []float64, cell func(frame, idx int) float64) string {
	var b strings.Builder
	b.WriteString("Sensor Data\n")
	b.WriteString("Rows,16\n")
	b.WriteString("Columns,16\n")
	b.WriteString("Units,mmHg\n")
	b.WriteString("Time")
	for i := 0; i < SensorCells; i++ {
		b.WriteString(",Elem")
		b.WriteString(strconv.Itoa(i))
	}
	b.WriteByte('\n')
	for f, t := range times {
		b.WriteString(formatFloat(t))
		for i := 0; i < SensorCells; i++ {
			b.WriteByte(',')
			b.WriteString(formatFloat(cell(f, i)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
