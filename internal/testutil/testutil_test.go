package testutil

import (
	"net/http"
	"strings"
	"testing"
)

func TestAssertHelpers_PassingPaths(t *testing.T) {
	t.Parallel()

	AssertStatusCode(t, http.StatusOK, http.StatusOK)
	AssertNoError(t, nil)
	AssertError(t, http.ErrNoCookie)
}

func TestNewTestRequest(t *testing.T) {
	t.Parallel()

	req := NewTestRequest(http.MethodGet, "/api/runs")
	if req.Method != http.MethodGet || req.URL.Path != "/api/runs" {
		t.Errorf("request = %s %s", req.Method, req.URL.Path)
	}
	if rec := NewTestRecorder(); rec.Code != http.StatusOK {
		t.Errorf("recorder default code = %d", rec.Code)
	}
}

func TestPressureCSV(t *testing.T) {
	t.Parallel()

	got := PressureCSV([]float64{0, 0.5}, []float64{10, 12.25})
	want := "No,Time[sec],Cuff[mmHg]\n0,0,10\n1,0.5,12.25\n"
	if got != want {
		t.Errorf("PressureCSV = %q, want %q", got, want)
	}
}

func TestSensorCSV(t *testing.T) {
	t.Parallel()

	got := SensorCSV([]float64{1.5}, func(_, idx int) float64 { return float64(idx) })
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != SensorHeaderRows+1 {
		t.Fatalf("got %d lines, want %d", len(lines), SensorHeaderRows+1)
	}
	fields := strings.Split(lines[SensorHeaderRows], ",")
	if len(fields) != SensorCells+1 {
		t.Fatalf("got %d fields, want %d", len(fields), SensorCells+1)
	}
	if fields[0] != "1.5" || fields[1] != "0" || fields[SensorCells] != "255" {
		t.Errorf("unexpected row fields: %v ... %v", fields[:2], fields[SensorCells])
	}
}
