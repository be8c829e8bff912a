package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pressure-map/internal/db"
	"github.com/banshee-data/pressure-map/internal/testutil"
	"github.com/banshee-data/pressure-map/internal/version"
)

func setupTestServer(t *testing.T) (*Server, *db.DB, string) {
	t.Helper()
	dbInst, err := db.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { dbInst.Close() })

	rec := &db.RunRecord{
		Run: db.Run{
			StartedAt:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			FinishedAt:  time.Date(2026, 3, 1, 9, 0, 1, 0, time.UTC),
			TargetPress: 50,
			AverageSize: 3,
			TrialCount:  1,
		},
		Trials: []db.Trial{{Name: "t1", PeakValue: 100, PeakTime: 5, SnapshotTime: 7.25}},
		Sheets: []db.Sheet{
			{Name: "t1", Cells: [][]float64{{0, 45}, {310, 10}}},
			{Name: "平均", Cells: [][]float64{{0, 45}, {310, 10}}},
		},
	}
	id, err := dbInst.InsertRun(context.Background(), rec)
	require.NoError(t, err)
	return NewServer(dbInst), dbInst, id
}

func serve(s *Server, path string) *httptest.ResponseRecorder {
	req := testutil.NewTestRequest(http.MethodGet, path)
	w := testutil.NewTestRecorder()
	s.ServeMux().ServeHTTP(w, req)
	return w
}

func TestListRuns(t *testing.T) {
	s, _, id := setupTestServer(t)

	w := serve(s, "/api/runs")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var runs []db.Run
	require.NoError(t, json.NewDecoder(w.Body).Decode(&runs))
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
}

func TestListRuns_BadLimit(t *testing.T) {
	s, _, _ := setupTestServer(t)
	for _, q := range []string{"0", "-1", "abc"} {
		w := serve(s, "/api/runs?limit="+q)
		testutil.AssertStatusCode(t, w.Code, http.StatusBadRequest)
	}
}

func TestShowRun(t *testing.T) {
	s, _, id := setupTestServer(t)

	w := serve(s, "/api/runs/"+id)
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)

	var detail RunDetail
	require.NoError(t, json.NewDecoder(w.Body).Decode(&detail))
	assert.Equal(t, id, detail.Run.ID)
	require.Len(t, detail.Trials, 1)
	assert.Equal(t, "t1", detail.Trials[0].Name)
	assert.Equal(t, []string{"t1", "平均"}, detail.Sheets)
}

func TestShowRun_NotFound(t *testing.T) {
	s, _, _ := setupTestServer(t)
	w := serve(s, "/api/runs/does-not-exist")
	testutil.AssertStatusCode(t, w.Code, http.StatusNotFound)
}

func TestShowGrid(t *testing.T) {
	s, _, id := setupTestServer(t)

	w := serve(s, "/api/runs/"+id+"/grids/"+url.PathEscape("平均"))
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)

	var grid GridResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&grid))
	assert.Equal(t, "平均", grid.Name)
	// report layout is transposed
	assert.Equal(t, [][]float64{{0, 310}, {45, 10}}, grid.Cells)
	assert.Equal(t, [][]string{{"FFFFFF", "C00000"}, {"002060", "7030A0"}}, grid.Colors)
}

func TestShowGrid_UnknownSheet(t *testing.T) {
	s, _, id := setupTestServer(t)
	w := serve(s, "/api/runs/"+id+"/grids/nope")
	testutil.AssertStatusCode(t, w.Code, http.StatusNotFound)
}

func TestShowReport(t *testing.T) {
	s, _, id := setupTestServer(t)

	w := serve(s, "/runs/"+id+"/report")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "t1")

	w = serve(s, "/runs/missing/report")
	testutil.AssertStatusCode(t, w.Code, http.StatusNotFound)
}

func TestShowVersion(t *testing.T) {
	s, _, _ := setupTestServer(t)
	w := serve(s, "/api/version")
	testutil.AssertStatusCode(t, w.Code, http.StatusOK)

	var info version.Info
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	assert.Equal(t, version.Version, info.Version)
}

func TestMethodNotAllowed(t *testing.T) {
	s, _, _ := setupTestServer(t)
	req := testutil.NewTestRequest(http.MethodPost, "/api/runs")
	w := testutil.NewTestRecorder()
	s.ServeMux().ServeHTTP(w, req)
	testutil.AssertStatusCode(t, w.Code, http.StatusMethodNotAllowed)
}

func TestLoggingMiddleware(t *testing.T) {
	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	w := testutil.NewTestRecorder()
	h.ServeHTTP(w, testutil.NewTestRequest(http.MethodGet, "/x"))
	testutil.AssertStatusCode(t, w.Code, http.StatusTeapot)
}

func TestStatusCodeColor(t *testing.T) {
	assert.True(t, strings.Contains(statusCodeColor(200), "200"))
	assert.True(t, strings.HasPrefix(statusCodeColor(201), colorBoldGreen))
	assert.True(t, strings.HasPrefix(statusCodeColor(302), colorYellow))
	assert.True(t, strings.HasPrefix(statusCodeColor(404), colorBoldRed))
	assert.True(t, strings.HasPrefix(statusCodeColor(500), colorBoldRed))
	assert.Equal(t, "100", statusCodeColor(100))
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Start(ctx, "127.0.0.1:0", http.NewServeMux()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
