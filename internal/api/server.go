// Package api serves stored runs over HTTP.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/pressure-map/internal/db"
	"github.com/banshee-data/pressure-map/internal/httputil"
	"github.com/banshee-data/pressure-map/internal/report"
	"github.com/banshee-data/pressure-map/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// RunStore is the read side of the results database.
type RunStore interface {
	ListRuns(ctx context.Context, limit int) ([]db.Run, error)
	GetRun(ctx context.Context, id string) (db.Run, error)
	ListTrials(ctx context.Context, runID string) ([]db.Trial, error)
	SheetNames(ctx context.Context, runID string) ([]string, error)
	GetSheet(ctx context.Context, runID, name string) (db.Sheet, error)
	GetSheets(ctx context.Context, runID string) ([]db.Sheet, error)
}

type Server struct {
	store RunStore
}

func NewServer(store RunStore) *Server {
	return &Server{store: store}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/version", s.showVersion)
	mux.HandleFunc("GET /api/runs", s.listRuns)
	mux.HandleFunc("GET /api/runs/{id}", s.showRun)
	mux.HandleFunc("GET /api/runs/{id}/grids/{sheet}", s.showGrid)
	mux.HandleFunc("GET /runs/{id}/report", s.showReport)
	return mux
}

// Start serves handler on listen until ctx is cancelled, then shuts down.
func Start(ctx context.Context, listen string, handler http.Handler) error {
	server := &http.Server{
		Addr:    listen,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}
	return nil
}

// writeStoreError maps store errors to status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, err.Error())
		return
	}
	httputil.InternalServerError(w, err.Error())
}

func (s *Server) showVersion(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, version.Get())
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := 100 // default value
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "Invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	httputil.WriteJSONOK(w, runs)
}

// RunDetail is the response body of GET /api/runs/{id}.
type RunDetail struct {
	Run    db.Run     `json:"run"`
	Trials []db.Trial `json:"trials"`
	Sheets []string   `json:"sheets"`
}

func (s *Server) showRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	trials, err := s.store.ListTrials(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	sheets, err := s.store.SheetNames(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	httputil.WriteJSONOK(w, RunDetail{Run: run, Trials: trials, Sheets: sheets})
}

// GridResponse is one sheet in report layout with its band colors.
type GridResponse struct {
	Name   string      `json:"name"`
	Cells  [][]float64 `json:"cells"`
	Colors [][]string  `json:"colors"`
}

func (s *Server) showGrid(w http.ResponseWriter, r *http.Request) {
	stored, err := s.store.GetSheet(r.Context(), r.PathValue("id"), r.PathValue("sheet"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	sheet, err := report.SheetFromRows(stored.Name, stored.Cells)
	if err != nil {
		httputil.InternalServerError(w, err.Error())
		return
	}

	colors := make([][]string, len(sheet.Cells))
	for i, row := range sheet.Cells {
		colors[i] = make([]string, len(row))
		for j, v := range row {
			colors[i][j] = report.BandColor(v)
		}
	}
	httputil.WriteJSONOK(w, GridResponse{Name: sheet.Name, Cells: sheet.Cells, Colors: colors})
}

func (s *Server) showReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.store.GetRun(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	stored, err := s.store.GetSheets(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	sheets := make([]report.Sheet, 0, len(stored))
	for _, st := range stored {
		sh, err := report.SheetFromRows(st.Name, st.Cells)
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return
		}
		sheets = append(sheets, sh)
	}

	var buf bytes.Buffer
	if err := report.WriteHTML(&buf, sheets); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render report: %v", err))
		return
	}
	httputil.WriteHTML(w, buf.Bytes())
}
