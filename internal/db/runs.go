package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a run or sheet does not exist.
var ErrNotFound = errors.New("not found")

// Run is one batch execution and the settings it ran with.
type Run struct {
	ID             string    `json:"run_id"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	TargetPress    float64   `json:"target_press"`
	AverageSize    int       `json:"average_size"`
	NoiseThreshold float64   `json:"noise_threshold"`
	PressureDir    string    `json:"pressure_dir"`
	SensorDir      string    `json:"sensor_dir"`
	OutputDir      string    `json:"output_dir"`
	TrialCount     int       `json:"trial_count"`
}

// Trial holds the timing decisions made for one trial of a run.
type Trial struct {
	Seq            int     `json:"seq"`
	Name           string  `json:"name"`
	PeakValue      float64 `json:"peak_value"`
	PeakTime       float64 `json:"peak_time"`
	CrossingTime   float64 `json:"crossing_time"`
	Crossed        bool    `json:"crossed"`
	Elapsed        float64 `json:"elapsed"`
	SensorPeak     float64 `json:"sensor_peak"`
	SensorPeakTime float64 `json:"sensor_peak_time"`
	TargetTime     float64 `json:"target_time"`
	SnapshotTime   float64 `json:"snapshot_time"`
}

// Sheet is a named grid as stored, Cells[row][col].
type Sheet struct {
	Name  string      `json:"name"`
	Cells [][]float64 `json:"cells"`
}

// RunRecord is everything persisted for one run.
type RunRecord struct {
	Run    Run
	Trials []Trial
	Sheets []Sheet
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// InsertRun stores rec in a single transaction. A missing run ID is filled in
// and returned.
func (db *DB) InsertRun(ctx context.Context, rec *RunRecord) (string, error) {
	if rec.Run.ID == "" {
		rec.Run.ID = NewRunID()
	}
	r := rec.Run

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (
			run_id, started_at, finished_at, target_press, average_size,
			noise_threshold, pressure_dir, sensor_dir, output_dir, trial_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UnixNano(), r.FinishedAt.UnixNano(), r.TargetPress, r.AverageSize,
		r.NoiseThreshold, r.PressureDir, r.SensorDir, r.OutputDir, r.TrialCount,
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	trialStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trials (
			run_id, seq, name, peak_value, peak_time, crossing_time, crossed,
			elapsed, sensor_peak, sensor_peak_time, target_time, snapshot_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer trialStmt.Close()
	for i, t := range rec.Trials {
		if _, err := trialStmt.ExecContext(ctx,
			r.ID, i, t.Name, t.PeakValue, t.PeakTime, t.CrossingTime, t.Crossed,
			t.Elapsed, t.SensorPeak, t.SensorPeakTime, t.TargetTime, t.SnapshotTime,
		); err != nil {
			return "", fmt.Errorf("insert trial %s: %w", t.Name, err)
		}
	}

	cellStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO grid_cells (run_id, sheet, seq, row, col, value) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer cellStmt.Close()
	for seq, s := range rec.Sheets {
		for i, row := range s.Cells {
			for j, v := range row {
				if _, err := cellStmt.ExecContext(ctx, r.ID, s.Name, seq, i, j, v); err != nil {
					return "", fmt.Errorf("insert sheet %s: %w", s.Name, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return r.ID, nil
}

const runColumns = `run_id, started_at, finished_at, target_press, average_size,
	noise_threshold, pressure_dir, sensor_dir, output_dir, trial_count`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		r                 Run
		started, finished int64
	)
	if err := s.Scan(&r.ID, &started, &finished, &r.TargetPress, &r.AverageSize,
		&r.NoiseThreshold, &r.PressureDir, &r.SensorDir, &r.OutputDir, &r.TrialCount); err != nil {
		return Run{}, err
	}
	r.StartedAt = time.Unix(0, started).UTC()
	r.FinishedAt = time.Unix(0, finished).UTC()
	return r, nil
}

// ListRuns returns up to limit runs, newest first.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given ID.
func (db *DB) GetRun(ctx context.Context, id string) (Run, error) {
	r, err := scanRun(db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return r, err
}

// ListTrials returns the trials of a run in processing order.
func (db *DB) ListTrials(ctx context.Context, runID string) ([]Trial, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT seq, name, peak_value, peak_time, crossing_time, crossed, elapsed,
			sensor_peak, sensor_peak_time, target_time, snapshot_time
		FROM trials WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trials := []Trial{}
	for rows.Next() {
		var t Trial
		if err := rows.Scan(&t.Seq, &t.Name, &t.PeakValue, &t.PeakTime, &t.CrossingTime, &t.Crossed,
			&t.Elapsed, &t.SensorPeak, &t.SensorPeakTime, &t.TargetTime, &t.SnapshotTime); err != nil {
			return nil, err
		}
		trials = append(trials, t)
	}
	return trials, rows.Err()
}

// SheetNames returns the sheet names of a run in report order.
func (db *DB) SheetNames(ctx context.Context, runID string) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT sheet FROM grid_cells WHERE run_id = ? GROUP BY sheet, seq ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// GetSheet returns one stored sheet of a run.
func (db *DB) GetSheet(ctx context.Context, runID, name string) (Sheet, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT row, col, value FROM grid_cells WHERE run_id = ? AND sheet = ? ORDER BY row, col`,
		runID, name)
	if err != nil {
		return Sheet{}, err
	}
	defer rows.Close()

	s := Sheet{Name: name}
	for rows.Next() {
		var (
			i, j int
			v    float64
		)
		if err := rows.Scan(&i, &j, &v); err != nil {
			return Sheet{}, err
		}
		for len(s.Cells) <= i {
			s.Cells = append(s.Cells, nil)
		}
		for len(s.Cells[i]) <= j {
			s.Cells[i] = append(s.Cells[i], 0)
		}
		s.Cells[i][j] = v
	}
	if err := rows.Err(); err != nil {
		return Sheet{}, err
	}
	if len(s.Cells) == 0 {
		return Sheet{}, fmt.Errorf("sheet %s of run %s: %w", name, runID, ErrNotFound)
	}
	return s, nil
}

// GetSheets returns every sheet of a run in report order.
func (db *DB) GetSheets(ctx context.Context, runID string) ([]Sheet, error) {
	names, err := db.SheetNames(ctx, runID)
	if err != nil {
		return nil, err
	}
	sheets := make([]Sheet, 0, len(names))
	for _, n := range names {
		s, err := db.GetSheet(ctx, runID, n)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	return sheets, nil
}
