package db

import (
	"path/filepath"
	"testing"
	"time"
)

// setupTestDB opens a fresh migrated database in a temp dir.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// sampleRecord builds a run with two trials and three 2x2 sheets.
func sampleRecord(started time.Time) *RunRecord {
	return &RunRecord{
		Run: Run{
			StartedAt:      started,
			FinishedAt:     started.Add(2 * time.Second),
			TargetPress:    50,
			AverageSize:    3,
			NoiseThreshold: 1,
			PressureDir:    "EG1データ",
			SensorDir:      "面圧データ",
			OutputDir:      "out",
			TrialCount:     2,
		},
		Trials: []Trial{
			{Name: "b", PeakValue: 100, PeakTime: 5, CrossingTime: 8, Crossed: true, Elapsed: 3, SensorPeak: 50, SensorPeakTime: 4, TargetTime: 7, SnapshotTime: 7.25},
			{Name: "a", PeakValue: 90, PeakTime: 4, Elapsed: -4, SensorPeakTime: 2, TargetTime: -2},
		},
		Sheets: []Sheet{
			{Name: "b", Cells: [][]float64{{1, 2}, {3, 4}}},
			{Name: "a", Cells: [][]float64{{5, 6}, {7, 8}}},
			{Name: "平均", Cells: [][]float64{{3, 4}, {5, 6}}},
		},
	}
}
