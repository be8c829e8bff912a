// Package batch wires one run end to end: pair trial files, process them,
// write the report artifacts and optionally record the run.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/banshee-data/pressure-map/internal/config"
	"github.com/banshee-data/pressure-map/internal/db"
	"github.com/banshee-data/pressure-map/internal/fsutil"
	"github.com/banshee-data/pressure-map/internal/monitoring"
	"github.com/banshee-data/pressure-map/internal/pipeline"
	"github.com/banshee-data/pressure-map/internal/pressure"
	"github.com/banshee-data/pressure-map/internal/report"
	"github.com/banshee-data/pressure-map/internal/timeutil"
	"github.com/banshee-data/pressure-map/internal/trialio"
)

// RunWriter persists a finished run.
type RunWriter interface {
	InsertRun(ctx context.Context, rec *db.RunRecord) (string, error)
}

// Deps are the collaborators a run needs. Store may be nil.
type Deps struct {
	FS      fsutil.FileSystem
	Clock   timeutil.Clock
	Store   RunWriter
	SkipPNG bool
}

// Summary describes a completed run.
type Summary struct {
	RunID    string
	Files    []string
	Written  []string
	Result   *pipeline.Result
	Started  time.Time
	Finished time.Time
}

// OptionsFromConfig maps the analysis settings of cfg onto pipeline options.
func OptionsFromConfig(cfg *config.RunConfig) pipeline.Options {
	return pipeline.Options{
		TargetPress:    cfg.GetTargetPress(),
		AverageSize:    cfg.GetAverageSize(),
		NoiseThreshold: cfg.GetNoiseThreshold(),
		StrictPeak:     cfg.GetStrictPeak(),
		Workers:        cfg.GetWorkers(),
	}
}

// Run executes one batch described by cfg.
func Run(ctx context.Context, cfg *config.RunConfig, deps Deps) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if deps.Clock == nil {
		deps.Clock = timeutil.RealClock{}
	}
	sum := &Summary{Started: deps.Clock.Now()}

	src := trialio.NewSource(deps.FS, cfg.GetPressureDir(), cfg.GetSensorDir())
	src.PressureHeaderRows = cfg.GetPressureHeaderRows()
	src.SensorHeaderRows = cfg.GetSensorHeaderRows()

	files, err := src.Pair(cfg.GetExtension())
	if err != nil {
		return nil, fmt.Errorf("pair trial files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no trial files with extension %q in both %s and %s: %w",
			cfg.GetExtension(), cfg.GetPressureDir(), cfg.GetSensorDir(), pressure.ErrEmptyAggregate)
	}
	sum.Files = files
	monitoring.Logf("[batch] %d paired trials", len(files))

	res, err := pipeline.NewRunner(src, OptionsFromConfig(cfg)).Run(ctx, files)
	if err != nil {
		return nil, err
	}
	sum.Result = res

	out := report.NewOutput(deps.FS, cfg.GetOutputDir())
	out.SkipPNG = deps.SkipPNG
	if sum.Written, err = out.Write(report.Sheets(res.Sheets())); err != nil {
		return nil, err
	}
	sum.Finished = deps.Clock.Now()

	if deps.Store != nil {
		rec := NewRecord(cfg, sum)
		if sum.RunID, err = deps.Store.InsertRun(ctx, rec); err != nil {
			return nil, fmt.Errorf("record run: %w", err)
		}
		monitoring.Logf("[batch] recorded run %s", sum.RunID)
	}
	return sum, nil
}

// NewRecord converts a finished run into its stored form. Sheets are stored
// in grid orientation, rows[r][c] = grid(r, c).
func NewRecord(cfg *config.RunConfig, sum *Summary) *db.RunRecord {
	rec := &db.RunRecord{
		Run: db.Run{
			ID:             sum.RunID,
			StartedAt:      sum.Started,
			FinishedAt:     sum.Finished,
			TargetPress:    cfg.GetTargetPress(),
			AverageSize:    cfg.GetAverageSize(),
			NoiseThreshold: cfg.GetNoiseThreshold(),
			PressureDir:    cfg.GetPressureDir(),
			SensorDir:      cfg.GetSensorDir(),
			OutputDir:      cfg.GetOutputDir(),
			TrialCount:     len(sum.Result.Trials),
		},
	}
	for i, t := range sum.Result.Trials {
		a := t.Alignment
		rec.Trials = append(rec.Trials, db.Trial{
			Seq:            i,
			Name:           t.Name,
			PeakValue:      a.TracePeak.Value,
			PeakTime:       a.TracePeak.Time,
			CrossingTime:   a.CrossingTime,
			Crossed:        a.Crossed,
			Elapsed:        a.Elapsed,
			SensorPeak:     a.SensorPeak.Value,
			SensorPeakTime: a.SensorPeak.Time,
			TargetTime:     a.TargetTime,
			SnapshotTime:   a.Frame.Time,
		})
	}
	for _, g := range sum.Result.Sheets() {
		rec.Sheets = append(rec.Sheets, db.Sheet{Name: g.Name, Cells: pressure.Rows(g.Grid)})
	}
	return rec
}
