package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pressure-map/internal/monitoring"
	"github.com/banshee-data/pressure-map/internal/pressure"
)

// AverageSheet is the sheet name the aggregate grid is reported under.
const AverageSheet = "平均"

// TrialLoader loads the two series belonging to a named trial.
type TrialLoader interface {
	LoadTrial(name string) (pressure.Series, pressure.SensorSeries, error)
}

// Result holds every per-trial result, in input order, and their average.
type Result struct {
	Trials  []TrialResult
	Grids   pressure.GridSet
	Average *mat.Dense
}

// Sheets returns each trial grid followed by the average, named the way
// reports label them.
func (r *Result) Sheets() []pressure.NamedGrid {
	out := r.Grids.Items()
	if r.Average != nil {
		out = append(out, pressure.NamedGrid{Name: AverageSheet, Grid: r.Average})
	}
	return out
}

// Runner processes a batch of trials.
type Runner struct {
	Loader  TrialLoader
	Options Options
}

// NewRunner returns a Runner reading trials from loader.
func NewRunner(loader TrialLoader, opts Options) *Runner {
	return &Runner{Loader: loader, Options: opts}
}

// Run processes names with up to Options.Workers trials in flight. The first
// failing trial cancels the rest and its error is returned. Grids are folded
// in input order regardless of completion order.
func (r *Runner) Run(ctx context.Context, names []string) (*Result, error) {
	if err := r.Options.Validate(); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no trials: %w", pressure.ErrEmptyAggregate)
	}

	results := make([]TrialResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Options.Workers)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := r.runOne(name)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var set pressure.GridSet
	for _, res := range results {
		set = set.With(res.Name, res.Grid)
	}
	avg, err := set.Average()
	if err != nil {
		return nil, err
	}
	monitoring.Logf("[pipeline] averaged %d trials", set.Len())

	return &Result{Trials: results, Grids: set, Average: avg}, nil
}

func (r *Runner) runOne(file string) (TrialResult, error) {
	trace, sensor, err := r.Loader.LoadTrial(file)
	if err != nil {
		return TrialResult{}, err
	}
	res, err := ProcessTrial(SheetName(file), trace, sensor, r.Options)
	if err != nil {
		return TrialResult{}, err
	}
	return res, nil
}

// SheetName strips the extension from a trial file name.
func SheetName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
