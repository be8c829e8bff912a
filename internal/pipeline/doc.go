// Package pipeline turns paired trial files into smoothed pressure grids and
// folds them into the run average.
package pipeline
