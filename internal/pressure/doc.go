// Package pressure owns the signal-alignment and spatial-smoothing core.
//
// Responsibilities: noise-filtered peak detection on a reference pressure
// trace, target-pressure crossing detection, alignment of the crossing onto an
// independently sampled tactile sensor series, reshaping the selected 256-cell
// snapshot into a 16x16 grid, box smoothing, and cell-wise aggregation.
// Key types: Series, SensorSeries, Detector, Alignment, GridSet.
//
// Grids are gonum *mat.Dense values. No file or database code is allowed in
// this package.
package pressure
