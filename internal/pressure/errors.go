package pressure

import "errors"

var (
	// ErrNoPeakDetected indicates no interior sample passed the noise check.
	ErrNoPeakDetected = errors.New("pressure: no stable peak detected")
	// ErrAlignment indicates no sensor frame was recorded at or after the target time.
	ErrAlignment = errors.New("pressure: no sensor frame at or after target time")
	// ErrSnapshotLength indicates a snapshot does not hold exactly FrameCells values.
	ErrSnapshotLength = errors.New("pressure: snapshot must hold exactly 256 values")
	// ErrInvalidWindow indicates a smoothing window that is not a positive odd size.
	ErrInvalidWindow = errors.New("pressure: smoothing window must be a positive odd size")
	// ErrEmptyAggregate indicates an average was requested over zero grids.
	ErrEmptyAggregate = errors.New("pressure: cannot average an empty grid set")
	// ErrShapeMismatch indicates grids of differing dimensions in one aggregate.
	ErrShapeMismatch = errors.New("pressure: all grids must have the same dimensions")
)
