package pressure

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// FrameIndex returns the snapshot index that Reshape places at (row, col).
func FrameIndex(row, col int) int {
	return row*GridSize + (GridSize - 1 - col)
}

// Reshape lays a 256-value snapshot out as a 16x16 grid, row-major with the
// column order mirrored inside each row.
func Reshape(values []float64) (*mat.Dense, error) {
	if len(values) != FrameCells {
		return nil, fmt.Errorf("%w: got %d", ErrSnapshotLength, len(values))
	}
	g := mat.NewDense(GridSize, GridSize, nil)
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			g.Set(row, col, values[FrameIndex(row, col)])
		}
	}
	return g, nil
}

// Flatten is the inverse of Reshape.
func Flatten(g mat.Matrix) ([]float64, error) {
	r, c := g.Dims()
	if r != GridSize || c != GridSize {
		return nil, fmt.Errorf("%w: got %dx%d", ErrShapeMismatch, r, c)
	}
	out := make([]float64, FrameCells)
	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			out[FrameIndex(row, col)] = g.At(row, col)
		}
	}
	return out, nil
}

// Rows copies g into a [][]float64, row-major.
func Rows(g mat.Matrix) [][]float64 {
	r, c := g.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		for j := range out[i] {
			out[i][j] = g.At(i, j)
		}
	}
	return out
}
