package pressure

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Smooth box-averages every cell whose size x size neighbourhood fits inside
// the grid, rounding each mean to two decimals. Cells too close to the edge
// for a full window are zero in the result, not copies of the input.
func Smooth(in mat.Matrix, size int) (*mat.Dense, error) {
	if size < 1 || size%2 == 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindow, size)
	}
	src := mat.DenseCopyOf(in)
	rows, cols := src.Dims()
	out := mat.NewDense(rows, cols, nil)

	half := (size - 1) / 2
	area := float64(size * size)
	for y := half; y < rows-half; y++ {
		for x := half; x < cols-half; x++ {
			out.Set(y, x, Round2(windowSum(src, y, x, half)/area))
		}
	}
	return out, nil
}

// windowSum adds the neighbourhood of (y, x) one cell at a time in row-major
// order.
func windowSum(g *mat.Dense, y, x, half int) float64 {
	var sum float64
	for r := y - half; r <= y+half; r++ {
		for c := x - half; c <= x+half; c++ {
			sum += g.At(r, c)
		}
	}
	return sum
}
