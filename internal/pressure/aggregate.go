package pressure

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Average returns the cell-wise mean of grids, rounded to two decimals.
func Average(grids []mat.Matrix) (*mat.Dense, error) {
	if len(grids) == 0 {
		return nil, ErrEmptyAggregate
	}
	rows, cols := grids[0].Dims()
	sum := mat.NewDense(rows, cols, nil)
	for i, g := range grids {
		r, c := g.Dims()
		if r != rows || c != cols {
			return nil, fmt.Errorf("%w: grid %d is %dx%d, want %dx%d", ErrShapeMismatch, i, r, c, rows, cols)
		}
		sum.Add(sum, g)
	}
	n := float64(len(grids))
	sum.Apply(func(_, _ int, v float64) float64 {
		return Round2(v / n)
	}, sum)
	return sum, nil
}

// NamedGrid pairs a grid with the sheet name it is reported under.
type NamedGrid struct {
	Name string
	Grid *mat.Dense
}

// GridSet is an immutable, ordered collection of per-trial grids. With
// returns a new set so the aggregation can be expressed as a fold.
type GridSet struct {
	items []NamedGrid
}

// With returns a copy of s with g appended.
func (s GridSet) With(name string, g *mat.Dense) GridSet {
	items := make([]NamedGrid, len(s.items), len(s.items)+1)
	copy(items, s.items)
	return GridSet{items: append(items, NamedGrid{Name: name, Grid: g})}
}

// Len returns the number of grids in s.
func (s GridSet) Len() int { return len(s.items) }

// Items returns the grids in insertion order.
func (s GridSet) Items() []NamedGrid {
	out := make([]NamedGrid, len(s.items))
	copy(out, s.items)
	return out
}

// Average returns the cell-wise mean of every grid in s.
func (s GridSet) Average() (*mat.Dense, error) {
	grids := make([]mat.Matrix, len(s.items))
	for i, it := range s.items {
		grids[i] = it.Grid
	}
	return Average(grids)
}
