package report

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pressure-map/internal/pressure"
)

// Sheet is a grid laid out as it appears in the report: Cells[i][j] holds
// grid cell (j, i).
type Sheet struct {
	Name  string
	Cells [][]float64
}

// NewSheet transposes g into a Sheet.
func NewSheet(name string, g mat.Matrix) Sheet {
	return Sheet{Name: name, Cells: pressure.Rows(g.T())}
}

// Sheets converts named grids in order.
func Sheets(grids []pressure.NamedGrid) []Sheet {
	out := make([]Sheet, len(grids))
	for i, g := range grids {
		out[i] = NewSheet(g.Name, g.Grid)
	}
	return out
}

// SheetFromRows builds a Sheet from grid rows as stored, rows[r][c].
func SheetFromRows(name string, rows [][]float64) (Sheet, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Sheet{}, fmt.Errorf("sheet %s is empty", name)
	}
	cols := len(rows[0])
	g := mat.NewDense(len(rows), cols, nil)
	for i, row := range rows {
		if len(row) != cols {
			return Sheet{}, fmt.Errorf("sheet %s: row %d has %d cells, want %d", name, i, len(row), cols)
		}
		g.SetRow(i, row)
	}
	return NewSheet(name, g), nil
}
