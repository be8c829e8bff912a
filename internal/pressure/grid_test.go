package pressure

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"
)

func sequential(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

func TestReshape_MirrorsColumns(t *testing.T) {
	g, err := Reshape(sequential(FrameCells))
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}

	checks := []struct {
		row, col int
		want     float64
	}{
		{0, 0, 15},
		{0, 15, 0},
		{1, 0, 31},
		{15, 15, 240},
		{15, 0, 255},
	}
	for _, c := range checks {
		if got := g.At(c.row, c.col); got != c.want {
			t.Errorf("grid[%d][%d] = %v, want %v", c.row, c.col, got, c.want)
		}
	}
}

func TestReshape_RoundTrip(t *testing.T) {
	in := sequential(FrameCells)
	g, err := Reshape(in)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}

	for row := 0; row < GridSize; row++ {
		for col := 0; col < GridSize; col++ {
			if got, want := g.At(row, col), in[FrameIndex(row, col)]; got != want {
				t.Fatalf("grid[%d][%d] = %v, want %v", row, col, got, want)
			}
		}
	}

	out, err := Flatten(g)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("Flatten(Reshape(x)) mismatch (-want +got):\n%s", diff)
	}
}

func TestReshape_WrongLength(t *testing.T) {
	for _, n := range []int{0, 255, 257} {
		if _, err := Reshape(sequential(n)); !errors.Is(err, ErrSnapshotLength) {
			t.Errorf("Reshape(len=%d) error = %v, want ErrSnapshotLength", n, err)
		}
	}
}

func TestFlatten_WrongShape(t *testing.T) {
	if _, err := Flatten(mat.NewDense(2, 2, nil)); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Flatten(2x2) error = %v, want ErrShapeMismatch", err)
	}
}

func TestRows(t *testing.T) {
	got := Rows(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}))
	want := [][]float64{{1, 2, 3}, {4, 5, 6}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}
