package pressure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func uniformGrid(v float64) *mat.Dense {
	g := mat.NewDense(GridSize, GridSize, nil)
	g.Apply(func(_, _ int, _ float64) float64 { return v }, g)
	return g
}

// linearGrid holds row*16+col in every cell; any centred box mean of it equals
// the centre value.
func linearGrid() *mat.Dense {
	g := mat.NewDense(GridSize, GridSize, nil)
	g.Apply(func(r, c int, _ float64) float64 { return float64(r*GridSize + c) }, g)
	return g
}

func TestSmooth_SizeOneRoundsOnly(t *testing.T) {
	t.Parallel()
	in := mat.NewDense(GridSize, GridSize, nil)
	in.Apply(func(r, c int, _ float64) float64 { return float64(r*GridSize+c) * 1.0137 }, in)

	out, err := Smooth(in, 1)
	require.NoError(t, err)
	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			assert.Equal(t, Round2(in.At(r, c)), out.At(r, c), "cell (%d,%d)", r, c)
		}
	}
}

func TestSmooth_UniformSizeThree(t *testing.T) {
	t.Parallel()
	out, err := Smooth(uniformGrid(7.5), 3)
	require.NoError(t, err)

	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			border := r == 0 || c == 0 || r == GridSize-1 || c == GridSize-1
			want := 7.5
			if border {
				want = 0
			}
			assert.Equal(t, want, out.At(r, c), "cell (%d,%d)", r, c)
		}
	}
}

func TestSmooth_SizeFiveLinear(t *testing.T) {
	t.Parallel()
	in := linearGrid()
	out, err := Smooth(in, 5)
	require.NoError(t, err)

	for r := 0; r < GridSize; r++ {
		for c := 0; c < GridSize; c++ {
			interior := r >= 2 && r < GridSize-2 && c >= 2 && c < GridSize-2
			want := 0.0
			if interior {
				want = in.At(r, c)
			}
			assert.InDelta(t, want, out.At(r, c), 1e-9, "cell (%d,%d)", r, c)
		}
	}
}

func TestSmooth_DoesNotModifyInput(t *testing.T) {
	t.Parallel()
	in := linearGrid()
	_, err := Smooth(in, 3)
	require.NoError(t, err)
	assert.True(t, mat.Equal(in, linearGrid()))
}

func TestSmooth_InvalidWindow(t *testing.T) {
	t.Parallel()
	for _, size := range []int{0, -1, 2, 4} {
		_, err := Smooth(uniformGrid(1), size)
		assert.True(t, errors.Is(err, ErrInvalidWindow), "size %d: %v", size, err)
	}
}

func TestSmooth_WindowLargerThanGrid(t *testing.T) {
	t.Parallel()
	out, err := Smooth(uniformGrid(3), 17)
	require.NoError(t, err)
	assert.Equal(t, 0.0, mat.Sum(out))
}

func TestRound2(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		in, want float64
	}{
		{1.234, 1.23},
		{1.236, 1.24},
		{0.125, 0.12},
		{0.375, 0.38},
		{-1.234, -1.23},
		{10, 10},
		// stored value sits below the tie
		{0.015, 0.01},
		{1.115, 1.11},
		// stored value sits above the tie
		{0.025, 0.03},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Round2(tc.in), "Round2(%v)", tc.in)
	}
}

func TestSmooth_RoundsStoredValue(t *testing.T) {
	t.Parallel()
	out, err := Smooth(uniformGrid(0.025), 1)
	require.NoError(t, err)
	assert.Equal(t, 0.03, out.At(0, 0))
	assert.Equal(t, 0.03, out.At(7, 9))
}

func TestSmooth_AccumulatesRowMajor(t *testing.T) {
	t.Parallel()
	// 2^53 + 1 rounds back to 2^53, so adding left to right loses both ones
	// before the large values cancel; exact arithmetic would leave 2.
	big := float64(1 << 53)
	g := mat.NewDense(GridSize, GridSize, nil)
	g.Set(0, 0, big)
	g.Set(0, 1, 1)
	g.Set(0, 2, 1)
	g.Set(1, 0, -big)

	out, err := Smooth(g, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.At(1, 1))
}
