package pressure

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestAverage_TwoByTwo(t *testing.T) {
	t.Parallel()
	a := mat.NewDense(2, 2, []float64{1, 1, 1, 1})
	b := mat.NewDense(2, 2, []float64{3, 3, 3, 3})

	got, err := Average([]mat.Matrix{a, b})
	require.NoError(t, err)
	assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{2, 2, 2, 2}), got))
}

func TestAverage_Rounds(t *testing.T) {
	t.Parallel()
	a := mat.NewDense(1, 3, []float64{1, 0, 0.01})
	b := mat.NewDense(1, 3, []float64{2, 0, 0})
	c := mat.NewDense(1, 3, []float64{2, 1, 0})

	got, err := Average([]mat.Matrix{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.67, 0.33, 0}, got.RawRowView(0))
}

func TestAverage_Errors(t *testing.T) {
	t.Parallel()

	_, err := Average(nil)
	assert.True(t, errors.Is(err, ErrEmptyAggregate))

	_, err = Average([]mat.Matrix{mat.NewDense(2, 2, nil), mat.NewDense(3, 2, nil)})
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestGridSet(t *testing.T) {
	t.Parallel()

	var empty GridSet
	_, err := empty.Average()
	assert.True(t, errors.Is(err, ErrEmptyAggregate))

	one := empty.With("a", uniformGrid(1))
	two := one.With("b", uniformGrid(3))
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 1, one.Len())
	assert.Equal(t, 2, two.Len())

	names := []string{}
	for _, it := range two.Items() {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"a", "b"}, names)

	avg, err := two.Average()
	require.NoError(t, err)
	assert.True(t, mat.Equal(uniformGrid(2), avg))
}
