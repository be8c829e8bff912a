package report

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandColor(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{-5, White},
		{0, White},
		{0.01, "7030A0"},
		{29.99, "7030A0"},
		{30, "002060"},
		{59.99, "002060"},
		{60, "0070C0"},
		{150, "92D050"},
		{269.99, "FF0000"},
		{270, "C00000"},
		{299.99, "C00000"},
		{300, "C00000"},
		{1000, "C00000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BandColor(tt.v), "BandColor(%v)", tt.v)
	}
}

func TestBandIndex(t *testing.T) {
	assert.Equal(t, -1, BandIndex(0))
	assert.Equal(t, 0, BandIndex(1))
	assert.Equal(t, len(Bands)-1, BandIndex(5000))
}

func TestRGBA(t *testing.T) {
	c, err := RGBA("7030A0")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x70, G: 0x30, B: 0xA0, A: 0xFF}, c)

	_, err = RGBA("12345")
	assert.Error(t, err)
	_, err = RGBA("GGGGGG")
	assert.Error(t, err)
}

func TestBandsParse(t *testing.T) {
	for _, b := range Bands {
		_, err := RGBA(b)
		assert.NoError(t, err, b)
	}
}
