package report

import (
	"fmt"
	"image/color"
	"strconv"
)

// BandWidth is the pressure span covered by one color band.
const BandWidth = 30.0

// White is used for cells at or below zero.
const White = "FFFFFF"

// Bands lists the band fill colors from lowest to highest pressure.
var Bands = [...]string{
	"7030A0", "002060", "0070C0", "00B0F0", "00B050",
	"92D050", "FFFF00", "FFC000", "FF0000", "C00000",
}

// BandIndex returns the band a value falls in, or -1 for values at or below
// zero. Values at or above the top of the scale clamp to the last band.
func BandIndex(v float64) int {
	switch {
	case v <= 0:
		return -1
	case v >= BandWidth*float64(len(Bands)):
		return len(Bands) - 1
	}
	return int(v / BandWidth)
}

// BandColor returns the hex fill color (no leading '#') for v.
func BandColor(v float64) string {
	i := BandIndex(v)
	if i < 0 {
		return White
	}
	return Bands[i]
}

// RGBA parses a six digit hex color.
func RGBA(hex string) (color.RGBA, error) {
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("parse color %q: want 6 hex digits", hex)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}, nil
}

func mustRGBA(hex string) color.RGBA {
	c, err := RGBA(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// cssColors returns the band colors as CSS hex strings.
func cssColors() []string {
	out := make([]string, len(Bands))
	for i, b := range Bands {
		out[i] = "#" + b
	}
	return out
}
