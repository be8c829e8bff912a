package report

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PNGSize is the edge length of rendered heatmaps.
var PNGSize = 4 * vg.Inch

// bandPalette maps band index i to Bands[i].
type bandPalette []color.Color

var _ palette.Palette = bandPalette(nil)

func (p bandPalette) Colors() []color.Color { return p }

func newBandPalette() bandPalette {
	p := make(bandPalette, len(Bands))
	for i, b := range Bands {
		p[i] = mustRGBA(b)
	}
	return p
}

// sheetGrid adapts a Sheet to plotter.GridXYZ. Z is the band index; cells
// at or below zero fall below the heatmap minimum and draw as underflow.
type sheetGrid struct {
	s Sheet
}

func (g sheetGrid) Dims() (c, r int) {
	if len(g.s.Cells) == 0 {
		return 0, 0
	}
	return len(g.s.Cells[0]), len(g.s.Cells)
}

// Z flips rows so that sheet row 0 is drawn at the top.
func (g sheetGrid) Z(c, r int) float64 {
	row := len(g.s.Cells) - 1 - r
	return float64(BandIndex(g.s.Cells[row][c]))
}

func (g sheetGrid) X(c int) float64 { return float64(c) }
func (g sheetGrid) Y(r int) float64 { return float64(r) }

// HeatmapPlot builds the gonum plot for one sheet.
func HeatmapPlot(s Sheet) *plot.Plot {
	p := plot.New()
	p.Title.Text = s.Name
	p.X.Label.Text = "col"
	p.Y.Label.Text = "row"

	hm := plotter.NewHeatMap(sheetGrid{s: s}, newBandPalette())
	hm.Min = 0
	hm.Max = float64(len(Bands) - 1)
	hm.Underflow = color.White
	p.Add(hm)
	return p
}

// WritePNG renders s as a PNG heatmap to w.
func WritePNG(w io.Writer, s Sheet) error {
	if len(s.Cells) == 0 {
		return fmt.Errorf("sheet %s is empty", s.Name)
	}
	wt, err := HeatmapPlot(s).WriterTo(PNGSize, PNGSize, "png")
	if err != nil {
		return fmt.Errorf("render %s: %w", s.Name, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", s.Name, err)
	}
	return nil
}
