package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// HeatmapChart renders one sheet as a colored scatter, one square per cell.
// Series values are band indices so the visual map reproduces the fixed
// bands; the raw pressure is carried as the fourth value for the tooltip.
func HeatmapChart(s Sheet) *charts.Scatter {
	data := make([]opts.ScatterData, 0, len(s.Cells)*len(s.Cells))
	for i, row := range s.Cells {
		for j, v := range row {
			// spreadsheet rows run top to bottom
			y := len(s.Cells) - 1 - i
			data = append(data, opts.ScatterData{Value: []interface{}{j, y, BandIndex(v), v}})
		}
	}

	colors := append([]string{"#" + White}, cssColors()...)

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Pressure Map", Width: "480px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: s.Name, Subtitle: fmt.Sprintf("cells=%d", len(data))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -1, Max: len(s.Cells), Name: "col"}),
		charts.WithYAxisOpts(opts.YAxis{Min: -1, Max: len(s.Cells), Name: "row"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:      opts.Bool(false),
			Min:       -1,
			Max:       float32(len(Bands) - 1),
			Dimension: "2",
			InRange:   &opts.VisualMapInRange{Color: colors},
		}),
	)
	scatter.AddSeries(s.Name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 24}))
	return scatter
}

// WriteHTML renders every sheet onto one page.
func WriteHTML(w io.Writer, sheets []Sheet) error {
	page := components.NewPage()
	for _, s := range sheets {
		page.AddCharts(HeatmapChart(s))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report page: %w", err)
	}
	return nil
}
