// Package report renders named pressure grids as a CSV workbook, an HTML
// heatmap page and one PNG heatmap per sheet. All renderers share the same
// 30-unit color bands and present grids transposed, so that sheet row i,
// column j shows grid cell (j, i).
package report
