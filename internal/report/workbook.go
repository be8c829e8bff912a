package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MaxSheetNameLen is the longest worksheet name a workbook accepts.
const MaxSheetNameLen = 31

// WorkbookWriter lays sheets out as worksheets of one xlsx workbook. Every
// cell carries its value and a solid fill in its band color.
type WorkbookWriter struct {
	f      *excelize.File
	styles map[string]int
	used   map[string]bool
	count  int
}

// NewWorkbookWriter returns an empty workbook.
func NewWorkbookWriter() *WorkbookWriter {
	return &WorkbookWriter{
		f:      excelize.NewFile(),
		styles: make(map[string]int),
		used:   make(map[string]bool),
	}
}

// style returns the fill style for a band color, creating it on first use.
func (ww *WorkbookWriter) style(hex string) (int, error) {
	if id, ok := ww.styles[hex]; ok {
		return id, nil
	}
	id, err := ww.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hex}},
	})
	if err != nil {
		return 0, fmt.Errorf("create fill %s: %w", hex, err)
	}
	ww.styles[hex] = id
	return id, nil
}

// WriteSheet adds s as the next worksheet and returns the worksheet name
// used, which differs from s.Name when that is not a valid or unique
// worksheet name.
func (ww *WorkbookWriter) WriteSheet(s Sheet) (string, error) {
	name := ww.uniqueName(WorksheetName(s.Name))

	if ww.count == 0 {
		// a new workbook starts with one default worksheet
		if err := ww.f.SetSheetName(ww.f.GetSheetName(0), name); err != nil {
			return "", err
		}
	} else if _, err := ww.f.NewSheet(name); err != nil {
		return "", err
	}
	ww.count++

	for i, row := range s.Cells {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return "", err
			}
			if err := ww.f.SetCellValue(name, cell, v); err != nil {
				return "", err
			}
			id, err := ww.style(BandColor(v))
			if err != nil {
				return "", err
			}
			if err := ww.f.SetCellStyle(name, cell, cell, id); err != nil {
				return "", err
			}
		}
	}
	return name, nil
}

// uniqueName appends a counter to name until no earlier worksheet uses it.
// Worksheet names compare case-insensitively.
func (ww *WorkbookWriter) uniqueName(name string) string {
	candidate := name
	for n := 2; ww.used[strings.ToLower(candidate)]; n++ {
		suffix := "_" + strconv.Itoa(n)
		candidate = truncateRunes(name, MaxSheetNameLen-len([]rune(suffix))) + suffix
	}
	ww.used[strings.ToLower(candidate)] = true
	return candidate
}

// WriteTo serializes the workbook.
func (ww *WorkbookWriter) WriteTo(w io.Writer) (int64, error) {
	ww.f.SetActiveSheet(0)
	n, err := ww.f.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("write workbook: %w", err)
	}
	return n, nil
}

// Close releases the workbook's resources.
func (ww *WorkbookWriter) Close() error {
	return ww.f.Close()
}

// WriteWorkbook writes every sheet to w as one xlsx workbook.
func WriteWorkbook(w io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("workbook needs at least one sheet")
	}
	ww := NewWorkbookWriter()
	defer ww.Close()

	for _, s := range sheets {
		if _, err := ww.WriteSheet(s); err != nil {
			return fmt.Errorf("write sheet %s: %w", s.Name, err)
		}
	}
	_, err := ww.WriteTo(w)
	return err
}

// WorksheetName maps a sheet name onto the characters and length a
// worksheet name allows.
func WorksheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	name = strings.Trim(name, "'")
	if name == "" {
		name = "sheet"
	}
	return truncateRunes(name, MaxSheetNameLen)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
