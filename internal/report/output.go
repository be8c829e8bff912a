package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/banshee-data/pressure-map/internal/fsutil"
	"github.com/banshee-data/pressure-map/internal/monitoring"
	"github.com/banshee-data/pressure-map/internal/security"
)

// Output file names inside the output directory.
const (
	WorkbookFile = "output.xlsx"
	HTMLFile     = "report.html"
	PNGDir       = "png"
)

// Output writes every report artifact for a run into Dir.
type Output struct {
	FS  fsutil.FileSystem
	Dir string
	// SkipPNG disables the per-sheet heatmap images.
	SkipPNG bool
}

// NewOutput returns an Output writing to dir on fsys.
func NewOutput(fsys fsutil.FileSystem, dir string) *Output {
	return &Output{FS: fsys, Dir: dir}
}

// Write renders sheets and returns the paths written.
func (o *Output) Write(sheets []Sheet) ([]string, error) {
	if err := o.FS.MkdirAll(o.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string

	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, sheets); err != nil {
		return nil, err
	}
	path, err := o.save(WorkbookFile, buf.Bytes())
	if err != nil {
		return nil, err
	}
	written = append(written, path)

	buf.Reset()
	if err := WriteHTML(&buf, sheets); err != nil {
		return nil, err
	}
	if path, err = o.save(HTMLFile, buf.Bytes()); err != nil {
		return nil, err
	}
	written = append(written, path)

	if o.SkipPNG {
		return written, nil
	}
	names := PNGNames(sheets)
	for i, s := range sheets {
		buf.Reset()
		if err := WritePNG(&buf, s); err != nil {
			return nil, err
		}
		name := filepath.Join(PNGDir, names[i])
		if path, err = o.save(name, buf.Bytes()); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	return written, nil
}

// PNGNames returns the image file name of each sheet. Names that sanitize
// to the same file, ignoring case, get a numeric suffix in sheet order.
func PNGNames(sheets []Sheet) []string {
	out := make([]string, len(sheets))
	used := make(map[string]bool, len(sheets))
	for i, s := range sheets {
		base := security.SanitizeFilename(s.Name)
		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = base + "-" + strconv.Itoa(n)
		}
		used[strings.ToLower(name)] = true
		out[i] = name + ".png"
	}
	return out
}

func (o *Output) save(name string, data []byte) (string, error) {
	path := filepath.Join(o.Dir, name)
	if err := security.ValidatePathWithinDirectory(path, o.Dir); err != nil {
		return "", err
	}
	if err := o.FS.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := o.FS.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	monitoring.Logf("[report] wrote %s (%d bytes)", path, len(data))
	return path, nil
}
