package trialio

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/banshee-data/pressure-map/internal/fsutil"
	"github.com/banshee-data/pressure-map/internal/monitoring"
	"github.com/banshee-data/pressure-map/internal/pressure"
)

// Source reads trials from a reference-pressure directory and a sensor
// directory that share file names.
type Source struct {
	FS                 fsutil.FileSystem
	PressureDir        string
	SensorDir          string
	PressureHeaderRows int
	SensorHeaderRows   int
}

// NewSource returns a Source over fsys with the default header row counts.
func NewSource(fsys fsutil.FileSystem, pressureDir, sensorDir string) *Source {
	return &Source{
		FS:                 fsys,
		PressureDir:        pressureDir,
		SensorDir:          sensorDir,
		PressureHeaderRows: DefaultPressureHeaderRows,
		SensorHeaderRows:   DefaultSensorHeaderRows,
	}
}

// Pair returns the sorted names present in both directories whose name
// contains "."+extension. Unmatched files are silently excluded.
func (s *Source) Pair(extension string) ([]string, error) {
	left, err := s.names(s.PressureDir)
	if err != nil {
		return nil, err
	}
	right, err := s.names(s.SensorDir)
	if err != nil {
		return nil, err
	}

	suffix := "." + strings.TrimPrefix(extension, ".")
	var out []string
	for name := range left {
		if _, ok := right[name]; ok && strings.Contains(name, suffix) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Source) names(dir string) (map[string]struct{}, error) {
	entries, err := s.FS.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	out := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		out[e.Name()] = struct{}{}
	}
	return out, nil
}

// LoadTrial reads both files of the named trial. Each file is closed as soon
// as it has been parsed.
func (s *Source) LoadTrial(name string) (pressure.Series, pressure.SensorSeries, error) {
	trace, err := s.loadPressure(filepath.Join(s.PressureDir, name))
	if err != nil {
		return nil, nil, err
	}
	sensor, err := s.loadSensor(filepath.Join(s.SensorDir, name))
	if err != nil {
		return nil, nil, err
	}
	monitoring.Logf("[trialio] loaded trial %s: %d pressure samples, %d sensor frames", name, len(trace), len(sensor))
	return trace, sensor, nil
}

func (s *Source) loadPressure(path string) (pressure.Series, error) {
	f, err := s.FS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pressure file: %w", err)
	}
	defer f.Close()
	return ReadPressure(f, path, s.PressureHeaderRows)
}

func (s *Source) loadSensor(path string) (pressure.SensorSeries, error) {
	f, err := s.FS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sensor file: %w", err)
	}
	defer f.Close()
	return ReadSensor(f, path, s.SensorHeaderRows)
}
