package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/scroggo/frogjump/config"
)

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir         string
	windowsFile *os.File
	eventsFile  *os.File
	perfFile    *os.File

	// Track if headers have been written
	windowsHeaderWritten bool
	eventsHeaderWritten  bool
	perfHeaderWritten    bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "windows.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating windows.csv: %w", err)
	}
	om.windowsFile = f

	f, err = os.Create(filepath.Join(dir, "events.csv"))
	if err != nil {
		om.windowsFile.Close()
		return nil, fmt.Errorf("creating events.csv: %w", err)
	}
	om.eventsFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.windowsFile.Close()
		om.eventsFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteWindow writes a window stats record to windows.csv.
func (om *OutputManager) WriteWindow(stats WindowStats) error {
	if om == nil {
		return nil
	}
	records := []WindowStats{stats}
	if !om.windowsHeaderWritten {
		if err := gocsv.Marshal(records, om.windowsFile); err != nil {
			return fmt.Errorf("writing windows: %w", err)
		}
		om.windowsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.windowsFile); err != nil {
			return fmt.Errorf("writing windows: %w", err)
		}
	}
	return nil
}

// WriteEvents appends events to events.csv.
func (om *OutputManager) WriteEvents(events []Event) error {
	if om == nil || len(events) == 0 {
		return nil
	}
	if !om.eventsHeaderWritten {
		if err := gocsv.Marshal(events, om.eventsFile); err != nil {
			return fmt.Errorf("writing events: %w", err)
		}
		om.eventsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(events, om.eventsFile); err != nil {
			return fmt.Errorf("writing events: %w", err)
		}
	}
	return nil
}

// WritePerf writes a perf record to perf.csv.
func (om *OutputManager) WritePerf(record PerfRecord) error {
	if om == nil {
		return nil
	}
	records := []PerfRecord{record}
	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}
	return nil
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, f := range []*os.File{om.windowsFile, om.eventsFile, om.perfFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
