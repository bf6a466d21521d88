package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pthm-cable/towerblocks/config"
)

// csvLog is a CSV file whose header is written with the first record.
type csvLog struct {
	name          string
	file          *os.File
	headerWritten bool
}

func openCSV(dir, name string) (*csvLog, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvLog{name: name, file: f}, nil
}

// write appends records, a slice of csv-tagged structs.
func (c *csvLog) write(records any) error {
	var err error
	if !c.headerWritten {
		err = gocsv.Marshal(records, c.file)
		c.headerWritten = err == nil
	} else {
		err = gocsv.MarshalWithoutHeaders(records, c.file)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", c.name, err)
	}
	return nil
}

// OutputManager writes diagnostics for a run. Nothing it writes is read back.
type OutputManager struct {
	dir    string
	lives  *csvLog
	sensor *csvLog
	perf   *csvLog
}

// NewOutputManager creates the output directory and files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, f := range []struct {
		name string
		dst  **csvLog
	}{
		{"lives.csv", &om.lives},
		{"sensor.csv", &om.sensor},
		{"perf.csv", &om.perf},
	} {
		log, err := openCSV(dir, f.name)
		if err != nil {
			om.Close()
			return nil, err
		}
		*f.dst = log
	}
	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteLife appends a life record to lives.csv.
func (om *OutputManager) WriteLife(r LifeRecord) error {
	if om == nil {
		return nil
	}
	return om.lives.write([]LifeRecord{r})
}

// WriteSensor appends a window record to sensor.csv.
func (om *OutputManager) WriteSensor(w SensorWindow) error {
	if om == nil {
		return nil
	}
	return om.sensor.write([]SensorWindow{w})
}

// WritePerf appends a performance record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd uint64) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)})
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, c := range []*csvLog{om.lives, om.sensor, om.perf} {
		if c == nil {
			continue
		}
		if err := c.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
