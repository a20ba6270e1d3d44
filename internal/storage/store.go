package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/flocksim/internal/config"
	"github.com/san-kum/flocksim/internal/sim"
	"github.com/san-kum/flocksim/internal/snapshot"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	metricsFile  = "metrics.csv"
	finalFile    = "final.json"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Config    config.Config      `json:"config"`
	Frames    int                `json:"frames"`
	Elapsed   float64            `json:"elapsed_seconds"`
	FPS       float64            `json:"fps"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save creates a new run directory holding the metadata, the sampled metric series and,
// if final is not nil, the final snapshot. It returns the run id.
func (s *Store) Save(name string, cfg *config.Config, result *sim.Result, final *snapshot.Document) (string, error) {
	now := time.Now()
	runID, runDir, err := s.createRunDir(fmt.Sprintf("%s_%d", name, now.Unix()))
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		Config:    *cfg,
		Frames:    result.Frames,
		Elapsed:   result.Elapsed.Seconds(),
		FPS:       result.FPS(),
		Metrics:   result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, metricsFile), result); err != nil {
		return "", err
	}
	if final != nil {
		if err := snapshot.Write(filepath.Join(runDir, finalFile), final); err != nil {
			return "", err
		}
	}
	return runID, nil
}

// createRunDir makes a fresh directory for base, adding a numeric suffix when runs
// start within the same second.
func (s *Store) createRunDir(base string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	runID := base
	for i := 2; ; i++ {
		dir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return runID, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func seriesNames(series map[string][]float64) []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeSeries(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	names := seriesNames(result.Series)
	if err := w.Write(append([]string{"frame"}, names...)); err != nil {
		return err
	}

	for i, frame := range result.SampleFrames {
		row := []string{strconv.FormatUint(frame, 10)}
		for _, name := range names {
			val := ""
			if i < len(result.Series[name]) {
				val = strconv.FormatFloat(result.Series[name][i], 'f', 6, 64)
			}
			row = append(row, val)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

// Series is the sampled metric history of a run.
type Series struct {
	Frames []uint64             `json:"frames"`
	Values map[string][]float64 `json:"values"`
}

// Names returns the metric names in sorted order.
func (s *Series) Names() []string {
	return seriesNames(s.Values)
}

func (s *Store) LoadSeries(runID string) (*Series, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, metricsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := &Series{Values: make(map[string][]float64)}
	if len(records) == 0 {
		return series, nil
	}
	header := records[0]

	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		frame, err := strconv.ParseUint(record[0], 10, 64)
		if err != nil {
			continue
		}
		series.Frames = append(series.Frames, frame)

		for j := 1; j < len(header); j++ {
			val := 0.0
			if j < len(record) {
				if v, err := strconv.ParseFloat(record[j], 64); err == nil {
					val = v
				}
			}
			series.Values[header[j]] = append(series.Values[header[j]], val)
		}
	}
	return series, nil
}

// SnapshotPath is the location of the final snapshot of a run. The file exists only if
// the run was saved with one.
func (s *Store) SnapshotPath(runID string) string {
	return filepath.Join(s.baseDir, runID, finalFile)
}

// Delete removes a run directory.
func (s *Store) Delete(runID string) error {
	dir := filepath.Join(s.baseDir, runID)
	if _, err := os.Stat(filepath.Join(dir, metadataFile)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return err
	}
	return os.RemoveAll(dir)
}
