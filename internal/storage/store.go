package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/icehouse/internal/climate"
	"github.com/san-kum/icehouse/internal/dynamo"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var trajectoryHeader = []string{"time", "temperature", "rate"}

// ErrBadRunID is returned for run IDs that would escape the store directory.
var ErrBadRunID = errors.New("invalid run id")

type Store struct {
	baseDir string
	Log     logrus.FieldLogger
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{
		baseDir: baseDir,
		Log:     logrus.StandardLogger(),
		now:     time.Now,
	}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Timestamp   time.Time          `json:"timestamp"`
	Integrator  string             `json:"integrator"`
	Greenhouse  float64            `json:"greenhouse"`
	InitialTemp float64            `json:"initial_temp"`
	Steps       int                `json:"steps"`
	Dt          float64            `json:"dt"`
	FinalTemp   float64            `json:"final_temp"`
	Params      climate.Params     `json:"params"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes meta and traj under a fresh run directory and returns its ID.
// ID, Timestamp, Steps and FinalTemp are filled in from the trajectory.
func (s *Store) Save(meta RunMetadata, traj *dynamo.Trajectory) (string, error) {
	if traj == nil || traj.Len() == 0 {
		return "", fmt.Errorf("%w: empty trajectory", dynamo.ErrInvalidArgument)
	}
	if meta.Name == "" {
		meta.Name = "run"
	}
	if _, err := s.runDir(meta.Name); err != nil {
		return "", err
	}

	now := s.now()
	runID, runDir, err := s.makeRunDir(meta.Name, now)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Steps = traj.Len()
	meta.FinalTemp = traj.Final().Temperature
	meta.Metrics = s.finiteMetrics(meta.Metrics)

	// metadata last: List only sees runs whose trajectory is complete
	err = writeFile(filepath.Join(runDir, trajectoryFile), func(w io.Writer) error {
		return WriteCSV(w, traj)
	})
	if err == nil {
		err = writeJSONFile(filepath.Join(runDir, metadataFile), meta)
	}
	if err != nil {
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			s.Log.WithError(rmErr).WithField("dir", runDir).Warn("could not remove incomplete run")
		}
		return "", fmt.Errorf("save %s: %w", runID, err)
	}

	s.Log.WithFields(logrus.Fields{
		"run":        runID,
		"greenhouse": meta.Greenhouse,
		"steps":      meta.Steps,
		"final_temp": meta.FinalTemp,
	}).Info("saved run")

	return runID, nil
}

// finiteMetrics drops values JSON cannot encode.
func (s *Store) finiteMetrics(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for name, v := range in {
		if !dynamo.IsValid(v) {
			s.Log.WithField("metric", name).Warnf("dropping non-finite metric value %v", v)
			continue
		}
		out[name] = v
	}
	return out
}

// makeRunDir creates <base>/<name>_<unix>, appending a counter when two runs
// land in the same second.
func (s *Store) makeRunDir(name string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", name, now.Unix())
	for i := 0; ; i++ {
		runID := base
		if i > 0 {
			runID = fmt.Sprintf("%s_%d", base, i)
		}
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
	}
}

// List returns the metadata of every readable run, oldest first.
// Directories without valid metadata are skipped.
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
			s.Log.WithError(err).WithField("dir", entry.Name()).Debug("skipping run directory")
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(dir, trajectoryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	traj, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return traj, nil
}

// ExportJSON writes a stored run, metadata and samples together, to w.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	traj, err := s.LoadTrajectory(runID)
	if err != nil {
		return err
	}
	return WriteJSON(w, *meta, traj)
}

func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrBadRunID, runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}

// WriteCSV writes traj with a time,temperature,rate header. Values use the
// shortest representation that parses back to the same float64.
func WriteCSV(w io.Writer, traj *dynamo.Trajectory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(trajectoryHeader); err != nil {
		return err
	}

	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i := range traj.Times {
		row := []string{format(traj.Times[i]), format(traj.Temperatures[i]), format(traj.Rates[i])}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) (*dynamo.Trajectory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(trajectoryHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("missing header")
	}
	for i, col := range trajectoryHeader {
		if records[0][i] != col {
			return nil, fmt.Errorf("unexpected header %v", records[0])
		}
	}

	traj := dynamo.NewTrajectory(len(records) - 1)
	for line, record := range records[1:] {
		var vals [3]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line+2, err)
			}
			vals[j] = v
		}
		traj.Append(vals[0], vals[1], vals[2])
	}
	return traj, nil
}

type ExportData struct {
	RunMetadata
	Times        []float64 `json:"times"`
	Temperatures []float64 `json:"temperatures"`
	Rates        []float64 `json:"rates"`
}

func WriteJSON(w io.Writer, meta RunMetadata, traj *dynamo.Trajectory) error {
	data := ExportData{
		RunMetadata:  meta,
		Times:        traj.Times,
		Temperatures: traj.Temperatures,
		Rates:        traj.Rates,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func writeJSONFile(path string, v any) error {
	return writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

// writeFile creates path, fills it with write and reports the first of
// the write and close errors.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
