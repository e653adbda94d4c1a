package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/maglev/internal/analysis"
	"github.com/san-kum/maglev/internal/export"
	"github.com/san-kum/maglev/internal/physics"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
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

// ConstantsRecord is the persisted form of physics.Constants.
type ConstantsRecord struct {
	Resistivity       float64 `json:"resistivity"`
	Permeability      float64 `json:"permeability"`
	Thickness         float64 `json:"thickness"`
	EndThickness      float64 `json:"end_thickness,omitempty"`
	Standoff          float64 `json:"standoff"`
	NumMagnets        int     `json:"num_magnets"`
	SideLength        float64 `json:"side_length"`
	Spacing           float64 `json:"spacing"`
	Magnetization     float64 `json:"magnetization"`
	DipoleMoment      float64 `json:"dipole_moment"`
	DiffusionVelocity float64 `json:"diffusion_velocity"`
	WheelRadius       float64 `json:"wheel_radius"`
	MaxLift           float64 `json:"max_lift"`
}

func NewConstantsRecord(c physics.Constants) ConstantsRecord {
	p := c.Params()
	return ConstantsRecord{
		Resistivity:       p.Resistivity,
		Permeability:      p.Permeability,
		Thickness:         p.Thickness,
		EndThickness:      p.EndThickness,
		Standoff:          p.Standoff,
		NumMagnets:        p.NumMagnets,
		SideLength:        p.SideLength,
		Spacing:           p.Spacing,
		Magnetization:     p.Magnetization,
		DipoleMoment:      c.DipoleMoment(),
		DiffusionVelocity: c.DiffusionVelocity(),
		WheelRadius:       c.WheelRadius(),
		MaxLift:           c.MaxLift(),
	}
}

// Params returns the primary inputs the record was built from.
func (r ConstantsRecord) Params() physics.Params {
	return physics.Params{
		Resistivity:   r.Resistivity,
		Permeability:  r.Permeability,
		Thickness:     r.Thickness,
		EndThickness:  r.EndThickness,
		Standoff:      r.Standoff,
		NumMagnets:    r.NumMagnets,
		SideLength:    r.SideLength,
		Spacing:       r.Spacing,
		Magnetization: r.Magnetization,
	}
}

type RunMetadata struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	Timestamp time.Time                `json:"timestamp"`
	Constants ConstantsRecord          `json:"constants"`
	Settings  analysis.Settings        `json:"settings"`
	Samples   int                      `json:"samples"`
	Points    []analysis.CriticalPoint `json:"points"`
	Failures  map[analysis.Kind]string `json:"failures,omitempty"`
	Metrics   map[string]float64       `json:"metrics"`
}

func (s *Store) Save(name string, c physics.Constants, report *analysis.Report) (string, error) {
	if name == "" {
		name = "run"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		Constants: NewConstantsRecord(c),
		Settings:  report.Settings,
		Samples:   len(report.Lift),
		Points:    report.Points,
		Failures:  report.Failures,
		Metrics:   report.Metrics,
	}

	err := writeFile(filepath.Join(runDir, samplesFile), func(w io.Writer) error {
		return export.WriteCSV(w, report)
	})
	if err == nil {
		err = writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		})
	}
	if err != nil {
		os.RemoveAll(runDir)
		return "", fmt.Errorf("save %s: %w", runID, err)
	}

	return runID, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns stored runs, oldest first. Directories without readable
// metadata are skipped.
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
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadSamples(runID string) (lift, drag []analysis.Sample, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return []analysis.Sample{}, []analysis.Sample{}, nil
	}

	lift = make([]analysis.Sample, 0, len(records)-1)
	drag = make([]analysis.Sample, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		var row [3]float64
		for j := range row {
			row[j], err = strconv.ParseFloat(records[i][j], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s line %d: %w", samplesFile, i+1, err)
			}
		}
		lift = append(lift, analysis.Sample{X: row[0], Y: row[1]})
		drag = append(drag, analysis.Sample{X: row[0], Y: row[2]})
	}

	return lift, drag, nil
}

// LoadReport rebuilds the analysis report of a stored run.
func (s *Store) LoadReport(runID string) (*RunMetadata, *analysis.Report, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	lift, drag, err := s.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}

	report := &analysis.Report{
		Settings: meta.Settings,
		Lift:     lift,
		Drag:     drag,
		Points:   meta.Points,
		Failures: meta.Failures,
		Metrics:  meta.Metrics,
	}
	return meta, report, nil
}
