package config

import (
	"fmt"
	"os"

	"github.com/san-kum/maglev/internal/analysis"
	"github.com/san-kum/maglev/internal/physics"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAxis      = "velocity"
	DefaultTolerance = analysis.DefaultTolerance
)

type Config struct {
	Name      string          `yaml:"name,omitempty"`
	Constants ConstantsConfig `yaml:"constants"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
}

type ConstantsConfig struct {
	Resistivity   float64 `yaml:"resistivity"`
	Permeability  float64 `yaml:"permeability"`
	Thickness     float64 `yaml:"thickness"`
	EndThickness  float64 `yaml:"end_thickness"`
	UseEndBeam    bool    `yaml:"use_end_beam"`
	Standoff      float64 `yaml:"standoff"`
	NumMagnets    int     `yaml:"num_magnets"`
	SideLength    float64 `yaml:"side_length"`
	Spacing       float64 `yaml:"spacing"`
	Magnetization float64 `yaml:"magnetization"`
}

// AnalysisConfig mirrors analysis.Settings. Unset (nil) range, tolerance,
// max_iter and guess values take the defaults of the selected axis; any value
// that is present is validated as given.
type AnalysisConfig struct {
	AxisMode           string   `yaml:"axis_mode"`
	RangeStart         *float64 `yaml:"range_start,omitempty"`
	RangeEnd           *float64 `yaml:"range_end,omitempty"`
	RangeStep          *float64 `yaml:"range_step,omitempty"`
	ShowCriticalPoints bool     `yaml:"show_critical_points"`
	ShowLabels         bool     `yaml:"show_labels"`
	Tolerance          *float64 `yaml:"tolerance,omitempty"`
	MaxIter            *int     `yaml:"max_iter,omitempty"`
	POIGuess           *float64 `yaml:"poi_guess,omitempty"`
	MaxDragGuess       *float64 `yaml:"max_drag_guess,omitempty"`
}

// Float returns a pointer to v, for optional analysis values.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// ResetRange drops the sampled range so the axis defaults apply.
func (a *AnalysisConfig) ResetRange() {
	a.RangeStart, a.RangeEnd, a.RangeStep = nil, nil, nil
}

func (a AnalysisConfig) clone() AnalysisConfig {
	cp := a
	for _, f := range []**float64{&cp.RangeStart, &cp.RangeEnd, &cp.RangeStep, &cp.Tolerance, &cp.POIGuess, &cp.MaxDragGuess} {
		if *f != nil {
			*f = Float(**f)
		}
	}
	if cp.MaxIter != nil {
		cp.MaxIter = Int(*cp.MaxIter)
	}
	return cp
}

func DefaultConfig() *Config {
	p := physics.DefaultParams()
	return &Config{
		Constants: ConstantsConfig{
			Resistivity:   p.Resistivity,
			Permeability:  p.Permeability,
			Thickness:     p.Thickness,
			EndThickness:  p.EndThickness,
			Standoff:      p.Standoff,
			NumMagnets:    p.NumMagnets,
			SideLength:    p.SideLength,
			Spacing:       p.Spacing,
			Magnetization: p.Magnetization,
		},
		Analysis: AnalysisConfig{
			AxisMode:           DefaultAxis,
			ShowCriticalPoints: true,
			ShowLabels:         true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.Analysis = c.Analysis.clone()
	return &cp
}

func (c *Config) Params() physics.Params {
	k := c.Constants
	return physics.Params{
		Resistivity:   k.Resistivity,
		Permeability:  k.Permeability,
		Thickness:     k.Thickness,
		EndThickness:  k.EndThickness,
		Standoff:      k.Standoff,
		NumMagnets:    k.NumMagnets,
		SideLength:    k.SideLength,
		Spacing:       k.Spacing,
		Magnetization: k.Magnetization,
	}
}

// PhysicalConstants builds the constants, failing on non-physical input.
func (c *Config) PhysicalConstants() (physics.Constants, error) {
	if c.Constants.UseEndBeam && c.Constants.EndThickness <= 0 {
		return physics.Constants{}, &physics.ConfigError{
			Field: "end_thickness", Value: c.Constants.EndThickness, Reason: "required by use_end_beam",
		}
	}
	pc, err := physics.NewConstants(c.Params())
	if err != nil {
		return physics.Constants{}, err
	}
	if c.Constants.UseEndBeam {
		return pc.EndBeam()
	}
	return pc, nil
}

// Settings resolves the analysis section against the axis defaults.
func (c *Config) Settings() (analysis.Settings, error) {
	axis, err := physics.ParseAxis(c.Analysis.AxisMode)
	if err != nil {
		return analysis.Settings{}, err
	}
	s := analysis.DefaultSettings(axis)
	a := c.Analysis
	for _, o := range []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{"range_start", a.RangeStart, &s.Start},
		{"range_end", a.RangeEnd, &s.End},
		{"range_step", a.RangeStep, &s.Step},
		{"tolerance", a.Tolerance, &s.Tolerance},
		{"poi_guess", a.POIGuess, &s.POIGuess},
		{"max_drag_guess", a.MaxDragGuess, &s.MaxDragGuess},
	} {
		if o.src == nil {
			continue
		}
		if (o.name == "poi_guess" || o.name == "max_drag_guess") && !(*o.src > 0) {
			return analysis.Settings{}, &physics.ConfigError{Field: o.name, Value: *o.src, Reason: "must be positive"}
		}
		*o.dst = *o.src
	}
	if a.MaxIter != nil {
		if *a.MaxIter < 1 {
			return analysis.Settings{}, &physics.ConfigError{Field: "max_iter", Value: float64(*a.MaxIter), Reason: "must be at least 1"}
		}
		s.MaxIter = *a.MaxIter
	}
	s.ShowCriticalPoints = a.ShowCriticalPoints
	s.ShowLabels = a.ShowLabels
	return s, s.Validate()
}

// Validate reports the first configuration error, before anything is
// computed.
func (c *Config) Validate() error {
	if _, err := c.PhysicalConstants(); err != nil {
		return fmt.Errorf("constants: %w", err)
	}
	if _, err := c.Settings(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	return nil
}
