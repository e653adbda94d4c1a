package config

import "sort"

var Presets = map[string]*Config{
	"velocity": {
		Name: "velocity",
		Analysis: AnalysisConfig{
			AxisMode: "velocity", RangeStart: Float(0.001), RangeEnd: Float(30), RangeStep: Float(1),
			ShowCriticalPoints: true, ShowLabels: true,
		},
	},
	"velocity-fine": {
		Name: "velocity-fine",
		Analysis: AnalysisConfig{
			AxisMode: "velocity", RangeStart: Float(0.001), RangeEnd: Float(30), RangeStep: Float(0.01),
			ShowCriticalPoints: true, ShowLabels: true,
		},
	},
	"rpm": {
		Name: "rpm",
		Analysis: AnalysisConfig{
			AxisMode: "rpm", RangeStart: Float(0.001), RangeEnd: Float(2000), RangeStep: Float(0.1),
			ShowCriticalPoints: true, ShowLabels: true,
		},
	},
	"end-beam": {
		Name:      "end-beam",
		Constants: ConstantsConfig{UseEndBeam: true},
		Analysis: AnalysisConfig{
			AxisMode: "rpm", RangeStart: Float(0.001), RangeEnd: Float(2000), RangeStep: Float(0.1),
			ShowCriticalPoints: true, ShowLabels: true,
		},
	},
	"low-standoff": {
		Name:      "low-standoff",
		Constants: ConstantsConfig{Standoff: 5e-3},
		Analysis: AnalysisConfig{
			AxisMode: "velocity", RangeStart: Float(0.001), RangeEnd: Float(30), RangeStep: Float(0.5),
			ShowCriticalPoints: true, ShowLabels: true,
		},
	},
}

// GetPreset returns the default configuration with the preset applied, or
// nil for an unknown name.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Name = p.Name
	cfg.Analysis = p.Analysis.clone()
	k := p.Constants
	if k.UseEndBeam {
		cfg.Constants.UseEndBeam = true
	}
	if k.Standoff != 0 {
		cfg.Constants.Standoff = k.Standoff
	}
	if k.Thickness != 0 {
		cfg.Constants.Thickness = k.Thickness
	}
	if k.NumMagnets != 0 {
		cfg.Constants.NumMagnets = k.NumMagnets
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
