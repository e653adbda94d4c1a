package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log/level"
	"github.com/san-kum/maglev/internal/analysis"
	"github.com/san-kum/maglev/internal/config"
	"github.com/san-kum/maglev/internal/experiment"
	"github.com/san-kum/maglev/internal/export"
	"github.com/san-kum/maglev/internal/physics"
	"github.com/san-kum/maglev/internal/storage"
	"github.com/san-kum/maglev/internal/viz"
	"github.com/spf13/cobra"
)

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Name = "run"

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if cfg.Name == "" {
			cfg.Name = "run"
		}
	}

	flags := cmd.Flags()
	if flags.Changed("axis") {
		cfg.Analysis.AxisMode = axisMode
		cfg.Analysis.ResetRange()
	}
	a := &cfg.Analysis
	for _, o := range []struct {
		flag  string
		value float64
		dst   **float64
	}{
		{"start", rangeStart, &a.RangeStart},
		{"end", rangeEnd, &a.RangeEnd},
		{"step", rangeStep, &a.RangeStep},
		{"tolerance", tolerance, &a.Tolerance},
		{"poi-guess", poiGuess, &a.POIGuess},
		{"max-drag-guess", dragGuess, &a.MaxDragGuess},
	} {
		if flags.Changed(o.flag) {
			*o.dst = config.Float(o.value)
		}
	}
	if flags.Changed("max-iter") {
		a.MaxIter = config.Int(maxIter)
	}
	if flags.Changed("no-points") {
		cfg.Analysis.ShowCriticalPoints = !noPoints
	}
	if flags.Changed("no-labels") {
		cfg.Analysis.ShowLabels = !noLabels
	}
	if flags.Changed("end-beam") {
		cfg.Constants.UseEndBeam = endBeam
	}
	if flags.Changed("num-magnets") {
		cfg.Constants.NumMagnets = numMagnets
	}

	overrides := []struct {
		flag  string
		param string
		value float64
	}{
		{"standoff", "standoff", standoff},
		{"thickness", "thickness", thickness},
		{"magnetization", "magnetization", magnet},
		{"side-length", "side_length", sideLength},
		{"spacing", "spacing", spacing},
	}
	for _, o := range overrides {
		if flags.Changed(o.flag) {
			if err := cfg.Set(o.param, o.value); err != nil {
				return nil, err
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func traceSolver(exp *experiment.Experiment) {
	if !verbose {
		return
	}
	exp.Analyzer().Trace = func(kind analysis.Kind, iter int, x, hx float64) {
		level.Debug(logger).Log("msg", "newton", "kind", kind, "iter", iter, "x", x, "h", hx)
	}
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.Build(cfg)
	if err != nil {
		return err
	}
	traceSolver(exp)

	level.Debug(logger).Log("msg", "analysis", "config", cfg.Name, "axis", exp.Settings().Axis,
		"start", exp.Settings().Start, "end", exp.Settings().End, "step", exp.Settings().Step)
	start := time.Now()

	report, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	level.Debug(logger).Log("msg", "analysis done", "samples", len(report.Lift), "elapsed", time.Since(start))
	for kind, msg := range report.Failures {
		level.Warn(logger).Log("msg", "critical point not found", "kind", kind, "err", msg)
	}

	theme := viz.GetTheme(themeName)
	fmt.Println(viz.Plot(report, plotWidth, plotHeight, theme))
	fmt.Println()
	fmt.Println(viz.Summary(exp.Constants(), report, theme))

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		name := runName
		if name == "" {
			name = cfg.Name
		}
		runID, err := st.Save(name, exp.Constants(), report)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}

	return writeOutputs(report)
}

func writeOutputs(report *analysis.Report) error {
	if pngPath != "" {
		if err := export.SavePNG(report, pngPath, 640, 420); err != nil {
			return fmt.Errorf("png: %w", err)
		}
		fmt.Printf("wrote %s\n", pngPath)
	}
	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(export.CurvesToSVG(report, 800, 500)), 0644); err != nil {
			return fmt.Errorf("svg: %w", err)
		}
		fmt.Printf("wrote %s\n", svgPath)
	}
	if xlsxPath != "" {
		if err := export.SaveXLSX(report, xlsxPath); err != nil {
			return fmt.Errorf("xlsx: %w", err)
		}
		fmt.Printf("wrote %s\n", xlsxPath)
	}
	return nil
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	c, err := cfg.PhysicalConstants()
	if err != nil {
		return err
	}

	newAnalyzer := func(c physics.Constants) *analysis.Analyzer {
		return experiment.NewAnalyzer(c, nil)
	}
	m := viz.NewExplorer(c.Params(), settings, newAnalyzer).WithTheme(viz.GetTheme(themeName))
	if err := m.Err(); err != nil {
		return err
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
