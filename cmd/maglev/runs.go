package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-kit/log/level"
	"github.com/san-kum/maglev/internal/analysis"
	"github.com/san-kum/maglev/internal/automation"
	"github.com/san-kum/maglev/internal/config"
	"github.com/san-kum/maglev/internal/export"
	"github.com/san-kum/maglev/internal/optim"
	"github.com/san-kum/maglev/internal/physics"
	"github.com/san-kum/maglev/internal/storage"
	"github.com/san-kum/maglev/internal/viz"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tAXIS\tSAMPLES\tPOI\tMAX DRAG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Settings.Axis,
			run.Samples,
			pointColumn(run, analysis.Intersection),
			pointColumn(run, analysis.MaxDrag),
		)
	}

	return w.Flush()
}

func pointColumn(run storage.RunMetadata, kind analysis.Kind) string {
	for _, p := range run.Points {
		if p.Kind == kind {
			return fmt.Sprintf("%.3f %s", p.X, run.Settings.Axis.Unit())
		}
	}
	if _, failed := run.Failures[kind]; failed {
		return "failed"
	}
	return "-"
}

func loadRun(runID string) (*storage.RunMetadata, *analysis.Report, error) {
	meta, report, err := storage.New(dataDir).LoadReport(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return meta, report, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, report, err := loadRun(args[0])
	if err != nil {
		return err
	}

	c, err := physics.NewConstants(meta.Constants.Params())
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("time: %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("range: %g to %g %s, step %g (%d samples)\n\n",
		meta.Settings.Start, meta.Settings.End, meta.Settings.Axis.Unit(), meta.Settings.Step, meta.Samples)
	fmt.Println(viz.Summary(c, report, viz.GetTheme(themeName)))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, report, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if len(report.Lift) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(report.Lift))
	fmt.Println(viz.Plot(report, plotWidth, plotHeight, viz.GetTheme(themeName)))
	for _, m := range report.Markers() {
		fmt.Printf("  %s\n", m.Label)
	}

	return writeOutputs(report)
}

// output returns stdout, or the file named by --output.
func output() (io.WriteCloser, error) {
	if outPath == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outPath)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportCSV(cmd *cobra.Command, args []string) error {
	_, report, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()

	return export.WriteCSV(w, report)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	_, report, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()

	return export.WriteJSON(w, report)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tAXIS\tRANGE\tSTEP")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		s, err := cfg.Settings()
		if err != nil {
			return fmt.Errorf("preset %s: %w", name, err)
		}
		fmt.Fprintf(w, "%s\t%s\t%g-%g %s\t%g\n", name, s.Axis, s.Start, s.End, s.Axis.Unit(), s.Step)
	}
	return w.Flush()
}

// parseGrid reads name=min:max:n.
func parseGrid(arg string) (string, []float64, error) {
	name, rng, ok := strings.Cut(arg, "=")
	if !ok {
		return "", nil, fmt.Errorf("bad --param %q: want name=min:max:n", arg)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("bad --param %q: want name=min:max:n", arg)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("bad --param %q: %w", arg, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("bad --param %q: %w", arg, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return "", nil, fmt.Errorf("bad --param %q: n must be a positive integer", arg)
	}
	return name, optim.Linspace(lo, hi, n), nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(sweepSpecs) == 0 {
		return fmt.Errorf("at least one --param is required (e.g. --param thickness=0.005:0.02:4)")
	}

	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(sweepSpecs))
	ranges := make([][]float64, 0, len(sweepSpecs))
	for _, spec := range sweepSpecs {
		name, vals, err := parseGrid(spec)
		if err != nil {
			return err
		}
		if _, err := base.Get(name); err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metricName))

	g := optim.NewGridSearch(names, ranges)
	g.OnEval = func(e optim.Evaluation) {
		cols := make([]string, 0, len(names)+1)
		for _, name := range names {
			cols = append(cols, strconv.FormatFloat(e.Params[name], 'g', 6, 64))
		}
		if e.Err != nil {
			level.Warn(logger).Log("msg", "grid point failed", "params", fmt.Sprint(e.Params), "err", e.Err)
			cols = append(cols, "failed")
		} else {
			cols = append(cols, strconv.FormatFloat(e.Value, 'g', 6, 64))
		}
		fmt.Fprintln(w, strings.Join(cols, "\t"))
	}

	best, val, err := g.Search(context.Background(), base, metricName)
	w.Flush()
	if err != nil {
		return err
	}

	fmt.Printf("\nbest %s = %.6g at", metricName, val)
	for _, name := range names {
		fmt.Printf(" %s=%g", name, best[name])
	}
	fmt.Println()
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	level.Info(logger).Log("msg", "scenario", "name", scenario.Name, "steps", len(scenario.Steps))
	ids, err := automation.RunScenario(context.Background(), scenario, st, logger)
	for _, id := range ids {
		fmt.Println(id)
	}
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(context.Background(), &automation.MonteCarloConfig{
		Base:         base,
		Params:       mcParams,
		Perturbation: mcSpread,
		NumTrials:    mcTrials,
		Seed:         mcSeed,
	}, logger)
	if err != nil {
		return err
	}

	s := automation.MonteCarloStats(results)
	unit := "m/s"
	if st, err := base.Settings(); err == nil {
		unit = st.Axis.Unit()
	}
	fmt.Printf("trials: %d converged, %d failed\n", s.Converged, s.Failed)
	fmt.Printf("poi:      %.4f ± %.4f %s\n", s.POIMean, s.POIStdDev, unit)
	fmt.Printf("max drag: %.4f ± %.4f %s\n", s.PeakMean, s.PeakStdDev, unit)
	return nil
}
