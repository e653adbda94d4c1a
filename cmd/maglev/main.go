package main

import (
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	axisMode   string
	rangeStart float64
	rangeEnd   float64
	rangeStep  float64
	tolerance  float64
	maxIter    int
	poiGuess   float64
	dragGuess  float64
	noPoints   bool
	noLabels   bool
	endBeam    bool
	standoff   float64
	thickness  float64
	magnet     float64
	sideLength float64
	spacing    float64
	numMagnets int
	save       bool
	runName    string
	pngPath    string
	svgPath    string
	xlsxPath   string
	outPath    string
	plotWidth  int
	plotHeight int
	themeName  string
	sweepSpecs []string
	metricName string
	mcParams   []string
	mcSpread   float64
	mcTrials   int
	mcSeed     int64

	logger log.Logger
)

// main registers the maglev commands and exits with status 1 when a command
// returns an error.
func main() {
	logger = newLogger(false)

	rootCmd := &cobra.Command{
		Use:           "maglev",
		Short:         "halbach wheel lift and drag analyzer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = newLogger(verbose)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".maglev", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging, including solver iterates")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "compute lift and drag curves and their critical points",
		Args:  cobra.NoArgs,
		RunE:  runAnalysis,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVar(&save, "save", false, "store the run in the data directory")
	runCmd.Flags().StringVar(&runName, "name", "", "run name (default: preset name)")
	addOutputFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run constants, critical points and metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().StringVar(&themeName, "theme", "ocean", "color theme")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	addOutputFlags(plotCmd)

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default: stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "tune the wheel geometry interactively",
		Args:  cobra.NoArgs,
		RunE:  runExplore,
	}
	addConfigFlags(exploreCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search geometry parameters for the smallest metric",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepSpecs, "param", nil, "parameter grid as name=min:max:n (repeatable)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "poi_x", "report metric to minimize")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a yaml scenario and store the results",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "spread of critical points under random geometry tolerances",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addConfigFlags(monteCarloCmd)
	monteCarloCmd.Flags().StringSliceVar(&mcParams, "perturb", []string{"thickness", "standoff"}, "parameters to perturb")
	monteCarloCmd.Flags().Float64Var(&mcSpread, "spread", 0.05, "relative perturbation")
	monteCarloCmd.Flags().IntVar(&mcTrials, "trials", 100, "number of trials")
	monteCarloCmd.Flags().Int64Var(&mcSeed, "seed", 0, "random seed (0: time based)")

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd, exploreCmd, sweepCmd, scenarioCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		level.Error(logger).Log("err", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) log.Logger {
	l := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	l = log.With(l, "ts", log.DefaultTimestampUTC)
	if verbose {
		return level.NewFilter(l, level.AllowDebug())
	}
	return level.NewFilter(l, level.AllowInfo())
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&axisMode, "axis", "velocity", "x axis: velocity (m/s) or rpm")
	f.Float64Var(&rangeStart, "start", 0, "range start (default: axis default)")
	f.Float64Var(&rangeEnd, "end", 0, "range end, exclusive (default: axis default)")
	f.Float64Var(&rangeStep, "step", 0, "range step (default: axis default)")
	f.Float64Var(&tolerance, "tolerance", 0, "newton tolerance")
	f.IntVar(&maxIter, "max-iter", 0, "newton iteration cap")
	f.Float64Var(&poiGuess, "poi-guess", 0, "starting point for the point of indifference")
	f.Float64Var(&dragGuess, "max-drag-guess", 0, "starting point for the drag maximum")
	f.BoolVar(&noPoints, "no-points", false, "skip critical point computation")
	f.BoolVar(&noLabels, "no-labels", false, "omit coordinates from marker labels")
	f.BoolVar(&endBeam, "end-beam", false, "use the end beam thickness")
	f.Float64Var(&standoff, "standoff", 0, "magnet to plate gap (m)")
	f.Float64Var(&thickness, "thickness", 0, "plate thickness (m)")
	f.Float64Var(&magnet, "magnetization", 0, "magnetization (A/m)")
	f.Float64Var(&sideLength, "side-length", 0, "magnet side length (m)")
	f.Float64Var(&spacing, "spacing", 0, "gap between magnets (m)")
	f.IntVar(&numMagnets, "num-magnets", 0, "magnets around the wheel")
	f.StringVar(&themeName, "theme", "ocean", "color theme")
}

func addOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&pngPath, "png", "", "write the chart as png")
	f.StringVar(&svgPath, "svg", "", "write the chart as svg")
	f.StringVar(&xlsxPath, "xlsx", "", "write samples and critical points as xlsx")
	f.IntVar(&plotWidth, "width", 80, "ascii chart width")
	f.IntVar(&plotHeight, "height", 15, "ascii chart height")
	if cmd.Flags().Lookup("theme") == nil {
		f.StringVar(&themeName, "theme", "ocean", "color theme")
	}
}
