package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/san-kum/maglev/internal/analysis"
	"github.com/san-kum/maglev/internal/config"
	"github.com/san-kum/maglev/internal/experiment"
	"github.com/san-kum/maglev/internal/storage"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted batch of analyses
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single analysis in a scenario. Preset defaults to
// velocity; Axis, when set, replaces the preset's axis and range.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Axis   string             `yaml:"axis"`
	Params map[string]float64 `yaml:"params"`
	SaveAs string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config resolves the step against its preset.
func (s ScenarioStep) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "velocity"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	if s.Axis != "" {
		cfg.Analysis.AxisMode = s.Axis
		cfg.Analysis.ResetRange()
	}
	if err := cfg.Apply(s.Params); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes all steps in a scenario, saving each report to st.
// It stops at the first failing step and returns the run IDs saved so far.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, logger log.Logger) ([]string, error) {
	ids := make([]string, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return ids, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp, err := experiment.Build(cfg)
		if err != nil {
			return ids, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		report, err := exp.Run(ctx)
		if err != nil {
			return ids, fmt.Errorf("step %d run: %w", i+1, err)
		}

		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("%s_step%d", cfg.Name, i+1)
		}

		id, err := st.Save(name, exp.Constants(), report)
		if err != nil {
			return ids, fmt.Errorf("step %d save: %w", i+1, err)
		}
		ids = append(ids, id)

		level.Info(logger).Log("msg", "scenario step", "step", i+1, "of", len(scenario.Steps), "preset", cfg.Name, "run", id)
		for kind, msg := range report.Failures {
			level.Warn(logger).Log("msg", "critical point not found", "step", i+1, "kind", kind, "err", msg)
		}
	}

	return ids, nil
}

// ErrNoConvergence is returned when no Monte Carlo trial found both
// critical points.
var ErrNoConvergence = errors.New("automation: no trial converged")

// MonteCarloConfig perturbs geometry parameters by a uniform relative
// amount around the base configuration.
type MonteCarloConfig struct {
	Base         *config.Config
	Params       []string
	Perturbation float64
	NumTrials    int
	Seed         int64
}

// MonteCarloResult holds one perturbed trial
type MonteCarloResult struct {
	TrialID   int
	Params    map[string]float64
	POI       float64
	MaxDrag   float64
	Converged bool
}

// RunMonteCarlo analyses NumTrials perturbed copies of the base
// configuration. Perturbations are drawn in trial order before the trials
// run in parallel, so a fixed seed gives the same results.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, logger log.Logger) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.NumTrials)
	}

	if _, err := experiment.Build(cfg.Base); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	for trial := range results {
		params := make(map[string]float64, len(cfg.Params))
		for _, name := range cfg.Params {
			v, err := cfg.Base.Get(name)
			if err != nil {
				return nil, err
			}
			v *= 1 + (rng.Float64()-0.5)*2*cfg.Perturbation
			if name == "num_magnets" {
				v = math.Max(1, math.Round(v))
			}
			params[name] = v
		}
		results[trial] = MonteCarloResult{TrialID: trial, Params: params}
	}

	ParallelFor(cfg.NumTrials, 4, func(start, end int) {
		for i := start; i < end; i++ {
			runTrial(ctx, cfg.Base, &results[i], logger)
		}
	})

	if err := ctx.Err(); err != nil {
		return results, err
	}

	s := MonteCarloStats(results)
	level.Info(logger).Log("msg", "monte carlo", "trials", cfg.NumTrials, "converged", s.Converged, "failed", s.Failed)
	if s.Converged == 0 {
		return results, fmt.Errorf("%d trials: %w", cfg.NumTrials, ErrNoConvergence)
	}
	return results, nil
}

func runTrial(ctx context.Context, base *config.Config, res *MonteCarloResult, logger log.Logger) {
	if ctx.Err() != nil {
		return
	}

	cfg := base.Clone()
	err := cfg.Apply(res.Params)
	var exp *experiment.Experiment
	if err == nil {
		exp, err = experiment.Build(cfg)
	}
	var report *analysis.Report
	if err == nil {
		report, err = exp.Run(ctx)
	}
	if err != nil {
		level.Debug(logger).Log("msg", "trial failed", "trial", res.TrialID, "err", err)
		return
	}

	poi, okPOI := report.Point(analysis.Intersection)
	peak, okPeak := report.Point(analysis.MaxDrag)
	res.POI, res.MaxDrag = poi.X, peak.X
	res.Converged = okPOI && okPeak
}

// MonteCarloSummary aggregates converged trials.
type MonteCarloSummary struct {
	Converged  int
	Failed     int
	POIMean    float64
	POIStdDev  float64
	PeakMean   float64
	PeakStdDev float64
}

func MonteCarloStats(results []MonteCarloResult) MonteCarloSummary {
	var sum MonteCarloSummary
	pois := make([]float64, 0, len(results))
	peaks := make([]float64, 0, len(results))
	for _, r := range results {
		if !r.Converged {
			sum.Failed++
			continue
		}
		sum.Converged++
		pois = append(pois, r.POI)
		peaks = append(peaks, r.MaxDrag)
	}
	switch {
	case len(pois) > 1:
		sum.POIMean, sum.POIStdDev = stat.MeanStdDev(pois, nil)
		sum.PeakMean, sum.PeakStdDev = stat.MeanStdDev(peaks, nil)
	case len(pois) == 1:
		sum.POIMean, sum.PeakMean = pois[0], peaks[0]
	}
	return sum
}
