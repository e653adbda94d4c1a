package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/maglev/internal/analysis"
	"github.com/san-kum/maglev/internal/config"
	"github.com/san-kum/maglev/internal/experiment"
)

// DefaultMetric is the point of indifference position.
const DefaultMetric = "poi_x"

// Evaluation is one grid point and the metric value it produced.
type Evaluation struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// OnEval, when set, is called for every grid point in search order.
	OnEval func(Evaluation)
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Linspace returns n evenly spaced values from min to max inclusive.
func Linspace(min, max float64, n int) []float64 {
	if n <= 1 {
		return []float64{min}
	}
	vals := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := range vals {
		vals[i] = min + float64(i)*step
	}
	vals[n-1] = max
	return vals
}

// Search applies every parameter combination to base, runs the analysis and
// returns the combination with the smallest metric value. Combinations that
// fail to build or run, or that lack the metric, are skipped.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	if metricName == "" {
		metricName = DefaultMetric
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("optim: no combination produced %s", metricName)
	}

	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, err := g.evaluate(ctx, current, base, metricName)
		if g.OnEval != nil {
			g.OnEval(Evaluation{Params: current, Value: val, Err: err})
		}
		if err != nil {
			return nil
		}

		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(ctx context.Context, params map[string]float64, base *config.Config, metricName string) (float64, error) {
	cfg := base.Clone()
	if err := cfg.Apply(params); err != nil {
		return 0, err
	}

	exp, err := experiment.Build(cfg)
	if err != nil {
		return 0, err
	}

	report, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}

	return metric(report, metricName)
}

func metric(report *analysis.Report, name string) (float64, error) {
	val, ok := report.Metrics[name]
	if !ok {
		if kind := failedKind(report, name); kind != "" {
			return 0, fmt.Errorf("%s: %s", kind, report.Failures[kind])
		}
		return 0, fmt.Errorf("metric %s not recorded", name)
	}
	return val, nil
}

func failedKind(report *analysis.Report, name string) analysis.Kind {
	for kind := range report.Failures {
		if len(name) > len(kind) && name[:len(kind)] == string(kind) {
			return kind
		}
	}
	return ""
}
