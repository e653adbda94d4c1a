package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/maglev/internal/analysis"
	"github.com/san-kum/maglev/internal/config"
	"github.com/san-kum/maglev/internal/metrics"
	"github.com/san-kum/maglev/internal/physics"
)

// Experiment is one configured analysis: constants, settings and the
// metrics recorded on its report.
type Experiment struct {
	cfg       *config.Config
	constants physics.Constants
	settings  analysis.Settings
	analyzer  *analysis.Analyzer
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg.Clone()}
}

// Setup validates the configuration and builds the analyzer. A nil metric
// list installs the default curve metrics.
func (e *Experiment) Setup(ms []analysis.Metric) error {
	c, err := e.cfg.PhysicalConstants()
	if err != nil {
		return fmt.Errorf("constants: %w", err)
	}
	s, err := e.cfg.Settings()
	if err != nil {
		return fmt.Errorf("analysis: %w", err)
	}

	e.constants = c
	e.settings = s
	e.analyzer = NewAnalyzer(c, ms)
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*analysis.Report, error) {
	if e.analyzer == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.analyzer.Run(ctx, e.settings)
}

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Constants() physics.Constants { return e.constants }

func (e *Experiment) Settings() analysis.Settings { return e.settings }

// Analyzer returns the underlying analyzer for attaching a trace.
func (e *Experiment) Analyzer() *analysis.Analyzer { return e.analyzer }

// NewAnalyzer builds an analyzer with ms, or the default metrics when ms is
// nil.
func NewAnalyzer(c physics.Constants, ms []analysis.Metric) *analysis.Analyzer {
	if ms == nil {
		ms = metrics.Defaults(c.MaxLift())
	}
	a := analysis.New(c)
	for _, m := range ms {
		a.AddMetric(m)
	}
	return a
}

// Build is New followed by Setup with the default metrics.
func Build(cfg *config.Config) (*Experiment, error) {
	e := New(cfg)
	if err := e.Setup(nil); err != nil {
		return nil, err
	}
	return e, nil
}
