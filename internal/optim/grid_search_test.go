package optim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/maglev/internal/config"
)

func TestLinspace(t *testing.T) {
	vals := Linspace(1, 2, 5)
	if len(vals) != 5 || vals[0] != 1 || vals[4] != 2 {
		t.Errorf("unexpected values %v", vals)
	}
	if got := Linspace(3, 9, 1); len(got) != 1 || got[0] != 3 {
		t.Errorf("expected single value, got %v", got)
	}
}

func TestGridSearchThickness(t *testing.T) {
	// The point of indifference sits at the diffusion velocity 2ρ/(μ0·h),
	// so the thickest plate gives the lowest value.
	g := NewGridSearch([]string{"thickness"}, [][]float64{{0.005, 0.01, 0.015, 0.02}})

	evals := 0
	g.OnEval = func(Evaluation) { evals++ }

	best, val, err := g.Search(context.Background(), config.GetPreset("velocity"), "")
	if err != nil {
		t.Fatal(err)
	}
	if evals != 4 {
		t.Errorf("expected 4 evaluations, got %d", evals)
	}
	if best["thickness"] != 0.02 {
		t.Errorf("expected thickness 0.02, got %v", best)
	}
	if math.IsInf(val, 0) || val <= 0 {
		t.Errorf("unexpected best value %g", val)
	}
}

func TestGridSearchTwoParams(t *testing.T) {
	g := NewGridSearch(
		[]string{"standoff", "thickness"},
		[][]float64{{0.005, 0.01}, {0.01, 0.02}},
	)

	n := 0
	g.OnEval = func(e Evaluation) {
		n++
		if len(e.Params) != 2 {
			t.Errorf("expected 2 params, got %v", e.Params)
		}
	}

	best, _, err := g.Search(context.Background(), config.DefaultConfig(), "poi_force")
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Errorf("expected 4 evaluations, got %d", n)
	}
	// Lift falls off with standoff, so the larger gap has the smaller force.
	if best["standoff"] != 0.01 {
		t.Errorf("expected standoff 0.01, got %v", best)
	}
}

func TestGridSearchSkipsInvalid(t *testing.T) {
	g := NewGridSearch([]string{"thickness"}, [][]float64{{-1, 0.015}})

	failed := 0
	g.OnEval = func(e Evaluation) {
		if e.Err != nil {
			failed++
		}
	}

	best, _, err := g.Search(context.Background(), config.DefaultConfig(), "")
	if err != nil {
		t.Fatal(err)
	}
	if failed != 1 {
		t.Errorf("expected 1 failed evaluation, got %d", failed)
	}
	if best["thickness"] != 0.015 {
		t.Errorf("unexpected best %v", best)
	}
}

func TestGridSearchErrors(t *testing.T) {
	g := NewGridSearch([]string{"thickness"}, [][]float64{{-1}})
	if _, _, err := g.Search(context.Background(), config.DefaultConfig(), ""); err == nil {
		t.Error("expected error when nothing succeeds")
	}

	g = NewGridSearch([]string{"a", "b"}, [][]float64{{1}})
	if _, _, err := g.Search(context.Background(), config.DefaultConfig(), ""); err == nil {
		t.Error("expected error for mismatched ranges")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g = NewGridSearch([]string{"thickness"}, [][]float64{{0.015}})
	if _, _, err := g.Search(ctx, config.DefaultConfig(), ""); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
