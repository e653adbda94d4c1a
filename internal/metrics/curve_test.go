package metrics

import (
	"math"
	"testing"
)

func TestPeakDrag(t *testing.T) {
	p := NewPeakDrag()
	at := NewPeakDragAt()

	samples := []struct{ x, lift, drag float64 }{
		{1, 10, 50},
		{2, 30, 80},
		{3, 60, 70},
	}
	for _, s := range samples {
		p.Observe(s.x, s.lift, s.drag)
		at.Observe(s.x, s.lift, s.drag)
	}

	if p.Value() != 80 {
		t.Errorf("expected peak 80, got %f", p.Value())
	}
	if at.Value() != 2 {
		t.Errorf("expected peak at 2, got %f", at.Value())
	}

	p.Reset()
	at.Reset()
	if p.Value() != 0 || at.Value() != 0 {
		t.Error("reset did not clear peak")
	}
}

func TestFinalLiftRatio(t *testing.T) {
	f := NewFinalLiftRatio(200)
	f.Observe(1, 50, 10)
	f.Observe(2, 150, 10)

	if math.Abs(f.Value()-0.75) > 1e-12 {
		t.Errorf("expected 0.75, got %f", f.Value())
	}

	if NewFinalLiftRatio(0).Value() != 0 {
		t.Error("zero max lift should give zero ratio")
	}
}

func TestMeanLiftDragRatio(t *testing.T) {
	m := NewMeanLiftDragRatio()
	if m.Value() != 0 {
		t.Error("expected zero before observations")
	}

	m.Observe(1, 10, 10)
	m.Observe(2, 30, 10)
	m.Observe(3, 5, 0)

	if math.Abs(m.Value()-2) > 1e-12 {
		t.Errorf("expected mean ratio 2, got %f", m.Value())
	}
}

func TestDefaults(t *testing.T) {
	ms := Defaults(1)
	seen := make(map[string]bool)
	for _, m := range ms {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 metrics, got %d", len(seen))
	}
}
