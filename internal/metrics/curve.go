package metrics

import (
	"math"

	"github.com/san-kum/maglev/internal/analysis"
)

// Defaults returns the metrics recorded with every run.
func Defaults(maxLift float64) []analysis.Metric {
	return []analysis.Metric{
		NewPeakDrag(),
		NewPeakDragAt(),
		NewFinalLiftRatio(maxLift),
		NewMeanLiftDragRatio(),
	}
}

type PeakDrag struct {
	name string
	peak float64
}

func NewPeakDrag() *PeakDrag {
	return &PeakDrag{name: "peak_drag"}
}

func (p *PeakDrag) Name() string { return p.name }

func (p *PeakDrag) Observe(x, lift, drag float64) {
	p.peak = math.Max(p.peak, drag)
}

func (p *PeakDrag) Value() float64 { return p.peak }

func (p *PeakDrag) Reset() { p.peak = 0 }

// PeakDragAt records where on the axis the sampled drag peaked.
type PeakDragAt struct {
	name string
	peak float64
	at   float64
}

func NewPeakDragAt() *PeakDragAt {
	return &PeakDragAt{name: "peak_drag_at"}
}

func (p *PeakDragAt) Name() string { return p.name }

func (p *PeakDragAt) Observe(x, lift, drag float64) {
	if drag > p.peak {
		p.peak = drag
		p.at = x
	}
}

func (p *PeakDragAt) Value() float64 { return p.at }

func (p *PeakDragAt) Reset() {
	p.peak = 0
	p.at = 0
}

// FinalLiftRatio is the lift at the last sample as a fraction of the
// asymptotic lift.
type FinalLiftRatio struct {
	name    string
	maxLift float64
	last    float64
}

func NewFinalLiftRatio(maxLift float64) *FinalLiftRatio {
	return &FinalLiftRatio{name: "final_lift_ratio", maxLift: maxLift}
}

func (f *FinalLiftRatio) Name() string { return f.name }

func (f *FinalLiftRatio) Observe(x, lift, drag float64) { f.last = lift }

func (f *FinalLiftRatio) Value() float64 {
	if f.maxLift == 0 {
		return 0
	}
	return f.last / f.maxLift
}

func (f *FinalLiftRatio) Reset() { f.last = 0 }

type MeanLiftDragRatio struct {
	name    string
	sum     float64
	samples int
}

func NewMeanLiftDragRatio() *MeanLiftDragRatio {
	return &MeanLiftDragRatio{name: "mean_lift_drag_ratio"}
}

func (m *MeanLiftDragRatio) Name() string { return m.name }

func (m *MeanLiftDragRatio) Observe(x, lift, drag float64) {
	if drag == 0 {
		return
	}
	m.sum += lift / drag
	m.samples++
}

func (m *MeanLiftDragRatio) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanLiftDragRatio) Reset() {
	m.sum = 0
	m.samples = 0
}
