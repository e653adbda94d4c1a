package analysis

import (
	"fmt"
	"sort"
)

// Report is the result of one analysis run.
type Report struct {
	Settings Settings           `json:"settings"`
	Lift     []Sample           `json:"lift"`
	Drag     []Sample           `json:"drag"`
	Points   []CriticalPoint    `json:"points"`
	Failures map[Kind]string    `json:"failures,omitempty"`
	Metrics  map[string]float64 `json:"metrics"`
}

// Marker is a labelled point for presentation.
type Marker struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}

// Point returns the critical point of the given kind, if it was found.
func (r *Report) Point(kind Kind) (CriticalPoint, bool) {
	for _, p := range r.Points {
		if p.Kind == kind {
			return p, true
		}
	}
	return CriticalPoint{}, false
}

// Markers lists the critical points to draw. Labels carry coordinates when
// ShowLabels is set and only the point name otherwise.
func (r *Report) Markers() []Marker {
	markers := make([]Marker, 0, len(r.Points))
	for _, p := range r.Points {
		label := p.Kind.Title()
		if r.Settings.ShowLabels {
			label = fmt.Sprintf("%s (%.2f %s, %.1f N)", label, p.X, r.Settings.Axis.Unit(), p.Y)
		}
		markers = append(markers, Marker{X: p.X, Y: p.Y, Label: label})
	}
	return markers
}

func (r *Report) Xs() []float64 {
	xs := make([]float64, len(r.Lift))
	for i := range r.Lift {
		xs[i] = r.Lift[i].X
	}
	return xs
}

func (r *Report) LiftValues() []float64 { return values(r.Lift) }
func (r *Report) DragValues() []float64 { return values(r.Drag) }

// MetricNames returns metric keys in sorted order.
func (r *Report) MetricNames() []string {
	names := make([]string, 0, len(r.Metrics))
	for k := range r.Metrics {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
