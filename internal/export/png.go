package export

import (
	"fmt"
	"image/color"

	"github.com/san-kum/maglev/internal/analysis"
	"github.com/san-kum/maglev/internal/physics"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	liftRGBA   = color.RGBA{R: 0x02, G: 0x88, B: 0xd1, A: 0xff}
	dragRGBA   = color.RGBA{R: 0xe6, G: 0x4a, B: 0x19, A: 0xff}
	markerRGBA = color.RGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff}
)

// Title returns the plot title for the axis.
func Title(axis physics.Axis) string {
	if axis == physics.AxisSpeed {
		return "Force vs Speed"
	}
	return "Force vs Velocity"
}

// AxisLabel returns the horizontal axis label.
func AxisLabel(axis physics.Axis) string {
	if axis == physics.AxisSpeed {
		return "Speed (rpm)"
	}
	return "Velocity (m/s)"
}

// NewPlot builds the force chart: both curves, a legend and the critical
// point markers with their labels.
func NewPlot(report *analysis.Report) (*plot.Plot, error) {
	if report == nil || len(report.Lift) == 0 {
		return nil, fmt.Errorf("export: empty report")
	}

	p := plot.New()
	p.Title.Text = Title(report.Settings.Axis)
	p.X.Label.Text = AxisLabel(report.Settings.Axis)
	p.Y.Label.Text = "Force (N)"
	p.Y.Min = 0
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	lift, err := plotter.NewLine(toXYs(report.Lift))
	if err != nil {
		return nil, fmt.Errorf("lift line: %w", err)
	}
	lift.Color = liftRGBA
	lift.Width = vg.Points(1.5)

	drag, err := plotter.NewLine(toXYs(report.Drag))
	if err != nil {
		return nil, fmt.Errorf("drag line: %w", err)
	}
	drag.Color = dragRGBA
	drag.Width = vg.Points(1.5)

	p.Add(lift, drag)
	p.Legend.Add("Lift Force", lift)
	p.Legend.Add("Drag Force", drag)

	markers := report.Markers()
	if len(markers) == 0 {
		return p, nil
	}

	xys := make(plotter.XYs, len(markers))
	labels := make([]string, len(markers))
	for i, m := range markers {
		xys[i] = plotter.XY{X: m.X, Y: m.Y}
		labels[i] = m.Label
	}

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("markers: %w", err)
	}
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Color = markerRGBA
	sc.GlyphStyle.Radius = vg.Points(3)

	lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("marker labels: %w", err)
	}
	lbl.Offset = vg.Point{X: vg.Points(5), Y: vg.Points(5)}

	p.Add(sc, lbl)
	return p, nil
}

// SavePNG renders the force chart to path. Width and height are in points.
func SavePNG(report *analysis.Report, path string, width, height int) error {
	p, err := NewPlot(report)
	if err != nil {
		return err
	}
	return p.Save(vg.Points(float64(width)), vg.Points(float64(height)), path)
}

func toXYs(samples []analysis.Sample) plotter.XYs {
	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pts[i].X = s.X
		pts[i].Y = s.Y
	}
	return pts
}
