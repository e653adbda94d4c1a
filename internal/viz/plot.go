package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/maglev/internal/analysis"
	"github.com/san-kum/maglev/internal/physics"
)

// Plot draws both force curves as an ascii chart.
func Plot(report *analysis.Report, width, height int, theme Theme) string {
	if report == nil || len(report.Lift) == 0 {
		return ""
	}

	caption := fmt.Sprintf("force (N) vs %s (%s)", report.Settings.Axis, report.Settings.Axis.Unit())
	return asciigraph.PlotMany(
		[][]float64{report.LiftValues(), report.DragValues()},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(theme.Lift, theme.Drag),
		asciigraph.SeriesLegends("Lift Force", "Drag Force"),
		asciigraph.Caption(caption),
	)
}

// Summary lists the derived constants, critical points, failures and
// metrics of a run.
func Summary(c physics.Constants, report *analysis.Report, theme Theme) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary)
	accent := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	var s strings.Builder
	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}

	s.WriteString(title.Render("CONSTANTS") + "\n")
	row("dipole moment", fmt.Sprintf("%.4f A·m²", c.DipoleMoment()))
	row("diffusion velocity", fmt.Sprintf("%.4f m/s", c.DiffusionVelocity()))
	row("wheel radius", fmt.Sprintf("%.5f m", c.WheelRadius()))
	row("max lift", fmt.Sprintf("%.1f N", c.MaxLift()))

	s.WriteString("\n" + title.Render("CRITICAL POINTS") + "\n")
	if !report.Settings.ShowCriticalPoints {
		s.WriteString(Subtle.Render("  (disabled)") + "\n")
	}
	unit := report.Settings.Axis.Unit()
	for _, p := range report.Points {
		value := fmt.Sprintf("%.3f %s  %.1f N", p.X, unit, p.Y)
		if report.Settings.Axis == physics.AxisSpeed {
			value += fmt.Sprintf("  (%.3f m/s)", p.Velocity)
		}
		if ratio, err := c.LiftDragRatio(p.Velocity); err == nil {
			value += fmt.Sprintf("  L/D %.3f", ratio)
		}
		s.WriteString(MetricLabel.Render(p.Kind.Title()) + accent.Render(value) + "\n")
	}
	for _, kind := range []analysis.Kind{analysis.Intersection, analysis.MaxDrag} {
		if msg, ok := report.Failures[kind]; ok {
			s.WriteString(MetricLabel.Render(kind.Title()) + ErrorText.Render("failed: "+msg) + "\n")
		}
	}

	if names := report.MetricNames(); len(names) > 0 {
		s.WriteString("\n" + title.Render("METRICS") + "\n")
		for _, name := range names {
			row(name, fmt.Sprintf("%.4f", report.Metrics[name]))
		}
	}

	return Panel.BorderForeground(theme.Muted).Render(strings.TrimRight(s.String(), "\n"))
}
