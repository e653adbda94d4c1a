package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/maglev/internal/analysis"
)

const (
	LiftColor   = "#4fc3f7"
	DragColor   = "#ff8a65"
	MarkerColor = "#ffd54f"
)

// CurvesToSVG draws the lift and drag curves of a report with its critical
// point markers. It returns an empty string when there is nothing to draw.
func CurvesToSVG(report *analysis.Report, width, height int) string {
	if report == nil || len(report.Lift) < 2 {
		return ""
	}

	minX, maxX := report.Lift[0].X, report.Lift[len(report.Lift)-1].X
	minY, maxY := 0.0, 0.0
	for i := range report.Lift {
		maxY = max(maxY, report.Lift[i].Y, report.Drag[i].Y)
		minY = min(minY, report.Lift[i].Y, report.Drag[i].Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	project := func(x, y float64) (float64, float64) {
		px := (x - minX) / rangeX * float64(width)
		py := float64(height) - (y-minY)/rangeY*float64(height)
		return px, py
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	writePath := func(samples []analysis.Sample, color string) {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for i, s := range samples {
			x, y := project(s.X, s.Y)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	writePath(report.Lift, LiftColor)
	writePath(report.Drag, DragColor)

	for _, m := range report.Markers() {
		x, y := project(m.X, m.Y)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>
<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="11">%s</text>
`, x, y, MarkerColor, x+6, y-6, MarkerColor, html.EscapeString(m.Label)))
	}

	sb.WriteString(fmt.Sprintf(`<text x="8" y="16" fill="%s" font-family="monospace" font-size="12">Lift Force</text>
<text x="8" y="32" fill="%s" font-family="monospace" font-size="12">Drag Force</text>
`, LiftColor, DragColor))

	sb.WriteString("</svg>")
	return sb.String()
}
