package viz

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/maglev/internal/analysis"
	"github.com/san-kum/maglev/internal/physics"
)

var (
	chartStyle       = lipgloss.NewStyle().Padding(1, 2)
	statsStyle       = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(52)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeParamStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tunable struct {
	name  string
	unit  string
	field func(*physics.Params) *float64
}

var tunables = []tunable{
	{"standoff", "mm", func(p *physics.Params) *float64 { return &p.Standoff }},
	{"thickness", "mm", func(p *physics.Params) *float64 { return &p.Thickness }},
	{"magnetization", "A/m", func(p *physics.Params) *float64 { return &p.Magnetization }},
	{"side_length", "mm", func(p *physics.Params) *float64 { return &p.SideLength }},
	{"spacing", "mm", func(p *physics.Params) *float64 { return &p.Spacing }},
}

// TunableNames lists the parameters the explorer can adjust, in tab order.
func TunableNames() []string {
	names := make([]string, len(tunables))
	for i, t := range tunables {
		names[i] = t.name
	}
	return names
}

// AnalyzerFunc builds the analyzer used for each recomputation.
type AnalyzerFunc func(physics.Constants) *analysis.Analyzer

// Explorer re-runs the analysis whenever a parameter or display option
// changes.
type Explorer struct {
	params        physics.Params
	initialParams physics.Params
	settings      analysis.Settings
	initial       analysis.Settings
	newAnalyzer   AnalyzerFunc
	constants     physics.Constants
	report        *analysis.Report
	err           error
	selected      int
	theme         Theme
	width, height int
}

func NewExplorer(p physics.Params, s analysis.Settings, newAnalyzer AnalyzerFunc) Explorer {
	if newAnalyzer == nil {
		newAnalyzer = analysis.New
	}
	m := Explorer{
		params:        p,
		initialParams: p,
		settings:      s,
		initial:       s,
		newAnalyzer:   newAnalyzer,
		theme:         ThemeOcean,
		width:         60,
		height:        18,
	}
	m.recompute()
	return m
}

// WithTheme returns the explorer drawn with theme t.
func (m Explorer) WithTheme(t Theme) Explorer {
	m.theme = t
	return m
}

func (m Explorer) Init() tea.Cmd { return nil }

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.selected = (m.selected + 1) % len(tunables)
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "a":
			m.toggleAxis()
		case "c":
			m.settings.ShowCriticalPoints = !m.settings.ShowCriticalPoints
			m.recompute()
		case "t":
			m.theme = nextTheme(m.theme.Name)
		case "r":
			m.params = m.initialParams
			m.settings = m.initial
			m.recompute()
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-70, 20)
		m.height = max(msg.Height-8, 6)
	}
	return m, nil
}

func (m *Explorer) adjustParam(factor float64) {
	field := tunables[m.selected].field(&m.params)
	*field *= factor
	m.recompute()
}

// toggleAxis switches to the other axis with its default range, keeping the
// display options and solver limits.
func (m *Explorer) toggleAxis() {
	axis := physics.AxisSpeed
	if m.settings.Axis == physics.AxisSpeed {
		axis = physics.AxisVelocity
	}
	s := analysis.DefaultSettings(axis)
	s.ShowCriticalPoints = m.settings.ShowCriticalPoints
	s.ShowLabels = m.settings.ShowLabels
	s.Tolerance = m.settings.Tolerance
	s.MaxIter = m.settings.MaxIter
	m.settings = s
	m.recompute()
}

func (m *Explorer) recompute() {
	c, err := physics.NewConstants(m.params)
	if err != nil {
		m.err = err
		m.report = nil
		return
	}
	m.constants = c
	m.report, m.err = m.newAnalyzer(c).Run(context.Background(), m.settings)
}

// Params returns the current parameter set.
func (m Explorer) Params() physics.Params { return m.params }

// Report returns the latest analysis, or nil if it failed.
func (m Explorer) Report() *analysis.Report { return m.report }

func (m Explorer) Settings() analysis.Settings { return m.settings }

func (m Explorer) Err() error { return m.err }

func (m Explorer) View() string {
	var chart string
	switch {
	case m.err != nil:
		chart = ErrorText.Render("analysis failed: " + m.err.Error())
	default:
		chart = Plot(m.report, m.width, m.height, m.theme)
	}

	var s strings.Builder
	s.WriteString(HeaderStyle.Foreground(m.theme.Primary).Render(strings.ToUpper("halbach wheel · "+m.settings.Axis.String())) + "\n\n")

	s.WriteString("PARAMETERS\n")
	for i, t := range tunables {
		val := *t.field(&m.params)
		ref := *t.field(&m.initialParams)
		shown := val
		if t.unit == "mm" {
			shown = val * 1e3
		}
		line := fmt.Sprintf("%-13s %s %.4g %s", t.name, bar(val, ref, 10), shown, t.unit)
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	if m.err == nil {
		s.WriteString("\n")
		s.WriteString(labelStyle.Render("diffusion velocity ") + valueStyle.Render(fmt.Sprintf("%.4f m/s", m.constants.DiffusionVelocity())) + "\n")
		s.WriteString(labelStyle.Render("max lift           ") + valueStyle.Render(fmt.Sprintf("%.1f N", m.constants.MaxLift())) + "\n")
		if m.report != nil {
			unit := m.settings.Axis.Unit()
			for _, p := range m.report.Points {
				s.WriteString(labelStyle.Render(fmt.Sprintf("%-19s", p.Kind.Title())) +
					activeParamStyle.Render(fmt.Sprintf("%.3f %s, %.1f N", p.X, unit, p.Y)) + "\n")
			}
			for _, kind := range []analysis.Kind{analysis.Intersection, analysis.MaxDrag} {
				if msg, ok := m.report.Failures[kind]; ok {
					s.WriteString(labelStyle.Render(fmt.Sprintf("%-19s", kind.Title())) + ErrorText.Render(msg) + "\n")
				}
			}
		}
	}

	s.WriteString(helpStyle.Render("─────────────────────\nTab:Param ↑↓:Tune A:Axis\nC:Points T:Theme R:Reset Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, chartStyle.Render(chart), statsStyle.Render(s.String()))
}
