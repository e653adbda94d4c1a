package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/maglev/internal/analysis"
)

// WriteCSV writes the report curves as x,lift,drag rows.
func WriteCSV(w io.Writer, report *analysis.Report) error {
	if len(report.Drag) != len(report.Lift) {
		return fmt.Errorf("lift has %d samples, drag has %d", len(report.Lift), len(report.Drag))
	}
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"x", "lift", "drag"}); err != nil {
		return err
	}

	for i := range report.Lift {
		row := []string{
			strconv.FormatFloat(report.Lift[i].X, 'g', -1, 64),
			strconv.FormatFloat(report.Lift[i].Y, 'g', -1, 64),
			strconv.FormatFloat(report.Drag[i].Y, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type Data struct {
	Axis     string                   `json:"axis"`
	Unit     string                   `json:"unit"`
	Samples  int                      `json:"samples"`
	X        []float64                `json:"x"`
	Lift     []float64                `json:"lift"`
	Drag     []float64                `json:"drag"`
	Points   []analysis.CriticalPoint `json:"points"`
	Failures map[analysis.Kind]string `json:"failures,omitempty"`
	Metrics  map[string]float64       `json:"metrics"`
}

func NewData(report *analysis.Report) Data {
	return Data{
		Axis:     report.Settings.Axis.String(),
		Unit:     report.Settings.Axis.Unit(),
		Samples:  len(report.Lift),
		X:        report.Xs(),
		Lift:     report.LiftValues(),
		Drag:     report.DragValues(),
		Points:   report.Points,
		Failures: report.Failures,
		Metrics:  report.Metrics,
	}
}

func WriteJSON(w io.Writer, report *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewData(report))
}
