package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/maglev/internal/analysis"
	"github.com/san-kum/maglev/internal/physics"
	"github.com/xuri/excelize/v2"
)

func runReport(t *testing.T, axis physics.Axis) *analysis.Report {
	t.Helper()
	c, err := physics.NewConstants(physics.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	r, err := analysis.New(c).Run(context.Background(), analysis.DefaultSettings(axis))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestCurvesToSVG(t *testing.T) {
	r := runReport(t, physics.AxisVelocity)

	svg := CurvesToSVG(r, 400, 300)
	if !strings.HasPrefix(svg, "<?xml") {
		t.Fatal("missing xml header")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("svg not closed")
	}
	if n := strings.Count(svg, "<path"); n != 2 {
		t.Errorf("expected 2 paths, got %d", n)
	}
	if n := strings.Count(svg, "<circle"); n != len(r.Points) {
		t.Errorf("expected %d markers, got %d", len(r.Points), n)
	}
	if !strings.Contains(svg, "POI") {
		t.Error("expected POI label")
	}
}

func TestCurvesToSVGEmpty(t *testing.T) {
	if CurvesToSVG(nil, 100, 100) != "" {
		t.Error("expected empty svg for nil report")
	}
	if CurvesToSVG(&analysis.Report{}, 100, 100) != "" {
		t.Error("expected empty svg for empty report")
	}
}

func TestTitles(t *testing.T) {
	if Title(physics.AxisVelocity) != "Force vs Velocity" || Title(physics.AxisSpeed) != "Force vs Speed" {
		t.Error("unexpected titles")
	}
	if AxisLabel(physics.AxisVelocity) != "Velocity (m/s)" || AxisLabel(physics.AxisSpeed) != "Speed (rpm)" {
		t.Error("unexpected axis labels")
	}
}

func TestSavePNG(t *testing.T) {
	r := runReport(t, physics.AxisVelocity)
	path := filepath.Join(t.TempDir(), "forces.png")

	if err := SavePNG(r, path, 480, 320); err != nil {
		t.Fatalf("save png: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("not a png file")
	}
}

func TestNewPlotEmpty(t *testing.T) {
	if _, err := NewPlot(&analysis.Report{}); err == nil {
		t.Error("expected error for empty report")
	}
}

func TestWriteCSV(t *testing.T) {
	r := runReport(t, physics.AxisVelocity)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, r); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(r.Lift)+1 {
		t.Fatalf("expected %d rows, got %d", len(r.Lift)+1, len(records))
	}
	if strings.Join(records[0], ",") != "x,lift,drag" {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[1][0] != "0.001" {
		t.Errorf("expected first x 0.001, got %s", records[1][0])
	}

	r.Drag = r.Drag[:len(r.Drag)-1]
	if err := WriteCSV(&bytes.Buffer{}, r); err == nil {
		t.Error("expected error for mismatched curves")
	}
}

func TestWriteJSON(t *testing.T) {
	r := runReport(t, physics.AxisSpeed)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, r); err != nil {
		t.Fatal(err)
	}

	var data Data
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Axis != "rpm" || data.Unit != "rpm" {
		t.Errorf("unexpected axis %s/%s", data.Axis, data.Unit)
	}
	if data.Samples != len(r.Lift) || len(data.X) != data.Samples || len(data.Drag) != data.Samples {
		t.Error("sample counts disagree")
	}
	if len(data.Points) != 2 {
		t.Errorf("expected 2 points, got %d", len(data.Points))
	}
}

func TestSaveXLSX(t *testing.T) {
	r := runReport(t, physics.AxisVelocity)
	path := filepath.Join(t.TempDir(), "forces.xlsx")

	if err := SaveXLSX(r, path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(SamplesSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(r.Lift)+1 {
		t.Errorf("expected %d sample rows, got %d", len(r.Lift)+1, len(rows))
	}

	points, err := f.GetRows(PointsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != len(r.Points)+1 {
		t.Errorf("expected %d point rows, got %d", len(r.Points)+1, len(points))
	}
	if points[1][0] != string(r.Points[0].Kind) {
		t.Errorf("expected kind %s, got %s", r.Points[0].Kind, points[1][0])
	}
}
