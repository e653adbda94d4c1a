package export

import (
	"fmt"

	"github.com/san-kum/maglev/internal/analysis"
	"github.com/xuri/excelize/v2"
)

const (
	SamplesSheet = "samples"
	PointsSheet  = "critical_points"
)

// SaveXLSX writes a workbook with the sampled curves and the critical points.
func SaveXLSX(report *analysis.Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SamplesSheet); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(SamplesSheet)
	if err != nil {
		return err
	}

	unit := report.Settings.Axis.Unit()
	header := []interface{}{fmt.Sprintf("%s (%s)", report.Settings.Axis, unit), "lift (N)", "drag (N)"}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i := range report.Lift {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, []interface{}{report.Lift[i].X, report.Lift[i].Y, report.Drag[i].Y}); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	if _, err := f.NewSheet(PointsSheet); err != nil {
		return err
	}

	rows := [][]interface{}{{"kind", "x", "force (N)", "velocity (m/s)", "iterations"}}
	for _, p := range report.Points {
		rows = append(rows, []interface{}{string(p.Kind), p.X, p.Y, p.Velocity, p.Iterations})
	}
	for _, kind := range []analysis.Kind{analysis.Intersection, analysis.MaxDrag} {
		if msg, ok := report.Failures[kind]; ok {
			rows = append(rows, []interface{}{string(kind), "failed", msg})
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(PointsSheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
