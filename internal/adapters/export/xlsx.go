// Package export renders a completed pass as downloadable artifacts.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/matslab/scpredict/internal/app"
	"github.com/matslab/scpredict/internal/domain/mix"
)

const (
	mixSheet  = "Mix Design"
	predSheet = "Predictions"
)

// XLSX renders the pass report as a two-sheet workbook: the mix design with
// derived quantities, and the predicted curve with the milestone table.
func XLSX(report *app.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", mixSheet); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	if _, err := f.NewSheet(predSheet); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	if err := writeMixSheet(f, report); err != nil {
		return nil, err
	}
	if err := writePredictionSheet(f, report); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return buf.Bytes(), nil
}

func writeMixSheet(f *excelize.File, report *app.Report) error {
	cells := [][]interface{}{
		{"Pass", report.PassID},
		{"Exposure zone", string(report.Environment.Zone)},
		{"Cl content in seawater (g/L)", report.Environment.Chloride},
		{"Annual temperature (C)", report.Environment.Temperature},
		{},
		{"Component", "Quantity (kg/m3)", "Specific gravity"},
	}
	for _, c := range mix.Components() {
		p := report.Design[c]
		cells = append(cells, []interface{}{string(c), p.Quantity, p.SpecificGravity})
	}
	cells = append(cells,
		[]interface{}{},
		[]interface{}{"Binder mass (kg/m3)", report.BinderMass},
		[]interface{}{"Water-binder ratio", report.WaterBinderRatio},
		[]interface{}{"Batch volume (m3)", report.BatchVolume},
	)
	return writeRows(f, mixSheet, cells)
}

func writePredictionSheet(f *excelize.File, report *app.Report) error {
	cells := [][]interface{}{
		{"Exposure time (years)", "Predicted SC (% mass)"},
	}
	for _, s := range report.Samples {
		cells = append(cells, []interface{}{s.ExposureTime, s.PredictedSC})
	}
	if len(report.Milestones) > 0 {
		cells = append(cells, []interface{}{}, []interface{}{"Milestone (years)", "Predicted SC (% mass)"})
		for _, s := range report.Milestones {
			cells = append(cells, []interface{}{s.ExposureTime, s.PredictedSC})
		}
	}
	if report.Truncated && report.Failure != nil {
		cells = append(cells, []interface{}{}, []interface{}{"Sweep aborted", report.Failure.Message})
	}
	return writeRows(f, predSheet, cells)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrRender, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("%w: %w", ErrRender, err)
			}
		}
	}
	return nil
}
