package export

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/matslab/scpredict/internal/app"
	"github.com/matslab/scpredict/internal/domain/mix"
)

// Layout constants in mm.
const (
	labelWidth = 90
	valueWidth = 60
	rowHeight  = 6
)

// PDF renders a one-page pass report: inputs, derived quantities, and the
// milestone table.
func PDF(report *app.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Surface Chloride Concentration Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, "Pass "+report.PassID, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, rowHeight, "Mix Design", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, c := range mix.Components() {
		p := report.Design[c]
		kv(pdf, string(c), fmt.Sprintf("%.1f kg/m3 (SG %.2f)", p.Quantity, p.SpecificGravity))
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, rowHeight, "Derived Quantities", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	kv(pdf, "Binder mass", fmt.Sprintf("%.1f kg/m3", report.BinderMass))
	kv(pdf, "Water-binder ratio", fmt.Sprintf("%.3f", report.WaterBinderRatio))
	kv(pdf, "Batch volume", fmt.Sprintf("%.3f m3", report.BatchVolume))
	kv(pdf, "Exposure zone", string(report.Environment.Zone))
	kv(pdf, "Cl content in seawater", fmt.Sprintf("%.1f g/L", report.Environment.Chloride))
	kv(pdf, "Annual temperature", fmt.Sprintf("%.1f C", report.Environment.Temperature))
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, rowHeight, "Predicted Surface Chloride Concentration", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelWidth, rowHeight, "Exposure time (years)", "1", 0, "L", false, 0, "")
	pdf.CellFormat(valueWidth, rowHeight, "SC (% mass)", "1", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	rows := report.Milestones
	if len(rows) == 0 {
		rows = report.Samples
	}
	for _, s := range rows {
		pdf.CellFormat(labelWidth, rowHeight, fmt.Sprintf("%.1f", s.ExposureTime), "1", 0, "L", false, 0, "")
		pdf.CellFormat(valueWidth, rowHeight, fmt.Sprintf("%.4f", s.PredictedSC), "1", 1, "L", false, 0, "")
	}

	if report.Truncated && report.Failure != nil {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, "Sweep aborted: "+report.Failure.Message, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	return buf.Bytes(), nil
}

func kv(pdf *gofpdf.Fpdf, label, value string) {
	pdf.CellFormat(labelWidth, rowHeight, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(valueWidth, rowHeight, value, "", 1, "L", false, 0, "")
}
