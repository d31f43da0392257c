// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/matslab/scpredict/internal/adapters/export"
	"github.com/matslab/scpredict/internal/app"
	"github.com/matslab/scpredict/pkg/metrics"
)

// ExportHandler runs a pass and streams the result as a file.
type ExportHandler struct {
	deps Dependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// HandleXLSX handles POST /predict/export.xlsx requests.
func (h *ExportHandler) HandleXLSX(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_xlsx"
	report, ok := h.runPass(w, r, op)
	if !ok {
		return
	}
	data, err := export.XLSX(report)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	metrics.RecordExport("xlsx")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="prediction-`+report.PassID+`.xlsx"`)
	_, _ = w.Write(data)
}

// HandlePDF handles POST /predict/report.pdf requests.
func (h *ExportHandler) HandlePDF(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_pdf"
	report, ok := h.runPass(w, r, op)
	if !ok {
		return
	}
	data, err := export.PDF(report)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	metrics.RecordExport("pdf")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="prediction-`+report.PassID+`.pdf"`)
	_, _ = w.Write(data)
}

// runPass decodes the shared predict request shape and executes the pass,
// writing the error response itself when anything fails.
func (h *ExportHandler) runPass(w http.ResponseWriter, r *http.Request, op string) (*app.Report, bool) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return nil, false
	}
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return nil, false
	}
	pass, err := req.toPassRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return nil, false
	}
	report, err := h.deps.RunPass(r.Context(), pass)
	if err != nil {
		writePassError(w, err)
		return nil, false
	}
	return report, true
}
