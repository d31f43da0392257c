// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/matslab/scpredict/internal/adapters/history"
	"github.com/matslab/scpredict/internal/app"
	"github.com/matslab/scpredict/internal/domain/feature"
	"github.com/matslab/scpredict/internal/domain/mix"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// RunPass executes one validation + prediction pass.
	RunPass(ctx context.Context, req app.PassRequest) (*app.Report, error)

	// RecentPasses lists recent pass summaries from history.
	RecentPasses(ctx context.Context, limit int) ([]history.Record, error)

	// Bounds exposes the environment-range deployment variant.
	Bounds() app.EnvironmentBounds
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	predictHandler    *PredictHandler
	componentsHandler *ComponentsHandler
	exportHandler     *ExportHandler
	historyHandler    *HistoryHandler
	pageHandler       *pageHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		predictHandler:    NewPredictHandler(deps),
		componentsHandler: NewComponentsHandler(deps),
		exportHandler:     NewExportHandler(deps),
		historyHandler:    NewHistoryHandler(deps),
		pageHandler:       newPageHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/components", MetricsMiddleware(s.componentsHandler.HandleGetComponents, "components"))
	mux.HandleFunc("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/predict/export.xlsx", MetricsMiddleware(s.exportHandler.HandleXLSX, "export_xlsx"))
	mux.HandleFunc("/predict/report.pdf", MetricsMiddleware(s.exportHandler.HandlePDF, "export_pdf"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
	mux.HandleFunc("/", s.pageHandler.HandlePage)
}

// portionRequest is one component's share in a predict request. Nil fields
// fall back to the catalog defaults.
type portionRequest struct {
	Quantity        *float64 `json:"quantity"`
	SpecificGravity *float64 `json:"specific_gravity"`
}

// predictRequest mirrors the request schema for POST /predict.
type predictRequest struct {
	Components  map[string]portionRequest `json:"components"`
	Chloride    *float64                  `json:"chloride"`
	Temperature *float64                  `json:"temperature"`
	Zone        string                    `json:"zone"`
	Times       []float64                 `json:"times,omitempty"`
}

// Reference defaults for omitted environment inputs.
const (
	defaultChloride    = 19.0
	defaultTemperature = 25.0
)

// toPassRequest validates acquisition-level constraints (known component
// names, non-negative quantities, positive specific gravities, a known zone)
// and fills omitted inputs from the catalog defaults.
func (r predictRequest) toPassRequest() (app.PassRequest, error) {
	design := mix.DefaultDesign()
	for name, portion := range r.Components {
		c := mix.Component(name)
		base, ok := design[c]
		if !ok {
			return app.PassRequest{}, fmt.Errorf("unknown component %q", name)
		}
		if portion.Quantity != nil {
			if *portion.Quantity < 0 {
				return app.PassRequest{}, fmt.Errorf("component %q: quantity must be non-negative", name)
			}
			base.Quantity = *portion.Quantity
		}
		if portion.SpecificGravity != nil {
			if *portion.SpecificGravity <= 0 {
				return app.PassRequest{}, fmt.Errorf("component %q: specific gravity must be positive", name)
			}
			base.SpecificGravity = *portion.SpecificGravity
		}
		design[c] = base
	}

	zone, err := feature.ParseZone(r.Zone)
	if err != nil {
		return app.PassRequest{}, err
	}

	env := feature.Environment{
		Chloride:    defaultChloride,
		Temperature: defaultTemperature,
		Zone:        zone,
	}
	if r.Chloride != nil {
		env.Chloride = *r.Chloride
	}
	if r.Temperature != nil {
		env.Temperature = *r.Temperature
	}

	return app.PassRequest{Design: design, Environment: env, Times: r.Times}, nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// gateErrorResponse carries the computed offending value for a failed gate.
type gateErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Gate    string  `json:"gate"`
	Value   float64 `json:"value"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writePassError maps pass failures onto HTTP statuses: gate violations to
// 422 with the computed value, acquisition/environment problems to 400.
func writePassError(w http.ResponseWriter, err error) {
	var gateErr *mix.GateError
	if errors.As(err, &gateErr) {
		writeJSON(w, http.StatusUnprocessableEntity, gateErrorResponse{
			Code:    "validation_failed",
			Message: gateErr.Error(),
			Gate:    string(gateErr.Gate),
			Value:   gateErr.Value,
			Min:     gateErr.Min,
			Max:     gateErr.Max,
		})
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", err)
}
