// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/matslab/scpredict/internal/domain/feature"
	"github.com/matslab/scpredict/internal/domain/mix"
)

// ComponentsHandler serves the component catalog used to build input forms.
type ComponentsHandler struct {
	deps Dependencies
}

// NewComponentsHandler creates a new components handler.
func NewComponentsHandler(deps Dependencies) *ComponentsHandler {
	return &ComponentsHandler{deps: deps}
}

// environmentInfo describes the environment inputs for form building.
type environmentInfo struct {
	Zones              []feature.Zone `json:"zones"`
	DefaultChloride    float64        `json:"default_chloride"`
	DefaultTemperature float64        `json:"default_temperature"`
	StrictBounds       bool           `json:"strict_bounds"`
	ChlorideMin        *float64       `json:"chloride_min,omitempty"`
	ChlorideMax        *float64       `json:"chloride_max,omitempty"`
	TemperatureMin     *float64       `json:"temperature_min,omitempty"`
	TemperatureMax     *float64       `json:"temperature_max,omitempty"`
}

type componentsResponse struct {
	Components  []mix.CatalogEntry `json:"components"`
	Environment environmentInfo    `json:"environment"`
}

// HandleGetComponents handles GET /components requests. Quantity ranges in
// the catalog are advisory; only non-negativity is enforced on submit.
func (h *ComponentsHandler) HandleGetComponents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	bounds := h.deps.Bounds()
	env := environmentInfo{
		Zones:              feature.Zones(),
		DefaultChloride:    defaultChloride,
		DefaultTemperature: defaultTemperature,
		StrictBounds:       bounds.Strict,
	}
	if bounds.Strict {
		env.ChlorideMin = &bounds.ChlorideMin
		env.ChlorideMax = &bounds.ChlorideMax
		env.TemperatureMin = &bounds.TemperatureMin
		env.TemperatureMax = &bounds.TemperatureMax
	}
	writeJSON(w, http.StatusOK, componentsResponse{
		Components:  mix.Catalog(),
		Environment: env,
	})
}
