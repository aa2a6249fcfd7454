package handler

import (
	"net/http"

	"github.com/carbonchain/portal-api/internal/config"
	"github.com/carbonchain/portal-api/internal/domain"
	"github.com/carbonchain/portal-api/internal/state"
)

// MetaHandler serves static form metadata and the health endpoint
type MetaHandler struct {
	controller *state.Controller
	appCfg     *config.AppConfig
}

// NewMetaHandler creates the meta handler
func NewMetaHandler(controller *state.Controller, appCfg *config.AppConfig) *MetaHandler {
	return &MetaHandler{controller: controller, appCfg: appCfg}
}

// Meta returns the form option data: stages, transport modes with emission
// factors, energy sources, and the supported region list
// GET /api/v1/meta
func (h *MetaHandler) Meta(w http.ResponseWriter, r *http.Request) {
	modes := make([]domain.TransportModeMeta, 0, len(domain.TransportModes))
	for _, m := range domain.TransportModes {
		modes = append(modes, domain.TransportModeMeta{
			Mode:           m,
			EmissionFactor: domain.EmissionFactors[m],
		})
	}

	respondJSON(w, http.StatusOK, domain.FormMeta{
		Stages:         domain.Stages,
		TransportModes: modes,
		EnergySources:  domain.EnergySources,
		Regions:        domain.Regions,
		DefaultFrom:    "Pune",
		DefaultTo:      "Mumbai",
	})
}

// healthResponse reports portal liveness; backend reachability is advisory
// and never affects the status
type healthResponse struct {
	Status           string `json:"status"`
	App              string `json:"app"`
	Environment      string `json:"environment"`
	BackendReachable bool   `json:"backendReachable"`
}

// Health is the liveness endpoint
// GET /health
func (h *MetaHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, healthResponse{
		Status:           "ok",
		App:              h.appCfg.Name,
		Environment:      h.appCfg.Environment,
		BackendReachable: h.controller.BackendReachable(),
	})
}
