package handler

import (
	"net/http"

	"github.com/carbonchain/portal-api/internal/session"
	"github.com/carbonchain/portal-api/internal/state"
	"go.uber.org/zap"
)

// AnalysisHandler serves the analysis run and AI optimization regeneration
type AnalysisHandler struct {
	controller *state.Controller
	logger     *zap.Logger
}

// NewAnalysisHandler creates the analysis handler
func NewAnalysisHandler(controller *state.Controller, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{controller: controller, logger: logger}
}

// Run triggers a fresh backend analysis for the selected product. Concurrent
// runs are rejected with 409 while one is in flight.
// POST /api/v1/analysis/run
func (h *AnalysisHandler) Run(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	if err := h.controller.RunAnalysis(r.Context(), sess); err != nil {
		respondOperationError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.ViewState(h.controller.BackendReachable()))
}

// Regenerate replaces the AI recommendation set for the selected product
// POST /api/v1/optimizations/regenerate
func (h *AnalysisHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	if err := h.controller.RegenerateAIOptimizations(r.Context(), sess); err != nil {
		respondOperationError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.ViewState(h.controller.BackendReachable()))
}
