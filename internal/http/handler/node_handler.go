package handler

import (
	"net/http"

	"github.com/carbonchain/portal-api/internal/domain"
	"github.com/carbonchain/portal-api/internal/session"
	"github.com/carbonchain/portal-api/internal/state"
	"go.uber.org/zap"
)

// NodeHandler serves supply chain node creation and the advisory route preview
type NodeHandler struct {
	controller *state.Controller
	logger     *zap.Logger
}

// NewNodeHandler creates the node handler
func NewNodeHandler(controller *state.Controller, logger *zap.Logger) *NodeHandler {
	return &NodeHandler{controller: controller, logger: logger}
}

// Create records a supply chain node for the selected product
// POST /api/v1/nodes
func (h *NodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req domain.AddNodeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.controller.AddNode(r.Context(), sess, req); err != nil {
		respondOperationError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sess.ViewState(h.controller.BackendReachable()))
}

// routePreviewResponse wraps the advisory route intelligence; route is null
// when the engine had nothing to say or the lookup failed
type routePreviewResponse struct {
	Route *domain.RouteIntelligence `json:"route"`
}

// RoutePreview returns advisory route intelligence for a city pair while the
// node form is being composed. Lookup failures yield a null route, never an
// error: the preview must not interrupt node entry.
// POST /api/v1/nodes/route-preview
func (h *NodeHandler) RoutePreview(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req domain.RoutePreviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	route, err := h.controller.RoutePreview(r.Context(), sess, req)
	if err != nil {
		respondOperationError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, routePreviewResponse{Route: route})
}
