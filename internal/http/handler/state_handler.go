package handler

import (
	"net/http"

	"github.com/carbonchain/portal-api/internal/domain"
	"github.com/carbonchain/portal-api/internal/session"
	"github.com/carbonchain/portal-api/internal/state"
	"go.uber.org/zap"
)

// StateHandler serves the session view model and selection operations
type StateHandler struct {
	controller *state.Controller
	logger     *zap.Logger
}

// NewStateHandler creates the state handler
func NewStateHandler(controller *state.Controller, logger *zap.Logger) *StateHandler {
	return &StateHandler{controller: controller, logger: logger}
}

// Get returns the full view model for the session
// GET /api/v1/state
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	respondJSON(w, http.StatusOK, sess.ViewState(h.controller.BackendReachable()))
}

// SelectProduct switches the dashboard to another product; an empty productId
// deselects
// POST /api/v1/state/select-product
func (h *StateHandler) SelectProduct(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req domain.SelectProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.controller.SelectProduct(r.Context(), sess, req.ProductID); err != nil {
		respondOperationError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.ViewState(h.controller.BackendReachable()))
}

// Navigate switches the session to another logical page
// POST /api/v1/state/navigate
func (h *StateHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req domain.NavigateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.controller.Navigate(sess, req); err != nil {
		respondOperationError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.ViewState(h.controller.BackendReachable()))
}

// DismissError clears the session's user-visible error
// POST /api/v1/state/dismiss-error
func (h *StateHandler) DismissError(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	sess.DismissError()
	respondJSON(w, http.StatusOK, sess.ViewState(h.controller.BackendReachable()))
}
