package handler

import (
	"net/http"

	"github.com/carbonchain/portal-api/internal/domain"
	"github.com/carbonchain/portal-api/internal/session"
	"github.com/carbonchain/portal-api/internal/state"
	"go.uber.org/zap"
)

// ProductHandler serves product creation
type ProductHandler struct {
	controller *state.Controller
	logger     *zap.Logger
}

// NewProductHandler creates the product handler
func NewProductHandler(controller *state.Controller, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{controller: controller, logger: logger}
}

// Create validates the product form, creates the product, and selects it.
// The form's net-zero target arrives in tonnes and is scaled before it
// reaches the backend.
// POST /api/v1/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req domain.CreateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.controller.CreateProduct(r.Context(), sess, req); err != nil {
		respondOperationError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sess.ViewState(h.controller.BackendReachable()))
}
