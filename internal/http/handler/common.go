package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carbonchain/portal-api/internal/backend"
	"github.com/carbonchain/portal-api/internal/domain"
	"github.com/carbonchain/portal-api/internal/state"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondWithError sends a standardized JSON error response
func respondWithError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.APIError{
		Type:   getErrorType(status),
		Title:  http.StatusText(status),
		Status: status,
		Detail: message,
	})
}

// respondOperationError maps a controller operation error onto the wire.
// Local precondition sentinels and validation APIErrors keep their statuses;
// backend failures surface the backend's message verbatim as a 502.
func respondOperationError(w http.ResponseWriter, err error) {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		respondJSON(w, apiErr.Status, apiErr)
		return
	}

	var backendErr *backend.APIError
	if errors.As(err, &backendErr) {
		respondJSON(w, http.StatusBadGateway, domain.APIError{
			Type:   domain.ErrorTypeUpstream,
			Title:  "Backend Error",
			Status: http.StatusBadGateway,
			Detail: backendErr.Message,
		})
		return
	}

	switch {
	case errors.Is(err, state.ErrNotAuthenticated):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, state.ErrBusy):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, state.ErrNoSelection), errors.Is(err, state.ErrNoNodes), errors.Is(err, state.ErrUnknownProduct):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		respondWithError(w, http.StatusBadGateway, err.Error())
	}
}

// getErrorType returns the appropriate error type for an HTTP status code
func getErrorType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrorTypeBadRequest
	case http.StatusUnauthorized:
		return domain.ErrorTypeUnauthorized
	case http.StatusForbidden:
		return domain.ErrorTypeForbidden
	case http.StatusNotFound:
		return domain.ErrorTypeNotFound
	case http.StatusConflict:
		return domain.ErrorTypeConflict
	case http.StatusBadGateway:
		return domain.ErrorTypeUpstream
	default:
		return domain.ErrorTypeInternal
	}
}

// decodeBody decodes a JSON request body, rejecting malformed payloads
func decodeBody(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}
