package handler

import (
	"net/http"

	"github.com/carbonchain/portal-api/internal/config"
	"github.com/carbonchain/portal-api/internal/domain"
	"github.com/carbonchain/portal-api/internal/session"
	"github.com/carbonchain/portal-api/internal/state"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login, and logout. Success mints a session
// in the store and references it from a signed cookie.
type AuthHandler struct {
	controller *state.Controller
	store      *session.Store
	codec      *session.TokenCodec
	sessionCfg *config.SessionConfig
	logger     *zap.Logger
}

// NewAuthHandler creates the auth handler
func NewAuthHandler(controller *state.Controller, store *session.Store, codec *session.TokenCodec, sessionCfg *config.SessionConfig, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		controller: controller,
		store:      store,
		codec:      codec,
		sessionCfg: sessionCfg,
		logger:     logger,
	}
}

// Register creates a company account and starts a session
// POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess := h.store.Create()
	if err := h.controller.Register(r.Context(), sess, req); err != nil {
		h.store.Delete(sess.ID())
		respondOperationError(w, err)
		return
	}

	if !h.issueCookie(w, sess.ID()) {
		return
	}
	respondJSON(w, http.StatusCreated, sess.ViewState(h.controller.BackendReachable()))
}

// Login authenticates a company and starts a session
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess := h.store.Create()
	if err := h.controller.Login(r.Context(), sess, req); err != nil {
		h.store.Delete(sess.ID())
		respondOperationError(w, err)
		return
	}

	if !h.issueCookie(w, sess.ID()) {
		return
	}
	respondJSON(w, http.StatusOK, sess.ViewState(h.controller.BackendReachable()))
}

// Logout clears the session state, drops the store entry, and expires the cookie
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No active session")
		return
	}

	h.controller.Logout(sess)
	h.store.Delete(sess.ID())

	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionCfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.sessionCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusNoContent, nil)
}

// Me returns the authenticated company
// GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "No active session")
		return
	}

	company := sess.Company()
	if company == nil {
		respondWithError(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	respondJSON(w, http.StatusOK, company)
}

// issueCookie signs a token for the session and sets the cookie. Reports
// whether the response is still writable.
func (h *AuthHandler) issueCookie(w http.ResponseWriter, sessionID string) bool {
	token, err := h.codec.Sign(sessionID)
	if err != nil {
		h.logger.Error("Failed to sign session token", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionCfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionCfg.TTLDuration().Seconds()),
		HttpOnly: true,
		Secure:   h.sessionCfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}
