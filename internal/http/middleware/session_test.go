package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carbonchain/portal-api/internal/http/middleware"
	"github.com/carbonchain/portal-api/internal/session"
	"github.com/carbonchain/portal-api/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testCookieName = "cc_session"

func sessionTestChain(store *session.Store, codec *session.TokenCodec, captured **state.Session) http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := session.FromContext(r.Context()); ok {
			*captured = sess
		}
		w.WriteHeader(http.StatusOK)
	})
	resolver := middleware.SessionResolver(store, codec, testCookieName, zap.NewNop())
	return resolver(middleware.RequireSession(inner))
}

func TestSessionResolver_ValidCookie(t *testing.T) {
	store := session.NewStore(time.Hour, zap.NewNop())
	codec := session.NewTokenCodec("test-secret-at-least-32-bytes-long!", time.Hour)
	sess := store.Create()

	token, err := codec.Sign(sess.ID())
	require.NoError(t, err)

	var captured *state.Session
	handler := sessionTestChain(store, codec, &captured)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, sess.ID(), captured.ID())
}

func TestSessionResolver_MissingCookie(t *testing.T) {
	store := session.NewStore(time.Hour, zap.NewNop())
	codec := session.NewTokenCodec("test-secret-at-least-32-bytes-long!", time.Hour)

	var captured *state.Session
	handler := sessionTestChain(store, codec, &captured)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, captured)
	assert.JSONEq(t, `{"error":"unauthorized","message":"No active session"}`, w.Body.String())
}

func TestSessionResolver_TamperedCookie(t *testing.T) {
	store := session.NewStore(time.Hour, zap.NewNop())
	codec := session.NewTokenCodec("test-secret-at-least-32-bytes-long!", time.Hour)
	sess := store.Create()

	token, err := codec.Sign(sess.ID())
	require.NoError(t, err)

	var captured *state.Session
	handler := sessionTestChain(store, codec, &captured)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: token[:len(token)-4] + "XXXX"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, captured)
}

func TestSessionResolver_DeletedSession(t *testing.T) {
	// Token valid, but the store entry is gone (logout or sweep)
	store := session.NewStore(time.Hour, zap.NewNop())
	codec := session.NewTokenCodec("test-secret-at-least-32-bytes-long!", time.Hour)
	sess := store.Create()

	token, err := codec.Sign(sess.ID())
	require.NoError(t, err)
	store.Delete(sess.ID())

	var captured *state.Session
	handler := sessionTestChain(store, codec, &captured)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/state", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, captured)
}
