package middleware

import (
	"net/http"

	"github.com/carbonchain/portal-api/internal/session"
	"go.uber.org/zap"
)

// SessionResolver resolves the session cookie into a *state.Session on the
// request context. Requests without a valid cookie pass through unresolved;
// RequireSession decides whether that is an error.
func SessionResolver(store *session.Store, codec *session.TokenCodec, cookieName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			sessionID, err := codec.Parse(cookie.Value)
			if err != nil {
				logger.Debug("Rejected session cookie", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			sess := store.Get(sessionID)
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

// RequireSession rejects requests whose context carries no resolved session
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := session.FromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized","message":"No active session"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
