package session

import (
	"context"

	"github.com/carbonchain/portal-api/internal/state"
)

type contextKey string

const sessionContextKey contextKey = "session"

// WithSession adds a session to the request context
func WithSession(ctx context.Context, sess *state.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// FromContext extracts the session from the request context
func FromContext(ctx context.Context) (*state.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*state.Session)
	return sess, ok
}
