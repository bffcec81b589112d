// ABOUTME: Session context for tracking the operator through request handlers
// ABOUTME: Provides WithSession/FromContext for propagating the session via context

package auth

import (
	"context"
)

// sessionContextKey is the key type for storing Session in context.Context.
type sessionContextKey struct{}

// WithSession returns a new context with the Session attached.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// FromContext retrieves the Session from the context, returning nil if not present.
func FromContext(ctx context.Context) *Session {
	sess, ok := ctx.Value(sessionContextKey{}).(*Session)
	if !ok {
		return nil
	}
	return sess
}
