package auth

import (
	"context"

	"github.com/WailSalutem-Health-Care/care-portal/internal/session"
)

// ContextWithSession adds a loaded session to the context for testing purposes
// This is exported to allow other packages to create test contexts
func ContextWithSession(ctx context.Context, sc *session.Context, sess *session.Session) context.Context {
	ctx = context.WithValue(ctx, sessionKey, sess)
	if sc != nil {
		ctx = context.WithValue(ctx, sessionContextKey, sc)
	}
	return ctx
}
