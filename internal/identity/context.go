package identity

import (
	"context"
)

// contextKey is unexported to keep the authenticated-identity key collision-free
type contextKey struct{}

// NewContext returns a context carrying the authenticated identity
func NewContext(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, ident)
}

// FromContext extracts the authenticated identity set by the session middleware
func FromContext(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(contextKey{}).(*Identity)
	return ident, ok
}
