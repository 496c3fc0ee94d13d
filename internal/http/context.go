package http

import (
	"context"

	"github.com/example/quebra-tigela/internal/demo"
)

type contextKey string

const principalContextKey contextKey = "principal"

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal demo.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (demo.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(demo.Principal)
	return principal, ok
}
