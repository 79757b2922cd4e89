// This file, `context.go`, deals with carrying the verified token claims in the
// request `context.Context`, from the middleware down to the handlers.
package auth

import (
	"context"
)

// `contextKey` is a custom type for context keys. Using a custom type prevents collisions
// with context keys defined in other packages. It's a common Go idiom.
type contextKey string

const (
	// `claimsContextKey` is the specific key used to store authentication claims in the context.
	claimsContextKey contextKey = "auth_claims"
)

// NewContextWithClaims returns a child of ctx carrying claims.
func NewContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext extracts the claims stored by the middleware.
// The second return value reports whether claims were found.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}
