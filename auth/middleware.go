// This file, `middleware.go`, defines the HTTP middleware that guards protected routes.
// In Nest.js, guards (`CanActivate`) serve the same purpose.
package auth

import (
	"net/http"
	// `strings` for splitting the Authorization header.
	"strings"

	"github.com/user/carcatalog-go/apperror"
	"github.com/user/carcatalog-go/httpx"
)

// Middleware verifies session tokens and enforces roles.
type Middleware struct {
	codec  *TokenCodec
	secret []byte
}

// NewMiddleware creates a Middleware verifying tokens signed with secret.
func NewMiddleware(codec *TokenCodec, secret string) *Middleware {
	return &Middleware{codec: codec, secret: []byte(secret)}
}

// RequireRole returns a middleware admitting only callers with a valid session
// token and, for RoleAdmin, the `is_admin` claim.
// It is a higher-order function: it takes the policy and returns the actual
// `func(next http.Handler) http.Handler` middleware.
func (m *Middleware) RequireRole(role Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				httpx.WriteError(w, r, apperror.NewBadRequestError("Missing or invalid authorization header", nil))
				return
			}

			claims, err := m.codec.VerifyPurpose(token, m.secret, PurposeSession)
			if err != nil {
				httpx.WriteError(w, r, apperror.NewAuthError("Unauthorized: Invalid token", err))
				return
			}

			if role == RoleAdmin && !claims.IsAdmin {
				httpx.WriteError(w, r, apperror.NewUnauthorizedError("Unauthorized: Admin access required", nil))
				return
			}

			// Make the claims available to subsequent handlers in the chain.
			next.ServeHTTP(w, r.WithContext(NewContextWithClaims(r.Context(), claims)))
		})
	}
}

// Authenticate admits any caller with a valid session token.
func (m *Middleware) Authenticate() func(next http.Handler) http.Handler {
	return m.RequireRole(RoleAny)
}

// AuthenticateAdmin admits only administrators.
func (m *Middleware) AuthenticateAdmin() func(next http.Handler) http.Handler {
	return m.RequireRole(RoleAdmin)
}

// bearerToken extracts the token from a "Bearer {token}" header value.
// An empty token still counts as well-formed and fails verification instead.
func bearerToken(header string) (string, bool) {
	return strings.CutPrefix(header, "Bearer ")
}
