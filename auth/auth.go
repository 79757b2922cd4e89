// Package auth is responsible for handling authentication and authorization logic.
// This includes user registration, email verification, login, password reset,
// token generation (JWT) and the role-gated middleware that protects the catalog routes.
// In a Nest.js analogy, this directory would correspond to an "AuthModule",
// containing services, controllers (handlers in Go), guards, DTOs and entities.
package auth

// Role is the access level a route requires.
type Role int

const (
	// RoleAny admits every caller holding a valid session token.
	RoleAny Role = iota
	// RoleAdmin additionally requires the `is_admin` claim.
	RoleAdmin
)

func (r Role) String() string {
	if r == RoleAdmin {
		return "admin"
	}
	return "any"
}

// Token purposes. Every token we sign records which flow it belongs to,
// so a token minted for one flow is rejected by the others.
const (
	PurposeSession       = "session"
	PurposeVerifyEmail   = "verify-email"
	PurposeResetPassword = "reset-password"
)
