// This file, `dto.go` (Data Transfer Object), defines structures used for
// transferring data in API requests and responses related to authentication.
// The `validate` tags are enforced by httpx.Decode through go-playground/validator,
// much like class-validator decorators on Nest.js DTOs.
package auth

// RegisterRequest represents the registration request payload.
// IsAdmin is a pointer so that an omitted field fails `required` while an explicit false passes.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255" example:"Alice"`
	Email    string `json:"email" validate:"required,email,max=255" example:"alice@example.com"`
	Password string `json:"password" validate:"required,min=6,max=72" example:"secret123"`
	IsAdmin  *bool  `json:"is_admin" validate:"required" example:"false"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required,min=6" example:"secret123"`
}

// ForgetPasswordRequest starts the password reset flow.
type ForgetPasswordRequest struct {
	Email string `json:"email" validate:"required,email" example:"alice@example.com"`
}

// ResetPasswordRequest carries the new password; the reset token travels in the query string.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72" example:"newsecret123"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// RegisterResponse is the created user plus whether the verification mail went out.
type RegisterResponse struct {
	*User
	VerificationSent bool `json:"verification_sent"`
}
