// Package users covers the administration of user accounts.
// This file, `dto.go`, defines Data Transfer Objects (DTOs) for the users module.
// DTOs are simple objects used to transfer data between layers, especially between
// handlers (controllers) and services, and for API request/response bodies.
// This is very similar to DTOs in Nest.js, often used with validation decorators.
package users

// UpdateUserRequest represents the data for updating a user.
// @Description Request body for updating a user. Omitted fields are left unchanged.
type UpdateUserRequest struct {
	// example: "Alice"
	Name string `json:"name" validate:"omitempty,max=255" example:"Alice"`
	// example: "alice@example.com"
	Email string `json:"email" validate:"omitempty,email,max=255" example:"alice@example.com"`
	// The new plaintext password, hashed before it is stored.
	// bcrypt only looks at the first 72 bytes, hence the upper bound.
	Password string `json:"password" validate:"omitempty,min=6,max=72" example:"secret123"`
	// Using pointers (`*bool`) allows for partial updates: `nil` means
	// the client doesn't intend to update that field, `false` is a real value.
	IsAdmin    *bool `json:"is_admin,omitempty" example:"false"`
	IsVerified *bool `json:"is_verified,omitempty" example:"true"`
}

// values returns the columns to write, password still in plaintext.
func (r UpdateUserRequest) values() map[string]any {
	out := map[string]any{}
	if r.Name != "" {
		out["name"] = r.Name
	}
	if r.Email != "" {
		out["email"] = r.Email
	}
	if r.Password != "" {
		out["password"] = r.Password
	}
	if r.IsAdmin != nil {
		out["is_admin"] = *r.IsAdmin
	}
	if r.IsVerified != nil {
		out["is_verified"] = *r.IsVerified
	}
	return out
}
