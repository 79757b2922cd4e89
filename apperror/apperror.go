// Package apperror defines a centralized system for application-specific errors.
// Every service returns these types and every handler turns them into the same
// JSON envelope, so clients see one consistent error shape across the API.
// It's similar in concept to Nest.js's Exception Filters, where you can catch specific
// error types and customize the HTTP response.
package apperror

import (
	"errors"
	"fmt"
	// `net/http` is used for HTTP status codes.
	"net/http"
)

// ErrorType is an enumeration (using `iota`) for different categories of application errors.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the database
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// AuthError represents a token verification failure (bad signature, expired, malformed)
	AuthError
	// UnauthorizedError represents a caller that is not allowed through (e.g. not an admin)
	UnauthorizedError
	// NotFoundError represents a resource not found error
	NotFoundError
	// ValidationError represents an input validation error
	ValidationError
	// BadRequestError represents a generic bad request
	BadRequestError
	// InternalError represents a generic internal server error
	InternalError
	// ExternalServiceError represents an error from an external service
	ExternalServiceError
	// MigrationError represents an error during database migrations
	MigrationError
	// ConflictError represents a conflict, e.g., resource already exists
	ConflictError
	// InvalidCredentialsError represents a password that does not match the stored digest
	InvalidCredentialsError
	// UnverifiedError represents a login attempt on an account whose email is not verified
	UnverifiedError
)

// AppError is a custom error type for the application.
// It also allows wrapping an underlying error (`Err`) for more detailed debugging.
type AppError struct {
	Type    ErrorType
	Message string
	// Detail is an optional client-facing explanation (e.g. which field failed validation).
	// It ends up in the `error` field of the response envelope.
	Detail string
	Err    error // Underlying error, never sent to the client
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		// If there's an underlying error, include its message.
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error. This is part of Go's error wrapping convention (Go 1.13+),
// allowing `errors.Is` and `errors.As` to inspect the chain of wrapped errors.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches a client-facing detail and returns the same error for chaining.
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// StatusCode returns the HTTP status code appropriate for the error type
func (e *AppError) StatusCode() int {
	// This switch statement maps our custom `ErrorType` to standard HTTP status codes.
	switch e.Type {
	case DatabaseError:
		return http.StatusInternalServerError
	case ConfigError:
		return http.StatusInternalServerError
	case AuthError:
		return http.StatusUnauthorized
	case UnauthorizedError:
		// The catalog API reports both "no valid token" and "valid token but not an admin"
		// as 401, so clients only have one status to react to.
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError:
		return http.StatusBadRequest
	case BadRequestError:
		return http.StatusBadRequest
	case InternalError:
		return http.StatusInternalServerError
	case ExternalServiceError:
		return http.StatusBadGateway
	case MigrationError:
		return http.StatusInternalServerError
	case ConflictError:
		// Duplicate unique keys ("email already exist", "data already exist") are client mistakes.
		return http.StatusBadRequest
	case InvalidCredentialsError:
		return http.StatusBadRequest
	case UnverifiedError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError. This is a generic constructor.
// It's useful for creating errors with types not covered by specific constructors
// or when the error type is determined dynamically.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// Constructor functions for specific error types
// These provide a more readable and type-safe way to create common `AppError` types.
// For example, `NewDatabaseError("message", err)` is clearer than `NewAppError(DatabaseError, "message", err)`.

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewAuthError creates a new AuthError (for token verification issues)
func NewAuthError(message string, underlyingError error) *AppError {
	return NewAppError(AuthError, message, underlyingError)
}

// NewUnauthorizedError creates a new UnauthorizedError (for authorization issues)
func NewUnauthorizedError(message string, underlyingError error) *AppError {
	return NewAppError(UnauthorizedError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewValidationError creates a new ValidationError
func NewValidationError(message string, underlyingError error) *AppError {
	return NewAppError(ValidationError, message, underlyingError)
}

// NewBadRequestError creates a new BadRequestError
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewExternalServiceError creates a new ExternalServiceError
func NewExternalServiceError(message string, underlyingError error) *AppError {
	return NewAppError(ExternalServiceError, message, underlyingError)
}

// NewMigrationError creates a new MigrationError
func NewMigrationError(message string, underlyingError error) *AppError {
	return NewAppError(MigrationError, message, underlyingError)
}

// NewConflictError creates a new ConflictError
func NewConflictError(message string, underlyingError error) *AppError {
	return NewAppError(ConflictError, message, underlyingError)
}

// NewInvalidCredentialsError creates a new InvalidCredentialsError
func NewInvalidCredentialsError(message string, underlyingError error) *AppError {
	return NewAppError(InvalidCredentialsError, message, underlyingError)
}

// NewUnverifiedError creates a new UnverifiedError
func NewUnverifiedError(message string, underlyingError error) *AppError {
	return NewAppError(UnverifiedError, message, underlyingError)
}

// Response is the envelope every endpoint answers with, success or failure.
// @Description Uniform response envelope
type Response struct {
	// Payload of a successful call, null on errors.
	Data any `json:"data"`
	// Human-readable summary, e.g. "success" or "data not found".
	Message string `json:"message" example:"success"`
	// Extra error detail (validation message), null when there is none.
	Error any `json:"error"`
	// The HTTP status, repeated in the body for clients that only see the JSON.
	Status int `json:"status" example:"200"`
}

// ToResponse converts an AppError to a Response suitable for API responses.
// Only the user-facing `Message` and `Detail` are included, not the underlying `Err` details.
func (e *AppError) ToResponse() Response {
	resp := Response{Message: e.Message, Status: e.StatusCode()}
	if e.Detail != "" {
		resp.Error = e.Detail
	}
	return resp
}

// FromError attempts to convert a generic error to an *AppError.
// It returns the *AppError and true if successful, otherwise nil and false.
// Wrapped AppErrors are found too, so `fmt.Errorf("...: %w", appErr)` keeps its status.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Helper functions to check error types
// These functions use `errors.As` to check if an error in a chain is of a specific `AppError` type.

func is(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool { return is(err, NotFoundError) }

// IsAuthError checks if an error is an AuthError (token problem)
func IsAuthError(err error) bool { return is(err, AuthError) }

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool { return is(err, ValidationError) }

// IsConflictError checks if an error is a Conflict error
func IsConflictError(err error) bool { return is(err, ConflictError) }

// IsInvalidCredentials checks if an error is an InvalidCredentials error
func IsInvalidCredentials(err error) bool { return is(err, InvalidCredentialsError) }

// IsUnverified checks if an error is an Unverified error
func IsUnverified(err error) bool { return is(err, UnverifiedError) }

// IsBadRequest checks if an error is a BadRequest error
func IsBadRequest(err error) bool { return is(err, BadRequestError) }
