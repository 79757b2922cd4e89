// Package httpx holds the HTTP plumbing shared by every handler: the JSON
// response envelope, error rendering, request decoding with validation and
// URL parameter parsing.
package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/user/carcatalog-go/apperror"
	"github.com/user/carcatalog-go/logging"
)

// MessageSuccess is the message of plain successful responses.
const MessageSuccess = "success"

type loggerKey struct{}

// WithLogger is a middleware that makes logger available to WriteError,
// so 5xx causes end up in the log without every handler carrying a logger.
func WithLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), loggerKey{}, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggerFrom returns the logger stored by WithLogger, or a discarding one.
func LoggerFrom(ctx context.Context) logging.Logger {
	if l, ok := ctx.Value(loggerKey{}).(logging.Logger); ok {
		return l
	}
	return logging.Discard()
}

// WriteJSON writes data wrapped in the response envelope.
func WriteJSON(w http.ResponseWriter, status int, message string, data any) {
	writeEnvelope(w, apperror.Response{Data: data, Message: message, Status: status})
}

// OK writes a 200 envelope with message "success".
func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, MessageSuccess, data)
}

// Created writes a 201 envelope with message "success".
func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, MessageSuccess, data)
}

// WriteError converts any error into the response envelope.
// Errors that are not *apperror.AppError become a 500 whose cause is logged but never sent.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperror.FromError(err)
	if !ok {
		appErr = apperror.NewInternalError("internal server error", err)
	}

	if appErr.StatusCode() >= http.StatusInternalServerError {
		LoggerFrom(r.Context()).Error(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}

	writeEnvelope(w, appErr.ToResponse())
}

func writeEnvelope(w http.ResponseWriter, resp apperror.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	// Headers are already out, so an encoding error cannot be reported to the client.
	_ = json.NewEncoder(w).Encode(resp)
}

// NotFound answers unknown routes with the envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, apperror.NewNotFoundError("route not found", nil))
}

// MethodNotAllowed answers known routes hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, apperror.Response{Message: "method not allowed", Status: http.StatusMethodNotAllowed})
}
