// This file, `handlers.go`, is responsible for handling HTTP requests related to authentication.
// It acts as the "Controller" layer, analogous to an `AuthController` in Nest.js.
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/carcatalog-go/apperror"
	"github.com/user/carcatalog-go/httpx"
)

// Handlers wraps the AuthService to provide HTTP handlers.
type Handlers struct {
	service *AuthService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *AuthService) *Handlers {
	return &Handlers{service: service}
}

// Routes mounts the auth endpoints. None of them require a token.
func (h *Handlers) Routes(r chi.Router) {
	r.Post("/register", h.HandleRegister())
	r.Post("/login", h.HandleLogin())
	r.Get("/verify-email", h.HandleVerifyEmail())
	r.Post("/forget-password", h.HandleForgetPassword())
	r.Post("/reset-password", h.HandleResetPassword())
}

// The `godoc` comments (like `@Summary`, `@Tags`, etc.) are annotations used by
// `swaggo/swag` to generate the OpenAPI documentation served under /swagger.

// HandleRegister godoc
// @Summary User Registration
// @Description Registers a new, unverified user and emails a verification link.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "User registration details"
// @Success 201 {object} apperror.Response{data=auth.RegisterResponse} "User created"
// @Failure 400 {object} apperror.Response "Invalid input or email already exist"
// @Failure 500 {object} apperror.Response "Internal Server Error"
// @Router /auth/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		resp, err := h.service.Register(r.Context(), req)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.Created(w, resp)
	}
}

// HandleLogin godoc
// @Summary User Login
// @Description Logs in a verified user and returns a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "User login credentials"
// @Success 200 {object} apperror.Response{data=auth.TokenResponse} "Login successful"
// @Failure 400 {object} apperror.Response "Unknown email, unverified email or wrong password"
// @Failure 500 {object} apperror.Response "Internal Server Error"
// @Router /auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			// Every login failure is a 400 for the client, an unknown email included.
			if apperror.IsNotFound(err) {
				appErr, _ := apperror.FromError(err)
				err = apperror.NewBadRequestError(appErr.Message, nil)
			}
			httpx.WriteError(w, r, err)
			return
		}

		httpx.OK(w, resp)
	}
}

// HandleVerifyEmail godoc
// @Summary Verify Email
// @Description Marks the account named by a verification token as verified.
// @Tags Auth
// @Produce json
// @Param token query string true "Verification token from the email"
// @Success 200 {object} apperror.Response "Email verified"
// @Failure 400 {object} apperror.Response "Missing token"
// @Failure 401 {object} apperror.Response "Invalid or expired token"
// @Failure 404 {object} apperror.Response "User no longer exists"
// @Router /auth/verify-email [get]
func (h *Handlers) HandleVerifyEmail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			httpx.WriteError(w, r, apperror.NewValidationError("invalid request", nil).WithDetail(`"token" is required`))
			return
		}

		if err := h.service.VerifyEmail(r.Context(), token); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, "success, your email has been verified", nil)
	}
}

// HandleForgetPassword godoc
// @Summary Forgot Password
// @Description Emails a one-hour password reset token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param forgetBody body auth.ForgetPasswordRequest true "Account email"
// @Success 200 {object} apperror.Response "Reset token sent"
// @Failure 400 {object} apperror.Response "Invalid input"
// @Failure 404 {object} apperror.Response "Email not found"
// @Failure 500 {object} apperror.Response "Internal Server Error"
// @Router /auth/forget-password [post]
func (h *Handlers) HandleForgetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ForgetPasswordRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, "success, please check your email", nil)
	}
}

// HandleResetPassword godoc
// @Summary Reset Password
// @Description Sets a new password using a reset token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param token query string true "Reset token from the email"
// @Param resetBody body auth.ResetPasswordRequest true "New password"
// @Success 200 {object} apperror.Response "Password reset"
// @Failure 400 {object} apperror.Response "Invalid input"
// @Failure 401 {object} apperror.Response "Invalid or expired token"
// @Failure 500 {object} apperror.Response "Internal Server Error"
// @Router /auth/reset-password [post]
func (h *Handlers) HandleResetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			httpx.WriteError(w, r, apperror.NewValidationError("invalid request", nil).WithDetail(`"token" is required`))
			return
		}

		var req ResetPasswordRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		if err := h.service.ResetPassword(r.Context(), token, req.NewPassword); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, "Password reset successfully", nil)
	}
}

// HandleMe godoc
// @Summary Current User
// @Description Returns the profile of the authenticated caller.
// @Tags User
// @Produce json
// @Success 200 {object} apperror.Response{data=auth.User}
// @Failure 400 {object} apperror.Response "Missing or invalid authorization header"
// @Failure 401 {object} apperror.Response "Invalid token"
// @Failure 404 {object} apperror.Response "User no longer exists"
// @Router /user/me [get]
// @Security BearerAuth
func (h *Handlers) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			httpx.WriteError(w, r, apperror.NewAuthError("Unauthorized: Invalid token", nil))
			return
		}

		user, err := h.service.Profile(r.Context(), claims.ID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.OK(w, user)
	}
}
