// Package users encapsulates the administration of user accounts.
// This file, `handlers.go`, is responsible for handling HTTP requests related to users.
// It acts as the "Controller" layer, analogous to a `UserController` in Nest.js.
package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/carcatalog-go/auth"
	"github.com/user/carcatalog-go/catalog"
	"github.com/user/carcatalog-go/httpx"
)

// UserHandlers provides HTTP handlers for user administration.
// It holds a reference to the `UserService`, which contains the business logic.
type UserHandlers struct {
	service *UserService
}

// NewUserHandlers creates new UserHandlers.
func NewUserHandlers(service *UserService) *UserHandlers {
	return &UserHandlers{service: service}
}

// Routes returns the mount function for /user. `me` serves the caller's own
// profile and only needs a session; everything else is for administrators.
func (h *UserHandlers) Routes(mw *auth.Middleware, me http.HandlerFunc) func(r chi.Router) {
	return func(r chi.Router) {
		r.With(mw.Authenticate()).Get("/me", me)

		r.Group(func(r chi.Router) {
			r.Use(mw.AuthenticateAdmin())
			r.Get("/all", h.HandleListUsers())
			r.Get("/{id}", h.HandleGetUser())
			r.Patch("/{id}", h.HandleUpdateUser())
			r.Delete("/{id}", h.HandleDeleteUser())
		})
	}
}

// HandleListUsers godoc
// @Summary List users
// @Description Lists users, paginated. Filters: name, email (contains), is_admin.
// @Tags User
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Explicit offset, overrides page"
// @Param sort query string false "Sort column" Enums(id, name, email, is_admin, created_at, updated_at)
// @Param order query string false "asc or desc"
// @Param name query string false "Name contains"
// @Param email query string false "Email contains"
// @Param is_admin query bool false "Administrator flag"
// @Success 200 {object} apperror.Response{data=query.Page[auth.User]}
// @Failure 400 {object} apperror.Response "Invalid query"
// @Failure 401 {object} apperror.Response "Not an administrator"
// @Failure 404 {object} apperror.Response "No users match"
// @Router /user/all [get]
func (h *UserHandlers) HandleListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := h.service.List(r.Context(), r.URL.Query())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.OK(w, page)
	}
}

// HandleGetUser godoc
// @Summary Get a user
// @Tags User
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} apperror.Response{data=auth.User}
// @Failure 400 {object} apperror.Response "Invalid id"
// @Failure 401 {object} apperror.Response "Not an administrator"
// @Failure 404 {object} apperror.Response "User not found"
// @Router /user/{id} [get]
func (h *UserHandlers) HandleGetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.ParseID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		user, err := h.service.Get(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.OK(w, user)
	}
}

// HandleUpdateUser godoc
// @Summary Update a user
// @Description Partially updates a user. A new password is hashed before it is stored.
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param userBody body users.UpdateUserRequest true "Fields to change"
// @Success 200 {object} apperror.Response{data=auth.User}
// @Failure 400 {object} apperror.Response "Invalid input or email already exist"
// @Failure 401 {object} apperror.Response "Not an administrator"
// @Failure 404 {object} apperror.Response "User not found"
// @Router /user/{id} [patch]
func (h *UserHandlers) HandleUpdateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.ParseID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req UpdateUserRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		user, err := h.service.Update(r.Context(), id, req)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.OK(w, user)
	}
}

// HandleDeleteUser godoc
// @Summary Delete a user
// @Tags User
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} apperror.Response "delete success"
// @Failure 400 {object} apperror.Response "Invalid id or user still owns price-list rows"
// @Failure 401 {object} apperror.Response "Not an administrator"
// @Failure 404 {object} apperror.Response "User not found"
// @Router /user/{id} [delete]
func (h *UserHandlers) HandleDeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.ParseID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		if err := h.service.Delete(r.Context(), id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, catalog.MessageDeleteSuccess, nil)
	}
}
