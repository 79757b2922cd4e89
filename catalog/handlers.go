// This file, `handlers.go`, exposes a Service over HTTP. Every catalog resource
// shares the same five routes, so one generic controller serves all of them
// instead of one `BrandController`, `TypeController`... per resource as a
// Nest.js app would have.
package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/carcatalog-go/auth"
	"github.com/user/carcatalog-go/httpx"
)

// Payload is a decoded request body that knows which columns it writes.
type Payload interface {
	Values() map[string]any
}

// Handlers serves one resource. C and U are the create and update bodies.
type Handlers[T any, C Payload, U Payload] struct {
	service *Service[T]
}

// NewHandlers creates a new Handlers instance.
func NewHandlers[T any, C Payload, U Payload](service *Service[T]) *Handlers[T, C, U] {
	return &Handlers[T, C, U]{service: service}
}

// Routes returns the mount function for the resource. Reads need a session,
// writes need an administrator.
func (h *Handlers[T, C, U]) Routes(mw *auth.Middleware) func(r chi.Router) {
	return func(r chi.Router) {
		r.With(mw.Authenticate()).Get("/all", h.HandleList())
		r.With(mw.Authenticate()).Get("/{id}", h.HandleGet())
		r.With(mw.AuthenticateAdmin()).Post("/", h.HandleCreate())
		r.With(mw.AuthenticateAdmin()).Patch("/{id}", h.HandleUpdate())
		r.With(mw.AuthenticateAdmin()).Delete("/{id}", h.HandleDelete())
	}
}

// HandleList answers GET /all with one page of rows.
// Query parameters: page, limit, offset, sort, order and the resource filters.
func (h *Handlers[T, C, U]) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := h.service.List(r.Context(), r.URL.Query())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.OK(w, page)
	}
}

// HandleGet answers GET /{id}.
func (h *Handlers[T, C, U]) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.ParseID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		item, err := h.service.Get(r.Context(), id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.OK(w, item)
	}
}

// HandleCreate answers POST / with the stored row.
func (h *Handlers[T, C, U]) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req C
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		item, err := h.service.Create(r.Context(), req.Values())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.Created(w, item)
	}
}

// HandleUpdate answers PATCH /{id}. Only the fields present in the body change.
func (h *Handlers[T, C, U]) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpx.ParseID(r, "id")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req U
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		item, err := h.service.Update(r.Context(), id, req.Values())
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.OK(w, item)
	}
}

// HandleDelete answers DELETE /{id}.
func (h *Handlers[T, C, U]) HandleDelete() http.HandlerFunc {
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
		httpx.WriteJSON(w, http.StatusOK, MessageDeleteSuccess, nil)
	}
}
