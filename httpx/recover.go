package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/user/carcatalog-go/apperror"
)

// Recoverer turns a panic in a handler into a 500 envelope and logs the stack.
// It replaces chi's middleware.Recoverer, which answers in plain text.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			LoggerFrom(r.Context()).Error(r.Context(), "panic recovered",
				"method", r.Method, "path", r.URL.Path, "panic", rec, "stack", string(debug.Stack()))
			writeEnvelope(w, apperror.NewInternalError("internal server error", nil).ToResponse())
		}()
		next.ServeHTTP(w, r)
	})
}
