package httpx

import (
	"net/http"

	"bookmory/internal/apperr"

	"go.uber.org/zap"
)

// RecoveryMiddleware turns a handler panic into the same opaque 500 that
// WriteError produces for unexpected errors.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			LoggerFrom(r.Context()).Error("panic recovered",
				zap.Any("panic", rec),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Stack("stack"),
			)

			// Too late for an envelope once the handler started writing.
			if rw, ok := w.(*responseWriter); ok && rw.wroteHeader() {
				return
			}
			JSONError(w, r, http.StatusInternalServerError, string(apperr.CodeInternal), "Internal server error", nil)
		}()
		next.ServeHTTP(w, r)
	})
}
