package router

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/shandysiswandi/goblog/internal/pkg/stacktrace"
)

// middlewareRecoverer turns a handler panic into a 500. When the handler
// already sent its status the response is left as is, since a second status
// line would be ignored and a JSON body would corrupt the partial one.
func middlewareRecoverer(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newResponseRecorder(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				//nolint:err113,errorlint // the sentinel is compared by identity
				if v == http.ErrAbortHandler {
					panic(v)
				}

				stack := debug.Stack()
				attrs := []any{"panic", v, "committed", rec.Committed()}
				if frames := stacktrace.InternalPaths(stack); len(frames) > 0 {
					attrs = append(attrs, "frames", frames)
				} else {
					attrs = append(attrs, "stack", string(stack))
				}
				logger.ErrorContext(r.Context(), "handler panicked", attrs...)

				if rec.Committed() || r.Header.Get("Connection") == "Upgrade" {
					return
				}
				writeJSON(rec, errorResponse{Message: msgInternalServer}, http.StatusInternalServerError)
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
