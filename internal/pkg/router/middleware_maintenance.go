package router

import (
	"net/http"

	"github.com/shandysiswandi/goblog/internal/pkg/config"
	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
)

// middlewareMaintenance answers 503 for routes listed under
// app.maintenance.endpoints, e.g. "POST /v1/posts" or "/v1/posts/:id".
func middlewareMaintenance(cfg config.Config, tr *ErrorTranslator) Middleware {
	var closed routeSet
	if cfg != nil {
		closed = newRouteSet(cfg.GetArray("app.maintenance.endpoints")...)
	}

	return func(next http.Handler) http.Handler {
		if len(closed) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !closed.match(r) {
				next.ServeHTTP(w, r)
				return
			}
			tr.Translate(r.Context(), w, goerror.NewBusiness("Service is under maintenance", http.StatusServiceUnavailable))
		})
	}
}
