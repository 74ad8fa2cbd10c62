package router

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/shandysiswandi/goblog/internal/pkg/instrument"
	"github.com/shandysiswandi/goblog/internal/pkg/uid"
)

const (
	// HeaderCorrelationID carries the id that ties the logs of one request
	// together. It is echoed on every response.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is read when the caller sends no correlation id.
	HeaderRequestID = "X-Request-ID"

	maxCorrelationIDLen = 128
)

// correlationID returns the caller supplied id when it is printable, cut to
// maxCorrelationIDLen. Ids with control characters are dropped.
func correlationID(h http.Header) string {
	for _, name := range []string{HeaderCorrelationID, HeaderRequestID} {
		v := strings.TrimSpace(h.Get(name))
		if v == "" || strings.ContainsFunc(v, unicode.IsControl) {
			continue
		}
		if len(v) > maxCorrelationIDLen {
			v = v[:maxCorrelationIDLen]
		}
		return v
	}
	return ""
}

func middlewareCorrelationID(ids uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := correlationID(r.Header)
			if id == "" && ids != nil {
				id = ids.Generate()
			}
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set(HeaderCorrelationID, id)
			next.ServeHTTP(w, r.WithContext(instrument.SetCorrelationID(r.Context(), id)))
		})
	}
}
