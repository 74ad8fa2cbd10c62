package router

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
	"github.com/shandysiswandi/goblog/internal/pkg/ratelimit"
	"golang.org/x/time/rate"
)

// RateLimit returns a route middleware that counts requests per client IP
// with l and answers 429 with msg once the rule is exhausted. The standard
// RateLimit-* headers are set on every response. A failing limiter lets the
// request through; that is logged at most once a minute per route.
func (r *Router) RateLimit(l ratelimit.Limiter, msg string) Middleware {
	failOpen := &rate.Sometimes{First: 1, Interval: time.Minute}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			key := matchedRoutePath(req) + "|" + clientIP(req)

			res, err := l.Allow(req.Context(), key)
			if err != nil {
				failOpen.Do(func() {
					r.translator.logger.WarnContext(req.Context(), "rate limiter unavailable, request allowed", "error", err)
				})
				next.ServeHTTP(w, req)
				return
			}

			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("RateLimit-Reset", strconv.Itoa(int(res.Reset.Seconds())))

			if !res.Allowed {
				h.Set("Retry-After", strconv.Itoa(int(res.Reset.Seconds())))
				r.translator.Translate(req.Context(), w, goerror.NewBusiness(msg, http.StatusTooManyRequests))
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}

// clientIP reads the address left by middlewareIP, with or without a port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
