package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
	"github.com/shandysiswandi/goblog/internal/pkg/jwt"
)

const (
	msgAuthRequired = "Authentication required"
	msgInvalidToken = "Invalid token"
)

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
func bearerToken(h http.Header) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(h.Get("Authorization")), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// middlewareAuthentication requires a valid bearer token on every route not
// in public and stores its claims in the request context.
func middlewareAuthentication(verifier jwt.JWT, public routeSet, tr *ErrorTranslator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if public.match(r) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r.Header)
			if !ok {
				tr.Translate(r.Context(), w, goerror.NewBusiness(msgAuthRequired, http.StatusUnauthorized))
				return
			}

			var claims jwt.Claims
			var err error = jwt.ErrInvalidToken
			if verifier != nil {
				claims, err = verifier.Verify(token)
			}
			if err != nil {
				tr.Translate(r.Context(), w, goerror.NewBusiness(msgInvalidToken, http.StatusUnauthorized))
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}
