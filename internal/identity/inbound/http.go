package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/goblog/internal/identity/entity"
	"github.com/shandysiswandi/goblog/internal/identity/usecase"
	"github.com/shandysiswandi/goblog/internal/pkg/openapi"
	"github.com/shandysiswandi/goblog/internal/pkg/ratelimit"
	"github.com/shandysiswandi/goblog/internal/pkg/router"
	"github.com/shandysiswandi/goblog/internal/pkg/validator"
)

const (
	msgSignInLimited = "Too many sign-in attempts. Please try again after 5 minutes."
	msgSignUpLimited = "Too many sign-up attempts. Please try again after 1 hour."
)

type uc interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, error)
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
}

// Limiters throttles the credential endpoints. A nil limiter disables it.
type Limiters struct {
	SignIn ratelimit.Limiter
	SignUp ratelimit.Limiter
}

func RegisterHTTPEndpoint(r *router.Router, docs *openapi.Registry, v *validator.V10Validator, lim Limiters, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/v1/users/register",
		router.With(end.Register, router.ValidateBody(validator.NewStruct[RegisterRequest](v))),
		limited(r, lim.SignUp, msgSignUpLimited)...,
	)
	r.POST("/v1/users/login",
		router.With(end.Login, router.ValidateBody(validator.NewStruct[LoginRequest](v))),
		limited(r, lim.SignIn, msgSignInLimited)...,
	)

	if docs == nil {
		return
	}

	docs.Add(openapi.Operation{
		Method:   http.MethodPost,
		Path:     "/v1/users/register",
		Summary:  "Register a new user",
		Tags:     []string{"Users"},
		Body:     RegisterRequest{},
		Response: UserResponse{},
		Status:   http.StatusCreated,
		Errors:   []int{http.StatusBadRequest, http.StatusConflict, http.StatusTooManyRequests},
	})
	docs.Add(openapi.Operation{
		Method:   http.MethodPost,
		Path:     "/v1/users/login",
		Summary:  "Login user",
		Tags:     []string{"Users"},
		Body:     LoginRequest{},
		Response: LoginResponse{},
		Errors:   []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusTooManyRequests},
	})
}

func limited(r *router.Router, l ratelimit.Limiter, msg string) []router.Middleware {
	if l == nil {
		return nil
	}
	return []router.Middleware{r.RateLimit(l, msg)}
}
