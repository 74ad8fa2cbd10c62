package inbound

import (
	"github.com/shandysiswandi/goblog/internal/identity/usecase"
	"github.com/shandysiswandi/goblog/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for registration and login.
type HTTPEndpoint struct {
	uc uc
}

// Register creates a new user account.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	req := router.Body[RegisterRequest](r)

	user, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{UserResponse: toUserResponse(user)}, nil
}

// Login authenticates a user and returns an access token.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	req := router.Body[LoginRequest](r)

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		User:  toUserResponse(resp.User),
		Token: resp.Token,
	}, nil
}
