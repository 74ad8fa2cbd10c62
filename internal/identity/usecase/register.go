package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shandysiswandi/goblog/internal/identity/entity"
	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
)

const msgEmailRegistered = "Email already registered"

type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	email := normalizeEmail(in.Email)

	_, err := s.repoDB.GetUserByEmail(ctx, email)
	if err == nil {
		slog.WarnContext(ctx, "email already registered", "email", email)
		return nil, goerror.NewBusiness(msgEmailRegistered, http.StatusConflict)
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		return nil, serverError(ctx, "repo get user by email", err)
	}

	hashed, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		return nil, serverError(ctx, "hash password", err)
	}

	user, err := s.repoDB.CreateUser(ctx, entity.NewUser{
		ID:        s.uuid.Generate(),
		Email:     email,
		Name:      strings.TrimSpace(in.Name),
		CreatedAt: s.clock.Now(),
	}, string(hashed))
	if errors.Is(err, goerror.ErrConflict) {
		return nil, goerror.NewBusiness(msgEmailRegistered, http.StatusConflict)
	}
	if err != nil {
		return nil, serverError(ctx, "repo create user", err)
	}

	return user, nil
}
