package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/goblog/internal/identity/entity"
	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
)

const msgInvalidCredentials = "Invalid credentials"

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	User  *entity.User
	Token string
}

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	user, err := s.authenticate(ctx, normalizeEmail(in.Email), in.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		return nil, serverError(ctx, "generate access token for user "+user.ID, err)
	}

	return &LoginOutput{User: user, Token: token}, nil
}

// authenticate answers the same 401 for an unknown email and a wrong
// password. A hash comparison runs in both cases so response time does not
// reveal which emails are registered.
func (s *Usecase) authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := s.repoDB.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, goerror.ErrNotFound):
		s.bcrypt.Verify("", password)
		slog.WarnContext(ctx, "sign in for unknown email", "email", email)
	case err != nil:
		return nil, serverError(ctx, "repo get user by email", err)
	case !s.bcrypt.Verify(user.Password, password):
		slog.WarnContext(ctx, "sign in with wrong password", "user_id", user.ID)
	default:
		return user, nil
	}

	return nil, goerror.NewBusiness(msgInvalidCredentials, http.StatusUnauthorized)
}
