package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shandysiswandi/goblog/internal/identity/entity"
	"github.com/shandysiswandi/goblog/internal/pkg/clock"
	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
	"github.com/shandysiswandi/goblog/internal/pkg/hash"
	"github.com/shandysiswandi/goblog/internal/pkg/instrument"
	"github.com/shandysiswandi/goblog/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepo struct {
	users     map[string]entity.User
	getErr    error
	createErr error
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.users[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &u, nil
}

func (f *fakeRepo) CreateUser(_ context.Context, in entity.NewUser, hash string) (*entity.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u := entity.User{
		ID:        in.ID,
		Email:     in.Email,
		Name:      in.Name,
		Password:  hash,
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.CreatedAt,
	}
	f.users[in.Email] = u
	return &u, nil
}

type fixedID string

func (f fixedID) Generate() string { return string(f) }

type fakeJWT struct {
	err error
}

func (f fakeJWT) Generate(userID, email string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID, nil
}

func (fakeJWT) Verify(string) (jwt.Claims, error) { return jwt.Claims{}, nil }

var now = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newUsecase(repo *fakeRepo, tokens jwt.JWT) *Usecase {
	return New(Dependency{
		RepoDB:     repo,
		Bcrypt:     hash.NewBcrypt(bcrypt.MinCost, "pepper"),
		UUID:       fixedID("0190f0a4-0000-7000-8000-000000000001"),
		Clock:      clock.Fixed{At: now},
		JWT:        tokens,
		Instrument: instrument.NewNoop(),
	})
}

func assertBusiness(t *testing.T, err error, status int, msg string) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %v", err)
	}
	if gerr.Kind() != goerror.KindDomain {
		t.Fatalf("kind = %s, want domain", gerr.Kind())
	}
	if gerr.StatusCode() != status || gerr.Msg() != msg {
		t.Fatalf("got %d %q, want %d %q", gerr.StatusCode(), gerr.Msg(), status, msg)
	}
}

func TestRegister(t *testing.T) {
	t.Run("creates user with hashed password", func(t *testing.T) {
		// Arrange
		repo := &fakeRepo{users: map[string]entity.User{}}
		uc := newUsecase(repo, fakeJWT{})

		// Act
		user, err := uc.Register(context.Background(), RegisterInput{
			Email:    "  Jane@Example.com ",
			Name:     " Jane ",
			Password: "secret1",
		})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.Email != "jane@example.com" || user.Name != "Jane" {
			t.Fatalf("user = %+v", user)
		}
		if user.ID != "0190f0a4-0000-7000-8000-000000000001" || !user.CreatedAt.Equal(now) {
			t.Fatalf("user = %+v", user)
		}
		if user.Password == "secret1" || !hash.NewBcrypt(bcrypt.MinCost, "pepper").Verify(user.Password, "secret1") {
			t.Fatal("password must be stored as a bcrypt hash")
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		// Arrange
		repo := &fakeRepo{users: map[string]entity.User{"jane@example.com": {ID: "u1"}}}
		uc := newUsecase(repo, fakeJWT{})

		// Act
		_, err := uc.Register(context.Background(), RegisterInput{Email: "jane@example.com", Name: "Jane", Password: "secret1"})

		// Assert
		assertBusiness(t, err, http.StatusConflict, "Email already registered")
	})

	t.Run("unique violation on insert", func(t *testing.T) {
		repo := &fakeRepo{users: map[string]entity.User{}, createErr: goerror.ErrConflict}
		uc := newUsecase(repo, fakeJWT{})

		_, err := uc.Register(context.Background(), RegisterInput{Email: "jane@example.com", Name: "Jane", Password: "secret1"})

		assertBusiness(t, err, http.StatusConflict, "Email already registered")
	})

	t.Run("repository failure is a server error", func(t *testing.T) {
		cause := errors.New("connection refused")
		repo := &fakeRepo{getErr: cause}
		uc := newUsecase(repo, fakeJWT{})

		_, err := uc.Register(context.Background(), RegisterInput{Email: "jane@example.com", Name: "Jane", Password: "secret1"})

		if goerror.KindOf(err) != goerror.KindUnknown || !errors.Is(err, cause) {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	hashed, err := hash.NewBcrypt(bcrypt.MinCost, "pepper").Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	stored := entity.User{ID: "u1", Email: "jane@example.com", Name: "Jane", Password: string(hashed)}

	t.Run("valid credentials", func(t *testing.T) {
		// Arrange
		repo := &fakeRepo{users: map[string]entity.User{stored.Email: stored}}
		uc := newUsecase(repo, fakeJWT{})

		// Act
		out, err := uc.Login(context.Background(), LoginInput{Email: "JANE@example.com", Password: "secret1"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Token != "token-u1" || out.User.ID != "u1" {
			t.Fatalf("out = %+v", out)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := &fakeRepo{users: map[string]entity.User{stored.Email: stored}}
		uc := newUsecase(repo, fakeJWT{})

		_, err := uc.Login(context.Background(), LoginInput{Email: stored.Email, Password: "nope"})

		assertBusiness(t, err, http.StatusUnauthorized, "Invalid credentials")
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := &fakeRepo{users: map[string]entity.User{}}
		uc := newUsecase(repo, fakeJWT{})

		_, err := uc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "secret1"})

		assertBusiness(t, err, http.StatusUnauthorized, "Invalid credentials")
	})

	t.Run("token failure is a server error", func(t *testing.T) {
		repo := &fakeRepo{users: map[string]entity.User{stored.Email: stored}}
		uc := newUsecase(repo, fakeJWT{err: errors.New("sign failed")})

		_, err := uc.Login(context.Background(), LoginInput{Email: stored.Email, Password: "secret1"})

		if goerror.KindOf(err) != goerror.KindUnknown {
			t.Fatalf("kind = %s, want unknown", goerror.KindOf(err))
		}
	})
}
