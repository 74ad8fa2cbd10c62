package jwt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type staticID string

func (s staticID) Generate() string { return string(s) }

func newTestJWT(t *testing.T, clk *fixedClock) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("k", 64)),
		Issuer:    "goblog",
		Audiences: []string{"goblog-api"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      staticID("jti-1"),
	})
	if err != nil {
		t.Fatalf("new jwt: %v", err)
	}
	return s
}

func TestSymmetric_GenerateVerify(t *testing.T) {
	// Arrange
	clk := &fixedClock{now: time.Now()}
	s := newTestJWT(t, clk)

	// Act
	token, err := s.Generate("0195f3c4-8a7e-7c1b-9d2a-3e4f5a6b7c8d", "jane@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := s.Verify(token)

	// Assert
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "0195f3c4-8a7e-7c1b-9d2a-3e4f5a6b7c8d" || claims.Email != "jane@example.com" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.Subject != claims.UserID {
		t.Fatalf("subject = %q", claims.Subject)
	}
}

func TestSymmetric_Expired(t *testing.T) {
	clk := &fixedClock{now: time.Now()}
	s := newTestJWT(t, clk)

	token, err := s.Generate("u1", "a@b.c")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	clk.now = clk.now.Add(2 * time.Hour)
	if _, err := s.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestSymmetric_Tampered(t *testing.T) {
	s := newTestJWT(t, &fixedClock{now: time.Now()})

	token, _ := s.Generate("u1", "a@b.c")
	other, _ := NewHS512(Config{
		Secret: []byte(strings.Repeat("x", 64)),
		Issuer: "goblog", Audiences: []string{"goblog-api"},
		Clock: &fixedClock{now: time.Now()}, UUID: staticID("j"),
	})

	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("other key: err = %v, want ErrInvalidToken", err)
	}
	if _, err := s.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage: err = %v, want ErrInvalidToken", err)
	}
}

func TestSymmetric_RejectsOtherAlgorithms(t *testing.T) {
	// Arrange
	clk := &fixedClock{now: time.Now()}
	s := newTestJWT(t, clk)
	hs256, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    "goblog",
			Audience:  []string{"goblog-api"},
			IssuedAt:  jwtlib.NewNumericDate(clk.now),
			ExpiresAt: jwtlib.NewNumericDate(clk.now.Add(time.Hour)),
		},
		UserID: "u1",
	}).SignedString([]byte(strings.Repeat("k", 64)))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// Act
	_, err = s.Verify(hs256)

	// Assert
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestNewHS512_ShortKey(t *testing.T) {
	if _, err := NewHS512(Config{Secret: []byte("short")}); !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("err = %v", err)
	}
}

func TestAuthContext(t *testing.T) {
	ctx := context.Background()
	if GetAuth(ctx) != nil {
		t.Fatal("empty context has no claims")
	}

	ctx = SetAuth(ctx, Claims{UserID: "u1", Email: "a@b.c"})
	got := GetAuth(ctx)
	if got == nil || got.UserID != "u1" {
		t.Fatalf("claims = %+v", got)
	}
}
