package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const minHS512KeyLen = 64

// Symmetric signs and verifies HS512 tokens with one shared secret.
type Symmetric struct {
	cfg    Config
	parser *jwt.Parser
}

// NewHS512 validates cfg and builds a Symmetric whose parser accepts only
// HS512 tokens for cfg.Issuer and cfg.Audiences that carry an expiry.
func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < minHS512KeyLen {
		return nil, ErrSigningKeyTooShort
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if len(cfg.Audiences) > 0 {
		opts = append(opts, jwt.WithAudience(cfg.Audiences...))
	}
	if cfg.Clock != nil {
		opts = append(opts, jwt.WithTimeFunc(cfg.Clock.Now))
	}

	return &Symmetric{cfg: cfg, parser: jwt.NewParser(opts...)}, nil
}

func (s *Symmetric) now() time.Time {
	if s.cfg.Clock == nil {
		return time.Now()
	}
	return s.cfg.Clock.Now()
}

// Generate signs a token for the user that expires after the configured TTL.
func (s *Symmetric) Generate(userID, email string) (string, error) {
	now := s.now()

	var jti string
	if s.cfg.UUID != nil {
		jti = s.cfg.UUID.Generate()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    s.cfg.Issuer,
			Audience:  s.cfg.Audiences,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
		UserID: userID,
		Email:  email,
	})

	return token.SignedString(s.cfg.Secret)
}

// Verify checks the signature and registered claims of token. Expired tokens
// return ErrTokenExpired; any other failure wraps ErrInvalidToken.
func (s *Symmetric) Verify(token string) (Claims, error) {
	var claims Claims
	_, err := s.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil:
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	case claims.UserID == "":
		return Claims{}, fmt.Errorf("%w: no user id", ErrInvalidToken)
	}
	return claims, nil
}
