// Package jwt issues and verifies the bearer tokens of signed-in users and
// carries their claims through the request context.
package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSigningKeyTooShort rejects HS512 keys below 512 bits.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")
	// ErrTokenExpired is returned for a well formed token past its exp.
	ErrTokenExpired = errors.New("JWT token has expired")
	// ErrInvalidToken wraps every other verification failure.
	ErrInvalidToken = errors.New("invalid token")
)

// DefaultTTL is used when Config.TTL is not set.
const DefaultTTL = 24 * time.Hour

// JWT issues a token for a user and reads it back.
type JWT interface {
	Generate(userID, email string) (string, error)
	Verify(token string) (Claims, error)
}

// Config holds the signing key and the registered claims to issue and expect.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	// TTL is how long a token stays valid. Zero means DefaultTTL.
	TTL time.Duration

	Clock interface{ Now() time.Time }
	// UUID names each token through its jti claim.
	UUID interface{ Generate() string }
}

// Claims are the registered claims plus the user the token was issued to.
// Subject and UserID hold the same id.
type Claims struct {
	jwt.RegisteredClaims

	UserID string `json:"id"`
	Email  string `json:"email"`
}

type authKey struct{}

// SetAuth returns a copy of ctx carrying clm.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authKey{}, clm)
}

// GetAuth returns the claims of the authenticated request, or nil.
func GetAuth(ctx context.Context) *Claims {
	if clm, ok := ctx.Value(authKey{}).(Claims); ok {
		return &clm
	}
	return nil
}
