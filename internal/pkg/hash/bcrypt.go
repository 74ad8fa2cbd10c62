package hash

import (
	"golang.org/x/crypto/bcrypt"
)

// Hash hashes secrets and verifies plaintext against a stored hash.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}

// Bcrypt implements Hash using bcrypt.
//
// Pepper is appended to the plaintext before hashing/verifying. Keep the pepper
// secret and store it in configuration (not in the database).
type Bcrypt struct {
	cost   int
	pepper string
	dummy  []byte
}

// NewBcrypt returns a bcrypt-based hasher.
//
// cost controls the hashing work factor; values outside bcrypt's range fall
// back to bcrypt.DefaultCost.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	h := &Bcrypt{cost: cost, pepper: pepper}
	//nolint:errcheck // a fixed short input cannot fail
	h.dummy, _ = bcrypt.GenerateFromPassword([]byte("goblog-dummy-password"), cost)
	return h
}

// Hash hashes plaintext using bcrypt. Inputs longer than 72 bytes
// (pepper included) are rejected by bcrypt.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext+h.pepper), h.cost)
}

// Verify returns true when plaintext matches the hashed value.
//
// An empty hash is compared against a dummy one so callers that look up a
// missing account spend the same time as for a wrong password.
func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	if hashed == "" {
		//nolint:errcheck // result is discarded on purpose
		_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext+h.pepper))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext+h.pepper)) == nil
}
