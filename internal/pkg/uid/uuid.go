// Package uid generates and checks the string identifiers used for users,
// posts, tags and request correlation.
package uid

import "github.com/google/uuid"

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}

// UUID generates time-ordered UUIDv7 strings so primary keys stay index friendly.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString() // fallback: uuidV4
	}
	return id.String()
}

// IsUUID reports whether s is a UUID in any of the accepted textual forms.
func IsUUID(s string) bool {
	return uuid.Validate(s) == nil
}
