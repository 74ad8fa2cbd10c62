package entity

import "time"

// User is a registered account. Password holds the bcrypt hash.
type User struct {
	ID        string
	Email     string
	Name      string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser is the data needed to persist a fresh account.
type NewUser struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}
