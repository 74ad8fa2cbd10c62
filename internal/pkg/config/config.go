// Package config reads runtime settings by dotted key, e.g. "app.server.http.address".
package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for retrieving time-based configuration values.
type TimeConfig interface {
	// GetSecond reads an integer key as seconds.
	GetSecond(key string) time.Duration

	// GetMinute reads an integer key as minutes.
	GetMinute(key string) time.Duration

	// GetDuration reads a Go duration string such as "90s" or "1h30m".
	GetDuration(key string) time.Duration
}

// Config defines a set of methods for retrieving configuration values of various types.
//
// Missing keys and values that cannot be converted return the zero value.
type Config interface {
	io.Closer
	TimeConfig

	GetInt(key string) int
	GetInt32(key string) int32
	GetFloat64(key string) float64
	GetBool(key string) bool
	GetString(key string) string

	// GetArray reads either a list or a comma separated string. Elements are
	// trimmed and empty ones dropped.
	GetArray(key string) []string
}
