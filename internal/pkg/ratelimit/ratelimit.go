// Package ratelimit counts requests per key inside a time window.
//
// Two drivers are available: Redis, a fixed window shared by every instance,
// and Memory, the same fixed window kept per process for single-instance
// setups and tests.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

var (
	// ErrInvalidRule is returned when a rule has no name, limit or window.
	ErrInvalidRule = errors.New("ratelimit: rule needs a name, a positive limit and a positive window")

	// ErrNoRedisClient is returned when the redis driver is selected without a client.
	ErrNoRedisClient = errors.New("ratelimit: redis driver needs a client")
)

// Rule allows Limit hits per key every Window.
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

func (r Rule) validate() error {
	if r.Name == "" || r.Limit <= 0 || r.Window <= 0 {
		return ErrInvalidRule
	}
	return nil
}

// Result describes the state of a key after one hit.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	// Reset is the time until the key is fully available again.
	Reset time.Duration
}

// Limiter records a hit for key and reports whether it fits the rule.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// New returns the limiter of driver for rule. An empty driver means memory.
func New(driver string, client redis.Cmdable, rule Rule) (Limiter, error) {
	if err := rule.validate(); err != nil {
		return nil, err
	}

	switch driver {
	case DriverRedis:
		if client == nil {
			return nil, ErrNoRedisClient
		}
		return NewRedis(client, rule), nil
	case DriverMemory, "":
		return NewMemory(rule), nil
	default:
		return nil, fmt.Errorf("ratelimit: unknown driver %q", driver)
	}
}
