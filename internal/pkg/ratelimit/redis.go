package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed window counter stored under "ratelimit:<rule>:<key>".
type Redis struct {
	client redis.Cmdable
	rule   Rule
	prefix string
}

func NewRedis(client redis.Cmdable, rule Rule) *Redis {
	return &Redis{
		client: client,
		rule:   rule,
		prefix: "ratelimit:" + rule.Name + ":",
	}
}

// Allow implements Limiter.
//
// The first hit of a window creates the key with the window as TTL; later
// hits only increment it, so the window never slides.
func (r *Redis) Allow(ctx context.Context, key string) (Result, error) {
	fk := r.prefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, fk)
		pipe.ExpireNX(ctx, fk, r.rule.Window)
		ttl = pipe.PTTL(ctx, fk)
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	count := int(incr.Val())
	reset := ttl.Val()
	if reset <= 0 {
		reset = r.rule.Window
	}

	return Result{
		Allowed:   count <= r.rule.Limit,
		Limit:     r.rule.Limit,
		Remaining: max(0, r.rule.Limit-count),
		Reset:     reset.Round(time.Millisecond),
	}, nil
}
