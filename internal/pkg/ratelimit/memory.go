package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// Memory is a fixed window counter per key. The first hit opens a window of
// rule.Window; hits inside it share rule.Limit, as with the Redis driver.
type Memory struct {
	mu        sync.Mutex
	rule      Rule
	windows   map[string]*window
	lastSweep time.Time
	now       func() time.Time
}

func NewMemory(rule Rule) *Memory {
	return &Memory{
		rule:    rule,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Allow implements Limiter.
func (m *Memory) Allow(_ context.Context, key string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(m.rule.Window)}
		m.windows[key] = w
	}
	w.count++

	return Result{
		Allowed:   w.count <= m.rule.Limit,
		Limit:     m.rule.Limit,
		Remaining: max(0, m.rule.Limit-w.count),
		Reset:     w.resetAt.Sub(now).Round(time.Millisecond),
	}, nil
}

// sweep drops expired windows, at most once per rule window.
func (m *Memory) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < m.rule.Window {
		return
	}
	m.lastSweep = now

	for key, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, key)
		}
	}
}
