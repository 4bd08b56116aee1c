// Package ratelimit enforces per-session request quotas over a sliding time
// window. Every pipeline invocation passes through Admit before any provider
// cost is incurred.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one admission check. RetryAfter is only set
// when Allowed is false.
type Decision struct {
	Allowed    bool          `json:"allowed"`
	Remaining  int           `json:"remaining"`
	RetryAfter time.Duration `json:"retryAfter"`
}

// Store keeps per-session request timestamps. Admit must be atomic per
// session: two concurrent calls for the same session must never both be
// admitted when only one slot remains. Implementations evict timestamps
// older than the window on every call, so storage stays bounded by max.
type Store interface {
	// Admit evicts expired timestamps, then records now and returns
	// (true, live count incl. the new one, oldest live) if the count was
	// under max, or (false, live count, oldest live) without recording.
	Admit(ctx context.Context, sessionID string, now time.Time, window time.Duration, max int) (bool, int, time.Time, error)

	// Peek reports the live count and oldest live timestamp without
	// mutating state.
	Peek(ctx context.Context, sessionID string, now time.Time, window time.Duration) (int, time.Time, error)
}

// Limiter gates pipeline invocations per session.
type Limiter struct {
	store    Store
	max      int
	window   time.Duration
	disabled bool
	now      func() time.Time
}

type Option func(*Limiter)

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New builds a limiter. disabled must come from an explicit configuration
// flag, never from environment sniffing; production config forces it off.
func New(store Store, maxRequests int, window time.Duration, disabled bool, opts ...Option) *Limiter {
	l := &Limiter{
		store:    store,
		max:      maxRequests,
		window:   window,
		disabled: disabled,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Admit checks and consumes one request slot for the session. The slot is
// consumed on admission and never refunded, even if the downstream call
// fails; a failed generation still counts against abuse.
func (l *Limiter) Admit(ctx context.Context, sessionID string) (Decision, error) {
	if l.disabled {
		return Decision{Allowed: true, Remaining: l.max}, nil
	}

	now := l.now()
	admitted, count, oldest, err := l.store.Admit(ctx, sessionID, now, l.window, l.max)
	if err != nil {
		return Decision{}, err
	}

	if admitted {
		return Decision{Allowed: true, Remaining: l.max - count}, nil
	}

	return Decision{
		Allowed:    false,
		Remaining:  0,
		RetryAfter: l.retryAfter(now, oldest),
	}, nil
}

// PeekRemaining reports the remaining quota without consuming a slot. Used
// for UI display only.
func (l *Limiter) PeekRemaining(ctx context.Context, sessionID string) (int, time.Duration, error) {
	if l.disabled {
		return l.max, 0, nil
	}

	now := l.now()
	count, oldest, err := l.store.Peek(ctx, sessionID, now, l.window)
	if err != nil {
		return 0, 0, err
	}

	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	if remaining > 0 {
		return remaining, 0, nil
	}
	return 0, l.retryAfter(now, oldest), nil
}

func (l *Limiter) retryAfter(now, oldest time.Time) time.Duration {
	if oldest.IsZero() {
		return l.window
	}
	retryAfter := l.window - now.Sub(oldest)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return retryAfter
}
