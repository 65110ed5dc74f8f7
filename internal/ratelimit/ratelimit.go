// Package ratelimit provides a fixed-window request limiter backed by a
// shared atomic counter store, plus an in-process token bucket used to
// throttle credential endpoints.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Store is the shared counter the limiter treats as the sole arbiter of
// consistency. Incr must be atomic in the store itself; the limiter never
// does read-modify-write in application code.
type Store interface {
	// Incr atomically increments the counter for key, arming an expiry of
	// window on first increment, and returns the post-increment count.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Decision is the outcome of one limiter check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Reset      time.Time
	RetryAfter time.Duration
}

// Limiter rejects requests once a key exceeds MaxRequests inside one fixed
// window. Windows are aligned to floor(now/window), not sliding: a burst
// spanning two windows can momentarily exceed the nominal rate, which is an
// accepted approximation.
type Limiter struct {
	store  Store
	window time.Duration
	max    int
	now    func() time.Time
}

// New constructs a Limiter.
func New(store Store, window time.Duration, maxRequests int) *Limiter {
	if window <= 0 {
		window = time.Minute
	}
	if maxRequests <= 0 {
		maxRequests = 60
	}
	return &Limiter{store: store, window: window, max: maxRequests, now: time.Now}
}

// WithClock overrides the time source for tests.
func (l *Limiter) WithClock(fn func() time.Time) *Limiter {
	if fn != nil {
		l.now = fn
	}
	return l
}

// Allow checks and counts one request for key. When the store fails the
// request is admitted (fail open) and the error is returned so the caller
// can log it; availability wins over strict enforcement.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	bucket := now.UnixMilli() / l.window.Milliseconds()
	windowKey := fmt.Sprintf("%s:%d", key, bucket)
	reset := time.UnixMilli((bucket + 1) * l.window.Milliseconds())

	count, err := l.store.Incr(ctx, windowKey, l.window)
	if err != nil {
		return Decision{Allowed: true, Limit: l.max, Remaining: l.max, Reset: reset}, err
	}

	d := Decision{Limit: l.max, Reset: reset}
	if count > int64(l.max) {
		d.Allowed = false
		d.Remaining = 0
		d.RetryAfter = time.Until(reset)
		if d.RetryAfter < time.Second {
			d.RetryAfter = time.Second
		}
		return d, nil
	}
	d.Allowed = true
	d.Remaining = l.max - int(count)
	return d, nil
}

// Window returns the configured window size.
func (l *Limiter) Window() time.Duration { return l.window }
