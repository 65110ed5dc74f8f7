package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

type failingStore struct{ err error }

func (s failingStore) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, s.err
}

func TestLimiterAdmitsUpToMaxThenRejects(t *testing.T) {
	current := time.UnixMilli(0)
	clock := func() time.Time { return current }
	limiter := New(NewMemoryStore().WithClock(clock), time.Minute, 5).WithClock(clock)

	for i := 0; i < 5; i++ {
		d, err := limiter.Allow(context.Background(), "client-a")
		if err != nil {
			t.Fatalf("Allow %d: %v", i, err)
		}
		if !d.Allowed {
			t.Fatalf("request %d within limit must be allowed", i)
		}
		if d.Remaining != 5-i-1 {
			t.Fatalf("request %d: expected remaining %d, got %d", i, 5-i-1, d.Remaining)
		}
	}

	d, err := limiter.Allow(context.Background(), "client-a")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if d.Allowed {
		t.Fatal("request over limit must be rejected")
	}
	if d.Remaining != 0 {
		t.Fatalf("rejected decision must report zero remaining, got %d", d.Remaining)
	}
	if d.RetryAfter < time.Second {
		t.Fatalf("retry-after must be at least one second, got %v", d.RetryAfter)
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	current := time.UnixMilli(0)
	clock := func() time.Time { return current }
	limiter := New(NewMemoryStore().WithClock(clock), time.Minute, 1).WithClock(clock)

	if d, _ := limiter.Allow(context.Background(), "client-a"); !d.Allowed {
		t.Fatal("first request for client-a must pass")
	}
	if d, _ := limiter.Allow(context.Background(), "client-a"); d.Allowed {
		t.Fatal("second request for client-a must be rejected")
	}
	if d, _ := limiter.Allow(context.Background(), "client-b"); !d.Allowed {
		t.Fatal("client-b has its own counter")
	}
}

func TestLimiterResetsOnNextWindow(t *testing.T) {
	current := time.UnixMilli(0)
	clock := func() time.Time { return current }
	limiter := New(NewMemoryStore().WithClock(clock), time.Minute, 1).WithClock(clock)

	if d, _ := limiter.Allow(context.Background(), "client-a"); !d.Allowed {
		t.Fatal("first request must pass")
	}
	if d, _ := limiter.Allow(context.Background(), "client-a"); d.Allowed {
		t.Fatal("second request in same window must be rejected")
	}

	current = current.Add(time.Minute)

	if d, _ := limiter.Allow(context.Background(), "client-a"); !d.Allowed {
		t.Fatal("request in fresh window must pass")
	}
}

func TestLimiterFailsOpenOnStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	limiter := New(failingStore{err: storeErr}, time.Minute, 1)

	d, err := limiter.Allow(context.Background(), "client-a")
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error surfaced, got %v", err)
	}
	if !d.Allowed {
		t.Fatal("store failure must admit the request")
	}
}

func TestPerIPBucketThrottles(t *testing.T) {
	bucket := NewPerIPBucket(1, 2)
	defer bucket.Stop()

	if !bucket.Allow("10.0.0.1") || !bucket.Allow("10.0.0.1") {
		t.Fatal("burst of 2 must pass")
	}
	if bucket.Allow("10.0.0.1") {
		t.Fatal("third immediate request must be throttled")
	}
	if !bucket.Allow("10.0.0.2") {
		t.Fatal("other address has its own bucket")
	}
}
