package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// PerIPBucket is an in-process token bucket keyed by caller identity, used
// on credential endpoints where a shared store round-trip per attempt is not
// worth the cost. Stale buckets are evicted after a TTL.
type PerIPBucket struct {
	perSecond rate.Limit
	burst     int

	mu      sync.Mutex
	buckets map[string]*bucket
	ttl     time.Duration
	stop    chan struct{}
	once    sync.Once
}

type bucket struct {
	lim *rate.Limiter
	ts  time.Time
}

// NewPerIPBucket constructs the bucket limiter and starts its janitor.
func NewPerIPBucket(perSecond float64, burst int) *PerIPBucket {
	b := &PerIPBucket{
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		buckets:   make(map[string]*bucket),
		ttl:       5 * time.Minute,
		stop:      make(chan struct{}),
	}
	go b.janitor()
	return b
}

// Allow reports whether one request from key may proceed now.
func (b *PerIPBucket) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}
	b.mu.Lock()
	entry, ok := b.buckets[key]
	if !ok {
		entry = &bucket{lim: rate.NewLimiter(b.perSecond, b.burst)}
		b.buckets[key] = entry
	}
	entry.ts = time.Now()
	b.mu.Unlock()
	return entry.lim.Allow()
}

// Stop terminates the janitor goroutine.
func (b *PerIPBucket) Stop() {
	b.once.Do(func() { close(b.stop) })
}

func (b *PerIPBucket) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-b.ttl)
			b.mu.Lock()
			for k, entry := range b.buckets {
				if entry.ts.Before(cutoff) {
					delete(b.buckets, k)
				}
			}
			b.mu.Unlock()
		case <-b.stop:
			return
		}
	}
}
