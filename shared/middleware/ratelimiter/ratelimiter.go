package ratelimiter

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultMaxKeys = 10000

// bucket implements a token bucket rate limiter
type bucket struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
}

func newBucket(rate, capacity float64) *bucket {
	return &bucket{tokens: capacity, capacity: capacity, rate: rate, lastRefill: time.Now()}
}

func (b *bucket) allow(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Refill tokens based on elapsed time
	b.tokens += now.Sub(b.lastRefill).Seconds() * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// KeyedRateLimiter keeps one bucket per key. Idle keys expire; the key table is bounded.
type KeyedRateLimiter struct {
	mu       sync.Mutex
	buckets  *expirable.LRU[string, *bucket]
	rate     float64
	capacity float64
}

// New creates a limiter refilling rate tokens per second up to capacity. Buckets unused for
// expiration are forgotten, which restores them to full capacity.
func New(rate, capacity float64, expiration time.Duration) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		buckets:  expirable.NewLRU[string, *bucket](defaultMaxKeys, nil, expiration),
		rate:     rate,
		capacity: capacity,
	}
}

func (l *KeyedRateLimiter) bucketFor(key string) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets.Get(key)
	if !ok {
		b = newBucket(l.rate, l.capacity)
	}
	// re-adding refreshes the expiration
	l.buckets.Add(key, b)
	return b
}

// Allow reports whether a request for key may proceed and consumes a token if so.
func (l *KeyedRateLimiter) Allow(key string) bool {
	return l.bucketFor(key).allow(time.Now())
}

func (l *KeyedRateLimiter) Len() int {
	return l.buckets.Len()
}
