// Package resilience provides local admission control.
package resilience

import (
	"sync"
	"time"
)

// TokenBucket bounds the outbound call rate to a supplier. Consume never
// blocks; backpressure is the caller's responsibility.
type TokenBucket struct {
	mu             sync.Mutex
	capacity       int64
	tokens         int64
	refillInterval time.Duration
	lastRefill     time.Time
	now            func() time.Time
}

// NewTokenBucket constructs a full bucket.
func NewTokenBucket(capacity int64, refillInterval time.Duration) *TokenBucket {
	if capacity <= 0 {
		capacity = 1
	}
	if refillInterval <= 0 {
		refillInterval = time.Second
	}
	bucket := &TokenBucket{
		capacity:       capacity,
		tokens:         capacity,
		refillInterval: refillInterval,
		now:            time.Now,
	}
	bucket.lastRefill = bucket.now()
	return bucket
}

// Consume takes one token, refilling first. It returns a RATE_LIMITED
// error when the bucket is empty.
func (b *TokenBucket) Consume() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refillLocked()
	if b.tokens > 0 {
		b.tokens--
		return nil
	}
	return ErrRateLimited
}

// Remaining reports the current token count after a refill.
func (b *TokenBucket) Remaining() int64 {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refillLocked()
	return b.tokens
}

func (b *TokenBucket) refillLocked() {
	elapsed := b.now().Sub(b.lastRefill)
	if elapsed < b.refillInterval {
		return
	}
	intervals := int64(elapsed / b.refillInterval)
	b.tokens += intervals
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	// Advance by whole intervals only, so fractional progress toward the
	// next token is not lost.
	b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * b.refillInterval)
}
