package chat

import (
	"sync"
	"time"
)

// Breaker stops hammering the generative model after repeated failures.
// While open, Allow returns false and the engine goes straight to the
// rule-based path; after the cooldown a single call is let through again.
type Breaker struct {
	maxFailures int
	cooldown    time.Duration

	mu          sync.Mutex
	failures    int
	lastFailure time.Time
}

// NewBreaker creates a breaker that opens after maxFailures consecutive
// failures and stays open for the cooldown.
func NewBreaker(maxFailures int, cooldown time.Duration) *Breaker {
	return &Breaker{maxFailures: maxFailures, cooldown: cooldown}
}

// Allow reports whether a call may be attempted right now.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failures < b.maxFailures {
		return true
	}
	if time.Since(b.lastFailure) > b.cooldown {
		// Probe: let one call through. A failure re-opens immediately.
		b.failures = b.maxFailures - 1
		return true
	}
	return false
}

// Record feeds a call outcome back into the breaker. A nil error closes it.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		b.failures = 0
		return
	}
	b.failures++
	b.lastFailure = time.Now()
}
