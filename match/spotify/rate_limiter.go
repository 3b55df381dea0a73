package spotify

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a sliding window rate limiter that also remembers
// server-issued backoffs, so concurrent searches wait out a 429 instead of
// piling further requests onto it. Server backoffs apply even when proactive
// limiting is disabled.
type RateLimiter struct {
	mu           sync.Mutex
	enabled      bool
	maxRequests  int
	window       time.Duration
	sent         []time.Time
	backoffUntil time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(enabled bool, maxRequests int, windowSeconds float64) *RateLimiter {
	return &RateLimiter{
		enabled:     enabled,
		maxRequests: maxRequests,
		window:      time.Duration(windowSeconds * float64(time.Second)),
	}
}

// Wait blocks until a request can be made, respecting both the sliding
// window and any active server backoff. If context is provided, it respects
// context cancellation.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		rl.mu.Lock()
		now := time.Now()

		if wait := rl.backoffUntil.Sub(now); wait > 0 {
			rl.mu.Unlock()
			if err := sleepContext(ctx, wait); err != nil {
				return err
			}
			continue
		}

		if !rl.enabled {
			rl.mu.Unlock()
			return nil
		}

		// Drop requests that have left the window
		cutoff := now.Add(-rl.window)
		kept := rl.sent[:0]
		for _, t := range rl.sent {
			if t.After(cutoff) {
				kept = append(kept, t)
			}
		}
		rl.sent = kept

		if len(rl.sent) < rl.maxRequests {
			rl.sent = append(rl.sent, now)
			rl.mu.Unlock()
			return nil
		}

		wait := rl.window - now.Sub(rl.sent[0])
		rl.mu.Unlock()

		if wait <= 0 {
			// Oldest request expired, re-check immediately
			continue
		}
		if err := sleepContext(ctx, wait); err != nil {
			return err
		}
	}
}

// Backoff records a server-issued retry-after. Overlapping backoffs keep the
// latest expiry.
func (rl *RateLimiter) Backoff(retryAfterSeconds int) {
	if retryAfterSeconds <= 0 {
		retryAfterSeconds = 1
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	until := time.Now().Add(time.Duration(retryAfterSeconds) * time.Second)
	if until.After(rl.backoffUntil) {
		rl.backoffUntil = until
	}
}

// ClearBackoff drops the server backoff after a successful request.
func (rl *RateLimiter) ClearBackoff() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.backoffUntil = time.Time{}
}

// BackoffRemaining returns how long the active server backoff has left, or
// zero when none is active.
func (rl *RateLimiter) BackoffRemaining() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if remaining := time.Until(rl.backoffUntil); remaining > 0 {
		return remaining
	}
	return 0
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if ctx == nil {
		time.Sleep(d)
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
