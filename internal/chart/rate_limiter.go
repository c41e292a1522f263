package chart

import (
	"context"
	"sync"
	"time"
)

// RateLimiter keeps at least interval between the end of one call and the
// start of the next. The first call is free.
type RateLimiter struct {
	mu            sync.Mutex
	nextAllowedAt time.Time
	interval      time.Duration
}

func NewRateLimiter(interval time.Duration) *RateLimiter {
	if interval < 0 {
		interval = 0
	}
	return &RateLimiter{interval: interval}
}

func (r *RateLimiter) WaitTurn(ctx context.Context) error {
	r.mu.Lock()
	now := time.Now()
	scheduled := now
	if r.nextAllowedAt.After(now) {
		scheduled = r.nextAllowedAt
	}
	r.nextAllowedAt = scheduled.Add(r.interval)
	r.mu.Unlock()

	sleep := time.Until(scheduled)
	if sleep <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(sleep)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Done marks the current call finished; the next turn starts no earlier than
// interval from now.
func (r *RateLimiter) Done() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if next := time.Now().Add(r.interval); next.After(r.nextAllowedAt) {
		r.nextAllowedAt = next
	}
}
