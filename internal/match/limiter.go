package match

import (
	"context"
	"sync"
	"time"
)

// Limiter spaces provider calls so that no more than qps requests start per
// second across all workers. It is the single piece of run-wide mutable
// state in the matching stage; every caller reserves a slot under one mutex
// and sleeps outside it.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

// NewLimiter builds a limiter for the given rate. A qps of zero or less
// disables spacing entirely.
func NewLimiter(qps float64) *Limiter {
	l := &Limiter{}
	if qps > 0 {
		l.interval = time.Duration(float64(time.Second) / qps)
	}
	return l
}

// Wait blocks until the caller's reserved slot arrives or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.interval <= 0 {
		return ctx.Err()
	}

	l.mu.Lock()
	now := time.Now()
	slot := l.next
	if slot.Before(now) {
		slot = now
	}
	l.next = slot.Add(l.interval)
	l.mu.Unlock()

	return sleepUntil(ctx, slot)
}

func sleepUntil(ctx context.Context, t time.Time) error {
	d := time.Until(t)
	if d <= 0 {
		return ctx.Err()
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

// sleepFor pauses for d, returning early with the context error when the
// run is canceled.
func sleepFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	return sleepUntil(ctx, time.Now().Add(d))
}
