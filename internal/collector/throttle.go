package collector

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Clock is the time source of a Throttle.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SystemClock returns the wall clock.
func SystemClock() Clock { return realClock{} }

// Throttle spaces outbound vendor calls at least interval apart. One
// throttle is owned by each client and shared by all its requests.
type Throttle struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	clock   Clock
}

// NewThrottle creates a throttle allowing one call per interval. A nil
// clock means the wall clock.
func NewThrottle(interval time.Duration, clock Clock) *Throttle {
	if clock == nil {
		clock = realClock{}
	}
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Throttle{limiter: rate.NewLimiter(limit, 1), clock: clock}
}

// Wait blocks until the next call may proceed.
func (t *Throttle) Wait(ctx context.Context) error {
	t.mu.Lock()
	now := t.clock.Now()
	r := t.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	t.mu.Unlock()

	if delay <= 0 {
		return nil
	}
	if err := t.clock.Sleep(ctx, delay); err != nil {
		r.CancelAt(t.clock.Now())
		return err
	}
	return nil
}
