package sender

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Limiter combines a token bucket with a concurrency cap so that bursts of
// uploads neither exceed the platform's request rate nor open too many
// connections at once.
type Limiter struct {
	bucket *rate.Limiter
	slots  *semaphore.Weighted
	burst  int
}

// NewLimiter allows rps requests per second with at most concurrent uploads
// in flight.
func NewLimiter(rps float64, concurrent int64) *Limiter {
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		bucket: rate.NewLimiter(rate.Limit(rps), burst),
		slots:  semaphore.NewWeighted(concurrent),
		burst:  burst,
	}
}

// Acquire blocks until a concurrency slot and a rate token are available.
// Callers must call Release when the upload finishes.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := l.slots.Acquire(ctx, 1); err != nil {
		return err
	}

	if err := l.bucket.Wait(ctx); err != nil {
		l.slots.Release(1)
		return err
	}

	return nil
}

// Release frees a concurrency slot.
func (l *Limiter) Release() {
	l.slots.Release(1)
}

// Drain empties the token bucket after a 429 so subsequent uploads wait for
// it to refill.
func (l *Limiter) Drain() {
	l.bucket.AllowN(time.Now(), l.burst)
}
