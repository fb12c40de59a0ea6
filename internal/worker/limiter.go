package worker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles operations per key. Batch runs use it to pace
// learning-memory commits per memory file so concurrent workers do not
// thrash the file lock.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter with a shared default rate. A rate of
// zero or less means unlimited.
func NewLimiter(opsPerSecond float64, burst int) *Limiter {
	if opsPerSecond <= 0 {
		opsPerSecond = float64(rate.Inf)
	}
	if burst <= 0 {
		burst = 1
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(opsPerSecond),
		defaultBurst: burst,
	}
}

// Wait blocks until the key's limiter permits one operation
func (l *Limiter) Wait(ctx context.Context, key string) error {
	return l.getLimiter(key).Wait(ctx)
}

// Allow reports whether one operation may proceed without waiting
func (l *Limiter) Allow(key string) bool {
	return l.getLimiter(key).Allow()
}

func (l *Limiter) getLimiter(key string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[key]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring the write lock
	if limiter, exists := l.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[key] = limiter

	return limiter
}

// SetKeyRate overrides the rate for one key
func (l *Limiter) SetKeyRate(key string, opsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.limiters[key] = rate.NewLimiter(rate.Limit(opsPerSecond), burst)
}

// WaitWithDelay waits for the key's limiter and then an extra pause
func (l *Limiter) WaitWithDelay(ctx context.Context, key string, additionalDelay time.Duration) error {
	if err := l.Wait(ctx, key); err != nil {
		return err
	}

	if additionalDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(additionalDelay):
		}
	}

	return nil
}
