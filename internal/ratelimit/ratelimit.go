// Package ratelimit counts requests per client in fixed time windows.
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Store increments the counter for key, starting a new window of the given
// length when none is active, and returns the count and time until reset.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration) (count int64, resetIn time.Duration, err error)
}

// Decision is the result of a single Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// Limiter allows at most Max requests per key within Window.
type Limiter struct {
	store  Store
	max    int
	window time.Duration
}

func NewLimiter(store Store, max int, window time.Duration) (*Limiter, error) {
	if store == nil {
		return nil, errors.New("ratelimit: nil store")
	}
	if max <= 0 {
		return nil, errors.New("ratelimit: max must be positive")
	}
	if window <= 0 {
		return nil, errors.New("ratelimit: window must be positive")
	}
	return &Limiter{store: store, max: max, window: window}, nil
}

// Allow records one request for key and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	count, resetIn, err := l.store.Increment(ctx, key, l.window)
	if err != nil {
		return Decision{}, err
	}
	remaining := l.max - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= int64(l.max),
		Limit:     l.max,
		Remaining: remaining,
		ResetIn:   resetIn,
	}, nil
}
