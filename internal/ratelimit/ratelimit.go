// Package ratelimit paces outbound calls per minute with golang.org/x/time/rate.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter is a token bucket refilled perMinute times a minute.
type Limiter struct {
	bucket *rate.Limiter
}

// New returns a Limiter. A non-positive perMinute means no limit; a
// non-positive burst becomes a tenth of perMinute, at least 1.
func New(perMinute, burst int) *Limiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(float64(perMinute) / 60)
	}
	if burst <= 0 {
		burst = max(perMinute/10, 1)
	}
	return &Limiter{bucket: rate.NewLimiter(limit, burst)}
}

func Unlimited() *Limiter { return New(0, 1) }

// Wait blocks for a token or until ctx is done.
func (l *Limiter) Wait(ctx context.Context) error { return l.bucket.Wait(ctx) }
