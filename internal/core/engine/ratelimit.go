// Package engine holds the admission policy guarding outbound API calls.
package engine

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/time/rate"
)

// QPSLimiter throttles outbound calls to a configured queries-per-second
// ceiling using a token bucket with a burst of one. Acquisitions are
// therefore spaced 1/qps apart: at 2 qps the first call passes
// immediately, the second after ~0.5s, the third after ~1s, so no rolling
// one-second window ever admits more than ceil(qps) calls.
type QPSLimiter struct {
	limiter *rate.Limiter
	qps     float64
}

// NewQPSLimiter creates a limiter for the given ceiling. The ceiling must
// be a positive, finite number of queries per second; invalid
// configuration fails here, never at acquire time.
func NewQPSLimiter(qps float64) (*QPSLimiter, error) {
	if math.IsNaN(qps) || math.IsInf(qps, 0) || qps <= 0 {
		return nil, fmt.Errorf("rate limit must be a positive number of queries per second, got %v", qps)
	}
	return &QPSLimiter{
		limiter: rate.NewLimiter(rate.Limit(qps), 1),
		qps:     qps,
	}, nil
}

// Acquire blocks the calling goroutine until one call is permitted under
// the ceiling, then returns nil, permitting exactly one call. It returns
// an error only when ctx is cancelled while waiting.
func (l *QPSLimiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

// Limit returns the configured queries-per-second ceiling.
func (l *QPSLimiter) Limit() float64 {
	if l == nil {
		return 0
	}
	return l.qps
}
