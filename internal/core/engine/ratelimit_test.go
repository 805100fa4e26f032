package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewQPSLimiterRejectsInvalidCeiling(t *testing.T) {
	for _, qps := range []float64{0, -1, -0.5} {
		_, err := NewQPSLimiter(qps)
		require.Error(t, err, "qps=%v", qps)
	}
}

func TestAcquireSpacing(t *testing.T) {
	// 2 qps, burst 1: acquisitions are spaced ~0.5s apart, so the third
	// back-to-back acquire completes at least ~1s after the first and all
	// five take at least ~2s.
	limiter, err := NewQPSLimiter(2)
	require.NoError(t, err)

	ctx := context.Background()
	start := time.Now()
	var third time.Duration
	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Acquire(ctx))
		if i == 2 {
			third = time.Since(start)
		}
	}
	total := time.Since(start)

	// Allow a little scheduler slack on the lower bounds.
	require.GreaterOrEqual(t, third, 900*time.Millisecond, "third acquire returned too early")
	require.GreaterOrEqual(t, total, 1900*time.Millisecond, "five acquires at 2 qps finished too early")
}

func TestAcquireNoRollingWindowBurst(t *testing.T) {
	limiter, err := NewQPSLimiter(4)
	require.NoError(t, err)

	ctx := context.Background()
	var stamps []time.Time
	for i := 0; i < 8; i++ {
		require.NoError(t, limiter.Acquire(ctx))
		stamps = append(stamps, time.Now())
	}

	// No rolling one-second window may contain more than 4 admissions;
	// with burst 1 the i-th and (i+4)-th admissions are >= 1s apart.
	for i := 0; i+4 < len(stamps); i++ {
		require.GreaterOrEqual(t, stamps[i+4].Sub(stamps[i]), 950*time.Millisecond)
	}
}

func TestAcquireHonorsCancellation(t *testing.T) {
	limiter, err := NewQPSLimiter(0.5)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, limiter.Acquire(ctx))

	cancelCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = limiter.Acquire(cancelCtx)
	require.Error(t, err)
	require.Less(t, time.Since(start), time.Second, "cancelled acquire must not wait out the full interval")
}

func TestNilLimiterAcquires(t *testing.T) {
	var limiter *QPSLimiter
	require.NoError(t, limiter.Acquire(context.Background()))
	require.Zero(t, limiter.Limit())
}
