// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the search providers and
// the strategy executor.
package httputil

import (
	"context"
	"math"
	"time"
)

// RetryBaseDelay is the first backoff interval. Tests override this to avoid
// real sleeps.
var RetryBaseDelay = 1 * time.Second

// MaxRetryDelay caps both computed backoff and provider Retry-After hints.
var MaxRetryDelay = 30 * time.Second

// Backoff returns the wait before retry number attempt (zero-based). The
// delay starts at RetryBaseDelay and doubles each attempt: 1 s, 2 s, 4 s, ...
// up to MaxRetryDelay.
func Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
	if d > MaxRetryDelay || d <= 0 {
		return MaxRetryDelay
	}
	return d
}

// RetryDelay picks the wait before the next attempt: the provider's hint
// when it gave one, the computed backoff otherwise. Both are capped at
// MaxRetryDelay.
func RetryDelay(attempt int, hint time.Duration) time.Duration {
	if hint <= 0 {
		return Backoff(attempt)
	}
	if hint > MaxRetryDelay {
		return MaxRetryDelay
	}
	return hint
}

// Sleep waits for d or until ctx is done, whichever comes first. It returns
// ctx.Err() when the context ended the wait.
func Sleep(ctx context.Context, d time.Duration) error {
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
