// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff(t *testing.T) {
	oldBase, oldMax := RetryBaseDelay, MaxRetryDelay
	RetryBaseDelay = 100 * time.Millisecond
	MaxRetryDelay = time.Second
	defer func() { RetryBaseDelay, MaxRetryDelay = oldBase, oldMax }()

	assert.Equal(t, 100*time.Millisecond, Backoff(0))
	assert.Equal(t, 200*time.Millisecond, Backoff(1))
	assert.Equal(t, 400*time.Millisecond, Backoff(2))
	assert.Equal(t, 800*time.Millisecond, Backoff(3))
	assert.Equal(t, time.Second, Backoff(4))
	assert.Equal(t, time.Second, Backoff(60))
	assert.Equal(t, 100*time.Millisecond, Backoff(-1))
}

func TestRetryDelay(t *testing.T) {
	oldBase, oldMax := RetryBaseDelay, MaxRetryDelay
	RetryBaseDelay = 10 * time.Millisecond
	MaxRetryDelay = time.Second
	defer func() { RetryBaseDelay, MaxRetryDelay = oldBase, oldMax }()

	assert.Equal(t, 20*time.Millisecond, RetryDelay(1, 0))
	assert.Equal(t, 500*time.Millisecond, RetryDelay(1, 500*time.Millisecond))
	assert.Equal(t, time.Second, RetryDelay(1, time.Minute))
}

func TestSleep_Completes(t *testing.T) {
	assert.NoError(t, Sleep(context.Background(), time.Millisecond))
	assert.NoError(t, Sleep(context.Background(), 0))
}

func TestSleep_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := Sleep(ctx, 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
