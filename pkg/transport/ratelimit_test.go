package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Wait_Success(t *testing.T) {
	rl := NewRateLimiter(100)
	err := rl.Wait(context.Background())
	require.NoError(t, err)
}

func TestRateLimiter_Wait_EnforcesLimit(t *testing.T) {
	rl := NewRateLimiter(5)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, rl.Wait(ctx))
	}
	elapsed := time.Since(start)

	assert.Greater(t, elapsed, 200*time.Millisecond)
}

func TestRateLimiter_Wait_ContextCanceled(t *testing.T) {
	rl := NewRateLimiter(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, rl.Wait(context.Background()))
	err := rl.Wait(ctx)
	assert.Error(t, err)
}

func TestRateLimiter_Wait_ContextTimeout(t *testing.T) {
	rl := NewRateLimiter(0.1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	assert.Error(t, err)
}

func TestClient_WithRateLimit(t *testing.T) {
	client, err := New(Config{})
	require.NoError(t, err)

	rl := NewRateLimiter(50)
	client.WithRateLimit(rl)
	assert.Same(t, rl, client.rateLimiter)
}

func TestNewRateLimiter_MinimumBurst(t *testing.T) {
	rl := NewRateLimiter(0.1)
	assert.NotNil(t, rl.limiter)
}
