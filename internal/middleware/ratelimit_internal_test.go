package middleware

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_CleanupForgetsIdleClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1, time.Minute, slog.Default())
	rl.now = func() time.Time { return now }

	rl.getLimiter("10.0.0.1")
	now = now.Add(50 * time.Second)
	rl.getLimiter("10.0.0.2")
	now = now.Add(30 * time.Second)

	rl.Cleanup()

	assert.Equal(t, 1, rl.Len())
	_, kept := rl.limiters["10.0.0.2"]
	assert.True(t, kept)
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(5))
	assert.Equal(t, 2, retryAfterSeconds(0.5))
	assert.Equal(t, 1, retryAfterSeconds(0))
}
