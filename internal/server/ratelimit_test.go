package server

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowsWithinLimits(t *testing.T) {
	rl := NewRateLimiter(5, 0, 0, 0)

	for i := 0; i < 5; i++ {
		require.NoError(t, rl.Allow("client-a", 0))
	}
}

func TestRateLimiterBlocksMinuteLimit(t *testing.T) {
	rl := NewRateLimiter(2, 0, 0, 0)

	require.NoError(t, rl.Allow("client-a", 0))
	require.NoError(t, rl.Allow("client-a", 0))

	err := rl.Allow("client-a", 0)
	require.Error(t, err)

	var rateErr *RateLimitError
	require.True(t, errors.As(err, &rateErr))
	assert.Equal(t, "minute", rateErr.Type)
	assert.Equal(t, 2, rateErr.Limit)
}

func TestRateLimiterTracksClientsSeparately(t *testing.T) {
	rl := NewRateLimiter(1, 0, 0, 0)

	require.NoError(t, rl.Allow("client-a", 0))
	require.NoError(t, rl.Allow("client-b", 0))
	require.Error(t, rl.Allow("client-a", 0))
}

func TestRateLimiterDailyRequestQuota(t *testing.T) {
	rl := NewRateLimiter(0, 0, 3, 0)

	for i := 0; i < 3; i++ {
		require.NoError(t, rl.Allow("client-a", 0))
	}

	err := rl.Allow("client-a", 0)
	require.Error(t, err)

	var quotaErr *QuotaExceededError
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, "requests", quotaErr.Type)
	assert.EqualValues(t, 3, quotaErr.Used)
}

func TestRateLimiterDailyDataQuota(t *testing.T) {
	rl := NewRateLimiter(0, 0, 0, 1000)

	require.NoError(t, rl.Allow("client-a", 600))

	err := rl.Allow("client-a", 600)
	require.Error(t, err)

	var quotaErr *QuotaExceededError
	require.True(t, errors.As(err, &quotaErr))
	assert.Equal(t, "data", quotaErr.Type)
	assert.EqualValues(t, 600, quotaErr.Used)
}

func TestRateLimiterGetUsage(t *testing.T) {
	rl := NewRateLimiter(10, 0, 0, 0)

	require.NoError(t, rl.Allow("client-a", 512))
	require.NoError(t, rl.Allow("client-a", 256))

	usage := rl.GetUsage("client-a")
	assert.Equal(t, 2, usage.RequestsToday)
	assert.EqualValues(t, 768, usage.DataToday)

	assert.Equal(t, Usage{}, rl.GetUsage("unknown"))
}
