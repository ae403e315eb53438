package repository

import (
	"strconv"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront-sync/internal/config"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRateLimiter(t *testing.T, now time.Time) (*rateLimitRepository, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	repo := &rateLimitRepository{
		client: client,
		cfg:    &config.RateConfig{MaxAttempts: 3, WindowSize: time.Minute},
		now:    func() time.Time { return now },
	}

	return repo, mock
}

func expectAttempt(mock redismock.ClientMock, key string, now time.Time, window time.Duration, count int64) {
	nano := now.UnixNano()
	mock.ExpectZRemRangeByScore(key, "0", strconv.FormatInt(now.Add(-window).UnixNano(), 10)).SetVal(0)
	mock.ExpectZAdd(key, redis.Z{Score: float64(nano), Member: strconv.FormatInt(nano, 10)}).SetVal(1)
	mock.ExpectZCard(key).SetVal(count)
	mock.ExpectExpire(key, window).SetVal(true)
}

func TestCheckLoginRateLimit(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	email := "user@example.com"
	key := loginAttemptsKey(email)

	t.Run("Success - Under the limit", func(t *testing.T) {
		// Arrange
		repo, mock := newTestRateLimiter(t, now)
		expectAttempt(mock, key, now, time.Minute, 1)

		// Act
		allowed, remaining, retryAfter, err := repo.CheckLoginRateLimit(t.Context(), email)

		// Assert
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 2, remaining)
		assert.Zero(t, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Last allowed attempt", func(t *testing.T) {
		// Arrange
		repo, mock := newTestRateLimiter(t, now)
		expectAttempt(mock, key, now, time.Minute, 3)

		// Act
		allowed, remaining, _, err := repo.CheckLoginRateLimit(t.Context(), email)

		// Assert
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Zero(t, remaining)
	})

	t.Run("Failure - Limit exceeded reports retry delay", func(t *testing.T) {
		// Arrange
		repo, mock := newTestRateLimiter(t, now)
		expectAttempt(mock, key, now, time.Minute, 4)

		oldest := now.Add(-20 * time.Second)
		mock.ExpectZRangeWithScores(key, 0, 0).SetVal([]redis.Z{{Score: float64(oldest.UnixNano()), Member: "x"}})

		// Act
		allowed, remaining, retryAfter, err := repo.CheckLoginRateLimit(t.Context(), email)

		// Assert
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Zero(t, remaining)
		assert.Equal(t, 40, retryAfter)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Pipeline error", func(t *testing.T) {
		// Arrange
		repo, mock := newTestRateLimiter(t, now)
		mock.ExpectZRemRangeByScore(key, "0", strconv.FormatInt(now.Add(-time.Minute).UnixNano(), 10)).SetErr(redis.ErrClosed)

		// Act
		allowed, _, _, err := repo.CheckLoginRateLimit(t.Context(), email)

		// Assert
		require.Error(t, err)
		assert.False(t, allowed)
		assert.Contains(t, err.Error(), "redis pipeline error")
	})
}
