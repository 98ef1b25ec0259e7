package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"signup-funnel-backend/internal/repository/cache"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionGuard_Claim(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	mockRedis.MatchExpectationsInOrder(true)
	mockRedis.ExpectSetNX("signup:dedupe:abc", 1, 10*time.Minute).SetVal(true)
	mockRedis.ExpectSetNX("signup:dedupe:abc", 1, 10*time.Minute).SetVal(false)

	guard := cache.NewSubmissionGuard(db, "", 10*time.Minute)

	first, err := guard.Claim(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, first)

	second, err := guard.Claim(context.Background(), "abc")
	require.NoError(t, err)
	assert.False(t, second)

	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestSubmissionGuard_Release(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	mockRedis.ExpectDel("signup:dedupe:abc").SetVal(1)

	err := cache.NewSubmissionGuard(db, "", time.Minute).Release(context.Background(), "abc")

	assert.NoError(t, err)
	assert.NoError(t, mockRedis.ExpectationsWereMet())
}

func TestSubmissionGuard_RedisError(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	mockRedis.ExpectSetNX("signup:dedupe:abc", 1, time.Minute).SetErr(errors.New("connection reset"))

	_, err := cache.NewSubmissionGuard(db, "", time.Minute).Claim(context.Background(), "abc")
	assert.Error(t, err)
}

func TestSubmissionGuard_NonPositiveWindowDisables(t *testing.T) {
	for _, window := range []time.Duration{0, -time.Second} {
		db, mockRedis := redismock.NewClientMock()

		guard := cache.NewSubmissionGuard(db, "", window)

		for i := 0; i < 2; i++ {
			ok, err := guard.Claim(context.Background(), "abc")
			require.NoError(t, err)
			assert.True(t, ok, "window %s", window)
		}
		assert.NoError(t, guard.Release(context.Background(), "abc"))
		assert.IsType(t, cache.NoopGuard{}, guard)
		assert.NoError(t, mockRedis.ExpectationsWereMet())
	}
}

func TestNoopGuard(t *testing.T) {
	ok, err := cache.NoopGuard{}.Claim(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, ok)
}
