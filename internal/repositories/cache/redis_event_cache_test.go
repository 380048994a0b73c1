package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisEventCache(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	cache := NewRedisEventCache(db, time.Hour)

	mock.ExpectExists(key("evt_1")).SetVal(0)
	seen, err := cache.Seen(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)

	mock.ExpectSet(key("evt_1"), "1", time.Hour).SetVal("OK")
	require.NoError(t, cache.Remember(ctx, "evt_1"))

	mock.ExpectExists(key("evt_1")).SetVal(1)
	seen, err = cache.Seen(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, seen)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisEventCacheErrors(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	cache := NewRedisEventCache(db, time.Minute)

	mock.ExpectExists(key("evt_2")).SetErr(errors.New("connection refused"))
	_, err := cache.Seen(ctx, "evt_2")
	assert.ErrorContains(t, err, "connection refused")

	mock.ExpectSet(key("evt_2"), "1", time.Minute).SetErr(errors.New("READONLY"))
	assert.Error(t, cache.Remember(ctx, "evt_2"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
