package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
)

const processedEventPrefix = "family_bank:processed_event:"

// RedisEventCache remembers recently processed provider event ids. Entries
// expire after the TTL; the database remains the source of truth.
type RedisEventCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ portssvc.ProcessedEventCache = (*RedisEventCache)(nil)

// NewRedisEventCache wraps an existing client.
func NewRedisEventCache(client *redis.Client, ttl time.Duration) *RedisEventCache {
	return &RedisEventCache{client: client, ttl: ttl}
}

func key(eventID string) string {
	return processedEventPrefix + eventID
}

func (c *RedisEventCache) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := c.client.Exists(ctx, key(eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to look up event %s: %w", eventID, err)
	}
	return n > 0, nil
}

func (c *RedisEventCache) Remember(ctx context.Context, eventID string) error {
	if err := c.client.Set(ctx, key(eventID), "1", c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache event %s: %w", eventID, err)
	}
	return nil
}

// NewRedisClient connects to Redis and pings it.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
