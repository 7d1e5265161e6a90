package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache persists resolved locations in redis so restarts and repeat
// collector runs reuse earlier lookups instead of hitting Nominatim again.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// NewRedisCache wraps a redis client as a geocode Cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(location string) string {
	return "geocode:" + location
}

// Get returns the cached coordinates for a location, if present.
func (c *RedisCache) Get(ctx context.Context, location string) (*Coords, bool) {
	data, err := c.client.Get(ctx, cacheKey(location)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logCacheErr("get", err)
		}
		return nil, false
	}

	var coords Coords
	if err := json.Unmarshal(data, &coords); err != nil {
		logCacheErr("decode", err)
		return nil, false
	}
	return &coords, true
}

// Set stores coordinates for a location.
func (c *RedisCache) Set(ctx context.Context, location string, coords Coords) {
	data, err := json.Marshal(coords)
	if err != nil {
		logCacheErr("encode", err)
		return
	}
	logCacheErr("set", c.client.Set(ctx, cacheKey(location), data, c.ttl).Err())
}
