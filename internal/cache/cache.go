package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ---------------------------------------------------------------------------
// Cache — small Redis-backed byte cache used by the download proxy so that
// repeated downloads of the same generated audio don't refetch from the
// voice CDN. Optional: a nil *Cache disables caching entirely.
// ---------------------------------------------------------------------------

const keyPrefix = "audio:"

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis and verifies the connection.
func New(redisURL string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{client: client, ttl: ttl}, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// Get returns the cached bytes for a URL, or (nil, false) on miss. A nil
// receiver always misses.
func (c *Cache) Get(ctx context.Context, url string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, keyPrefix+url).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores bytes for a URL with the configured TTL. Best effort: errors
// are swallowed, the proxy works without the cache.
func (c *Cache) Set(ctx context.Context, url string, data []byte) {
	if c == nil {
		return
	}
	c.client.Set(ctx, keyPrefix+url, data, c.ttl)
}
