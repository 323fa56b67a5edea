package override

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKey = "pricing:overrides"

// Cache stores the override table as a JSON blob in Redis so pricing
// requests don't hit Postgres on every call.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached table. It reports whether the key existed.
func (c *Cache) Get(ctx context.Context) (Table, bool, error) {
	if c == nil || c.client == nil {
		return Table{}, false, nil
	}
	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Table{}, false, nil
		}
		return Table{}, false, err
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return Table{}, false, err
	}
	return t, true, nil
}

// Set serialises the table and stores it with the configured TTL.
func (c *Cache) Set(ctx context.Context, t Table) error {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey, data, c.ttl).Err()
}

// Invalidate drops the cached table so the next Resolve reloads from Postgres.
func (c *Cache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, cacheKey).Err()
}
