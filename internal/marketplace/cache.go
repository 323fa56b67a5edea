package marketplace

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CachingClient wraps a Client with a Redis listing cache. Listing pricing
// data changes rarely, so a short TTL keeps speculative pricing off the
// hosted backend without serving stale prices for long.
type CachingClient struct {
	Inner  Client
	R      *redis.Client
	TTL    time.Duration
	Logger zerolog.Logger
}

func listingKey(id uuid.UUID) string {
	return "pricing:listing:" + id.String()
}

// GetListing serves from the cache when possible.
func (c *CachingClient) GetListing(ctx context.Context, id uuid.UUID) (Listing, error) {
	if c.R != nil {
		data, err := c.R.Get(ctx, listingKey(id)).Bytes()
		if err == nil {
			var listing Listing
			if err := json.Unmarshal(data, &listing); err == nil {
				return listing, nil
			}
		} else if err != redis.Nil {
			c.Logger.Warn().Err(err).Msg("listing cache read failed")
		}
	}
	listing, err := c.Inner.GetListing(ctx, id)
	if err != nil {
		return Listing{}, err
	}
	if c.R != nil {
		if data, err := json.Marshal(listing); err == nil {
			if err := c.R.Set(ctx, listingKey(id), data, c.TTL).Err(); err != nil {
				c.Logger.Warn().Err(err).Msg("listing cache write failed")
			}
		}
	}
	return listing, nil
}

// InitiateTransaction is a write and always goes straight through.
func (c *CachingClient) InitiateTransaction(ctx context.Context, params InitiateParams) (Transaction, error) {
	return c.Inner.InitiateTransaction(ctx, params)
}
