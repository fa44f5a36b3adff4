// AngelaMos | 2026
// cache.go

package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a read-through cache for single-product lookups. Misses and
// Redis failures both fall through to Postgres; a stale entry can only
// live for the TTL because every mutation invalidates.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCache(
	client *redis.Client,
	ttl time.Duration,
	logger *slog.Logger,
) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

func productKey(id string) string {
	return "product:" + id
}

func arrivalKey(id string) string {
	return "new_arrival:" + id
}

func (c *Cache) GetProduct(ctx context.Context, id string) (*Product, bool) {
	return getCached[Product](ctx, c, productKey(id))
}

func (c *Cache) SetProduct(ctx context.Context, p *Product) {
	c.set(ctx, productKey(p.ID), p)
}

func (c *Cache) InvalidateProduct(ctx context.Context, id string) {
	c.del(ctx, productKey(id))
}

func (c *Cache) GetNewArrival(
	ctx context.Context,
	id string,
) (*NewArrival, bool) {
	return getCached[NewArrival](ctx, c, arrivalKey(id))
}

func (c *Cache) SetNewArrival(ctx context.Context, a *NewArrival) {
	c.set(ctx, arrivalKey(a.ID), a)
}

func (c *Cache) InvalidateNewArrival(ctx context.Context, id string) {
	c.del(ctx, arrivalKey(id))
}

func getCached[T any](ctx context.Context, c *Cache, key string) (*T, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		c.del(ctx, key)
		return nil, false
	}

	return &v, true
}

func (c *Cache) set(ctx context.Context, key string, v any) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("cache set failed", "key", key, "error", err)
	}
}

func (c *Cache) del(ctx context.Context, key string) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Debug("cache invalidate failed", "key", key, "error", err)
	}
}
