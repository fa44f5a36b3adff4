// AngelaMos | 2026
// redis.go

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kukusha-yon/carecorner-sub000/internal/config"
)

const (
	redisDialBudget  = 5 * time.Second
	redisPingBudget  = 3 * time.Second
	redisPoolTimeout = 10 * time.Second
	redisIdleTimeout = 4 * time.Minute
)

// Redis owns the one client shared by the rate limiter, the access
// token blacklist, and the catalog cache. Everything on it is advisory;
// callers must keep working when Redis is down.
type Redis struct {
	Client *redis.Client
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.PoolTimeout = redisPoolTimeout
	opts.ConnMaxIdleTime = redisIdleTimeout

	r := &Redis{Client: redis.NewClient(opts)}

	if err := r.ping(ctx, redisDialBudget); err != nil {
		_ = r.Close() //nolint:errcheck // cleanup on connection failure
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	return r, nil
}

// Ping bounds its own deadline so readiness checks stay fast even when
// the caller's context is generous.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.ping(ctx, redisPingBudget); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *Redis) ping(ctx context.Context, budget time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	return r.Client.Ping(pingCtx).Err()
}

func (r *Redis) PoolStats() *redis.PoolStats {
	return r.Client.PoolStats()
}

func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}
