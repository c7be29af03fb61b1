package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"place_insights/internal/adapters/observability"
)

const keyPrefix = "place_insights:"

// Cache stores JSON values under a fixed key prefix.
type Cache struct{ c *redis.Client }

func New(addr, pass string, db int) *Cache {
	return &Cache{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (r *Cache) Ping(ctx context.Context) error {
	return r.c.Ping(ctx).Err()
}

func (r *Cache) Close() error { return r.c.Close() }

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "redis: get %s", key)
	}
	if err := json.Unmarshal(v, dst); err != nil {
		// treat undecodable entries as misses
		observability.ObserveCache("redis", "miss")
		return false, eris.Wrapf(err, "redis: decode %s", key)
	}
	observability.ObserveCache("redis", "hit")
	return true, nil
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "redis: encode %s", key)
	}
	if err := r.c.Set(ctx, keyPrefix+key, b, time.Duration(ttlSec)*time.Second).Err(); err != nil {
		return eris.Wrapf(err, "redis: set %s", key)
	}
	observability.ObserveCache("redis", "set")
	return nil
}

