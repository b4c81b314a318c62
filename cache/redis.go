package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "agents:response:"

type redisCache struct {
	rdb        redis.UniversalClient
	expiration time.Duration
}

// NewRedis creates a cache backed by the given redis client. Entries expire
// server-side after the given TTL.
func NewRedis(rdb redis.UniversalClient, expiration time.Duration) *redisCache {
	return &redisCache{
		rdb:        rdb,
		expiration: expiration,
	}
}

var _ Cache = (*redisCache)(nil)

func (rc *redisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := rc.rdb.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("getting cache entry: %w", err)
	}

	return v, nil
}

func (rc *redisCache) Set(ctx context.Context, key string, value string) error {
	if err := rc.rdb.Set(ctx, keyPrefix+key, value, rc.expiration).Err(); err != nil {
		return fmt.Errorf("setting cache entry: %w", err)
	}

	return nil
}

func (rc *redisCache) Close() error {
	return rc.rdb.Close()
}
