package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type memoryCache struct {
	c *ttlcache.Cache[string, string]
}

// NewMemory creates an in-process cache with the given capacity and TTL.
func NewMemory(size int, expiration time.Duration) *memoryCache {
	c := ttlcache.New(
		ttlcache.WithCapacity[string, string](uint64(size)),
		ttlcache.WithTTL[string, string](expiration),
	)

	go c.Start()

	return &memoryCache{c: c}
}

var _ Cache = (*memoryCache)(nil)

func (mc *memoryCache) Get(ctx context.Context, key string) (string, error) {
	item := mc.c.Get(key)
	if item == nil {
		return "", ErrNotFound
	}

	return item.Value(), nil
}

func (mc *memoryCache) Set(ctx context.Context, key string, value string) error {
	mc.c.Set(key, value, ttlcache.DefaultTTL)
	return nil
}

func (mc *memoryCache) Close() error {
	mc.c.Stop()
	return nil
}
