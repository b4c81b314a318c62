package cache

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no entry.
var ErrNotFound = errors.New("cache entry not found")

// Cache stores generated responses keyed by a model+prompt digest. Entries
// are immutable once written; implementations may evict at any time.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key string, value string) error

	Close() error
}
