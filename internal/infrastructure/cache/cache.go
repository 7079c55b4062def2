// Package cache puts a read-through cache in front of the role catalog.
//
// Two stores are available: an in-process one (go-cache) and Redis. Cache
// failures never fail a request; the decorator logs them and reads through.
package cache

import (
	"context"
	"time"
)

// Store is a byte-level cache. A miss is ok=false with a nil error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
