package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when a key is absent or has expired.
var ErrMiss = errors.New("cache: key not found")

// Cache is a TTL-capable string store. Session tokens are the only values
// the system keeps here, always under an expiry.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
