package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when a key does not exist or has expired
var ErrMiss = errors.New("cache miss")

// Cache is the key/value store backing one-time entries such as OAuth2 state
type Cache interface {
	// GetDel reads and removes key in one round trip
	GetDel(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}
