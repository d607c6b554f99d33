package cache

import (
	"context"
	"time"
)

type Cache interface {
	Set(ctx context.Context, key string, value interface{}) error
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error

	SetString(ctx context.Context, key string, value string) error
	GetString(ctx context.Context, key string) (string, error)

	Keys() *KeyBuilder
	HealthCheck(ctx context.Context) error
	Close() error
}

type RateLimiter interface {
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// NullCache is used when Redis is unavailable: writes are dropped and every
// read is a miss.
type NullCache struct {
	keys *KeyBuilder
}

func NewNullCache() *NullCache {
	return &NullCache{keys: NewKeyBuilder("")}
}

func (n *NullCache) Set(ctx context.Context, key string, value interface{}) error {
	return nil
}

func (n *NullCache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (n *NullCache) Get(ctx context.Context, key string, dest interface{}) error {
	return ErrCacheMiss
}

func (n *NullCache) Delete(ctx context.Context, keys ...string) error {
	return nil
}

func (n *NullCache) SetString(ctx context.Context, key string, value string) error {
	return nil
}

func (n *NullCache) GetString(ctx context.Context, key string) (string, error) {
	return "", ErrCacheMiss
}

func (n *NullCache) Keys() *KeyBuilder {
	return n.keys
}

func (n *NullCache) HealthCheck(ctx context.Context) error {
	return nil
}

func (n *NullCache) Close() error {
	return nil
}
