package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisCache returns a Cache implemented with Redis
func NewRedisCache(opts RedisOptions) Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &RedisCache{client: rdb}
}

func (r *RedisCache) GetDel(ctx context.Context, key string) (string, error) {
	return translate(r.client.GetDel(ctx, key).Result())
}

func (r *RedisCache) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, value, ttl).Result()
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func translate(val string, err error) (string, error) {
	if errors.Is(err, redis.Nil) {
		return "", ErrMiss
	}
	return val, err
}
