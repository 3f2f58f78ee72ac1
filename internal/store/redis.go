package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Redis{Client: client}
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// RedisBackend keeps each document as one string key.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

func NewRedisBackend(r *Redis, prefix string) *RedisBackend {
	return &RedisBackend{client: r.Client, prefix: prefix}
}

func (b *RedisBackend) Load(ctx context.Context, name string) ([]byte, error) {
	body, err := b.client.Get(ctx, b.prefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotExist
	}
	return body, err
}

func (b *RedisBackend) Save(ctx context.Context, name string, body []byte) error {
	return b.client.Set(ctx, b.prefix+name, body, 0).Err()
}

func (b *RedisBackend) Close() error { return b.client.Close() }
