package persist

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// RedisStorage keeps state in redis strings under a prefix, so several
// terminals can share one profile.
type RedisStorage struct {
	c       *redis.Client
	prefix  string
	timeout time.Duration
}

func NewRedisStorage(c *redis.Client, prefix string) *RedisStorage {
	return &RedisStorage{c: c, prefix: prefix, timeout: 2 * time.Second}
}

func (r *RedisStorage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

func (r *RedisStorage) Get(key string) (string, bool, error) {
	ctx, cancel := r.ctx()
	defer cancel()
	v, err := r.c.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrapf(err, "redis get %s", key)
	}
	return v, true, nil
}

func (r *RedisStorage) Set(key, value string) error {
	ctx, cancel := r.ctx()
	defer cancel()
	return eris.Wrapf(r.c.Set(ctx, r.prefix+key, value, 0).Err(), "redis set %s", key)
}

func (r *RedisStorage) Remove(key string) error {
	ctx, cancel := r.ctx()
	defer cancel()
	return eris.Wrapf(r.c.Del(ctx, r.prefix+key).Err(), "redis del %s", key)
}
