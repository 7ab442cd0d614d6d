package feedcache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Backend is a byte-level key/value store. Get reports a miss with ok=false
// and a nil error.
type Backend interface {
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte) error
	Del(ctx context.Context, key string) error
}

type redisBackend struct {
	rdb *redis.Client
}

func NewRedisBackend(rdb *redis.Client) Backend { return &redisBackend{rdb: rdb} }

func (b *redisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := b.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "redis get %s", key)
	}
	return val, true, nil
}

func (b *redisBackend) Set(ctx context.Context, key string, val []byte) error {
	return errors.Wrapf(b.rdb.Set(ctx, key, val, 0).Err(), "redis set %s", key)
}

func (b *redisBackend) Del(ctx context.Context, key string) error {
	return errors.Wrapf(b.rdb.Del(ctx, key).Err(), "redis del %s", key)
}

type memoryBackend struct {
	cache *lru.Cache[string, []byte]
}

func NewMemoryBackend(size int) (Backend, error) {
	if size <= 0 {
		size = 16
	}
	c, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, errors.Wrap(err, "lru")
	}
	return &memoryBackend{cache: c}, nil
}

func (b *memoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, ok := b.cache.Get(key)
	return val, ok, nil
}

func (b *memoryBackend) Set(_ context.Context, key string, val []byte) error {
	b.cache.Add(key, val)
	return nil
}

func (b *memoryBackend) Del(_ context.Context, key string) error {
	b.cache.Remove(key)
	return nil
}
