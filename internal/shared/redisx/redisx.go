package redisx

import (
	"context"
	"time"

	"github.com/fp-foodie-finder/server/configs"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

func Open(ctx context.Context, cfg *configs.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPass,
		DB:       0,
	})
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "redis ping %s", cfg.RedisAddr())
	}
	return rdb, nil
}
