package db

import (
	"context"

	"github.com/redis/go-redis/v9"

	"milestone-escrow/internal/config/configs"
)

// NewRedisClient connects to Redis and pings it.
// The caller must close the returned client.
func NewRedisClient(ctx context.Context, cfg configs.Redis) (redis.UniversalClient, error) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctxPing, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(ctxPing).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
