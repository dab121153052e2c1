package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var (
	rdb *redis.Client
	ctx = context.Background()
)

// InitRedis initializes the Redis client used for AI-call accounting.
func InitRedis(addr, password string, db int) error {
	opt := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}

	rdb = redis.NewClient(opt)

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

// GetRedisClient returns the shared client, nil when Redis is unavailable.
func GetRedisClient() *redis.Client {
	return rdb
}

// GetContext returns the shared background context.
func GetContext() context.Context {
	return ctx
}
