package database

import (
	"context"
	"fmt"
	"time"

	"storefront-api/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient creates and returns a new Redis client based on the provided configuration.
// It returns nil, nil when no address is configured.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	if cfg.Addr == "" {
		logger.Info("Redis address not configured, skipping")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}
	logger.Info("Connected to Redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return rdb, nil
}
