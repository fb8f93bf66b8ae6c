package app

import (
	"context"
	"fmt"

	"storefront-api/config"
	"storefront-api/internal/database"
	"storefront-api/internal/services"
	"storefront-api/internal/storage"
	"storefront-api/internal/storage/memory"
	"storefront-api/internal/storage/postgres"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Application holds core application dependencies.
type Application struct {
	Config      *config.Config
	Logger      *zap.Logger
	Validator   *validator.Validate
	DBPool      *pgxpool.Pool // nil with the memory driver
	RedisClient *redis.Client // nil when redis is not configured
	Store       storage.Store

	MerchantService services.MerchantService
	ItemService     services.ItemService
	CouponService   services.CouponService
}

// New connects the configured backing services and wires the service layer.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Application, error) {
	a := &Application{
		Config:    cfg,
		Logger:    logger,
		Validator: services.NewValidator(),
	}

	switch cfg.DB.Driver {
	case config.DriverMemory:
		logger.Warn("Using in-memory storage; data is lost on shutdown")
		a.Store = memory.NewStore()
	default:
		pool, err := database.NewConnectionPool(ctx, cfg.DB, logger)
		if err != nil {
			return nil, err
		}
		a.DBPool = pool
		if cfg.DB.AutoMigrate {
			if err := database.Migrate(ctx, pool, logger); err != nil {
				a.Close()
				return nil, err
			}
		}
		a.Store = postgres.NewStore(pool, logger)
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}
	a.RedisClient = redisClient

	a.wireServices()
	return a, nil
}

// NewWithStore builds an Application around an existing store, without
// connecting anything.
func NewWithStore(cfg *config.Config, logger *zap.Logger, store storage.Store) *Application {
	a := &Application{
		Config:    cfg,
		Logger:    logger,
		Validator: services.NewValidator(),
		Store:     store,
	}
	a.wireServices()
	return a
}

func (a *Application) wireServices() {
	a.MerchantService = services.NewMerchantService(a.Store, a.Validator, a.Logger)
	a.ItemService = services.NewItemService(a.Store, a.Validator, a.Logger)
	a.CouponService = services.NewCouponService(a.Store, a.Validator, a.Logger)
}

// Close releases the database pool and redis client.
func (a *Application) Close() {
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if a.DBPool != nil {
		a.DBPool.Close()
	}
}
