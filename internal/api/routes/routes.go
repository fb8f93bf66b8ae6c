package routes

import (
	"context"

	"storefront-api/internal/api/handlers"
	"storefront-api/internal/api/middleware"
	"storefront-api/internal/app"
	"storefront-api/internal/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up the API routes by calling resource-specific registration functions.
// apiMiddleware runs on every /api/v1 route.
func RegisterRoutes(router *gin.Engine, app *app.Application, apiMiddleware ...gin.HandlerFunc) {
	apiV1 := router.Group("/api/v1", apiMiddleware...)

	itemHandler := handlers.NewItemHandler(app.ItemService, app.Logger)
	merchantHandler := handlers.NewMerchantHandler(app.MerchantService, app.ItemService, app.Logger)
	couponHandler := handlers.NewCouponHandler(app.CouponService, app.Logger)

	authMiddleware := []gin.HandlerFunc{
		middleware.JWTAuthMiddleware(app.Config.JWT.Secret, app.Logger),
		middleware.RequireMerchant("merchant_id", app.Logger),
	}

	RegisterItemRoutes(apiV1, itemHandler)
	RegisterMerchantRoutes(apiV1, merchantHandler)
	RegisterCouponRoutes(apiV1, couponHandler, authMiddleware...)

	checks := map[string]handlers.HealthCheckFunc{}
	if app.DBPool != nil {
		checks["database"] = app.DBPool.Ping
	}
	if app.RedisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return app.RedisClient.Ping(ctx).Err() }
	}
	router.GET("/health", handlers.NewHealthHandler(checks, app.Logger).HealthCheck)
	router.GET("/metrics", metrics.Handler())

	app.Logger.Debug("Configuring Swagger UI handler")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
