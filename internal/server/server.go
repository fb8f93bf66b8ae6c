package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront-api/internal/api/middleware"
	"storefront-api/internal/api/openapi"
	"storefront-api/internal/api/routes"
	"storefront-api/internal/app"
	"storefront-api/internal/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	app    *app.Application
}

// NewServer builds the router with CORS, logging, metrics and, when enabled,
// OpenAPI request validation on /api/v1.
func NewServer(app *app.Application) (*Server, error) {
	cfg := app.Config
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(app.Logger), metrics.Middleware())

	app.Logger.Info("Configuring CORS", zap.Strings("origins", cfg.CORS.AllowedOrigins))
	corsConfig := cors.Config{
		AllowOriginFunc: func(origin string) bool {
			for _, allowed := range cfg.CORS.AllowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	_ = router.SetTrustedProxies(nil) // Remove the gin warning about untrusted proxies

	var apiMiddleware []gin.HandlerFunc
	if cfg.Server.OpenAPIValidate {
		doc, err := openapi.Load()
		if err != nil {
			return nil, err
		}
		apiMiddleware = append(apiMiddleware, openapi.RequestValidator(doc, app.Logger))
	}
	routes.RegisterRoutes(router, app, apiMiddleware...)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	return &Server{
		router: router,
		app:    app,
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.app.Logger.Info("Server starting", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.app.Logger.Info("Server shutting down")
	return s.http.Shutdown(ctx)
}
