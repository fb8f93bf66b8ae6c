package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheckFunc probes one dependency.
type HealthCheckFunc func(ctx context.Context) error

// HealthHandler reports liveness and the state of backing services.
type HealthHandler struct {
	checks  map[string]HealthCheckFunc
	timeout time.Duration
	logger  *zap.Logger
}

// NewHealthHandler creates a HealthHandler. Nil checks are skipped.
func NewHealthHandler(checks map[string]HealthCheckFunc, logger *zap.Logger) *HealthHandler {
	active := make(map[string]HealthCheckFunc, len(checks))
	for name, check := range checks {
		if check != nil {
			active[name] = check
		}
	}
	return &HealthHandler{checks: active, timeout: 2 * time.Second, logger: logger}
}

// HealthCheck handles the health check endpoint
//
//	@Summary		Health check
//	@Description	Check if the service and its dependencies are up
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}	"API is healthy"
//	@Failure		503	{object}	map[string]interface{}	"A dependency is unavailable"
//	@Router			/health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	deps := gin.H{}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			deps[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	body := gin.H{"status": "ok", "dependencies": deps}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}
