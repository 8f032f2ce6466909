package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartinventory/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one backing service
type HealthCheck func(ctx context.Context) error

// HealthHandler reports process and dependency health
type HealthHandler struct {
	checks map[string]HealthCheck
	order  []string
	now    func() time.Time
}

// NewHealthHandler creates a HealthHandler. The database check is required.
func NewHealthHandler(database HealthCheck) *HealthHandler {
	h := &HealthHandler{checks: make(map[string]HealthCheck), now: time.Now}
	return h.WithCheck("database", database)
}

// WithCheck adds a named dependency check
func (h *HealthHandler) WithCheck(name string, check HealthCheck) *HealthHandler {
	if _, ok := h.checks[name]; !ok {
		h.order = append(h.order, name)
	}
	h.checks[name] = check
	return h
}

// Health handles GET /health. Any failed check answers 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"time": h.now().Format(time.RFC3339)}
	for _, name := range h.order {
		if err := h.checks[name](ctx); err != nil {
			logger.L(ctx).Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			body[name] = "error"
			status = http.StatusServiceUnavailable
			continue
		}
		body[name] = "ok"
	}

	if status == http.StatusOK {
		body["status"] = "healthy"
	} else {
		body["status"] = "unhealthy"
	}
	c.JSON(status, body)
}
