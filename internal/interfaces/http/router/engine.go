package router

import (
	"github.com/gin-gonic/gin"
	"github.com/smartinventory/backend/internal/infrastructure/logger"
	"github.com/smartinventory/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig configures the global middleware chain
type EngineConfig struct {
	Logger      *zap.Logger
	CORSOrigins []string
	MaxBodySize int64
	HSTS        bool
	Tracing     middleware.TracingConfig
	// Meter records HTTP server metrics. Nil disables them.
	Meter metric.Meter
}

// NewEngine builds a gin engine with the global middleware in order:
// request id, access log, panic recovery, security headers, CORS, body
// limit, tracing and metrics.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	httpMetrics, err := middleware.HTTPMetrics(cfg.Meter)
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.SecureHeaders(cfg.HSTS),
		middleware.CORS(cfg.CORSOrigins),
	)
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	engine.Use(
		middleware.Tracing(cfg.Tracing),
		httpMetrics,
	)
	return engine, nil
}
