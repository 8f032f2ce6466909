package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/smartinventory/backend/internal/bootstrap"
	"github.com/smartinventory/backend/internal/infrastructure/auth"
	"github.com/smartinventory/backend/internal/infrastructure/cache"
	"github.com/smartinventory/backend/internal/infrastructure/config"
	"github.com/smartinventory/backend/internal/infrastructure/logger"
	"github.com/smartinventory/backend/internal/infrastructure/migration"
	"github.com/smartinventory/backend/internal/infrastructure/persistence"
	"github.com/smartinventory/backend/internal/infrastructure/telemetry"
	"github.com/smartinventory/backend/internal/interfaces/http/handler"
	"github.com/smartinventory/backend/internal/interfaces/http/middleware"
	"github.com/smartinventory/backend/internal/interfaces/http/router"
	"github.com/smartinventory/backend/migrations"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Smart Inventory backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("database", cfg.Database.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry. Both providers fall back to no-ops when disabled.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	// Database
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Database.LogLevel), cfg.Database.SlowThreshold)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := prepareSchema(cfg, db, log); err != nil {
		log.Fatal("Failed to prepare database schema", zap.Error(err))
	}

	dbSystem := "postgresql"
	if cfg.Database.Driver == config.DriverSQLite {
		dbSystem = "sqlite"
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:            cfg.Telemetry.Enabled,
		SlowQueryThreshold: cfg.Database.SlowThreshold,
		DBSystem:           dbSystem,
		IncludeVariables:   !cfg.IsProduction(),
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected")

	// Optional Redis: token blacklist, dashboard cache and invoice counters
	opts := bootstrap.Options{
		JWT:          cfg.JWT,
		BcryptCost:   bcrypt.DefaultCost,
		DashboardTTL: cfg.Cache.DashboardTTL,
		Logger:       log,
	}
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		opts.Blacklist = auth.NewRedisTokenBlacklist(redisClient)
		opts.DashboardCache = cache.NewRedisDashboardCache(redisClient)
		if cfg.Invoice.SequenceBackend == config.SequenceBackendRedis {
			opts.InvoiceSequence = cache.NewRedisInvoiceSequence(redisClient)
		}
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()),
			zap.String("invoice_sequence", cfg.Invoice.SequenceBackend))
	} else {
		opts.DashboardCache = cache.NewInMemoryDashboardCache()
	}

	// Business metrics sample stock health from the report queries.
	reports := persistence.NewGormReportRepository(db.DB)
	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:         meter,
		Logger:        log,
		StockProvider: reports,
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}
	businessMetrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
	defer businessMetrics.Stop()
	opts.Metrics = businessMetrics

	// Application services
	services := bootstrap.NewServices(db.DB, opts)
	created, err := services.Auth.BootstrapAdmin(ctx,
		cfg.Auth.BootstrapAdminUsername,
		cfg.Auth.BootstrapAdminEmail,
		cfg.Auth.BootstrapAdminPassword,
	)
	if err != nil {
		log.Fatal("Failed to bootstrap admin account", zap.Error(err))
	}
	if created {
		log.Info("Bootstrap admin created", zap.String("username", cfg.Auth.BootstrapAdminUsername))
	}

	// HTTP handlers
	health := handler.NewHealthHandler(db.PingContext)
	if redisClient != nil {
		health.WithCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(services.Auth),
		Product:   handler.NewProductHandler(services.Products, services.Stock),
		Category:  handler.NewCategoryHandler(services.Categories),
		Customer:  handler.NewCustomerHandler(services.Customers),
		Invoice:   handler.NewInvoiceHandler(services.Invoices),
		Analytics: handler.NewAnalyticsHandler(services.Analytics, services.Stock),
		Health:    health,
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := router.NewEngine(router.EngineConfig{
		Logger:      log,
		CORSOrigins: cfg.HTTP.CORSAllowOrigins,
		MaxBodySize: cfg.HTTP.MaxBodySize,
		HSTS:        cfg.IsProduction(),
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Meter: meter,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	apiConfig := router.APIConfig{
		Validator: services.Tokens,
		Blacklist: services.Blacklist,
		Logger:    log,
	}
	if cfg.HTTP.LoginRatePerMinute > 0 {
		apiConfig.LoginLimiter = middleware.NewRateLimiter(cfg.HTTP.LoginRatePerMinute, cfg.HTTP.LoginBurst)
		log.Info("Login rate limiting enabled",
			zap.Int("per_minute", cfg.HTTP.LoginRatePerMinute),
			zap.Int("burst", cfg.HTTP.LoginBurst),
		)
	}
	router.RegisterAPI(engine, handlers, apiConfig)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown
	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
	case err := <-serveErr:
		if err != nil {
			log.Error("Server failed", zap.Error(err))
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// prepareSchema brings the schema up to date. Postgres runs the embedded
// versioned migrations when auto_migrate is set; sqlite is always
// migrated from the models.
func prepareSchema(cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if cfg.Database.Driver == config.DriverSQLite {
		return db.AutoMigrate()
	}
	if !cfg.Database.AutoMigrate {
		return nil
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared pool.
	return m.Up()
}
