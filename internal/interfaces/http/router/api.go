package router

import (
	"github.com/gin-gonic/gin"
	"github.com/smartinventory/backend/internal/infrastructure/auth"
	"github.com/smartinventory/backend/internal/interfaces/http/handler"
	"github.com/smartinventory/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

const apiVersion = "v1"

// Handlers groups the HTTP handlers of the API
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Category  *handler.CategoryHandler
	Customer  *handler.CustomerHandler
	Invoice   *handler.InvoiceHandler
	Analytics *handler.AnalyticsHandler
	Health    *handler.HealthHandler
}

// APIConfig holds what the versioned routes need besides handlers
type APIConfig struct {
	Validator middleware.TokenValidator
	Blacklist auth.TokenBlacklist
	// LoginLimiter throttles POST /auth/login per client IP. Nil disables it.
	LoginLimiter *middleware.RateLimiter
	Logger       *zap.Logger
}

// RegisterAPI mounts /health and every /api/v1 route on engine. All
// versioned routes except login require a bearer token.
func RegisterAPI(engine *gin.Engine, h Handlers, cfg APIConfig) *Router {
	if h.Health != nil {
		engine.GET("/health", h.Health.Health)
	}

	jwtConfig := middleware.JWTMiddlewareConfig{
		Validator:      cfg.Validator,
		TokenBlacklist: cfg.Blacklist,
		SkipPaths:      []string{"/api/" + apiVersion + "/auth/login"},
		Logger:         cfg.Logger,
	}
	r := NewRouter(engine,
		WithAPIVersion(apiVersion),
		WithMiddleware(middleware.SpanEnricher(), middleware.JWTAuthMiddlewareWithConfig(jwtConfig)),
	)

	admin := middleware.RequireAdmin()

	login := []gin.HandlerFunc{h.Auth.Login}
	if cfg.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{middleware.RateLimit(cfg.LoginLimiter)}, login...)
	}
	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", login...).
		POST("/register", admin, h.Auth.Register).
		GET("/me", h.Auth.Me).
		POST("/logout", h.Auth.Logout)

	productRoutes := NewDomainGroup("products", "/products")
	productRoutes.GET("", h.Product.List).
		POST("", admin, h.Product.Create).
		POST("/adjust-stock", admin, h.Product.AdjustStock).
		GET("/:id", h.Product.GetByID).
		PUT("/:id", admin, h.Product.Update).
		DELETE("/:id", admin, h.Product.Delete).
		GET("/:id/transactions", h.Product.Transactions)

	categoryRoutes := NewDomainGroup("categories", "/categories")
	categoryRoutes.GET("", h.Category.List).
		POST("", admin, h.Category.Create).
		PUT("/:id", admin, h.Category.Update).
		DELETE("/:id", admin, h.Category.Delete)

	customerRoutes := NewDomainGroup("customers", "/customers")
	customerRoutes.GET("", h.Customer.List).
		POST("", h.Customer.Create).
		GET("/:id", h.Customer.GetByID).
		PUT("/:id", h.Customer.Update).
		DELETE("/:id", admin, h.Customer.Delete)

	invoiceRoutes := NewDomainGroup("invoices", "/invoices")
	invoiceRoutes.GET("", h.Invoice.List).
		POST("", h.Invoice.Create).
		GET("/next-number", h.Invoice.NextNumber).
		GET("/:id", h.Invoice.GetByID)

	analyticsRoutes := NewDomainGroup("analytics", "/analytics")
	analyticsRoutes.GET("/dashboard", h.Analytics.Dashboard).
		GET("/daily-sales", h.Analytics.DailySales).
		GET("/monthly-sales", h.Analytics.MonthlySales).
		GET("/top-products", h.Analytics.TopProducts).
		GET("/stock-alerts", h.Analytics.StockAlerts).
		POST("/stock-alerts/:id/resolve", h.Analytics.ResolveAlert)

	r.Register(authRoutes).
		Register(productRoutes).
		Register(categoryRoutes).
		Register(customerRoutes).
		Register(invoiceRoutes).
		Register(analyticsRoutes)
	r.Setup()
	return r
}
