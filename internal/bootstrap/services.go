// Package bootstrap wires repositories and application services over one
// database handle. The server and the HTTP tests share it.
package bootstrap

import (
	"time"

	billingapp "github.com/smartinventory/backend/internal/application/billing"
	catalogapp "github.com/smartinventory/backend/internal/application/catalog"
	identityapp "github.com/smartinventory/backend/internal/application/identity"
	inventoryapp "github.com/smartinventory/backend/internal/application/inventory"
	partnerapp "github.com/smartinventory/backend/internal/application/partner"
	reportapp "github.com/smartinventory/backend/internal/application/report"
	"github.com/smartinventory/backend/internal/domain/billing"
	"github.com/smartinventory/backend/internal/domain/report"
	"github.com/smartinventory/backend/internal/domain/shared"
	"github.com/smartinventory/backend/internal/infrastructure/auth"
	"github.com/smartinventory/backend/internal/infrastructure/config"
	"github.com/smartinventory/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Metrics receives checkout and stock events
type Metrics interface {
	billingapp.Metrics
	inventoryapp.Metrics
}

// Options selects the pluggable backends. Zero values pick the database
// sequence, the in-process blacklist, no dashboard cache and no metrics.
type Options struct {
	JWT             config.JWTConfig
	BcryptCost      int
	InvoiceSequence billing.InvoiceSequence
	Blacklist       auth.TokenBlacklist
	DashboardCache  report.DashboardCache
	DashboardTTL    time.Duration
	Metrics         Metrics
	Clock           shared.Clock
	Logger          *zap.Logger
}

// Services holds every application service
type Services struct {
	Auth       *identityapp.AuthService
	Products   *catalogapp.ProductService
	Categories *catalogapp.CategoryService
	Customers  *partnerapp.CustomerService
	Invoices   *billingapp.InvoiceService
	Stock      *inventoryapp.StockService
	Analytics  *reportapp.AnalyticsService

	Tokens    *auth.JWTService
	Blacklist auth.TokenBlacklist
	Reports   *persistence.GormReportRepository
}

// NewServices builds the services over db
func NewServices(db *gorm.DB, opts Options) *Services {
	if opts.Clock == nil {
		opts.Clock = shared.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Blacklist == nil {
		opts.Blacklist = auth.NewInMemoryTokenBlacklist()
	}

	var scopeOpts []persistence.ScopeOption
	if opts.InvoiceSequence != nil {
		scopeOpts = append(scopeOpts, persistence.WithInvoiceSequence(opts.InvoiceSequence))
	}
	scope := persistence.NewGormTransactionScope(db, scopeOpts...)

	products := persistence.NewGormProductRepository(db)
	categories := persistence.NewGormCategoryRepository(db)
	customers := persistence.NewGormCustomerRepository(db)
	invoices := persistence.NewGormInvoiceRepository(db)
	reports := persistence.NewGormReportRepository(db)

	var (
		billingMetrics   billingapp.Metrics   = billingapp.NoopMetrics{}
		inventoryMetrics inventoryapp.Metrics = inventoryapp.NoopMetrics{}
	)
	if opts.Metrics != nil {
		billingMetrics = opts.Metrics
		inventoryMetrics = opts.Metrics
	}
	recorder := inventoryapp.NewRecorder(inventoryMetrics)

	tokens := auth.NewJWTService(opts.JWT)
	analyticsOpts := []reportapp.AnalyticsOption{reportapp.WithClock(opts.Clock)}
	if opts.DashboardCache != nil {
		analyticsOpts = append(analyticsOpts, reportapp.WithDashboardCache(opts.DashboardCache, opts.DashboardTTL))
	}

	return &Services{
		Auth: identityapp.NewAuthService(
			persistence.NewGormUserRepository(db),
			auth.NewBcryptHasher(opts.BcryptCost),
			tokens,
			opts.Blacklist,
			opts.Clock,
			opts.Logger,
		),
		Products:   catalogapp.NewProductService(scope, products, categories, recorder, opts.Clock),
		Categories: catalogapp.NewCategoryService(categories, products, opts.Clock),
		Customers:  partnerapp.NewCustomerService(customers, invoices, opts.Clock),
		Invoices:   billingapp.NewInvoiceService(scope, invoices, customers, recorder, billingMetrics, opts.Clock),
		Stock: inventoryapp.NewStockService(
			scope,
			products,
			persistence.NewGormStockAlertRepository(db),
			persistence.NewGormStockTransactionRepository(db),
			recorder,
			opts.Clock,
		),
		Analytics: reportapp.NewAnalyticsService(reports, analyticsOpts...),

		Tokens:    tokens,
		Blacklist: opts.Blacklist,
		Reports:   reports,
	}
}
