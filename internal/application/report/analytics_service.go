package report

import (
	"context"
	"time"

	"github.com/smartinventory/backend/internal/domain/report"
	"github.com/smartinventory/backend/internal/domain/shared"
	"github.com/smartinventory/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AnalyticsService answers the dashboard and sales report queries
type AnalyticsService struct {
	repo     report.Repository
	cache    report.DashboardCache
	cacheTTL time.Duration
	clock    shared.Clock
}

// AnalyticsOption configures an AnalyticsService
type AnalyticsOption func(*AnalyticsService)

// WithDashboardCache serves the dashboard from cache for ttl
func WithDashboardCache(cache report.DashboardCache, ttl time.Duration) AnalyticsOption {
	return func(s *AnalyticsService) {
		if ttl > 0 {
			s.cache = cache
			s.cacheTTL = ttl
		}
	}
}

// WithClock overrides the wall clock
func WithClock(clock shared.Clock) AnalyticsOption {
	return func(s *AnalyticsService) {
		s.clock = clock
	}
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(repo report.Repository, opts ...AnalyticsOption) *AnalyticsService {
	s := &AnalyticsService{repo: repo, clock: shared.SystemClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dashboard returns today's and this month's sales with the catalog counters.
// Cache failures fall through to the database.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			logger.L(ctx).Warn("dashboard cache read failed", zap.Error(err))
		} else if cached != nil {
			resp := toDashboardResponse(*cached)
			return &resp, nil
		}
	}

	stats, err := s.computeDashboard(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, stats, s.cacheTTL); err != nil {
			logger.L(ctx).Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	resp := toDashboardResponse(stats)
	return &resp, nil
}

func (s *AnalyticsService) computeDashboard(ctx context.Context) (report.DashboardStats, error) {
	var stats report.DashboardStats
	now := s.clock.Now()

	today := report.StartOfDay(now)
	var err error
	stats.TodaySales, stats.TodayInvoices, err = s.repo.SalesTotal(ctx, today, today.AddDate(0, 0, 1))
	if err != nil {
		return stats, err
	}
	month := report.StartOfMonth(now)
	if stats.MonthSales, _, err = s.repo.SalesTotal(ctx, month, month.AddDate(0, 1, 0)); err != nil {
		return stats, err
	}

	counters := []struct {
		dst   *int64
		count func(context.Context) (int64, error)
	}{
		{&stats.LowStockCount, s.repo.CountLowStockProducts},
		{&stats.TotalProducts, s.repo.CountActiveProducts},
		{&stats.TotalCustomers, s.repo.CountCustomers},
		{&stats.ActiveAlerts, s.repo.CountUnresolvedAlerts},
	}
	for _, c := range counters {
		if *c.dst, err = c.count(ctx); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// DailySales returns one period per UTC day for the last days days, oldest
// first. Zero or negative days means the default window.
func (s *AnalyticsService) DailySales(ctx context.Context, days int) ([]SalesPeriodResponse, error) {
	days, err := window(days, DefaultSalesDays, maxSalesDays, "Days")
	if err != nil {
		return nil, err
	}
	from, to := report.DailyRange(s.clock.Now(), days)
	points, err := s.repo.SalePoints(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return toSalesPeriodResponses(report.BucketDaily(points, from, to)), nil
}

// MonthlySales returns one period per UTC month for the last months months.
func (s *AnalyticsService) MonthlySales(ctx context.Context, months int) ([]SalesPeriodResponse, error) {
	months, err := window(months, DefaultSalesMonths, maxSalesMonths, "Months")
	if err != nil {
		return nil, err
	}
	from, to := report.MonthlyRange(s.clock.Now(), months)
	points, err := s.repo.SalePoints(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return toSalesPeriodResponses(report.BucketMonthly(points, from, to)), nil
}

// TopProducts ranks products by revenue over the last days days
func (s *AnalyticsService) TopProducts(ctx context.Context, days int) ([]TopProductResponse, error) {
	days, err := window(days, DefaultTopProductDays, maxSalesDays, "Days")
	if err != nil {
		return nil, err
	}
	since, _ := report.DailyRange(s.clock.Now(), days)
	products, err := s.repo.TopProducts(ctx, since, TopProductLimit)
	if err != nil {
		return nil, err
	}
	out := make([]TopProductResponse, len(products))
	for i, p := range products {
		out[i] = TopProductResponse{
			ProductID:    p.ProductID,
			ProductName:  p.ProductName,
			ProductCode:  p.ProductCode,
			QuantitySold: p.QuantitySold,
			Revenue:      p.Revenue,
		}
	}
	return out, nil
}

func window(n, def, max int, field string) (int, error) {
	if n <= 0 {
		return def, nil
	}
	if n > max {
		return 0, shared.NewValidationError(field + " is out of range")
	}
	return n, nil
}
