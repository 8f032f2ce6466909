package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

const defaultCollectInterval = 5 * time.Minute

// StockLevelProvider answers the periodic inventory health queries.
type StockLevelProvider interface {
	CountLowStockProducts(ctx context.Context) (int64, error)
	CountUnresolvedAlerts(ctx context.Context) (int64, error)
}

// BusinessMetrics counts checkouts and stock events and samples inventory
// health on an interval.
type BusinessMetrics struct {
	logger *zap.Logger

	invoiceCreatedTotal  *Counter
	invoiceAmountCents   *Counter
	invoiceRejectedTotal *Counter
	invoiceLines         *Histogram
	stockAlertTotal      *Counter
	stockRejectedTotal   *Counter

	lowStockProducts *Gauge
	unresolvedAlerts *Gauge

	stockProvider StockLevelProvider
	stopChan      chan struct{}
	stopOnce      sync.Once
	collectOnce   sync.Once
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter         metric.Meter
	Logger        *zap.Logger
	StockProvider StockLevelProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		logger:        logger,
		stockProvider: cfg.StockProvider,
		stopChan:      make(chan struct{}),
	}

	counters := []struct {
		dst              **Counter
		name, desc, unit string
	}{
		{&bm.invoiceCreatedTotal, "si_invoice_created_total", "Invoices issued", "{invoices}"},
		{&bm.invoiceAmountCents, "si_invoice_amount_cents_total", "Invoice totals in cents", "{cents}"},
		{&bm.invoiceRejectedTotal, "si_invoice_rejected_total", "Checkouts rejected before an invoice was stored", "{invoices}"},
		{&bm.stockAlertTotal, "si_stock_alert_total", "Stock alerts raised", "{alerts}"},
		{&bm.stockRejectedTotal, "si_stock_rejected_total", "Stock decrements refused for lack of stock", "{requests}"},
	}
	var err error
	for _, c := range counters {
		if *c.dst, err = NewCounter(cfg.Meter, c.name, c.desc, c.unit); err != nil {
			return nil, err
		}
	}

	bm.invoiceLines, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "si_invoice_lines",
		Description: "Line items per invoice",
		Unit:        "{lines}",
		Boundaries:  InvoiceLineBuckets,
	})
	if err != nil {
		return nil, err
	}

	if bm.lowStockProducts, err = NewGauge(cfg.Meter, "si_inventory_low_stock_products", "Active products at or below their minimum level", "{products}"); err != nil {
		return nil, err
	}
	if bm.unresolvedAlerts, err = NewGauge(cfg.Meter, "si_inventory_unresolved_alerts", "Stock alerts not yet resolved", "{alerts}"); err != nil {
		return nil, err
	}
	return bm, nil
}

// InvoiceCreated records one issued invoice.
func (bm *BusinessMetrics) InvoiceCreated(ctx context.Context, paymentMethod string, total decimal.Decimal, lines int) {
	method := AttrPaymentMethod.String(paymentMethod)
	bm.invoiceCreatedTotal.Inc(ctx, method)
	bm.invoiceAmountCents.Add(ctx, total.Shift(2).IntPart(), method)
	bm.invoiceLines.Record(ctx, float64(lines))
}

// InvoiceRejected records a checkout that failed with reason.
func (bm *BusinessMetrics) InvoiceRejected(ctx context.Context, reason string) {
	bm.invoiceRejectedTotal.Inc(ctx, AttrReason.String(reason))
}

// AlertRaised records a new stock alert.
func (bm *BusinessMetrics) AlertRaised(ctx context.Context, alertType string) {
	bm.stockAlertTotal.Inc(ctx, AttrAlertType.String(alertType))
}

// StockRejected records a decrement refused for lack of stock.
func (bm *BusinessMetrics) StockRejected(ctx context.Context, operation string) {
	bm.stockRejectedTotal.Inc(ctx, AttrOperation.String(operation))
}

// StartPeriodicCollection samples the inventory gauges every interval until
// Stop is called or ctx ends. It is non-blocking and runs at most once.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if bm.stockProvider == nil {
		return
	}
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = defaultCollectInterval
		}
		go bm.runPeriodicCollection(ctx, interval)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collect(ctx)
	for {
		select {
		case <-bm.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.collect(ctx)
		}
	}
}

func (bm *BusinessMetrics) collect(ctx context.Context) {
	if low, err := bm.stockProvider.CountLowStockProducts(ctx); err != nil {
		bm.logger.Warn("Failed to count low stock products", zap.Error(err))
	} else {
		bm.lowStockProducts.Record(ctx, low)
	}

	if open, err := bm.stockProvider.CountUnresolvedAlerts(ctx); err != nil {
		bm.logger.Warn("Failed to count unresolved alerts", zap.Error(err))
	} else {
		bm.unresolvedAlerts.Record(ctx, open)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
