package telemetry_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartinventory/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newRecordingMetrics(t *testing.T, provider telemetry.StockLevelProvider) (*telemetry.BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:         mp.Meter("test"),
		Logger:        zap.NewNop(),
		StockProvider: provider,
	})
	require.NoError(t, err)
	return bm, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumByAttr(t *testing.T, m metricdata.Metrics, key attribute.Key) map[string]int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	out := map[string]int64{}
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(key)
		out[v.AsString()] += dp.Value
	}
	return out
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{})
	require.Error(t, err)
	assert.Nil(t, bm)
	assert.Equal(t, "NewBusinessMetrics: meter cannot be nil", err.Error())
}

func TestBusinessMetrics_Noop(t *testing.T) {
	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter: noop.NewMeterProvider().Meter("test"),
	})
	require.NoError(t, err)

	ctx := context.Background()
	bm.InvoiceCreated(ctx, "Cash", decimal.NewFromInt(5), 1)
	bm.InvoiceRejected(ctx, "validation")
	bm.AlertRaised(ctx, "LowStock")
	bm.StockRejected(ctx, "Sale")
}

func TestBusinessMetrics_Invoices(t *testing.T) {
	ctx := context.Background()
	bm, reader := newRecordingMetrics(t, nil)

	bm.InvoiceCreated(ctx, "Cash", decimal.RequireFromString("24.50"), 2)
	bm.InvoiceCreated(ctx, "Card", decimal.RequireFromString("10.005"), 1)
	bm.InvoiceCreated(ctx, "Cash", decimal.RequireFromString("1.25"), 4)
	bm.InvoiceRejected(ctx, "insufficient_stock")

	metrics := collect(t, reader)
	assert.Equal(t, map[string]int64{"Cash": 2, "Card": 1},
		sumByAttr(t, metrics["si_invoice_created_total"], telemetry.AttrPaymentMethod))
	assert.Equal(t, map[string]int64{"Cash": 2575, "Card": 1000},
		sumByAttr(t, metrics["si_invoice_amount_cents_total"], telemetry.AttrPaymentMethod))
	assert.Equal(t, map[string]int64{"insufficient_stock": 1},
		sumByAttr(t, metrics["si_invoice_rejected_total"], telemetry.AttrReason))

	lines, ok := metrics["si_invoice_lines"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, lines.DataPoints, 1)
	assert.Equal(t, uint64(3), lines.DataPoints[0].Count)
	assert.Equal(t, float64(7), lines.DataPoints[0].Sum)
}

func TestBusinessMetrics_Stock(t *testing.T) {
	ctx := context.Background()
	bm, reader := newRecordingMetrics(t, nil)

	bm.AlertRaised(ctx, "LowStock")
	bm.AlertRaised(ctx, "OutOfStock")
	bm.AlertRaised(ctx, "LowStock")
	bm.StockRejected(ctx, "Sale")

	metrics := collect(t, reader)
	assert.Equal(t, map[string]int64{"LowStock": 2, "OutOfStock": 1},
		sumByAttr(t, metrics["si_stock_alert_total"], telemetry.AttrAlertType))
	assert.Equal(t, map[string]int64{"Sale": 1},
		sumByAttr(t, metrics["si_stock_rejected_total"], telemetry.AttrOperation))
}

type stubStockLevels struct {
	calls atomic.Int32
	err   error
}

func (s *stubStockLevels) CountLowStockProducts(context.Context) (int64, error) {
	s.calls.Add(1)
	return 4, s.err
}

func (s *stubStockLevels) CountUnresolvedAlerts(context.Context) (int64, error) {
	return 7, s.err
}

func TestBusinessMetrics_PeriodicCollection(t *testing.T) {
	provider := &stubStockLevels{}
	bm, reader := newRecordingMetrics(t, provider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bm.StartPeriodicCollection(ctx, 10*time.Millisecond)
	bm.StartPeriodicCollection(ctx, 10*time.Millisecond)

	require.Eventually(t, func() bool { return provider.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	bm.Stop()
	bm.Stop()

	metrics := collect(t, reader)
	low, ok := metrics["si_inventory_low_stock_products"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, low.DataPoints, 1)
	assert.Equal(t, int64(4), low.DataPoints[0].Value)

	open, ok := metrics["si_inventory_unresolved_alerts"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Equal(t, int64(7), open.DataPoints[0].Value)
}

func TestBusinessMetrics_CollectionErrorsAreLogged(t *testing.T) {
	provider := &stubStockLevels{err: errors.New("db down")}
	bm, reader := newRecordingMetrics(t, provider)

	ctx, cancel := context.WithCancel(context.Background())
	bm.StartPeriodicCollection(ctx, time.Hour)
	require.Eventually(t, func() bool { return provider.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	cancel()

	bm.Stop()

	if m, ok := collect(t, reader)["si_inventory_low_stock_products"]; ok {
		gauge, isGauge := m.Data.(metricdata.Gauge[int64])
		require.True(t, isGauge)
		assert.Empty(t, gauge.DataPoints)
	}
}
