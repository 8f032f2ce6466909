package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyRange(t *testing.T) {
	now := time.Date(2026, 10, 14, 15, 4, 0, 0, time.UTC)
	from, to := DailyRange(now, 7)

	assert.Equal(t, time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), to)
}

func TestMonthlyRange(t *testing.T) {
	now := time.Date(2026, 1, 31, 15, 0, 0, 0, time.UTC)
	from, to := MonthlyRange(now, 3)

	assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestBucketDaily(t *testing.T) {
	now := time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC)
	from, to := DailyRange(now, 3)
	points := []SalePoint{
		{InvoiceDate: time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC), TotalAmount: decimal.RequireFromString("10.00")},
		{InvoiceDate: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC), TotalAmount: decimal.RequireFromString("5.00")},
		{InvoiceDate: time.Date(2026, 10, 14, 11, 0, 0, 0, time.UTC), TotalAmount: decimal.RequireFromString("2.50")},
		// outside the window
		{InvoiceDate: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC), TotalAmount: decimal.RequireFromString("99")},
	}

	periods := BucketDaily(points, from, to)
	require.Len(t, periods, 3)

	assert.Equal(t, "2026-10-12", periods[0].Period)
	assert.Equal(t, int64(1), periods[0].TotalInvoices)

	assert.Equal(t, "2026-10-13", periods[1].Period)
	assert.Equal(t, int64(0), periods[1].TotalInvoices)
	assert.True(t, periods[1].TotalSales.IsZero())

	assert.Equal(t, "2026-10-14", periods[2].Period)
	assert.Equal(t, int64(2), periods[2].TotalInvoices)
	assert.Equal(t, "7.5", periods[2].TotalSales.String())
	assert.Equal(t, "3.75", periods[2].AverageSale.String())
}

func TestBucketMonthly(t *testing.T) {
	now := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	from, to := MonthlyRange(now, 2)
	points := []SalePoint{
		{InvoiceDate: time.Date(2026, 9, 30, 23, 0, 0, 0, time.UTC), TotalAmount: decimal.NewFromInt(3)},
		{InvoiceDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), TotalAmount: decimal.NewFromInt(4)},
	}

	periods := BucketMonthly(points, from, to)
	require.Len(t, periods, 2)
	assert.Equal(t, "2026-09", periods[0].Period)
	assert.Equal(t, "3", periods[0].TotalSales.String())
	assert.Equal(t, "2026-10", periods[1].Period)
	assert.Equal(t, "4", periods[1].TotalSales.String())
}
