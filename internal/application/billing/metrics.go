package billing

import (
	"context"

	"github.com/shopspring/decimal"
)

// Metrics receives checkout outcomes.
type Metrics interface {
	InvoiceCreated(ctx context.Context, paymentMethod string, total decimal.Decimal, lines int)
	InvoiceRejected(ctx context.Context, reason string)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) InvoiceCreated(context.Context, string, decimal.Decimal, int) {}
func (NoopMetrics) InvoiceRejected(context.Context, string)                      {}
