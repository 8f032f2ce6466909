package inventory

import "context"

// Metrics receives stock events worth counting.
type Metrics interface {
	AlertRaised(ctx context.Context, alertType string)
	StockRejected(ctx context.Context, operation string)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) AlertRaised(context.Context, string)   {}
func (NoopMetrics) StockRejected(context.Context, string) {}
