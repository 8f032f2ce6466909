package billing

import (
	"context"
	"time"

	"github.com/smartinventory/backend/internal/application/transaction"
	"github.com/smartinventory/backend/internal/domain/billing"
	"github.com/smartinventory/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// NextNumber draws the number for an invoice issued at now. It must run in
// the same unit of work that inserts the invoice: the database sequence
// rolls back with it, so an aborted sale leaves no gap.
func NextNumber(ctx context.Context, repos transaction.Repositories, now time.Time) (string, error) {
	floor, err := issuedToday(ctx, repos.Invoices(), now)
	if err != nil {
		return "", err
	}
	seq, err := repos.InvoiceSequence().Next(ctx, billing.DateKey(now), floor)
	if err != nil {
		return "", err
	}
	return billing.FormatInvoiceNumber(now, seq), nil
}

// PreviewNumber returns the number the next invoice would get, from the
// invoices already stored. No counter value is consumed.
func PreviewNumber(ctx context.Context, invoices billing.InvoiceRepository, now time.Time) (string, error) {
	floor, err := issuedToday(ctx, invoices, now)
	if err != nil {
		return "", err
	}
	return billing.FormatInvoiceNumber(now, floor+1), nil
}

// issuedToday is the greatest sequence already stored for now's day.
func issuedToday(ctx context.Context, invoices billing.InvoiceRepository, now time.Time) (int, error) {
	last, err := invoices.LastNumberWithPrefix(ctx, billing.DayPrefix(now))
	if err != nil || last == "" {
		return 0, err
	}
	seq, err := billing.ParseInvoiceSequence(last)
	if err != nil {
		// A hand-edited row; the counter still guarantees uniqueness.
		logger.L(ctx).Warn("ignoring malformed invoice number", zap.String("invoice_number", last))
		return 0, nil
	}
	return seq, nil
}
