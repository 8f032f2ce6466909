package billing

import (
	"context"
	"errors"
	"fmt"

	appinventory "github.com/smartinventory/backend/internal/application/inventory"
	"github.com/smartinventory/backend/internal/application/transaction"
	"github.com/smartinventory/backend/internal/domain/billing"
	"github.com/smartinventory/backend/internal/domain/catalog"
	"github.com/smartinventory/backend/internal/domain/inventory"
	"github.com/smartinventory/backend/internal/domain/partner"
	"github.com/smartinventory/backend/internal/domain/shared"
	"github.com/smartinventory/backend/internal/infrastructure/logger"
	"github.com/smartinventory/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// maxNumberAttempts bounds retries when a freshly drawn number collides
// with one already stored. Only the Redis sequence can collide, after its
// key is lost and reseeded while another instance commits; the database
// counter hands out numbers under a row lock and never needs a retry.
const maxNumberAttempts = 3

// InvoiceService issues invoices and reads them back.
type InvoiceService struct {
	scope     transaction.Scope
	invoices  billing.InvoiceRepository
	customers partner.CustomerRepository
	recorder  *appinventory.Recorder
	metrics   Metrics
	clock     shared.Clock
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	scope transaction.Scope,
	invoices billing.InvoiceRepository,
	customers partner.CustomerRepository,
	recorder *appinventory.Recorder,
	metrics Metrics,
	clock shared.Clock,
) *InvoiceService {
	if recorder == nil {
		recorder = appinventory.NewRecorder(nil)
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &InvoiceService{
		scope:     scope,
		invoices:  invoices,
		customers: customers,
		recorder:  recorder,
		metrics:   metrics,
		clock:     clock,
	}
}

// CreateInvoice prices the cart, numbers the invoice, decrements stock and
// writes the ledger and any alerts in one transaction. Every line is
// checked before anything is written; on any failure nothing persists.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (_ *InvoiceResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create",
		telemetry.SpanAttrInvoiceLines.Int(len(req.Items)),
		telemetry.SpanAttrUserID.Int64(req.UserID),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	draft, err := s.draftFrom(ctx, req)
	if err != nil {
		s.metrics.InvoiceRejected(ctx, rejectionReason(err))
		return nil, err
	}

	var inv *billing.Invoice
	for attempt := 1; ; attempt++ {
		inv, err = s.issue(ctx, draft, req.Items)
		if err == nil {
			break
		}
		if !errors.Is(err, billing.ErrInvoiceNumberTaken) || attempt == maxNumberAttempts {
			s.metrics.InvoiceRejected(ctx, rejectionReason(err))
			return nil, err
		}
		logger.L(ctx).Warn("invoice number collision, retrying", zap.Int("attempt", attempt))
	}

	span.SetAttributes(telemetry.SpanAttrInvoiceNumber.String(inv.InvoiceNumber))
	s.metrics.InvoiceCreated(ctx, string(inv.PaymentMethod), inv.TotalAmount, len(inv.Items))
	logger.L(ctx).Info("invoice created",
		zap.Int64("invoice_id", inv.ID),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.Int("lines", len(inv.Items)),
		zap.String("total", inv.TotalAmount.StringFixed(2)),
	)

	stored, err := s.invoices.FindByID(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("reload invoice %d: %w", inv.ID, err)
	}
	resp := ToInvoiceResponse(stored)
	return &resp, nil
}

// draftFrom validates everything that needs no stock lookup.
func (s *InvoiceService) draftFrom(ctx context.Context, req CreateInvoiceRequest) (billing.InvoiceDraft, error) {
	methodName := req.PaymentMethod
	if methodName == "" {
		methodName = defaultPaymentMethod
	}
	method, err := billing.ParsePaymentMethod(methodName)
	if err != nil {
		return billing.InvoiceDraft{}, err
	}
	statusName := req.PaymentStatus
	if statusName == "" {
		statusName = defaultPaymentStatus
	}
	status, err := billing.ParsePaymentStatus(statusName)
	if err != nil {
		return billing.InvoiceDraft{}, err
	}

	if len(req.Items) == 0 {
		return billing.InvoiceDraft{}, billing.ErrEmptyInvoice
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return billing.InvoiceDraft{}, shared.NewValidationError("Quantity must be greater than zero")
		}
	}

	if req.CustomerID != nil {
		if _, err := s.customers.FindByID(ctx, *req.CustomerID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return billing.InvoiceDraft{}, partner.ErrCustomerNotFound
			}
			return billing.InvoiceDraft{}, err
		}
	}

	return billing.InvoiceDraft{
		CustomerID:     req.CustomerID,
		UserID:         req.UserID,
		TaxAmount:      req.TaxAmount,
		DiscountAmount: req.DiscountAmount,
		PaymentMethod:  method,
		PaymentStatus:  status,
		Notes:          req.Notes,
	}, nil
}

// issue runs one attempt of the checkout transaction.
func (s *InvoiceService) issue(ctx context.Context, draft billing.InvoiceDraft, items []InvoiceItemRequest) (*billing.Invoice, error) {
	inv, err := billing.NewInvoice(draft)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		now := s.clock.Now()

		// Lines for the same product draw on one stock figure.
		wanted := make(map[int64]int, len(items))
		for _, item := range items {
			product, err := repos.Products().FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			wanted[product.ID] += item.Quantity
			if err := product.CanFulfil(wanted[product.ID]); err != nil {
				return err
			}
			if err := inv.AddItem(product, item.Quantity); err != nil {
				return err
			}
		}

		number, err := NextNumber(ctx, repos, now)
		if err != nil {
			return err
		}
		if err := inv.Issue(number, now); err != nil {
			return err
		}
		if err := repos.Invoices().Create(ctx, inv); err != nil {
			return err
		}

		for _, item := range inv.Items {
			if _, err := s.recorder.Apply(ctx, repos, now, appinventory.Movement{
				ProductID: item.ProductID,
				Delta:     -item.Quantity,
				Type:      inventory.TransactionTypeSale,
				UserID:    inv.UserID,
				Reference: number,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// GetInvoice returns one invoice with its lines.
func (s *InvoiceService) GetInvoice(ctx context.Context, id int64) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// ListInvoices returns invoices newest first, without lines.
func (s *InvoiceService) ListInvoices(ctx context.Context, filter InvoiceListFilter) (shared.Paginated[InvoiceResponse], error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return shared.Paginated[InvoiceResponse]{}, shared.NewValidationError("End date must not be before start date")
	}
	page := shared.Page{Number: filter.Page, Size: filter.PageSize}
	invoices, total, err := s.invoices.List(ctx, billing.InvoiceFilter{
		From:       filter.From,
		To:         filter.To,
		CustomerID: filter.CustomerID,
		Page:       page,
	})
	if err != nil {
		return shared.Paginated[InvoiceResponse]{}, err
	}
	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceResponse(&invoices[i])
	}
	return shared.NewPaginated(out, total, page), nil
}

// PreviewInvoiceNumber returns the number the next invoice would receive.
func (s *InvoiceService) PreviewInvoiceNumber(ctx context.Context) (*NextNumberResponse, error) {
	number, err := PreviewNumber(ctx, s.invoices, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return &NextNumberResponse{InvoiceNumber: number}, nil
}

func rejectionReason(err error) string {
	var stockErr *catalog.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return "insufficient_stock"
	case errors.Is(err, shared.ErrNotFound):
		return "not_found"
	case errors.Is(err, shared.ErrValidation):
		return "validation"
	case errors.Is(err, shared.ErrConflict):
		return "conflict"
	}
	return "error"
}
