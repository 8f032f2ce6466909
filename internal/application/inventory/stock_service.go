package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartinventory/backend/internal/application/transaction"
	"github.com/smartinventory/backend/internal/domain/catalog"
	"github.com/smartinventory/backend/internal/domain/inventory"
	"github.com/smartinventory/backend/internal/domain/shared"
	"github.com/smartinventory/backend/internal/infrastructure/logger"
	"github.com/smartinventory/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

var errProductNotFound = shared.NewNotFoundError("Product not found")

// StockService handles manual stock adjustments, alerts and the ledger.
type StockService struct {
	scope           transaction.Scope
	productRepo     catalog.ProductRepository
	alertRepo       inventory.StockAlertRepository
	transactionRepo inventory.StockTransactionRepository
	recorder        *Recorder
	clock           shared.Clock
}

// NewStockService creates a new StockService
func NewStockService(
	scope transaction.Scope,
	productRepo catalog.ProductRepository,
	alertRepo inventory.StockAlertRepository,
	transactionRepo inventory.StockTransactionRepository,
	recorder *Recorder,
	clock shared.Clock,
) *StockService {
	if recorder == nil {
		recorder = NewRecorder(nil)
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &StockService{
		scope:           scope,
		productRepo:     productRepo,
		alertRepo:       alertRepo,
		transactionRepo: transactionRepo,
		recorder:        recorder,
		clock:           clock,
	}
}

// AdjustStock applies a manual Purchase, Adjustment or Return. The delta may
// be negative but stock never drops below zero.
func (s *StockService) AdjustStock(ctx context.Context, req AdjustStockRequest) (_ *AdjustStockResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "adjust",
		telemetry.SpanAttrProductID.Int64(req.ProductID),
		telemetry.SpanAttrQuantity.Int(req.Quantity),
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	txType, err := inventory.ParseTransactionType(req.TransactionType)
	if err != nil {
		return nil, err
	}
	if !txType.IsManual() {
		return nil, inventory.ErrSaleNotManual
	}
	if req.Quantity == 0 {
		return nil, shared.NewValidationError("Quantity cannot be zero")
	}
	if req.UserID <= 0 {
		return nil, shared.NewValidationError("Acting user is required")
	}

	var result *MovementResult
	err = s.scope.Execute(ctx, func(repos transaction.Repositories) error {
		var applyErr error
		result, applyErr = s.recorder.Apply(ctx, repos, s.clock.Now(), Movement{
			ProductID: req.ProductID,
			Delta:     req.Quantity,
			Type:      txType,
			UserID:    req.UserID,
			Notes:     req.Notes,
		})
		return applyErr
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errProductNotFound
		}
		return nil, err
	}

	logger.L(ctx).Info("stock adjusted",
		zap.Int64("product_id", req.ProductID),
		zap.String("transaction_type", txType.String()),
		zap.Int("delta", req.Quantity),
		zap.Int("new_stock", result.Change.NewStock),
	)

	resp := &AdjustStockResponse{
		Message:  "Stock adjusted successfully",
		NewStock: result.Change.NewStock,
	}
	if result.Alert != nil {
		alert := ToStockAlertResponse(&inventory.AlertDetail{
			StockAlert:    *result.Alert,
			ProductName:   result.Change.Product.Name,
			ProductCode:   result.Change.Product.Code,
			CurrentStock:  result.Change.NewStock,
			MinStockLevel: result.Change.Product.MinStockLevel,
		})
		resp.Alert = &alert
	}
	return resp, nil
}

// ListAlerts returns alerts newest first.
func (s *StockService) ListAlerts(ctx context.Context, unresolvedOnly bool) ([]StockAlertResponse, error) {
	alerts, err := s.alertRepo.List(ctx, unresolvedOnly)
	if err != nil {
		return nil, err
	}
	out := make([]StockAlertResponse, len(alerts))
	for i := range alerts {
		out[i] = ToStockAlertResponse(&alerts[i])
	}
	return out, nil
}

// ResolveAlert marks an alert resolved. Resolving a resolved alert is a
// no-op.
func (s *StockService) ResolveAlert(ctx context.Context, id int64) error {
	alert, err := s.alertRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return inventory.ErrAlertNotFound
		}
		return err
	}
	if alert.IsResolved {
		return nil
	}

	alert.Resolve(s.clock.Now())
	if err := s.alertRepo.Save(ctx, alert); err != nil {
		return fmt.Errorf("resolve alert %d: %w", id, err)
	}
	logger.L(ctx).Info("stock alert resolved", zap.Int64("alert_id", id))
	return nil
}

// ListTransactions returns a product's ledger newest first.
func (s *StockService) ListTransactions(ctx context.Context, productID int64, page shared.Page) (shared.Paginated[StockTransactionResponse], error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.Paginated[StockTransactionResponse]{}, catalog.NewProductNotFoundError(productID)
		}
		return shared.Paginated[StockTransactionResponse]{}, err
	}

	entries, total, err := s.transactionRepo.ListByProduct(ctx, productID, page)
	if err != nil {
		return shared.Paginated[StockTransactionResponse]{}, err
	}
	out := make([]StockTransactionResponse, len(entries))
	for i := range entries {
		out[i] = ToStockTransactionResponse(&entries[i])
	}
	return shared.NewPaginated(out, total, page), nil
}
