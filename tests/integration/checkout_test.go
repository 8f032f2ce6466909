package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	billingapp "github.com/smartinventory/backend/internal/application/billing"
	catalogapp "github.com/smartinventory/backend/internal/application/catalog"
	inventoryapp "github.com/smartinventory/backend/internal/application/inventory"
	"github.com/smartinventory/backend/internal/bootstrap"
	"github.com/smartinventory/backend/internal/domain/billing"
	"github.com/smartinventory/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckout_ConcurrentSalesNeverOversell(t *testing.T) {
	s := newStack(t, bootstrap.Options{})
	ctx := context.Background()
	product := s.product(t, "PEN", "1.50", 10, 3)

	const buyers = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		numbers  []string
		rejected int
		failures []error
	)
	for range buyers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv, err := s.svc.Invoices.CreateInvoice(ctx, billingapp.CreateInvoiceRequest{
				Items:  []billingapp.InvoiceItemRequest{{ProductID: product.ID, Quantity: 1}},
				UserID: s.adminID,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				numbers = append(numbers, inv.InvoiceNumber)
			case errors.Is(err, shared.ErrInsufficientStock):
				rejected++
			default:
				failures = append(failures, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, failures)
	assert.Len(t, numbers, 10)
	assert.Equal(t, buyers-10, rejected)

	// Numbers are unique and, with rolled back sequences, gap free.
	prefix := billing.DayPrefix(time.Now())
	want := make([]string, 10)
	for i := range want {
		want[i] = fmt.Sprintf("%s%03d", prefix, i+1)
	}
	assert.ElementsMatch(t, want, numbers)

	got, err := s.svc.Products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.StockQuantity)

	// The ledger replays to the stored quantity.
	ledger, err := s.svc.Stock.ListTransactions(ctx, product.ID, shared.Page{Size: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(11), ledger.Total)
	sum := 0
	for _, entry := range ledger.Items {
		sum += entry.Quantity
	}
	assert.Equal(t, got.StockQuantity, sum)

	// Exactly one crossing of the threshold, at 4 -> 3.
	alerts, err := s.svc.Stock.ListAlerts(ctx, true)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "LowStock", alerts[0].AlertType)
	assert.Equal(t, 3, alerts[0].CurrentStock)
}

func TestCheckout_MultiLineRollsBackAsAUnit(t *testing.T) {
	s := newStack(t, bootstrap.Options{})
	ctx := context.Background()
	pen := s.product(t, "PEN", "1.50", 5, 1)
	pad := s.product(t, "PAD", "3.00", 1, 0)

	_, err := s.svc.Invoices.CreateInvoice(ctx, billingapp.CreateInvoiceRequest{
		Items: []billingapp.InvoiceItemRequest{
			{ProductID: pen.ID, Quantity: 2},
			{ProductID: pad.ID, Quantity: 2},
		},
		UserID: s.adminID,
	})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Equal(t, "Insufficient stock for product 'Product PAD'. Available: 1, Requested: 2", err.Error())

	got, err := s.svc.Products.GetByID(ctx, pen.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.StockQuantity)

	page, err := s.svc.Invoices.ListInvoices(ctx, billingapp.InvoiceListFilter{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	// The failed sale consumed no number.
	inv, err := s.svc.Invoices.CreateInvoice(ctx, billingapp.CreateInvoiceRequest{
		Items:          []billingapp.InvoiceItemRequest{{ProductID: pen.ID, Quantity: 2}, {ProductID: pad.ID, Quantity: 1}},
		TaxAmount:      decimal.RequireFromString("0.60"),
		DiscountAmount: decimal.RequireFromString("0.10"),
		PaymentMethod:  "Card",
		UserID:         s.adminID,
	})
	require.NoError(t, err)
	assert.Equal(t, billing.DayPrefix(time.Now())+"001", inv.InvoiceNumber)
	assert.True(t, decimal.RequireFromString("6.00").Equal(inv.SubTotal))
	assert.True(t, decimal.RequireFromString("6.50").Equal(inv.TotalAmount))
	assert.Equal(t, "Walk-in Customer", inv.CustomerName)

	stored, err := s.svc.Invoices.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.True(t, decimal.RequireFromString("3.00").Equal(stored.Items[0].TotalPrice))
}

func TestStock_UpdateAndManualAdjustment(t *testing.T) {
	s := newStack(t, bootstrap.Options{})
	ctx := context.Background()
	product := s.product(t, "INK", "9.99", 12, 10)

	_, err := s.svc.Products.Update(ctx, product.ID, catalogapp.UpdateProductRequest{
		Name:          product.Name,
		UnitPrice:     product.UnitPrice,
		StockQuantity: 8,
		MinStockLevel: 10,
		UserID:        s.adminID,
	})
	require.NoError(t, err)

	resp, err := s.svc.Stock.AdjustStock(ctx, inventoryapp.AdjustStockRequest{
		ProductID:       product.ID,
		Quantity:        -9,
		TransactionType: "Adjustment",
		UserID:          s.adminID,
	})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Nil(t, resp)

	resp, err = s.svc.Stock.AdjustStock(ctx, inventoryapp.AdjustStockRequest{
		ProductID:       product.ID,
		Quantity:        20,
		TransactionType: "Purchase",
		Notes:           "Restock",
		UserID:          s.adminID,
	})
	require.NoError(t, err)
	assert.Equal(t, 28, resp.NewStock)

	ledger, err := s.svc.Stock.ListTransactions(ctx, product.ID, shared.Page{})
	require.NoError(t, err)
	require.Len(t, ledger.Items, 3)
	assert.Equal(t, "Purchase", ledger.Items[0].TransactionType)
	assert.Equal(t, 20, ledger.Items[0].Quantity)
	assert.Equal(t, "Adjustment", ledger.Items[1].TransactionType)
	assert.Equal(t, -4, ledger.Items[1].Quantity)

	alerts, err := s.svc.Stock.ListAlerts(ctx, true)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.NoError(t, s.svc.Stock.ResolveAlert(ctx, alerts[0].ID))
	alerts, err = s.svc.Stock.ListAlerts(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}
