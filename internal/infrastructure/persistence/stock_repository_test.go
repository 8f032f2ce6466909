package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smartinventory/backend/internal/application/transaction"
	"github.com/smartinventory/backend/internal/domain/billing"
	"github.com/smartinventory/backend/internal/domain/inventory"
	"github.com/smartinventory/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStockAlertRepository(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormStockAlertRepository(db)
	p := seedProduct(t, db, "P-1", 3, 5)

	older := inventory.NewStockAlert(p, inventory.AlertTypeLowStock, fixtureTime)
	require.NoError(t, repo.Create(ctx, older))
	newer := inventory.NewStockAlert(p, inventory.AlertTypeOutOfStock, fixtureTime.Add(time.Minute))
	require.NoError(t, repo.Create(ctx, newer))

	alerts, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, newer.ID, alerts[0].ID)
	assert.Equal(t, "Product P-1", alerts[0].ProductName)
	assert.Equal(t, "P-1", alerts[0].ProductCode)
	assert.Equal(t, 3, alerts[0].CurrentStock)
	assert.Equal(t, 5, alerts[0].MinStockLevel)
	assert.Equal(t, older.Message, alerts[1].Message)

	stored, err := repo.FindByID(ctx, older.ID)
	require.NoError(t, err)
	stored.Resolve(fixtureTime.Add(time.Hour))
	require.NoError(t, repo.Save(ctx, stored))

	open, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, newer.ID, open[0].ID)

	resolved, err := repo.FindByID(ctx, older.ID)
	require.NoError(t, err)
	assert.True(t, resolved.IsResolved)
	require.NotNil(t, resolved.ResolvedAt)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, inventory.ErrAlertNotFound)
}

func TestGormStockTransactionRepository(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormStockTransactionRepository(db)
	user := seedUser(t, db, "keeper")
	p := seedProduct(t, db, "P-1", 10, 1)
	other := seedProduct(t, db, "P-2", 10, 1)

	for i, qty := range []int{5, -2, 3} {
		entry, err := inventory.NewStockTransaction(p.ID, inventory.TransactionTypeAdjustment, qty, user.ID, "", "count",
			fixtureTime.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, entry))
	}
	entry, err := inventory.NewStockTransaction(other.ID, inventory.TransactionTypePurchase, 1, user.ID, "", "", fixtureTime)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, entry))

	txs, total, err := repo.ListByProduct(ctx, p.ID, shared.Page{Number: 1, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, txs, 2)
	assert.Equal(t, 3, txs[0].Quantity)
	assert.Equal(t, -2, txs[1].Quantity)
}

func TestGormTransactionScope(t *testing.T) {
	ctx := context.Background()

	t.Run("commits every write", func(t *testing.T) {
		db := newSQLiteDB(t)
		user := seedUser(t, db, "keeper")
		p := seedProduct(t, db, "P-1", 10, 5)
		scope := NewGormTransactionScope(db)

		err := scope.Execute(ctx, func(repos transaction.Repositories) error {
			change, err := repos.Products().DecrementStock(ctx, p.ID, 6)
			if err != nil {
				return err
			}
			entry, err := inventory.NewStockTransaction(p.ID, inventory.TransactionTypeSale, change.Delta(), user.ID, "INV-1", "", fixtureTime)
			if err != nil {
				return err
			}
			return repos.StockTransactions().Create(ctx, entry)
		})
		require.NoError(t, err)

		stored, err := NewGormProductRepository(db).FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, stored.StockQuantity)
		_, total, err := NewGormStockTransactionRepository(db).ListByProduct(ctx, p.ID, shared.Page{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("an error rolls back earlier writes", func(t *testing.T) {
		db := newSQLiteDB(t)
		p1 := seedProduct(t, db, "P-1", 10, 5)
		p2 := seedProduct(t, db, "P-2", 1, 0)
		scope := NewGormTransactionScope(db)

		err := scope.Execute(ctx, func(repos transaction.Repositories) error {
			if _, err := repos.Products().DecrementStock(ctx, p1.ID, 3); err != nil {
				return err
			}
			_, err := repos.Products().DecrementStock(ctx, p2.ID, 2)
			return err
		})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		stored, err := NewGormProductRepository(db).FindByID(ctx, p1.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, stored.StockQuantity)
	})

	t.Run("sequence override", func(t *testing.T) {
		db := newSQLiteDB(t)
		fake := fixedSequence(77)
		scope := NewGormTransactionScope(db, WithInvoiceSequence(fake))

		var got int
		err := scope.Execute(ctx, func(repos transaction.Repositories) error {
			var err error
			got, err = repos.InvoiceSequence().Next(ctx, "20240315", 0)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 77, got)
	})

	t.Run("default sequence shares the transaction", func(t *testing.T) {
		db := newSQLiteDB(t)
		scope := NewGormTransactionScope(db)
		errAbort := errors.New("abort")

		err := scope.Execute(ctx, func(repos transaction.Repositories) error {
			if _, err := repos.InvoiceSequence().Next(ctx, "20240315", 0); err != nil {
				return err
			}
			return errAbort
		})
		require.ErrorIs(t, err, errAbort)

		v, err := NewGormInvoiceSequence(db).Next(ctx, "20240315", 0)
		require.NoError(t, err)
		assert.Equal(t, 1, v, "rolled back value is handed out again")
	})
}

type fixedSequence int

func (s fixedSequence) Next(context.Context, string, int) (int, error) {
	return int(s), nil
}

var _ billing.InvoiceSequence = fixedSequence(0)
