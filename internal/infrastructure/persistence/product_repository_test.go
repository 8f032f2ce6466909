package persistence

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/smartinventory/backend/internal/domain/catalog"
	"github.com/smartinventory/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository_DecrementStock_SQL(t *testing.T) {
	t.Run("guard and write in one statement", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(db)

		mock.ExpectExec(regexp.QuoteMeta(
			`UPDATE products SET stock_quantity = stock_quantity - $1, updated_at = $2 WHERE id = $3 AND stock_quantity >= $4`)).
			WithArgs(3, sqlmock.AnyArg(), int64(7), 3).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WithArgs(int64(7), 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "stock_quantity", "min_stock_level"}).
				AddRow(7, "P-7", "Widget", 2, 5))

		change, err := repo.DecrementStock(context.Background(), 7, 3)

		require.NoError(t, err)
		assert.Equal(t, 5, change.OldStock)
		assert.Equal(t, 2, change.NewStock)
		assert.Equal(t, "Widget", change.Product.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("guard miss on a stocked product is insufficient stock", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(db)

		mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity - \$1`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WithArgs(int64(7), 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "stock_quantity"}).AddRow(7, "Widget", 2))

		_, err := repo.DecrementStock(context.Background(), 7, 3)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.EqualError(t, err, "Insufficient stock for product 'Widget'. Available: 2, Requested: 3")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing product reads back as not found", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()
		repo := NewGormProductRepository(db)

		mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity - \$1`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
			WithArgs(int64(99), 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.DecrementStock(context.Background(), 99, 1)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Equal(t, "Product with ID 99 not found", err.Error())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-positive quantity never reaches the database", func(t *testing.T) {
		db, mock, mockDB := newMockGorm(t)
		defer mockDB.Close()

		_, err := NewGormProductRepository(db).DecrementStock(context.Background(), 1, 0)

		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_StockChanges(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements within stock", func(t *testing.T) {
		db := newSQLiteDB(t)
		repo := NewGormProductRepository(db)
		p := seedProduct(t, db, "P-1", 10, 2)

		change, err := repo.DecrementStock(ctx, p.ID, 4)

		require.NoError(t, err)
		assert.Equal(t, 10, change.OldStock)
		assert.Equal(t, 6, change.NewStock)
		assert.Equal(t, -4, change.Delta())

		stored, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 6, stored.StockQuantity)
	})

	t.Run("decrement to exactly zero", func(t *testing.T) {
		db := newSQLiteDB(t)
		repo := NewGormProductRepository(db)
		p := seedProduct(t, db, "P-1", 3, 2)

		change, err := repo.DecrementStock(ctx, p.ID, 3)

		require.NoError(t, err)
		assert.Equal(t, 0, change.NewStock)
	})

	t.Run("insufficient stock changes nothing", func(t *testing.T) {
		db := newSQLiteDB(t)
		repo := NewGormProductRepository(db)
		p := seedProduct(t, db, "P-1", 2, 1)

		_, err := repo.DecrementStock(ctx, p.ID, 3)

		var stockErr *catalog.InsufficientStockError
		require.True(t, errors.As(err, &stockErr))
		assert.Equal(t, 2, stockErr.Available)
		assert.Equal(t, 3, stockErr.Requested)
		assert.Equal(t, "Product P-1", stockErr.ProductName)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)

		stored, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.StockQuantity)
	})

	t.Run("increment adds", func(t *testing.T) {
		db := newSQLiteDB(t)
		repo := NewGormProductRepository(db)
		p := seedProduct(t, db, "P-1", 0, 5)

		change, err := repo.IncrementStock(ctx, p.ID, 20)

		require.NoError(t, err)
		assert.Equal(t, 0, change.OldStock)
		assert.Equal(t, 20, change.NewStock)
	})

	t.Run("negative increment cannot go below zero", func(t *testing.T) {
		db := newSQLiteDB(t)
		repo := NewGormProductRepository(db)
		p := seedProduct(t, db, "P-1", 4, 5)

		_, err := repo.IncrementStock(ctx, p.ID, -5)

		var stockErr *catalog.InsufficientStockError
		require.True(t, errors.As(err, &stockErr))
		assert.Equal(t, 5, stockErr.Requested)

		change, err := repo.IncrementStock(ctx, p.ID, -4)
		require.NoError(t, err)
		assert.Equal(t, 0, change.NewStock)
	})

	t.Run("unknown product", func(t *testing.T) {
		db := newSQLiteDB(t)
		repo := NewGormProductRepository(db)

		_, err := repo.IncrementStock(ctx, 404, 1)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

// Concurrent single-unit sales against S units: exactly min(N, S) succeed
// and the remaining stock never goes negative.
func TestGormProductRepository_ConcurrentDecrement(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormProductRepository(db)
	p := seedProduct(t, db, "HOT", 5, 1)

	const workers = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.DecrementStock(ctx, p.ID, 1)
			mu.Lock()
			defer mu.Unlock()
			var stockErr *catalog.InsufficientStockError
			switch {
			case err == nil:
				succeeded++
			case errors.As(err, &stockErr):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, workers-5, rejected)

	stored, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.StockQuantity)
}

func TestGormProductRepository_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("writes every editable field", func(t *testing.T) {
		db := newSQLiteDB(t)
		repo := NewGormProductRepository(db)
		p := seedProduct(t, db, "P-1", 10, 2)

		_, err := p.SetFields(catalog.ProductFields{
			Name:          "Renamed",
			UnitPrice:     decimal.RequireFromString("3.99"),
			StockQuantity: 7,
			MinStockLevel: 0,
			Unit:          "box",
			IsActive:      false,
		}, fixtureTime)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, p, 10))

		stored, err := repo.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", stored.Name)
		assert.True(t, decimal.RequireFromString("3.99").Equal(stored.UnitPrice))
		assert.Equal(t, 7, stored.StockQuantity)
		assert.Equal(t, 0, stored.MinStockLevel)
		assert.Equal(t, "box", stored.Unit)
		assert.False(t, stored.IsActive)
	})

	t.Run("stale stock is a conflict", func(t *testing.T) {
		db := newSQLiteDB(t)
		repo := NewGormProductRepository(db)
		p := seedProduct(t, db, "P-1", 10, 2)

		_, err := repo.DecrementStock(ctx, p.ID, 1)
		require.NoError(t, err)

		p.Name = "Edited from a stale read"
		err = repo.Save(ctx, p, 10)
		assert.ErrorIs(t, err, shared.ErrConflict)
	})

	t.Run("duplicate code", func(t *testing.T) {
		db := newSQLiteDB(t)
		seedProduct(t, db, "DUP", 1, 0)

		p, err := catalog.NewProduct("DUP", catalog.ProductFields{Name: "Again"}, fixtureTime)
		require.NoError(t, err)
		err = NewGormProductRepository(db).Create(ctx, p)
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestGormProductRepository_List(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormProductRepository(db)

	seedProduct(t, db, "A-1", 50, 10)
	low := seedProduct(t, db, "B-2", 3, 10)
	gone := seedProduct(t, db, "C-3", 0, 10)
	gone.Deactivate(fixtureTime)
	require.NoError(t, repo.Save(ctx, gone, 0))

	t.Run("active only", func(t *testing.T) {
		products, total, err := repo.List(ctx, catalog.ProductFilter{ActiveOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, products, 2)
	})

	t.Run("low stock", func(t *testing.T) {
		products, total, err := repo.List(ctx, catalog.ProductFilter{ActiveOnly: true, LowStockOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, low.ID, products[0].ID)
	})

	t.Run("search matches code case-insensitively", func(t *testing.T) {
		products, _, err := repo.List(ctx, catalog.ProductFilter{Search: "b-2"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "B-2", products[0].Code)
	})

	t.Run("sort by stock descending", func(t *testing.T) {
		products, _, err := repo.List(ctx, catalog.ProductFilter{OrderBy: "stock_quantity", OrderDir: "desc"})
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "A-1", products[0].Code)
		assert.Equal(t, "C-3", products[2].Code)
	})

	t.Run("pagination", func(t *testing.T) {
		products, total, err := repo.List(ctx, catalog.ProductFilter{Page: shared.Page{Number: 2, Size: 2}})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, products, 1)
	})

	t.Run("inactive product is still found by id", func(t *testing.T) {
		stored, err := repo.FindByID(ctx, gone.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsActive)
	})
}
