package persistence

import (
	"context"
	"testing"

	"github.com/smartinventory/backend/internal/domain/catalog"
	"github.com/smartinventory/backend/internal/domain/partner"
	"github.com/smartinventory/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCategoryRepository(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormCategoryRepository(db)
	products := NewGormProductRepository(db)

	drinks, err := catalog.NewCategory("Drinks", "Cold and hot", fixtureTime)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, drinks))
	snacks, err := catalog.NewCategory("Snacks", "", fixtureTime)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, snacks))

	for _, code := range []string{"D-1", "D-2", "D-3"} {
		p := seedProduct(t, db, code, 5, 1)
		p.CategoryID = &drinks.ID
		if code == "D-3" {
			p.Deactivate(fixtureTime)
		}
		require.NoError(t, products.Save(ctx, p, 5))
	}

	t.Run("name uniqueness ignores case", func(t *testing.T) {
		exists, err := repo.ExistsByName(ctx, "drinks", 0)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByName(ctx, "Drinks", drinks.ID)
		require.NoError(t, err)
		assert.False(t, exists, "a category does not clash with itself")
	})

	t.Run("counts only active products", func(t *testing.T) {
		summaries, err := repo.ListWithProductCounts(ctx)
		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "Drinks", summaries[0].Name)
		assert.Equal(t, int64(2), summaries[0].ProductCount)
		assert.Equal(t, int64(0), summaries[1].ProductCount)

		count, err := products.CountActiveByCategory(ctx, drinks.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, snacks.ID))
		_, err := repo.FindByID(ctx, snacks.ID)
		assert.ErrorIs(t, err, catalog.ErrCategoryNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, snacks.ID), shared.ErrNotFound)
	})
}

func TestGormCustomerRepository(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormCustomerRepository(db)

	seedCustomer(t, db, "Zed Traders")
	acme := seedCustomer(t, db, "Acme Ltd")
	c, err := partner.NewCustomer(partner.CustomerDetails{Name: "Bob", Email: "bob@example.com", Phone: "777"}, fixtureTime)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, c))

	t.Run("ordered by name", func(t *testing.T) {
		customers, total, err := repo.List(ctx, "", shared.Page{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, "Acme Ltd", customers[0].Name)
		assert.Equal(t, "Zed Traders", customers[2].Name)
	})

	t.Run("search by email or phone", func(t *testing.T) {
		customers, _, err := repo.List(ctx, "BOB@", shared.Page{})
		require.NoError(t, err)
		require.Len(t, customers, 1)

		customers, _, err = repo.List(ctx, "777", shared.Page{})
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, "Bob", customers[0].Name)
	})

	t.Run("update and delete", func(t *testing.T) {
		require.NoError(t, acme.Update(partner.CustomerDetails{Name: "Acme Holdings"}, fixtureTime))
		require.NoError(t, repo.Save(ctx, acme))
		stored, err := repo.FindByID(ctx, acme.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Holdings", stored.Name)
		assert.Empty(t, stored.Phone)

		require.NoError(t, repo.Delete(ctx, acme.ID))
		_, err = repo.FindByID(ctx, acme.ID)
		assert.ErrorIs(t, err, partner.ErrCustomerNotFound)
	})
}

func TestGormUserRepository(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormUserRepository(db)
	u := seedUser(t, db, "alice")

	found, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.True(t, found.IsActive)

	exists, err := repo.ExistsByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, exists)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	found.RecordLogin(fixtureTime)
	require.NoError(t, repo.Save(ctx, found))
	again, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, again.LastLoginAt)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
