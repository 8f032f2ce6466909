package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smartinventory/backend/internal/domain/catalog"
	"github.com/smartinventory/backend/internal/domain/identity"
	"github.com/smartinventory/backend/internal/domain/partner"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixtureTime = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func seedProduct(t *testing.T, db *gorm.DB, code string, stock, minLevel int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(code, catalog.ProductFields{
		Name:          "Product " + code,
		UnitPrice:     decimal.RequireFromString("12.50"),
		StockQuantity: stock,
		MinStockLevel: minLevel,
	}, fixtureTime)
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Create(context.Background(), p))
	return p
}

func seedUser(t *testing.T, db *gorm.DB, username string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(username, username+"@example.com", "User "+username, "hash", identity.RoleSalesStaff, fixtureTime)
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), u))
	return u
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(partner.CustomerDetails{Name: name, Phone: "555-0100"}, fixtureTime)
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Create(context.Background(), c))
	return c
}
