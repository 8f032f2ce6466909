package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	catalogapp "github.com/smartinventory/backend/internal/application/catalog"
	identityapp "github.com/smartinventory/backend/internal/application/identity"
	"github.com/smartinventory/backend/internal/bootstrap"
	"github.com/smartinventory/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminPassword = "integration-secret"
	jwtSecret     = "integration-secret-integration-secret"
)

type stack struct {
	db      *TestDB
	svc     *bootstrap.Services
	adminID int64
}

// newStack wires the services over a clean database and signs the admin in.
func newStack(t *testing.T, opts bootstrap.Options) *stack {
	t.Helper()
	db := NewTestDB(t)

	opts.JWT = config.JWTConfig{Secret: jwtSecret, Issuer: "integration", AccessTokenExpiration: time.Hour}
	opts.BcryptCost = bcrypt.MinCost
	svc := bootstrap.NewServices(db.DB, opts)

	ctx := context.Background()
	created, err := svc.Auth.BootstrapAdmin(ctx, "admin", "admin@example.com", adminPassword)
	require.NoError(t, err)
	require.True(t, created)
	login, err := svc.Auth.Login(ctx, identityapp.LoginInput{Username: "admin", Password: adminPassword})
	require.NoError(t, err)

	return &stack{db: db, svc: svc, adminID: login.User.ID}
}

func (s *stack) product(t *testing.T, code string, price string, stock, minLevel int) *catalogapp.ProductResponse {
	t.Helper()
	resp, err := s.svc.Products.Create(context.Background(), catalogapp.CreateProductRequest{
		Code:          code,
		Name:          "Product " + code,
		UnitPrice:     decimal.RequireFromString(price),
		StockQuantity: stock,
		MinStockLevel: &minLevel,
		UserID:        s.adminID,
	})
	require.NoError(t, err)
	return resp
}
