package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartinventory/backend/internal/bootstrap"
	"github.com/smartinventory/backend/internal/infrastructure/config"
	"github.com/smartinventory/backend/internal/infrastructure/persistence"
	"github.com/smartinventory/backend/internal/interfaces/http/handler"
	"github.com/smartinventory/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
}

func newAPI(t *testing.T, limiter *middleware.RateLimiter) *apiClient {
	t.Helper()
	database, err := persistence.OpenSQLiteMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	svc := bootstrap.NewServices(database.DB, bootstrap.Options{
		JWT: config.JWTConfig{
			Secret:                "router-test-secret-router-test-secret",
			Issuer:                "test",
			AccessTokenExpiration: time.Hour,
		},
		BcryptCost: bcrypt.MinCost,
	})
	_, err = svc.Auth.BootstrapAdmin(t.Context(), "admin", "admin@example.com", "secret123")
	require.NoError(t, err)

	engine, err := NewEngine(EngineConfig{MaxBodySize: 1 << 20})
	require.NoError(t, err)
	RegisterAPI(engine, Handlers{
		Auth:      handler.NewAuthHandler(svc.Auth),
		Product:   handler.NewProductHandler(svc.Products, svc.Stock),
		Category:  handler.NewCategoryHandler(svc.Categories),
		Customer:  handler.NewCustomerHandler(svc.Customers),
		Invoice:   handler.NewInvoiceHandler(svc.Invoices),
		Analytics: handler.NewAnalyticsHandler(svc.Analytics, svc.Stock),
		Health:    handler.NewHealthHandler(database.PingContext),
	}, APIConfig{
		Validator:    svc.Tokens,
		Blacklist:    svc.Blacklist,
		LoginLimiter: limiter,
	})
	return &apiClient{t: t, engine: engine}
}

func (a *apiClient) do(method, path, token string, body any) (*httptest.ResponseRecorder, apiEnvelope) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env apiEnvelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (a *apiClient) login(username, password string) string {
	a.t.Helper()
	w, env := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var result struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &result))
	return result.Token
}

func assertAPIError(t *testing.T, w *httptest.ResponseRecorder, env apiEnvelope, status int, code string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	require.NotNil(t, env.Error)
	assert.Equal(t, code, env.Error.Code)
}

func TestAPI_PublicRoutes(t *testing.T) {
	api := newAPI(t, nil)

	w, _ := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w, env := api.do(http.MethodGet, "/api/v1/products", "", nil)
	assertAPIError(t, w, env, http.StatusUnauthorized, "UNAUTHORIZED")
	assert.Equal(t, "Authentication required", env.Error.Message)

	w, env = api.do(http.MethodGet, "/api/v1/products", "not-a-jwt", nil)
	assertAPIError(t, w, env, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestAPI_RoleEnforcement(t *testing.T) {
	api := newAPI(t, nil)
	admin := api.login("admin", "secret123")

	w, _ := api.do(http.MethodPost, "/api/v1/auth/register", admin, map[string]string{
		"username": "cashier",
		"email":    "cashier@example.com",
		"password": "till1234",
		"role":     "SalesStaff",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	staff := api.login("cashier", "till1234")

	w, env := api.do(http.MethodPost, "/api/v1/products", admin, map[string]any{"code": "PEN", "name": "Pen", "unit_price": "1.20", "stock_quantity": 10})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &product))

	forbidden := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPost, "/api/v1/products", map[string]any{"code": "X", "name": "X"}},
		{http.MethodPost, "/api/v1/products/adjust-stock", map[string]any{"product_id": product.ID, "quantity": 5, "transaction_type": "Purchase"}},
		{http.MethodPost, "/api/v1/categories", map[string]any{"name": "Paper"}},
		{http.MethodDelete, "/api/v1/customers/1", nil},
		{http.MethodPost, "/api/v1/auth/register", map[string]any{"username": "x"}},
	}
	for _, tc := range forbidden {
		w, env := api.do(tc.method, tc.path, staff, tc.body)
		assertAPIError(t, w, env, http.StatusForbidden, "FORBIDDEN")
	}

	w, _ = api.do(http.MethodGet, "/api/v1/products", staff, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, env = api.do(http.MethodPost, "/api/v1/invoices", staff, map[string]any{
		"items": []map[string]any{{"product_id": product.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var invoice struct {
		UserName      string `json:"user_name"`
		InvoiceNumber string `json:"invoice_number"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &invoice))
	assert.Equal(t, "cashier", invoice.UserName)

	w, env = api.do(http.MethodGet, "/api/v1/invoices/next-number", staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, string(env.Data), invoice.InvoiceNumber)

	w, _ = api.do(http.MethodGet, "/api/v1/analytics/dashboard", staff, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_Logout(t *testing.T) {
	api := newAPI(t, nil)
	token := api.login("admin", "secret123")

	w, _ := api.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := api.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assertAPIError(t, w, env, http.StatusUnauthorized, "TOKEN_REVOKED")

	fresh := api.login("admin", "secret123")
	w, _ = api.do(http.MethodGet, "/api/v1/auth/me", fresh, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_LoginRateLimit(t *testing.T) {
	api := newAPI(t, middleware.NewRateLimiter(1, 2))
	creds := map[string]string{"username": "admin", "password": "wrong"}

	for range 2 {
		w, _ := api.do(http.MethodPost, "/api/v1/auth/login", "", creds)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w, env := api.do(http.MethodPost, "/api/v1/auth/login", "", creds)
	assertAPIError(t, w, env, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED")
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}
