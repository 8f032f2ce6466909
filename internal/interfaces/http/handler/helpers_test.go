package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/smartinventory/backend/internal/application/identity"
	"github.com/smartinventory/backend/internal/bootstrap"
	"github.com/smartinventory/backend/internal/infrastructure/config"
	"github.com/smartinventory/backend/internal/infrastructure/persistence"
	"github.com/smartinventory/backend/internal/interfaces/http/dto"
	"github.com/smartinventory/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

type fixture struct {
	t       *testing.T
	db      *persistence.Database
	svc     *bootstrap.Services
	engine  *gin.Engine
	adminID int64
	role    string
}

// newFixture serves real services over an in-memory database. Requests
// run as the bootstrap admin unless role is changed.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	database, err := persistence.OpenSQLiteMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	svc := bootstrap.NewServices(database.DB, bootstrap.Options{
		JWT: config.JWTConfig{
			Secret:                "handler-test-secret-handler-test-secret",
			Issuer:                "test",
			AccessTokenExpiration: time.Hour,
		},
		BcryptCost: bcrypt.MinCost,
	})

	ctx := context.Background()
	created, err := svc.Auth.BootstrapAdmin(ctx, "admin", "admin@example.com", "secret123")
	require.NoError(t, err)
	require.True(t, created)
	login, err := svc.Auth.Login(ctx, identityapp.LoginInput{Username: "admin", Password: "secret123"})
	require.NoError(t, err)

	f := &fixture{
		t:       t,
		db:      database,
		svc:     svc,
		engine:  gin.New(),
		adminID: login.User.ID,
		role:    "Admin",
	}
	f.engine.Use(func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, f.adminID)
		c.Set(middleware.JWTRoleKey, f.role)
		c.Next()
	})
	return f
}

func (f *fixture) do(method, path string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func requireError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) *dto.ErrorInfo {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	resp := decode[json.RawMessage](t, w)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	require.Equal(t, code, resp.Error.Code)
	return resp.Error
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

