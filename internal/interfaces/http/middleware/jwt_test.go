package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smartinventory/backend/internal/domain/identity"
	"github.com/smartinventory/backend/internal/infrastructure/auth"
	"github.com/smartinventory/backend/internal/infrastructure/config"
	"github.com/smartinventory/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWTService(expiry time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "middleware-test-secret-32-characters",
		Issuer:                "test",
		AccessTokenExpiration: expiry,
	})
}

func issue(t *testing.T, svc *auth.JWTService, role identity.Role) *auth.AccessToken {
	t.Helper()
	token, err := svc.Issue(auth.TokenSubject{UserID: 7, Username: "keeper", Role: string(role)})
	require.NoError(t, err)
	return token
}

type protected struct {
	router    *gin.Engine
	blacklist *auth.InMemoryTokenBlacklist
}

func newProtected(svc *auth.JWTService) *protected {
	blacklist := auth.NewInMemoryTokenBlacklist()
	cfg := DefaultJWTConfig(svc)
	cfg.TokenBlacklist = blacklist

	r := gin.New()
	r.Use(RequestID(), JWTAuthMiddlewareWithConfig(cfg))
	r.POST("/api/v1/auth/login", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/api/v1/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  GetJWTUserID(c),
			"role":     GetJWTRole(c),
			"username": c.GetString(JWTUsernameKey),
		})
	})
	admin := r.Group("/api/v1/admin", RequireAdmin())
	admin.POST("/thing", func(c *gin.Context) { c.Status(http.StatusCreated) })
	return &protected{router: r, blacklist: blacklist}
}

func (p *protected) do(method, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set(AuthHeaderKey, authHeader)
	}
	w := httptest.NewRecorder()
	p.router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.NotEmpty(t, resp.Error.RequestID)
	return resp.Error.Code
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newJWTService(time.Hour)
	p := newProtected(svc)
	token := issue(t, svc, identity.RoleSalesStaff)

	w := p.do(http.MethodGet, "/api/v1/me", BearerPrefix+token.Token)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(7), body["user_id"])
	assert.Equal(t, "SalesStaff", body["role"])
	assert.Equal(t, "keeper", body["username"])
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newJWTService(time.Hour)
	p := newProtected(svc)
	expired := issue(t, newJWTService(-time.Minute), identity.RoleAdmin)
	foreign := issue(t, auth.NewJWTService(config.JWTConfig{
		Secret: "another-secret-another-secret-123", Issuer: "test", AccessTokenExpiration: time.Hour,
	}), identity.RoleAdmin)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"not bearer", "Basic abc", dto.ErrCodeUnauthorized},
		{"empty token", "Bearer ", dto.ErrCodeUnauthorized},
		{"garbage", "Bearer not.a.jwt", dto.ErrCodeUnauthorized},
		{"wrong key", BearerPrefix + foreign.Token, dto.ErrCodeUnauthorized},
		{"expired", BearerPrefix + expired.Token, dto.ErrCodeTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := p.do(http.MethodGet, "/api/v1/me", tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestJWTAuthMiddleware_RevokedToken(t *testing.T) {
	svc := newJWTService(time.Hour)
	p := newProtected(svc)
	token := issue(t, svc, identity.RoleAdmin)
	claims, err := svc.Validate(token.Token)
	require.NoError(t, err)

	require.NoError(t, p.blacklist.Revoke(context.Background(), claims.ID, time.Hour))

	w := p.do(http.MethodGet, "/api/v1/me", BearerPrefix+token.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, w))
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	p := newProtected(newJWTService(time.Hour))

	w := p.do(http.MethodPost, "/api/v1/auth/login", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	svc := newJWTService(time.Hour)
	p := newProtected(svc)

	staff := issue(t, svc, identity.RoleSalesStaff)
	w := p.do(http.MethodPost, "/api/v1/admin/thing", BearerPrefix+staff.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, w))

	admin := issue(t, svc, identity.RoleAdmin)
	w = p.do(http.MethodPost, "/api/v1/admin/thing", BearerPrefix+admin.Token)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRequireRole_WithoutClaims(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequireRole(identity.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
