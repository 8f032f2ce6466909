package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smartinventory/backend/internal/domain/identity"
	"github.com/smartinventory/backend/internal/infrastructure/logger"
	"github.com/smartinventory/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RequireRole lets the request through only when the token's role is one
// of roles. It must run after the JWT middleware.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[string(r)] = struct{}{}
	}
	return func(c *gin.Context) {
		if GetJWTClaims(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", c.GetString(logger.RequestIDContextKey)))
			return
		}
		if _, ok := allowed[GetJWTRole(c)]; !ok {
			logger.L(c.Request.Context()).Warn("role check failed", zap.String("role", GetJWTRole(c)))
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "You do not have permission to perform this action", c.GetString(logger.RequestIDContextKey)))
			return
		}
		c.Next()
	}
}

// RequireAdmin is RequireRole(identity.RoleAdmin)
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleAdmin)
}
