package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/resto-menu-api/internal/models"
	appErrors "github.com/noah-isme/resto-menu-api/pkg/errors"
	"github.com/noah-isme/resto-menu-api/pkg/logger"
	"github.com/noah-isme/resto-menu-api/pkg/response"
)

// ContextClaimsKey is the gin context key storing verified token claims.
const ContextClaimsKey = "tenantClaims"

// TokenValidator verifies tenant bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*models.TenantClaims, error)
}

// Tenant resolves the tenant of a request. With a validator every request
// must carry a bearer token whose tenant claim is used. Without one the
// tenant is read from header.
func Tenant(validator TokenValidator, header string) gin.HandlerFunc {
	if header == "" {
		header = "X-Tenant-ID"
	}
	return func(c *gin.Context) {
		if validator == nil {
			tenant := strings.TrimSpace(c.GetHeader(header))
			if tenant == "" {
				response.Error(c, appErrors.ErrTenantRequired)
				return
			}
			c.Set(logger.TenantContextKey, tenant)
			c.Next()
			return
		}

		authz := c.GetHeader("Authorization")
		if authz == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Set(logger.TenantContextKey, claims.TenantID)
		c.Next()
	}
}

// TenantID returns the tenant resolved by Tenant.
func TenantID(c *gin.Context) string {
	return c.GetString(logger.TenantContextKey)
}
