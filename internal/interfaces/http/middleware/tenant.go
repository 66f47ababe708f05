package middleware

import (
	"net/http"

	"github.com/erp/lobapi/internal/infrastructure/logger"
	"github.com/erp/lobapi/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Tenant context keys
const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// DefaultTenantID is used when neither the token nor the header names a tenant
var DefaultTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// TenantMiddleware resolves the tenant for the request, in order: JWT claim,
// X-Tenant-ID header, DefaultTenantID. A header naming a different tenant than
// the token is rejected with 403.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(TenantHeaderKey)
		var headerID uuid.UUID
		if header != "" {
			id, err := uuid.Parse(header)
			if err != nil {
				abortWithError(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid X-Tenant-ID header")
				return
			}
			headerID = id
		}

		tenantID := DefaultTenantID
		if claimID := GetJWTTenantID(c); claimID != "" {
			id, err := uuid.Parse(claimID)
			if err != nil {
				abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid tenant in token")
				return
			}
			if headerID != uuid.Nil && headerID != id {
				abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Tenant does not match token")
				return
			}
			tenantID = id
		} else if headerID != uuid.Nil {
			tenantID = headerID
		}

		c.Set(TenantIDKey, tenantID)
		ctx := c.Request.Context()
		ctx, _ = logger.WithTenantID(ctx, logger.FromContext(ctx), tenantID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetTenantID returns the tenant resolved by TenantMiddleware, or DefaultTenantID
func GetTenantID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(TenantIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return DefaultTenantID
}
