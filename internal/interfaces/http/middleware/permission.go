package middleware

import (
	"net/http"

	"github.com/erp/lobapi/internal/infrastructure/logger"
	"github.com/erp/lobapi/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequirePermission requires a single "<resource>:<action>" permission
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission requires at least one of the permissions. Missing
// claims yield 401, insufficient claims 403.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !claims.HasAnyPermission(permissions...) {
			logger.FromContext(c.Request.Context()).Warn("Permission denied",
				zap.Strings("required_any", permissions),
				zap.String("path", c.FullPath()),
			)
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Insufficient permissions")
			return
		}
		c.Next()
	}
}

// RequireResource derives the action from the HTTP method: GET read,
// POST create, PUT/PATCH update, DELETE delete
func RequireResource(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		RequirePermission(resource + ":" + methodToAction(c.Request.Method))(c)
	}
}

func methodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	}
	return "read"
}

// HasPermission reports whether the caller's token grants permission
func HasPermission(c *gin.Context, permission string) bool {
	claims := GetJWTClaims(c)
	return claims != nil && claims.HasPermission(permission)
}
