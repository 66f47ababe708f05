package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/lobapi/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenantRouter(t *testing.T, withJWT bool) *gin.Engine {
	t.Helper()
	router := gin.New()
	if withJWT {
		router.Use(JWTAuthMiddleware(DefaultJWTConfig(newTestJWTService())))
	}
	router.Use(TenantMiddleware())
	router.GET("/tenant", func(c *gin.Context) {
		c.Header("X-Log-Tenant", logger.GetTenantID(c.Request.Context()))
		c.String(http.StatusOK, GetTenantID(c).String())
	})
	return router
}

func TestTenantMiddleware_Resolution(t *testing.T) {
	t.Run("defaults without token or header", func(t *testing.T) {
		w := httptest.NewRecorder()
		tenantRouter(t, false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tenant", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, DefaultTenantID.String(), w.Body.String())
		assert.Equal(t, DefaultTenantID.String(), w.Header().Get("X-Log-Tenant"))
	})

	t.Run("header without token", func(t *testing.T) {
		id := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/tenant", nil)
		req.Header.Set(TenantHeaderKey, id.String())
		w := httptest.NewRecorder()
		tenantRouter(t, false).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, id.String(), w.Body.String())
	})

	t.Run("invalid header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tenant", nil)
		req.Header.Set(TenantHeaderKey, "acme")
		w := httptest.NewRecorder()
		tenantRouter(t, false).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTenantMiddleware_TokenWins(t *testing.T) {
	svc := newTestJWTService()
	issued, input := issueTestToken(t, svc)
	router := tenantRouter(t, true)

	t.Run("token tenant", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tenant", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issued.Token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, input.TenantID.String(), w.Body.String())
	})

	t.Run("matching header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tenant", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issued.Token)
		req.Header.Set(TenantHeaderKey, input.TenantID.String())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("mismatched header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tenant", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issued.Token)
		req.Header.Set(TenantHeaderKey, uuid.NewString())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
