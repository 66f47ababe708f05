package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/erp/lobapi/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling label keys
const (
	ProfilingLabelRoute    = "route"
	ProfilingLabelMethod   = "method"
	ProfilingLabelResource = "resource"
	ProfilingLabelTenantID = "tenant_id"
)

// ProfilingConfig holds configuration for the profiling middleware
type ProfilingConfig struct {
	Enabled          bool
	SkipPaths        []string
	SkipPathPrefixes []string
}

// DefaultProfilingConfig skips health checks and swagger
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health"},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// Profiling runs the rest of the chain under pprof labels so continuous
// profiles can be filtered by route and tenant. Place it after TenantMiddleware.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if slices.Contains(cfg.SkipPaths, path) || slices.ContainsFunc(cfg.SkipPathPrefixes, func(p string) bool {
			return strings.HasPrefix(path, p)
		}) {
			c.Next()
			return
		}

		telemetry.WithLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) map[string]string {
	labels := map[string]string{ProfilingLabelMethod: c.Request.Method}
	if route := c.FullPath(); route != "" {
		labels[ProfilingLabelRoute] = route
		if resource := resourceFromRoute(route); resource != "" {
			labels[ProfilingLabelResource] = resource
		}
	}
	if _, ok := c.Get(TenantIDKey); ok {
		labels[ProfilingLabelTenantID] = GetTenantID(c).String()
	}
	return labels
}

// resourceFromRoute returns the last static segment before the first path
// parameter: "/api/v1/store/warehouses/:id" yields "warehouses".
func resourceFromRoute(route string) string {
	var last string
	for _, part := range strings.Split(route, "/") {
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			break
		}
		if part == "api" || isVersionSegment(part) {
			continue
		}
		last = part
	}
	return last
}

func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for _, r := range segment[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
