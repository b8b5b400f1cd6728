package middleware

import (
	"context"

	"github.com/facturaec/dashboard/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling attaches Pyroscope labels (route, method, tenant) to the
// goroutine serving the request. Place it after TenantMiddleware.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || route == "/healthz" || route == "/readyz" || route == "/static/*filepath" {
			c.Next()
			return
		}
		labels := map[string]string{
			telemetry.LabelRoute:  route,
			telemetry.LabelMethod: c.Request.Method,
			telemetry.LabelTenant: GetTenant(c),
		}
		telemetry.WithLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
