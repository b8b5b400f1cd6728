package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName is the name of the service for trace identification.
	ServiceName string
	// Enabled controls whether tracing is active.
	Enabled bool
	// SkipPaths are not traced (health probes, static assets).
	SkipPaths []string
}

// Tracing returns OpenTelemetry server span middleware. Spans are named
// "METHOD /route/:pattern"; static assets and probes are not traced.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}
	return otelgin.Middleware(cfg.ServiceName,
		otelgin.WithGinFilter(func(c *gin.Context) bool {
			return !skip[c.FullPath()] && c.FullPath() != "/static/*filepath"
		}),
	)
}

// SpanEnricher tags the server span with the request, tenant and user and
// marks 5xx responses as errors. It runs after the tenant and session
// middleware so their values are known.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if id := c.GetString("request_id"); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if tenant := GetTenant(c); tenant != "" {
			span.SetAttributes(attribute.String("tenant", tenant))
		}
		if user, ok := CurrentUser(c); ok {
			span.SetAttributes(attribute.String("user_id", user.ID.String()))
		}
		if last := c.Errors.Last(); last != nil {
			span.RecordError(last.Err)
		}
		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
