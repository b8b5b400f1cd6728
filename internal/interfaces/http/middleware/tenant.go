package middleware

import (
	"net"
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/infrastructure/apiclient"
	"github.com/facturaec/dashboard/internal/infrastructure/config"
	"github.com/facturaec/dashboard/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// TenantKey stores the tenant slug in gin.Context
	TenantKey = "tenant"
	// TenantHeaderKey is the request override and the response echo header
	TenantHeaderKey = "X-Tenant"
)

// Where a tenant was read from
const (
	SourceNone      = ""
	SourceSubdomain = "subdomain"
	SourceHeader    = "header"
	SourceCookie    = "cookie"
)

// ErrUnknownTenant is returned for hosts naming an invalid tenant slug
var ErrUnknownTenant = shared.NewDomainError(shared.CodeNotFound, "Empresa no encontrada")

var tenantSlug = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// Resolution is the outcome of tenant detection for one request
type Resolution struct {
	Tenant  string
	Source  string
	Invalid bool
}

// Public reports whether the request targets the public site
func (r Resolution) Public() bool {
	return r.Tenant == "" && !r.Invalid
}

// ResolveTenant derives the tenant from the Host header, falling back to the
// X-Tenant header and then the tenant cookie on hosts outside the base domain.
//
//	acme.facturas.ec   -> acme
//	www.facturas.ec    -> public
//	acme.eu.facturas.ec -> acme
//	localhost:3000 + X-Tenant: acme -> acme
func ResolveTenant(host, header, cookie string, cfg config.TenantConfig) Resolution {
	host = normalizeHost(host)
	base := strings.ToLower(strings.TrimSuffix(cfg.BaseDomain, "."))

	if base != "" && (host == base || strings.HasSuffix(host, "."+base)) {
		if host == base {
			return Resolution{}
		}
		sub := strings.TrimSuffix(host, "."+base)
		label, _, _ := strings.Cut(sub, ".")
		return classify(label, SourceSubdomain, cfg.ReservedNames)
	}

	if cfg.HeaderEnabled {
		if v := strings.TrimSpace(header); v != "" {
			return classify(strings.ToLower(v), SourceHeader, cfg.ReservedNames)
		}
	}
	if cfg.CookieEnabled {
		if v := strings.TrimSpace(cookie); v != "" {
			return classify(strings.ToLower(v), SourceCookie, cfg.ReservedNames)
		}
	}
	return Resolution{}
}

func classify(label, source string, reserved []string) Resolution {
	if label == "www" || slices.Contains(reserved, label) {
		return Resolution{}
	}
	if !tenantSlug.MatchString(label) {
		return Resolution{Source: source, Invalid: true}
	}
	return Resolution{Tenant: label, Source: source}
}

func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.TrimSuffix(strings.ToLower(host), ".")
}

// TenantMiddleware resolves the tenant of every request. Unknown tenants
// abort with 404; public requests continue without a tenant.
func TenantMiddleware(cfg config.TenantConfig) gin.HandlerFunc {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "tenant"
	}

	return func(c *gin.Context) {
		cookie, _ := c.Cookie(cookieName)
		res := ResolveTenant(c.Request.Host, c.GetHeader(TenantHeaderKey), cookie, cfg)

		if res.Invalid {
			logger.L(c.Request.Context()).Debug("unknown tenant",
				zap.String("host", c.Request.Host),
				zap.String("source", res.Source))
			_ = c.Error(ErrUnknownTenant)
			c.Abort()
			return
		}

		if res.Tenant != "" {
			c.Set(TenantKey, res.Tenant)
			ctx := logger.WithTenant(c.Request.Context(), res.Tenant)
			ctx = apiclient.WithTenant(ctx, res.Tenant)
			c.Request = c.Request.WithContext(ctx)
			c.Header(TenantHeaderKey, res.Tenant)

			// Pin the tenant for same-host development so links keep working
			// without the header.
			if res.Source == SourceHeader && cfg.CookieEnabled {
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(cookieName, res.Tenant, 0, "/", "", false, true)
			}
		}

		c.Next()
	}
}

// GetTenant returns the tenant slug, empty on the public site
func GetTenant(c *gin.Context) string {
	return c.GetString(TenantKey)
}

// IsPublic reports whether the request targets the public site
func IsPublic(c *gin.Context) bool {
	return GetTenant(c) == ""
}

// RequireTenant rejects requests that resolved to the public site
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsPublic(c) {
			_ = c.Error(ErrUnknownTenant)
			c.Abort()
			return
		}
		c.Next()
	}
}
