package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/facturaec/dashboard/internal/infrastructure/apiclient"
	"github.com/facturaec/dashboard/internal/infrastructure/config"
	"github.com/facturaec/dashboard/internal/infrastructure/logger"
	"github.com/facturaec/dashboard/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenantConfig() config.TenantConfig {
	return config.TenantConfig{
		BaseDomain:    "facturas.ec",
		ReservedNames: []string{"www", "app", "api", "admin", "static"},
		HeaderEnabled: true,
		CookieEnabled: true,
		CookieName:    "tenant",
	}
}

func TestResolveTenant(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		header string
		cookie string
		want   Resolution
	}{
		{"tenant subdomain", "acme.facturas.ec", "", "", Resolution{Tenant: "acme", Source: SourceSubdomain}},
		{"port stripped", "acme.facturas.ec:3000", "", "", Resolution{Tenant: "acme", Source: SourceSubdomain}},
		{"upper case host", "ACME.Facturas.EC", "", "", Resolution{Tenant: "acme", Source: SourceSubdomain}},
		{"trailing dot", "acme.facturas.ec.", "", "", Resolution{Tenant: "acme", Source: SourceSubdomain}},
		{"multi level uses left-most label", "acme.eu.facturas.ec", "", "", Resolution{Tenant: "acme", Source: SourceSubdomain}},
		{"base domain is public", "facturas.ec", "", "", Resolution{}},
		{"www is public", "www.facturas.ec", "", "", Resolution{}},
		{"reserved name is public", "admin.facturas.ec", "", "", Resolution{}},
		{"header ignored inside base domain", "www.facturas.ec", "acme", "", Resolution{}},
		{"invalid slug", "acme_corp.facturas.ec", "", "", Resolution{Source: SourceSubdomain, Invalid: true}},
		{"leading hyphen", "-acme.facturas.ec", "", "", Resolution{Source: SourceSubdomain, Invalid: true}},
		{"lookalike domain is not a subdomain", "acmefacturas.ec", "", "", Resolution{}},
		{"localhost uses header", "localhost:3000", "Acme", "", Resolution{Tenant: "acme", Source: SourceHeader}},
		{"header beats cookie", "localhost", "acme", "otra", Resolution{Tenant: "acme", Source: SourceHeader}},
		{"cookie fallback", "127.0.0.1:3000", "", "otra", Resolution{Tenant: "otra", Source: SourceCookie}},
		{"ipv6 with port", "[::1]:3000", "", "acme", Resolution{Tenant: "acme", Source: SourceCookie}},
		{"invalid header", "localhost", "../etc", "", Resolution{Source: SourceHeader, Invalid: true}},
		{"reserved header", "localhost", "api", "", Resolution{}},
		{"nothing is public", "localhost", "", "", Resolution{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTenant(tt.host, tt.header, tt.cookie, tenantConfig()))
		})
	}
}

func TestResolveTenant_DisabledFallbacks(t *testing.T) {
	cfg := tenantConfig()
	cfg.HeaderEnabled = false
	cfg.CookieEnabled = false

	assert.True(t, ResolveTenant("localhost", "acme", "acme", cfg).Public())
	assert.Equal(t, "acme", ResolveTenant("acme.facturas.ec", "", "", cfg).Tenant)
}

func TestResolveTenant_NoBaseDomain(t *testing.T) {
	cfg := tenantConfig()
	cfg.BaseDomain = ""

	assert.True(t, ResolveTenant("acme.facturas.ec", "", "", cfg).Public())
	assert.Equal(t, "acme", ResolveTenant("acme.facturas.ec", "acme", "", cfg).Tenant)
}

func newTenantRouter(cfg config.TenantConfig) (*gin.Engine, *string) {
	var rendered string
	router := gin.New()
	router.Use(ErrorHandler(func(c *gin.Context, status int, info dto.ErrorInfo) {
		rendered = info.Message
		c.String(status, info.Message)
	}))
	router.Use(TenantMiddleware(cfg))
	return router, &rendered
}

func TestTenantMiddleware(t *testing.T) {
	t.Run("stores tenant everywhere", func(t *testing.T) {
		router, _ := newTenantRouter(tenantConfig())
		var ginTenant, logTenant, apiTenant string
		router.GET("/", func(c *gin.Context) {
			ginTenant = GetTenant(c)
			logTenant = logger.GetTenant(c.Request.Context())
			creds, _ := apiclient.CredentialsFrom(c.Request.Context())
			apiTenant = creds.Tenant
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = "acme.facturas.ec"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "acme", ginTenant)
		assert.Equal(t, "acme", logTenant)
		assert.Equal(t, "acme", apiTenant)
		assert.Equal(t, "acme", w.Header().Get(TenantHeaderKey))
		assert.Empty(t, w.Result().Cookies(), "subdomain tenants need no cookie")
	})

	t.Run("header tenant is pinned in a cookie", func(t *testing.T) {
		router, _ := newTenantRouter(tenantConfig())
		router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = "localhost:3000"
		req.Header.Set(TenantHeaderKey, "acme")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "tenant", cookies[0].Name)
		assert.Equal(t, "acme", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("public request", func(t *testing.T) {
		router, _ := newTenantRouter(tenantConfig())
		var public bool
		router.GET("/", func(c *gin.Context) {
			public = IsPublic(c)
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = "www.facturas.ec"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.True(t, public)
		assert.Empty(t, w.Header().Get(TenantHeaderKey))
	})

	t.Run("invalid tenant renders 404", func(t *testing.T) {
		router, rendered := newTenantRouter(tenantConfig())
		called := false
		router.GET("/", func(c *gin.Context) { called = true })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = "bad_name.facturas.ec"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, called)
		assert.Equal(t, ErrUnknownTenant.Message, *rendered)
	})

	t.Run("invalid tenant as JSON", func(t *testing.T) {
		router, _ := newTenantRouter(tenantConfig())
		router.GET("/", func(c *gin.Context) {})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = "bad_name.facturas.ec"
		req.Header.Set("Accept", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_NOT_FOUND","message":"Empresa no encontrada"}}`, w.Body.String())
	})
}

func TestRequireTenant(t *testing.T) {
	router, _ := newTenantRouter(tenantConfig())
	router.GET("/app", RequireTenant(), func(c *gin.Context) { c.String(http.StatusOK, "app") })

	tests := []struct {
		host   string
		status int
	}{
		{"acme.facturas.ec", http.StatusOK},
		{"facturas.ec", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/app", nil)
			req.Host = tt.host
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
