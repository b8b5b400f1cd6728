package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newPagesEnv(t *testing.T) *testEnv {
	env := newTestEnv(t)
	env.engine.NoRoute(env.pages.NotFound)
	env.engine.GET("/", env.pages.Landing, func(c *gin.Context) { c.String(http.StatusOK, "tenant home") })
	env.app.GET("/ventas", func(c *gin.Context) { env.base.Fail(c, shared.ErrUpstreamUnavailable) })
	env.app.POST("/ventas", func(c *gin.Context) { env.base.Fail(c, shared.ErrUpstreamUnavailable) })
	return env
}

func serveHost(env *testEnv, host, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = host
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

func TestPageHandler_Landing(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		status int
		want   string
	}{
		{name: "base domain shows the public site", host: "facturas.ec", status: http.StatusOK, want: "miempresa.facturas.ec"},
		{name: "www is public too", host: "www.facturas.ec", status: http.StatusOK, want: "FacturaEC"},
		{name: "tenant host continues to the dashboard", host: testHost, status: http.StatusOK, want: "tenant home"},
		{name: "malformed tenant is not found", host: "no_valido.facturas.ec", status: http.StatusNotFound, want: "Empresa no encontrada"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newPagesEnv(t)

			w := serveHost(env, tt.host, "/")

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestPageHandler_NotFound(t *testing.T) {
	t.Run("signed out gets the public layout", func(t *testing.T) {
		env := newPagesEnv(t)

		w := serveHost(env, testHost, "/no-existe")

		require.Equal(t, http.StatusNotFound, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `class="public"`)
		assert.Contains(t, body, "Página no encontrada")
		assert.Contains(t, body, shared.ErrNotFound.Message)
	})

	t.Run("json clients get the envelope", func(t *testing.T) {
		env := newPagesEnv(t)
		req := newRequest(http.MethodGet, "/no-existe")
		req.Header.Set("Accept", "application/json")

		w := env.serve(req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_NOT_FOUND","message":"`+shared.ErrNotFound.Message+`"}}`, w.Body.String())
	})
}

func TestPageHandler_RenderError_Unavailable(t *testing.T) {
	t.Run("GET offers a retry inside the app shell", func(t *testing.T) {
		env := newPagesEnv(t)
		env.signIn(adminUser)

		w := env.get("/ventas?desde=2025-03-01")

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `class="app"`)
		assert.Contains(t, body, "Servicio no disponible")
		assert.Contains(t, body, `href="/ventas?desde=2025-03-01"`)
		assert.Contains(t, body, "Reintentar")
	})

	t.Run("POST has no retry link", func(t *testing.T) {
		env := newPagesEnv(t)
		env.signIn(adminUser)

		w := env.post("/ventas", nil)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.NotContains(t, w.Body.String(), "Reintentar")
	})
}

func TestPageHandler_RenderError_LogsCauses(t *testing.T) {
	core, recorded := observer.New(zap.ErrorLevel)
	env := newPagesEnv(t)
	env.engine.GET("/fallo", func(c *gin.Context) {
		ctx := logger.WithContext(c.Request.Context(), zap.New(core))
		c.Request = c.Request.WithContext(ctx)
		_ = c.Error(errors.New("dial tcp 10.0.0.5:8080: connection refused"))
		env.base.Fail(c, shared.ErrUpstreamUnavailable)
	})

	w := serveHost(env, testHost, "/fallo")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	entries := recorded.FilterMessage("request failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusServiceUnavailable), fields["status"])
	assert.Contains(t, fields["errors"], "dial tcp 10.0.0.5:8080: connection refused")
}

func TestErrorTitle(t *testing.T) {
	assert.Equal(t, "Página no encontrada", errorTitle(http.StatusNotFound))
	assert.Equal(t, "Acceso denegado", errorTitle(http.StatusForbidden))
	assert.Equal(t, "Demasiadas solicitudes", errorTitle(http.StatusTooManyRequests))
	assert.Equal(t, "Error", errorTitle(http.StatusInternalServerError))
}
