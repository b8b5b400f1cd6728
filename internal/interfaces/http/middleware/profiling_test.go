package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfiling_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	called := false
	router := gin.New()
	router.Use(Profiling(false))
	router.GET("/test", func(c *gin.Context) {
		called = true
		_, ok := pprof.Label(c.Request.Context(), "route")
		assert.False(t, ok)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestProfiling_AttachesLabels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var route, method, tenant string
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(TenantKey, "acme")
		c.Next()
	}, Profiling(true))
	router.GET("/facturas/:id", func(c *gin.Context) {
		ctx := c.Request.Context()
		route, _ = pprof.Label(ctx, "route")
		method, _ = pprof.Label(ctx, "method")
		tenant, _ = pprof.Label(ctx, "tenant")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/facturas/9", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/facturas/:id", route)
	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, "acme", tenant)
}

func TestProfiling_SkipsProbes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	labelled := true
	router := gin.New()
	router.Use(Profiling(true))
	router.GET("/healthz", func(c *gin.Context) {
		_, labelled = pprof.Label(c.Request.Context(), "route")
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.False(t, labelled)
}
