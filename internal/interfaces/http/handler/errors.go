package handler

import (
	"net/http"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/infrastructure/logger"
	"github.com/facturaec/dashboard/internal/interfaces/http/dto"
	"github.com/facturaec/dashboard/internal/interfaces/http/middleware"
	"github.com/facturaec/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PageHandler renders the error pages and the public landing page
type PageHandler struct {
	BaseHandler
	appName    string
	baseDomain string
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(base BaseHandler, appName, baseDomain string) *PageHandler {
	return &PageHandler{BaseHandler: base, appName: appName, baseDomain: baseDomain}
}

// RenderError is the middleware.ErrorRenderer of the dashboard. Signed-in
// users keep the app shell; everyone else gets the public layout.
func (h *PageHandler) RenderError(c *gin.Context, status int, info dto.ErrorInfo) {
	if status >= http.StatusInternalServerError {
		logger.L(c.Request.Context()).Error("request failed",
			zap.Int("status", status),
			zap.String("code", info.Code),
			zap.Strings("errors", c.Errors.Errors()),
		)
	}

	ev := &view.ErrorView{Status: status, Code: info.Code, Message: info.Message}
	if status == http.StatusServiceUnavailable && c.Request.Method == http.MethodGet {
		ev.RetryHref = c.Request.URL.RequestURI()
	}
	page := view.Page{Title: errorTitle(status), Error: ev}
	if _, ok := middleware.CurrentUser(c); ok {
		h.Render(c, status, page)
		return
	}
	h.RenderPublic(c, status, page)
}

// NotFound handles unmatched routes
func (h *PageHandler) NotFound(c *gin.Context) {
	h.Fail(c, shared.ErrNotFound)
}

// Landing renders the public site when the request resolved to no tenant.
// Tenant requests continue to the dashboard home.
func (h *PageHandler) Landing(c *gin.Context) {
	if !middleware.IsPublic(c) {
		c.Next()
		return
	}
	h.RenderPublic(c, http.StatusOK, view.Page{
		Title:   h.appName,
		Landing: &view.Landing{AppName: h.appName, BaseDomain: h.baseDomain},
	})
	c.Abort()
}

func errorTitle(status int) string {
	switch status {
	case http.StatusNotFound:
		return "Página no encontrada"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "Acceso denegado"
	case http.StatusTooManyRequests:
		return "Demasiadas solicitudes"
	case http.StatusServiceUnavailable:
		return "Servicio no disponible"
	default:
		return "Error"
	}
}
