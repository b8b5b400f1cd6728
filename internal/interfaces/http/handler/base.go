package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/infrastructure/session"
	"github.com/facturaec/dashboard/internal/interfaces/http/dto"
	"github.com/facturaec/dashboard/internal/interfaces/http/middleware"
	"github.com/facturaec/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
)

const maxSearchLen = 100

// BaseHandler provides common page handler utilities
type BaseHandler struct {
	sessions *middleware.Sessions
}

// NewBaseHandler creates the helpers shared by every page handler
func NewBaseHandler(sessions *middleware.Sessions) BaseHandler {
	return BaseHandler{sessions: sessions}
}

// Render fills the layout fields of page and renders it inside the app shell.
// Queued flash messages are shown once and cleared.
func (h *BaseHandler) Render(c *gin.Context, status int, page view.Page) {
	page.Tenant = middleware.GetTenant(c)
	page.RequestID = c.GetString("request_id")
	if user, ok := middleware.CurrentUser(c); ok {
		page.User = &user
		page.Nav = view.BuildNav(c.Request.URL.Path, user)
	}
	if sess := middleware.CurrentSession(c); sess != nil && len(sess.Flash) > 0 {
		page.Flashes = append(view.Flashes(sess.PopFlashes()), page.Flashes...)
		h.sessions.Save(c)
	}
	c.HTML(status, view.LayoutApp, page)
}

// RenderPublic renders page inside the signed-out shell
func (h *BaseHandler) RenderPublic(c *gin.Context, status int, page view.Page) {
	page.Tenant = middleware.GetTenant(c)
	page.RequestID = c.GetString("request_id")
	c.HTML(status, view.LayoutPublic, page)
}

// Fail hands err to the error page middleware and stops the chain
func (h *BaseHandler) Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Flash queues a message for the next rendered page
func (h *BaseHandler) Flash(c *gin.Context, kind session.FlashKind, message string) {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return
	}
	sess.AddFlash(kind, message)
	h.sessions.Save(c)
}

// Redirect sends a 303 so the browser follows with a GET
func (h *BaseHandler) Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// Saved flashes a success message and redirects, the tail of every
// successful form post
func (h *BaseHandler) Saved(c *gin.Context, message, location string) {
	h.Flash(c, session.FlashSuccess, message)
	h.Redirect(c, location)
}

// FormFailed re-renders form with err applied when the error belongs on the
// form (validation, conflicts, backend unavailable). Errors that need the
// session or error page (UNAUTHORIZED, NOT_FOUND) are passed on instead.
func (h *BaseHandler) FormFailed(c *gin.Context, title string, form *view.Form, err error) {
	switch shared.CodeOf(err) {
	case shared.CodeUnauthorized, shared.CodeForbidden, shared.CodeNotFound:
		h.Fail(c, err)
		return
	}
	status, _ := dto.ErrorFrom(err)
	form.ApplyError(err)
	h.Render(c, status, view.Page{Title: title, Form: form})
}

// ActionFailed reports a failed button action (delete, resend, close) as a
// flash on the page the user came from. Session and missing-record errors go
// to the error page middleware.
func (h *BaseHandler) ActionFailed(c *gin.Context, err error, back string) {
	switch shared.CodeOf(err) {
	case shared.CodeUnauthorized, shared.CodeNotFound:
		h.Fail(c, err)
		return
	}
	if middleware.WantsJSON(c) {
		h.Fail(c, err)
		return
	}
	_, info := dto.ErrorFrom(err)
	h.Flash(c, session.FlashError, info.Message)
	h.Redirect(c, back)
}

// ListQuery reads the search term and page from the query string. Out of
// range numbers are left for shared.Paginate to clamp; unparsable ones read
// as zero, which means the default.
func ListQuery(c *gin.Context) shared.ListQuery {
	search := strings.TrimSpace(c.Query("q"))
	if r := []rune(search); len(r) > maxSearchLen {
		search = string(r[:maxSearchLen])
	}
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))
	return shared.ListQuery{Search: search, Page: page, PageSize: size}
}

// ListParams returns the list query as the values page links must keep
func ListParams(q shared.ListQuery, extra ...string) map[string]string {
	params := map[string]string{"q": q.Search}
	if q.PageSize > 0 && q.PageSize != shared.DefaultPageSize {
		params["page_size"] = strconv.Itoa(min(q.PageSize, shared.MaxPageSize))
	}
	for i := 0; i+1 < len(extra); i += 2 {
		params[extra[i]] = extra[i+1]
	}
	return params
}

// ParamID returns the :id path parameter
func ParamID(c *gin.Context) shared.ID {
	return shared.ID(c.Param("id"))
}

// Download streams a backend artifact as an attachment
func Download(c *gin.Context, file *shared.File) {
	c.Header("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(file.Name, `"`, "")+`"`)
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
