package handler

import (
	"net/http"

	identityapp "github.com/facturaec/dashboard/internal/application/identity"
	"github.com/facturaec/dashboard/internal/domain/identity"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/infrastructure/logger"
	"github.com/facturaec/dashboard/internal/interfaces/http/dto"
	"github.com/facturaec/dashboard/internal/interfaces/http/middleware"
	"github.com/facturaec/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles sign-in and sign-out
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	sessions    *middleware.Sessions
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(base BaseHandler, authService *identityapp.AuthService, sessions *middleware.Sessions) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		authService: authService,
		sessions:    sessions,
	}
}

// LoginForm is the posted sign-in form
type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

// LoginPage renders the sign-in form. Signed-in users go straight to next.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	next := middleware.SafeNext(c.Query("next"))
	if _, ok := middleware.CurrentUser(c); ok {
		h.Redirect(c, next)
		return
	}
	h.RenderPublic(c, http.StatusOK, view.Page{Title: "Iniciar sesión", Login: &view.Login{Next: next}})
}

// Login exchanges the credentials for a backend token and starts a session
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginForm
	_ = c.ShouldBind(&req)
	next := middleware.SafeNext(req.Next)
	ctx := c.Request.Context()

	result, err := h.authService.Login(ctx, identity.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		h.loginFailed(c, req.Email, next, err)
		return
	}
	if _, err := h.sessions.Start(c, middleware.GetTenant(c), result); err != nil {
		logger.L(ctx).Error("failed to start session", zap.Error(err))
		h.loginFailed(c, req.Email, next, shared.ErrUpstreamUnavailable)
		return
	}

	logger.L(ctx).Info("user signed in",
		zap.String("user_id", result.User.ID.String()),
		zap.String("rol", string(result.User.Rol)),
	)
	h.Redirect(c, next)
}

// loginFailed re-renders the form with the error. The password is never
// echoed back.
func (h *AuthHandler) loginFailed(c *gin.Context, email, next string, err error) {
	status, info := dto.ErrorFrom(err)
	if status == http.StatusUnauthorized {
		logger.L(c.Request.Context()).Info("sign-in rejected")
	}
	h.RenderPublic(c, status, view.Page{
		Title: "Iniciar sesión",
		Login: &view.Login{Email: email, Next: next, Error: info.Message},
	})
}

// Logout revokes the backend token and clears the session
func (h *AuthHandler) Logout(c *gin.Context) {
	if middleware.CurrentSession(c) != nil {
		h.authService.Logout(c.Request.Context())
	}
	h.sessions.Destroy(c)
	h.Redirect(c, middleware.LoginPath)
}
