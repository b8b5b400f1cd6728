package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/facturaec/dashboard/internal/domain/identity"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/infrastructure/apiclient"
	"github.com/facturaec/dashboard/internal/infrastructure/auth"
	"github.com/facturaec/dashboard/internal/infrastructure/logger"
	"github.com/facturaec/dashboard/internal/infrastructure/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionKey stores the loaded *session.Session in gin.Context
const SessionKey = "session"

// LoginPath is where unauthenticated requests are sent
const LoginPath = "/login"

// SessionConfig holds configuration for the session manager
type SessionConfig struct {
	Store      session.Store
	Tokens     *auth.SessionTokens
	CookieName string
	TTL        time.Duration
	Secure     bool
	SameSite   http.SameSite
}

// Sessions issues, loads and destroys dashboard sessions
type Sessions struct {
	cfg SessionConfig
	now func() time.Time
}

// NewSessions creates a session manager
func NewSessions(cfg SessionConfig) *Sessions {
	if cfg.CookieName == "" {
		cfg.CookieName = "dash_session"
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = http.SameSiteLaxMode
	}
	return &Sessions{cfg: cfg, now: time.Now}
}

// ParseSameSite maps the configured same_site value to its cookie attribute
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// Start stores a new session for a successful login and sets the cookie
func (m *Sessions) Start(c *gin.Context, tenant string, login *identity.LoginResult) (*session.Session, error) {
	sess := session.New(tenant, login.Token, login.User, m.cfg.TTL, login.ExpiresAt)
	if err := m.cfg.Store.Save(c.Request.Context(), sess); err != nil {
		return nil, err
	}

	token, _, err := m.cfg.Tokens.Issue(sess.ID, tenant)
	if err != nil {
		_ = m.cfg.Store.Delete(c.Request.Context(), sess.ID)
		return nil, err
	}
	m.setCookie(c, token, int(sess.TTL(m.now()).Seconds()))
	c.Set(SessionKey, sess)
	return sess, nil
}

// Load returns the session named by the request cookie. The cookie must have
// been issued for the request's tenant.
func (m *Sessions) Load(c *gin.Context) (*session.Session, error) {
	raw, err := c.Cookie(m.cfg.CookieName)
	if err != nil || raw == "" {
		return nil, session.ErrNotFound
	}
	tenant := GetTenant(c)
	claims, err := m.cfg.Tokens.Parse(raw, tenant)
	if err != nil {
		return nil, err
	}
	sess, err := m.cfg.Store.Get(c.Request.Context(), claims.SessionID)
	if err != nil {
		return nil, err
	}
	if sess.Tenant != tenant || sess.Expired(m.now()) {
		return nil, session.ErrNotFound
	}
	return sess, nil
}

// Save persists changes made to the request's session, e.g. flash messages
func (m *Sessions) Save(c *gin.Context) {
	sess := CurrentSession(c)
	if sess == nil {
		return
	}
	if err := m.cfg.Store.Save(c.Request.Context(), sess); err != nil {
		logger.L(c.Request.Context()).Warn("failed to save session", zap.Error(err))
	}
}

// Destroy deletes the session and clears the cookie
func (m *Sessions) Destroy(c *gin.Context) {
	if sess := CurrentSession(c); sess != nil {
		if err := m.cfg.Store.Delete(c.Request.Context(), sess.ID); err != nil {
			logger.L(c.Request.Context()).Warn("failed to delete session", zap.Error(err))
		}
	}
	m.setCookie(c, "", -1)
	c.Set(SessionKey, nil)
}

func (m *Sessions) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(m.cfg.SameSite)
	c.SetCookie(m.cfg.CookieName, value, maxAge, "/", "", m.cfg.Secure, true)
}

// Optional loads the session when present without requiring it. Used by the
// login page to skip the form for signed-in users.
func (m *Sessions) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess, err := m.Load(c); err == nil {
			m.attach(c, sess)
		}
		c.Next()
	}
}

// RequireSession loads the session or redirects to the login page. A backend
// UNAUTHORIZED raised while handling the request destroys the session.
func (m *Sessions) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := m.Load(c)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				logger.L(c.Request.Context()).Info("rejected session cookie", zap.Error(err))
			}
			m.setCookie(c, "", -1)
			m.redirectToLogin(c)
			c.Abort()
			return
		}
		m.attach(c, sess)

		c.Next()

		if last := c.Errors.Last(); last != nil && shared.IsCode(last.Err, shared.CodeUnauthorized) && !c.Writer.Written() {
			logger.L(c.Request.Context()).Info("backend rejected session token, signing out")
			m.Destroy(c)
			m.redirectToLogin(c)
		}
	}
}

func (m *Sessions) attach(c *gin.Context, sess *session.Session) {
	c.Set(SessionKey, sess)
	ctx := apiclient.WithCredentials(c.Request.Context(), apiclient.Credentials{Token: sess.Token, Tenant: sess.Tenant})
	ctx = logger.WithUserID(ctx, sess.User.ID.String())
	c.Request = c.Request.WithContext(ctx)
}

func (m *Sessions) redirectToLogin(c *gin.Context) {
	if WantsJSON(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   gin.H{"code": "ERR_UNAUTHORIZED", "message": shared.ErrUnauthorized.Message},
		})
		return
	}
	target := LoginPath
	if c.Request.Method == http.MethodGet {
		target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	}
	c.Redirect(http.StatusSeeOther, target)
}

// CurrentSession returns the request's session, nil when signed out
func CurrentSession(c *gin.Context) *session.Session {
	sess, _ := c.Get(SessionKey)
	s, _ := sess.(*session.Session)
	return s
}

// CurrentUser returns the signed-in user
func CurrentUser(c *gin.Context) (identity.User, bool) {
	if sess := CurrentSession(c); sess != nil {
		return sess.User, true
	}
	return identity.User{}, false
}

// SafeNext returns next when it is a local path, "/" otherwise
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Host != "" || u.Scheme != "" || u.Path == LoginPath {
		return "/"
	}
	return next
}

// RequireAdmin rejects users without the ADMIN role with 403. It must run
// after RequireSession.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := CurrentUser(c); !ok || !user.IsAdmin() {
			_ = c.Error(shared.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
