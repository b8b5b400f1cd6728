package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/facturaec/dashboard/internal/application/gatewaytest"
	"github.com/facturaec/dashboard/internal/domain/identity"
	"github.com/facturaec/dashboard/internal/infrastructure/auth"
	"github.com/facturaec/dashboard/internal/infrastructure/config"
	"github.com/facturaec/dashboard/internal/infrastructure/session"
	"github.com/facturaec/dashboard/internal/interfaces/http/middleware"
	"github.com/facturaec/dashboard/internal/interfaces/web"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const (
	testTenant = "acme"
	testHost   = "acme.facturas.ec"
)

var (
	adminUser   = identity.User{ID: "u1", Nombre: "Ana Pérez", Email: "ana@acme.ec", Rol: identity.RolAdmin, SucursalID: "s1"}
	cashierUser = identity.User{ID: "u2", Nombre: "Luis Vera", Email: "luis@acme.ec", Rol: identity.RolCajero, SucursalID: "s2"}
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testEnv is a dashboard engine backed by a mock gateway. Routes registered
// on app require the session that signIn creates.
type testEnv struct {
	t        *testing.T
	gw       *gatewaytest.Gateway
	store    *session.MemoryStore
	tokens   *auth.SessionTokens
	sessions *middleware.Sessions
	base     BaseHandler
	pages    *PageHandler
	engine   *gin.Engine
	app      *gin.RouterGroup
	cookie   *http.Cookie
	sessID   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := session.NewMemoryStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	tokens := auth.NewSessionTokens("test-secret-test-secret-test-secret", "dashboard", time.Hour)
	sessions := middleware.NewSessions(middleware.SessionConfig{Store: store, Tokens: tokens, TTL: time.Hour})

	tmpl, err := web.Templates(web.Funcs())
	require.NoError(t, err)

	base := NewBaseHandler(sessions)
	pages := NewPageHandler(base, "FacturaEC", "facturas.ec")

	engine := gin.New()
	engine.SetHTMLTemplate(tmpl)
	engine.Use(middleware.ErrorHandler(pages.RenderError))
	engine.Use(middleware.TenantMiddleware(config.TenantConfig{BaseDomain: "facturas.ec", ReservedNames: []string{"www"}}))

	return &testEnv{
		t:        t,
		gw:       gatewaytest.New(t),
		store:    store,
		tokens:   tokens,
		sessions: sessions,
		base:     base,
		pages:    pages,
		engine:   engine,
		app:      engine.Group("/", middleware.RequireTenant(), sessions.RequireSession()),
	}
}

// signIn stores a session for user and uses its cookie on later requests
func (e *testEnv) signIn(user identity.User) {
	e.t.Helper()
	sess := session.New(testTenant, "backend-token", user, time.Hour, time.Now().Add(time.Hour))
	require.NoError(e.t, e.store.Save(context.Background(), sess))
	token, _, err := e.tokens.Issue(sess.ID, testTenant)
	require.NoError(e.t, err)
	e.cookie = &http.Cookie{Name: "dash_session", Value: token}
	e.sessID = sess.ID
}

// flashes returns the messages queued in the signed-in session
func (e *testEnv) flashes() []session.Flash {
	e.t.Helper()
	sess, err := e.store.Get(context.Background(), e.sessID)
	require.NoError(e.t, err)
	return sess.Flash
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(http.MethodGet, path, nil)
}

func (e *testEnv) post(path string, form url.Values) *httptest.ResponseRecorder {
	return e.do(http.MethodPost, path, form)
}

func (e *testEnv) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	return e.serve(req)
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	req.Host = testHost
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}
