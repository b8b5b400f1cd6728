package identity

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/facturaec/dashboard/internal/domain/identity"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const (
	loginPath  = "/auth/login"
	logoutPath = "/auth/logout"
)

// ErrInvalidCredentials is shown on the login form when the backend refuses
// the email/password pair
var ErrInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "Correo o contraseña incorrectos")

// AuthService signs users in and out against the backend
type AuthService struct {
	gateway shared.Gateway
	now     func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(gateway shared.Gateway) *AuthService {
	return &AuthService{gateway: gateway, now: time.Now}
}

// Login exchanges credentials for a backend token. The context must carry
// the tenant the user is signing into.
func (s *AuthService) Login(ctx context.Context, creds identity.Credentials) (*identity.LoginResult, error) {
	creds.Email = strings.TrimSpace(creds.Email)

	fields := shared.FieldErrors{}
	if creds.Email == "" {
		fields.Add("email", "Campo requerido")
	} else if _, err := mail.ParseAddress(creds.Email); err != nil {
		fields.Add("email", "Correo electrónico no válido")
	}
	fields.Check(creds.Password != "", "password", "Campo requerido")
	if err := fields.Err("Ingrese su correo y contraseña"); err != nil {
		return nil, err
	}

	var res identity.LoginResult
	if err := s.gateway.Post(ctx, loginPath, creds, &res); err != nil {
		if shared.IsCode(err, shared.CodeUnauthorized) || shared.IsCode(err, shared.CodeValidation) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if res.Token == "" {
		return nil, shared.NewDomainError(shared.CodeUpstreamUnavailable, "El servicio de autenticación devolvió una respuesta incompleta")
	}
	if !res.ExpiresAt.After(s.now()) {
		return nil, ErrInvalidCredentials
	}
	return &res, nil
}

// Logout tells the backend to revoke the token. Failures are logged and
// ignored since the local session is destroyed regardless.
func (s *AuthService) Logout(ctx context.Context) {
	if err := s.gateway.Post(ctx, logoutPath, nil, nil); err != nil {
		logger.L(ctx).Warn("backend logout failed", zap.Error(err))
	}
}
