package identity

import (
	"context"
	"testing"
	"time"

	"github.com/facturaec/dashboard/internal/application/gatewaytest"
	"github.com/facturaec/dashboard/internal/domain/identity"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func newService(gw shared.Gateway) *AuthService {
	s := NewAuthService(gw)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestAuthService_Login(t *testing.T) {
	creds := identity.Credentials{Email: "ana@acme.ec", Password: "secreto"}

	t.Run("success", func(t *testing.T) {
		gw := gatewaytest.New(t)
		gw.On("Post", mock.Anything, "/auth/login", creds).Return(map[string]any{
			"token":      "backend-token",
			"expires_at": fixedNow.Add(8 * time.Hour),
			"user":       map[string]any{"id": 5, "nombre": "Ana Pérez", "rol": "ADMIN"},
		}, nil)

		res, err := newService(gw).Login(context.Background(), identity.Credentials{Email: "  ana@acme.ec ", Password: "secreto"})
		require.NoError(t, err)
		assert.Equal(t, "backend-token", res.Token)
		assert.Equal(t, shared.ID("5"), res.User.ID)
		assert.True(t, res.User.IsAdmin())
	})

	t.Run("backend rejects credentials", func(t *testing.T) {
		gw := gatewaytest.New(t)
		gw.On("Post", mock.Anything, "/auth/login", creds).Return(nil, shared.ErrUnauthorized)

		_, err := newService(gw).Login(context.Background(), creds)
		assert.Equal(t, ErrInvalidCredentials, err)
	})

	t.Run("backend down is reported as such", func(t *testing.T) {
		gw := gatewaytest.New(t)
		gw.On("Post", mock.Anything, "/auth/login", creds).Return(nil, shared.ErrUpstreamUnavailable)

		_, err := newService(gw).Login(context.Background(), creds)
		assert.True(t, shared.IsCode(err, shared.CodeUpstreamUnavailable))
	})

	t.Run("already expired token", func(t *testing.T) {
		gw := gatewaytest.New(t)
		gw.On("Post", mock.Anything, "/auth/login", creds).Return(map[string]any{
			"token": "t", "expires_at": fixedNow.Add(-time.Minute),
		}, nil)

		_, err := newService(gw).Login(context.Background(), creds)
		assert.Equal(t, ErrInvalidCredentials, err)
	})

	t.Run("missing token", func(t *testing.T) {
		gw := gatewaytest.New(t)
		gw.On("Post", mock.Anything, "/auth/login", creds).Return(map[string]any{"expires_at": fixedNow.Add(time.Hour)}, nil)

		_, err := newService(gw).Login(context.Background(), creds)
		assert.True(t, shared.IsCode(err, shared.CodeUpstreamUnavailable))
	})

	tests := []struct {
		name   string
		creds  identity.Credentials
		fields []string
	}{
		{"empty form", identity.Credentials{}, []string{"email", "password"}},
		{"malformed email", identity.Credentials{Email: "ana", Password: "x"}, []string{"email"}},
		{"missing password", identity.Credentials{Email: "ana@acme.ec"}, []string{"password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService(gatewaytest.New(t)).Login(context.Background(), tt.creds)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, shared.CodeValidation, de.Code)
			assert.Len(t, de.Fields, len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, de.Fields, f)
			}
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	gw := gatewaytest.New(t)
	gw.On("Post", mock.Anything, "/auth/logout", nil).Return(nil, shared.ErrUpstreamUnavailable).Once()

	newService(gw).Logout(context.Background())
}
