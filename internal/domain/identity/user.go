package identity

import (
	"time"

	"github.com/facturaec/dashboard/internal/domain/shared"
)

// Rol is the user's role within the tenant
type Rol string

const (
	RolAdmin    Rol = "ADMIN"
	RolContador Rol = "CONTADOR"
	RolCajero   Rol = "CAJERO"
)

// User is the signed-in user as returned by the backend login
type User struct {
	ID         shared.ID `json:"id"`
	Nombre     string    `json:"nombre"`
	Email      string    `json:"email"`
	Rol        Rol       `json:"rol"`
	SucursalID shared.ID `json:"sucursal_id"`
}

// IsAdmin reports whether the user administers the tenant
func (u User) IsAdmin() bool {
	return u.Rol == RolAdmin
}

// Iniciales returns up to two initials for the avatar badge
func (u User) Iniciales() string {
	var out []rune
	newWord := true
	for _, r := range u.Nombre {
		if r == ' ' {
			newWord = true
			continue
		}
		if newWord {
			out = append(out, r)
			newWord = false
			if len(out) == 2 {
				break
			}
		}
	}
	return string(out)
}

// Credentials are posted to the backend login endpoint
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the backend's answer to a successful login
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}
