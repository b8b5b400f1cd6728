package organization

import (
	"time"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
)

// Configuracion is the tenant company's tax profile
type Configuracion struct {
	RUC                   string       `json:"ruc"`
	RazonSocial           string       `json:"razon_social"`
	NombreComercial       string       `json:"nombre_comercial,omitempty"`
	DireccionMatriz       string       `json:"direccion_matriz"`
	Ambiente              sri.Ambiente `json:"ambiente"`
	ObligadoContabilidad  bool         `json:"obligado_contabilidad"`
	ContribuyenteEspecial string       `json:"contribuyente_especial,omitempty"`
	EmailNotificaciones   string       `json:"email_notificaciones,omitempty"`
}

// Certificado describes the digital signature certificate loaded in the backend
type Certificado struct {
	Sujeto      string      `json:"sujeto"`
	Emisor      string      `json:"emisor"`
	ValidoDesde shared.Date `json:"valido_desde"`
	ValidoHasta shared.Date `json:"valido_hasta"`
	CargadoEn   shared.Date `json:"cargado_en"`
}

// Vigente reports whether the certificate is valid at t
func (c Certificado) Vigente(t time.Time) bool {
	if c.ValidoHasta.IsZero() {
		return false
	}
	return !t.Before(c.ValidoDesde.Time) && t.Before(c.ValidoHasta.Time)
}

// DiasRestantes returns the whole days left until expiry at t, negative once expired
func (c Certificado) DiasRestantes(t time.Time) int {
	return int(c.ValidoHasta.Sub(t).Hours() / 24)
}

// PorVencer reports whether the certificate expires within 30 days of t
func (c Certificado) PorVencer(t time.Time) bool {
	return c.Vigente(t) && c.DiasRestantes(t) < 30
}
