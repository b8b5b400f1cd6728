package billing

import (
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TipoImpuesto classifies a tax
type TipoImpuesto string

const (
	TipoIVA         TipoImpuesto = "IVA"
	TipoICE         TipoImpuesto = "ICE"
	TipoRenta       TipoImpuesto = "RENTA"
	TipoIVARetenido TipoImpuesto = "IVA_RETENIDO"
)

// TiposImpuesto lists the tax kinds offered in forms
var TiposImpuesto = []TipoImpuesto{TipoIVA, TipoICE, TipoRenta, TipoIVARetenido}

// Label returns the display label
func (t TipoImpuesto) Label() string {
	switch t {
	case TipoIVA:
		return "IVA"
	case TipoICE:
		return "ICE"
	case TipoRenta:
		return "Retención en la fuente"
	case TipoIVARetenido:
		return "Retención de IVA"
	default:
		return string(t)
	}
}

// Impuesto is a tax rate configured for the tenant
type Impuesto struct {
	ID         shared.ID       `json:"id"`
	Codigo     string          `json:"codigo"`
	Nombre     string          `json:"nombre"`
	Tipo       TipoImpuesto    `json:"tipo"`
	Porcentaje decimal.Decimal `json:"porcentaje"`
	Activo     bool            `json:"activo"`
}

// SearchFields lists the values matched by the tax list search box
func (i Impuesto) SearchFields() []string {
	return []string{i.Codigo, i.Nombre, string(i.Tipo)}
}

// ImpuestoInput is the create/update payload for a tax
type ImpuestoInput struct {
	Codigo     string          `json:"codigo"`
	Nombre     string          `json:"nombre"`
	Tipo       TipoImpuesto    `json:"tipo"`
	Porcentaje decimal.Decimal `json:"porcentaje"`
	Activo     bool            `json:"activo"`
}

// IsValid reports whether t is a known tax kind
func (t TipoImpuesto) IsValid() bool {
	for _, known := range TiposImpuesto {
		if t == known {
			return true
		}
	}
	return false
}
