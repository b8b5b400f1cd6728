package sri

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// Ambiente is the SRI environment a company emits to
type Ambiente string

const (
	AmbientePruebas    Ambiente = "1"
	AmbienteProduccion Ambiente = "2"
)

// Label returns the display label
func (a Ambiente) Label() string {
	switch a {
	case AmbientePruebas:
		return "Pruebas"
	case AmbienteProduccion:
		return "Producción"
	default:
		return string(a)
	}
}

// IsValid reports whether a is pruebas or producción
func (a Ambiente) IsValid() bool {
	return a == AmbientePruebas || a == AmbienteProduccion
}

// MarshalJSON writes the environment as the number the backend stores
func (a Ambiente) MarshalJSON() ([]byte, error) {
	if !a.IsValid() {
		return []byte("null"), nil
	}
	return []byte(a), nil
}

// UnmarshalJSON accepts 1, "1" or null
func (a *Ambiente) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return errors.New("ambiente must be 1 or 2")
		}
		s = n.String()
	}
	*a = Ambiente(s)
	return nil
}

// IVATarifa is one SRI VAT rate code
type IVATarifa struct {
	Codigo     string
	Nombre     string
	Porcentaje decimal.Decimal
}

// IVATarifas are the VAT rate codes accepted on products, in display order
var IVATarifas = []IVATarifa{
	{Codigo: "0", Nombre: "IVA 0%", Porcentaje: decimal.Zero},
	{Codigo: "2", Nombre: "IVA 12%", Porcentaje: decimal.NewFromInt(12)},
	{Codigo: "3", Nombre: "IVA 14%", Porcentaje: decimal.NewFromInt(14)},
	{Codigo: "4", Nombre: "IVA 15%", Porcentaje: decimal.NewFromInt(15)},
	{Codigo: "5", Nombre: "IVA 5%", Porcentaje: decimal.NewFromInt(5)},
	{Codigo: "6", Nombre: "No objeto de IVA", Porcentaje: decimal.Zero},
	{Codigo: "7", Nombre: "Exento de IVA", Porcentaje: decimal.Zero},
	{Codigo: "8", Nombre: "IVA diferenciado", Porcentaje: decimal.Zero},
	{Codigo: "10", Nombre: "IVA 13%", Porcentaje: decimal.NewFromInt(13)},
}

// LookupIVA returns the rate for code
func LookupIVA(code string) (IVATarifa, bool) {
	for _, t := range IVATarifas {
		if t.Codigo == code {
			return t, true
		}
	}
	return IVATarifa{}, false
}

// IVATarifasFor returns the rates whose codes appear in codes, keeping display order.
// An empty codes slice returns every rate.
func IVATarifasFor(codes []string) []IVATarifa {
	if len(codes) == 0 {
		return IVATarifas
	}
	allowed := make(map[string]bool, len(codes))
	for _, c := range codes {
		allowed[c] = true
	}
	out := make([]IVATarifa, 0, len(codes))
	for _, t := range IVATarifas {
		if allowed[t.Codigo] {
			out = append(out, t)
		}
	}
	return out
}

// RetencionValor is the display-only withheld amount: base × porcentaje / 100
// rounded to 2 places
func RetencionValor(base, porcentaje decimal.Decimal) decimal.Decimal {
	return base.Mul(porcentaje).Div(decimal.NewFromInt(100)).Round(2)
}
