package sri

import (
	"strings"

	"github.com/facturaec/dashboard/internal/domain/shared"
)

// IdentificacionTipo classifies a taxpayer identification number
type IdentificacionTipo string

const (
	TipoCedula          IdentificacionTipo = "CEDULA"
	TipoRUCNatural      IdentificacionTipo = "RUC_NATURAL"
	TipoRUCPrivada      IdentificacionTipo = "RUC_SOCIEDAD_PRIVADA"
	TipoRUCPublica      IdentificacionTipo = "RUC_SOCIEDAD_PUBLICA"
	TipoConsumidorFinal IdentificacionTipo = "CONSUMIDOR_FINAL"
)

// ConsumidorFinalRUC identifies an anonymous final consumer
const ConsumidorFinalRUC = "9999999999999"

const (
	maxProvincia         = 24
	provinciaExtranjeros = 30
)

// Identification errors
var (
	ErrIdentificacionInvalida = shared.NewDomainError(shared.CodeInvalidInput, "Número de identificación inválido")
	ErrCedulaInvalida         = shared.NewDomainError(shared.CodeInvalidInput, "Cédula inválida")
	ErrRUCInvalido            = shared.NewDomainError(shared.CodeInvalidInput, "RUC inválido")
)

// ClassifyIdentificacion validates id as a cédula, a RUC or the final
// consumer RUC and reports which one it is
func ClassifyIdentificacion(id string) (IdentificacionTipo, error) {
	id = strings.TrimSpace(id)
	switch len(id) {
	case 10:
		if ValidCedula(id) {
			return TipoCedula, nil
		}
		return "", ErrCedulaInvalida
	case 13:
		if id == ConsumidorFinalRUC {
			return TipoConsumidorFinal, nil
		}
		if tipo, ok := classifyRUC(id); ok {
			return tipo, nil
		}
		return "", ErrRUCInvalido
	default:
		return "", ErrIdentificacionInvalida
	}
}

// ValidIdentificacion reports whether id is a valid cédula or RUC
func ValidIdentificacion(id string) bool {
	_, err := ClassifyIdentificacion(id)
	return err == nil
}

// ValidCedula checks a 10-digit national id: province code, third digit and
// the módulo 10 check digit
func ValidCedula(cedula string) bool {
	if len(cedula) != 10 || !allDigits(cedula) {
		return false
	}
	if !validProvincia(cedula) || digit(cedula, 2) >= 6 {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		d := digit(cedula, i)
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	check := (10 - sum%10) % 10
	return check == digit(cedula, 9)
}

// ValidRUC checks a 13-digit taxpayer id of any kind, including the final consumer RUC
func ValidRUC(ruc string) bool {
	if ruc == ConsumidorFinalRUC {
		return true
	}
	_, ok := classifyRUC(ruc)
	return ok
}

func classifyRUC(ruc string) (IdentificacionTipo, bool) {
	if len(ruc) != 13 || !allDigits(ruc) || !validProvincia(ruc) {
		return "", false
	}

	switch third := digit(ruc, 2); {
	case third < 6:
		if ValidCedula(ruc[:10]) && ruc[10:] != "000" {
			return TipoRUCNatural, true
		}
	case third == 6:
		if modulo11(ruc[:8], []int{3, 2, 7, 6, 5, 4, 3, 2}) == digit(ruc, 8) && ruc[9:] != "0000" {
			return TipoRUCPublica, true
		}
	case third == 9:
		if modulo11(ruc[:9], []int{4, 3, 2, 7, 6, 5, 4, 3, 2}) == digit(ruc, 9) && ruc[10:] != "000" {
			return TipoRUCPrivada, true
		}
	}
	return "", false
}

// modulo11 returns the company RUC check digit, or -1 when the remainder
// leaves no valid digit
func modulo11(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += digit(digits, i) * w
	}
	check := 11 - sum%11
	switch check {
	case 11:
		return 0
	case 10:
		return -1
	default:
		return check
	}
}

func validProvincia(id string) bool {
	p := digit(id, 0)*10 + digit(id, 1)
	return (p >= 1 && p <= maxProvincia) || p == provinciaExtranjeros
}

func digit(s string, i int) int {
	return int(s[i] - '0')
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
