package sri

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/facturaec/dashboard/internal/domain/shared"
)

var (
	numeroDocumentoPattern = regexp.MustCompile(`^(\d{3})-(\d{3})-(\d{9})$`)
	periodoFiscalPattern   = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{4})$`)
	codigoSeriePattern     = regexp.MustCompile(`^\d{3}$`)
)

// Document number errors
var (
	ErrNumeroDocumentoInvalido = shared.NewDomainError(shared.CodeInvalidInput, "Número de documento inválido, formato EEE-PPP-SSSSSSSSS")
	ErrPeriodoFiscalInvalido   = shared.NewDomainError(shared.CodeInvalidInput, "Período fiscal inválido, formato MM/AAAA")
)

// NumeroDocumento is a document number split into establishment, emission
// point and sequence
type NumeroDocumento struct {
	Establecimiento string
	PuntoEmision    string
	Secuencial      string
}

// String formats the number as EEE-PPP-SSSSSSSSS
func (n NumeroDocumento) String() string {
	return fmt.Sprintf("%s-%s-%s", n.Establecimiento, n.PuntoEmision, n.Secuencial)
}

// ParseNumeroDocumento parses EEE-PPP-SSSSSSSSS
func ParseNumeroDocumento(s string) (NumeroDocumento, error) {
	m := numeroDocumentoPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return NumeroDocumento{}, ErrNumeroDocumentoInvalido
	}
	if m[1] == "000" || m[2] == "000" {
		return NumeroDocumento{}, ErrNumeroDocumentoInvalido
	}
	return NumeroDocumento{Establecimiento: m[1], PuntoEmision: m[2], Secuencial: m[3]}, nil
}

// ValidNumeroDocumento reports whether s is a well-formed document number
func ValidNumeroDocumento(s string) bool {
	_, err := ParseNumeroDocumento(s)
	return err == nil
}

// ValidCodigoSerie reports whether s is a 3-digit establishment or emission point code
func ValidCodigoSerie(s string) bool {
	return codigoSeriePattern.MatchString(s) && s != "000"
}

// PeriodoFiscal is a month of a fiscal year, written MM/YYYY
type PeriodoFiscal struct {
	Mes  time.Month
	Anio int
}

// String formats the period as MM/YYYY
func (p PeriodoFiscal) String() string {
	return fmt.Sprintf("%02d/%04d", int(p.Mes), p.Anio)
}

// ParsePeriodoFiscal parses MM/YYYY
func ParsePeriodoFiscal(s string) (PeriodoFiscal, error) {
	m := periodoFiscalPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return PeriodoFiscal{}, ErrPeriodoFiscalInvalido
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if year < 2000 {
		return PeriodoFiscal{}, ErrPeriodoFiscalInvalido
	}
	return PeriodoFiscal{Mes: time.Month(month), Anio: year}, nil
}

// ValidPeriodoFiscal reports whether s is a well-formed fiscal period
func ValidPeriodoFiscal(s string) bool {
	_, err := ParsePeriodoFiscal(s)
	return err == nil
}

// PeriodoDe returns the fiscal period containing t
func PeriodoDe(t time.Time) PeriodoFiscal {
	return PeriodoFiscal{Mes: t.Month(), Anio: t.Year()}
}
