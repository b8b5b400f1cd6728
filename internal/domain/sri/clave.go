package sri

import (
	"fmt"
	"strings"
	"time"

	"github.com/facturaec/dashboard/internal/domain/shared"
)

// ClaveAccesoLength is the number of digits in an access key
const ClaveAccesoLength = 49

// TipoComprobante is the two-digit document type code inside an access key
type TipoComprobante string

const (
	ComprobanteFactura     TipoComprobante = "01"
	ComprobanteLiquidacion TipoComprobante = "03"
	ComprobanteNotaCredito TipoComprobante = "04"
	ComprobanteNotaDebito  TipoComprobante = "05"
	ComprobanteGuia        TipoComprobante = "06"
	ComprobanteRetencion   TipoComprobante = "07"
)

var comprobanteNombres = map[TipoComprobante]string{
	ComprobanteFactura:     "Factura",
	ComprobanteLiquidacion: "Liquidación de compra",
	ComprobanteNotaCredito: "Nota de crédito",
	ComprobanteNotaDebito:  "Nota de débito",
	ComprobanteGuia:        "Guía de remisión",
	ComprobanteRetencion:   "Comprobante de retención",
}

// Nombre returns the document type's display name
func (t TipoComprobante) Nombre() string {
	if n, ok := comprobanteNombres[t]; ok {
		return n
	}
	return string(t)
}

// ErrClaveAccesoInvalida is returned for malformed access keys
var ErrClaveAccesoInvalida = shared.NewDomainError(shared.CodeInvalidInput, "Clave de acceso inválida")

// ClaveAcceso is a decomposed 49-digit access key
type ClaveAcceso struct {
	Raw             string
	FechaEmision    time.Time
	TipoComprobante TipoComprobante
	RUC             string
	Ambiente        Ambiente
	Serie           string
	Secuencial      string
	CodigoNumerico  string
	TipoEmision     string
	Verificador     int
}

// NumeroDocumento returns the key's document number as EEE-PPP-SSSSSSSSS
func (c ClaveAcceso) NumeroDocumento() string {
	return fmt.Sprintf("%s-%s-%s", c.Serie[:3], c.Serie[3:], c.Secuencial)
}

// DigitoVerificador computes the módulo 11 check digit of the first 48
// digits of an access key. Weights run 2..7 from the right; a result of 11
// becomes 0 and 10 becomes 1.
func DigitoVerificador(digits string) int {
	sum := 0
	weight := 2
	for i := len(digits) - 1; i >= 0; i-- {
		sum += digit(digits, i) * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	check := 11 - sum%11
	switch check {
	case 11:
		return 0
	case 10:
		return 1
	default:
		return check
	}
}

// ValidClaveAcceso reports whether key is 49 digits with a correct check digit
func ValidClaveAcceso(key string) bool {
	key = strings.TrimSpace(key)
	if len(key) != ClaveAccesoLength || !allDigits(key) {
		return false
	}
	return DigitoVerificador(key[:48]) == digit(key, 48)
}

// ParseClaveAcceso validates and decomposes an access key
func ParseClaveAcceso(key string) (ClaveAcceso, error) {
	key = strings.TrimSpace(key)
	if !ValidClaveAcceso(key) {
		return ClaveAcceso{}, ErrClaveAccesoInvalida
	}

	fecha, err := time.Parse("02012006", key[0:8])
	if err != nil {
		return ClaveAcceso{}, shared.WrapDomainError(shared.CodeInvalidInput, "Clave de acceso con fecha inválida", err)
	}

	return ClaveAcceso{
		Raw:             key,
		FechaEmision:    fecha,
		TipoComprobante: TipoComprobante(key[8:10]),
		RUC:             key[10:23],
		Ambiente:        Ambiente(key[23:24]),
		Serie:           key[24:30],
		Secuencial:      key[30:39],
		CodigoNumerico:  key[39:47],
		TipoEmision:     key[47:48],
		Verificador:     digit(key, 48),
	}, nil
}
