package trade

import (
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FormaPago is the payment method of a POS sale
type FormaPago string

const (
	FormaPagoEfectivo      FormaPago = "EFECTIVO"
	FormaPagoTarjeta       FormaPago = "TARJETA"
	FormaPagoTransferencia FormaPago = "TRANSFERENCIA"
	FormaPagoCredito       FormaPago = "CREDITO"
)

// Label returns the display label
func (f FormaPago) Label() string {
	switch f {
	case FormaPagoEfectivo:
		return "Efectivo"
	case FormaPagoTarjeta:
		return "Tarjeta"
	case FormaPagoTransferencia:
		return "Transferencia"
	case FormaPagoCredito:
		return "Crédito"
	default:
		return string(f)
	}
}

// Venta is a point-of-sale sale
type Venta struct {
	ID         shared.ID       `json:"id"`
	Fecha      shared.Date     `json:"fecha"`
	SucursalID shared.ID       `json:"sucursal_id"`
	TurnoID    shared.ID       `json:"turno_id"`
	Cajero     string          `json:"cajero"`
	Total      decimal.Decimal `json:"total"`
	FormaPago  FormaPago       `json:"forma_pago"`
	FacturaID  shared.ID       `json:"factura_id"`
}

// Facturada reports whether an invoice was issued for the sale
func (v Venta) Facturada() bool {
	return !v.FacturaID.IsZero()
}

// SearchFields lists the values matched by the sales list search box
func (v Venta) SearchFields() []string {
	return []string{v.Cajero, string(v.FormaPago), v.FormaPago.Label()}
}
