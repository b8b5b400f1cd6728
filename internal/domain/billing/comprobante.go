package billing

import (
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
	"github.com/shopspring/decimal"
)

// Parte identifies the customer or supplier on a document
type Parte struct {
	Identificacion string `json:"identificacion"`
	RazonSocial    string `json:"razon_social"`
	Email          string `json:"email,omitempty"`
}

// Mensaje is one SRI processing message attached to a document
type Mensaje struct {
	Identificador        string `json:"identificador,omitempty"`
	Mensaje              string `json:"mensaje"`
	InformacionAdicional string `json:"informacion_adicional,omitempty"`
	Tipo                 string `json:"tipo,omitempty"`
}

// EstadoSRI is the status-polling payload of an electronic document
type EstadoSRI struct {
	ID                 shared.ID   `json:"id"`
	Estado             sri.Estado  `json:"estado"`
	Mensajes           []Mensaje   `json:"mensajes,omitempty"`
	FechaAutorizacion  shared.Date `json:"fecha_autorizacion"`
	NumeroAutorizacion string      `json:"numero_autorizacion,omitempty"`
}

// Final reports whether polling can stop
func (e EstadoSRI) Final() bool {
	return e.Estado.IsFinal()
}

// Factura is an electronic invoice
type Factura struct {
	ID           shared.ID       `json:"id"`
	Numero       string          `json:"numero"`
	ClaveAcceso  string          `json:"clave_acceso"`
	FechaEmision shared.Date     `json:"fecha_emision"`
	Cliente      Parte           `json:"cliente"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	IVA          decimal.Decimal `json:"iva"`
	Total        decimal.Decimal `json:"total"`
	Estado       sri.Estado      `json:"estado"`
	Mensajes     []Mensaje       `json:"mensajes,omitempty"`
	SucursalID   shared.ID       `json:"sucursal_id"`
	Detalles     []FacturaLinea  `json:"detalles,omitempty"`
}

// FacturaLinea is one invoice line
type FacturaLinea struct {
	ProductoID     shared.ID       `json:"producto_id"`
	Descripcion    string          `json:"descripcion"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// SearchFields lists the values matched by the invoice list search box
func (f Factura) SearchFields() []string {
	return []string{f.Numero, f.ClaveAcceso, f.Cliente.Identificacion, f.Cliente.RazonSocial}
}

// NotaCredito is an electronic credit note issued against an invoice
type NotaCredito struct {
	ID            shared.ID       `json:"id"`
	Numero        string          `json:"numero"`
	FacturaID     shared.ID       `json:"factura_id"`
	FacturaNumero string          `json:"factura_numero"`
	Motivo        string          `json:"motivo"`
	Total         decimal.Decimal `json:"total"`
	Estado        sri.Estado      `json:"estado"`
	FechaEmision  shared.Date     `json:"fecha_emision"`
	ClaveAcceso   string          `json:"clave_acceso"`
}

// SearchFields lists the values matched by the credit note list search box
func (n NotaCredito) SearchFields() []string {
	return []string{n.Numero, n.FacturaNumero, n.Motivo, n.ClaveAcceso}
}

// NotaCreditoInput is the create payload for a credit note
type NotaCreditoInput struct {
	FacturaID shared.ID       `json:"factura_id"`
	Motivo    string          `json:"motivo"`
	Total     decimal.Decimal `json:"total"`
}

// RetencionDetalle is one withholding line
type RetencionDetalle struct {
	Codigo        string          `json:"codigo"`
	BaseImponible decimal.Decimal `json:"base_imponible"`
	Porcentaje    decimal.Decimal `json:"porcentaje"`
	Valor         decimal.Decimal `json:"valor"`
}

// Retencion is an electronic withholding receipt issued for a purchase
type Retencion struct {
	ID            shared.ID          `json:"id"`
	Numero        string             `json:"numero"`
	CompraID      shared.ID          `json:"compra_id"`
	Proveedor     Parte              `json:"proveedor"`
	PeriodoFiscal string             `json:"periodo_fiscal"`
	Detalles      []RetencionDetalle `json:"detalles"`
	Total         decimal.Decimal    `json:"total"`
	Estado        sri.Estado         `json:"estado"`
	FechaEmision  shared.Date        `json:"fecha_emision"`
	ClaveAcceso   string             `json:"clave_acceso"`
}

// SearchFields lists the values matched by the withholding list search box
func (r Retencion) SearchFields() []string {
	return []string{r.Numero, r.Proveedor.Identificacion, r.Proveedor.RazonSocial, r.PeriodoFiscal}
}

// RetencionInput is the create payload for a withholding receipt
type RetencionInput struct {
	CompraID      shared.ID          `json:"compra_id"`
	PeriodoFiscal string             `json:"periodo_fiscal"`
	Detalles      []RetencionDetalle `json:"detalles"`
}

// PreviewTotal sums the display-only withheld amounts of the lines
func (in RetencionInput) PreviewTotal() decimal.Decimal {
	total := decimal.Zero
	for _, d := range in.Detalles {
		total = total.Add(sri.RetencionValor(d.BaseImponible, d.Porcentaje))
	}
	return total
}
