package trade

import (
	"github.com/facturaec/dashboard/internal/domain/billing"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CompraDetalle is one purchase line
type CompraDetalle struct {
	ProductoID    shared.ID       `json:"producto_id"`
	Descripcion   string          `json:"descripcion"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	CostoUnitario decimal.Decimal `json:"costo_unitario"`
}

// Subtotal returns cantidad × costo_unitario
func (d CompraDetalle) Subtotal() decimal.Decimal {
	return d.Cantidad.Mul(d.CostoUnitario)
}

// Compra is a supplier purchase registered from the supplier's document
type Compra struct {
	ID              shared.ID       `json:"id"`
	NumeroDocumento string          `json:"numero_documento"`
	Proveedor       billing.Parte   `json:"proveedor"`
	FechaEmision    shared.Date     `json:"fecha_emision"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	IVA             decimal.Decimal `json:"iva"`
	Total           decimal.Decimal `json:"total"`
	Detalles        []CompraDetalle `json:"detalles"`
	RetencionID     shared.ID       `json:"retencion_id"`
}

// TieneRetencion reports whether a withholding receipt exists for the purchase
func (c Compra) TieneRetencion() bool {
	return !c.RetencionID.IsZero()
}

// SearchFields lists the values matched by the purchase list search box
func (c Compra) SearchFields() []string {
	return []string{c.NumeroDocumento, c.Proveedor.Identificacion, c.Proveedor.RazonSocial}
}

// CompraInput is the create payload for a purchase
type CompraInput struct {
	NumeroDocumento string          `json:"numero_documento"`
	Proveedor       billing.Parte   `json:"proveedor"`
	FechaEmision    string          `json:"fecha_emision"`
	Detalles        []CompraDetalle `json:"detalles"`
}

// PreviewSubtotal sums the lines for display only
func (in CompraInput) PreviewSubtotal() decimal.Decimal {
	total := decimal.Zero
	for _, d := range in.Detalles {
		total = total.Add(d.Subtotal())
	}
	return total.Round(2)
}
