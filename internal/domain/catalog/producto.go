package catalog

import (
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
	"github.com/shopspring/decimal"
)

// Producto is a sellable item as returned by the backend
type Producto struct {
	ID           shared.ID       `json:"id"`
	Codigo       string          `json:"codigo"`
	CodigoBarras string          `json:"codigo_barras,omitempty"`
	Nombre       string          `json:"nombre"`
	Descripcion  string          `json:"descripcion,omitempty"`
	Precio       decimal.Decimal `json:"precio"`
	IVACodigo    string          `json:"iva_codigo"`
	Stock        decimal.Decimal `json:"stock"`
	StockMinimo  decimal.Decimal `json:"stock_minimo"`
	Activo       bool            `json:"activo"`
}

// BajoStock reports whether stock has reached the configured minimum
func (p Producto) BajoStock() bool {
	return p.StockMinimo.IsPositive() && p.Stock.LessThanOrEqual(p.StockMinimo)
}

// IVA returns the product's VAT rate, if its code is known
func (p Producto) IVA() (sri.IVATarifa, bool) {
	return sri.LookupIVA(p.IVACodigo)
}

// PrecioConIVA returns the unit price including VAT rounded to 2 places
func (p Producto) PrecioConIVA() decimal.Decimal {
	tarifa, ok := p.IVA()
	if !ok {
		return p.Precio.Round(2)
	}
	return p.Precio.Add(p.Precio.Mul(tarifa.Porcentaje).Div(decimal.NewFromInt(100))).Round(2)
}

// SearchFields lists the values matched by the product list search box
func (p Producto) SearchFields() []string {
	return []string{p.Codigo, p.CodigoBarras, p.Nombre}
}

// ProductoInput is the create/update payload sent to the backend
type ProductoInput struct {
	Codigo       string          `json:"codigo"`
	CodigoBarras string          `json:"codigo_barras,omitempty"`
	Nombre       string          `json:"nombre"`
	Descripcion  string          `json:"descripcion,omitempty"`
	Precio       decimal.Decimal `json:"precio"`
	IVACodigo    string          `json:"iva_codigo"`
	StockMinimo  decimal.Decimal `json:"stock_minimo"`
	Activo       bool            `json:"activo"`
}
