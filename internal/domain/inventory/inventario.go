package inventory

import (
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TipoAjuste is the direction of a stock adjustment
type TipoAjuste string

const (
	AjusteEntrada TipoAjuste = "ENTRADA"
	AjusteSalida  TipoAjuste = "SALIDA"
)

// Label returns the display label
func (t TipoAjuste) Label() string {
	switch t {
	case AjusteEntrada:
		return "Entrada"
	case AjusteSalida:
		return "Salida"
	default:
		return string(t)
	}
}

// Ajuste is a manual stock adjustment
type Ajuste struct {
	ID             shared.ID       `json:"id"`
	ProductoID     shared.ID       `json:"producto_id"`
	ProductoNombre string          `json:"producto_nombre"`
	SucursalID     shared.ID       `json:"sucursal_id"`
	Tipo           TipoAjuste      `json:"tipo"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	Motivo         string          `json:"motivo"`
	Fecha          shared.Date     `json:"fecha"`
}

// SearchFields lists the values matched by the adjustment list search box
func (a Ajuste) SearchFields() []string {
	return []string{a.ProductoNombre, a.Motivo, string(a.Tipo)}
}

// AjusteInput is the create payload for an adjustment
type AjusteInput struct {
	ProductoID shared.ID       `json:"producto_id"`
	SucursalID shared.ID       `json:"sucursal_id"`
	Tipo       TipoAjuste      `json:"tipo"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	Motivo     string          `json:"motivo"`
}

// Transferencia moves stock between two branches
type Transferencia struct {
	ID             shared.ID       `json:"id"`
	ProductoID     shared.ID       `json:"producto_id"`
	ProductoNombre string          `json:"producto_nombre"`
	OrigenID       shared.ID       `json:"origen_id"`
	DestinoID      shared.ID       `json:"destino_id"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	Estado         string          `json:"estado"`
	Fecha          shared.Date     `json:"fecha"`
}

// SearchFields lists the values matched by the transfer list search box
func (t Transferencia) SearchFields() []string {
	return []string{t.ProductoNombre, t.Estado}
}

// TransferenciaInput is the create payload for a transfer
type TransferenciaInput struct {
	ProductoID shared.ID       `json:"producto_id"`
	OrigenID   shared.ID       `json:"origen_id"`
	DestinoID  shared.ID       `json:"destino_id"`
	Cantidad   decimal.Decimal `json:"cantidad"`
}

// AuditoriaItem compares system and counted stock for one product
type AuditoriaItem struct {
	ProductoNombre string          `json:"producto_nombre"`
	StockSistema   decimal.Decimal `json:"stock_sistema"`
	StockFisico    decimal.Decimal `json:"stock_fisico"`
	Diferencia     decimal.Decimal `json:"diferencia"`
}

// Descuadre reports whether the counted stock differs from the system
func (i AuditoriaItem) Descuadre() bool {
	return !i.Diferencia.IsZero()
}

// Auditoria is a physical stock count
type Auditoria struct {
	ID          shared.ID       `json:"id"`
	SucursalID  shared.ID       `json:"sucursal_id"`
	Fecha       shared.Date     `json:"fecha"`
	Responsable string          `json:"responsable"`
	Estado      string          `json:"estado"`
	Items       []AuditoriaItem `json:"items"`
}

// Descuadres returns the items whose count differs from the system stock
func (a Auditoria) Descuadres() []AuditoriaItem {
	out := make([]AuditoriaItem, 0)
	for _, item := range a.Items {
		if item.Descuadre() {
			out = append(out, item)
		}
	}
	return out
}

// SearchFields lists the values matched by the audit list search box
func (a Auditoria) SearchFields() []string {
	return []string{a.Responsable, a.Estado}
}
