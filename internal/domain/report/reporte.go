package report

import (
	"time"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaxRangoDias is the longest date range a sales report may cover
const MaxRangoDias = 366

// Report range errors
var (
	ErrRangoInvertido = shared.NewDomainError(shared.CodeInvalidInput, "La fecha desde debe ser anterior o igual a la fecha hasta")
	ErrRangoExcedido  = shared.NewDomainError(shared.CodeInvalidInput, "El rango de fechas no puede superar 366 días")
)

// Rango is an inclusive date range
type Rango struct {
	Desde time.Time
	Hasta time.Time
}

// NewRango validates desde ≤ hasta and that the range covers at most
// MaxRangoDias calendar days, both ends included
func NewRango(desde, hasta time.Time) (Rango, error) {
	if hasta.Before(desde) {
		return Rango{}, ErrRangoInvertido
	}
	r := Rango{Desde: desde, Hasta: hasta}
	if r.Dias() > MaxRangoDias {
		return Rango{}, ErrRangoExcedido
	}
	return r, nil
}

// MesActual returns the range from the first of now's month to now's date
func MesActual(now time.Time) Rango {
	y, m, d := now.Date()
	return Rango{
		Desde: time.Date(y, m, 1, 0, 0, 0, 0, now.Location()),
		Hasta: time.Date(y, m, d, 0, 0, 0, 0, now.Location()),
	}
}

// Dias returns the number of calendar days covered, both ends included.
// Only the dates count, so times of day and DST shifts do not matter.
func (r Rango) Dias() int {
	return int(civil(r.Hasta).Sub(civil(r.Desde)).Hours()/24) + 1
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Resumen is the dashboard home summary
type Resumen struct {
	VentasHoy          decimal.Decimal `json:"ventas_hoy"`
	TransaccionesHoy   int             `json:"transacciones_hoy"`
	FacturasPendientes int             `json:"facturas_pendientes"`
	FacturasRechazadas int             `json:"facturas_rechazadas"`
	ProductosBajoStock int             `json:"productos_bajo_stock"`
	VentasDiarias      []VentaDiaria   `json:"ventas_diarias"`
}

// VentaDiaria is one bar of the daily sales chart
type VentaDiaria struct {
	Fecha shared.Date     `json:"fecha"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"cantidad"`
}

// Barra is a chart bar with its height as a percentage of the tallest bar
type Barra struct {
	VentaDiaria
	Porcentaje int
}

// Barras scales the daily totals against the largest one
func Barras(dias []VentaDiaria) []Barra {
	maxTotal := decimal.Zero
	for _, d := range dias {
		if d.Total.GreaterThan(maxTotal) {
			maxTotal = d.Total
		}
	}
	out := make([]Barra, len(dias))
	for i, d := range dias {
		pct := 0
		if maxTotal.IsPositive() && d.Total.IsPositive() {
			pct = int(d.Total.Mul(decimal.NewFromInt(100)).Div(maxTotal).Round(0).IntPart())
		}
		out[i] = Barra{VentaDiaria: d, Porcentaje: pct}
	}
	return out
}

// VentasReporte is the sales report for a date range
type VentasReporte struct {
	Desde         shared.Date       `json:"desde"`
	Hasta         shared.Date       `json:"hasta"`
	Total         decimal.Decimal   `json:"total"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	IVA           decimal.Decimal   `json:"iva"`
	Transacciones int               `json:"transacciones"`
	PorDia        []VentaDiaria     `json:"por_dia"`
	PorFormaPago  []TotalPorGrupo   `json:"por_forma_pago"`
	PorSucursal   []TotalPorGrupo   `json:"por_sucursal"`
	TopProductos  []ProductoVendido `json:"top_productos"`
}

// TotalPorGrupo is a sales total for one grouping key
type TotalPorGrupo struct {
	Grupo string          `json:"grupo"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"cantidad"`
}

// ProductoVendido is a best-selling product row
type ProductoVendido struct {
	Codigo   string          `json:"codigo"`
	Nombre   string          `json:"nombre"`
	Cantidad decimal.Decimal `json:"cantidad"`
	Total    decimal.Decimal `json:"total"`
}
