package trade

import (
	"context"
	"net/url"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/trade"
)

const ventasPath = "/ventas"

// VentaFilter narrows the POS sales fetched from the backend
type VentaFilter struct {
	Desde      shared.Date
	Hasta      shared.Date
	SucursalID shared.ID
}

// Query encodes the filter as backend query parameters
func (f VentaFilter) Query() url.Values {
	q := url.Values{}
	if !f.Desde.IsZero() {
		q.Set("desde", f.Desde.DateString())
	}
	if !f.Hasta.IsZero() {
		q.Set("hasta", f.Hasta.DateString())
	}
	if !f.SucursalID.IsZero() {
		q.Set("sucursal_id", f.SucursalID.String())
	}
	return q
}

// VentaService handles the POS sales history pages
type VentaService struct {
	gateway shared.Gateway
}

// NewVentaService creates a new VentaService
func NewVentaService(gateway shared.Gateway) *VentaService {
	return &VentaService{gateway: gateway}
}

// List returns one page of sales within the filter matching the search term
func (s *VentaService) List(ctx context.Context, f VentaFilter, q shared.ListQuery) (shared.ListResult[trade.Venta], error) {
	if !f.Desde.IsZero() && !f.Hasta.IsZero() && f.Hasta.Before(f.Desde.Time) {
		return shared.ListResult[trade.Venta]{}, shared.FieldErrors{
			"hasta": "Debe ser posterior o igual a la fecha desde",
		}.Err("Rango de fechas no válido")
	}

	var ventas []trade.Venta
	if _, err := s.gateway.Get(ctx, ventasPath, f.Query(), &ventas); err != nil {
		return shared.ListResult[trade.Venta]{}, err
	}
	return shared.List(ventas, q, trade.Venta.SearchFields), nil
}

// Get returns a sale by ID
func (s *VentaService) Get(ctx context.Context, id shared.ID) (*trade.Venta, error) {
	var v trade.Venta
	if _, err := s.gateway.Get(ctx, ventasPath+"/"+url.PathEscape(id.String()), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
