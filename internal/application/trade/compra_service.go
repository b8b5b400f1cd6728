package trade

import (
	"context"
	"net/url"
	"strconv"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
	"github.com/facturaec/dashboard/internal/domain/trade"
)

const comprasPath = "/compras"

// CompraService handles the purchase pages
type CompraService struct {
	gateway shared.Gateway
}

// NewCompraService creates a new CompraService
func NewCompraService(gateway shared.Gateway) *CompraService {
	return &CompraService{gateway: gateway}
}

// List returns one page of purchases matching the search term
func (s *CompraService) List(ctx context.Context, q shared.ListQuery) (shared.ListResult[trade.Compra], error) {
	var compras []trade.Compra
	if _, err := s.gateway.Get(ctx, comprasPath, nil, &compras); err != nil {
		return shared.ListResult[trade.Compra]{}, err
	}
	return shared.List(compras, q, trade.Compra.SearchFields), nil
}

// Get returns a purchase by ID
func (s *CompraService) Get(ctx context.Context, id shared.ID) (*trade.Compra, error) {
	var c trade.Compra
	if _, err := s.gateway.Get(ctx, comprasPath+"/"+url.PathEscape(id.String()), nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create registers a purchase
func (s *CompraService) Create(ctx context.Context, in trade.CompraInput) (*trade.Compra, error) {
	if err := ValidateCompra(in); err != nil {
		return nil, err
	}
	var c trade.Compra
	if err := s.gateway.Post(ctx, comprasPath, in, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ValidateCompra checks document number, supplier identification and lines.
// Line errors are keyed "detalles.N.campo".
func ValidateCompra(in trade.CompraInput) error {
	fields := shared.FieldErrors{}
	fields.Check(sri.ValidNumeroDocumento(in.NumeroDocumento), "numero_documento", "Formato EEE-PPP-SSSSSSSSS")
	fields.Check(sri.ValidIdentificacion(in.Proveedor.Identificacion), "proveedor.identificacion", "RUC o cédula no válido")
	fields.Check(in.Proveedor.RazonSocial != "", "proveedor.razon_social", "Campo requerido")
	if _, err := shared.ParseDate(in.FechaEmision); err != nil {
		fields.Add("fecha_emision", "Fecha no válida")
	}
	if len(in.Detalles) == 0 {
		fields.Add("detalles", "Agregue al menos una línea")
	}
	for i, d := range in.Detalles {
		prefix := "detalles." + strconv.Itoa(i) + "."
		fields.Check(d.Descripcion != "", prefix+"descripcion", "Campo requerido")
		fields.Check(d.Cantidad.IsPositive(), prefix+"cantidad", "Debe ser mayor a 0")
		fields.Check(!d.CostoUnitario.IsNegative(), prefix+"costo_unitario", "Debe ser mayor o igual a 0")
	}
	return fields.Err("Revise los datos de la compra")
}
