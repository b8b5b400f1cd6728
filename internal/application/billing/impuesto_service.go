package billing

import (
	"context"
	"net/url"

	"github.com/facturaec/dashboard/internal/domain/billing"
	"github.com/facturaec/dashboard/internal/domain/shared"
)

const impuestosPath = "/impuestos"

// ImpuestoService handles the tax configuration pages
type ImpuestoService struct {
	gateway shared.Gateway
}

// NewImpuestoService creates a new ImpuestoService
func NewImpuestoService(gateway shared.Gateway) *ImpuestoService {
	return &ImpuestoService{gateway: gateway}
}

// List returns one page of taxes matching the search term
func (s *ImpuestoService) List(ctx context.Context, q shared.ListQuery) (shared.ListResult[billing.Impuesto], error) {
	var impuestos []billing.Impuesto
	if _, err := s.gateway.Get(ctx, impuestosPath, nil, &impuestos); err != nil {
		return shared.ListResult[billing.Impuesto]{}, err
	}
	return shared.List(impuestos, q, billing.Impuesto.SearchFields), nil
}

// Get returns a tax by ID
func (s *ImpuestoService) Get(ctx context.Context, id shared.ID) (*billing.Impuesto, error) {
	var i billing.Impuesto
	if _, err := s.gateway.Get(ctx, impuestoPath(id), nil, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

// Create creates a tax
func (s *ImpuestoService) Create(ctx context.Context, in billing.ImpuestoInput) (*billing.Impuesto, error) {
	if err := validateImpuesto(in); err != nil {
		return nil, err
	}
	var i billing.Impuesto
	if err := s.gateway.Post(ctx, impuestosPath, in, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

// Update replaces a tax's fields
func (s *ImpuestoService) Update(ctx context.Context, id shared.ID, in billing.ImpuestoInput) (*billing.Impuesto, error) {
	if err := validateImpuesto(in); err != nil {
		return nil, err
	}
	var i billing.Impuesto
	if err := s.gateway.Put(ctx, impuestoPath(id), in, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

func validateImpuesto(in billing.ImpuestoInput) error {
	fields := shared.FieldErrors{}
	fields.Check(in.Tipo.IsValid(), "tipo", "Tipo de impuesto no válido")
	fields.Check(!in.Porcentaje.IsNegative() && in.Porcentaje.LessThanOrEqual(cien), "porcentaje", "Debe estar entre 0 y 100")
	return fields.Err("Revise los datos del impuesto")
}

func impuestoPath(id shared.ID) string {
	return impuestosPath + "/" + url.PathEscape(id.String())
}
