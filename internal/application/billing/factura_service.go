package billing

import (
	"context"
	"net/url"

	"github.com/facturaec/dashboard/internal/domain/billing"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
	"github.com/facturaec/dashboard/internal/infrastructure/storage"
)

const facturasPath = "/facturas"

// FacturaService handles the electronic invoice pages
type FacturaService struct {
	gateway shared.Gateway
	files   *artifacts
}

// NewFacturaService creates a new FacturaService. archive may be nil.
func NewFacturaService(gateway shared.Gateway, archive storage.Archive) *FacturaService {
	s := &FacturaService{gateway: gateway}
	s.files = &artifacts{
		gateway:  gateway,
		archive:  archive,
		resource: "facturas",
		authorized: func(ctx context.Context, id shared.ID) (bool, error) {
			estado, err := s.Estado(ctx, id)
			if err != nil {
				return false, err
			}
			return estado.Estado.IsAuthorized(), nil
		},
	}
	return s
}

// List returns one page of invoices, optionally restricted to one SRI state
func (s *FacturaService) List(ctx context.Context, estado sri.Estado, q shared.ListQuery) (shared.ListResult[billing.Factura], error) {
	var query url.Values
	if estado != "" {
		if !estado.IsValid() {
			return shared.ListResult[billing.Factura]{}, shared.FieldErrors{"estado": "Estado no válido"}.Err("Filtro no válido")
		}
		query = url.Values{"estado": {string(estado)}}
	}

	var facturas []billing.Factura
	if _, err := s.gateway.Get(ctx, facturasPath, query, &facturas); err != nil {
		return shared.ListResult[billing.Factura]{}, err
	}
	return shared.List(facturas, q, billing.Factura.SearchFields), nil
}

// Get returns an invoice with its SRI messages
func (s *FacturaService) Get(ctx context.Context, id shared.ID) (*billing.Factura, error) {
	var f billing.Factura
	if _, err := s.gateway.Get(ctx, facturaPath(id), nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Estado returns the current SRI state, used by the detail page's polling
func (s *FacturaService) Estado(ctx context.Context, id shared.ID) (*billing.EstadoSRI, error) {
	var e billing.EstadoSRI
	if _, err := s.gateway.Get(ctx, facturaPath(id)+"/estado", nil, &e); err != nil {
		return nil, err
	}
	if e.ID.IsZero() {
		e.ID = id
	}
	return &e, nil
}

// Reenviar asks the backend to resubmit the invoice to SRI. The backend
// decides whether the current state allows it.
func (s *FacturaService) Reenviar(ctx context.Context, id shared.ID) (*billing.EstadoSRI, error) {
	var e billing.EstadoSRI
	if err := s.gateway.Post(ctx, facturaPath(id)+"/reenviar", nil, &e); err != nil {
		return nil, err
	}
	if e.ID.IsZero() {
		e.ID = id
	}
	return &e, nil
}

// Download returns the invoice XML or PDF, from the archive when possible
func (s *FacturaService) Download(ctx context.Context, tenant string, id shared.ID, formato Formato) (*shared.File, error) {
	return s.files.download(ctx, tenant, id, formato)
}

func facturaPath(id shared.ID) string {
	return facturasPath + "/" + url.PathEscape(id.String())
}
