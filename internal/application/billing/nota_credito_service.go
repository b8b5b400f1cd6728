package billing

import (
	"context"

	"github.com/facturaec/dashboard/internal/domain/billing"
	"github.com/facturaec/dashboard/internal/domain/shared"
)

const (
	notasCreditoPath = "/notas-credito"
	maxMotivoLength  = 300
)

// NotaCreditoService handles the credit note pages
type NotaCreditoService struct {
	gateway shared.Gateway
	files   *artifacts
}

// NewNotaCreditoService creates a new NotaCreditoService. Credit note
// artifacts are not archived.
func NewNotaCreditoService(gateway shared.Gateway) *NotaCreditoService {
	return &NotaCreditoService{
		gateway: gateway,
		files:   &artifacts{gateway: gateway, resource: "notas-credito"},
	}
}

// List returns one page of credit notes matching the search term
func (s *NotaCreditoService) List(ctx context.Context, q shared.ListQuery) (shared.ListResult[billing.NotaCredito], error) {
	var notas []billing.NotaCredito
	if _, err := s.gateway.Get(ctx, notasCreditoPath, nil, &notas); err != nil {
		return shared.ListResult[billing.NotaCredito]{}, err
	}
	return shared.List(notas, q, billing.NotaCredito.SearchFields), nil
}

// Create issues a credit note against an existing invoice
func (s *NotaCreditoService) Create(ctx context.Context, in billing.NotaCreditoInput) (*billing.NotaCredito, error) {
	fields := shared.FieldErrors{}
	fields.Check(!in.FacturaID.IsZero(), "factura_id", "Seleccione la factura")
	fields.Check(in.Motivo != "", "motivo", "Campo requerido")
	fields.Check(len([]rune(in.Motivo)) <= maxMotivoLength, "motivo", "Máximo 300 caracteres")
	fields.Check(in.Total.IsPositive(), "total", "Debe ser mayor a 0")
	if err := fields.Err("Revise los datos de la nota de crédito"); err != nil {
		return nil, err
	}

	var n billing.NotaCredito
	if err := s.gateway.Post(ctx, notasCreditoPath, in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Download returns the credit note XML or PDF
func (s *NotaCreditoService) Download(ctx context.Context, id shared.ID, formato Formato) (*shared.File, error) {
	return s.files.download(ctx, "", id, formato)
}
