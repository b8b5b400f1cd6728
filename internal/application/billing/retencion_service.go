package billing

import (
	"context"
	"strconv"

	"github.com/facturaec/dashboard/internal/domain/billing"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
	"github.com/shopspring/decimal"
)

const retencionesPath = "/retenciones"

var cien = decimal.NewFromInt(100)

// RetencionService handles the withholding receipt pages
type RetencionService struct {
	gateway shared.Gateway
	files   *artifacts
}

// NewRetencionService creates a new RetencionService
func NewRetencionService(gateway shared.Gateway) *RetencionService {
	return &RetencionService{
		gateway: gateway,
		files:   &artifacts{gateway: gateway, resource: "retenciones"},
	}
}

// List returns one page of withholding receipts matching the search term
func (s *RetencionService) List(ctx context.Context, q shared.ListQuery) (shared.ListResult[billing.Retencion], error) {
	var retenciones []billing.Retencion
	if _, err := s.gateway.Get(ctx, retencionesPath, nil, &retenciones); err != nil {
		return shared.ListResult[billing.Retencion]{}, err
	}
	return shared.List(retenciones, q, billing.Retencion.SearchFields), nil
}

// Create issues a withholding receipt for a purchase. Line values are
// display-only previews; the backend computes the real amounts.
func (s *RetencionService) Create(ctx context.Context, in billing.RetencionInput) (*billing.Retencion, error) {
	if err := ValidateRetencion(in); err != nil {
		return nil, err
	}
	var r billing.Retencion
	if err := s.gateway.Post(ctx, retencionesPath, in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Download returns the withholding receipt XML or PDF
func (s *RetencionService) Download(ctx context.Context, id shared.ID, formato Formato) (*shared.File, error) {
	return s.files.download(ctx, "", id, formato)
}

// ValidateRetencion checks purchase, fiscal period and lines
func ValidateRetencion(in billing.RetencionInput) error {
	fields := shared.FieldErrors{}
	fields.Check(!in.CompraID.IsZero(), "compra_id", "Seleccione la compra")
	fields.Check(sri.ValidPeriodoFiscal(in.PeriodoFiscal), "periodo_fiscal", "Formato MM/AAAA")
	if len(in.Detalles) == 0 {
		fields.Add("detalles", "Agregue al menos una línea")
	}
	for i, d := range in.Detalles {
		prefix := "detalles." + strconv.Itoa(i) + "."
		fields.Check(d.Codigo != "", prefix+"codigo", "Campo requerido")
		fields.Check(!d.BaseImponible.IsNegative(), prefix+"base_imponible", "Debe ser mayor o igual a 0")
		fields.Check(!d.Porcentaje.IsNegative() && d.Porcentaje.LessThanOrEqual(cien), prefix+"porcentaje", "Debe estar entre 0 y 100")
	}
	return fields.Err("Revise los datos de la retención")
}
