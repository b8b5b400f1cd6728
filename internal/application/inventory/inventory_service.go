package inventory

import (
	"context"
	"net/url"

	"github.com/facturaec/dashboard/internal/domain/inventory"
	"github.com/facturaec/dashboard/internal/domain/shared"
)

const (
	ajustesPath        = "/inventario/ajustes"
	transferenciasPath = "/inventario/transferencias"
	auditoriasPath     = "/inventario/auditorias"
)

// InventoryService handles adjustments, transfers and stock audits.
// Stock itself is always computed by the backend.
type InventoryService struct {
	gateway shared.Gateway
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(gateway shared.Gateway) *InventoryService {
	return &InventoryService{gateway: gateway}
}

// ListAjustes returns one page of stock adjustments
func (s *InventoryService) ListAjustes(ctx context.Context, q shared.ListQuery) (shared.ListResult[inventory.Ajuste], error) {
	var ajustes []inventory.Ajuste
	if _, err := s.gateway.Get(ctx, ajustesPath, nil, &ajustes); err != nil {
		return shared.ListResult[inventory.Ajuste]{}, err
	}
	return shared.List(ajustes, q, inventory.Ajuste.SearchFields), nil
}

// CreateAjuste registers a stock adjustment
func (s *InventoryService) CreateAjuste(ctx context.Context, in inventory.AjusteInput) (*inventory.Ajuste, error) {
	fields := shared.FieldErrors{}
	fields.Check(!in.ProductoID.IsZero(), "producto_id", "Seleccione el producto")
	fields.Check(in.Tipo == inventory.AjusteEntrada || in.Tipo == inventory.AjusteSalida, "tipo", "Seleccione entrada o salida")
	fields.Check(in.Cantidad.IsPositive(), "cantidad", "Debe ser mayor a 0")
	fields.Check(in.Motivo != "", "motivo", "Campo requerido")
	if err := fields.Err("Revise los datos del ajuste"); err != nil {
		return nil, err
	}

	var a inventory.Ajuste
	if err := s.gateway.Post(ctx, ajustesPath, in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListTransferencias returns one page of stock transfers
func (s *InventoryService) ListTransferencias(ctx context.Context, q shared.ListQuery) (shared.ListResult[inventory.Transferencia], error) {
	var transferencias []inventory.Transferencia
	if _, err := s.gateway.Get(ctx, transferenciasPath, nil, &transferencias); err != nil {
		return shared.ListResult[inventory.Transferencia]{}, err
	}
	return shared.List(transferencias, q, inventory.Transferencia.SearchFields), nil
}

// CreateTransferencia moves stock between two different branches
func (s *InventoryService) CreateTransferencia(ctx context.Context, in inventory.TransferenciaInput) (*inventory.Transferencia, error) {
	fields := shared.FieldErrors{}
	fields.Check(!in.ProductoID.IsZero(), "producto_id", "Seleccione el producto")
	fields.Check(!in.OrigenID.IsZero(), "origen_id", "Seleccione la sucursal de origen")
	fields.Check(!in.DestinoID.IsZero(), "destino_id", "Seleccione la sucursal de destino")
	fields.Check(in.OrigenID.IsZero() || in.OrigenID != in.DestinoID, "destino_id", "Debe ser distinta de la sucursal de origen")
	fields.Check(in.Cantidad.IsPositive(), "cantidad", "Debe ser mayor a 0")
	if err := fields.Err("Revise los datos de la transferencia"); err != nil {
		return nil, err
	}

	var t inventory.Transferencia
	if err := s.gateway.Post(ctx, transferenciasPath, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListAuditorias returns one page of stock audits
func (s *InventoryService) ListAuditorias(ctx context.Context, q shared.ListQuery) (shared.ListResult[inventory.Auditoria], error) {
	var auditorias []inventory.Auditoria
	if _, err := s.gateway.Get(ctx, auditoriasPath, nil, &auditorias); err != nil {
		return shared.ListResult[inventory.Auditoria]{}, err
	}
	return shared.List(auditorias, q, inventory.Auditoria.SearchFields), nil
}

// GetAuditoria returns an audit with its counted items
func (s *InventoryService) GetAuditoria(ctx context.Context, id shared.ID) (*inventory.Auditoria, error) {
	var a inventory.Auditoria
	if _, err := s.gateway.Get(ctx, auditoriasPath+"/"+url.PathEscape(id.String()), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
