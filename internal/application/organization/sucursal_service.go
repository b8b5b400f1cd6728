package organization

import (
	"context"
	"net/url"

	"github.com/facturaec/dashboard/internal/domain/organization"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
)

const (
	sucursalesPath = "/sucursales"
	turnosPath     = "/turnos"
)

// SucursalService handles the branch and shift pages
type SucursalService struct {
	gateway shared.Gateway
}

// NewSucursalService creates a new SucursalService
func NewSucursalService(gateway shared.Gateway) *SucursalService {
	return &SucursalService{gateway: gateway}
}

// All returns every branch, for selects in other forms
func (s *SucursalService) All(ctx context.Context) ([]organization.Sucursal, error) {
	var sucursales []organization.Sucursal
	if _, err := s.gateway.Get(ctx, sucursalesPath, nil, &sucursales); err != nil {
		return nil, err
	}
	return sucursales, nil
}

// List returns one page of branches matching the search term
func (s *SucursalService) List(ctx context.Context, q shared.ListQuery) (shared.ListResult[organization.Sucursal], error) {
	sucursales, err := s.All(ctx)
	if err != nil {
		return shared.ListResult[organization.Sucursal]{}, err
	}
	return shared.List(sucursales, q, organization.Sucursal.SearchFields), nil
}

// Get returns a branch by ID
func (s *SucursalService) Get(ctx context.Context, id shared.ID) (*organization.Sucursal, error) {
	var suc organization.Sucursal
	if _, err := s.gateway.Get(ctx, sucursalPath(id), nil, &suc); err != nil {
		return nil, err
	}
	return &suc, nil
}

// Create creates a branch
func (s *SucursalService) Create(ctx context.Context, in organization.SucursalInput) (*organization.Sucursal, error) {
	if err := validateSucursal(in); err != nil {
		return nil, err
	}
	var suc organization.Sucursal
	if err := s.gateway.Post(ctx, sucursalesPath, in, &suc); err != nil {
		return nil, err
	}
	return &suc, nil
}

// Update replaces a branch's fields
func (s *SucursalService) Update(ctx context.Context, id shared.ID, in organization.SucursalInput) (*organization.Sucursal, error) {
	if err := validateSucursal(in); err != nil {
		return nil, err
	}
	var suc organization.Sucursal
	if err := s.gateway.Put(ctx, sucursalPath(id), in, &suc); err != nil {
		return nil, err
	}
	return &suc, nil
}

func validateSucursal(in organization.SucursalInput) error {
	fields := shared.FieldErrors{}
	fields.Check(sri.ValidCodigoSerie(in.CodigoEstablecimiento), "codigo_establecimiento", "Debe tener exactamente 3 dígitos")
	fields.Check(sri.ValidCodigoSerie(in.PuntoEmision), "punto_emision", "Debe tener exactamente 3 dígitos")
	fields.Check(in.Nombre != "", "nombre", "Campo requerido")
	return fields.Err("Revise los datos de la sucursal")
}

// ListTurnos returns one page of cashier shifts
func (s *SucursalService) ListTurnos(ctx context.Context, q shared.ListQuery) (shared.ListResult[organization.Turno], error) {
	var turnos []organization.Turno
	if _, err := s.gateway.Get(ctx, turnosPath, nil, &turnos); err != nil {
		return shared.ListResult[organization.Turno]{}, err
	}
	return shared.List(turnos, q, organization.Turno.SearchFields), nil
}

// AbrirTurno opens a shift at a branch
func (s *SucursalService) AbrirTurno(ctx context.Context, in organization.AbrirTurnoInput) (*organization.Turno, error) {
	fields := shared.FieldErrors{}
	fields.Check(!in.SucursalID.IsZero(), "sucursal_id", "Seleccione la sucursal")
	fields.Check(!in.MontoInicial.IsNegative(), "monto_inicial", "Debe ser mayor o igual a 0")
	if err := fields.Err("Revise los datos del turno"); err != nil {
		return nil, err
	}

	var t organization.Turno
	if err := s.gateway.Post(ctx, turnosPath, in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CerrarTurno closes an open shift
func (s *SucursalService) CerrarTurno(ctx context.Context, id shared.ID, in organization.CerrarTurnoInput) (*organization.Turno, error) {
	if in.MontoFinal.IsNegative() {
		return nil, shared.FieldErrors{"monto_final": "Debe ser mayor o igual a 0"}.Err("Revise los datos del turno")
	}

	var t organization.Turno
	if err := s.gateway.Post(ctx, turnosPath+"/"+url.PathEscape(id.String())+"/cerrar", in, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func sucursalPath(id shared.ID) string {
	return sucursalesPath + "/" + url.PathEscape(id.String())
}
