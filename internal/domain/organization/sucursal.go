package organization

import (
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Sucursal is a branch (establecimiento) with its emission point
type Sucursal struct {
	ID                    shared.ID `json:"id"`
	CodigoEstablecimiento string    `json:"codigo_establecimiento"`
	PuntoEmision          string    `json:"punto_emision"`
	Nombre                string    `json:"nombre"`
	Direccion             string    `json:"direccion"`
	Telefono              string    `json:"telefono,omitempty"`
	Activa                bool      `json:"activa"`
}

// Serie returns the EEE-PPP prefix of the branch's document numbers
func (s Sucursal) Serie() string {
	return s.CodigoEstablecimiento + "-" + s.PuntoEmision
}

// SearchFields lists the values matched by the branch list search box
func (s Sucursal) SearchFields() []string {
	return []string{s.CodigoEstablecimiento, s.Nombre, s.Direccion}
}

// SucursalInput is the create/update payload for a branch
type SucursalInput struct {
	CodigoEstablecimiento string `json:"codigo_establecimiento"`
	PuntoEmision          string `json:"punto_emision"`
	Nombre                string `json:"nombre"`
	Direccion             string `json:"direccion"`
	Telefono              string `json:"telefono,omitempty"`
	Activa                bool   `json:"activa"`
}

// EstadoTurno is the state of a cashier shift
type EstadoTurno string

const (
	TurnoAbierto EstadoTurno = "ABIERTO"
	TurnoCerrado EstadoTurno = "CERRADO"
)

// Turno is a cashier shift
type Turno struct {
	ID           shared.ID        `json:"id"`
	SucursalID   shared.ID        `json:"sucursal_id"`
	Cajero       string           `json:"cajero"`
	Apertura     shared.Date      `json:"apertura"`
	Cierre       shared.Date      `json:"cierre"`
	MontoInicial decimal.Decimal  `json:"monto_inicial"`
	MontoFinal   *decimal.Decimal `json:"monto_final"`
	Estado       EstadoTurno      `json:"estado"`
}

// Abierto reports whether the shift can still be closed
func (t Turno) Abierto() bool {
	return t.Estado == TurnoAbierto
}

// SearchFields lists the values matched by the shift list search box
func (t Turno) SearchFields() []string {
	return []string{t.Cajero, string(t.Estado)}
}

// AbrirTurnoInput opens a shift
type AbrirTurnoInput struct {
	SucursalID   shared.ID       `json:"sucursal_id"`
	MontoInicial decimal.Decimal `json:"monto_inicial"`
}

// CerrarTurnoInput closes a shift
type CerrarTurnoInput struct {
	MontoFinal decimal.Decimal `json:"monto_final"`
}
