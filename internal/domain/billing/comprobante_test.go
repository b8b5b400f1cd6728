package billing

import (
	"encoding/json"
	"testing"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacturaDecode(t *testing.T) {
	payload := `{
		"id": 17,
		"numero": "001-001-000000017",
		"clave_acceso": "1501202401179001691900120010020000001231234567816",
		"fecha_emision": "2024-01-15",
		"cliente": {"identificacion": "1710034065", "razon_social": "María Pérez", "email": "maria@example.com"},
		"subtotal": "100.00",
		"iva": "15.00",
		"total": 115,
		"estado": "EN_PROCESO",
		"mensajes": [{"identificador": "70", "mensaje": "CLAVE DE ACCESO EN PROCESAMIENTO"}],
		"sucursal_id": 2
	}`

	var f Factura
	require.NoError(t, json.Unmarshal([]byte(payload), &f))

	assert.Equal(t, shared.ID("17"), f.ID)
	assert.Equal(t, "2024-01-15", f.FechaEmision.DateString())
	assert.Equal(t, "María Pérez", f.Cliente.RazonSocial)
	assert.True(t, f.Total.Equal(decimal.NewFromInt(115)))
	assert.Equal(t, sri.EstadoEnProceso, f.Estado)
	assert.False(t, f.Estado.IsFinal())
	require.Len(t, f.Mensajes, 1)
	assert.Equal(t, shared.ID("2"), f.SucursalID)
	assert.True(t, shared.Matches("perez", f.SearchFields()...))
}

func TestEstadoSRIFinal(t *testing.T) {
	assert.False(t, EstadoSRI{Estado: sri.EstadoEnviado}.Final())
	assert.True(t, EstadoSRI{Estado: sri.EstadoAutorizado}.Final())
}

func TestRetencionPreviewTotal(t *testing.T) {
	in := RetencionInput{
		Detalles: []RetencionDetalle{
			{Codigo: "312", BaseImponible: decimal.RequireFromString("500"), Porcentaje: decimal.RequireFromString("1.75")},
			{Codigo: "725", BaseImponible: decimal.RequireFromString("75"), Porcentaje: decimal.NewFromInt(30)},
		},
	}
	assert.Equal(t, "31.25", in.PreviewTotal().StringFixed(2))
}

func TestTipoImpuestoLabel(t *testing.T) {
	assert.Equal(t, "Retención en la fuente", TipoRenta.Label())
	assert.Equal(t, "OTRO", TipoImpuesto("OTRO").Label())
}
