package inventory

import (
	"context"
	"testing"

	"github.com/facturaec/dashboard/internal/application/gatewaytest"
	"github.com/facturaec/dashboard/internal/domain/inventory"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	require.Equal(t, shared.CodeValidation, de.Code)
	return de.Fields
}

func TestCreateAjuste(t *testing.T) {
	valid := inventory.AjusteInput{
		ProductoID: "1",
		SucursalID: "2",
		Tipo:       inventory.AjusteSalida,
		Cantidad:   decimal.NewFromInt(3),
		Motivo:     "Producto dañado",
	}

	t.Run("valid", func(t *testing.T) {
		gw := gatewaytest.New(t)
		gw.On("Post", mock.Anything, "/inventario/ajustes", valid).Return(inventory.Ajuste{ID: "9", Tipo: inventory.AjusteSalida}, nil)

		a, err := NewInventoryService(gw).CreateAjuste(context.Background(), valid)
		require.NoError(t, err)
		assert.Equal(t, shared.ID("9"), a.ID)
	})

	t.Run("invalid", func(t *testing.T) {
		in := valid
		in.Tipo = "MERMA"
		in.Cantidad = decimal.Zero
		in.Motivo = ""

		_, err := NewInventoryService(gatewaytest.New(t)).CreateAjuste(context.Background(), in)
		fields := fieldsOf(t, err)
		assert.Contains(t, fields, "tipo")
		assert.Contains(t, fields, "cantidad")
		assert.Contains(t, fields, "motivo")
	})
}

func TestCreateTransferencia(t *testing.T) {
	valid := inventory.TransferenciaInput{ProductoID: "1", OrigenID: "2", DestinoID: "3", Cantidad: decimal.NewFromInt(5)}

	t.Run("valid", func(t *testing.T) {
		gw := gatewaytest.New(t)
		gw.On("Post", mock.Anything, "/inventario/transferencias", valid).Return(inventory.Transferencia{ID: "4"}, nil)

		tr, err := NewInventoryService(gw).CreateTransferencia(context.Background(), valid)
		require.NoError(t, err)
		assert.Equal(t, shared.ID("4"), tr.ID)
	})

	t.Run("same origin and destination", func(t *testing.T) {
		in := valid
		in.DestinoID = in.OrigenID

		_, err := NewInventoryService(gatewaytest.New(t)).CreateTransferencia(context.Background(), in)
		assert.Equal(t, "Debe ser distinta de la sucursal de origen", fieldsOf(t, err)["destino_id"])
	})

	t.Run("missing destination reports required, not equality", func(t *testing.T) {
		in := valid
		in.DestinoID = ""

		_, err := NewInventoryService(gatewaytest.New(t)).CreateTransferencia(context.Background(), in)
		assert.Equal(t, "Seleccione la sucursal de destino", fieldsOf(t, err)["destino_id"])
	})

	t.Run("non positive quantity", func(t *testing.T) {
		in := valid
		in.Cantidad = decimal.NewFromInt(-1)

		_, err := NewInventoryService(gatewaytest.New(t)).CreateTransferencia(context.Background(), in)
		assert.Contains(t, fieldsOf(t, err), "cantidad")
	})
}

func TestLists(t *testing.T) {
	gw := gatewaytest.New(t)
	gw.On("Get", mock.Anything, "/inventario/ajustes", mock.Anything).
		Return([]inventory.Ajuste{{ID: "1", Motivo: "Conteo"}, {ID: "2", Motivo: "Robo"}}, nil, nil)
	gw.On("Get", mock.Anything, "/inventario/transferencias", mock.Anything).
		Return([]inventory.Transferencia{{ID: "1", ProductoNombre: "Atún"}}, nil, nil)
	gw.On("Get", mock.Anything, "/inventario/auditorias", mock.Anything).
		Return([]inventory.Auditoria{{ID: "1", Responsable: "Lucía"}}, nil, nil)

	svc := NewInventoryService(gw)
	ctx := context.Background()

	ajustes, err := svc.ListAjustes(ctx, shared.ListQuery{Search: "robo"})
	require.NoError(t, err)
	assert.Len(t, ajustes.Items, 1)

	transferencias, err := svc.ListTransferencias(ctx, shared.ListQuery{Search: "atun"})
	require.NoError(t, err)
	assert.Len(t, transferencias.Items, 1)

	auditorias, err := svc.ListAuditorias(ctx, shared.ListQuery{Search: "lucia"})
	require.NoError(t, err)
	assert.Len(t, auditorias.Items, 1)
}

func TestGetAuditoria(t *testing.T) {
	gw := gatewaytest.New(t)
	gw.On("Get", mock.Anything, "/inventario/auditorias/3", mock.Anything).Return(inventory.Auditoria{
		ID: "3",
		Items: []inventory.AuditoriaItem{
			{ProductoNombre: "Arroz", Diferencia: decimal.Zero},
			{ProductoNombre: "Aceite", Diferencia: decimal.NewFromInt(-2)},
		},
	}, nil, nil)

	a, err := NewInventoryService(gw).GetAuditoria(context.Background(), "3")
	require.NoError(t, err)
	require.Len(t, a.Descuadres(), 1)
	assert.Equal(t, "Aceite", a.Descuadres()[0].ProductoNombre)
}
