package trade

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/facturaec/dashboard/internal/application/gatewaytest"
	"github.com/facturaec/dashboard/internal/domain/billing"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) shared.Date {
	return shared.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestVentaFilter_Query(t *testing.T) {
	assert.Empty(t, VentaFilter{}.Query())

	q := VentaFilter{Desde: date(2025, 1, 1), Hasta: date(2025, 1, 31), SucursalID: "2"}.Query()
	assert.Equal(t, url.Values{
		"desde":       {"2025-01-01"},
		"hasta":       {"2025-01-31"},
		"sucursal_id": {"2"},
	}, q)
}

func TestVentaService_List(t *testing.T) {
	gw := gatewaytest.New(t)
	f := VentaFilter{Desde: date(2025, 1, 1), Hasta: date(2025, 1, 31)}
	ventas := []trade.Venta{
		{ID: "1", Cajero: "María José", FormaPago: trade.FormaPagoEfectivo, Total: decimal.NewFromInt(10)},
		{ID: "2", Cajero: "Pedro", FormaPago: trade.FormaPagoTarjeta, Total: decimal.NewFromInt(20)},
	}
	gw.On("Get", mock.Anything, "/ventas", f.Query()).Return(ventas, nil, nil)

	res, err := NewVentaService(gw).List(context.Background(), f, shared.ListQuery{Search: "maria"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, shared.ID("1"), res.Items[0].ID)
}

func TestVentaService_ListRejectsInvertedRange(t *testing.T) {
	gw := gatewaytest.New(t)
	f := VentaFilter{Desde: date(2025, 2, 1), Hasta: date(2025, 1, 1)}

	_, err := NewVentaService(gw).List(context.Background(), f, shared.ListQuery{})

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Fields, "hasta")
}

func TestVentaService_Get(t *testing.T) {
	gw := gatewaytest.New(t)
	gw.On("Get", mock.Anything, "/ventas/5", mock.Anything).Return(trade.Venta{ID: "5", FacturaID: "77"}, nil, nil)

	v, err := NewVentaService(gw).Get(context.Background(), "5")
	require.NoError(t, err)
	assert.True(t, v.Facturada())
}

func validCompra() trade.CompraInput {
	return trade.CompraInput{
		NumeroDocumento: "001-001-000000123",
		Proveedor:       billing.Parte{Identificacion: "1790016919001", RazonSocial: "Proveedor S.A."},
		FechaEmision:    "2025-03-10",
		Detalles: []trade.CompraDetalle{
			{Descripcion: "Harina", Cantidad: decimal.NewFromInt(10), CostoUnitario: decimal.RequireFromString("1.25")},
		},
	}
}

func TestValidateCompra(t *testing.T) {
	assert.NoError(t, ValidateCompra(validCompra()))

	tests := []struct {
		name  string
		edit  func(*trade.CompraInput)
		field string
	}{
		{"bad document number", func(in *trade.CompraInput) { in.NumeroDocumento = "1-1-1" }, "numero_documento"},
		{"zero establishment", func(in *trade.CompraInput) { in.NumeroDocumento = "000-001-000000123" }, "numero_documento"},
		{"bad RUC", func(in *trade.CompraInput) { in.Proveedor.Identificacion = "1790016918001" }, "proveedor.identificacion"},
		{"missing supplier name", func(in *trade.CompraInput) { in.Proveedor.RazonSocial = "" }, "proveedor.razon_social"},
		{"bad date", func(in *trade.CompraInput) { in.FechaEmision = "10/03/2025" }, "fecha_emision"},
		{"no lines", func(in *trade.CompraInput) { in.Detalles = nil }, "detalles"},
		{"zero quantity", func(in *trade.CompraInput) { in.Detalles[0].Cantidad = decimal.Zero }, "detalles.0.cantidad"},
		{"negative cost", func(in *trade.CompraInput) { in.Detalles[0].CostoUnitario = decimal.NewFromInt(-1) }, "detalles.0.costo_unitario"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCompra()
			tt.edit(&in)
			err := ValidateCompra(in)

			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Contains(t, de.Fields, tt.field)
		})
	}
}

func TestCompraService(t *testing.T) {
	gw := gatewaytest.New(t)
	in := validCompra()
	gw.On("Post", mock.Anything, "/compras", in).Return(trade.Compra{ID: "3", NumeroDocumento: in.NumeroDocumento}, nil)
	gw.On("Get", mock.Anything, "/compras", mock.Anything).Return([]trade.Compra{
		{ID: "3", NumeroDocumento: in.NumeroDocumento, Proveedor: in.Proveedor},
	}, nil, nil)
	gw.On("Get", mock.Anything, "/compras/3", mock.Anything).Return(trade.Compra{ID: "3", RetencionID: "8"}, nil, nil)

	svc := NewCompraService(gw)
	ctx := context.Background()

	created, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, shared.ID("3"), created.ID)

	res, err := svc.List(ctx, shared.ListQuery{Search: "proveedor"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	c, err := svc.Get(ctx, "3")
	require.NoError(t, err)
	assert.True(t, c.TieneRetencion())
}
