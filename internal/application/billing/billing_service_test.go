package billing

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/facturaec/dashboard/internal/application/gatewaytest"
	"github.com/facturaec/dashboard/internal/domain/billing"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
	"github.com/facturaec/dashboard/internal/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pdfFile() *shared.File {
	return &shared.File{Name: "factura.pdf", ContentType: shared.ContentTypePDF, Data: []byte("%PDF-1.4")}
}

func TestParseFormato(t *testing.T) {
	f, ok := ParseFormato("xml")
	assert.True(t, ok)
	assert.Equal(t, FormatoXML, f)

	_, ok = ParseFormato("docx")
	assert.False(t, ok)
}

func TestFacturaService_List(t *testing.T) {
	facturas := []billing.Factura{
		{ID: "1", Numero: "001-001-000000001", Cliente: billing.Parte{RazonSocial: "Comercial Núñez"}},
		{ID: "2", Numero: "001-001-000000002", Cliente: billing.Parte{RazonSocial: "Ferretería Andes"}},
	}

	t.Run("filters by state on the backend and searches locally", func(t *testing.T) {
		gw := gatewaytest.New(t)
		gw.On("Get", mock.Anything, "/facturas", url.Values{"estado": {"PENDIENTE"}}).Return(facturas, nil, nil)

		res, err := NewFacturaService(gw, nil).List(context.Background(), sri.EstadoPendiente, shared.ListQuery{Search: "nunez"})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, shared.ID("1"), res.Items[0].ID)
	})

	t.Run("no state filter", func(t *testing.T) {
		gw := gatewaytest.New(t)
		gw.On("Get", mock.Anything, "/facturas", url.Values(nil)).Return(facturas, nil, nil)

		res, err := NewFacturaService(gw, nil).List(context.Background(), "", shared.ListQuery{})
		require.NoError(t, err)
		assert.Len(t, res.Items, 2)
	})

	t.Run("unknown state", func(t *testing.T) {
		gw := gatewaytest.New(t)
		_, err := NewFacturaService(gw, nil).List(context.Background(), "BORRADOR", shared.ListQuery{})
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})
}

func TestFacturaService_EstadoAndReenviar(t *testing.T) {
	gw := gatewaytest.New(t)
	gw.On("Get", mock.Anything, "/facturas/10/estado", mock.Anything).
		Return(map[string]any{"estado": "EN_PROCESO"}, nil, nil)
	gw.On("Post", mock.Anything, "/facturas/10/reenviar", nil).
		Return(billing.EstadoSRI{ID: "10", Estado: sri.EstadoEnviado}, nil)

	svc := NewFacturaService(gw, nil)
	ctx := context.Background()

	e, err := svc.Estado(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, shared.ID("10"), e.ID)
	assert.False(t, e.Final())

	e, err = svc.Reenviar(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, sri.EstadoEnviado, e.Estado)
}

func TestFacturaService_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("authorized documents are archived and served from the archive", func(t *testing.T) {
		gw := gatewaytest.New(t)
		archive := storage.NewMemoryArchive()
		gw.On("Download", mock.Anything, "/facturas/5/pdf", url.Values(nil)).Return(pdfFile(), nil).Once()
		gw.On("Get", mock.Anything, "/facturas/5/estado", mock.Anything).
			Return(billing.EstadoSRI{ID: "5", Estado: sri.EstadoAutorizado}, nil, nil).Once()

		svc := NewFacturaService(gw, archive)
		file, err := svc.Download(ctx, "acme", "5", FormatoPDF)
		require.NoError(t, err)
		assert.Equal(t, "factura.pdf", file.Name)
		assert.Equal(t, 1, archive.Len())

		again, err := svc.Download(ctx, "acme", "5", FormatoPDF)
		require.NoError(t, err)
		assert.Equal(t, file.Data, again.Data)
	})

	t.Run("pending documents are not archived", func(t *testing.T) {
		gw := gatewaytest.New(t)
		archive := storage.NewMemoryArchive()
		gw.On("Download", mock.Anything, "/facturas/6/xml", url.Values(nil)).Return(pdfFile(), nil)
		gw.On("Get", mock.Anything, "/facturas/6/estado", mock.Anything).
			Return(billing.EstadoSRI{Estado: sri.EstadoPendiente}, nil, nil)

		_, err := NewFacturaService(gw, archive).Download(ctx, "acme", "6", FormatoXML)
		require.NoError(t, err)
		assert.Equal(t, 0, archive.Len())
	})

	t.Run("archives are per tenant", func(t *testing.T) {
		gw := gatewaytest.New(t)
		archive := storage.NewMemoryArchive()
		require.NoError(t, archive.Put(ctx, storage.Key("globex", "facturas", "7", "pdf"), pdfFile()))
		gw.On("Download", mock.Anything, "/facturas/7/pdf", url.Values(nil)).Return(pdfFile(), nil)
		gw.On("Get", mock.Anything, "/facturas/7/estado", mock.Anything).
			Return(billing.EstadoSRI{Estado: sri.EstadoAutorizado}, nil, nil)

		_, err := NewFacturaService(gw, archive).Download(ctx, "acme", "7", FormatoPDF)
		require.NoError(t, err)
		assert.Equal(t, 2, archive.Len())
	})

	t.Run("status failure still returns the file", func(t *testing.T) {
		gw := gatewaytest.New(t)
		archive := storage.NewMemoryArchive()
		gw.On("Download", mock.Anything, "/facturas/8/pdf", url.Values(nil)).Return(pdfFile(), nil)
		gw.On("Get", mock.Anything, "/facturas/8/estado", mock.Anything).Return(nil, nil, errors.New("boom"))

		file, err := NewFacturaService(gw, archive).Download(ctx, "acme", "8", FormatoPDF)
		require.NoError(t, err)
		assert.NotNil(t, file)
		assert.Equal(t, 0, archive.Len())
	})

	t.Run("unknown format is not found", func(t *testing.T) {
		gw := gatewaytest.New(t)
		_, err := NewFacturaService(gw, nil).Download(ctx, "acme", "8", "docx")
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})

	t.Run("backend error is returned", func(t *testing.T) {
		gw := gatewaytest.New(t)
		gw.On("Download", mock.Anything, "/facturas/9/pdf", url.Values(nil)).Return(nil, shared.ErrNotFound)

		_, err := NewFacturaService(gw, storage.NewMemoryArchive()).Download(ctx, "acme", "9", FormatoPDF)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestNotaCreditoService_Create(t *testing.T) {
	valid := billing.NotaCreditoInput{FacturaID: "3", Motivo: "Devolución", Total: decimal.RequireFromString("12.50")}

	t.Run("valid", func(t *testing.T) {
		gw := gatewaytest.New(t)
		gw.On("Post", mock.Anything, "/notas-credito", valid).Return(billing.NotaCredito{ID: "1", FacturaID: "3"}, nil)

		n, err := NewNotaCreditoService(gw).Create(context.Background(), valid)
		require.NoError(t, err)
		assert.Equal(t, shared.ID("1"), n.ID)
	})

	tests := []struct {
		name  string
		edit  func(*billing.NotaCreditoInput)
		field string
	}{
		{"missing factura", func(in *billing.NotaCreditoInput) { in.FacturaID = "" }, "factura_id"},
		{"missing motivo", func(in *billing.NotaCreditoInput) { in.Motivo = "" }, "motivo"},
		{"long motivo", func(in *billing.NotaCreditoInput) {
			in.Motivo = string(make([]rune, 301))
		}, "motivo"},
		{"zero total", func(in *billing.NotaCreditoInput) { in.Total = decimal.Zero }, "total"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			_, err := NewNotaCreditoService(gatewaytest.New(t)).Create(context.Background(), in)

			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Contains(t, de.Fields, tt.field)
		})
	}
}

func TestNotaCreditoService_ListAndDownload(t *testing.T) {
	gw := gatewaytest.New(t)
	gw.On("Get", mock.Anything, "/notas-credito", mock.Anything).Return([]billing.NotaCredito{
		{ID: "1", FacturaNumero: "001-001-000000010", Motivo: "Descuento"},
	}, nil, nil)
	gw.On("Download", mock.Anything, "/notas-credito/1/xml", url.Values(nil)).Return(pdfFile(), nil)

	svc := NewNotaCreditoService(gw)
	res, err := svc.List(context.Background(), shared.ListQuery{Search: "descuento"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	_, err = svc.Download(context.Background(), "1", FormatoXML)
	require.NoError(t, err)
}

func TestValidateRetencion(t *testing.T) {
	valid := billing.RetencionInput{
		CompraID:      "4",
		PeriodoFiscal: "03/2025",
		Detalles: []billing.RetencionDetalle{
			{Codigo: "312", BaseImponible: decimal.NewFromInt(100), Porcentaje: decimal.RequireFromString("1.75")},
		},
	}
	assert.NoError(t, ValidateRetencion(valid))

	tests := []struct {
		name  string
		edit  func(*billing.RetencionInput)
		field string
	}{
		{"missing compra", func(in *billing.RetencionInput) { in.CompraID = "" }, "compra_id"},
		{"bad period", func(in *billing.RetencionInput) { in.PeriodoFiscal = "2025-03" }, "periodo_fiscal"},
		{"month 13", func(in *billing.RetencionInput) { in.PeriodoFiscal = "13/2025" }, "periodo_fiscal"},
		{"no lines", func(in *billing.RetencionInput) { in.Detalles = nil }, "detalles"},
		{"percentage over 100", func(in *billing.RetencionInput) {
			in.Detalles = []billing.RetencionDetalle{{Codigo: "1", Porcentaje: decimal.NewFromInt(101)}}
		}, "detalles.0.porcentaje"},
		{"negative base", func(in *billing.RetencionInput) {
			in.Detalles = []billing.RetencionDetalle{{Codigo: "1", BaseImponible: decimal.NewFromInt(-1)}}
		}, "detalles.0.base_imponible"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			var de *shared.DomainError
			require.ErrorAs(t, ValidateRetencion(in), &de)
			assert.Contains(t, de.Fields, tt.field)
		})
	}
}

func TestRetencionService_Create(t *testing.T) {
	gw := gatewaytest.New(t)
	in := billing.RetencionInput{
		CompraID:      "4",
		PeriodoFiscal: "03/2025",
		Detalles:      []billing.RetencionDetalle{{Codigo: "312", BaseImponible: decimal.NewFromInt(100), Porcentaje: decimal.NewFromInt(2)}},
	}
	gw.On("Post", mock.Anything, "/retenciones", in).Return(billing.Retencion{ID: "2", Total: decimal.NewFromInt(2)}, nil)

	r, err := NewRetencionService(gw).Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "2", r.Total.String())
}

func TestImpuestoService(t *testing.T) {
	gw := gatewaytest.New(t)
	in := billing.ImpuestoInput{Codigo: "2", Nombre: "IVA 15%", Tipo: billing.TipoIVA, Porcentaje: decimal.NewFromInt(15), Activo: true}
	gw.On("Post", mock.Anything, "/impuestos", in).Return(billing.Impuesto{ID: "1", Nombre: in.Nombre}, nil)
	gw.On("Put", mock.Anything, "/impuestos/1", in).Return(billing.Impuesto{ID: "1"}, nil)
	gw.On("Get", mock.Anything, "/impuestos/1", mock.Anything).Return(billing.Impuesto{ID: "1", Tipo: billing.TipoIVA}, nil, nil)

	svc := NewImpuestoService(gw)
	ctx := context.Background()

	_, err := svc.Create(ctx, in)
	require.NoError(t, err)
	_, err = svc.Update(ctx, "1", in)
	require.NoError(t, err)
	got, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, billing.TipoIVA, got.Tipo)

	bad := in
	bad.Tipo = "ISD"
	bad.Porcentaje = decimal.NewFromInt(120)
	_, err = svc.Create(ctx, bad)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Fields, "tipo")
	assert.Contains(t, de.Fields, "porcentaje")
}
