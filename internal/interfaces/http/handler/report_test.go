package handler

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	orgapp "github.com/facturaec/dashboard/internal/application/organization"
	reportapp "github.com/facturaec/dashboard/internal/application/report"
	"github.com/facturaec/dashboard/internal/domain/organization"
	"github.com/facturaec/dashboard/internal/domain/report"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/infrastructure/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReportEnv(t *testing.T, now time.Time) *testEnv {
	env := newTestEnv(t)
	h := NewReportHandler(env.base, reportapp.NewReportService(env.gw, nil, nil), orgapp.NewConfiguracionService(env.gw))
	h.now = func() time.Time { return now }
	env.app.GET("/", h.Home)
	env.app.GET("/reportes", h.Ventas)
	env.app.GET("/reportes/ventas/excel", h.VentasExcel)
	env.app.GET("/reportes/ventas/pdf", h.VentasPDF)
	env.signIn(adminUser)
	return env
}

func resumenFixture(now time.Time) report.Resumen {
	return report.Resumen{
		VentasHoy:          decimal.RequireFromString("45.50"),
		TransaccionesHoy:   7,
		FacturasPendientes: 2,
		FacturasRechazadas: 1,
		VentasDiarias: []report.VentaDiaria{
			{Fecha: shared.NewDate(now.AddDate(0, 0, -1)), Total: decimal.NewFromInt(20), Count: 3},
			{Fecha: shared.NewDate(now), Total: decimal.RequireFromString("45.50"), Count: 7},
		},
	}
}

func TestReportHandler_Home(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		cert  any
		err   error
		alert string
	}{
		{name: "no certificate", err: shared.ErrNotFound, alert: "No hay un certificado de firma electrónica cargado"},
		{name: "expired certificate", cert: organization.Certificado{
			ValidoDesde: shared.NewDate(now.AddDate(-2, 0, 0)),
			ValidoHasta: shared.NewDate(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
		}, alert: "venció el 01/02/2026"},
		{name: "expiring certificate", cert: organization.Certificado{
			ValidoDesde: shared.NewDate(now.AddDate(-1, 0, 0)),
			ValidoHasta: shared.NewDate(now.AddDate(0, 0, 12)),
		}, alert: "vence en 12 días."},
		{name: "valid certificate", cert: organization.Certificado{
			ValidoDesde: shared.NewDate(now.AddDate(-1, 0, 0)),
			ValidoHasta: shared.NewDate(now.AddDate(1, 0, 0)),
		}},
		{name: "certificate lookup failure is silent", err: shared.ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newReportEnv(t, now)
			env.gw.On("Get", mock.Anything, "/reportes/resumen", mock.Anything).Return(resumenFixture(now), nil, nil)
			env.gw.On("Get", mock.Anything, "/certificados", mock.Anything).Return(tt.cert, nil, tt.err)

			w := env.get("/")

			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, "Ventas de hoy")
			assert.Regexp(t, `\$45[.,]50`, body)
			assert.Contains(t, body, `href="/facturas?estado=PENDIENTE"`)
			assert.Contains(t, body, "stat-danger")
			assert.NotContains(t, body, "stat-warning")
			assert.Contains(t, body, `class="bars"`)
			if tt.alert != "" {
				assert.Contains(t, body, tt.alert)
			} else {
				assert.NotContains(t, body, `role="alert"`)
			}
		})
	}
}

func TestReportHandler_Home_UpstreamDown(t *testing.T) {
	env := newReportEnv(t, time.Now())
	env.gw.On("Get", mock.Anything, "/reportes/resumen", mock.Anything).Return(nil, nil, shared.ErrUpstreamUnavailable)

	w := env.get("/")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestReportHandler_Ventas(t *testing.T) {
	t.Run("renders the range", func(t *testing.T) {
		env := newReportEnv(t, time.Now())
		env.gw.On("Get", mock.Anything, "/reportes/ventas", url.Values{
			"desde": {"2025-03-01"}, "hasta": {"2025-03-31"},
		}).Return(report.VentasReporte{
			Total:         decimal.RequireFromString("1120.00"),
			Subtotal:      decimal.NewFromInt(1000),
			IVA:           decimal.NewFromInt(120),
			Transacciones: 38,
			PorFormaPago:  []report.TotalPorGrupo{{Grupo: "Efectivo", Total: decimal.NewFromInt(800), Count: 30}},
			TopProductos: []report.ProductoVendido{{Codigo: "P-001", Nombre: "Café de Loja",
				Cantidad: decimal.NewFromInt(24), Total: decimal.RequireFromString("98.40")}},
		}, nil, nil)

		w := env.get("/reportes?desde=2025-03-01&hasta=2025-03-31")

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Total vendido")
		assert.Contains(t, body, ">38<")
		assert.Contains(t, body, "Efectivo")
		assert.Contains(t, body, "Café de Loja")
		assert.Contains(t, body, "Por sucursal")
		assert.Contains(t, body, "/reportes/ventas/excel?desde=2025-03-01&amp;hasta=2025-03-31")
		assert.NotContains(t, body, "Exportar PDF")
	})

	t.Run("inverted range is reported inline", func(t *testing.T) {
		env := newReportEnv(t, time.Now())

		w := env.get("/reportes?desde=2025-03-31&hasta=2025-03-01")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "La fecha desde debe ser anterior o igual a la fecha hasta")
		env.gw.AssertNotCalled(t, "Get", mock.Anything, "/reportes/ventas", mock.Anything)
	})

	t.Run("range one day past the limit", func(t *testing.T) {
		env := newReportEnv(t, time.Now())

		w := env.get("/reportes?desde=2025-01-01&hasta=2026-01-02")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "El rango de fechas no puede superar 366 días")
		env.gw.AssertNotCalled(t, "Get", mock.Anything, "/reportes/ventas", mock.Anything)
	})

	t.Run("malformed date", func(t *testing.T) {
		env := newReportEnv(t, time.Now())

		w := env.get("/reportes?desde=01/03/2025&hasta=2025-03-31")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Revise el rango de fechas")
	})
}

func TestReportHandler_VentasExcel(t *testing.T) {
	env := newReportEnv(t, time.Now())
	env.gw.On("Download", mock.Anything, "/reportes/ventas/excel", url.Values{
		"desde": {"2025-03-01"}, "hasta": {"2025-03-31"},
	}).Return(&shared.File{Name: "ventas.xlsx", ContentType: shared.ContentTypeXLSX, Data: []byte("PK")}, nil)

	w := env.get("/reportes/ventas/excel?desde=2025-03-01&hasta=2025-03-31")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PK", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
}

func TestReportHandler_VentasPDF_Disabled(t *testing.T) {
	env := newReportEnv(t, time.Now())

	w := env.get("/reportes/ventas/pdf?desde=2025-03-01&hasta=2025-03-31")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/reportes?desde=2025-03-01&hasta=2025-03-31", w.Header().Get("Location"))
	flashes := env.flashes()
	require.Len(t, flashes, 1)
	assert.Equal(t, session.FlashError, flashes[0].Kind)
	assert.Equal(t, "La exportación a PDF no está habilitada", flashes[0].Message)
}
