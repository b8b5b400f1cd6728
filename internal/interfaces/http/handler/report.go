package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	orgapp "github.com/facturaec/dashboard/internal/application/organization"
	reportapp "github.com/facturaec/dashboard/internal/application/report"
	"github.com/facturaec/dashboard/internal/domain/report"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
	"github.com/facturaec/dashboard/internal/infrastructure/logger"
	"github.com/facturaec/dashboard/internal/infrastructure/session"
	"github.com/facturaec/dashboard/internal/interfaces/http/dto"
	"github.com/facturaec/dashboard/internal/interfaces/http/middleware"
	"github.com/facturaec/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportHandler handles the dashboard home and the sales report
type ReportHandler struct {
	BaseHandler
	reportService        *reportapp.ReportService
	configuracionService *orgapp.ConfiguracionService
	now                  func() time.Time
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(base BaseHandler, reportService *reportapp.ReportService, configuracionService *orgapp.ConfiguracionService) *ReportHandler {
	return &ReportHandler{
		BaseHandler:          base,
		reportService:        reportService,
		configuracionService: configuracionService,
		now:                  time.Now,
	}
}

// Home renders the summary cards and the daily sales chart
func (h *ReportHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	resumen, err := h.reportService.Resumen(ctx)
	if err != nil {
		h.Fail(c, err)
		return
	}

	pendientes := view.Card{Label: "Facturas pendientes SRI", Value: itoa(resumen.FacturasPendientes),
		Href: "/facturas?estado=" + string(sri.EstadoPendiente)}
	rechazadas := view.Card{Label: "Facturas no autorizadas", Value: itoa(resumen.FacturasRechazadas),
		Href: "/facturas?estado=" + string(sri.EstadoNoAutorizado)}
	if resumen.FacturasRechazadas > 0 {
		rechazadas.Tone = "danger"
	}
	bajoStock := view.Card{Label: "Productos bajo stock", Value: itoa(resumen.ProductosBajoStock), Href: "/productos"}
	if resumen.ProductosBajoStock > 0 {
		bajoStock.Tone = "warning"
	}

	home := &view.Home{
		Cards: []view.Card{
			{Label: "Ventas de hoy", Value: money(resumen.VentasHoy), Href: "/ventas", Tone: "primary"},
			{Label: "Transacciones de hoy", Value: itoa(resumen.TransaccionesHoy), Href: "/ventas"},
			pendientes,
			rechazadas,
			bajoStock,
		},
		Bars:  bars(resumen.VentasDiarias),
		Alert: h.certificadoAlert(c),
	}
	h.Render(c, http.StatusOK, view.Page{Title: "Inicio", Home: home})
}

// certificadoAlert warns about a missing, expired or expiring signing
// certificate. Lookup failures show nothing.
func (h *ReportHandler) certificadoAlert(c *gin.Context) *view.Flash {
	if h.configuracionService == nil {
		return nil
	}
	cert, err := h.configuracionService.Certificado(c.Request.Context())
	if err != nil {
		return nil
	}
	now := h.now()
	switch {
	case cert == nil:
		return &view.Flash{Kind: string(session.FlashError), Message: "No hay un certificado de firma electrónica cargado. Los comprobantes no pueden emitirse."}
	case !cert.Vigente(now):
		return &view.Flash{Kind: string(session.FlashError), Message: "El certificado de firma electrónica venció el " + date(cert.ValidoHasta) + "."}
	case cert.PorVencer(now):
		return &view.Flash{Kind: string(session.FlashInfo), Message: "El certificado de firma electrónica vence en " +
			strconv.Itoa(cert.DiasRestantes(now)) + " días."}
	}
	return nil
}

// Ventas renders the sales report for ?desde&hasta, the current month by default
func (h *ReportHandler) Ventas(c *gin.Context) {
	ctx := c.Request.Context()
	desde, hasta := c.Query("desde"), c.Query("hasta")
	page := &view.Reporte{Desde: desde, Hasta: hasta, PDFEnabled: h.reportService.PDFEnabled()}

	rango, err := h.reportService.Rango(desde, hasta)
	if err != nil {
		_, info := dto.ErrorFrom(err)
		page.Error = info.Message
		h.Render(c, http.StatusUnprocessableEntity, view.Page{Title: "Reportes", Reporte: page})
		return
	}
	page.Desde = rango.Desde.Format(shared.DateLayout)
	page.Hasta = rango.Hasta.Format(shared.DateLayout)
	query := url.Values{"desde": {page.Desde}, "hasta": {page.Hasta}}.Encode()
	page.ExcelHref = "/reportes/ventas/excel?" + query
	page.PDFHref = "/reportes/ventas/pdf?" + query

	rep, err := h.reportService.Ventas(ctx, rango)
	if err != nil {
		h.Fail(c, err)
		return
	}

	page.Cards = []view.Card{
		{Label: "Total vendido", Value: money(rep.Total), Tone: "primary"},
		{Label: "Subtotal", Value: money(rep.Subtotal)},
		{Label: "IVA", Value: money(rep.IVA)},
		{Label: "Transacciones", Value: itoa(rep.Transacciones)},
	}
	page.Bars = bars(rep.PorDia)
	page.Tables = []*view.Table{
		grupoTable("Por forma de pago", "Forma de pago", rep.PorFormaPago),
		grupoTable("Por sucursal", "Sucursal", rep.PorSucursal),
		topProductosTable(rep.TopProductos),
	}
	h.Render(c, http.StatusOK, view.Page{Title: "Reportes", Reporte: page})
}

// VentasExcel passes the backend spreadsheet through
func (h *ReportHandler) VentasExcel(c *gin.Context) {
	rango, err := h.reportService.Rango(c.Query("desde"), c.Query("hasta"))
	if err != nil {
		h.ActionFailed(c, err, "/reportes")
		return
	}
	file, err := h.reportService.VentasExcel(c.Request.Context(), rango)
	if err != nil {
		h.ActionFailed(c, err, "/reportes?"+c.Request.URL.RawQuery)
		return
	}
	Download(c, file)
}

// VentasPDF renders the report print layout to PDF
func (h *ReportHandler) VentasPDF(c *gin.Context) {
	rango, err := h.reportService.Rango(c.Query("desde"), c.Query("hasta"))
	if err != nil {
		h.ActionFailed(c, err, "/reportes")
		return
	}
	file, err := h.reportService.VentasPDF(c.Request.Context(), middleware.GetTenant(c), rango)
	if err != nil {
		logger.L(c.Request.Context()).Warn("sales report PDF export failed", zap.Error(err))
		h.ActionFailed(c, err, "/reportes?"+c.Request.URL.RawQuery)
		return
	}
	Download(c, file)
}

func bars(dias []report.VentaDiaria) []view.Bar {
	barras := report.Barras(dias)
	out := make([]view.Bar, 0, len(barras))
	for _, b := range barras {
		out = append(out, view.Bar{
			Label:   b.Fecha.Format("02/01"),
			Value:   money(b.Total),
			Percent: b.Porcentaje,
		})
	}
	return out
}

func grupoTable(title, label string, grupos []report.TotalPorGrupo) *view.Table {
	table := &view.Table{
		Title:   title,
		Empty:   "Sin datos",
		Columns: []view.Column{{Label: label}, {Label: "Transacciones", Align: "right"}, {Label: "Total", Align: "right"}},
	}
	for _, g := range grupos {
		table.Rows = append(table.Rows, view.Row{Cells: []view.Cell{
			view.Text(g.Grupo),
			view.Number(itoa(g.Count)),
			view.Number(money(g.Total)),
		}})
	}
	return table
}

func topProductosTable(productos []report.ProductoVendido) *view.Table {
	table := &view.Table{
		Title: "Productos más vendidos",
		Empty: "Sin datos",
		Columns: []view.Column{
			{Label: "Código"}, {Label: "Producto"},
			{Label: "Cantidad", Align: "right"}, {Label: "Total", Align: "right"},
		},
	}
	for _, p := range productos {
		table.Rows = append(table.Rows, view.Row{Cells: []view.Cell{
			view.Mono(p.Codigo),
			view.Text(p.Nombre),
			view.Number(p.Cantidad.String()),
			view.Number(money(p.Total)),
		}})
	}
	return table
}
