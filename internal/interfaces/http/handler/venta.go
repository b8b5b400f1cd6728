package handler

import (
	"net/http"

	orgapp "github.com/facturaec/dashboard/internal/application/organization"
	tradeapp "github.com/facturaec/dashboard/internal/application/trade"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/trade"
	"github.com/facturaec/dashboard/internal/infrastructure/session"
	"github.com/facturaec/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
)

// VentaHandler handles the POS sales history pages
type VentaHandler struct {
	BaseHandler
	ventaService    *tradeapp.VentaService
	sucursalService *orgapp.SucursalService
}

// NewVentaHandler creates a new VentaHandler
func NewVentaHandler(base BaseHandler, ventaService *tradeapp.VentaService, sucursalService *orgapp.SucursalService) *VentaHandler {
	return &VentaHandler{
		BaseHandler:     base,
		ventaService:    ventaService,
		sucursalService: sucursalService,
	}
}

// ventaFilter reads ?desde, ?hasta and ?sucursal_id. Unparseable dates are
// ignored.
func ventaFilter(c *gin.Context) tradeapp.VentaFilter {
	f := tradeapp.VentaFilter{SucursalID: shared.ID(c.Query("sucursal_id"))}
	if d, err := shared.ParseDate(c.Query("desde")); err == nil {
		f.Desde = d
	}
	if d, err := shared.ParseDate(c.Query("hasta")); err == nil {
		f.Hasta = d
	}
	return f
}

// List renders the sales history. An inverted date range is reported on the
// page instead of failing it.
func (h *VentaHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	q := ListQuery(c)
	filter := ventaFilter(c)

	var flashes []view.Flash
	result, err := h.ventaService.List(ctx, filter, q)
	if err != nil {
		if !shared.IsCode(err, shared.CodeValidation) {
			h.Fail(c, err)
			return
		}
		flashes = append(flashes, view.Flash{Kind: string(session.FlashError), Message: "La fecha hasta debe ser posterior o igual a la fecha desde"})
		result = shared.ListResult[trade.Venta]{Page: shared.Paginate(0, 1, q.PageSize), Search: q.Search}
	}

	names := sucursalNames(ctx, h.sucursalService)
	columns := []view.Column{
		{Label: "Fecha"}, {Label: "Sucursal"}, {Label: "Cajero"}, {Label: "Forma de pago"},
		{Label: "Total", Align: "right"}, {Label: "Factura"},
	}
	params := ListParams(q,
		"desde", dateParam(filter.Desde),
		"hasta", dateParam(filter.Hasta),
		"sucursal_id", filter.SucursalID.String(),
	)
	table := view.NewTable("Ventas", "/ventas", params, result, columns, func(v trade.Venta) view.Row {
		href := "/ventas/" + v.ID.String()
		factura := view.Badge("Sin factura", "muted")
		if v.Facturada() {
			factura = view.Link("Ver factura", "/facturas/"+v.FacturaID.String())
		}
		return view.Row{
			Cells: []view.Cell{
				view.Link(datetime(v.Fecha), href),
				view.Text(nameOr(names, v.SucursalID)),
				view.Text(v.Cajero),
				view.Text(v.FormaPago.Label()),
				view.Number(money(v.Total)),
				factura,
			},
		}
	})
	table.SearchHint = "Cajero o forma de pago"
	table.Filters = []view.Filter{
		{Name: "desde", Label: "Desde", Type: "date", Value: dateParam(filter.Desde)},
		{Name: "hasta", Label: "Hasta", Type: "date", Value: dateParam(filter.Hasta)},
		{Name: "sucursal_id", Label: "Todas las sucursales", Value: filter.SucursalID.String(),
			Options: view.Select(sucursalOptions(ctx, h.sucursalService), filter.SucursalID.String())},
	}
	table.Empty = "No hay ventas en el período"

	h.Render(c, http.StatusOK, view.Page{Title: "Ventas", Table: table, Flashes: flashes})
}

// Show renders one sale with a link to its invoice
func (h *VentaHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	v, err := h.ventaService.Get(ctx, ParamID(c))
	if err != nil {
		h.Fail(c, err)
		return
	}

	names := sucursalNames(ctx, h.sucursalService)
	factura := view.Item{Label: "Factura", Value: "Sin factura", Tone: "muted"}
	if v.Facturada() {
		factura = view.Item{Label: "Factura", Value: "Ver factura", Href: "/facturas/" + v.FacturaID.String()}
	}
	detail := &view.Detail{
		Title:    "Venta " + datetime(v.Fecha),
		Subtitle: nameOr(names, v.SucursalID),
		Back:     "/ventas",
		Sections: []view.Section{
			{Items: []view.Item{
				{Label: "Fecha", Value: datetime(v.Fecha)},
				{Label: "Sucursal", Value: nameOr(names, v.SucursalID)},
				{Label: "Cajero", Value: v.Cajero},
				{Label: "Turno", Value: v.TurnoID.String(), Mono: true},
				{Label: "Forma de pago", Value: v.FormaPago.Label()},
				{Label: "Total", Value: money(v.Total)},
				factura,
			}},
		},
	}
	h.Render(c, http.StatusOK, view.Page{Title: "Ventas", Detail: detail})
}

func dateParam(d shared.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.DateString()
}
