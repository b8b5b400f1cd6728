package handler

import (
	"net/http"
	"time"

	billingapp "github.com/facturaec/dashboard/internal/application/billing"
	"github.com/facturaec/dashboard/internal/domain/billing"
	"github.com/facturaec/dashboard/internal/domain/sri"
	"github.com/facturaec/dashboard/internal/infrastructure/logger"
	"github.com/facturaec/dashboard/internal/interfaces/http/dto"
	"github.com/facturaec/dashboard/internal/interfaces/http/middleware"
	"github.com/facturaec/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FacturaHandler handles the invoice pages and the SRI status endpoints
type FacturaHandler struct {
	BaseHandler
	facturaService *billingapp.FacturaService
	pollInterval   time.Duration
}

// NewFacturaHandler creates a new FacturaHandler
func NewFacturaHandler(base BaseHandler, facturaService *billingapp.FacturaService, pollInterval time.Duration) *FacturaHandler {
	return &FacturaHandler{
		BaseHandler:    base,
		facturaService: facturaService,
		pollInterval:   pollInterval,
	}
}

// List renders the invoice list, optionally filtered by SRI state
func (h *FacturaHandler) List(c *gin.Context) {
	q := ListQuery(c)
	estado := sri.Estado(c.Query("estado"))
	if !estado.IsValid() {
		estado = ""
	}
	result, err := h.facturaService.List(c.Request.Context(), estado, q)
	if err != nil {
		h.Fail(c, err)
		return
	}

	columns := []view.Column{
		{Label: "Número"}, {Label: "Fecha"}, {Label: "Cliente"},
		{Label: "Total", Align: "right"}, {Label: "Estado SRI"},
	}
	table := view.NewTable("Facturas", "/facturas", ListParams(q, "estado", string(estado)), result, columns, func(f billing.Factura) view.Row {
		href := "/facturas/" + f.ID.String()
		return view.Row{
			Cells: []view.Cell{
				{Text: f.Numero, Href: href, Mono: true},
				view.Text(date(f.FechaEmision)),
				view.Text(f.Cliente.RazonSocial),
				view.Number(money(f.Total)),
				estadoCell(f.Estado),
			},
			Actions: documentActions(href, f.Estado),
		}
	})
	table.SearchHint = "Número, clave de acceso o cliente"
	table.Filters = []view.Filter{estadoFilter(estado)}
	table.Empty = "No hay facturas"

	h.Render(c, http.StatusOK, view.Page{Title: "Facturas", Table: table})
}

// Show renders one invoice with its SRI messages. Documents still in
// process poll their status until SRI gives a final answer.
func (h *FacturaHandler) Show(c *gin.Context) {
	id := ParamID(c)
	f, err := h.facturaService.Get(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}

	href := "/facturas/" + id.String()
	detail := &view.Detail{
		Title:    "Factura " + f.Numero,
		Subtitle: f.Cliente.RazonSocial,
		Badge:    badge(f.Estado),
		Back:     "/facturas",
		Sections: []view.Section{
			{Title: "Comprobante", Items: append([]view.Item{
				{Label: "Número", Value: f.Numero, Mono: true},
				{Label: "Fecha de emisión", Value: date(f.FechaEmision)},
			}, claveItems(f.ClaveAcceso)...)},
			{Title: "Cliente", Items: parteItems(f.Cliente)},
			{Title: "Totales", Items: []view.Item{
				{Label: "Subtotal", Value: money(f.Subtotal)},
				{Label: "IVA", Value: money(f.IVA)},
				{Label: "Total", Value: money(f.Total)},
			}},
		},
		Messages: mensajes(f.Mensajes),
		Actions:  documentActions(href, f.Estado),
	}
	if f.Estado.IsAuthorized() {
		detail.Actions = append(detail.Actions, view.Action{
			Label: "Emitir nota de crédito",
			Href:  "/notas-credito/nueva?factura_id=" + id.String(),
		})
	}
	if len(f.Detalles) > 0 {
		detail.Tables = []*view.Table{facturaLineas(f.Detalles)}
	}

	page := view.Page{Title: "Facturas", Detail: detail}
	if !f.Estado.IsFinal() {
		page.Estado = &view.EstadoPoll{
			URL:        href + "/estado",
			IntervalMS: h.pollInterval.Milliseconds(),
		}
	}
	h.Render(c, http.StatusOK, page)
}

// Estado answers the status poll of an invoice page
func (h *FacturaHandler) Estado(c *gin.Context) {
	estado, err := h.facturaService.Estado(c.Request.Context(), ParamID(c))
	if err != nil {
		h.Fail(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.NewSuccessResponse(estadoResponse(estado)))
}

// Reenviar asks the backend to submit a returned or rejected invoice again
func (h *FacturaHandler) Reenviar(c *gin.Context) {
	id := ParamID(c)
	back := "/facturas/" + id.String()
	estado, err := h.facturaService.Reenviar(c.Request.Context(), id)
	if err != nil {
		h.ActionFailed(c, err, back)
		return
	}
	logger.L(c.Request.Context()).Info("invoice resubmitted",
		zap.String("factura_id", id.String()),
		zap.String("estado", string(estado.Estado)),
	)
	h.Saved(c, "Factura reenviada al SRI. Estado: "+estado.Estado.Label(), back)
}

// Download streams the XML or RIDE PDF of an invoice
func (h *FacturaHandler) Download(formato billingapp.Formato) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := h.facturaService.Download(c.Request.Context(), middleware.GetTenant(c), ParamID(c), formato)
		if err != nil {
			h.Fail(c, err)
			return
		}
		Download(c, file)
	}
}

func estadoResponse(e *billing.EstadoSRI) dto.EstadoResponse {
	resp := dto.EstadoResponse{
		ID:       e.ID.String(),
		Estado:   string(e.Estado),
		Etiqueta: e.Estado.Label(),
		Final:    e.Final(),
	}
	for _, m := range e.Mensajes {
		resp.Mensajes = append(resp.Mensajes, m.Mensaje)
	}
	return resp
}

func estadoFilter(selected sri.Estado) view.Filter {
	options := make([]view.Option, 0, len(sri.Estados))
	for _, e := range sri.Estados {
		options = append(options, view.Option{Value: string(e), Label: e.Label(), Selected: e == selected})
	}
	return view.Filter{Name: "estado", Label: "Todos los estados", Value: string(selected), Options: options}
}

// documentActions adds the resend button for documents SRI returned or
// rejected. href is the document page.
func documentActions(href string, estado sri.Estado) []view.Action {
	actions := downloadActions(href, estado)
	if estado.CanResubmit() {
		actions = append(actions, view.Action{
			Label: "Reenviar", Href: href + "/reenviar", Method: "post", Tone: "primary",
			Confirm: "¿Reenviar el comprobante al SRI?",
		})
	}
	return actions
}

// downloadActions links the XML and, once authorized, the RIDE PDF
func downloadActions(href string, estado sri.Estado) []view.Action {
	actions := []view.Action{{Label: "XML", Href: href + "/xml"}}
	if estado.IsAuthorized() {
		actions = append(actions, view.Action{Label: "RIDE (PDF)", Href: href + "/pdf"})
	}
	return actions
}

func badge(e sri.Estado) *view.Cell {
	cell := estadoCell(e)
	return &cell
}

// claveItems decomposes an access key into the values a user checks
// against the SRI portal
func claveItems(clave string) []view.Item {
	if clave == "" {
		return nil
	}
	items := []view.Item{{Label: "Clave de acceso", Value: clave, Mono: true}}
	parsed, err := sri.ParseClaveAcceso(clave)
	if err != nil {
		return items
	}
	return append(items,
		view.Item{Label: "Tipo", Value: parsed.TipoComprobante.Nombre()},
		view.Item{Label: "Ambiente", Value: parsed.Ambiente.Label()},
	)
}

func parteItems(p billing.Parte) []view.Item {
	items := []view.Item{
		{Label: "Identificación", Value: p.Identificacion, Mono: true},
		{Label: "Razón social", Value: p.RazonSocial},
	}
	if p.Email != "" {
		items = append(items, view.Item{Label: "Correo", Value: p.Email})
	}
	return items
}

func mensajes(in []billing.Mensaje) []view.Message {
	out := make([]view.Message, 0, len(in))
	for _, m := range in {
		tone := "info"
		switch m.Tipo {
		case "ERROR":
			tone = "danger"
		case "ADVERTENCIA":
			tone = "warning"
		}
		out = append(out, view.Message{Code: m.Identificador, Text: m.Mensaje, Info: m.InformacionAdicional, Tone: tone})
	}
	return out
}

func facturaLineas(lineas []billing.FacturaLinea) *view.Table {
	table := &view.Table{
		Title: "Detalle",
		Columns: []view.Column{
			{Label: "Descripción"}, {Label: "Cantidad", Align: "right"},
			{Label: "P. unitario", Align: "right"}, {Label: "Descuento", Align: "right"},
			{Label: "Subtotal", Align: "right"},
		},
	}
	for _, l := range lineas {
		table.Rows = append(table.Rows, view.Row{Cells: []view.Cell{
			view.Text(l.Descripcion),
			view.Number(l.Cantidad.String()),
			view.Number(money(l.PrecioUnitario)),
			view.Number(money(l.Descuento)),
			view.Number(money(l.Subtotal)),
		}})
	}
	return table
}
