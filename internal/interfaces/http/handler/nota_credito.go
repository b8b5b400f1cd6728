package handler

import (
	"net/http"

	billingapp "github.com/facturaec/dashboard/internal/application/billing"
	"github.com/facturaec/dashboard/internal/domain/billing"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/infrastructure/session"
	"github.com/facturaec/dashboard/internal/interfaces/http/middleware"
	"github.com/facturaec/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
)

// NotaCreditoHandler handles the credit note pages
type NotaCreditoHandler struct {
	BaseHandler
	notaService    *billingapp.NotaCreditoService
	facturaService *billingapp.FacturaService
}

// NewNotaCreditoHandler creates a new NotaCreditoHandler
func NewNotaCreditoHandler(base BaseHandler, notaService *billingapp.NotaCreditoService, facturaService *billingapp.FacturaService) *NotaCreditoHandler {
	return &NotaCreditoHandler{
		BaseHandler:    base,
		notaService:    notaService,
		facturaService: facturaService,
	}
}

// NotaCreditoForm is the credit note form
type NotaCreditoForm struct {
	FacturaID string `form:"factura_id" binding:"required"`
	Motivo    string `form:"motivo" binding:"required,max=300"`
	Total     string `form:"total" binding:"required,decimal"`
}

func (f NotaCreditoForm) input() billing.NotaCreditoInput {
	return billing.NotaCreditoInput{
		FacturaID: shared.ID(f.FacturaID),
		Motivo:    f.Motivo,
		Total:     toDecimal(f.Total),
	}
}

// List renders the credit note list
func (h *NotaCreditoHandler) List(c *gin.Context) {
	q := ListQuery(c)
	result, err := h.notaService.List(c.Request.Context(), q)
	if err != nil {
		h.Fail(c, err)
		return
	}

	columns := []view.Column{
		{Label: "Número"}, {Label: "Fecha"}, {Label: "Factura"}, {Label: "Motivo"},
		{Label: "Total", Align: "right"}, {Label: "Estado SRI"},
	}
	table := view.NewTable("Notas de crédito", "/notas-credito", ListParams(q), result, columns, func(n billing.NotaCredito) view.Row {
		return view.Row{
			Cells: []view.Cell{
				view.Mono(n.Numero),
				view.Text(date(n.FechaEmision)),
				{Text: n.FacturaNumero, Href: "/facturas/" + n.FacturaID.String(), Mono: true},
				view.Text(n.Motivo),
				view.Number(money(n.Total)),
				estadoCell(n.Estado),
			},
			Actions: downloadActions("/notas-credito/"+n.ID.String(), n.Estado),
		}
	})
	table.SearchHint = "Número, factura o motivo"
	table.Empty = "No hay notas de crédito"
	table.Description = "Las notas de crédito se emiten desde una factura autorizada."
	table.Actions = []view.Action{{Label: "Ver facturas autorizadas", Href: "/facturas?estado=AUTORIZADO"}}

	h.Render(c, http.StatusOK, view.Page{Title: "Notas de crédito", Table: table})
}

// New renders the credit note form for the invoice in ?factura_id
func (h *NotaCreditoHandler) New(c *gin.Context) {
	req := NotaCreditoForm{FacturaID: c.Query("factura_id")}
	if req.FacturaID == "" {
		h.Flash(c, session.FlashError, "Seleccione la factura a la que se aplica la nota de crédito")
		h.Redirect(c, "/facturas?estado=AUTORIZADO")
		return
	}
	factura, err := h.facturaService.Get(c.Request.Context(), shared.ID(req.FacturaID))
	if err != nil {
		h.Fail(c, err)
		return
	}
	if !factura.Estado.IsAuthorized() {
		h.ActionFailed(c, shared.NewDomainError(shared.CodeInvalidState,
			"Solo se pueden emitir notas de crédito sobre facturas autorizadas"), "/facturas/"+factura.ID.String())
		return
	}
	req.Total = factura.Total.String()
	h.Render(c, http.StatusOK, view.Page{Title: "Notas de crédito", Form: h.form(req, factura)})
}

// Create issues the credit note
func (h *NotaCreditoHandler) Create(c *gin.Context) {
	var req NotaCreditoForm
	bindErr := c.ShouldBind(&req)
	form := func() *view.Form { return h.form(req, h.factura(c, req.FacturaID)) }
	if bindErr != nil {
		h.FormFailed(c, "Notas de crédito", form(), middleware.BindingError(bindErr))
		return
	}
	n, err := h.notaService.Create(c.Request.Context(), req.input())
	if err != nil {
		h.FormFailed(c, "Notas de crédito", form(), err)
		return
	}
	h.Saved(c, "Nota de crédito "+n.Numero+" emitida", "/notas-credito")
}

// Download streams the XML or RIDE PDF of a credit note
func (h *NotaCreditoHandler) Download(formato billingapp.Formato) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := h.notaService.Download(c.Request.Context(), ParamID(c), formato)
		if err != nil {
			h.Fail(c, err)
			return
		}
		Download(c, file)
	}
}

// factura loads the invoice shown beside a re-rendered form. A lookup
// failure only drops the summary.
func (h *NotaCreditoHandler) factura(c *gin.Context, id string) *billing.Factura {
	if id == "" {
		return nil
	}
	f, err := h.facturaService.Get(c.Request.Context(), shared.ID(id))
	if err != nil {
		return nil
	}
	return f
}

func (h *NotaCreditoHandler) form(f NotaCreditoForm, factura *billing.Factura) *view.Form {
	form := &view.Form{
		Title:  "Nueva nota de crédito",
		Action: "/notas-credito",
		Submit: "Emitir",
		Cancel: "/notas-credito",
		Fields: []view.Field{
			{Name: "factura_id", Type: "hidden", Value: f.FacturaID},
			{Name: "motivo", Label: "Motivo", Type: "textarea", Value: f.Motivo, Required: true, MaxLength: 300, Width: "full"},
			{Name: "total", Label: "Valor de la nota", Type: "number", Value: f.Total, Required: true, Min: "0.01", Step: "0.01"},
		},
	}
	if factura != nil {
		form.Cancel = "/facturas/" + factura.ID.String()
		form.Aside = &view.Detail{
			Title: "Factura " + factura.Numero,
			Sections: []view.Section{{Items: []view.Item{
				{Label: "Cliente", Value: factura.Cliente.RazonSocial},
				{Label: "Identificación", Value: factura.Cliente.Identificacion, Mono: true},
				{Label: "Fecha de emisión", Value: date(factura.FechaEmision)},
				{Label: "Total facturado", Value: money(factura.Total)},
			}}},
		}
		form.Field("total").Max = factura.Total.String()
	}
	return form
}
