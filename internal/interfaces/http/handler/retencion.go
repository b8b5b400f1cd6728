package handler

import (
	"net/http"
	"time"

	billingapp "github.com/facturaec/dashboard/internal/application/billing"
	tradeapp "github.com/facturaec/dashboard/internal/application/trade"
	"github.com/facturaec/dashboard/internal/domain/billing"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
	"github.com/facturaec/dashboard/internal/domain/trade"
	"github.com/facturaec/dashboard/internal/infrastructure/session"
	"github.com/facturaec/dashboard/internal/interfaces/http/middleware"
	"github.com/facturaec/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
)

// RetencionHandler handles the withholding receipt pages
type RetencionHandler struct {
	BaseHandler
	retencionService *billingapp.RetencionService
	compraService    *tradeapp.CompraService
	impuestoService  *billingapp.ImpuestoService
}

// NewRetencionHandler creates a new RetencionHandler
func NewRetencionHandler(base BaseHandler, retencionService *billingapp.RetencionService, compraService *tradeapp.CompraService, impuestoService *billingapp.ImpuestoService) *RetencionHandler {
	return &RetencionHandler{
		BaseHandler:      base,
		retencionService: retencionService,
		compraService:    compraService,
		impuestoService:  impuestoService,
	}
}

// RetencionForm is the withholding receipt form. Lines are read from the
// detalles.N.* inputs before binding.
type RetencionForm struct {
	CompraID      string               `form:"compra_id" binding:"required"`
	PeriodoFiscal string               `form:"periodo_fiscal" binding:"required,periodo"`
	Detalles      []RetencionLineaForm `form:"-" json:"detalles" binding:"min=1,dive"`
}

// RetencionLineaForm is one withholding line
type RetencionLineaForm struct {
	Codigo        string `form:"codigo" binding:"required,max=10"`
	BaseImponible string `form:"base_imponible" binding:"required,decimal"`
	Porcentaje    string `form:"porcentaje" binding:"required,decimal"`
}

func (f RetencionForm) input() billing.RetencionInput {
	in := billing.RetencionInput{
		CompraID:      shared.ID(f.CompraID),
		PeriodoFiscal: f.PeriodoFiscal,
	}
	for _, l := range f.Detalles {
		base, pct := toDecimal(l.BaseImponible), toDecimal(l.Porcentaje)
		in.Detalles = append(in.Detalles, billing.RetencionDetalle{
			Codigo:        l.Codigo,
			BaseImponible: base,
			Porcentaje:    pct,
			Valor:         sri.RetencionValor(base, pct),
		})
	}
	return in
}

func retencionLines(c *gin.Context) []RetencionLineaForm {
	var out []RetencionLineaForm
	for _, row := range postedLines(c, "detalles") {
		out = append(out, RetencionLineaForm{
			Codigo:        row["codigo"],
			BaseImponible: row["base_imponible"],
			Porcentaje:    row["porcentaje"],
		})
	}
	return out
}

// List renders the withholding receipt list
func (h *RetencionHandler) List(c *gin.Context) {
	q := ListQuery(c)
	result, err := h.retencionService.List(c.Request.Context(), q)
	if err != nil {
		h.Fail(c, err)
		return
	}

	columns := []view.Column{
		{Label: "Número"}, {Label: "Fecha"}, {Label: "Proveedor"}, {Label: "Período"},
		{Label: "Total retenido", Align: "right"}, {Label: "Estado SRI"},
	}
	table := view.NewTable("Retenciones", "/retenciones", ListParams(q), result, columns, func(r billing.Retencion) view.Row {
		return view.Row{
			Cells: []view.Cell{
				view.Mono(r.Numero),
				view.Text(date(r.FechaEmision)),
				view.Link(r.Proveedor.RazonSocial, "/compras/"+r.CompraID.String()),
				view.Text(r.PeriodoFiscal),
				view.Number(money(r.Total)),
				estadoCell(r.Estado),
			},
			Actions: downloadActions("/retenciones/"+r.ID.String(), r.Estado),
		}
	})
	table.SearchHint = "Número, proveedor o período fiscal"
	table.Empty = "No hay retenciones"
	table.Description = "Las retenciones se emiten desde el detalle de una compra."

	h.Render(c, http.StatusOK, view.Page{Title: "Retenciones", Table: table})
}

// New renders the withholding form for the purchase in ?compra_id
func (h *RetencionHandler) New(c *gin.Context) {
	compraID := c.Query("compra_id")
	if compraID == "" {
		h.Flash(c, session.FlashError, "Seleccione la compra a la que se aplica la retención")
		h.Redirect(c, "/compras")
		return
	}
	compra, err := h.compraService.Get(c.Request.Context(), shared.ID(compraID))
	if err != nil {
		h.Fail(c, err)
		return
	}
	if compra.TieneRetencion() {
		h.ActionFailed(c, shared.NewDomainError(shared.CodeConflict,
			"La compra ya tiene una retención emitida"), "/compras/"+compra.ID.String())
		return
	}
	req := RetencionForm{
		CompraID:      compraID,
		PeriodoFiscal: sri.PeriodoDe(compra.FechaEmision.Time).String(),
		Detalles:      []RetencionLineaForm{{BaseImponible: decimalValue(compra.Subtotal)}},
	}
	if compra.FechaEmision.IsZero() {
		req.PeriodoFiscal = sri.PeriodoDe(time.Now()).String()
	}
	h.Render(c, http.StatusOK, view.Page{Title: "Retenciones", Form: h.form(c, req, compra)})
}

// Create issues the withholding receipt
func (h *RetencionHandler) Create(c *gin.Context) {
	req := RetencionForm{Detalles: retencionLines(c)}
	bindErr := c.ShouldBind(&req)
	form := func() *view.Form { return h.form(c, req, h.compra(c, req.CompraID)) }
	if bindErr != nil {
		h.FormFailed(c, "Retenciones", form(), middleware.BindingError(bindErr))
		return
	}
	r, err := h.retencionService.Create(c.Request.Context(), req.input())
	if err != nil {
		h.FormFailed(c, "Retenciones", form(), err)
		return
	}
	h.Saved(c, "Retención "+r.Numero+" emitida", "/retenciones")
}

// Download streams the XML or RIDE PDF of a withholding receipt
func (h *RetencionHandler) Download(formato billingapp.Formato) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := h.retencionService.Download(c.Request.Context(), ParamID(c), formato)
		if err != nil {
			h.Fail(c, err)
			return
		}
		Download(c, file)
	}
}

func (h *RetencionHandler) compra(c *gin.Context, id string) *trade.Compra {
	if id == "" {
		return nil
	}
	compra, err := h.compraService.Get(c.Request.Context(), shared.ID(id))
	if err != nil {
		return nil
	}
	return compra
}

// codigos offers the tenant's active withholding taxes. Without them the
// code is typed in.
func (h *RetencionHandler) codigos(c *gin.Context) []view.Option {
	result, err := h.impuestoService.List(c.Request.Context(), shared.ListQuery{PageSize: shared.MaxPageSize})
	if err != nil {
		return nil
	}
	var options []view.Option
	for _, i := range result.Items {
		if !i.Activo || (i.Tipo != billing.TipoRenta && i.Tipo != billing.TipoIVARetenido) {
			continue
		}
		options = append(options, view.Option{
			Value: i.Codigo,
			Label: i.Codigo + " · " + i.Nombre + " (" + i.Porcentaje.String() + "%)",
		})
	}
	return options
}

func (h *RetencionHandler) form(c *gin.Context, f RetencionForm, compra *trade.Compra) *view.Form {
	codigos := h.codigos(c)
	lines := f.Detalles
	if len(lines) == 0 {
		lines = []RetencionLineaForm{{}}
	}
	rows := make([][]view.Field, 0, len(lines))
	for i, l := range lines {
		codigo := view.Field{Value: l.Codigo, Required: true, MaxLength: 10}
		if len(codigos) > 0 {
			codigo.Type = "select"
			codigo.Options = view.Select(codigos, l.Codigo)
		}
		rows = append(rows, []view.Field{
			lineField("detalles", i, "codigo", codigo),
			lineField("detalles", i, "base_imponible", view.Field{Type: "number", Value: l.BaseImponible, Required: true, Min: "0", Step: "0.01"}),
			lineField("detalles", i, "porcentaje", view.Field{Type: "number", Value: l.Porcentaje, Required: true, Min: "0", Max: "100", Step: "0.01"}),
		})
	}

	form := &view.Form{
		Title:  "Nueva retención",
		Action: "/retenciones",
		Submit: "Emitir",
		Cancel: "/retenciones",
		Fields: []view.Field{
			{Name: "compra_id", Type: "hidden", Value: f.CompraID},
			{Name: "periodo_fiscal", Label: "Período fiscal", Value: f.PeriodoFiscal, Required: true, Placeholder: "MM/AAAA", Pattern: `\d{2}/\d{4}`},
		},
		Lines: &view.Lines{
			Name:    "detalles",
			Label:   "Impuestos retenidos",
			Columns: []string{"Código", "Base imponible", "Porcentaje"},
			Rows:    rows,
			AddRow:  true,
		},
		Preview: &view.Preview{
			Label:   "Total retenido (referencial)",
			Value:   money(f.input().PreviewTotal()),
			Formula: "pct:base_imponible,porcentaje",
		},
	}
	if compra != nil {
		form.Cancel = "/compras/" + compra.ID.String()
		form.Aside = &view.Detail{
			Title: "Compra " + compra.NumeroDocumento,
			Sections: []view.Section{{Items: []view.Item{
				{Label: "Proveedor", Value: compra.Proveedor.RazonSocial},
				{Label: "RUC", Value: compra.Proveedor.Identificacion, Mono: true},
				{Label: "Fecha de emisión", Value: date(compra.FechaEmision)},
				{Label: "Subtotal", Value: money(compra.Subtotal)},
				{Label: "IVA", Value: money(compra.IVA)},
			}}},
		}
	}
	return form
}
