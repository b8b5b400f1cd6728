package handler

import (
	"net/http"
	"time"

	catalogapp "github.com/facturaec/dashboard/internal/application/catalog"
	tradeapp "github.com/facturaec/dashboard/internal/application/trade"
	"github.com/facturaec/dashboard/internal/domain/billing"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/trade"
	"github.com/facturaec/dashboard/internal/interfaces/http/middleware"
	"github.com/facturaec/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
)

// CompraHandler handles the purchase pages
type CompraHandler struct {
	BaseHandler
	compraService  *tradeapp.CompraService
	productService *catalogapp.ProductService
}

// NewCompraHandler creates a new CompraHandler
func NewCompraHandler(base BaseHandler, compraService *tradeapp.CompraService, productService *catalogapp.ProductService) *CompraHandler {
	return &CompraHandler{
		BaseHandler:    base,
		compraService:  compraService,
		productService: productService,
	}
}

// CompraForm is the purchase registration form
type CompraForm struct {
	NumeroDocumento string            `form:"numero_documento" binding:"required,numdoc"`
	Identificacion  string            `form:"proveedor.identificacion" binding:"required,identificacion"`
	RazonSocial     string            `form:"proveedor.razon_social" binding:"required,max=300"`
	Email           string            `form:"proveedor.email" binding:"omitempty,email"`
	FechaEmision    string            `form:"fecha_emision" binding:"required,datetime=2006-01-02"`
	Detalles        []CompraLineaForm `form:"-" json:"detalles" binding:"min=1,dive"`
}

// CompraLineaForm is one purchase line
type CompraLineaForm struct {
	ProductoID    string `form:"producto_id"`
	Descripcion   string `form:"descripcion" binding:"required,max=300"`
	Cantidad      string `form:"cantidad" binding:"required,decimal"`
	CostoUnitario string `form:"costo_unitario" binding:"required,decimal"`
}

func (f CompraForm) input() trade.CompraInput {
	in := trade.CompraInput{
		NumeroDocumento: f.NumeroDocumento,
		Proveedor: billing.Parte{
			Identificacion: f.Identificacion,
			RazonSocial:    f.RazonSocial,
			Email:          f.Email,
		},
		FechaEmision: f.FechaEmision,
	}
	for _, l := range f.Detalles {
		in.Detalles = append(in.Detalles, trade.CompraDetalle{
			ProductoID:    shared.ID(l.ProductoID),
			Descripcion:   l.Descripcion,
			Cantidad:      toDecimal(l.Cantidad),
			CostoUnitario: toDecimal(l.CostoUnitario),
		})
	}
	return in
}

func compraLines(c *gin.Context) []CompraLineaForm {
	var out []CompraLineaForm
	for _, row := range postedLines(c, "detalles") {
		out = append(out, CompraLineaForm{
			ProductoID:    row["producto_id"],
			Descripcion:   row["descripcion"],
			Cantidad:      row["cantidad"],
			CostoUnitario: row["costo_unitario"],
		})
	}
	return out
}

// List renders the purchase list
func (h *CompraHandler) List(c *gin.Context) {
	q := ListQuery(c)
	result, err := h.compraService.List(c.Request.Context(), q)
	if err != nil {
		h.Fail(c, err)
		return
	}

	columns := []view.Column{
		{Label: "Documento"}, {Label: "Fecha"}, {Label: "Proveedor"},
		{Label: "Total", Align: "right"}, {Label: "Retención"},
	}
	table := view.NewTable("Compras", "/compras", ListParams(q), result, columns, func(p trade.Compra) view.Row {
		href := "/compras/" + p.ID.String()
		retencion := view.Badge("Pendiente", "warning")
		if p.TieneRetencion() {
			retencion = view.Badge("Emitida", "success")
		}
		return view.Row{
			Cells: []view.Cell{
				{Text: p.NumeroDocumento, Href: href, Mono: true},
				view.Text(date(p.FechaEmision)),
				view.Text(p.Proveedor.RazonSocial),
				view.Number(money(p.Total)),
				retencion,
			},
			Actions: []view.Action{{Label: "Ver", Href: href}},
		}
	})
	table.SearchHint = "Proveedor o número de documento"
	table.Actions = []view.Action{{Label: "Registrar compra", Href: "/compras/nueva", Tone: "primary"}}

	h.Render(c, http.StatusOK, view.Page{Title: "Compras", Table: table})
}

// Show renders a purchase with its lines
func (h *CompraHandler) Show(c *gin.Context) {
	p, err := h.compraService.Get(c.Request.Context(), ParamID(c))
	if err != nil {
		h.Fail(c, err)
		return
	}

	retencion := view.Item{Label: "Retención", Value: "Pendiente", Tone: "warning"}
	if p.TieneRetencion() {
		retencion = view.Item{Label: "Retención", Value: "Emitida", Tone: "success", Href: "/retenciones?q=" + p.Proveedor.Identificacion}
	}
	lines := &view.Table{
		Title: "Detalle",
		Columns: []view.Column{
			{Label: "Descripción"}, {Label: "Cantidad", Align: "right"},
			{Label: "Costo unitario", Align: "right"}, {Label: "Subtotal", Align: "right"},
		},
	}
	for _, d := range p.Detalles {
		lines.Rows = append(lines.Rows, view.Row{Cells: []view.Cell{
			view.Text(d.Descripcion),
			view.Number(d.Cantidad.String()),
			view.Number(money(d.CostoUnitario)),
			view.Number(money(d.Subtotal())),
		}})
	}

	detail := &view.Detail{
		Title:    "Compra " + p.NumeroDocumento,
		Subtitle: p.Proveedor.RazonSocial,
		Back:     "/compras",
		Sections: []view.Section{
			{Title: "Documento", Items: []view.Item{
				{Label: "Número", Value: p.NumeroDocumento, Mono: true},
				{Label: "Fecha de emisión", Value: date(p.FechaEmision)},
				retencion,
			}},
			{Title: "Proveedor", Items: parteItems(p.Proveedor)},
			{Title: "Totales", Items: []view.Item{
				{Label: "Subtotal", Value: money(p.Subtotal)},
				{Label: "IVA", Value: money(p.IVA)},
				{Label: "Total", Value: money(p.Total)},
			}},
		},
		Tables: []*view.Table{lines},
	}
	if !p.TieneRetencion() {
		detail.Actions = []view.Action{{
			Label: "Emitir retención",
			Href:  "/retenciones/nueva?compra_id=" + p.ID.String(),
			Tone:  "primary",
		}}
	}
	h.Render(c, http.StatusOK, view.Page{Title: "Compras", Detail: detail})
}

// New renders an empty purchase form with one line
func (h *CompraHandler) New(c *gin.Context) {
	req := CompraForm{
		FechaEmision: time.Now().Format(shared.DateLayout),
		Detalles:     []CompraLineaForm{{}},
	}
	h.Render(c, http.StatusOK, view.Page{Title: "Compras", Form: h.form(c, req)})
}

// Create registers the purchase
func (h *CompraHandler) Create(c *gin.Context) {
	req := CompraForm{Detalles: compraLines(c)}
	if err := c.ShouldBind(&req); err != nil {
		h.FormFailed(c, "Compras", h.form(c, req), middleware.BindingError(err))
		return
	}
	p, err := h.compraService.Create(c.Request.Context(), req.input())
	if err != nil {
		h.FormFailed(c, "Compras", h.form(c, req), err)
		return
	}
	h.Saved(c, "Compra "+p.NumeroDocumento+" registrada", "/compras/"+p.ID.String())
}

func (h *CompraHandler) form(c *gin.Context, f CompraForm) *view.Form {
	products := productOptions(c.Request.Context(), h.productService)
	lines := f.Detalles
	if len(lines) == 0 {
		lines = []CompraLineaForm{{}}
	}
	rows := make([][]view.Field, 0, len(lines))
	for i, l := range lines {
		rows = append(rows, []view.Field{
			lineField("detalles", i, "producto_id", view.Field{Type: "select", Options: view.Select(products, l.ProductoID)}),
			lineField("detalles", i, "descripcion", view.Field{Value: l.Descripcion, Required: true, MaxLength: 300}),
			lineField("detalles", i, "cantidad", view.Field{Type: "number", Value: l.Cantidad, Required: true, Min: "0", Step: "any"}),
			lineField("detalles", i, "costo_unitario", view.Field{Type: "number", Value: l.CostoUnitario, Required: true, Min: "0", Step: "0.0001"}),
		})
	}

	return &view.Form{
		Title:  "Registrar compra",
		Action: "/compras",
		Cancel: "/compras",
		Fields: []view.Field{
			{Name: "numero_documento", Label: "Número de documento", Value: f.NumeroDocumento, Required: true,
				Placeholder: "001-001-000000001", Pattern: `\d{3}-\d{3}-\d{9}`},
			{Name: "fecha_emision", Label: "Fecha de emisión", Type: "date", Value: f.FechaEmision, Required: true},
			{Name: "proveedor.identificacion", Label: "RUC o cédula del proveedor", Value: f.Identificacion, Required: true, MaxLength: 13},
			{Name: "proveedor.razon_social", Label: "Razón social", Value: f.RazonSocial, Required: true, MaxLength: 300},
			{Name: "proveedor.email", Label: "Correo del proveedor", Type: "email", Value: f.Email},
		},
		Lines: &view.Lines{
			Name:    "detalles",
			Label:   "Productos",
			Columns: []string{"Producto", "Descripción", "Cantidad", "Costo unitario"},
			Rows:    rows,
			AddRow:  true,
		},
		Preview: &view.Preview{
			Label:   "Subtotal (referencial)",
			Value:   money(f.input().PreviewSubtotal()),
			Formula: "lines:cantidad*costo_unitario",
		},
	}
}
