package handler

import (
	"net/http"

	billingapp "github.com/facturaec/dashboard/internal/application/billing"
	"github.com/facturaec/dashboard/internal/domain/billing"
	"github.com/facturaec/dashboard/internal/interfaces/http/middleware"
	"github.com/facturaec/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
)

// ImpuestoHandler handles the tax pages
type ImpuestoHandler struct {
	BaseHandler
	impuestoService *billingapp.ImpuestoService
}

// NewImpuestoHandler creates a new ImpuestoHandler
func NewImpuestoHandler(base BaseHandler, impuestoService *billingapp.ImpuestoService) *ImpuestoHandler {
	return &ImpuestoHandler{
		BaseHandler:     base,
		impuestoService: impuestoService,
	}
}

// ImpuestoForm is the tax create/edit form
type ImpuestoForm struct {
	Codigo     string `form:"codigo" binding:"required,max=10"`
	Nombre     string `form:"nombre" binding:"required,max=100"`
	Tipo       string `form:"tipo" binding:"required,oneof=IVA ICE RENTA IVA_RETENIDO"`
	Porcentaje string `form:"porcentaje" binding:"required,decimal"`
	Activo     bool   `form:"activo"`
}

func (f ImpuestoForm) input() billing.ImpuestoInput {
	return billing.ImpuestoInput{
		Codigo:     f.Codigo,
		Nombre:     f.Nombre,
		Tipo:       billing.TipoImpuesto(f.Tipo),
		Porcentaje: toDecimal(f.Porcentaje),
		Activo:     f.Activo,
	}
}

// List renders the tax list
func (h *ImpuestoHandler) List(c *gin.Context) {
	q := ListQuery(c)
	result, err := h.impuestoService.List(c.Request.Context(), q)
	if err != nil {
		h.Fail(c, err)
		return
	}

	columns := []view.Column{
		{Label: "Código"}, {Label: "Nombre"}, {Label: "Tipo"},
		{Label: "Porcentaje", Align: "right"}, {Label: "Estado"},
	}
	table := view.NewTable("Impuestos", "/impuestos", ListParams(q), result, columns, func(i billing.Impuesto) view.Row {
		edit := "/impuestos/" + i.ID.String() + "/editar"
		return view.Row{
			Cells: []view.Cell{
				view.Mono(i.Codigo),
				view.Link(i.Nombre, edit),
				view.Text(i.Tipo.Label()),
				view.Number(i.Porcentaje.StringFixed(2) + " %"),
				activoCell(i.Activo),
			},
			Actions: []view.Action{{Label: "Editar", Href: edit}},
		}
	})
	table.SearchHint = "Código, nombre o tipo"
	table.Actions = []view.Action{{Label: "Nuevo impuesto", Href: "/impuestos/nuevo", Tone: "primary"}}

	h.Render(c, http.StatusOK, view.Page{Title: "Impuestos", Table: table})
}

// New renders an empty tax form
func (h *ImpuestoHandler) New(c *gin.Context) {
	form := impuestoForm("Nuevo impuesto", "/impuestos", ImpuestoForm{Activo: true, Tipo: string(billing.TipoIVA)})
	h.Render(c, http.StatusOK, view.Page{Title: "Impuestos", Form: form})
}

// Create handles the new tax form
func (h *ImpuestoHandler) Create(c *gin.Context) {
	var req ImpuestoForm
	form := func() *view.Form { return impuestoForm("Nuevo impuesto", "/impuestos", req) }
	if err := c.ShouldBind(&req); err != nil {
		h.FormFailed(c, "Impuestos", form(), middleware.BindingError(err))
		return
	}
	i, err := h.impuestoService.Create(c.Request.Context(), req.input())
	if err != nil {
		h.FormFailed(c, "Impuestos", form(), err)
		return
	}
	h.Saved(c, "Impuesto "+i.Nombre+" creado", "/impuestos")
}

// Edit renders the edit form of a tax
func (h *ImpuestoHandler) Edit(c *gin.Context) {
	id := ParamID(c)
	i, err := h.impuestoService.Get(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	form := impuestoForm("Editar impuesto", "/impuestos/"+id.String(), ImpuestoForm{
		Codigo:     i.Codigo,
		Nombre:     i.Nombre,
		Tipo:       string(i.Tipo),
		Porcentaje: i.Porcentaje.String(),
		Activo:     i.Activo,
	})
	h.Render(c, http.StatusOK, view.Page{Title: "Impuestos", Form: form})
}

// Update handles the tax edit form
func (h *ImpuestoHandler) Update(c *gin.Context) {
	id := ParamID(c)
	var req ImpuestoForm
	form := func() *view.Form { return impuestoForm("Editar impuesto", "/impuestos/"+id.String(), req) }
	if err := c.ShouldBind(&req); err != nil {
		h.FormFailed(c, "Impuestos", form(), middleware.BindingError(err))
		return
	}
	i, err := h.impuestoService.Update(c.Request.Context(), id, req.input())
	if err != nil {
		h.FormFailed(c, "Impuestos", form(), err)
		return
	}
	h.Saved(c, "Impuesto "+i.Nombre+" actualizado", "/impuestos")
}

func impuestoForm(title, action string, f ImpuestoForm) *view.Form {
	tipos := make([]view.Option, 0, len(billing.TiposImpuesto))
	for _, t := range billing.TiposImpuesto {
		tipos = append(tipos, view.Option{Value: string(t), Label: t.Label(), Selected: string(t) == f.Tipo})
	}
	return &view.Form{
		Title:  title,
		Action: action,
		Cancel: "/impuestos",
		Fields: []view.Field{
			{Name: "codigo", Label: "Código SRI", Value: f.Codigo, Required: true, MaxLength: 10},
			{Name: "nombre", Label: "Nombre", Value: f.Nombre, Required: true, MaxLength: 100},
			{Name: "tipo", Label: "Tipo", Type: "select", Options: tipos, Required: true},
			{Name: "porcentaje", Label: "Porcentaje", Type: "number", Value: f.Porcentaje, Required: true, Min: "0", Max: "100", Step: "0.01"},
			{Name: "activo", Label: "Activo", Type: "checkbox", Checked: f.Activo},
		},
	}
}
