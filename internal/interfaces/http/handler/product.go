package handler

import (
	"net/http"

	catalogapp "github.com/facturaec/dashboard/internal/application/catalog"
	"github.com/facturaec/dashboard/internal/domain/catalog"
	"github.com/facturaec/dashboard/internal/interfaces/http/middleware"
	"github.com/facturaec/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles the product pages
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(base BaseHandler, productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		BaseHandler:    base,
		productService: productService,
	}
}

// ProductoForm is the product create/edit form
type ProductoForm struct {
	Codigo       string `form:"codigo" binding:"required,max=25"`
	CodigoBarras string `form:"codigo_barras" binding:"max=25"`
	Nombre       string `form:"nombre" binding:"required,max=300"`
	Descripcion  string `form:"descripcion" binding:"max=300"`
	Precio       string `form:"precio" binding:"required,decimal"`
	IVACodigo    string `form:"iva_codigo" binding:"required"`
	StockMinimo  string `form:"stock_minimo" binding:"omitempty,decimal"`
	Activo       bool   `form:"activo"`
}

func (f ProductoForm) input() catalog.ProductoInput {
	return catalog.ProductoInput{
		Codigo:       f.Codigo,
		CodigoBarras: f.CodigoBarras,
		Nombre:       f.Nombre,
		Descripcion:  f.Descripcion,
		Precio:       toDecimal(f.Precio),
		IVACodigo:    f.IVACodigo,
		StockMinimo:  toDecimal(f.StockMinimo),
		Activo:       f.Activo,
	}
}

func productoFormFrom(p *catalog.Producto) ProductoForm {
	return ProductoForm{
		Codigo:       p.Codigo,
		CodigoBarras: p.CodigoBarras,
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		Precio:       p.Precio.String(),
		IVACodigo:    p.IVACodigo,
		StockMinimo:  decimalValue(p.StockMinimo),
		Activo:       p.Activo,
	}
}

// List renders the product list
func (h *ProductHandler) List(c *gin.Context) {
	q := ListQuery(c)
	result, err := h.productService.List(c.Request.Context(), q)
	if err != nil {
		h.Fail(c, err)
		return
	}

	columns := []view.Column{
		{Label: "Código"}, {Label: "Nombre"}, {Label: "Precio", Align: "right"},
		{Label: "IVA"}, {Label: "Stock", Align: "right"}, {Label: "Estado"},
	}
	table := view.NewTable("Productos", "/productos", ListParams(q), result, columns, func(p catalog.Producto) view.Row {
		iva := p.IVACodigo
		if t, ok := p.IVA(); ok {
			iva = t.Nombre
		}
		stock := view.Number(p.Stock.String())
		if p.BajoStock() {
			stock.Tone = "warning"
		}
		return view.Row{
			Cells: []view.Cell{
				view.Mono(p.Codigo),
				view.Link(p.Nombre, "/productos/"+p.ID.String()+"/editar"),
				view.Number(money(p.Precio)),
				view.Text(iva),
				stock,
				activoCell(p.Activo),
			},
			Actions: []view.Action{
				{Label: "Editar", Href: "/productos/" + p.ID.String() + "/editar"},
				{Label: "Eliminar", Href: "/productos/" + p.ID.String() + "/eliminar", Method: "post", Tone: "danger",
					Confirm: "¿Eliminar el producto " + p.Nombre + "?"},
			},
		}
	})
	table.SearchHint = "Código, código de barras o nombre"
	table.Actions = []view.Action{{Label: "Nuevo producto", Href: "/productos/nuevo", Tone: "primary"}}

	h.Render(c, http.StatusOK, view.Page{Title: "Productos", Table: table})
}

// New renders an empty product form
func (h *ProductHandler) New(c *gin.Context) {
	form := h.form("Nuevo producto", "/productos", ProductoForm{Activo: true, IVACodigo: "4"})
	h.Render(c, http.StatusOK, view.Page{Title: "Productos", Form: form})
}

// Create handles the new product form
func (h *ProductHandler) Create(c *gin.Context) {
	var req ProductoForm
	form := func() *view.Form { return h.form("Nuevo producto", "/productos", req) }
	if err := c.ShouldBind(&req); err != nil {
		h.FormFailed(c, "Productos", form(), middleware.BindingError(err))
		return
	}
	p, err := h.productService.Create(c.Request.Context(), req.input())
	if err != nil {
		h.FormFailed(c, "Productos", form(), err)
		return
	}
	h.Saved(c, "Producto "+p.Nombre+" creado", "/productos")
}

// Edit renders the edit form of a product
func (h *ProductHandler) Edit(c *gin.Context) {
	id := ParamID(c)
	p, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	form := h.form("Editar producto", "/productos/"+id.String(), productoFormFrom(p))
	h.Render(c, http.StatusOK, view.Page{Title: "Productos", Form: form})
}

// Update handles the product edit form
func (h *ProductHandler) Update(c *gin.Context) {
	id := ParamID(c)
	var req ProductoForm
	form := func() *view.Form { return h.form("Editar producto", "/productos/"+id.String(), req) }
	if err := c.ShouldBind(&req); err != nil {
		h.FormFailed(c, "Productos", form(), middleware.BindingError(err))
		return
	}
	p, err := h.productService.Update(c.Request.Context(), id, req.input())
	if err != nil {
		h.FormFailed(c, "Productos", form(), err)
		return
	}
	h.Saved(c, "Producto "+p.Nombre+" actualizado", "/productos")
}

// Delete removes a product and returns to the list
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.Delete(c.Request.Context(), ParamID(c)); err != nil {
		h.ActionFailed(c, err, "/productos")
		return
	}
	h.Saved(c, "Producto eliminado", "/productos")
}

func (h *ProductHandler) form(title, action string, f ProductoForm) *view.Form {
	tarifas := h.productService.IVATarifas()
	options := make([]view.Option, 0, len(tarifas))
	for _, t := range tarifas {
		options = append(options, view.Option{Value: t.Codigo, Label: t.Nombre, Selected: t.Codigo == f.IVACodigo})
	}
	return &view.Form{
		Title:  title,
		Action: action,
		Cancel: "/productos",
		Fields: []view.Field{
			{Name: "codigo", Label: "Código", Value: f.Codigo, Required: true, MaxLength: 25},
			{Name: "codigo_barras", Label: "Código de barras", Value: f.CodigoBarras, MaxLength: 25},
			{Name: "nombre", Label: "Nombre", Value: f.Nombre, Required: true, MaxLength: 300, Width: "full"},
			{Name: "descripcion", Label: "Descripción", Type: "textarea", Value: f.Descripcion, MaxLength: 300, Width: "full"},
			{Name: "precio", Label: "Precio unitario (sin IVA)", Type: "number", Value: f.Precio, Required: true, Min: "0", Step: "0.01"},
			{Name: "iva_codigo", Label: "Tarifa de IVA", Type: "select", Options: options, Required: true},
			{Name: "stock_minimo", Label: "Stock mínimo", Type: "number", Value: f.StockMinimo, Min: "0", Step: "any"},
			{Name: "activo", Label: "Activo", Type: "checkbox", Checked: f.Activo},
		},
	}
}
