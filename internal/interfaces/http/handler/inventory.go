package handler

import (
	"net/http"

	catalogapp "github.com/facturaec/dashboard/internal/application/catalog"
	inventoryapp "github.com/facturaec/dashboard/internal/application/inventory"
	orgapp "github.com/facturaec/dashboard/internal/application/organization"
	"github.com/facturaec/dashboard/internal/domain/inventory"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/interfaces/http/middleware"
	"github.com/facturaec/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
)

// InventoryHandler handles the stock adjustment, transfer and audit pages
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
	productService   *catalogapp.ProductService
	sucursalService  *orgapp.SucursalService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(
	base BaseHandler,
	inventoryService *inventoryapp.InventoryService,
	productService *catalogapp.ProductService,
	sucursalService *orgapp.SucursalService,
) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler:      base,
		inventoryService: inventoryService,
		productService:   productService,
		sucursalService:  sucursalService,
	}
}

// AjusteForm is the stock adjustment form
type AjusteForm struct {
	ProductoID string `form:"producto_id" binding:"required"`
	SucursalID string `form:"sucursal_id"`
	Tipo       string `form:"tipo" binding:"required,oneof=ENTRADA SALIDA"`
	Cantidad   string `form:"cantidad" binding:"required,decimal"`
	Motivo     string `form:"motivo" binding:"required,max=300"`
}

func (f AjusteForm) input() inventory.AjusteInput {
	return inventory.AjusteInput{
		ProductoID: shared.ID(f.ProductoID),
		SucursalID: shared.ID(f.SucursalID),
		Tipo:       inventory.TipoAjuste(f.Tipo),
		Cantidad:   toDecimal(f.Cantidad),
		Motivo:     f.Motivo,
	}
}

// TransferenciaForm is the stock transfer form
type TransferenciaForm struct {
	ProductoID string `form:"producto_id" binding:"required"`
	OrigenID   string `form:"origen_id" binding:"required"`
	DestinoID  string `form:"destino_id" binding:"required"`
	Cantidad   string `form:"cantidad" binding:"required,decimal"`
}

func (f TransferenciaForm) input() inventory.TransferenciaInput {
	return inventory.TransferenciaInput{
		ProductoID: shared.ID(f.ProductoID),
		OrigenID:   shared.ID(f.OrigenID),
		DestinoID:  shared.ID(f.DestinoID),
		Cantidad:   toDecimal(f.Cantidad),
	}
}

// ListAjustes renders the stock adjustment list
func (h *InventoryHandler) ListAjustes(c *gin.Context) {
	ctx := c.Request.Context()
	q := ListQuery(c)
	result, err := h.inventoryService.ListAjustes(ctx, q)
	if err != nil {
		h.Fail(c, err)
		return
	}

	names := sucursalNames(ctx, h.sucursalService)
	columns := []view.Column{
		{Label: "Fecha"}, {Label: "Producto"}, {Label: "Sucursal"}, {Label: "Tipo"},
		{Label: "Cantidad", Align: "right"}, {Label: "Motivo"},
	}
	table := view.NewTable("Ajustes de inventario", "/inventario/ajustes", ListParams(q), result, columns, func(a inventory.Ajuste) view.Row {
		tone := "success"
		if a.Tipo == inventory.AjusteSalida {
			tone = "danger"
		}
		sucursal := ""
		if !a.SucursalID.IsZero() {
			sucursal = nameOr(names, a.SucursalID)
		}
		return view.Row{Cells: []view.Cell{
			view.Text(datetime(a.Fecha)),
			view.Text(a.ProductoNombre),
			view.Text(sucursal),
			view.Badge(a.Tipo.Label(), tone),
			view.Number(a.Cantidad.String()),
			view.Text(a.Motivo),
		}}
	})
	table.SearchHint = "Producto, motivo o tipo"
	table.Actions = []view.Action{{Label: "Nuevo ajuste", Href: "/inventario/ajustes/nuevo", Tone: "primary"}}

	h.Render(c, http.StatusOK, view.Page{Title: "Ajustes de inventario", Table: table})
}

// NewAjuste renders an empty adjustment form
func (h *InventoryHandler) NewAjuste(c *gin.Context) {
	req := AjusteForm{
		Tipo:       string(inventory.AjusteEntrada),
		ProductoID: c.Query("producto_id"),
	}
	if user, ok := middleware.CurrentUser(c); ok {
		req.SucursalID = user.SucursalID.String()
	}
	h.Render(c, http.StatusOK, view.Page{Title: "Ajustes de inventario", Form: h.ajusteForm(c, req)})
}

// CreateAjuste registers the adjustment
func (h *InventoryHandler) CreateAjuste(c *gin.Context) {
	var req AjusteForm
	if err := c.ShouldBind(&req); err != nil {
		h.FormFailed(c, "Ajustes de inventario", h.ajusteForm(c, req), middleware.BindingError(err))
		return
	}
	if _, err := h.inventoryService.CreateAjuste(c.Request.Context(), req.input()); err != nil {
		h.FormFailed(c, "Ajustes de inventario", h.ajusteForm(c, req), err)
		return
	}
	h.Saved(c, "Ajuste registrado", "/inventario/ajustes")
}

// ListTransferencias renders the stock transfer list
func (h *InventoryHandler) ListTransferencias(c *gin.Context) {
	ctx := c.Request.Context()
	q := ListQuery(c)
	result, err := h.inventoryService.ListTransferencias(ctx, q)
	if err != nil {
		h.Fail(c, err)
		return
	}

	names := sucursalNames(ctx, h.sucursalService)
	columns := []view.Column{
		{Label: "Fecha"}, {Label: "Producto"}, {Label: "Origen"}, {Label: "Destino"},
		{Label: "Cantidad", Align: "right"}, {Label: "Estado"},
	}
	table := view.NewTable("Transferencias", "/inventario/transferencias", ListParams(q), result, columns, func(t inventory.Transferencia) view.Row {
		return view.Row{Cells: []view.Cell{
			view.Text(datetime(t.Fecha)),
			view.Text(t.ProductoNombre),
			view.Text(nameOr(names, t.OrigenID)),
			view.Text(nameOr(names, t.DestinoID)),
			view.Number(t.Cantidad.String()),
			view.Badge(t.Estado, "info"),
		}}
	})
	table.SearchHint = "Producto o estado"
	table.Actions = []view.Action{{Label: "Nueva transferencia", Href: "/inventario/transferencias/nueva", Tone: "primary"}}

	h.Render(c, http.StatusOK, view.Page{Title: "Transferencias", Table: table})
}

// NewTransferencia renders an empty transfer form
func (h *InventoryHandler) NewTransferencia(c *gin.Context) {
	var req TransferenciaForm
	if user, ok := middleware.CurrentUser(c); ok {
		req.OrigenID = user.SucursalID.String()
	}
	h.Render(c, http.StatusOK, view.Page{Title: "Transferencias", Form: h.transferenciaForm(c, req)})
}

// CreateTransferencia registers the transfer
func (h *InventoryHandler) CreateTransferencia(c *gin.Context) {
	var req TransferenciaForm
	if err := c.ShouldBind(&req); err != nil {
		h.FormFailed(c, "Transferencias", h.transferenciaForm(c, req), middleware.BindingError(err))
		return
	}
	if _, err := h.inventoryService.CreateTransferencia(c.Request.Context(), req.input()); err != nil {
		h.FormFailed(c, "Transferencias", h.transferenciaForm(c, req), err)
		return
	}
	h.Saved(c, "Transferencia registrada", "/inventario/transferencias")
}

// ListAuditorias renders the stock audit list
func (h *InventoryHandler) ListAuditorias(c *gin.Context) {
	ctx := c.Request.Context()
	q := ListQuery(c)
	result, err := h.inventoryService.ListAuditorias(ctx, q)
	if err != nil {
		h.Fail(c, err)
		return
	}

	names := sucursalNames(ctx, h.sucursalService)
	columns := []view.Column{
		{Label: "Fecha"}, {Label: "Sucursal"}, {Label: "Responsable"}, {Label: "Estado"},
		{Label: "Productos", Align: "right"}, {Label: "Descuadres", Align: "right"},
	}
	table := view.NewTable("Auditorías de inventario", "/inventario/auditorias", ListParams(q), result, columns, func(a inventory.Auditoria) view.Row {
		href := "/inventario/auditorias/" + a.ID.String()
		descuadres := view.Number(itoa(len(a.Descuadres())))
		if len(a.Descuadres()) > 0 {
			descuadres.Tone = "warning"
		}
		return view.Row{
			Cells: []view.Cell{
				view.Link(date(a.Fecha), href),
				view.Text(nameOr(names, a.SucursalID)),
				view.Text(a.Responsable),
				view.Badge(a.Estado, "info"),
				view.Number(itoa(len(a.Items))),
				descuadres,
			},
			Actions: []view.Action{{Label: "Ver", Href: href}},
		}
	})
	table.SearchHint = "Responsable o estado"

	h.Render(c, http.StatusOK, view.Page{Title: "Auditorías de inventario", Table: table})
}

// ShowAuditoria renders an audit with the items whose count differs
func (h *InventoryHandler) ShowAuditoria(c *gin.Context) {
	ctx := c.Request.Context()
	a, err := h.inventoryService.GetAuditoria(ctx, ParamID(c))
	if err != nil {
		h.Fail(c, err)
		return
	}

	items := &view.Table{
		Title: "Productos con diferencias",
		Empty: "Sin diferencias: el conteo coincide con el sistema",
		Columns: []view.Column{
			{Label: "Producto"}, {Label: "Stock sistema", Align: "right"},
			{Label: "Stock físico", Align: "right"}, {Label: "Diferencia", Align: "right"},
		},
	}
	for _, item := range a.Descuadres() {
		diferencia := view.Number(item.Diferencia.String())
		diferencia.Tone = "danger"
		if item.Diferencia.IsPositive() {
			diferencia.Tone = "warning"
		}
		items.Rows = append(items.Rows, view.Row{Cells: []view.Cell{
			view.Text(item.ProductoNombre),
			view.Number(item.StockSistema.String()),
			view.Number(item.StockFisico.String()),
			diferencia,
		}})
	}

	names := sucursalNames(ctx, h.sucursalService)
	detail := &view.Detail{
		Title:    "Auditoría del " + date(a.Fecha),
		Subtitle: nameOr(names, a.SucursalID),
		Back:     "/inventario/auditorias",
		Sections: []view.Section{{Items: []view.Item{
			{Label: "Responsable", Value: a.Responsable},
			{Label: "Estado", Value: a.Estado},
			{Label: "Productos contados", Value: itoa(len(a.Items))},
			{Label: "Con diferencias", Value: itoa(len(a.Descuadres()))},
		}}},
		Tables: []*view.Table{items},
	}
	h.Render(c, http.StatusOK, view.Page{Title: "Auditorías de inventario", Detail: detail})
}

func (h *InventoryHandler) ajusteForm(c *gin.Context, f AjusteForm) *view.Form {
	ctx := c.Request.Context()
	return &view.Form{
		Title:  "Nuevo ajuste de inventario",
		Action: "/inventario/ajustes",
		Cancel: "/inventario/ajustes",
		Fields: []view.Field{
			{Name: "producto_id", Label: "Producto", Type: "select", Required: true,
				Options: view.Select(productOptions(ctx, h.productService), f.ProductoID)},
			{Name: "sucursal_id", Label: "Sucursal", Type: "select",
				Options: view.Select(sucursalOptions(ctx, h.sucursalService), f.SucursalID)},
			{Name: "tipo", Label: "Tipo", Type: "select", Required: true,
				Options: view.Options(f.Tipo,
					string(inventory.AjusteEntrada), inventory.AjusteEntrada.Label(),
					string(inventory.AjusteSalida), inventory.AjusteSalida.Label())},
			{Name: "cantidad", Label: "Cantidad", Type: "number", Value: f.Cantidad, Required: true, Min: "0", Step: "any"},
			{Name: "motivo", Label: "Motivo", Type: "textarea", Value: f.Motivo, Required: true, MaxLength: 300, Width: "full"},
		},
	}
}

func (h *InventoryHandler) transferenciaForm(c *gin.Context, f TransferenciaForm) *view.Form {
	ctx := c.Request.Context()
	sucursales := sucursalOptions(ctx, h.sucursalService)
	return &view.Form{
		Title:  "Nueva transferencia",
		Action: "/inventario/transferencias",
		Cancel: "/inventario/transferencias",
		Fields: []view.Field{
			{Name: "producto_id", Label: "Producto", Type: "select", Required: true,
				Options: view.Select(productOptions(ctx, h.productService), f.ProductoID)},
			{Name: "origen_id", Label: "Sucursal de origen", Type: "select", Required: true,
				Options: view.Select(sucursales, f.OrigenID)},
			{Name: "destino_id", Label: "Sucursal de destino", Type: "select", Required: true,
				Options: view.Select(sucursales, f.DestinoID)},
			{Name: "cantidad", Label: "Cantidad", Type: "number", Value: f.Cantidad, Required: true, Min: "0", Step: "any"},
		},
	}
}
