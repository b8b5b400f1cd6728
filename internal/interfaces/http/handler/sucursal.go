package handler

import (
	"net/http"

	orgapp "github.com/facturaec/dashboard/internal/application/organization"
	"github.com/facturaec/dashboard/internal/domain/organization"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/interfaces/http/middleware"
	"github.com/facturaec/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
)

// SucursalHandler handles the branch and cashier shift pages
type SucursalHandler struct {
	BaseHandler
	sucursalService *orgapp.SucursalService
}

// NewSucursalHandler creates a new SucursalHandler
func NewSucursalHandler(base BaseHandler, sucursalService *orgapp.SucursalService) *SucursalHandler {
	return &SucursalHandler{
		BaseHandler:     base,
		sucursalService: sucursalService,
	}
}

// SucursalForm is the branch create/edit form
type SucursalForm struct {
	CodigoEstablecimiento string `form:"codigo_establecimiento" binding:"required,serie"`
	PuntoEmision          string `form:"punto_emision" binding:"required,serie"`
	Nombre                string `form:"nombre" binding:"required,max=100"`
	Direccion             string `form:"direccion" binding:"max=300"`
	Telefono              string `form:"telefono" binding:"max=20"`
	Activa                bool   `form:"activa"`
}

func (f SucursalForm) input() organization.SucursalInput {
	return organization.SucursalInput{
		CodigoEstablecimiento: f.CodigoEstablecimiento,
		PuntoEmision:          f.PuntoEmision,
		Nombre:                f.Nombre,
		Direccion:             f.Direccion,
		Telefono:              f.Telefono,
		Activa:                f.Activa,
	}
}

// AbrirTurnoForm opens a cashier shift
type AbrirTurnoForm struct {
	SucursalID   string `form:"sucursal_id" binding:"required"`
	MontoInicial string `form:"monto_inicial" binding:"required,decimal"`
}

// CerrarTurnoForm closes a cashier shift
type CerrarTurnoForm struct {
	MontoFinal string `form:"monto_final" binding:"required,decimal"`
}

// List renders the branch list
func (h *SucursalHandler) List(c *gin.Context) {
	q := ListQuery(c)
	result, err := h.sucursalService.List(c.Request.Context(), q)
	if err != nil {
		h.Fail(c, err)
		return
	}

	columns := []view.Column{
		{Label: "Serie"}, {Label: "Nombre"}, {Label: "Dirección"}, {Label: "Teléfono"}, {Label: "Estado"},
	}
	table := view.NewTable("Sucursales", "/sucursales", ListParams(q), result, columns, func(s organization.Sucursal) view.Row {
		edit := "/sucursales/" + s.ID.String() + "/editar"
		estado := view.Badge("Activa", "success")
		if !s.Activa {
			estado = view.Badge("Inactiva", "muted")
		}
		return view.Row{
			Cells: []view.Cell{
				view.Mono(s.Serie()),
				view.Link(s.Nombre, edit),
				view.Text(s.Direccion),
				view.Text(s.Telefono),
				estado,
			},
			Actions: []view.Action{{Label: "Editar", Href: edit}},
		}
	})
	table.SearchHint = "Código, nombre o dirección"
	table.Actions = []view.Action{{Label: "Nueva sucursal", Href: "/sucursales/nueva", Tone: "primary"}}

	h.Render(c, http.StatusOK, view.Page{Title: "Sucursales", Table: table})
}

// New renders an empty branch form
func (h *SucursalHandler) New(c *gin.Context) {
	form := sucursalForm("Nueva sucursal", "/sucursales", SucursalForm{Activa: true, PuntoEmision: "001"})
	h.Render(c, http.StatusOK, view.Page{Title: "Sucursales", Form: form})
}

// Create handles the new branch form
func (h *SucursalHandler) Create(c *gin.Context) {
	var req SucursalForm
	form := func() *view.Form { return sucursalForm("Nueva sucursal", "/sucursales", req) }
	if err := c.ShouldBind(&req); err != nil {
		h.FormFailed(c, "Sucursales", form(), middleware.BindingError(err))
		return
	}
	s, err := h.sucursalService.Create(c.Request.Context(), req.input())
	if err != nil {
		h.FormFailed(c, "Sucursales", form(), err)
		return
	}
	h.Saved(c, "Sucursal "+s.Nombre+" creada", "/sucursales")
}

// Edit renders the edit form of a branch
func (h *SucursalHandler) Edit(c *gin.Context) {
	id := ParamID(c)
	s, err := h.sucursalService.Get(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}
	form := sucursalForm("Editar sucursal", "/sucursales/"+id.String(), SucursalForm{
		CodigoEstablecimiento: s.CodigoEstablecimiento,
		PuntoEmision:          s.PuntoEmision,
		Nombre:                s.Nombre,
		Direccion:             s.Direccion,
		Telefono:              s.Telefono,
		Activa:                s.Activa,
	})
	h.Render(c, http.StatusOK, view.Page{Title: "Sucursales", Form: form})
}

// Update handles the branch edit form
func (h *SucursalHandler) Update(c *gin.Context) {
	id := ParamID(c)
	var req SucursalForm
	form := func() *view.Form { return sucursalForm("Editar sucursal", "/sucursales/"+id.String(), req) }
	if err := c.ShouldBind(&req); err != nil {
		h.FormFailed(c, "Sucursales", form(), middleware.BindingError(err))
		return
	}
	s, err := h.sucursalService.Update(c.Request.Context(), id, req.input())
	if err != nil {
		h.FormFailed(c, "Sucursales", form(), err)
		return
	}
	h.Saved(c, "Sucursal "+s.Nombre+" actualizada", "/sucursales")
}

// ListTurnos renders the cashier shift list. Open shifts carry an inline
// close form.
func (h *SucursalHandler) ListTurnos(c *gin.Context) {
	ctx := c.Request.Context()
	q := ListQuery(c)
	result, err := h.sucursalService.ListTurnos(ctx, q)
	if err != nil {
		h.Fail(c, err)
		return
	}

	names := sucursalNames(ctx, h.sucursalService)
	columns := []view.Column{
		{Label: "Apertura"}, {Label: "Cierre"}, {Label: "Sucursal"}, {Label: "Cajero"},
		{Label: "Monto inicial", Align: "right"}, {Label: "Monto final", Align: "right"}, {Label: "Estado"},
	}
	table := view.NewTable("Turnos", "/turnos", ListParams(q), result, columns, func(t organization.Turno) view.Row {
		row := view.Row{Cells: []view.Cell{
			view.Text(datetime(t.Apertura)),
			view.Text(datetime(t.Cierre)),
			view.Text(nameOr(names, t.SucursalID)),
			view.Text(t.Cajero),
			view.Number(money(t.MontoInicial)),
			view.Number(""),
			view.Badge("Cerrado", "muted"),
		}}
		if t.MontoFinal != nil {
			row.Cells[5] = view.Number(money(*t.MontoFinal))
		}
		if t.Abierto() {
			row.Cells[6] = view.Badge("Abierto", "success")
			row.Actions = []view.Action{{Label: "Cerrar", Href: "/turnos/" + t.ID.String() + "/cerrar"}}
		}
		return row
	})
	table.SearchHint = "Cajero o estado"
	table.Actions = []view.Action{{Label: "Abrir turno", Href: "/turnos/abrir", Tone: "primary"}}

	h.Render(c, http.StatusOK, view.Page{Title: "Turnos", Table: table})
}

// NuevoTurno renders the open-shift form
func (h *SucursalHandler) NuevoTurno(c *gin.Context) {
	req := AbrirTurnoForm{MontoInicial: "0.00"}
	if user, ok := middleware.CurrentUser(c); ok {
		req.SucursalID = user.SucursalID.String()
	}
	h.Render(c, http.StatusOK, view.Page{Title: "Turnos", Form: h.abrirForm(c, req)})
}

// AbrirTurno opens the shift
func (h *SucursalHandler) AbrirTurno(c *gin.Context) {
	var req AbrirTurnoForm
	if err := c.ShouldBind(&req); err != nil {
		h.FormFailed(c, "Turnos", h.abrirForm(c, req), middleware.BindingError(err))
		return
	}
	in := organization.AbrirTurnoInput{SucursalID: shared.ID(req.SucursalID), MontoInicial: toDecimal(req.MontoInicial)}
	if _, err := h.sucursalService.AbrirTurno(c.Request.Context(), in); err != nil {
		h.FormFailed(c, "Turnos", h.abrirForm(c, req), err)
		return
	}
	h.Saved(c, "Turno abierto", "/turnos")
}

// FormCerrarTurno renders the close-shift form
func (h *SucursalHandler) FormCerrarTurno(c *gin.Context) {
	h.Render(c, http.StatusOK, view.Page{Title: "Turnos", Form: cerrarForm(ParamID(c), CerrarTurnoForm{})})
}

// CerrarTurno closes the shift with the counted cash
func (h *SucursalHandler) CerrarTurno(c *gin.Context) {
	id := ParamID(c)
	var req CerrarTurnoForm
	if err := c.ShouldBind(&req); err != nil {
		h.FormFailed(c, "Turnos", cerrarForm(id, req), middleware.BindingError(err))
		return
	}
	in := organization.CerrarTurnoInput{MontoFinal: toDecimal(req.MontoFinal)}
	if _, err := h.sucursalService.CerrarTurno(c.Request.Context(), id, in); err != nil {
		h.FormFailed(c, "Turnos", cerrarForm(id, req), err)
		return
	}
	h.Saved(c, "Turno cerrado", "/turnos")
}

func (h *SucursalHandler) abrirForm(c *gin.Context, f AbrirTurnoForm) *view.Form {
	return &view.Form{
		Title:  "Abrir turno",
		Action: "/turnos",
		Submit: "Abrir turno",
		Cancel: "/turnos",
		Fields: []view.Field{
			{Name: "sucursal_id", Label: "Sucursal", Type: "select", Required: true,
				Options: view.Select(sucursalOptions(c.Request.Context(), h.sucursalService), f.SucursalID)},
			{Name: "monto_inicial", Label: "Monto inicial en caja", Type: "number", Value: f.MontoInicial, Required: true, Min: "0", Step: "0.01"},
		},
	}
}

func cerrarForm(id shared.ID, f CerrarTurnoForm) *view.Form {
	return &view.Form{
		Title:  "Cerrar turno",
		Action: "/turnos/" + id.String() + "/cerrar",
		Submit: "Cerrar turno",
		Cancel: "/turnos",
		Fields: []view.Field{
			{Name: "monto_final", Label: "Monto contado en caja", Type: "number", Value: f.MontoFinal, Required: true, Min: "0", Step: "0.01"},
		},
	}
}

func sucursalForm(title, action string, f SucursalForm) *view.Form {
	return &view.Form{
		Title:  title,
		Action: action,
		Cancel: "/sucursales",
		Fields: []view.Field{
			{Name: "codigo_establecimiento", Label: "Código de establecimiento", Value: f.CodigoEstablecimiento, Required: true,
				MaxLength: 3, Pattern: `\d{3}`, Placeholder: "001"},
			{Name: "punto_emision", Label: "Punto de emisión", Value: f.PuntoEmision, Required: true,
				MaxLength: 3, Pattern: `\d{3}`, Placeholder: "001"},
			{Name: "nombre", Label: "Nombre", Value: f.Nombre, Required: true, MaxLength: 100},
			{Name: "telefono", Label: "Teléfono", Type: "tel", Value: f.Telefono, MaxLength: 20},
			{Name: "direccion", Label: "Dirección", Value: f.Direccion, MaxLength: 300, Width: "full"},
			{Name: "activa", Label: "Activa", Type: "checkbox", Checked: f.Activa},
		},
	}
}
