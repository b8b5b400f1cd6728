package router

import (
	billingapp "github.com/facturaec/dashboard/internal/application/billing"
	"github.com/facturaec/dashboard/internal/interfaces/http/handler"
	"github.com/facturaec/dashboard/internal/interfaces/http/middleware"
)

// Handlers are the page handlers mounted by Routes
type Handlers struct {
	System        *handler.SystemHandler
	Pages         *handler.PageHandler
	Auth          *handler.AuthHandler
	Report        *handler.ReportHandler
	Product       *handler.ProductHandler
	Venta         *handler.VentaHandler
	Factura       *handler.FacturaHandler
	NotaCredito   *handler.NotaCreditoHandler
	Retencion     *handler.RetencionHandler
	Impuesto      *handler.ImpuestoHandler
	Compra        *handler.CompraHandler
	Inventory     *handler.InventoryHandler
	Sucursal      *handler.SucursalHandler
	Configuracion *handler.ConfiguracionHandler
}

// Guards are the access middleware shared by the route groups
type Guards struct {
	Sessions      *middleware.Sessions
	LoginLimiter  *middleware.RateLimiter
	MaxUploadSize int64
}

// Routes returns every route group of the dashboard
func Routes(h Handlers, g Guards) []RouteRegistrar {
	requireSession := g.Sessions.RequireSession()

	public := NewDomainGroup("public", "")
	public.GET("/healthz", h.System.Healthz)
	public.GET("/readyz", h.System.Readyz)
	// The base domain shows the landing page; tenant hosts get the dashboard home.
	public.GET("/", h.Pages.Landing, requireSession, middleware.NoStore(), h.Report.Home)

	auth := NewDomainGroup("auth", "").Use(middleware.RequireTenant(), middleware.NoStore())
	auth.GET("/login", g.Sessions.Optional(), h.Auth.LoginPage)
	auth.POST("/login", middleware.RateLimit(g.LoginLimiter), h.Auth.Login)
	auth.POST("/logout", g.Sessions.Optional(), h.Auth.Logout)

	app := NewDomainGroup("app", "").Use(middleware.RequireTenant(), requireSession, middleware.NoStore())

	app.Group("productos", "/productos").
		GET("", h.Product.List).
		GET("/nuevo", h.Product.New).
		POST("", h.Product.Create).
		GET("/:id/editar", h.Product.Edit).
		POST("/:id", h.Product.Update).
		POST("/:id/eliminar", h.Product.Delete)

	app.Group("ventas", "/ventas").
		GET("", h.Venta.List).
		GET("/:id", h.Venta.Show)

	app.Group("facturas", "/facturas").
		GET("", h.Factura.List).
		GET("/:id", h.Factura.Show).
		GET("/:id/estado", h.Factura.Estado).
		POST("/:id/reenviar", h.Factura.Reenviar).
		GET("/:id/xml", h.Factura.Download(billingapp.FormatoXML)).
		GET("/:id/pdf", h.Factura.Download(billingapp.FormatoPDF))

	app.Group("notas-credito", "/notas-credito").
		GET("", h.NotaCredito.List).
		GET("/nueva", h.NotaCredito.New).
		POST("", h.NotaCredito.Create).
		GET("/:id/xml", h.NotaCredito.Download(billingapp.FormatoXML)).
		GET("/:id/pdf", h.NotaCredito.Download(billingapp.FormatoPDF))

	app.Group("retenciones", "/retenciones").
		GET("", h.Retencion.List).
		GET("/nueva", h.Retencion.New).
		POST("", h.Retencion.Create).
		GET("/:id/xml", h.Retencion.Download(billingapp.FormatoXML)).
		GET("/:id/pdf", h.Retencion.Download(billingapp.FormatoPDF))

	app.Group("compras", "/compras").
		GET("", h.Compra.List).
		GET("/nueva", h.Compra.New).
		POST("", h.Compra.Create).
		GET("/:id", h.Compra.Show)

	app.Group("inventario", "/inventario").
		GET("/ajustes", h.Inventory.ListAjustes).
		GET("/ajustes/nuevo", h.Inventory.NewAjuste).
		POST("/ajustes", h.Inventory.CreateAjuste).
		GET("/transferencias", h.Inventory.ListTransferencias).
		GET("/transferencias/nueva", h.Inventory.NewTransferencia).
		POST("/transferencias", h.Inventory.CreateTransferencia).
		GET("/auditorias", h.Inventory.ListAuditorias).
		GET("/auditorias/:id", h.Inventory.ShowAuditoria)

	app.Group("turnos", "/turnos").
		GET("", h.Sucursal.ListTurnos).
		GET("/abrir", h.Sucursal.NuevoTurno).
		POST("", h.Sucursal.AbrirTurno).
		GET("/:id/cerrar", h.Sucursal.FormCerrarTurno).
		POST("/:id/cerrar", h.Sucursal.CerrarTurno)

	app.Group("reportes", "/reportes").
		GET("", h.Report.Ventas).
		GET("/ventas/excel", h.Report.VentasExcel).
		GET("/ventas/pdf", h.Report.VentasPDF)

	admin := app.Group("admin", "").Use(middleware.RequireAdmin())

	admin.Group("impuestos", "/impuestos").
		GET("", h.Impuesto.List).
		GET("/nuevo", h.Impuesto.New).
		POST("", h.Impuesto.Create).
		GET("/:id/editar", h.Impuesto.Edit).
		POST("/:id", h.Impuesto.Update)

	admin.Group("sucursales", "/sucursales").
		GET("", h.Sucursal.List).
		GET("/nueva", h.Sucursal.New).
		POST("", h.Sucursal.Create).
		GET("/:id/editar", h.Sucursal.Edit).
		POST("/:id", h.Sucursal.Update)

	admin.Group("configuracion", "/configuracion").
		GET("", h.Configuracion.Show).
		POST("", h.Configuracion.Update).
		GET("/certificado", h.Configuracion.NuevoCertificado).
		POST("/certificado", middleware.BodyLimit(g.MaxUploadSize), h.Configuracion.SubirCertificado)

	return []RouteRegistrar{public, auth, app}
}
