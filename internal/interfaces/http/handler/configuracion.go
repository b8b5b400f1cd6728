package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	orgapp "github.com/facturaec/dashboard/internal/application/organization"
	"github.com/facturaec/dashboard/internal/domain/organization"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
	"github.com/facturaec/dashboard/internal/infrastructure/logger"
	"github.com/facturaec/dashboard/internal/interfaces/http/middleware"
	"github.com/facturaec/dashboard/internal/interfaces/http/view"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConfiguracionHandler handles the company settings and signing certificate pages
type ConfiguracionHandler struct {
	BaseHandler
	configuracionService *orgapp.ConfiguracionService
	now                  func() time.Time
}

// NewConfiguracionHandler creates a new ConfiguracionHandler
func NewConfiguracionHandler(base BaseHandler, configuracionService *orgapp.ConfiguracionService) *ConfiguracionHandler {
	return &ConfiguracionHandler{
		BaseHandler:          base,
		configuracionService: configuracionService,
		now:                  time.Now,
	}
}

// ConfiguracionForm is the company settings form
type ConfiguracionForm struct {
	RUC                   string `form:"ruc" binding:"required,ruc"`
	RazonSocial           string `form:"razon_social" binding:"required,max=300"`
	NombreComercial       string `form:"nombre_comercial" binding:"max=300"`
	DireccionMatriz       string `form:"direccion_matriz" binding:"required,max=300"`
	Ambiente              string `form:"ambiente" binding:"required,oneof=1 2"`
	ObligadoContabilidad  bool   `form:"obligado_contabilidad"`
	ContribuyenteEspecial string `form:"contribuyente_especial" binding:"max=13"`
	EmailNotificaciones   string `form:"email_notificaciones" binding:"omitempty,email"`
}

func (f ConfiguracionForm) input() organization.Configuracion {
	return organization.Configuracion{
		RUC:                   f.RUC,
		RazonSocial:           f.RazonSocial,
		NombreComercial:       f.NombreComercial,
		DireccionMatriz:       f.DireccionMatriz,
		Ambiente:              sri.Ambiente(f.Ambiente),
		ObligadoContabilidad:  f.ObligadoContabilidad,
		ContribuyenteEspecial: f.ContribuyenteEspecial,
		EmailNotificaciones:   f.EmailNotificaciones,
	}
}

func configuracionFormFrom(c *organization.Configuracion) ConfiguracionForm {
	return ConfiguracionForm{
		RUC:                   c.RUC,
		RazonSocial:           c.RazonSocial,
		NombreComercial:       c.NombreComercial,
		DireccionMatriz:       c.DireccionMatriz,
		Ambiente:              string(c.Ambiente),
		ObligadoContabilidad:  c.ObligadoContabilidad,
		ContribuyenteEspecial: c.ContribuyenteEspecial,
		EmailNotificaciones:   c.EmailNotificaciones,
	}
}

// Show renders the settings form with the loaded certificate beside it
func (h *ConfiguracionHandler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	cfg, err := h.configuracionService.Get(ctx)
	if err != nil {
		h.Fail(c, err)
		return
	}
	cert, err := h.configuracionService.Certificado(ctx)
	if err != nil {
		h.Fail(c, err)
		return
	}
	form := configuracionForm(configuracionFormFrom(cfg))
	form.Aside = h.certificadoDetail(cert)
	h.Render(c, http.StatusOK, view.Page{Title: "Configuración", Form: form})
}

// Update saves the settings form
func (h *ConfiguracionHandler) Update(c *gin.Context) {
	var req ConfiguracionForm
	if err := c.ShouldBind(&req); err != nil {
		h.FormFailed(c, "Configuración", configuracionForm(req), middleware.BindingError(err))
		return
	}
	if _, err := h.configuracionService.Update(c.Request.Context(), req.input()); err != nil {
		h.FormFailed(c, "Configuración", configuracionForm(req), err)
		return
	}
	h.Saved(c, "Configuración guardada", "/configuracion")
}

// NuevoCertificado renders the certificate upload form
func (h *ConfiguracionHandler) NuevoCertificado(c *gin.Context) {
	cert, err := h.configuracionService.Certificado(c.Request.Context())
	if err != nil {
		h.Fail(c, err)
		return
	}
	form := certificadoForm()
	form.Aside = h.certificadoDetail(cert)
	form.Aside.Actions = nil
	h.Render(c, http.StatusOK, view.Page{Title: "Configuración", Form: form})
}

// SubirCertificado checks the uploaded .p12 and forwards it to the backend
func (h *ConfiguracionHandler) SubirCertificado(c *gin.Context) {
	// FormFile parses the body first so a streamed upload cut off by
	// BodyLimit surfaces here rather than being swallowed by PostForm.
	fh, err := c.FormFile("certificado")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.Fail(c, middleware.ErrPayloadTooLarge)
		return
	}
	up := orgapp.CertificadoUpload{Password: c.PostForm("password")}
	if err != nil {
		h.FormFailed(c, "Configuración", certificadoForm(),
			shared.FieldErrors{"certificado": "Seleccione el archivo del certificado"}.Err("Certificado no válido"))
		return
	}
	up.Filename = fh.Filename
	file, err := fh.Open()
	if err == nil {
		up.Data, err = io.ReadAll(file)
		file.Close()
	}
	if err != nil {
		h.Fail(c, err)
		return
	}

	cert, err := h.configuracionService.SubirCertificado(c.Request.Context(), up)
	if err != nil {
		h.FormFailed(c, "Configuración", certificadoForm(), err)
		return
	}
	logger.L(c.Request.Context()).Info("signing certificate uploaded",
		zap.String("sujeto", cert.Sujeto),
		zap.Time("valido_hasta", cert.ValidoHasta.Time),
	)
	h.Saved(c, "Certificado cargado. Vigente hasta el "+date(cert.ValidoHasta), "/configuracion")
}

func (h *ConfiguracionHandler) certificadoDetail(cert *organization.Certificado) *view.Detail {
	detail := &view.Detail{
		Title:   "Firma electrónica",
		Actions: []view.Action{{Label: "Cargar certificado", Href: "/configuracion/certificado"}},
	}
	if cert == nil {
		detail.Subtitle = "No se ha cargado un certificado. Los comprobantes no podrán firmarse."
		detail.Badge = &view.Cell{Text: "Sin certificado", Tone: "danger"}
		return detail
	}

	now := h.now()
	switch {
	case !cert.Vigente(now):
		detail.Badge = &view.Cell{Text: "Vencido", Tone: "danger"}
	case cert.PorVencer(now):
		detail.Badge = &view.Cell{Text: "Vence en " + strconv.Itoa(cert.DiasRestantes(now)) + " días", Tone: "warning"}
	default:
		detail.Badge = &view.Cell{Text: "Vigente", Tone: "success"}
	}
	detail.Actions[0].Label = "Reemplazar certificado"
	detail.Sections = []view.Section{{Items: []view.Item{
		{Label: "Titular", Value: cert.Sujeto},
		{Label: "Emisor", Value: cert.Emisor},
		{Label: "Válido desde", Value: date(cert.ValidoDesde)},
		{Label: "Válido hasta", Value: date(cert.ValidoHasta)},
		{Label: "Cargado el", Value: datetime(cert.CargadoEn)},
	}}}
	return detail
}

func configuracionForm(f ConfiguracionForm) *view.Form {
	return &view.Form{
		Title:  "Datos del contribuyente",
		Action: "/configuracion",
		Fields: []view.Field{
			{Name: "ruc", Label: "RUC", Value: f.RUC, Required: true, MaxLength: 13, Pattern: `\d{13}`},
			{Name: "razon_social", Label: "Razón social", Value: f.RazonSocial, Required: true, MaxLength: 300},
			{Name: "nombre_comercial", Label: "Nombre comercial", Value: f.NombreComercial, MaxLength: 300},
			{Name: "direccion_matriz", Label: "Dirección matriz", Value: f.DireccionMatriz, Required: true, MaxLength: 300, Width: "full"},
			{Name: "ambiente", Label: "Ambiente SRI", Type: "select", Required: true,
				Options: view.Options(f.Ambiente,
					string(sri.AmbientePruebas), sri.AmbientePruebas.Label(),
					string(sri.AmbienteProduccion), sri.AmbienteProduccion.Label()),
				Help: "Use pruebas hasta que el SRI habilite la emisión en producción"},
			{Name: "contribuyente_especial", Label: "Resolución de contribuyente especial", Value: f.ContribuyenteEspecial, MaxLength: 13},
			{Name: "email_notificaciones", Label: "Correo para notificaciones", Type: "email", Value: f.EmailNotificaciones},
			{Name: "obligado_contabilidad", Label: "Obligado a llevar contabilidad", Type: "checkbox", Checked: f.ObligadoContabilidad},
		},
	}
}

func certificadoForm() *view.Form {
	return &view.Form{
		Title:     "Cargar certificado de firma electrónica",
		Action:    "/configuracion/certificado",
		Submit:    "Verificar y cargar",
		Cancel:    "/configuracion",
		Multipart: true,
		Fields: []view.Field{
			{Name: "certificado", Label: "Archivo .p12", Type: "file", Required: true,
				Help: "El archivo se verifica antes de enviarlo. Certificados vencidos o con contraseña incorrecta se rechazan."},
			{Name: "password", Label: "Contraseña del certificado", Type: "password", Required: true},
		},
	}
}
