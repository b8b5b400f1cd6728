package organization

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/facturaec/dashboard/internal/domain/organization"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
	"github.com/facturaec/dashboard/internal/infrastructure/certificate"
)

const (
	configuracionPath = "/configuracion"
	certificadosPath  = "/certificados"
)

// CertificadoUpload is a .p12 file chosen in the settings page
type CertificadoUpload struct {
	Filename string
	Data     []byte
	Password string
}

// ConfiguracionService handles the company settings page
type ConfiguracionService struct {
	gateway shared.Gateway
	now     func() time.Time
}

// NewConfiguracionService creates a new ConfiguracionService
func NewConfiguracionService(gateway shared.Gateway) *ConfiguracionService {
	return &ConfiguracionService{gateway: gateway, now: time.Now}
}

// Get returns the company configuration
func (s *ConfiguracionService) Get(ctx context.Context) (*organization.Configuracion, error) {
	var c organization.Configuracion
	if _, err := s.gateway.Get(ctx, configuracionPath, nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update saves the company configuration
func (s *ConfiguracionService) Update(ctx context.Context, in organization.Configuracion) (*organization.Configuracion, error) {
	fields := shared.FieldErrors{}
	fields.Check(sri.ValidRUC(in.RUC), "ruc", "RUC no válido")
	fields.Check(in.RazonSocial != "", "razon_social", "Campo requerido")
	fields.Check(in.DireccionMatriz != "", "direccion_matriz", "Campo requerido")
	fields.Check(in.Ambiente.IsValid(), "ambiente", "Seleccione pruebas o producción")
	if err := fields.Err("Revise la configuración"); err != nil {
		return nil, err
	}

	var c organization.Configuracion
	if err := s.gateway.Put(ctx, configuracionPath, in, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Certificado returns the certificate currently loaded in the backend, or
// nil when none has been uploaded yet
func (s *ConfiguracionService) Certificado(ctx context.Context) (*organization.Certificado, error) {
	var c organization.Certificado
	if _, err := s.gateway.Get(ctx, certificadosPath, nil, &c); err != nil {
		if shared.IsCode(err, shared.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// SubirCertificado verifies a .p12 locally and forwards it to the backend.
// A wrong password or an expired certificate never leaves the dashboard.
func (s *ConfiguracionService) SubirCertificado(ctx context.Context, up CertificadoUpload) (*organization.Certificado, error) {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if ext != ".p12" && ext != ".pfx" {
		return nil, shared.FieldErrors{"certificado": "Seleccione un archivo .p12"}.Err("Certificado no válido")
	}
	if up.Password == "" {
		return nil, shared.FieldErrors{"password": "Campo requerido"}.Err("Certificado no válido")
	}

	info, err := certificate.Inspect(up.Data, up.Password, s.now())
	if err != nil {
		return nil, certificadoError(err, info)
	}

	var c organization.Certificado
	err = s.gateway.Upload(ctx, certificadosPath,
		map[string]string{"password": up.Password},
		shared.Upload{Field: "certificado", Filename: filepath.Base(up.Filename), Reader: bytes.NewReader(up.Data)},
		&c,
	)
	if err != nil {
		return nil, err
	}
	if c.Sujeto == "" {
		c = info.Certificado()
	}
	return &c, nil
}

func certificadoError(err error, info *certificate.Info) error {
	fields := shared.FieldErrors{}
	switch {
	case errors.Is(err, certificate.ErrWrongPassword):
		fields.Add("password", "Contraseña incorrecta")
	case errors.Is(err, certificate.ErrExpired):
		fields.Add("certificado", "El certificado venció el "+info.NotAfter.Format("02/01/2006"))
	case errors.Is(err, certificate.ErrNotYetValid):
		fields.Add("certificado", "El certificado es válido desde el "+info.NotBefore.Format("02/01/2006"))
	case errors.Is(err, certificate.ErrNoPrivateKey):
		fields.Add("certificado", "El archivo no contiene la clave privada de firma")
	default:
		fields.Add("certificado", "El archivo no es un certificado PKCS#12 válido")
	}
	return fields.Err("Certificado no válido")
}
