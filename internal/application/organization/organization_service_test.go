package organization

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/facturaec/dashboard/internal/application/gatewaytest"
	"github.com/facturaec/dashboard/internal/domain/organization"
	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/domain/sri"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	return de.Fields
}

func TestSucursalService_Create(t *testing.T) {
	valid := organization.SucursalInput{CodigoEstablecimiento: "002", PuntoEmision: "001", Nombre: "Norte", Activa: true}

	t.Run("valid", func(t *testing.T) {
		gw := gatewaytest.New(t)
		gw.On("Post", mock.Anything, "/sucursales", valid).Return(organization.Sucursal{ID: "1", CodigoEstablecimiento: "002", PuntoEmision: "001"}, nil)

		s, err := NewSucursalService(gw).Create(context.Background(), valid)
		require.NoError(t, err)
		assert.Equal(t, "002-001", s.Serie())
	})

	tests := []struct {
		name  string
		edit  func(*organization.SucursalInput)
		field string
	}{
		{"two digit establishment", func(in *organization.SucursalInput) { in.CodigoEstablecimiento = "02" }, "codigo_establecimiento"},
		{"letters in emission point", func(in *organization.SucursalInput) { in.PuntoEmision = "0A1" }, "punto_emision"},
		{"zero emission point", func(in *organization.SucursalInput) { in.PuntoEmision = "000" }, "punto_emision"},
		{"missing name", func(in *organization.SucursalInput) { in.Nombre = "" }, "nombre"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			_, err := NewSucursalService(gatewaytest.New(t)).Create(context.Background(), in)
			assert.Contains(t, fieldsOf(t, err), tt.field)
		})
	}
}

func TestSucursalService_ReadAndUpdate(t *testing.T) {
	gw := gatewaytest.New(t)
	in := organization.SucursalInput{CodigoEstablecimiento: "001", PuntoEmision: "002", Nombre: "Matriz"}
	gw.On("Get", mock.Anything, "/sucursales", mock.Anything).Return([]organization.Sucursal{
		{ID: "1", Nombre: "Matriz Quito"}, {ID: "2", Nombre: "Guayaquil"},
	}, nil, nil)
	gw.On("Get", mock.Anything, "/sucursales/1", mock.Anything).Return(organization.Sucursal{ID: "1", Nombre: "Matriz Quito"}, nil, nil)
	gw.On("Put", mock.Anything, "/sucursales/1", in).Return(organization.Sucursal{ID: "1", Nombre: "Matriz"}, nil)

	svc := NewSucursalService(gw)
	ctx := context.Background()

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	res, err := svc.List(ctx, shared.ListQuery{Search: "quito"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	s, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Matriz Quito", s.Nombre)

	s, err = svc.Update(ctx, "1", in)
	require.NoError(t, err)
	assert.Equal(t, "Matriz", s.Nombre)
}

func TestSucursalService_Turnos(t *testing.T) {
	gw := gatewaytest.New(t)
	abrir := organization.AbrirTurnoInput{SucursalID: "1", MontoInicial: decimal.NewFromInt(50)}
	cerrar := organization.CerrarTurnoInput{MontoFinal: decimal.RequireFromString("230.45")}
	gw.On("Post", mock.Anything, "/turnos", abrir).Return(organization.Turno{ID: "7", Estado: organization.TurnoAbierto}, nil)
	gw.On("Post", mock.Anything, "/turnos/7/cerrar", cerrar).Return(organization.Turno{ID: "7", Estado: organization.TurnoCerrado}, nil)
	gw.On("Get", mock.Anything, "/turnos", mock.Anything).Return([]organization.Turno{{ID: "7", Cajero: "Ana"}}, nil, nil)

	svc := NewSucursalService(gw)
	ctx := context.Background()

	turno, err := svc.AbrirTurno(ctx, abrir)
	require.NoError(t, err)
	assert.True(t, turno.Abierto())

	turno, err = svc.CerrarTurno(ctx, "7", cerrar)
	require.NoError(t, err)
	assert.False(t, turno.Abierto())

	res, err := svc.ListTurnos(ctx, shared.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	_, err = svc.AbrirTurno(ctx, organization.AbrirTurnoInput{MontoInicial: decimal.NewFromInt(-1)})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "sucursal_id")
	assert.Contains(t, fields, "monto_inicial")

	_, err = svc.CerrarTurno(ctx, "7", organization.CerrarTurnoInput{MontoFinal: decimal.NewFromInt(-5)})
	assert.Contains(t, fieldsOf(t, err), "monto_final")
}

func validConfiguracion() organization.Configuracion {
	return organization.Configuracion{
		RUC:             "1790016919001",
		RazonSocial:     "ACME S.A.",
		DireccionMatriz: "Av. Amazonas N34-451",
		Ambiente:        sri.AmbientePruebas,
	}
}

func TestConfiguracionService_Update(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		gw := gatewaytest.New(t)
		in := validConfiguracion()
		gw.On("Put", mock.Anything, "/configuracion", in).Return(in, nil)

		c, err := NewConfiguracionService(gw).Update(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, sri.AmbientePruebas, c.Ambiente)
	})

	t.Run("invalid RUC and environment", func(t *testing.T) {
		in := validConfiguracion()
		in.RUC = "1710034065"
		in.Ambiente = "3"

		_, err := NewConfiguracionService(gatewaytest.New(t)).Update(context.Background(), in)
		fields := fieldsOf(t, err)
		assert.Contains(t, fields, "ruc")
		assert.Contains(t, fields, "ambiente")
	})
}

func TestConfiguracionService_Certificado(t *testing.T) {
	t.Run("none uploaded", func(t *testing.T) {
		gw := gatewaytest.New(t)
		gw.On("Get", mock.Anything, "/certificados", mock.Anything).Return(nil, nil, shared.ErrNotFound)

		c, err := NewConfiguracionService(gw).Certificado(context.Background())
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("loaded", func(t *testing.T) {
		gw := gatewaytest.New(t)
		gw.On("Get", mock.Anything, "/certificados", mock.Anything).
			Return(map[string]any{"sujeto": "CN=ANA PEREZ", "valido_hasta": "2049-12-31"}, nil, nil)

		c, err := NewConfiguracionService(gw).Certificado(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "CN=ANA PEREZ", c.Sujeto)
		assert.Equal(t, 2049, c.ValidoHasta.Year())
	})
}

func readCert(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "infrastructure", "certificate", "testdata", name))
	require.NoError(t, err)
	return data
}

func TestConfiguracionService_SubirCertificado(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	t.Run("valid certificate is forwarded", func(t *testing.T) {
		gw := gatewaytest.New(t)
		data := readCert(t, "valid.p12")
		gw.On("Upload", mock.Anything, "/certificados", map[string]string{"password": "secreto"},
			gatewaytest.UploadedFile{Field: "certificado", Filename: "firma.p12", Data: data}).
			Return(nil, nil)

		svc := NewConfiguracionService(gw)
		svc.now = now
		c, err := svc.SubirCertificado(context.Background(), CertificadoUpload{Filename: "C:/fakepath/firma.p12", Data: data, Password: "secreto"})
		require.NoError(t, err)
		assert.Contains(t, c.Sujeto, "ANA PEREZ")
		assert.Equal(t, 2049, c.ValidoHasta.Year())
	})

	tests := []struct {
		name     string
		upload   func(t *testing.T) CertificadoUpload
		field    string
		contains string
	}{
		{"wrong extension", func(t *testing.T) CertificadoUpload {
			return CertificadoUpload{Filename: "firma.pem", Data: []byte("x"), Password: "secreto"}
		}, "certificado", ".p12"},
		{"missing password", func(t *testing.T) CertificadoUpload {
			return CertificadoUpload{Filename: "firma.p12", Data: readCert(t, "valid.p12")}
		}, "password", "requerido"},
		{"wrong password", func(t *testing.T) CertificadoUpload {
			return CertificadoUpload{Filename: "firma.p12", Data: readCert(t, "valid.p12"), Password: "otra"}
		}, "password", "incorrecta"},
		{"expired", func(t *testing.T) CertificadoUpload {
			return CertificadoUpload{Filename: "firma.p12", Data: readCert(t, "expired.p12"), Password: "secreto"}
		}, "certificado", "01/01/2021"},
		{"not a certificate", func(t *testing.T) CertificadoUpload {
			return CertificadoUpload{Filename: "firma.pfx", Data: []byte("garbage"), Password: "secreto"}
		}, "certificado", "PKCS#12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := gatewaytest.New(t)
			svc := NewConfiguracionService(gw)
			svc.now = now

			_, err := svc.SubirCertificado(context.Background(), tt.upload(t))
			fields := fieldsOf(t, err)
			assert.Contains(t, fields[tt.field], tt.contains)
			gw.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
