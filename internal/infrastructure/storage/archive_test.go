package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/facturaec/dashboard/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name                     string
		tenant, kind, id, format string
		want                     string
	}{
		{"simple", "acme", "facturas", "42", "xml", "acme/facturas/42.xml"},
		{"traversal in id", "acme", "facturas", "../../globex/facturas/1", "pdf", "acme/facturas/1.pdf"},
		{"dot id", "acme", "notas-credito", "..", "xml", "acme/notas-credito/_.xml"},
		{"spaces trimmed", " acme ", "retenciones", " 7 ", "pdf", "acme/retenciones/7.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.tenant, tt.kind, tt.id, tt.format))
		})
	}
}

func TestMemoryArchive(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryArchive()

	_, err := a.Get(ctx, "acme/facturas/1.xml")
	assert.ErrorIs(t, err, ErrNotArchived)

	file := &shared.File{Name: "factura.xml", ContentType: shared.ContentTypeXML, Data: []byte("<factura/>")}
	require.NoError(t, a.Put(ctx, "acme/facturas/1.xml", file))
	file.Data[0] = 'X'

	got, err := a.Get(ctx, "acme/facturas/1.xml")
	require.NoError(t, err)
	assert.Equal(t, "<factura/>", string(got.Data))
	assert.Equal(t, "factura.xml", got.Name)
	assert.Equal(t, 1, a.Len())

	assert.Error(t, a.Put(ctx, "", file))
}

func TestNoopArchive(t *testing.T) {
	ctx := context.Background()
	var a Archive = NoopArchive{}
	require.NoError(t, a.Put(ctx, "k", &shared.File{}))
	_, err := a.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotArchived)
}

func TestNewS3Archive_Validation(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3Archive(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket", func(t *testing.T) {
		_, err := NewS3Archive(&config.StorageConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("half configured keys", func(t *testing.T) {
		_, err := NewS3Archive(&config.StorageConfig{Bucket: "docs", AccessKey: "key"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be set together")
	})

	t.Run("valid config", func(t *testing.T) {
		a, err := NewS3Archive(&config.StorageConfig{
			Bucket:    "docs",
			Endpoint:  "localhost:9000",
			AccessKey: "key",
			SecretKey: "secret",
			PathStyle: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "docs", a.Bucket())
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	got, err := normalizeEndpoint("minio:9000", false)
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000", got)

	got, err = normalizeEndpoint("minio:9000", true)
	require.NoError(t, err)
	assert.Equal(t, "https://minio:9000", got)

	got, err = normalizeEndpoint("https://s3.example.com", false)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com", got)

	got, err = normalizeEndpoint("", true)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestS3Archive_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/docs/acme/facturas/1.pdf":
			w.Header().Set("Content-Type", shared.ContentTypePDF)
			w.Header().Set("X-Amz-Meta-Filename", "FAC-001-002-000000123.pdf")
			_, _ = w.Write([]byte("%PDF-1.4"))
		default:
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
		}
	}))
	defer srv.Close()

	a, err := NewS3Archive(&config.StorageConfig{
		Bucket:    "docs",
		Endpoint:  srv.URL,
		AccessKey: "key",
		SecretKey: "secret",
		PathStyle: true,
	})
	require.NoError(t, err)

	ctx := context.Background()
	file, err := a.Get(ctx, "acme/facturas/1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "FAC-001-002-000000123.pdf", file.Name)
	assert.Equal(t, shared.ContentTypePDF, file.ContentType)
	assert.Equal(t, "%PDF-1.4", string(file.Data))

	_, err = a.Get(ctx, "acme/facturas/2.pdf")
	assert.ErrorIs(t, err, ErrNotArchived)
}
