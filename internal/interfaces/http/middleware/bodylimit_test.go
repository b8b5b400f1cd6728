package middleware

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/facturaec/dashboard/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, size int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("certificado", "firma.p12")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0x30}, size))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("password", "secreto"))
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

// uploadRouter answers with how the multipart parse ended: "ok", "too large"
// or "bad form"
func uploadRouter(limit int64) *gin.Engine {
	router := gin.New()
	router.Use(ErrorHandler(nil), BodyLimit(limit))
	router.POST("/configuracion/certificado", func(c *gin.Context) {
		_, err := c.FormFile("certificado")
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			c.String(http.StatusOK, "too large")
		case err != nil:
			c.String(http.StatusOK, "bad form")
		default:
			c.String(http.StatusOK, "ok")
		}
	})
	return router
}

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const limit = 4 << 10

	tests := []struct {
		name     string
		fileSize int
		chunked  bool
		status   int
		want     string
	}{
		{name: "upload within the limit parses", fileSize: 1 << 10, status: http.StatusOK, want: "ok"},
		{name: "declared length over the limit never reaches the handler", fileSize: 8 << 10,
			status: http.StatusRequestEntityTooLarge, want: dto.ErrCodePayloadTooLarge},
		{name: "chunked upload within the limit parses", fileSize: 1 << 10, chunked: true, status: http.StatusOK, want: "ok"},
		{name: "chunked upload over the limit fails while parsing", fileSize: 8 << 10, chunked: true,
			status: http.StatusOK, want: "too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.fileSize)
			req := httptest.NewRequest(http.MethodPost, "/configuracion/certificado", body)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set("Accept", "application/json")
			if tt.chunked {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()

			uploadRouter(limit).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestBodyLimit_LeavesGetAlone(t *testing.T) {
	router := gin.New()
	router.Use(BodyLimit(1))
	router.GET("/configuracion", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/configuracion", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
