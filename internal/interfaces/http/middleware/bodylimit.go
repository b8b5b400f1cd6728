package middleware

import (
	"net/http"

	"github.com/facturaec/dashboard/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// ErrPayloadTooLarge is reported when a form or upload exceeds the limit
var ErrPayloadTooLarge = shared.NewDomainError("PAYLOAD_TOO_LARGE", "El archivo o formulario excede el tamaño máximo permitido")

// BodyLimit rejects bodies whose declared length exceeds maxBytes and caps
// streamed bodies so multipart parsing fails once the limit is reached.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			_ = c.Error(ErrPayloadTooLarge)
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
