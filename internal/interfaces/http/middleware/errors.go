package middleware

import (
	"strings"

	"github.com/facturaec/dashboard/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ErrorRenderer writes the error page for an aborted request
type ErrorRenderer func(c *gin.Context, status int, info dto.ErrorInfo)

// ErrorHandler renders the last error attached with c.Error when the
// handler chain finished without writing a response. Requests that accept
// JSON get the standard envelope instead.
func ErrorHandler(render ErrorRenderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}
		status, info := dto.ErrorFrom(c.Errors.Last().Err)
		if WantsJSON(c) {
			c.JSON(status, dto.Response{Success: false, Error: &info})
			return
		}
		render(c, status, info)
	}
}

// WantsJSON reports whether the client asked for a JSON response
func WantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
