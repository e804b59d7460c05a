package bodylimit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// New caps request body size. Reads past the limit fail inside the handler's
// body decode, which the binding layer surfaces as a validation error.
func New(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
