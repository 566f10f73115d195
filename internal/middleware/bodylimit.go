package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zaqqye/authorsite_backend/internal/response"
)

// BodyLimit caps request bodies at limit bytes. Declared oversize bodies are
// rejected up front; chunked ones fail at bind time.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			response.Error(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
