package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Recovery turns a panic into a 500. The panic text is echoed to the client
// only outside production.
func Recovery(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Str("method", c.Request.Method).
					Str("path", c.Request.URL.Path).
					Interface("error", err).
					Msg("Panic recovered")

				message := "Internal server error"
				if !production {
					message = fmt.Sprint(err)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":   "Something went wrong!",
					"message": message,
				})
			}
		}()

		c.Next()
	}
}
