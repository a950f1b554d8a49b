package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fq962/atom-challenge-api/internal/response"
)

// RecoveryWithLog converts panics into a 500 envelope. The panic value
// is only echoed to the client outside production.
func RecoveryWithLog(logger zerolog.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error().
					Str("path", c.Request.URL.Path).
					Str("method", c.Request.Method).
					Interface("panic", recovered).
					Msg("recovered from panic")

				message := "internal server error"
				if !production {
					message = fmt.Sprintf("internal server error: %v", recovered)
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError,
					response.Error(message, gin.H{"statusCode": http.StatusInternalServerError}))
			}
		}()

		c.Next()
	}
}
