package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// PHIAccess marks screens that show protected health information: responses
// are never cached and every access is written to the audit log.
func PHIAccess(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")

		c.Next()

		log.Info().
			Str("audit", "phi_access").
			Str("resource", resource).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Str("session_id", c.GetString(ContextSessionID)).
			Str("request_id", c.GetString(ContextRequestID)).
			Str("ip", c.ClientIP()).
			Msg("PHI screen accessed")
	}
}
