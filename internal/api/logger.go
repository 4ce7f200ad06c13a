package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/arcane-clash/internal/logging"
)

// requestLogger logs one line per request through the shared logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := logging.Fields{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		logging.Debug("http request", fields)
	}
}
