package handlers

import (
	"barakah/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves a Zap logger from the Gin context or falls back to the
// global one, tagged with the request trace id.
func getLogger(c *gin.Context) *zap.Logger {
	logger := utils.GetLogger()
	if l, exists := c.Get("logger"); exists {
		if ctxLogger, ok := l.(*zap.Logger); ok {
			logger = ctxLogger
		}
	}
	if traceID := c.GetString(utils.TraceIDKey); traceID != "" {
		return logger.With(zap.String("trace_id", traceID))
	}
	return logger
}
