package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// New builds the application logger. Production mode uses JSON output with
// sampling; development mode uses the console encoder.
func New(isProduction bool) (*zap.Logger, error) {
	if isProduction {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// RequestLogger is a Gin middleware that logs one line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
