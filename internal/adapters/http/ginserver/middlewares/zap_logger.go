// Package middlewares holds the gin middlewares of the monitor HTTP surface.
package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger writes one structured line per request; server errors are logged at error level.
func ZapLogger(l *zap.Logger) gin.HandlerFunc {
	if l == nil {
		l = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		uri := c.Request.RequestURI

		c.Next()

		status := c.Writer.Status()
		level := zapcore.InfoLevel
		if status >= http.StatusInternalServerError {
			level = zapcore.ErrorLevel
		}
		fields := []zap.Field{
			zap.String("method", method),
			zap.String("uri", uri),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("status", status),
			zap.Int("size", max(c.Writer.Size(), 0)),
			zap.Duration("duration", time.Since(start)),
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields = append(fields, zap.String("errors", errs.String()))
		}
		l.Log(level, "http_request", fields...)
	}
}
