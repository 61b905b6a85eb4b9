package ginserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vshulcz/focuswatch/internal/adapters/http/ginserver/middlewares"
)

// NewRouter builds the gin engine. The /api group decodes and encodes gzip and,
// when key is set, verifies and signs bodies with HashSHA256. Streaming routes
// stay outside that group because those middlewares buffer the response.
func NewRouter(h *Handler, logger *zap.Logger, key string, mws ...gin.HandlerFunc) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()

	r.Use(gin.CustomRecovery(func(c *gin.Context, rec any) {
		logger.Error("panic recovered", zap.Any("panic", rec), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	for _, mw := range mws {
		r.Use(mw)
	}

	r.RedirectTrailingSlash = false
	r.RemoveExtraSlash = true

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.String(http.StatusMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", h.Health)
	r.GET("/status", h.Status)
	r.GET("/ws", h.Subscribe)

	api := r.Group("/api",
		middlewares.GzipRequest(),
		middlewares.GzipResponse(),
		middlewares.HashSHA256(key),
	)
	api.POST("/message", h.Message)
	api.POST("/message/", h.Message)

	return r
}
