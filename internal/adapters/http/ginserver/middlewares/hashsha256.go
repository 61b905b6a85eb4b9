package middlewares

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vshulcz/focuswatch/internal/misc"
)

type bodyBufferWriter struct {
	gin.ResponseWriter
	body   bytes.Buffer
	status int
}

func (w *bodyBufferWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(p)
}

func (w *bodyBufferWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *bodyBufferWriter) WriteHeader(code int) {
	w.status = code
}

// HashSHA256 verifies the HMAC of signed request bodies and signs every response.
// An empty key disables both directions.
func HashSHA256(key string) gin.HandlerFunc {
	key = strings.TrimSpace(key)
	if key == "" {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		bw := &bodyBufferWriter{ResponseWriter: c.Writer}
		c.Writer = bw

		if got := strings.TrimSpace(c.GetHeader(misc.HashHeader)); got != "" {
			verifyRequest(c, key, got)
		}

		if !c.IsAborted() {
			c.Next()
		}

		if bw.body.Len() > 0 {
			c.Header(misc.HashHeader, misc.SignSHA256(bw.body.Bytes(), key))
		}

		status := bw.status
		if status == 0 {
			status = http.StatusOK
		}

		c.Writer = bw.ResponseWriter
		c.Writer.WriteHeader(status)
		if _, err := c.Writer.Write(bw.body.Bytes()); err != nil {
			_ = c.Error(err)
		}
	}
}

func verifyRequest(c *gin.Context, key, got string) {
	reqBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "read body failed"})
		return
	}
	if err := c.Request.Body.Close(); err != nil {
		_ = c.Error(err)
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(reqBody))
	if len(reqBody) > 0 && !misc.VerifySHA256(reqBody, key, got) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid hash"})
	}
}
