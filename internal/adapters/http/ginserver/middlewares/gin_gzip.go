package middlewares

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// MaxRequestBytes caps decompressed request bodies on the API group.
const MaxRequestBytes = 1 << 20

var gzipWriterPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(io.Discard)
	},
}

type gzipReadCloser struct {
	gz  *gzip.Reader
	raw io.Closer
}

func (g *gzipReadCloser) Read(p []byte) (int, error) {
	return g.gz.Read(p)
}

func (g *gzipReadCloser) Close() error {
	gerr := g.gz.Close()
	if g.raw != nil {
		if err := g.raw.Close(); err != nil {
			return err
		}
	}
	return gerr
}

// GzipRequest transparently inflates gzip-encoded request bodies.
func GzipRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if enc := strings.ToLower(c.GetHeader("Content-Encoding")); strings.Contains(enc, "gzip") {
			gr, err := gzip.NewReader(c.Request.Body)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "bad gzip body"})
				return
			}
			inflated := &gzipReadCloser{gz: gr, raw: c.Request.Body}
			c.Request.Body = http.MaxBytesReader(c.Writer, inflated, MaxRequestBytes)
			c.Request.Header.Del("Content-Encoding")
			c.Request.Header.Del("Content-Length")
			c.Request.ContentLength = -1
		}
		c.Next()
	}
}

type gzipResponseWriter struct {
	gin.ResponseWriter
	gzw      *gzip.Writer
	compress bool
	decided  bool
}

// decide compresses JSON bodies only; status-only replies pass through.
func (w *gzipResponseWriter) decide() {
	if w.decided {
		return
	}
	w.decided = true

	if !strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		return
	}
	if status := w.Status(); status == http.StatusNoContent || status < 200 {
		return
	}

	w.Header().Del("Content-Length")
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Add("Vary", "Accept-Encoding")
	zw, _ := gzipWriterPool.Get().(*gzip.Writer)
	if zw == nil {
		zw = gzip.NewWriter(w.ResponseWriter)
	} else {
		zw.Reset(w.ResponseWriter)
	}
	w.gzw = zw
	w.compress = true
}

func (w *gzipResponseWriter) Write(p []byte) (int, error) {
	w.decide()
	if w.compress {
		return w.gzw.Write(p)
	}
	return w.ResponseWriter.Write(p)
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *gzipResponseWriter) Close() error {
	if w.gzw == nil {
		return nil
	}
	err := w.gzw.Close()
	gzipWriterPool.Put(w.gzw)
	w.gzw = nil
	return err
}

// GzipResponse compresses JSON responses for clients that accept gzip.
func GzipResponse() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(strings.ToLower(c.GetHeader("Accept-Encoding")), "gzip") {
			c.Next()
			return
		}
		grw := &gzipResponseWriter{ResponseWriter: c.Writer}
		c.Writer = grw
		c.Next()
		if err := grw.Close(); err != nil {
			_ = c.Error(err)
		}
		c.Writer = grw.ResponseWriter
	}
}
