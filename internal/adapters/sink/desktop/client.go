// Package desktop forwards events to the desktop shell over HTTP.
package desktop

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/vshulcz/focuswatch/internal/domain"
	"github.com/vshulcz/focuswatch/internal/misc"
	"github.com/vshulcz/focuswatch/internal/ports"
)

// Client POSTs every event as JSON to the desktop endpoint.
type Client struct {
	hc       *http.Client
	logger   *zap.Logger
	endpoint string
	key      string
	backoff  misc.Backoff
}

var _ ports.Sink = (*Client)(nil)

// New validates the endpoint URL and returns a Client that POSTs events there.
func New(rawURL, key string, hc *http.Client, logger *zap.Logger) (*Client, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("sink url is empty")
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("invalid sink url: %w", err)
	}
	if hc == nil {
		hc = &http.Client{Timeout: 2 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{endpoint: rawURL, key: strings.TrimSpace(key), hc: hc, logger: logger}
	c.backoff = misc.SinkBackoff
	c.backoff.OnRetry = func(attempt int, err error) {
		c.logger.Debug("desktop sink retry", zap.Int("attempt", attempt), zap.Error(err))
	}
	return c, nil
}

// Notify serializes evt and delivers it, retrying transient failures.
func (c *Client) Notify(ctx context.Context, evt domain.Event) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	var sig string
	if c.key != "" {
		sig = misc.SignSHA256(payload, c.key)
	}

	if err := c.backoff.Retry(ctx, isRetryableHTTP, func() error {
		return c.post(ctx, payload, sig)
	}); err != nil {
		return fmt.Errorf("desktop sink: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, payload []byte, sig string) (retErr error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sig != "" {
		req.Header.Set(misc.HashHeader, sig)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("close response body: %w", cerr)
		}
	}()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("drain response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpStatusError{code: resp.StatusCode, msg: fmt.Sprintf("sink status: %s", resp.Status)}
	}
	return nil
}

type httpStatusError struct {
	msg  string
	code int
}

func (e *httpStatusError) Error() string {
	return e.msg
}

func isRetryableHTTP(err error) bool {
	if err == nil {
		return false
	}
	var se *httpStatusError
	if errors.As(err, &se) {
		switch se.code {
		case http.StatusBadGateway, http.StatusServiceUnavailable,
			http.StatusGatewayTimeout, http.StatusTooManyRequests:
			return true
		default:
			return false
		}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}
