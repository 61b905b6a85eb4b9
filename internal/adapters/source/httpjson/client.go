// Package httpjson reads metrics snapshots from an HTTP source serving JSON.
package httpjson

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vshulcz/focuswatch/internal/domain"
	"github.com/vshulcz/focuswatch/internal/ports"
)

const maxSnapshotBytes = 1 << 20

// Client fetches snapshots from a resolved endpoint.
type Client struct {
	hc      *http.Client
	path    string
	timeout time.Duration
}

var _ ports.Fetcher = (*Client)(nil)

// New returns a Client reading metricsPath with a per-request timeout.
func New(hc *http.Client, metricsPath string, timeout time.Duration) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{hc: hc, path: normalizePath(metricsPath), timeout: timeout}
}

// Fetch performs a single GET and classifies the outcome as transport, status or parse failure.
func (c *Client) Fetch(ctx context.Context, ep ports.Endpoint) (snap domain.Snapshot, retErr error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL(ep, c.path), http.NoBody)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: new request: %v", domain.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("%w: close response body: %v", domain.ErrTransport, cerr)
		}
	}()

	if err := checkHTTPStatus(resp); err != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxSnapshotBytes))
		return domain.Snapshot{}, fmt.Errorf("%w: %w", domain.ErrBadStatus, err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: read body: %v", domain.ErrTransport, err)
	}
	if err := json.Unmarshal(body, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	return snap, nil
}

type httpStatusError struct {
	msg  string
	code int
}

func (e *httpStatusError) Error() string {
	return e.msg
}

func checkHTTPStatus(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &httpStatusError{code: resp.StatusCode, msg: fmt.Sprintf("source status: %s", resp.Status)}
	}
	return nil
}

func endpointURL(ep ports.Endpoint, path string) string {
	return strings.TrimRight(string(ep), "/") + path
}

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}
