package httpjson

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vshulcz/focuswatch/internal/domain"
	"github.com/vshulcz/focuswatch/internal/ports"
)

// Locator probes candidate base URLs in priority order.
type Locator struct {
	hc         *http.Client
	logger     *zap.Logger
	healthPath string
	candidates []ports.Endpoint
	timeout    time.Duration
}

var _ ports.Locator = (*Locator)(nil)

// NewLocator builds a Locator; candidates keep the order given.
func NewLocator(hc *http.Client, candidates []string, healthPath string, timeout time.Duration, logger *zap.Logger) *Locator {
	if hc == nil {
		hc = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	eps := make([]ports.Endpoint, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimRight(strings.TrimSpace(c), "/")
		if c != "" {
			eps = append(eps, ports.Endpoint(c))
		}
	}
	return &Locator{
		hc:         hc,
		logger:     logger,
		healthPath: normalizePath(healthPath),
		candidates: eps,
		timeout:    timeout,
	}
}

// Locate returns the first candidate answering 2xx, or domain.ErrSourceNotFound.
func (l *Locator) Locate(ctx context.Context) (ports.Endpoint, error) {
	for _, ep := range l.candidates {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrSourceNotFound, err)
		}
		if err := l.probe(ctx, ep); err != nil {
			l.logger.Debug("candidate rejected", zap.String("endpoint", string(ep)), zap.Error(err))
			continue
		}
		return ep, nil
	}
	return "", domain.ErrSourceNotFound
}

func (l *Locator) probe(ctx context.Context, ep ports.Endpoint) error {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL(ep, l.healthPath), http.NoBody)
	if err != nil {
		return err
	}
	resp, err := l.hc.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxSnapshotBytes))
	_ = resp.Body.Close()
	return checkHTTPStatus(resp)
}
