package ports

import (
	"context"

	"github.com/vshulcz/focuswatch/internal/domain"
)

// Endpoint is the resolved base URL of a metrics source, e.g. "http://localhost:5001".
type Endpoint string

// Locator finds the first candidate endpoint that currently serves metrics.
type Locator interface {
	Locate(ctx context.Context) (Endpoint, error)
}

// Fetcher reads one snapshot from a resolved endpoint.
type Fetcher interface {
	Fetch(ctx context.Context, ep Endpoint) (domain.Snapshot, error)
}
