package misc

import (
	"context"
	"time"
)

// Backoff describes how many times an operation is retried and how long to wait in between.
type Backoff struct {
	// OnRetry, when set, is called before each wait with the 1-based attempt that failed.
	OnRetry func(attempt int, err error)
	Delays  []time.Duration
}

// SinkBackoff is short on purpose: events are advisory and a stale one is worth little.
var SinkBackoff = Backoff{Delays: []time.Duration{
	100 * time.Millisecond,
	300 * time.Millisecond,
	500 * time.Millisecond,
}}

// Retry runs op until it succeeds, returns a non-retryable error, runs out of delays or ctx ends.
func (b Backoff) Retry(ctx context.Context, isRetryable func(error) bool, op func() error) error {
	var err error
	for i := 0; ; i++ {
		if err = op(); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if i >= len(b.Delays) || !isRetryable(err) {
			return err
		}
		if b.OnRetry != nil {
			b.OnRetry(i+1, err)
		}
		t := time.NewTimer(b.Delays[i])
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
