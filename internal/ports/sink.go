package ports

import (
	"context"

	"github.com/vshulcz/focuswatch/internal/domain"
	"github.com/vshulcz/focuswatch/pkg/broadcast"
)

// Sink consumes every event in publish order, independent of remote subscribers.
type Sink interface {
	Notify(ctx context.Context, evt domain.Event) error
}

// Publisher accepts events produced by the monitor or injected from outside.
type Publisher interface {
	Publish(ctx context.Context, evt domain.Event)
}

// Hub is the event bus the monitor publishes to and reports on.
type Hub interface {
	Publisher
	Published() uint64
	Stats() []broadcast.Stats
}
