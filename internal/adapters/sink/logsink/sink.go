// Package logsink writes every event to the structured log.
package logsink

import (
	"context"

	"go.uber.org/zap"

	"github.com/vshulcz/focuswatch/internal/domain"
	"github.com/vshulcz/focuswatch/internal/ports"
)

// Sink is the local sink used when no desktop endpoint is configured.
type Sink struct {
	logger *zap.Logger
}

var _ ports.Sink = (*Sink)(nil)

// New returns a Sink logging under the "events" name of logger.
func New(logger *zap.Logger) *Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{logger: logger.Named("events")}
}

// Notify writes one info line per event. It never fails.
func (s *Sink) Notify(_ context.Context, evt domain.Event) error {
	fields := []zap.Field{
		zap.String("type", string(evt.Kind)),
		zap.String("message", evt.Message),
		zap.Time("timestamp", evt.Timestamp),
	}
	if fs := evt.Focus(); fs != "" {
		fields = append(fields, zap.String("focus_state", string(fs)))
	}
	s.logger.Info("event", fields...)
	return nil
}
