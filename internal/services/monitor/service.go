// Package monitor polls the metrics source, tracks connectivity and debounces
// the focus label, publishing the resulting events.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vshulcz/focuswatch/internal/config"
	"github.com/vshulcz/focuswatch/internal/domain"
	"github.com/vshulcz/focuswatch/internal/ports"
)

const (
	msgConnected    = "Metrics source connected"
	msgDisconnected = "Metrics source disconnected"
)

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// Service owns the shared monitor state. Only PollOnce mutates it.
type Service struct {
	locator ports.Locator
	fetcher ports.Fetcher
	hub     ports.Hub
	logger  *zap.Logger
	now     func() time.Time

	// pollMu serializes PollOnce; endpoint is only touched under it.
	pollMu   sync.Mutex
	endpoint ports.Endpoint

	mu    sync.Mutex
	link  connectivity
	focus focusDebouncer

	interval time.Duration
}

// New wires the monitor configuration, source adapters and event hub.
func New(cfg config.MonitorConfig, loc ports.Locator, f ports.Fetcher, hub ports.Hub, opts ...Option) *Service {
	threshold := cfg.FailureThreshold
	if threshold < 1 {
		threshold = 1
	}
	s := &Service{
		locator:  loc,
		fetcher:  f,
		hub:      hub,
		logger:   zap.NewNop(),
		now:      time.Now,
		interval: cfg.PollInterval,
		link:     connectivity{threshold: uint(threshold)},
		focus:    focusDebouncer{window: cfg.StabilityWindow},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run polls once immediately and then on every tick until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("monitor: poll interval must be positive")
	}
	s.logger.Info("monitor started", zap.Duration("interval", s.interval))
	defer s.logger.Info("monitor stopped")

	s.PollOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.PollOnce(ctx)
		}
	}
}

// PollOnce runs a single locate/fetch cycle and applies its outcome.
// The network part of the cycle is bounded by the poll interval; running out
// of that budget counts as a failure, cancellation of ctx does not.
func (s *Service) PollOnce(ctx context.Context) {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	if ctx.Err() != nil {
		return
	}

	cycleCtx := ctx
	if s.interval > 0 {
		var cancel context.CancelFunc
		cycleCtx, cancel = context.WithTimeout(ctx, s.interval)
		defer cancel()
	}

	if s.endpoint == "" {
		ep, err := s.locator.Locate(cycleCtx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Debug("metrics source not located", zap.Error(err))
			s.apply(ctx, nil, err)
			return
		}
		s.logger.Info("metrics source located", zap.String("endpoint", string(ep)))
		s.endpoint = ep
	}

	snap, err := s.fetcher.Fetch(cycleCtx, s.endpoint)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if domain.ForcesRediscovery(err) {
			s.logger.Debug("dropping metrics endpoint", zap.String("endpoint", string(s.endpoint)), zap.Error(err))
			s.endpoint = ""
		} else {
			s.logger.Debug("metrics fetch failed", zap.Error(err))
		}
		s.apply(ctx, nil, err)
		return
	}
	s.apply(ctx, &snap, nil)
}

// apply folds one poll outcome into the state machines under a single lock
// and publishes the resulting events once the lock is released.
func (s *Service) apply(ctx context.Context, snap *domain.Snapshot, pollErr error) {
	now := s.now()
	var out []domain.Event

	s.mu.Lock()
	if pollErr != nil {
		dropped, notify := s.link.failure()
		if dropped {
			s.focus.reset()
		}
		if notify {
			out = append(out, domain.NewEvent(domain.KindConnectionStatus, msgDisconnected, now))
		}
	} else {
		if s.link.success() {
			out = append(out, domain.NewEvent(domain.KindConnectionStatus, msgConnected, now))
		}
		if label, ok := s.focus.observe(snap.Attention, now); ok {
			out = append(out, domain.NewFocusEvent(label, now))
		}
	}
	failures := s.link.failures
	s.mu.Unlock()

	for _, evt := range out {
		s.logEvent(evt, failures)
		s.hub.Publish(ctx, evt)
	}
}

func (s *Service) logEvent(evt domain.Event, failures uint) {
	fields := []zap.Field{zap.String("type", string(evt.Kind)), zap.String("message", evt.Message)}
	switch {
	case evt.FocusState != nil:
		fields = append(fields, zap.String("focus_state", string(*evt.FocusState)))
	case evt.Message == msgDisconnected:
		fields = append(fields, zap.Uint("failures", failures))
		s.logger.Warn("monitor event", fields...)
		return
	}
	s.logger.Info("monitor event", fields...)
}

// State reports the current link state.
func (s *Service) State() LinkState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.link.state
}

// Status returns a read-only summary. It never waits on an in-flight poll.
func (s *Service) Status() domain.Status {
	st := domain.Status{
		Connected:       s.State() == LinkConnected,
		MessagesEmitted: s.hub.Published(),
	}
	for _, sub := range s.hub.Stats() {
		if sub.Attached {
			st.LocalSinks++
		} else {
			st.SubscriberCount++
		}
		st.Subscribers = append(st.Subscribers, domain.SubscriberStats{
			ID:       sub.ID,
			Buffered: sub.Buffered,
			Capacity: sub.Capacity,
			Dropped:  sub.Dropped,
			Local:    sub.Attached,
		})
	}
	return st
}
