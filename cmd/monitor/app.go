package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vshulcz/focuswatch/internal/adapters/http/ginserver"
	"github.com/vshulcz/focuswatch/internal/adapters/http/ginserver/middlewares"
	"github.com/vshulcz/focuswatch/internal/adapters/sink/desktop"
	"github.com/vshulcz/focuswatch/internal/adapters/sink/logsink"
	"github.com/vshulcz/focuswatch/internal/adapters/source/httpjson"
	"github.com/vshulcz/focuswatch/internal/config"
	"github.com/vshulcz/focuswatch/internal/domain"
	"github.com/vshulcz/focuswatch/internal/ports"
	"github.com/vshulcz/focuswatch/internal/services/monitor"
	"github.com/vshulcz/focuswatch/pkg/broadcast"
)

const shutdownTimeout = 5 * time.Second

type app struct {
	logger *zap.Logger
	hub    *broadcast.Hub[domain.Event]
	svc    *monitor.Service
	sink   ports.Sink
	server *http.Server
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newApp(cfg config.MonitorConfig, logger *zap.Logger) (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	hub := broadcast.NewHub[domain.Event](cfg.BufferSize)
	hub.SetErrorHandler(func(err error) {
		logger.Warn("local sink failed", zap.Error(err))
	})

	var sink ports.Sink = logsink.New(logger)
	if cfg.SinkURL != "" {
		d, err := desktop.New(cfg.SinkURL, cfg.Key, nil, logger.Named("desktop"))
		if err != nil {
			return nil, fmt.Errorf("desktop sink: %w", err)
		}
		sink = d
	}

	hc := &http.Client{}
	loc := httpjson.NewLocator(hc, cfg.Candidates, cfg.HealthPath, cfg.ProbeTimeout, logger.Named("locator"))
	fetcher := httpjson.New(hc, cfg.MetricsPath, cfg.RequestTimeout)
	svc := monitor.New(cfg, loc, fetcher, hub, monitor.WithLogger(logger.Named("monitor")))

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	h := ginserver.NewHandler(svc, hub, logger.Named("http"))
	r := ginserver.NewRouter(h, logger, cfg.Key, middlewares.ZapLogger(logger.Named("access")))

	return &app{
		logger: logger,
		hub:    hub,
		svc:    svc,
		sink:   sink,
		server: &http.Server{
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// serve runs the poll loop, the local sink and the HTTP server until ctx ends.
func (a *app) serve(ctx context.Context, ln net.Listener) error {
	sinkCtx, stopSink := context.WithCancel(context.Background())
	defer stopSink()
	sinkDone, err := a.hub.Attach(sinkCtx, a.sink)
	if err != nil {
		return fmt.Errorf("attach sink: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.svc.Run(gctx)
	})
	g.Go(func() error {
		a.logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		// hijacked websocket connections are not tracked by Shutdown; closing
		// the hub ends their writers with a going-away frame
		a.hub.Close()
		if err := a.server.Shutdown(shCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()

	select {
	case <-sinkDone:
	case <-time.After(shutdownTimeout):
		stopSink()
		<-sinkDone
	}
	a.logger.Info("monitor shut down", zap.Uint64("messages_emitted", a.hub.Published()))
	return err
}
