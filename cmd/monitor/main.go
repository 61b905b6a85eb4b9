package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vshulcz/focuswatch/internal/config"
	"github.com/vshulcz/focuswatch/pkg/buildinfo"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := buildinfo.New(buildVersion, buildDate, buildCommit)
	_ = build.Print(os.Stdout)

	cfg, err := config.LoadMonitorConfig(os.Args[1:], os.Stderr)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting focuswatch",
		zap.String("version", build.Version),
		zap.String("commit", build.Commit),
		zap.String("address", cfg.Address),
	)

	a, err := newApp(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build app", zap.Error(err))
	}

	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		logger.Fatal("failed to listen", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.serve(ctx, ln); err != nil {
		logger.Error("monitor exited with error", zap.Error(err))
		os.Exit(1)
	}
}
