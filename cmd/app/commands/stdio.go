package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/allisson/gw2proxy/internal/app"
	"github.com/allisson/gw2proxy/internal/config"
)

// RunStdio serves line-delimited JSON-RPC 2.0 on the given streams until the input
// is exhausted or a termination signal arrives.
//
// Logs always go to stderr because stdout carries the protocol.
func RunStdio(ctx context.Context, version string, streams IOTuple) error {
	cfg := config.Load()
	cfg.LogOutput = "stderr"

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return serveStdio(ctx, app.NewContainer(cfg), version, streams)
}

func serveStdio(ctx context.Context, container *app.Container, version string, streams IOTuple) error {
	logger := container.Logger()
	logger.Info("starting stdio server", slog.String("version", version))

	defer closeContainer(container, logger)

	server, err := container.RPCServer()
	if err != nil {
		return fmt.Errorf("failed to initialize rpc server: %w", err)
	}

	if err := server.Run(ctx, streams.Reader, streams.Writer); err != nil {
		return fmt.Errorf("rpc server error: %w", err)
	}

	logger.Info("stdio server stopped")
	return nil
}
