package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/gw2proxy/cmd/app/commands"
	"github.com/allisson/gw2proxy/internal/app"
	"github.com/allisson/gw2proxy/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP gateway",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "stdio",
			Usage: "Serve JSON-RPC 2.0 requests over stdin/stdout",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunStdio(ctx, version, commands.DefaultIO())
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
	}
}
