package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/gw2proxy/cmd/app/commands"
	"github.com/allisson/gw2proxy/internal/app"
	"github.com/allisson/gw2proxy/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-master-key",
			Usage: "Generate a new master key file for the credential store",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "path",
					Aliases: []string{"p"},
					Usage:   "Destination file (defaults to MASTER_KEY_FILE or ./_secrets/app_key.json)",
				},
				&cli.BoolFlag{
					Name:    "force",
					Aliases: []string{"f"},
					Value:   false,
					Usage:   "Overwrite an existing master key file",
				},
				&cli.StringFlag{
					Name:    "kms-key-uri",
					Aliases: []string{"k"},
					Usage:   "Wrap the key with this KMS key (e.g. base64key://..., gcpkms://..., hashivault://...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				path, err := commands.ResolveMasterKeyPath(cmd.String("path"), cfg.MasterKeyFile)
				if err != nil {
					return err
				}

				return commands.RunCreateMasterKey(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					path,
					cmd.Bool("force"),
					cmd.String("kms-key-uri"),
				)
			},
		},
	}
}
