package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cryptfields/cmd/app/commands"
)

func getSystemCommands(_ string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "migrate",
			Usage: "Create the lookup table in the configured database",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				cfg := container.Config()
				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
	}
}
