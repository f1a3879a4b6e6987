package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cryptfields/cmd/app/commands"
	"github.com/allisson/cryptfields/internal/validation"
)

func batchSizeFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "batch-size",
		Aliases: []string{"b"},
		Value:   validation.DefaultPageLimit,
		Usage:   "Number of records per database round trip",
	}
}

func getLookupCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "export-lookup",
			Usage: "Write the lookup records of one algorithm and mode to stdout as JSON lines",
			Flags: append(algorithmFlags(), batchSizeFlag()),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecretStore()
				if err != nil {
					return err
				}

				alg, mode := selectedAlgorithmMode(cmd, container)
				return commands.RunExportLookup(
					ctx,
					store,
					container.Logger(),
					commands.DefaultIO().Writer,
					alg,
					mode,
					int(cmd.Int("batch-size")),
				)
			},
		},
		{
			Name:  "import-lookup",
			Usage: "Read JSON lines from stdin and add missing lookup records",
			Flags: []cli.Flag{batchSizeFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				store, err := container.SecretStore()
				if err != nil {
					return err
				}

				streams := commands.DefaultIO()
				return commands.RunImportLookup(
					ctx,
					store,
					container.Logger(),
					streams.Reader,
					streams.Writer,
					int(cmd.Int("batch-size")),
				)
			},
		},
	}
}
