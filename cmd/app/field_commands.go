package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cryptfields/cmd/app/commands"
)

func getFieldCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "encrypt",
			Usage: "Encrypt a value and publish its secret to the lookup store",
			Flags: append(algorithmFlags(),
				&cli.StringFlag{
					Name:     "value",
					Aliases:  []string{"v"},
					Required: true,
					Usage:    "Plaintext to encrypt",
				},
				&cli.BoolFlag{
					Name:  "no-lookup",
					Value: false,
					Usage: "Print the full envelope without writing to the lookup store",
				},
				formatFlag(),
			),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				alg, mode := selectedAlgorithmMode(cmd, container)
				cryptor, err := container.FieldCryptor(alg, mode)
				if err != nil {
					return err
				}

				return commands.RunEncrypt(
					ctx,
					cryptor,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("value"),
					cmd.Bool("no-lookup"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "decrypt",
			Usage: "Decrypt a stored envelope",
			Flags: append(algorithmFlags(),
				&cli.StringFlag{
					Name:     "value",
					Aliases:  []string{"v"},
					Required: true,
					Usage:    "Stored envelope to decrypt",
				},
				formatFlag(),
			),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				alg, mode := selectedAlgorithmMode(cmd, container)
				cryptor, err := container.FieldCryptor(alg, mode)
				if err != nil {
					return err
				}

				return commands.RunDecrypt(
					ctx,
					cryptor,
					commands.DefaultIO().Writer,
					cmd.String("value"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "hash",
			Usage: "Print the lookup digest of a value for equality queries",
			Flags: append(algorithmFlags(),
				&cli.StringFlag{
					Name:     "value",
					Aliases:  []string{"v"},
					Required: true,
					Usage:    "Plaintext to hash",
				},
				&cli.BoolFlag{
					Name:  "prefix",
					Value: true,
					Usage: "Prepend the envelope hash prefix",
				},
			),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				alg, mode := selectedAlgorithmMode(cmd, container)
				cryptor, err := container.FieldCryptor(alg, mode)
				if err != nil {
					return err
				}

				return commands.RunHash(
					ctx,
					cryptor,
					commands.DefaultIO().Writer,
					cmd.String("value"),
					cmd.Bool("prefix"),
				)
			},
		},
	}
}
