package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cryptfields/cmd/app/commands"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:        "generate-keys",
			Usage:       "Back up the current key set and generate a new one",
			Description: "Existing key files are moved into a keys_backup_<timestamp> folder inside the key path.\n" +
				"The new set always includes rsa-restricted-private.pem. On deployments running with\n" +
				"CRYPT_RESTRICTED=true, move that file off the host before starting; the key loader rejects it.",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "key-path",
					Aliases: []string{"p"},
					Usage:   "Folder holding the key files; defaults to KEY_PATH",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := newContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				keyPath := cmd.String("key-path")
				if keyPath == "" {
					keyPath = container.Config().KeyPath
				}

				rotator, err := container.KeyRotator()
				if err != nil {
					return err
				}

				return commands.RunGenerateKeys(
					ctx,
					rotator,
					container.Logger(),
					commands.DefaultIO().Writer,
					keyPath,
					container.Config().CryptRestricted,
				)
			},
		},
	}
}
