package main

import (
	"github.com/urfave/cli/v3"

	"github.com/allisson/cryptfields/internal/app"
	"github.com/allisson/cryptfields/internal/config"
	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
)

func getCommands(version string) []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands(version)...)
	cmds = append(cmds, getKeyCommands()...)
	cmds = append(cmds, getFieldCommands()...)
	cmds = append(cmds, getLookupCommands()...)
	return cmds
}

// newContainer loads and validates the configuration and builds the dependency container.
func newContainer() (*app.Container, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return app.NewContainer(cfg), nil
}

// algorithmFlags select the (algorithm, mode) pair a command works on. Empty values fall
// back to CRYPT_ALGORITHM and CRYPT_MODE.
func algorithmFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "algorithm",
			Aliases: []string{"alg"},
			Usage:   "Encryption algorithm (aes or rsa); defaults to CRYPT_ALGORITHM",
		},
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Usage:   "Key mode (local or restricted); defaults to CRYPT_MODE",
		},
	}
}

func selectedAlgorithmMode(
	cmd *cli.Command,
	container *app.Container,
) (cryptoDomain.Algorithm, cryptoDomain.Mode) {
	defaults := container.FieldOptions()
	alg, mode := defaults.Algorithm, defaults.Mode
	if value := cmd.String("algorithm"); value != "" {
		alg = cryptoDomain.Algorithm(value)
	}
	if value := cmd.String("mode"); value != "" {
		mode = cryptoDomain.Mode(value)
	}
	return alg, mode
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}
