package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
	cryptoUsecase "github.com/allisson/cryptfields/internal/crypto/usecase"
)

// RunGenerateKeys rotates the key set under keyPath: existing key files are moved into a
// timestamped backup folder, then a fresh set is generated and verified.
//
// Progress is printed to writer. Any failure prints "Key rotation failed" with the offending
// path and is returned so the process exits non-zero. On a restricted deployment the freshly
// written restricted private key must be moved off the host before the key set can be loaded.
func RunGenerateKeys(
	ctx context.Context,
	rotator cryptoUsecase.KeyRotator,
	logger *slog.Logger,
	writer io.Writer,
	keyPath string,
	restricted bool,
) error {
	if keyPath == "" {
		return fmt.Errorf("key path is required")
	}

	logger.Info("generating keys", slog.String("key_path", keyPath))

	result, err := rotator.Rotate(ctx, keyPath)
	if result != nil {
		if result.BackupPath != "" {
			_, _ = fmt.Fprintf(writer, "Created key backup folder %s\n", result.BackupPath)
		}
		for _, path := range result.Moved {
			_, _ = fmt.Fprintf(writer, "Moved %s to backup folder\n", path)
		}
		for _, path := range result.Created {
			_, _ = fmt.Fprintf(writer, "Created %s\n", path)
		}
	}
	if err != nil {
		_, _ = fmt.Fprintf(writer, "Key rotation failed: %v\n", err)
		return fmt.Errorf("failed to rotate keys: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "New keys created successfully in %s\n", keyPath)
	if restricted {
		privateKey := cryptoDomain.RestrictedPrivateKeyFile.Path(keyPath)
		logger.Warn("restricted private key written on a restricted deployment", slog.String("path", privateKey))
		_, _ = fmt.Fprintf(
			writer,
			"Warning: CRYPT_RESTRICTED is set; move %s off this host before loading the keys\n",
			privateKey,
		)
	}
	return nil
}
