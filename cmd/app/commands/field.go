package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	fieldUsecase "github.com/allisson/cryptfields/internal/field/usecase"
)

// RunEncrypt encrypts value with cryptor.
//
// By default the secret is published to the lookup store and the hash-only envelope meant
// for the primary record is printed. With skipLookup the full envelope is printed and
// nothing is written.
func RunEncrypt(
	ctx context.Context,
	cryptor fieldUsecase.FieldCryptor,
	logger *slog.Logger,
	writer io.Writer,
	value string,
	skipLookup bool,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	encrypted, err := cryptor.Encrypt(ctx, value)
	if err != nil {
		return fmt.Errorf("failed to encrypt value: %w", err)
	}

	stored := encrypted
	if !skipLookup {
		stored, err = cryptor.GetPrepValue(ctx, encrypted, value, true)
		if err != nil {
			return fmt.Errorf("failed to publish secret: %w", err)
		}
	}

	opts := cryptor.Options()
	logger.Info("value encrypted",
		slog.String("algorithm", string(opts.Algorithm)),
		slog.String("mode", string(opts.Mode)),
		slog.Bool("lookup_updated", !skipLookup),
	)

	if format == "json" {
		return writeJSON(writer, map[string]interface{}{
			"value":          stored,
			"algorithm":      opts.Algorithm,
			"mode":           opts.Mode,
			"lookup_updated": !skipLookup,
		})
	}
	_, _ = fmt.Fprintln(writer, stored)
	return nil
}

// RunDecrypt prints the plaintext of a stored envelope. Values that are not envelopes are
// printed unchanged.
func RunDecrypt(
	ctx context.Context,
	cryptor fieldUsecase.FieldCryptor,
	writer io.Writer,
	value string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	plaintext, err := cryptor.Decrypt(ctx, value)
	if err != nil {
		return fmt.Errorf("failed to decrypt value: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]interface{}{
			"value":     plaintext,
			"encrypted": cryptor.IsEncrypted(plaintext, ""),
		})
	}
	_, _ = fmt.Fprintln(writer, plaintext)
	return nil
}

// RunHash prints the lookup digest of value, with HashPrefix when withPrefix is set. The
// prefixed form is what equality queries compare stored values against.
func RunHash(
	ctx context.Context,
	cryptor fieldUsecase.FieldCryptor,
	writer io.Writer,
	value string,
	withPrefix bool,
) error {
	var (
		digest string
		err    error
	)
	if withPrefix {
		digest, err = cryptor.GetHashWithPrefix(ctx, value)
	} else {
		digest, err = cryptor.GetHash(ctx, value)
	}
	if err != nil {
		return fmt.Errorf("failed to hash value: %w", err)
	}

	_, _ = fmt.Fprintln(writer, digest)
	return nil
}
