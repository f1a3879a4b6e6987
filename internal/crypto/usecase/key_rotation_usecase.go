package usecase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
	cryptoService "github.com/allisson/cryptfields/internal/crypto/service"
)

const backupDirPrefix = "keys_backup_"

type keyRotator struct {
	generator    cryptoService.KeyGenerator
	invalidators []Invalidator
	logger       *slog.Logger
	now          func() time.Time
	rename       func(oldPath, newPath string) error
}

// NewKeyRotator creates a KeyRotator that writes new keys with generator.
func NewKeyRotator(
	generator cryptoService.KeyGenerator,
	logger *slog.Logger,
	invalidators ...Invalidator,
) KeyRotator {
	return &keyRotator{
		generator:    generator,
		invalidators: invalidators,
		logger:       logger,
		now:          time.Now,
		rename:       os.Rename,
	}
}

// Rotate implements KeyRotator.
func (k *keyRotator) Rotate(ctx context.Context, keyPath string) (*cryptoDomain.RotationResult, error) {
	paths := cryptoDomain.KeyPaths(keyPath)

	backupPath, err := k.createBackupPath(keyPath)
	if err != nil {
		return nil, err
	}
	result := &cryptoDomain.RotationResult{BackupPath: backupPath}
	k.logger.Info("created key backup folder", slog.String("backup_path", backupPath))

	result.Moved = k.backup(paths, backupPath)

	if stale := firstExisting(paths); stale != "" {
		return result, &cryptoDomain.KeyFileError{Path: stale, Err: cryptoDomain.ErrStaleKeys}
	}

	k.logger.Info("creating new keys", slog.String("key_path", keyPath))
	created, genErr := k.generator.Generate(ctx, keyPath)
	result.Created = created

	if missing := firstMissing(paths); missing != "" {
		err := &cryptoDomain.KeyFileError{Path: missing, Err: cryptoDomain.ErrIncompleteKeySet}
		if genErr != nil {
			return result, errors.Join(err, genErr)
		}
		return result, err
	}
	if genErr != nil {
		return result, genErr
	}

	for _, invalidator := range k.invalidators {
		if err := invalidator.Invalidate(ctx); err != nil {
			k.logger.Warn("failed to invalidate state after key rotation", slog.Any("error", err))
		}
	}

	k.logger.Info("key rotation complete", slog.Int("created", len(created)))
	return result, nil
}

// createBackupPath creates keys_backup_<YYYYmmddHHMMSS><microseconds> inside keyPath,
// creating keyPath itself on a fresh installation.
func (k *keyRotator) createBackupPath(keyPath string) (string, error) {
	if err := os.MkdirAll(keyPath, 0o700); err != nil {
		return "", fmt.Errorf("%w: %v", cryptoDomain.ErrBackupFailed, err)
	}

	now := k.now()
	name := fmt.Sprintf("%s%s%06d", backupDirPrefix, now.Format("20060102150405"), now.Nanosecond()/1000)
	backupPath := filepath.Join(keyPath, name)

	// The mkdir error already names backupPath.
	if err := os.Mkdir(backupPath, 0o700); err != nil {
		return "", fmt.Errorf("%w: %v", cryptoDomain.ErrBackupFailed, err)
	}
	return backupPath, nil
}

// backup renames every existing key file into backupPath, stopping at the first failure.
func (k *keyRotator) backup(paths []string, backupPath string) []string {
	moved := make([]string, 0, len(paths))
	for _, oldPath := range paths {
		if !exists(oldPath) {
			continue
		}
		newPath := filepath.Join(backupPath, filepath.Base(oldPath))
		if err := k.rename(oldPath, newPath); err != nil {
			k.logger.Error(
				"failed to move key file to backup folder",
				slog.String("path", oldPath),
				slog.String("backup_path", newPath),
				slog.Any("error", err),
			)
			break
		}
		k.logger.Info("moved key file", slog.String("path", oldPath), slog.String("backup_path", newPath))
		moved = append(moved, oldPath)
	}
	return moved
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

func firstExisting(paths []string) string {
	for _, path := range paths {
		if exists(path) {
			return path
		}
	}
	return ""
}

func firstMissing(paths []string) string {
	for _, path := range paths {
		if !exists(path) {
			return path
		}
	}
	return ""
}
