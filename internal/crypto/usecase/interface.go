// Package usecase implements the key rotation workflow.
//
// Rotation is an offline maintenance operation: it moves the current key set into a
// timestamped backup folder inside the key path, refuses to continue if any old key is
// still in place, generates a fresh key set and verifies every expected file exists.
// Nothing is rolled back on failure; the backup folder is left for the operator.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
)

// Invalidator drops state derived from the previous key set (cached secrets, loaded keys).
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// KeyRotator replaces the key set under a key path.
type KeyRotator interface {
	// Rotate backs up, regenerates and verifies the key set under keyPath.
	//
	// Failures are ErrBackupFailed, ErrStaleKeys or ErrIncompleteKeySet, each naming the
	// offending path. On success every registered Invalidator is called.
	Rotate(ctx context.Context, keyPath string) (*cryptoDomain.RotationResult, error)
}
