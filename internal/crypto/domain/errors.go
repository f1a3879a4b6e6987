package domain

import (
	"fmt"
	"strings"

	"github.com/allisson/cryptfields/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors so callers can
// classify failures (caller misuse, missing data, unavailable keys) with errors.Is.
// None of them ever carries plaintext or secret material.
var (
	// ErrUnsupportedAlgorithm indicates the algorithm is not one of ValidAlgorithms.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrUnsupportedMode indicates the mode is not valid for the algorithm.
	ErrUnsupportedMode = errors.Wrap(errors.ErrInvalidInput, "unsupported mode")

	// ErrPlaintextTooLong indicates the value exceeds the RSA plaintext guard.
	ErrPlaintextTooLong = errors.Wrap(errors.ErrInvalidInput, "plaintext too long")

	// ErrKeyNotLoaded indicates the key required by the operation is not available.
	//
	// Returned when encrypting without a public/symmetric key, or when decrypting without
	// the private/symmetric key on a deployment that is not flagged as restricted.
	ErrKeyNotLoaded = errors.Wrap(errors.ErrUnavailable, "key not loaded")

	// ErrDecryptionFailed indicates authentication, padding or key mismatch during decryption.
	//
	// The specific cause is not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrInvalidEnvelope indicates a value carries a prefix but is not a well formed envelope.
	ErrInvalidEnvelope = errors.Wrap(errors.ErrInvalidInput, "invalid envelope")

	// ErrSecretNotFound indicates a digest could not be resolved in the cache or the lookup store.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found for hash")

	// ErrPartialKeySet indicates some, but not all, files of a mode group exist.
	ErrPartialKeySet = errors.Wrap(errors.ErrInvalidInput, "partial key set")

	// ErrRestrictedKeyPresent indicates a restricted deployment holds the restricted private key.
	ErrRestrictedKeyPresent = errors.Wrap(errors.ErrForbidden, "restricted private key must not be present")

	// ErrInvalidKeyFile indicates a key file could not be decoded.
	ErrInvalidKeyFile = errors.Wrap(errors.ErrInvalidInput, "invalid key file")
)

// Rotation error definitions. Every error returned for these names the offending path.
var (
	// ErrBackupFailed indicates the backup folder could not be created. No rotation proceeds.
	ErrBackupFailed = errors.New("failed to create backup folder")

	// ErrStaleKeys indicates a key file is still in the key path after backup.
	ErrStaleKeys = errors.New("old keys are still in the target folder")

	// ErrIncompleteKeySet indicates key generation did not produce every expected file.
	ErrIncompleteKeySet = errors.New("not all keys were created")
)

// UnsupportedAlgorithmError names the rejected algorithm and the valid set.
type UnsupportedAlgorithmError struct {
	Algorithm string
	Valid     []string
}

func (e *UnsupportedAlgorithmError) Error() string {
	return fmt.Sprintf(
		"cannot determine algorithm: valid options are %s, got %q",
		strings.Join(e.Valid, ", "),
		e.Algorithm,
	)
}

func (e *UnsupportedAlgorithmError) Unwrap() error {
	return ErrUnsupportedAlgorithm
}

// UnsupportedModeError names the rejected mode of an otherwise valid algorithm.
type UnsupportedModeError struct {
	Algorithm string
	Mode      string
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("mode %q is not valid for algorithm %q", e.Mode, e.Algorithm)
}

func (e *UnsupportedModeError) Unwrap() error {
	return ErrUnsupportedMode
}

// PlaintextTooLongError carries the RSA limit and the length that was submitted.
type PlaintextTooLongError struct {
	Limit  int
	Length int
}

func (e *PlaintextTooLongError) Error() string {
	return fmt.Sprintf("string value to encrypt may not exceed %d bytes, got %d", e.Limit, e.Length)
}

func (e *PlaintextTooLongError) Unwrap() error {
	return ErrPlaintextTooLong
}

// SecretNotFoundError names the digest that could not be resolved.
type SecretNotFoundError struct {
	Hash string
}

func (e *SecretNotFoundError) Error() string {
	return fmt.Sprintf("could not find secret in lookup for hash %s", e.Hash)
}

func (e *SecretNotFoundError) Unwrap() error {
	return ErrSecretNotFound
}

// KeyFileError ties a key-material failure to the path it concerns.
type KeyFileError struct {
	Path string
	Err  error
}

func (e *KeyFileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Path)
}

func (e *KeyFileError) Unwrap() error {
	return e.Err
}
