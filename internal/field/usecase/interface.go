// Package usecase implements the field cryptor: the envelope protocol that turns a plaintext
// field value into a searchable digest plus an out-of-band secret, and back.
//
// The primary record only ever receives the hash-only envelope returned by GetPrepValue. The
// secret part of a full envelope is published to the lookup store and resolved from it on read.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
)

// DefaultMask replaces encrypted values in Mask.
const DefaultMask = "<encrypted>"

// Options selects the key set used by a FieldCryptor.
//
// Restricted marks a deployment that structurally cannot decrypt values encrypted in
// restricted mode: decrypting them returns the stored value unchanged.
type Options struct {
	Algorithm  cryptoDomain.Algorithm
	Mode       cryptoDomain.Mode
	Restricted bool
}

// Validate checks the (algorithm, mode) pair.
func (o Options) Validate() error {
	return cryptoDomain.ValidateAlgorithmMode(o.Algorithm, o.Mode)
}

// FieldCryptor is the contract consumed by field adapters. The empty string is the null
// value: every operation passes it through unchanged.
type FieldCryptor interface {
	// Encrypt returns the full envelope for value. An already encrypted value is returned
	// unchanged.
	Encrypt(ctx context.Context, value string) (string, error)

	// Decrypt returns the plaintext of a stored envelope, resolving hash-only envelopes
	// through the lookup store. Values that are not envelopes are returned unchanged.
	Decrypt(ctx context.Context, value string) (string, error)

	// DecryptSecret decrypts a bare secret introduced by SecretPrefix. No lookup happens.
	DecryptSecret(ctx context.Context, value string) (string, error)

	// GetHash extracts the digest of an envelope or computes it for a plaintext.
	GetHash(ctx context.Context, value string) (string, error)

	// GetHashWithPrefix returns the hash-only envelope for value.
	GetHashWithPrefix(ctx context.Context, value string) (string, error)

	// GetPrepValue returns the hash-only envelope meant for the primary record. When
	// encrypted differs from original and updateLookup is set, the secret of encrypted is
	// published to the lookup store first.
	GetPrepValue(ctx context.Context, encrypted, original string, updateLookup bool) (string, error)

	// UpdateSecretInLookup publishes the (digest, secret) pair carried by a full envelope.
	UpdateSecretInLookup(ctx context.Context, hashSecret string) error

	// GetSecretFromHashSecret returns the secret segment of value, or resolves it by digest
	// when value is a hash-only envelope.
	GetSecretFromHashSecret(ctx context.Context, value, digest string) (string, error)

	// IsEncrypted reports whether value starts with prefix. An empty prefix means HashPrefix.
	IsEncrypted(value, prefix string) bool

	// Mask returns mask (DefaultMask when empty) for encrypted values and value otherwise.
	Mask(value, mask string) string

	// Options returns the key set selection of this cryptor.
	Options() Options
}
