// Package service provides the cryptographic primitives behind searchable field encryption:
// the AES-GCM and RSA-OAEP ciphers, the keyed digest, the key-file loader and generator,
// and the Cryptor that owns the loaded key material of one installation.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// Sealer protects key files at rest. The no-op sealer returns its input unchanged.
type Sealer interface {
	Seal(ctx context.Context, plaintext []byte) ([]byte, error)
	Unseal(ctx context.Context, sealed []byte) ([]byte, error)
	Close() error
}

// KeyLoader reads the key set of an installation.
type KeyLoader interface {
	// Load decodes every key file present under the key path.
	// A key path with no files at all yields empty material, not an error.
	Load(ctx context.Context) (*cryptoDomain.KeyMaterial, error)
}

// KeyGenerator writes a fresh key set.
type KeyGenerator interface {
	// Generate creates every file of the key set under keyPath and returns the paths written.
	Generate(ctx context.Context, keyPath string) ([]string, error)
}

// Hasher produces the deterministic keyed digest used for lookups.
type Hasher interface {
	// Hash returns the hex digest of value for the (algorithm, mode) pair, keyed by salt.
	Hash(value string, alg cryptoDomain.Algorithm, mode cryptoDomain.Mode, salt []byte) (string, error)

	// Length returns the hex digest length for the (algorithm, mode) pair.
	Length(alg cryptoDomain.Algorithm, mode cryptoDomain.Mode) (int, error)
}

// Cryptor owns the loaded key material and performs raw cipher operations.
type Cryptor interface {
	// EncryptSymmetric encrypts plaintext with AES-GCM under a fresh random IV.
	EncryptSymmetric(ctx context.Context, plaintext []byte) (iv, ciphertext []byte, err error)

	// DecryptSymmetric reverses EncryptSymmetric.
	DecryptSymmetric(ctx context.Context, iv, ciphertext []byte) ([]byte, error)

	// EncryptAsymmetric encrypts plaintext with the public key of mode.
	EncryptAsymmetric(ctx context.Context, mode cryptoDomain.Mode, plaintext []byte) ([]byte, error)

	// DecryptAsymmetric decrypts ciphertext with the private key of mode.
	DecryptAsymmetric(ctx context.Context, mode cryptoDomain.Mode, ciphertext []byte) ([]byte, error)

	// Salt returns the decrypted installation hashing salt.
	Salt(ctx context.Context) ([]byte, error)

	// DecryptSalt decrypts an encrypted salt blob with the local private key.
	DecryptSalt(ctx context.Context, encryptedSalt []byte) ([]byte, error)

	// Restricted reports whether the deployment is flagged as unable to decrypt restricted values.
	Restricted() bool

	// Reset drops every loaded key so the next operation reloads from disk.
	Reset(ctx context.Context) error
}
