package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"os"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
)

// FileKeyGenerator writes a complete key set into a key directory.
//
// Files are created with O_EXCL so an existing key is never overwritten; the rotation
// workflow is responsible for moving old keys out of the way first.
type FileKeyGenerator struct {
	sealer Sealer
	bits   int
}

// NewFileKeyGenerator creates a generator that seals private keys with sealer.
func NewFileKeyGenerator(sealer Sealer) *FileKeyGenerator {
	if sealer == nil {
		sealer = NewNoopSealer()
	}
	return &FileKeyGenerator{sealer: sealer, bits: cryptoDomain.RSAKeyLength}
}

// Generate creates the restricted and local RSA key pairs, then the AES key, IV seed and
// salt wrapped with the local public key. It returns the written paths in key set order.
func (g *FileKeyGenerator) Generate(ctx context.Context, keyPath string) ([]string, error) {
	if err := os.MkdirAll(keyPath, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create key path %s: %w", keyPath, err)
	}

	restricted, err := rsa.GenerateKey(rand.Reader, g.bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate restricted key pair: %w", err)
	}
	local, err := rsa.GenerateKey(rand.Reader, g.bits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate local key pair: %w", err)
	}

	files := make(map[cryptoDomain.KeyFile][]byte, len(cryptoDomain.KeyFiles()))

	if files[cryptoDomain.RestrictedPublicKeyFile], err = encodePublicKeyPEM(&restricted.PublicKey); err != nil {
		return nil, err
	}
	if files[cryptoDomain.RestrictedPrivateKeyFile], err = g.sealer.Seal(ctx, encodePrivateKeyPEM(restricted)); err != nil {
		return nil, err
	}
	if files[cryptoDomain.LocalPublicKeyFile], err = encodePublicKeyPEM(&local.PublicKey); err != nil {
		return nil, err
	}
	if files[cryptoDomain.LocalPrivateKeyFile], err = g.sealer.Seal(ctx, encodePrivateKeyPEM(local)); err != nil {
		return nil, err
	}

	blobs := map[cryptoDomain.KeyFile]int{
		cryptoDomain.AESKeyFile:    cryptoDomain.AESKeySize,
		cryptoDomain.AESIVSeedFile: cryptoDomain.IVSeedSize,
		cryptoDomain.SaltFile:      cryptoDomain.SaltSize,
	}
	for f, size := range blobs {
		raw := make([]byte, size)
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("failed to generate %s: %w", f, err)
		}
		wrapped, err := rsaEncryptKeyBlob(&local.PublicKey, raw)
		cryptoDomain.Zero(raw)
		if err != nil {
			return nil, err
		}
		files[f] = wrapped
	}

	written := make([]string, 0, len(files))
	for _, f := range cryptoDomain.KeyFiles() {
		path := f.Path(keyPath)
		if err := writeKeyFile(path, files[f]); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeKeyFile(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create key file %s: %w", path, err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write key file %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close key file %s: %w", path, err)
	}
	return nil
}
