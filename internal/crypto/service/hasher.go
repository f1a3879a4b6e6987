package service

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
)

// Blake2bHasher computes keyed BLAKE2b digests over "algorithm:mode:value".
//
// The digest size depends on the pair (16 bytes for aes/local, 32 for both rsa modes), so
// digests are never comparable across pairs even for the same value.
type Blake2bHasher struct{}

// NewBlake2bHasher creates a new hasher.
func NewBlake2bHasher() *Blake2bHasher {
	return &Blake2bHasher{}
}

// Hash returns the lowercase hex digest of value.
func (h *Blake2bHasher) Hash(
	value string,
	alg cryptoDomain.Algorithm,
	mode cryptoDomain.Mode,
	salt []byte,
) (string, error) {
	size, err := cryptoDomain.DigestSize(alg, mode)
	if err != nil {
		return "", err
	}
	if len(salt) == 0 {
		return "", cryptoDomain.ErrKeyNotLoaded
	}

	digest, err := blake2b.New(size, salt)
	if err != nil {
		return "", fmt.Errorf("failed to create digest: %w", err)
	}
	_, _ = digest.Write([]byte(string(alg) + ":" + string(mode) + ":" + value))

	return hex.EncodeToString(digest.Sum(nil)), nil
}

// Length returns the hex digest length for the pair.
func (h *Blake2bHasher) Length(alg cryptoDomain.Algorithm, mode cryptoDomain.Mode) (int, error) {
	return cryptoDomain.DigestLength(alg, mode)
}
