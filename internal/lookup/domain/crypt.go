// Package domain defines the lookup record that maps a field digest to its secret.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
)

// Column limits of the crypts table.
const (
	MaxHashLength      = 128
	MaxAlgorithmLength = 25
	MaxModeLength      = 25
	MaxSaltLength      = 50
)

// Crypt is one durable lookup record. (Hash, Algorithm, Mode) is unique.
//
// Secret is the encoded ciphertext exactly as it appears after SecretPrefix in a full
// envelope. Salt is optional metadata carried over from installations that record it.
type Crypt struct {
	ID        uuid.UUID
	Hash      string
	Secret    string
	Algorithm cryptoDomain.Algorithm
	Mode      cryptoDomain.Mode
	Salt      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key identifies a lookup record independently of its secret.
type Key struct {
	Algorithm cryptoDomain.Algorithm
	Mode      cryptoDomain.Mode
	Hash      string
}

// Key returns the unique key of the record.
func (c *Crypt) Key() Key {
	return Key{Algorithm: c.Algorithm, Mode: c.Mode, Hash: c.Hash}
}

// String renders the key as algorithm:mode:hash.
func (k Key) String() string {
	return string(k.Algorithm) + ":" + string(k.Mode) + ":" + k.Hash
}

// Validate checks column limits and the (algorithm, mode) pair.
func (c *Crypt) Validate() error {
	if err := cryptoDomain.ValidateAlgorithmMode(c.Algorithm, c.Mode); err != nil {
		return err
	}
	if c.Hash == "" || len(c.Hash) > MaxHashLength {
		return ErrInvalidHash
	}
	if c.Secret == "" {
		return ErrEmptySecret
	}
	if c.Salt != nil && len(*c.Salt) > MaxSaltLength {
		return ErrInvalidSalt
	}
	return nil
}
