package domain

import (
	"github.com/allisson/cryptfields/internal/errors"
)

var (
	// ErrCryptNotFound indicates no lookup record exists for the key.
	ErrCryptNotFound = errors.Wrap(errors.ErrNotFound, "crypt not found")

	// ErrInvalidHash indicates the digest is empty or exceeds the column limit.
	ErrInvalidHash = errors.Wrap(errors.ErrInvalidInput, "invalid hash")

	// ErrEmptySecret indicates a record without a secret was submitted for storage.
	ErrEmptySecret = errors.Wrap(errors.ErrInvalidInput, "secret must not be empty")

	// ErrInvalidSalt indicates the salt exceeds the column limit.
	ErrInvalidSalt = errors.Wrap(errors.ErrInvalidInput, "invalid salt")
)
