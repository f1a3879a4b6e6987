// Package codec adapts typed field values to the field cryptor.
//
// A codec serializes a Go value to text, encrypts it, publishes the secret and returns the
// hash-only envelope to store in the primary record. Decode reverses the process. nil is the
// null value and passes through both directions.
package codec

import (
	"context"
	"fmt"

	apperrors "github.com/allisson/cryptfields/internal/errors"
	fieldUsecase "github.com/allisson/cryptfields/internal/field/usecase"
)

// ErrInvalidValueType indicates a value of the wrong Go type was handed to a codec.
var ErrInvalidValueType = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid value type")

// InvalidValueTypeError names the expected and the received type.
type InvalidValueTypeError struct {
	Expected string
	Got      any
}

func (e *InvalidValueTypeError) Error() string {
	return fmt.Sprintf("expected %s, got %T; convert the value before encrypting it", e.Expected, e.Got)
}

func (e *InvalidValueTypeError) Unwrap() error {
	return ErrInvalidValueType
}

// Codec converts between typed values and stored envelopes.
type Codec interface {
	// Encode returns the hash-only envelope for value, publishing its secret on the way.
	Encode(ctx context.Context, value any) (string, error)

	// Decode returns the typed value of a stored envelope. On a deployment that cannot
	// decrypt the value, the stored string is returned unchanged.
	Decode(ctx context.Context, stored string) (any, error)
}

// textFormat converts one Go type to and from its plaintext form.
type textFormat interface {
	name() string
	format(value any) (string, bool, error)
	parse(text string) (any, error)
}

// fieldCodec implements Codec on a FieldCryptor and a textFormat.
type fieldCodec struct {
	cryptor fieldUsecase.FieldCryptor
	text    textFormat
}

func (c *fieldCodec) Encode(ctx context.Context, value any) (string, error) {
	plaintext, ok, err := c.text.format(value)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	encrypted, err := c.cryptor.Encrypt(ctx, plaintext)
	if err != nil {
		return "", err
	}
	return c.cryptor.GetPrepValue(ctx, encrypted, plaintext, true)
}

func (c *fieldCodec) Decode(ctx context.Context, stored string) (any, error) {
	if stored == "" {
		return nil, nil
	}

	plaintext, err := c.cryptor.Decrypt(ctx, stored)
	if err != nil {
		return nil, err
	}
	if c.cryptor.IsEncrypted(plaintext, "") {
		return stored, nil
	}

	value, err := c.text.parse(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to parse decrypted %s: %w", c.text.name(), err)
	}
	return value, nil
}
