package validation

import (
	"encoding/base64"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
)

// Base64 validates that a string is valid base64-encoded data.
var Base64 = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_base64_type", "must be a string")
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	if !isBase64(s) {
		return validation.NewError("validation_base64", "must be valid base64-encoded data")
	}
	return nil
})

// SecretFor validates the encoded secret segment produced by alg.
//
// Symmetric secrets are two base64 parts joined by IVPrefix; asymmetric secrets are plain base64.
func SecretFor(alg cryptoDomain.Algorithm) validation.Rule {
	if alg != cryptoDomain.AES {
		return Base64
	}
	return validation.By(func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return validation.NewError("validation_secret_type", "must be a string")
		}
		if s == "" {
			return nil
		}
		iv, ciphertext, err := cryptoDomain.SplitSymmetricSecret(s)
		if err != nil || !isBase64(iv) || !isBase64(ciphertext) {
			return validation.NewError("validation_symmetric_secret", "must be base64 iv and ciphertext")
		}
		return nil
	})
}

func isBase64(s string) bool {
	_, err := base64.StdEncoding.DecodeString(s)
	return err == nil
}
