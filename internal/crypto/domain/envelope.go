package domain

import "strings"

// Envelope is the parsed form of an encrypted field value.
//
// Secret is empty for a hash-only envelope, which means the secret must be resolved
// from the lookup store by Digest.
type Envelope struct {
	Digest string
	Secret string
}

// String composes the wire form of the envelope.
func (e Envelope) String() string {
	if e.Secret == "" {
		return e.HashOnly()
	}
	return HashPrefix + e.Digest + SecretPrefix + e.Secret
}

// HashOnly composes the value meant for the primary record.
func (e Envelope) HashOnly() string {
	return HashPrefix + e.Digest
}

// IsHashOnly reports whether the envelope has no secret segment.
func (e Envelope) IsHashOnly() bool {
	return e.Secret == ""
}

// ParseEnvelope splits value into digest and secret using the digest length known for the
// (algorithm, mode) of the caller.
//
// The secret segment, when present, must be introduced by SecretPrefix.
func ParseEnvelope(value string, digestLength int) (Envelope, error) {
	if !strings.HasPrefix(value, HashPrefix) {
		return Envelope{}, ErrInvalidEnvelope
	}

	rest := value[len(HashPrefix):]
	if len(rest) < digestLength {
		return Envelope{}, ErrInvalidEnvelope
	}

	env := Envelope{Digest: rest[:digestLength]}
	rest = rest[digestLength:]
	if rest == "" {
		return env, nil
	}

	if !strings.HasPrefix(rest, SecretPrefix) {
		return Envelope{}, ErrInvalidEnvelope
	}
	env.Secret = rest[len(SecretPrefix):]
	return env, nil
}

// SplitSymmetricSecret splits an encoded symmetric secret into its iv and ciphertext parts.
func SplitSymmetricSecret(secret string) (iv, ciphertext string, err error) {
	iv, ciphertext, found := strings.Cut(secret, IVPrefix)
	if !found || iv == "" || ciphertext == "" {
		return "", "", ErrInvalidEnvelope
	}
	return iv, ciphertext, nil
}

// JoinSymmetricSecret joins encoded iv and ciphertext with IVPrefix.
func JoinSymmetricSecret(iv, ciphertext string) string {
	return iv + IVPrefix + ciphertext
}
