package domain

import (
	"sort"
	"strings"
)

// Algorithm identifies the cipher family used to produce the secret segment of an envelope.
type Algorithm string

// Mode selects which key set of an algorithm is used.
//
// The "local" mode keys are present on every installation. The "restricted" mode exists only
// for the asymmetric algorithm: its private key is intentionally missing on deployments that
// must be able to encrypt but never decrypt.
type Mode string

const (
	// AES is the symmetric algorithm (AES-256-GCM with a random IV per value).
	AES Algorithm = "aes"

	// RSA is the asymmetric algorithm (RSA-2048 OAEP with SHA-256).
	RSA Algorithm = "rsa"
)

const (
	// ModeLocal uses the key set that is distributed to every installation.
	ModeLocal Mode = "local"

	// ModeRestricted uses the RSA key pair whose private half is withheld from restricted deployments.
	ModeRestricted Mode = "restricted"
)

// Envelope vocabulary shared by every component.
//
// A full envelope is HashPrefix + digest + SecretPrefix + encoded secret. A hash-only envelope
// is HashPrefix + digest. Symmetric secrets are base64(iv) + IVPrefix + base64(ciphertext).
const (
	HashPrefix   = "enc1:::"
	SecretPrefix = "enc2:::"
	IVPrefix     = "iv:::"
)

const (
	// RSAKeyLength is the modulus size in bits of generated RSA keys.
	RSAKeyLength = 2048

	// RSALengthFactor mirrors the conservative plaintext guard: a value is rejected when
	// len(value) * RSALengthFactor >= RSAKeyLength.
	RSALengthFactor = 24

	// AESKeySize is the AES-256 key size in bytes.
	AESKeySize = 32

	// IVSeedSize is the size in bytes of the installation IV seed bound as GCM additional data.
	IVSeedSize = 16

	// SaltSize is the size in bytes of the installation hashing salt.
	SaltSize = 32
)

// validModes lists the modes each algorithm accepts along with the raw digest size in bytes.
var validModes = map[Algorithm]map[Mode]int{
	AES: {ModeLocal: 16},
	RSA: {ModeLocal: 32, ModeRestricted: 32},
}

// ValidAlgorithms returns the supported algorithms in lexical order.
func ValidAlgorithms() []string {
	names := make([]string, 0, len(validModes))
	for alg := range validModes {
		names = append(names, string(alg))
	}
	sort.Strings(names)
	return names
}

// ValidateAlgorithmMode checks that the (algorithm, mode) pair is supported.
func ValidateAlgorithmMode(alg Algorithm, mode Mode) error {
	modes, ok := validModes[alg]
	if !ok {
		return &UnsupportedAlgorithmError{Algorithm: string(alg), Valid: ValidAlgorithms()}
	}
	if _, ok := modes[mode]; !ok {
		return &UnsupportedModeError{Algorithm: string(alg), Mode: string(mode)}
	}
	return nil
}

// DigestSize returns the raw digest size in bytes for an (algorithm, mode) pair.
func DigestSize(alg Algorithm, mode Mode) (int, error) {
	if err := ValidateAlgorithmMode(alg, mode); err != nil {
		return 0, err
	}
	return validModes[alg][mode], nil
}

// DigestLength returns the hex-encoded digest length for an (algorithm, mode) pair.
func DigestLength(alg Algorithm, mode Mode) (int, error) {
	size, err := DigestSize(alg, mode)
	if err != nil {
		return 0, err
	}
	return size * 2, nil
}

// MaxRSAPlaintextLength is the smallest plaintext length rejected by the RSA guard.
func MaxRSAPlaintextLength() int {
	return RSAKeyLength / RSALengthFactor
}

// IsEncrypted reports whether value starts with prefix. An empty prefix defaults to HashPrefix.
func IsEncrypted(value, prefix string) bool {
	if prefix == "" {
		prefix = HashPrefix
	}
	return value != "" && strings.HasPrefix(value, prefix)
}
