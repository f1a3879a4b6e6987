// Package domain defines the core models of searchable field encryption.
//
// It covers the envelope vocabulary (prefix tokens, digest lengths, the envelope value
// itself), the algorithm/mode pairs, the fixed set of key files kept under one key
// directory, and the errors shared by the cipher, lookup and rotation components.
package domain

import (
	"crypto/rsa"
	"path/filepath"
)

// KeyFile names one member of the fixed key set.
type KeyFile string

const (
	RestrictedPublicKeyFile  KeyFile = "rsa-restricted-public.pem"
	RestrictedPrivateKeyFile KeyFile = "rsa-restricted-private.pem"
	LocalPublicKeyFile       KeyFile = "rsa-local-public.pem"
	LocalPrivateKeyFile      KeyFile = "rsa-local-private.pem"
	AESKeyFile               KeyFile = "aes-local.key"
	AESIVSeedFile            KeyFile = "aes-local-iv.key"
	SaltFile                 KeyFile = "salt-local.key"
)

// KeyFiles returns every file of the key set in generation order.
func KeyFiles() []KeyFile {
	return []KeyFile{
		RestrictedPublicKeyFile,
		RestrictedPrivateKeyFile,
		LocalPublicKeyFile,
		LocalPrivateKeyFile,
		AESKeyFile,
		AESIVSeedFile,
		SaltFile,
	}
}

// LocalGroup is the set of files that must be all present or all absent for local mode.
func LocalGroup() []KeyFile {
	return []KeyFile{LocalPublicKeyFile, LocalPrivateKeyFile, AESKeyFile, AESIVSeedFile, SaltFile}
}

// RestrictedGroup is the set of files that must be all present or all absent for restricted mode
// on a non-restricted deployment.
func RestrictedGroup() []KeyFile {
	return []KeyFile{RestrictedPublicKeyFile, RestrictedPrivateKeyFile}
}

// KeyPaths returns the absolute-or-relative paths of every key file under keyPath.
func KeyPaths(keyPath string) []string {
	files := KeyFiles()
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path(keyPath))
	}
	return paths
}

// Path joins the file name with keyPath.
func (f KeyFile) Path(keyPath string) string {
	return filepath.Join(keyPath, string(f))
}

// KeyMaterial is the decoded key set of one installation.
//
// Any field may be nil: a restricted deployment has no RestrictedPrivate, and an
// installation that has not generated keys yet has nothing at all.
type KeyMaterial struct {
	RestrictedPublic  *rsa.PublicKey
	RestrictedPrivate *rsa.PrivateKey
	LocalPublic       *rsa.PublicKey
	LocalPrivate      *rsa.PrivateKey

	// Encrypted blobs as stored on disk (RSA-encrypted with LocalPublic).
	EncryptedAESKey []byte
	EncryptedIVSeed []byte
	EncryptedSalt   []byte
}

// PublicKey returns the public key for mode.
func (k *KeyMaterial) PublicKey(mode Mode) *rsa.PublicKey {
	if k == nil {
		return nil
	}
	if mode == ModeRestricted {
		return k.RestrictedPublic
	}
	return k.LocalPublic
}

// PrivateKey returns the private key for mode.
func (k *KeyMaterial) PrivateKey(mode Mode) *rsa.PrivateKey {
	if k == nil {
		return nil
	}
	if mode == ModeRestricted {
		return k.RestrictedPrivate
	}
	return k.LocalPrivate
}

// RotationResult reports what a key rotation did.
type RotationResult struct {
	BackupPath string
	Moved      []string
	Created    []string
}

// Zero overwrites unwrapped key bytes once they are no longer needed.
func Zero(b []byte) {
	clear(b)
}
