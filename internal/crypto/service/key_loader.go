package service

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"io/fs"
	"os"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
)

// FileKeyLoader reads the fixed key set from a key directory.
//
// Private key PEMs pass through the Sealer before decoding. Each mode group must be complete
// or absent; a restricted deployment must not hold the restricted private key.
type FileKeyLoader struct {
	keyPath    string
	sealer     Sealer
	restricted bool
}

// NewFileKeyLoader creates a loader for keyPath.
func NewFileKeyLoader(keyPath string, sealer Sealer, restricted bool) *FileKeyLoader {
	if sealer == nil {
		sealer = NewNoopSealer()
	}
	return &FileKeyLoader{keyPath: keyPath, sealer: sealer, restricted: restricted}
}

// KeyPath returns the directory this loader reads from.
func (l *FileKeyLoader) KeyPath() string {
	return l.keyPath
}

// Load decodes the key set.
func (l *FileKeyLoader) Load(ctx context.Context) (*cryptoDomain.KeyMaterial, error) {
	present, err := l.presentFiles()
	if err != nil {
		return nil, err
	}

	if err := l.checkGroups(present); err != nil {
		return nil, err
	}

	material := &cryptoDomain.KeyMaterial{}

	if present[cryptoDomain.RestrictedPublicKeyFile] {
		if material.RestrictedPublic, err = l.readPublic(cryptoDomain.RestrictedPublicKeyFile); err != nil {
			return nil, err
		}
	}
	if present[cryptoDomain.RestrictedPrivateKeyFile] {
		if material.RestrictedPrivate, err = l.readPrivate(ctx, cryptoDomain.RestrictedPrivateKeyFile); err != nil {
			return nil, err
		}
	}
	if present[cryptoDomain.LocalPublicKeyFile] {
		if material.LocalPublic, err = l.readPublic(cryptoDomain.LocalPublicKeyFile); err != nil {
			return nil, err
		}
		if material.LocalPrivate, err = l.readPrivate(ctx, cryptoDomain.LocalPrivateKeyFile); err != nil {
			return nil, err
		}
		if material.EncryptedAESKey, err = l.read(cryptoDomain.AESKeyFile); err != nil {
			return nil, err
		}
		if material.EncryptedIVSeed, err = l.read(cryptoDomain.AESIVSeedFile); err != nil {
			return nil, err
		}
		if material.EncryptedSalt, err = l.read(cryptoDomain.SaltFile); err != nil {
			return nil, err
		}
	}

	return material, nil
}

func (l *FileKeyLoader) presentFiles() (map[cryptoDomain.KeyFile]bool, error) {
	present := make(map[cryptoDomain.KeyFile]bool)
	for _, f := range cryptoDomain.KeyFiles() {
		_, err := os.Stat(f.Path(l.keyPath))
		switch {
		case err == nil:
			present[f] = true
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to stat key file %s: %w", f.Path(l.keyPath), err)
		}
	}
	return present, nil
}

func (l *FileKeyLoader) checkGroups(present map[cryptoDomain.KeyFile]bool) error {
	if err := checkGroup(l.keyPath, cryptoDomain.LocalGroup(), present); err != nil {
		return err
	}

	if l.restricted {
		if present[cryptoDomain.RestrictedPrivateKeyFile] {
			return &cryptoDomain.KeyFileError{
				Path: cryptoDomain.RestrictedPrivateKeyFile.Path(l.keyPath),
				Err:  cryptoDomain.ErrRestrictedKeyPresent,
			}
		}
		return nil
	}

	return checkGroup(l.keyPath, cryptoDomain.RestrictedGroup(), present)
}

// checkGroup returns ErrPartialKeySet naming the first missing file of a partially present group.
func checkGroup(keyPath string, group []cryptoDomain.KeyFile, present map[cryptoDomain.KeyFile]bool) error {
	count := 0
	for _, f := range group {
		if present[f] {
			count++
		}
	}
	if count == 0 || count == len(group) {
		return nil
	}
	for _, f := range group {
		if !present[f] {
			return &cryptoDomain.KeyFileError{Path: f.Path(keyPath), Err: cryptoDomain.ErrPartialKeySet}
		}
	}
	return nil
}

func (l *FileKeyLoader) read(f cryptoDomain.KeyFile) ([]byte, error) {
	data, err := os.ReadFile(f.Path(l.keyPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %s: %w", f.Path(l.keyPath), err)
	}
	return data, nil
}

func (l *FileKeyLoader) readPublic(f cryptoDomain.KeyFile) (*rsa.PublicKey, error) {
	data, err := l.read(f)
	if err != nil {
		return nil, err
	}
	key, err := decodePublicKeyPEM(data)
	if err != nil {
		return nil, &cryptoDomain.KeyFileError{Path: f.Path(l.keyPath), Err: err}
	}
	return key, nil
}

func (l *FileKeyLoader) readPrivate(ctx context.Context, f cryptoDomain.KeyFile) (*rsa.PrivateKey, error) {
	data, err := l.read(f)
	if err != nil {
		return nil, err
	}
	data, err = l.sealer.Unseal(ctx, data)
	if err != nil {
		return nil, &cryptoDomain.KeyFileError{Path: f.Path(l.keyPath), Err: err}
	}
	defer cryptoDomain.Zero(data)

	key, err := decodePrivateKeyPEM(data)
	if err != nil {
		return nil, &cryptoDomain.KeyFileError{Path: f.Path(l.keyPath), Err: err}
	}
	return key, nil
}
