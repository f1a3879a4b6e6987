package service

import (
	"context"
	"sync"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
)

// KeyRing implements Cryptor over the key set returned by a KeyLoader.
//
// Key material is loaded on first use and held until Reset. The AES key and IV seed are
// unwrapped with the local private key at load time; the hashing salt is unwrapped on the
// first call to Salt. Safe for concurrent use.
type KeyRing struct {
	loader     KeyLoader
	restricted bool

	mu       sync.RWMutex
	loaded   bool
	material *cryptoDomain.KeyMaterial
	aead     AEAD
	ivSeed   []byte
	salt     []byte
}

// NewKeyRing creates a KeyRing. restricted marks a deployment that must never decrypt
// values encrypted in restricted mode.
func NewKeyRing(loader KeyLoader, restricted bool) *KeyRing {
	return &KeyRing{loader: loader, restricted: restricted}
}

// Restricted reports the deployment flag passed at construction.
func (k *KeyRing) Restricted() bool {
	return k.restricted
}

// IsEncrypted reports whether value carries prefix. An empty prefix means HashPrefix.
func (k *KeyRing) IsEncrypted(value, prefix string) bool {
	return cryptoDomain.IsEncrypted(value, prefix)
}

// EncryptSymmetric encrypts plaintext with AES-256-GCM. The IV seed is bound as additional data.
func (k *KeyRing) EncryptSymmetric(ctx context.Context, plaintext []byte) (iv, ciphertext []byte, err error) {
	aead, seed, err := k.symmetric(ctx)
	if err != nil {
		return nil, nil, err
	}
	ciphertext, iv, err = aead.Encrypt(plaintext, seed)
	if err != nil {
		return nil, nil, err
	}
	return iv, ciphertext, nil
}

// DecryptSymmetric decrypts an AES-256-GCM ciphertext produced by EncryptSymmetric.
func (k *KeyRing) DecryptSymmetric(ctx context.Context, iv, ciphertext []byte) ([]byte, error) {
	aead, seed, err := k.symmetric(ctx)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Decrypt(ciphertext, iv, seed)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// EncryptAsymmetric encrypts plaintext with the public key of mode.
func (k *KeyRing) EncryptAsymmetric(
	ctx context.Context,
	mode cryptoDomain.Mode,
	plaintext []byte,
) ([]byte, error) {
	material, err := k.load(ctx)
	if err != nil {
		return nil, err
	}
	return RSAEncrypt(material.PublicKey(mode), plaintext)
}

// DecryptAsymmetric decrypts ciphertext with the private key of mode.
//
// A missing private key is ErrKeyNotLoaded regardless of the restricted flag; callers
// decide whether that is a pass-through or a failure.
func (k *KeyRing) DecryptAsymmetric(
	ctx context.Context,
	mode cryptoDomain.Mode,
	ciphertext []byte,
) ([]byte, error) {
	material, err := k.load(ctx)
	if err != nil {
		return nil, err
	}
	return RSADecrypt(material.PrivateKey(mode), ciphertext)
}

// Salt returns the installation hashing salt, unwrapping it once.
func (k *KeyRing) Salt(ctx context.Context) ([]byte, error) {
	material, err := k.load(ctx)
	if err != nil {
		return nil, err
	}

	k.mu.RLock()
	salt := k.salt
	k.mu.RUnlock()
	if salt != nil {
		return salt, nil
	}

	if len(material.EncryptedSalt) == 0 {
		return nil, cryptoDomain.ErrKeyNotLoaded
	}
	salt, err = RSADecrypt(material.LocalPrivate, material.EncryptedSalt)
	if err != nil {
		return nil, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.salt == nil {
		k.salt = salt
	}
	return k.salt, nil
}

// DecryptSalt unwraps an encrypted salt blob with the local private key.
func (k *KeyRing) DecryptSalt(ctx context.Context, encryptedSalt []byte) ([]byte, error) {
	material, err := k.load(ctx)
	if err != nil {
		return nil, err
	}
	return RSADecrypt(material.LocalPrivate, encryptedSalt)
}

// Reset drops the loaded key material. The next operation reloads from the key path.
func (k *KeyRing) Reset(_ context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	cryptoDomain.Zero(k.ivSeed)
	cryptoDomain.Zero(k.salt)
	k.loaded = false
	k.material = nil
	k.aead = nil
	k.ivSeed = nil
	k.salt = nil
	return nil
}

// Invalidate is Reset under the name rotation invalidators are registered with.
func (k *KeyRing) Invalidate(ctx context.Context) error {
	return k.Reset(ctx)
}

func (k *KeyRing) symmetric(ctx context.Context) (AEAD, []byte, error) {
	if _, err := k.load(ctx); err != nil {
		return nil, nil, err
	}

	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.aead == nil {
		return nil, nil, cryptoDomain.ErrKeyNotLoaded
	}
	return k.aead, k.ivSeed, nil
}

func (k *KeyRing) load(ctx context.Context) (*cryptoDomain.KeyMaterial, error) {
	k.mu.RLock()
	if k.loaded {
		material := k.material
		k.mu.RUnlock()
		return material, nil
	}
	k.mu.RUnlock()

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.loaded {
		return k.material, nil
	}

	material, err := k.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	if material.LocalPrivate != nil && len(material.EncryptedAESKey) > 0 {
		key, err := RSADecrypt(material.LocalPrivate, material.EncryptedAESKey)
		if err != nil {
			return nil, err
		}
		aead, err := NewAESGCM(key)
		cryptoDomain.Zero(key)
		if err != nil {
			return nil, err
		}
		seed, err := RSADecrypt(material.LocalPrivate, material.EncryptedIVSeed)
		if err != nil {
			return nil, err
		}
		k.aead = aead
		k.ivSeed = seed
	}

	k.material = material
	k.loaded = true
	return material, nil
}
