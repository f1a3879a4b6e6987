package usecase

import (
	"context"
	"encoding/base64"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
	cryptoService "github.com/allisson/cryptfields/internal/crypto/service"
	lookupDomain "github.com/allisson/cryptfields/internal/lookup/domain"
	lookupUsecase "github.com/allisson/cryptfields/internal/lookup/usecase"
)

// fieldCryptor implements FieldCryptor for one (algorithm, mode) pair.
type fieldCryptor struct {
	opts         Options
	cryptor      cryptoService.Cryptor
	hasher       cryptoService.Hasher
	store        lookupUsecase.SecretStore
	digestLength int
}

// Encrypt implements FieldCryptor.
func (f *fieldCryptor) Encrypt(ctx context.Context, value string) (string, error) {
	if value == "" || f.IsEncrypted(value, "") {
		return value, nil
	}

	var encoded string
	switch f.opts.Algorithm {
	case cryptoDomain.AES:
		iv, ciphertext, err := f.cryptor.EncryptSymmetric(ctx, []byte(value))
		if err != nil {
			return "", err
		}
		encoded = cryptoDomain.JoinSymmetricSecret(
			base64.StdEncoding.EncodeToString(iv),
			base64.StdEncoding.EncodeToString(ciphertext),
		)
	case cryptoDomain.RSA:
		if len(value)*cryptoDomain.RSALengthFactor >= cryptoDomain.RSAKeyLength {
			return "", &cryptoDomain.PlaintextTooLongError{
				Limit:  cryptoDomain.MaxRSAPlaintextLength(),
				Length: len(value),
			}
		}
		ciphertext, err := f.cryptor.EncryptAsymmetric(ctx, f.opts.Mode, []byte(value))
		if err != nil {
			return "", err
		}
		encoded = base64.StdEncoding.EncodeToString(ciphertext)
	default:
		return "", f.opts.Validate()
	}

	digest, err := f.hash(ctx, value)
	if err != nil {
		return "", err
	}

	return cryptoDomain.Envelope{Digest: digest, Secret: encoded}.String(), nil
}

// Decrypt implements FieldCryptor.
func (f *fieldCryptor) Decrypt(ctx context.Context, value string) (string, error) {
	if !f.IsEncrypted(value, cryptoDomain.HashPrefix) {
		return value, nil
	}
	if f.passThrough() {
		return value, nil
	}

	digest, err := f.GetHash(ctx, value)
	if err != nil {
		return "", err
	}
	secret, err := f.GetSecretFromHashSecret(ctx, value, digest)
	if err != nil {
		return "", err
	}

	return f.decryptSecret(ctx, secret)
}

// DecryptSecret implements FieldCryptor.
func (f *fieldCryptor) DecryptSecret(ctx context.Context, value string) (string, error) {
	if !f.IsEncrypted(value, cryptoDomain.SecretPrefix) {
		return value, nil
	}
	if f.passThrough() {
		return value, nil
	}

	return f.decryptSecret(ctx, value[len(cryptoDomain.SecretPrefix):])
}

// GetHash implements FieldCryptor.
func (f *fieldCryptor) GetHash(ctx context.Context, value string) (string, error) {
	if f.IsEncrypted(value, "") {
		env, err := cryptoDomain.ParseEnvelope(value, f.digestLength)
		if err != nil {
			return "", err
		}
		return env.Digest, nil
	}
	return f.hash(ctx, value)
}

// GetHashWithPrefix implements FieldCryptor.
func (f *fieldCryptor) GetHashWithPrefix(ctx context.Context, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	digest, err := f.GetHash(ctx, value)
	if err != nil {
		return "", err
	}
	return cryptoDomain.Envelope{Digest: digest}.HashOnly(), nil
}

// GetPrepValue implements FieldCryptor.
func (f *fieldCryptor) GetPrepValue(
	ctx context.Context,
	encrypted, original string,
	updateLookup bool,
) (string, error) {
	if encrypted == "" {
		return "", nil
	}
	if encrypted != original && updateLookup {
		if err := f.UpdateSecretInLookup(ctx, encrypted); err != nil {
			return "", err
		}
	}
	return f.GetHashWithPrefix(ctx, encrypted)
}

// UpdateSecretInLookup implements FieldCryptor.
func (f *fieldCryptor) UpdateSecretInLookup(ctx context.Context, hashSecret string) error {
	if hashSecret == "" {
		return nil
	}
	env, err := cryptoDomain.ParseEnvelope(hashSecret, f.digestLength)
	if err != nil {
		return err
	}
	return f.store.Put(ctx, f.key(env.Digest), env.Secret, nil)
}

// GetSecretFromHashSecret implements FieldCryptor.
func (f *fieldCryptor) GetSecretFromHashSecret(ctx context.Context, value, digest string) (string, error) {
	if value == "" {
		return "", nil
	}
	if !f.IsEncrypted(value, "") {
		return "", cryptoDomain.ErrInvalidEnvelope
	}

	env, err := cryptoDomain.ParseEnvelope(value, len(digest))
	if err != nil {
		return "", err
	}
	if !env.IsHashOnly() {
		return env.Secret, nil
	}

	secret, found, err := f.store.Get(ctx, f.key(digest))
	if err != nil {
		return "", err
	}
	if !found || secret == "" {
		return "", &cryptoDomain.SecretNotFoundError{Hash: digest}
	}
	return secret, nil
}

// IsEncrypted implements FieldCryptor.
func (f *fieldCryptor) IsEncrypted(value, prefix string) bool {
	return cryptoDomain.IsEncrypted(value, prefix)
}

// Mask implements FieldCryptor.
func (f *fieldCryptor) Mask(value, mask string) string {
	if mask == "" {
		mask = DefaultMask
	}
	if f.IsEncrypted(value, "") {
		return mask
	}
	return value
}

// Options implements FieldCryptor.
func (f *fieldCryptor) Options() Options {
	return f.opts
}

// passThrough reports whether this deployment must leave values of this cryptor encrypted.
func (f *fieldCryptor) passThrough() bool {
	return f.opts.Restricted && f.opts.Mode == cryptoDomain.ModeRestricted
}

func (f *fieldCryptor) hash(ctx context.Context, value string) (string, error) {
	salt, err := f.cryptor.Salt(ctx)
	if err != nil {
		return "", err
	}
	return f.hasher.Hash(value, f.opts.Algorithm, f.opts.Mode, salt)
}

func (f *fieldCryptor) decryptSecret(ctx context.Context, secret string) (string, error) {
	switch f.opts.Algorithm {
	case cryptoDomain.AES:
		encodedIV, encodedCiphertext, err := cryptoDomain.SplitSymmetricSecret(secret)
		if err != nil {
			return "", err
		}
		iv, err := base64.StdEncoding.DecodeString(encodedIV)
		if err != nil {
			return "", cryptoDomain.ErrInvalidEnvelope
		}
		ciphertext, err := base64.StdEncoding.DecodeString(encodedCiphertext)
		if err != nil {
			return "", cryptoDomain.ErrInvalidEnvelope
		}
		plaintext, err := f.cryptor.DecryptSymmetric(ctx, iv, ciphertext)
		if err != nil {
			return "", err
		}
		return string(plaintext), nil
	case cryptoDomain.RSA:
		ciphertext, err := base64.StdEncoding.DecodeString(secret)
		if err != nil {
			return "", cryptoDomain.ErrInvalidEnvelope
		}
		plaintext, err := f.cryptor.DecryptAsymmetric(ctx, f.opts.Mode, ciphertext)
		if err != nil {
			return "", err
		}
		return string(plaintext), nil
	default:
		return "", f.opts.Validate()
	}
}

func (f *fieldCryptor) key(digest string) lookupDomain.Key {
	return lookupDomain.Key{Algorithm: f.opts.Algorithm, Mode: f.opts.Mode, Hash: digest}
}

// NewFieldCryptor creates a FieldCryptor for opts. An unsupported (algorithm, mode) pair
// is rejected here rather than on first use.
func NewFieldCryptor(
	opts Options,
	cryptor cryptoService.Cryptor,
	hasher cryptoService.Hasher,
	store lookupUsecase.SecretStore,
) (FieldCryptor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	digestLength, err := hasher.Length(opts.Algorithm, opts.Mode)
	if err != nil {
		return nil, err
	}

	return &fieldCryptor{
		opts:         opts,
		cryptor:      cryptor,
		hasher:       hasher,
		store:        store,
		digestLength: digestLength,
	}, nil
}
