package app

import (
	"fmt"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
	fieldCodec "github.com/allisson/cryptfields/internal/field/codec"
	fieldUsecase "github.com/allisson/cryptfields/internal/field/usecase"
)

// FieldOptions returns the field cryptor options of the configuration.
func (c *Container) FieldOptions() fieldUsecase.Options {
	return fieldUsecase.Options{
		Algorithm:  cryptoDomain.Algorithm(c.config.CryptAlgorithm),
		Mode:       cryptoDomain.Mode(c.config.CryptMode),
		Restricted: c.config.CryptRestricted,
	}
}

// FieldCryptor returns the field cryptor for an (algorithm, mode) pair. The restricted flag
// always comes from the configuration. Cryptors are built once per pair and share the key
// ring and the secret store.
func (c *Container) FieldCryptor(
	alg cryptoDomain.Algorithm,
	mode cryptoDomain.Mode,
) (fieldUsecase.FieldCryptor, error) {
	opts := fieldUsecase.Options{Algorithm: alg, Mode: mode, Restricted: c.config.CryptRestricted}

	c.mu.Lock()
	cached, ok := c.fieldCryptors[opts]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	cryptor, err := c.initFieldCryptor(opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.fieldCryptors[opts]; ok {
		return cached, nil
	}
	c.fieldCryptors[opts] = cryptor
	return cryptor, nil
}

// DefaultFieldCryptor returns the field cryptor for the configured algorithm and mode.
func (c *Container) DefaultFieldCryptor() (fieldUsecase.FieldCryptor, error) {
	opts := c.FieldOptions()
	return c.FieldCryptor(opts.Algorithm, opts.Mode)
}

// TextCodec returns a text codec on the default field cryptor.
func (c *Container) TextCodec() (fieldCodec.Codec, error) {
	cryptor, err := c.DefaultFieldCryptor()
	if err != nil {
		return nil, err
	}
	return fieldCodec.NewTextCodec(cryptor), nil
}

// DateCodec returns a date codec on the default field cryptor.
func (c *Container) DateCodec() (fieldCodec.Codec, error) {
	cryptor, err := c.DefaultFieldCryptor()
	if err != nil {
		return nil, err
	}
	return fieldCodec.NewDateCodec(cryptor), nil
}

// initFieldCryptor creates a field cryptor with all its dependencies.
func (c *Container) initFieldCryptor(opts fieldUsecase.Options) (fieldUsecase.FieldCryptor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	keyRing, err := c.KeyRing()
	if err != nil {
		return nil, fmt.Errorf("failed to get key ring for field cryptor: %w", err)
	}

	store, err := c.SecretStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret store for field cryptor: %w", err)
	}

	cryptor, err := fieldUsecase.NewFieldCryptor(opts, keyRing, c.Hasher(), store)
	if err != nil {
		return nil, fmt.Errorf("failed to create field cryptor: %w", err)
	}

	if !c.config.MetricsEnabled {
		return cryptor, nil
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for field cryptor: %w", err)
	}
	return fieldUsecase.NewFieldCryptorWithMetrics(cryptor, businessMetrics), nil
}
