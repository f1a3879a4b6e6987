package app

import (
	"context"
	"fmt"

	cryptoService "github.com/allisson/cryptfields/internal/crypto/service"
	cryptoUsecase "github.com/allisson/cryptfields/internal/crypto/usecase"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = c.initKMSService()
	})
	return c.kmsService
}

// Sealer returns the sealer protecting private key files at rest.
func (c *Container) Sealer() (cryptoService.Sealer, error) {
	var err error
	c.sealerInit.Do(func() {
		c.sealer, err = c.initSealer()
		if err != nil {
			c.initErrors["sealer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sealer"]; exists {
		return nil, storedErr
	}
	return c.sealer, nil
}

// KeyRing returns the key ring holding the key set under the configured key path.
func (c *Container) KeyRing() (*cryptoService.KeyRing, error) {
	var err error
	c.keyRingInit.Do(func() {
		c.keyRing, err = c.initKeyRing()
		if err != nil {
			c.initErrors["keyRing"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyRing"]; exists {
		return nil, storedErr
	}
	return c.keyRing, nil
}

// Hasher returns the lookup digest hasher.
func (c *Container) Hasher() cryptoService.Hasher {
	c.hasherInit.Do(func() {
		c.hasher = cryptoService.NewBlake2bHasher()
	})
	return c.hasher
}

// KeyGenerator returns the key set generator.
func (c *Container) KeyGenerator() (cryptoService.KeyGenerator, error) {
	var err error
	c.keyGeneratorInit.Do(func() {
		c.keyGenerator, err = c.initKeyGenerator()
		if err != nil {
			c.initErrors["keyGenerator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyGenerator"]; exists {
		return nil, storedErr
	}
	return c.keyGenerator, nil
}

// KeyRotator returns the key rotation use case. A successful rotation drops the loaded keys
// and the cached secrets of this process.
func (c *Container) KeyRotator() (cryptoUsecase.KeyRotator, error) {
	var err error
	c.keyRotatorInit.Do(func() {
		c.keyRotator, err = c.initKeyRotator()
		if err != nil {
			c.initErrors["keyRotator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyRotator"]; exists {
		return nil, storedErr
	}
	return c.keyRotator, nil
}

// initKMSService creates the KMS service for sealing private key files.
func (c *Container) initKMSService() cryptoService.KMSService {
	return cryptoService.NewKMSService()
}

// initSealer opens the KMS keeper when a key URI is configured.
func (c *Container) initSealer() (cryptoService.Sealer, error) {
	if c.config.KMSKeyURI == "" {
		return cryptoService.NewNoopSealer(), nil
	}
	sealer, err := cryptoService.NewKMSSealer(context.Background(), c.KMSService(), c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to create kms sealer: %w", err)
	}
	return sealer, nil
}

// initKeyRing creates the key ring over a file key loader.
func (c *Container) initKeyRing() (*cryptoService.KeyRing, error) {
	sealer, err := c.Sealer()
	if err != nil {
		return nil, fmt.Errorf("failed to get sealer for key ring: %w", err)
	}
	loader := cryptoService.NewFileKeyLoader(c.config.KeyPath, sealer, c.config.CryptRestricted)
	return cryptoService.NewKeyRing(loader, c.config.CryptRestricted), nil
}

// initKeyGenerator creates the file key generator.
func (c *Container) initKeyGenerator() (cryptoService.KeyGenerator, error) {
	sealer, err := c.Sealer()
	if err != nil {
		return nil, fmt.Errorf("failed to get sealer for key generator: %w", err)
	}
	return cryptoService.NewFileKeyGenerator(sealer), nil
}

// initKeyRotator creates the key rotator with the key ring and secret cache as invalidators.
func (c *Container) initKeyRotator() (cryptoUsecase.KeyRotator, error) {
	generator, err := c.KeyGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to get key generator for key rotator: %w", err)
	}

	keyRing, err := c.KeyRing()
	if err != nil {
		return nil, fmt.Errorf("failed to get key ring for key rotator: %w", err)
	}

	return cryptoUsecase.NewKeyRotator(
		generator,
		c.Logger(),
		keyRing,
		cacheInvalidator{cache: c.SecretCache()},
	), nil
}
