package app

import (
	"context"
	"fmt"

	"github.com/allisson/cryptfields/internal/database"
	lookupRepository "github.com/allisson/cryptfields/internal/lookup/repository"
	lookupMySQL "github.com/allisson/cryptfields/internal/lookup/repository/mysql"
	lookupService "github.com/allisson/cryptfields/internal/lookup/service"
	lookupUsecase "github.com/allisson/cryptfields/internal/lookup/usecase"
)

// CryptRepository returns the lookup record repository for the configured database driver.
func (c *Container) CryptRepository() (lookupUsecase.CryptRepository, error) {
	var err error
	c.cryptRepoInit.Do(func() {
		c.cryptRepo, err = c.initCryptRepository()
		if err != nil {
			c.initErrors["cryptRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["cryptRepo"]; exists {
		return nil, storedErr
	}
	return c.cryptRepo, nil
}

// SecretCache returns the in-process secret cache.
func (c *Container) SecretCache() lookupService.SecretCache {
	c.secretCacheInit.Do(func() {
		c.secretCache = lookupService.NewLRUSecretCache(c.config.CacheSize, c.config.CacheTTL)
	})
	return c.secretCache
}

// SecretStore returns the lookup store, instrumented when metrics are enabled.
func (c *Container) SecretStore() (lookupUsecase.SecretStore, error) {
	var err error
	c.secretStoreInit.Do(func() {
		c.secretStore, err = c.initSecretStore()
		if err != nil {
			c.initErrors["secretStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["secretStore"]; exists {
		return nil, storedErr
	}
	return c.secretStore, nil
}

// initCryptRepository creates the lookup record repository based on the database driver.
func (c *Container) initCryptRepository() (lookupUsecase.CryptRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for crypt repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return lookupRepository.NewPostgreSQLCryptRepository(db), nil
	case database.DriverMySQL:
		return lookupMySQL.NewMySQLCryptRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSecretStore creates the secret store with all its dependencies.
func (c *Container) initSecretStore() (lookupUsecase.SecretStore, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for secret store: %w", err)
	}

	cryptRepo, err := c.CryptRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get crypt repository for secret store: %w", err)
	}

	store := lookupUsecase.NewSecretStore(txManager, cryptRepo, c.SecretCache(), c.Logger())

	if !c.config.MetricsEnabled {
		return store, nil
	}
	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for secret store: %w", err)
	}
	return lookupUsecase.NewSecretStoreWithMetrics(store, businessMetrics), nil
}

// cacheInvalidator purges the secret cache after a key rotation without requiring a
// database connection.
type cacheInvalidator struct {
	cache lookupService.SecretCache
}

func (i cacheInvalidator) Invalidate(_ context.Context) error {
	i.cache.Invalidate()
	return nil
}
