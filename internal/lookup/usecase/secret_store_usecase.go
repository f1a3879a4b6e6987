package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
	"github.com/allisson/cryptfields/internal/database"
	lookupDomain "github.com/allisson/cryptfields/internal/lookup/domain"
	lookupService "github.com/allisson/cryptfields/internal/lookup/service"
	"github.com/allisson/cryptfields/internal/validation"
)

// secretStore implements the SecretStore interface on a CryptRepository and a SecretCache.
type secretStore struct {
	txManager database.TxManager
	cryptRepo CryptRepository
	cache     lookupService.SecretCache
	logger    *slog.Logger
	group     singleflight.Group
	now       func() time.Time
}

// Get implements SecretStore.
func (s *secretStore) Get(ctx context.Context, key lookupDomain.Key) (string, bool, error) {
	if err := cryptoDomain.ValidateAlgorithmMode(key.Algorithm, key.Mode); err != nil {
		return "", false, err
	}

	if secret, ok := s.cache.Get(key); ok {
		return secret, true, nil
	}

	// Concurrent misses for one key share a single query.
	value, err, _ := s.group.Do(key.String(), func() (any, error) {
		crypt, err := s.cryptRepo.GetByHash(ctx, key)
		if err != nil {
			return "", err
		}
		s.cache.Add(key, crypt.Secret)
		return crypt.Secret, nil
	})
	if err != nil {
		if errors.Is(err, lookupDomain.ErrCryptNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	return value.(string), true, nil
}

// Put implements SecretStore.
func (s *secretStore) Put(ctx context.Context, key lookupDomain.Key, secret string, salt *string) error {
	if secret == "" {
		return s.touch(ctx, key)
	}

	now := s.now().UTC()
	crypt := &lookupDomain.Crypt{
		ID:        uuid.Must(uuid.NewV7()),
		Hash:      key.Hash,
		Secret:    secret,
		Algorithm: key.Algorithm,
		Mode:      key.Mode,
		Salt:      salt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := crypt.Validate(); err != nil {
		return err
	}

	if err := s.cryptRepo.Upsert(ctx, crypt); err != nil {
		return err
	}

	s.cache.Add(key, secret)
	return nil
}

// touch handles a Put without a secret: nothing is written either way.
func (s *secretStore) touch(ctx context.Context, key lookupDomain.Key) error {
	if err := cryptoDomain.ValidateAlgorithmMode(key.Algorithm, key.Mode); err != nil {
		return err
	}
	if s.cache.Contains(key) {
		return nil
	}

	exists, err := s.cryptRepo.Exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		s.logger.Warn(
			"no secret supplied and no lookup record exists, assuming a search-only lookup",
			slog.String("algorithm", string(key.Algorithm)),
			slog.String("mode", string(key.Mode)),
			slog.String("hash", key.Hash),
		)
	}
	return nil
}

// Invalidate implements SecretStore.
func (s *secretStore) Invalidate(ctx context.Context) error {
	s.cache.Invalidate()
	return nil
}

// Export implements SecretStore.
func (s *secretStore) Export(
	ctx context.Context,
	alg cryptoDomain.Algorithm,
	mode cryptoDomain.Mode,
	offset, limit int,
) ([]*lookupDomain.Crypt, error) {
	if err := cryptoDomain.ValidateAlgorithmMode(alg, mode); err != nil {
		return nil, err
	}
	if err := validation.Page(offset, limit); err != nil {
		return nil, err
	}
	return s.cryptRepo.List(ctx, alg, mode, offset, limit)
}

// Import implements SecretStore.
func (s *secretStore) Import(ctx context.Context, crypts []*lookupDomain.Crypt) (int, error) {
	now := s.now().UTC()
	for i, crypt := range crypts {
		if crypt.ID == uuid.Nil {
			crypt.ID = uuid.Must(uuid.NewV7())
		}
		if crypt.CreatedAt.IsZero() {
			crypt.CreatedAt = now
		}
		if crypt.UpdatedAt.IsZero() {
			crypt.UpdatedAt = crypt.CreatedAt
		}
		if err := validateImported(crypt); err != nil {
			return 0, fmt.Errorf("record %d (%s): %w", i, crypt.Key(), err)
		}
	}

	created := 0
	err := s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		created = 0
		for _, crypt := range crypts {
			ok, err := s.cryptRepo.CreateIfNotExists(txCtx, crypt)
			if err != nil {
				return err
			}
			if ok {
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("imported lookup records", slog.Int("submitted", len(crypts)), slog.Int("created", created))
	return created, nil
}

func validateImported(crypt *lookupDomain.Crypt) error {
	if err := crypt.Validate(); err != nil {
		return err
	}
	return validation.WrapValidationError(validation.SecretFor(crypt.Algorithm).Validate(crypt.Secret))
}

// NewSecretStore creates a SecretStore backed by cryptRepo and fronted by cache.
func NewSecretStore(
	txManager database.TxManager,
	cryptRepo CryptRepository,
	cache lookupService.SecretCache,
	logger *slog.Logger,
) SecretStore {
	return &secretStore{
		txManager: txManager,
		cryptRepo: cryptRepo,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}
