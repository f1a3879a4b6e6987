package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
	lookupDomain "github.com/allisson/cryptfields/internal/lookup/domain"
	"github.com/allisson/cryptfields/internal/metrics"
)

// secretStoreWithMetrics decorates SecretStore with metrics instrumentation.
type secretStoreWithMetrics struct {
	next    SecretStore
	metrics metrics.BusinessMetrics
}

// NewSecretStoreWithMetrics wraps a SecretStore with metrics recording.
func NewSecretStoreWithMetrics(store SecretStore, m metrics.BusinessMetrics) SecretStore {
	return &secretStoreWithMetrics{
		next:    store,
		metrics: m,
	}
}

func (s *secretStoreWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "lookup", operation, status)
	s.metrics.RecordDuration(ctx, "lookup", operation, time.Since(start), status)
}

// Get records metrics for secret resolution. A miss is a success.
func (s *secretStoreWithMetrics) Get(ctx context.Context, key lookupDomain.Key) (string, bool, error) {
	start := time.Now()
	secret, found, err := s.next.Get(ctx, key)
	s.record(ctx, "get", start, err)
	return secret, found, err
}

// Put records metrics for secret publication.
func (s *secretStoreWithMetrics) Put(
	ctx context.Context,
	key lookupDomain.Key,
	secret string,
	salt *string,
) error {
	start := time.Now()
	err := s.next.Put(ctx, key, secret, salt)
	s.record(ctx, "put", start, err)
	return err
}

// Invalidate is not instrumented.
func (s *secretStoreWithMetrics) Invalidate(ctx context.Context) error {
	return s.next.Invalidate(ctx)
}

// Export records metrics for paged record export.
func (s *secretStoreWithMetrics) Export(
	ctx context.Context,
	alg cryptoDomain.Algorithm,
	mode cryptoDomain.Mode,
	offset, limit int,
) ([]*lookupDomain.Crypt, error) {
	start := time.Now()
	crypts, err := s.next.Export(ctx, alg, mode, offset, limit)
	s.record(ctx, "export", start, err)
	return crypts, err
}

// Import records metrics for record import.
func (s *secretStoreWithMetrics) Import(ctx context.Context, crypts []*lookupDomain.Crypt) (int, error) {
	start := time.Now()
	created, err := s.next.Import(ctx, crypts)
	s.record(ctx, "import", start, err)
	return created, err
}
