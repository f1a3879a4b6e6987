// Package usecase implements the hash to secret lookup store.
//
// The store fronts the durable crypts table with an in-process cache. The table is
// authoritative: a cache miss always falls through to it, and writes go to the table first.
package usecase

import (
	"context"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
	lookupDomain "github.com/allisson/cryptfields/internal/lookup/domain"
)

// CryptRepository defines the interface for lookup record persistence operations.
type CryptRepository interface {
	Upsert(ctx context.Context, crypt *lookupDomain.Crypt) error
	CreateIfNotExists(ctx context.Context, crypt *lookupDomain.Crypt) (bool, error)
	GetByHash(ctx context.Context, key lookupDomain.Key) (*lookupDomain.Crypt, error)
	Exists(ctx context.Context, key lookupDomain.Key) (bool, error)
	List(
		ctx context.Context,
		alg cryptoDomain.Algorithm,
		mode cryptoDomain.Mode,
		offset, limit int,
	) ([]*lookupDomain.Crypt, error)
}

// SecretStore resolves digests to secrets and publishes new ones.
type SecretStore interface {
	// Get returns the secret for key, checking the cache before the table.
	// A digest unknown to both is reported as found=false with a nil error.
	Get(ctx context.Context, key lookupDomain.Key) (secret string, found bool, err error)

	// Put publishes secret under key, replacing any previous secret (last write wins).
	// An empty secret writes nothing; when no record exists either it is logged as a
	// search-only lookup.
	Put(ctx context.Context, key lookupDomain.Key, secret string, salt *string) error

	// Invalidate drops every cached secret. The table is untouched.
	Invalidate(ctx context.Context) error

	// Export returns one page of records of an (algorithm, mode) pair in creation order.
	Export(
		ctx context.Context,
		alg cryptoDomain.Algorithm,
		mode cryptoDomain.Mode,
		offset, limit int,
	) ([]*lookupDomain.Crypt, error)

	// Import inserts records that do not exist yet inside one transaction and returns how
	// many were written. Existing records are never overwritten.
	Import(ctx context.Context, crypts []*lookupDomain.Crypt) (int, error)
}
