package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lookupDomain "github.com/allisson/cryptfields/internal/lookup/domain"
	"github.com/allisson/cryptfields/internal/testutil"
)

func TestPostgreSQLCryptRepository_AgainstDatabase(t *testing.T) {
	testutil.SkipIfNoPostgres(t)

	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	ctx := context.Background()
	repo := NewPostgreSQLCryptRepository(db)
	crypt := newTestCrypt()

	require.NoError(t, repo.Upsert(ctx, crypt))

	// Same key, new secret: last write wins and no second row appears.
	replaced := newTestCrypt()
	replaced.Secret = "bmV3aXY=iv:::bmV3Y3Q="
	require.NoError(t, repo.Upsert(ctx, replaced))
	assert.Equal(t, 1, testutil.CountCrypts(t, db))

	got, err := repo.GetByHash(ctx, crypt.Key())
	require.NoError(t, err)
	assert.Equal(t, replaced.Secret, got.Secret)
	assert.Equal(t, crypt.ID, got.ID)

	created, err := repo.CreateIfNotExists(ctx, newTestCrypt())
	require.NoError(t, err)
	assert.False(t, created)

	exists, err := repo.Exists(ctx, crypt.Key())
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.GetByHash(ctx, lookupDomain.Key{Algorithm: crypt.Algorithm, Mode: crypt.Mode, Hash: "missing"})
	assert.ErrorIs(t, err, lookupDomain.ErrCryptNotFound)

	testutil.CreateTestCrypt(t, db, "postgres", "aes", "local", "ffffffffffffffffffffffffffffffff", "aXY=iv:::Y3Q=")
	listed, err := repo.List(ctx, crypt.Algorithm, crypt.Mode, 0, 10)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}
