// Package repository implements lookup record persistence for PostgreSQL.
// The MySQL implementation lives in the mysql subpackage.
package repository

import (
	"context"
	"database/sql"
	"errors"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
	"github.com/allisson/cryptfields/internal/database"
	apperrors "github.com/allisson/cryptfields/internal/errors"
	lookupDomain "github.com/allisson/cryptfields/internal/lookup/domain"
)

// PostgreSQLCryptRepository implements lookup record persistence for PostgreSQL databases.
type PostgreSQLCryptRepository struct {
	db *sql.DB
}

// Upsert inserts the record or, when (hash, algorithm, mode) already exists, replaces its secret.
func (p *PostgreSQLCryptRepository) Upsert(ctx context.Context, crypt *lookupDomain.Crypt) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO crypts (id, hash, secret, algorithm, mode, salt, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  ON CONFLICT (hash, algorithm, mode) DO UPDATE
			  SET secret = EXCLUDED.secret, salt = COALESCE(EXCLUDED.salt, crypts.salt), updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		crypt.ID,
		crypt.Hash,
		crypt.Secret,
		string(crypt.Algorithm),
		string(crypt.Mode),
		crypt.Salt,
		crypt.CreatedAt,
		crypt.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert crypt")
	}
	return nil
}

// CreateIfNotExists inserts the record unless the key is taken. It reports whether a row was written.
func (p *PostgreSQLCryptRepository) CreateIfNotExists(
	ctx context.Context,
	crypt *lookupDomain.Crypt,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO crypts (id, hash, secret, algorithm, mode, salt, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  ON CONFLICT (hash, algorithm, mode) DO NOTHING`

	result, err := querier.ExecContext(
		ctx,
		query,
		crypt.ID,
		crypt.Hash,
		crypt.Secret,
		string(crypt.Algorithm),
		string(crypt.Mode),
		crypt.Salt,
		crypt.CreatedAt,
		crypt.UpdatedAt,
	)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to create crypt")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}
	return rowsAffected > 0, nil
}

// GetByHash retrieves the record for (algorithm, mode, hash).
func (p *PostgreSQLCryptRepository) GetByHash(
	ctx context.Context,
	key lookupDomain.Key,
) (*lookupDomain.Crypt, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, hash, secret, algorithm, mode, salt, created_at, updated_at
			  FROM crypts
			  WHERE hash = $1 AND algorithm = $2 AND mode = $3`

	var crypt lookupDomain.Crypt
	var algorithm, mode string

	err := querier.QueryRowContext(ctx, query, key.Hash, string(key.Algorithm), string(key.Mode)).Scan(
		&crypt.ID,
		&crypt.Hash,
		&crypt.Secret,
		&algorithm,
		&mode,
		&crypt.Salt,
		&crypt.CreatedAt,
		&crypt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, lookupDomain.ErrCryptNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get crypt by hash")
	}

	crypt.Algorithm = cryptoDomain.Algorithm(algorithm)
	crypt.Mode = cryptoDomain.Mode(mode)
	return &crypt, nil
}

// Exists reports whether a record exists for (algorithm, mode, hash).
func (p *PostgreSQLCryptRepository) Exists(ctx context.Context, key lookupDomain.Key) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (SELECT 1 FROM crypts WHERE hash = $1 AND algorithm = $2 AND mode = $3)`

	var exists bool
	err := querier.QueryRowContext(ctx, query, key.Hash, string(key.Algorithm), string(key.Mode)).Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check crypt existence")
	}
	return exists, nil
}

// List retrieves records of one (algorithm, mode) pair ordered by id (creation order) with pagination.
func (p *PostgreSQLCryptRepository) List(
	ctx context.Context,
	alg cryptoDomain.Algorithm,
	mode cryptoDomain.Mode,
	offset, limit int,
) ([]*lookupDomain.Crypt, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, hash, secret, algorithm, mode, salt, created_at, updated_at
			  FROM crypts
			  WHERE algorithm = $1 AND mode = $2
			  ORDER BY id ASC
			  LIMIT $3 OFFSET $4`

	rows, err := querier.QueryContext(ctx, query, string(alg), string(mode), limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list crypts")
	}
	defer func() {
		_ = rows.Close()
	}()

	crypts := make([]*lookupDomain.Crypt, 0)
	for rows.Next() {
		var crypt lookupDomain.Crypt
		var algorithm, cryptMode string

		if err := rows.Scan(
			&crypt.ID,
			&crypt.Hash,
			&crypt.Secret,
			&algorithm,
			&cryptMode,
			&crypt.Salt,
			&crypt.CreatedAt,
			&crypt.UpdatedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan crypt")
		}

		crypt.Algorithm = cryptoDomain.Algorithm(algorithm)
		crypt.Mode = cryptoDomain.Mode(cryptMode)
		crypts = append(crypts, &crypt)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate crypts")
	}

	return crypts, nil
}

// NewPostgreSQLCryptRepository creates a new PostgreSQL crypt repository instance.
func NewPostgreSQLCryptRepository(db *sql.DB) *PostgreSQLCryptRepository {
	return &PostgreSQLCryptRepository{db: db}
}
