// Package mysql implements lookup record persistence for MySQL databases.
package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	cryptoDomain "github.com/allisson/cryptfields/internal/crypto/domain"
	"github.com/allisson/cryptfields/internal/database"
	apperrors "github.com/allisson/cryptfields/internal/errors"
	lookupDomain "github.com/allisson/cryptfields/internal/lookup/domain"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// MySQLCryptRepository implements lookup record persistence for MySQL databases.
type MySQLCryptRepository struct {
	db *sql.DB
}

// Upsert inserts the record or, when (hash, algorithm, mode) already exists, replaces its secret.
func (m *MySQLCryptRepository) Upsert(ctx context.Context, crypt *lookupDomain.Crypt) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO crypts (id, hash, secret, algorithm, mode, salt, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			  secret = VALUES(secret), salt = COALESCE(VALUES(salt), salt), updated_at = VALUES(updated_at)`

	id, err := crypt.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal crypt id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
func (m *MySQLCryptRepository) CreateIfNotExists(
	ctx context.Context,
	crypt *lookupDomain.Crypt,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO crypts (id, hash, secret, algorithm, mode, salt, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := crypt.ID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal crypt id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		crypt.Hash,
		crypt.Secret,
		string(crypt.Algorithm),
		string(crypt.Mode),
		crypt.Salt,
		crypt.CreatedAt,
		crypt.UpdatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return false, nil
		}
		return false, apperrors.Wrap(err, "failed to create crypt")
	}
	return true, nil
}

// GetByHash retrieves the record for (algorithm, mode, hash).
func (m *MySQLCryptRepository) GetByHash(
	ctx context.Context,
	key lookupDomain.Key,
) (*lookupDomain.Crypt, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, hash, secret, algorithm, mode, salt, created_at, updated_at
			  FROM crypts
			  WHERE hash = ? AND algorithm = ? AND mode = ?`

	row := querier.QueryRowContext(ctx, query, key.Hash, string(key.Algorithm), string(key.Mode))

	crypt, err := scanCrypt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, lookupDomain.ErrCryptNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get crypt by hash")
	}
	return crypt, nil
}

// Exists reports whether a record exists for (algorithm, mode, hash).
func (m *MySQLCryptRepository) Exists(ctx context.Context, key lookupDomain.Key) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS (SELECT 1 FROM crypts WHERE hash = ? AND algorithm = ? AND mode = ?)`

	var exists bool
	err := querier.QueryRowContext(ctx, query, key.Hash, string(key.Algorithm), string(key.Mode)).Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check crypt existence")
	}
	return exists, nil
}

// List retrieves records of one (algorithm, mode) pair ordered by id (creation order) with pagination.
func (m *MySQLCryptRepository) List(
	ctx context.Context,
	alg cryptoDomain.Algorithm,
	mode cryptoDomain.Mode,
	offset, limit int,
) ([]*lookupDomain.Crypt, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, hash, secret, algorithm, mode, salt, created_at, updated_at
			  FROM crypts
			  WHERE algorithm = ? AND mode = ?
			  ORDER BY id ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, string(alg), string(mode), limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list crypts")
	}
	defer func() {
		_ = rows.Close()
	}()

	crypts := make([]*lookupDomain.Crypt, 0)
	for rows.Next() {
		crypt, err := scanCrypt(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan crypt")
		}
		crypts = append(crypts, crypt)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate crypts")
	}

	return crypts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCrypt(row scanner) (*lookupDomain.Crypt, error) {
	var crypt lookupDomain.Crypt
	var id []byte
	var algorithm, mode string

	if err := row.Scan(
		&id,
		&crypt.Hash,
		&crypt.Secret,
		&algorithm,
		&mode,
		&crypt.Salt,
		&crypt.CreatedAt,
		&crypt.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := crypt.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal crypt id")
	}

	crypt.Algorithm = cryptoDomain.Algorithm(algorithm)
	crypt.Mode = cryptoDomain.Mode(mode)
	return &crypt, nil
}

// NewMySQLCryptRepository creates a new MySQL crypt repository instance.
func NewMySQLCryptRepository(db *sql.DB) *MySQLCryptRepository {
	return &MySQLCryptRepository{db: db}
}
