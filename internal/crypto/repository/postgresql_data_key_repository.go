// Package repository implements PostgreSQL persistence for encryption data keys.
package repository

import (
	"context"
	"database/sql"

	cryptoDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/domain"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/database"
	apperrors "github.com/FatihBerkayBahceci/eye-book-sub002/internal/errors"
)

// PostgreSQLDataKeyRepository persists wrapped data keys. The plaintext key
// material never reaches this layer; only WrappedKey is stored. A partial
// unique index on status='active' enforces the single-active-key invariant
// at the database level. Uses transaction support via database.GetTx().
type PostgreSQLDataKeyRepository struct {
	db *sql.DB
}

// NewPostgreSQLDataKeyRepository creates a new PostgreSQL data key repository.
func NewPostgreSQLDataKeyRepository(db *sql.DB) *PostgreSQLDataKeyRepository {
	return &PostgreSQLDataKeyRepository{db: db}
}

// Create inserts a new data key and fills in its assigned version.
func (p *PostgreSQLDataKeyRepository) Create(ctx context.Context, key *cryptoDomain.DataKey) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO encryption_keys (wrapped_key, status, created_at)
			  VALUES ($1, $2, $3)
			  RETURNING version`

	err := querier.QueryRowContext(
		ctx,
		query,
		key.WrappedKey,
		string(key.Status),
		key.CreatedAt,
	).Scan(&key.Version)
	if err != nil {
		return apperrors.Wrap(err, "failed to create data key")
	}

	return nil
}

// GetActive returns the single key with active status.
// Returns ErrNoActiveKey if no key is active yet.
func (p *PostgreSQLDataKeyRepository) GetActive(ctx context.Context) (*cryptoDomain.DataKey, error) {
	return p.getOneByStatus(ctx, cryptoDomain.KeyStatusActive, cryptoDomain.ErrNoActiveKey)
}

// GetPending returns the pending key of an in-flight rotation, or ErrNotFound.
func (p *PostgreSQLDataKeyRepository) GetPending(ctx context.Context) (*cryptoDomain.DataKey, error) {
	return p.getOneByStatus(
		ctx,
		cryptoDomain.KeyStatusPending,
		apperrors.Wrap(apperrors.ErrNotFound, "no pending data key"),
	)
}

func (p *PostgreSQLDataKeyRepository) getOneByStatus(
	ctx context.Context,
	status cryptoDomain.KeyStatus,
	notFound error,
) (*cryptoDomain.DataKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT version, wrapped_key, status, created_at
			  FROM encryption_keys
			  WHERE status = $1
			  ORDER BY version DESC
			  LIMIT 1`

	var key cryptoDomain.DataKey
	var statusStr string
	err := querier.QueryRowContext(ctx, query, string(status)).Scan(
		&key.Version,
		&key.WrappedKey,
		&statusStr,
		&key.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, notFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get data key")
	}

	key.Status = cryptoDomain.KeyStatus(statusStr)
	return &key, nil
}

// UpdateStatus transitions a key to a new lifecycle status.
func (p *PostgreSQLDataKeyRepository) UpdateStatus(
	ctx context.Context,
	version int,
	status cryptoDomain.KeyStatus,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE encryption_keys SET status = $1 WHERE version = $2`

	result, err := querier.ExecContext(ctx, query, string(status), version)
	if err != nil {
		return apperrors.Wrap(err, "failed to update data key status")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if rows == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "data key version not found")
	}

	return nil
}

// Delete removes a key row. Only meaningful for pending keys of an aborted
// rotation and for retired keys during purge.
func (p *PostgreSQLDataKeyRepository) Delete(ctx context.Context, version int) error {
	querier := database.GetTx(ctx, p.db)

	_, err := querier.ExecContext(ctx, `DELETE FROM encryption_keys WHERE version = $1`, version)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete data key")
	}

	return nil
}

// DeleteByStatus removes all keys with the given status and returns the count.
func (p *PostgreSQLDataKeyRepository) DeleteByStatus(
	ctx context.Context,
	status cryptoDomain.KeyStatus,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM encryption_keys WHERE status = $1`,
		string(status),
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete data keys")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}

	return count, nil
}
