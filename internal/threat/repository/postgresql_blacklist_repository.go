package repository

import (
	"context"
	"database/sql"

	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/database"
	apperrors "github.com/FatihBerkayBahceci/eye-book-sub002/internal/errors"
	threatDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/domain"
)

// PostgreSQLBlacklistRepository persists permanent blacklist entries.
type PostgreSQLBlacklistRepository struct {
	db *sql.DB
}

// NewPostgreSQLBlacklistRepository creates a new PostgreSQL blacklist repository.
func NewPostgreSQLBlacklistRepository(db *sql.DB) *PostgreSQLBlacklistRepository {
	return &PostgreSQLBlacklistRepository{db: db}
}

// Add inserts a blacklist entry. Adding an already blacklisted actor is a
// no-op, so concurrent escalations cannot fail each other.
func (p *PostgreSQLBlacklistRepository) Add(
	ctx context.Context,
	entry *threatDomain.BlacklistEntry,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO blacklist_entries (actor_id, reason, created_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (actor_id) DO NOTHING`

	_, err := querier.ExecContext(ctx, query, entry.ActorID, entry.Reason, entry.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to add blacklist entry")
	}

	return nil
}

// Exists reports whether the actor is blacklisted.
func (p *PostgreSQLBlacklistRepository) Exists(ctx context.Context, actorID string) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS(SELECT 1 FROM blacklist_entries WHERE actor_id = $1)`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, actorID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check blacklist entry")
	}

	return exists, nil
}

// Remove deletes the actor's blacklist entry. Returns ErrNotBlacklisted if no
// entry exists.
func (p *PostgreSQLBlacklistRepository) Remove(ctx context.Context, actorID string) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(
		ctx, `DELETE FROM blacklist_entries WHERE actor_id = $1`, actorID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to remove blacklist entry")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if rows == 0 {
		return threatDomain.ErrNotBlacklisted
	}

	return nil
}

// List retrieves all blacklist entries ordered by creation time descending.
func (p *PostgreSQLBlacklistRepository) List(
	ctx context.Context,
) ([]*threatDomain.BlacklistEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT actor_id, reason, created_at
			  FROM blacklist_entries
			  ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list blacklist entries")
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*threatDomain.BlacklistEntry, 0)
	for rows.Next() {
		var entry threatDomain.BlacklistEntry
		if err := rows.Scan(&entry.ActorID, &entry.Reason, &entry.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan blacklist entry")
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate blacklist entries")
	}

	return entries, nil
}
