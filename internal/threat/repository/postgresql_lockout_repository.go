// Package repository implements PostgreSQL persistence for brute-force
// protection state.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/database"
	apperrors "github.com/FatihBerkayBahceci/eye-book-sub002/internal/errors"
	threatDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/domain"
)

// PostgreSQLLockoutRepository persists per-actor failure counters and lockout
// state. Counter updates are single atomic statements so concurrent failed
// attempts for the same actor never lose increments.
type PostgreSQLLockoutRepository struct {
	db *sql.DB
}

// NewPostgreSQLLockoutRepository creates a new PostgreSQL lockout repository.
func NewPostgreSQLLockoutRepository(db *sql.DB) *PostgreSQLLockoutRepository {
	return &PostgreSQLLockoutRepository{db: db}
}

// IncrementFailure records one authentication failure for the actor and
// returns the updated record. Creates the record on first failure.
func (p *PostgreSQLLockoutRepository) IncrementFailure(
	ctx context.Context,
	actorID string,
	now time.Time,
) (*threatDomain.LockoutRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO lockout_records (actor_id, failed_count, lockout_count, created_at, updated_at)
			  VALUES ($1, 1, 0, $2, $2)
			  ON CONFLICT (actor_id) DO UPDATE
			  SET failed_count = lockout_records.failed_count + 1, updated_at = EXCLUDED.updated_at
			  RETURNING failed_count, lockout_count, locked_until, created_at, updated_at`

	record := threatDomain.LockoutRecord{ActorID: actorID}
	err := querier.QueryRowContext(ctx, query, actorID, now).Scan(
		&record.FailedCount,
		&record.LockoutCount,
		&record.LockedUntil,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to increment failure count")
	}

	return &record, nil
}

// ApplyLockout locks the actor until the given time and bumps the lockout
// counter. GREATEST keeps locked_until monotonic under concurrent lockouts.
func (p *PostgreSQLLockoutRepository) ApplyLockout(
	ctx context.Context,
	actorID string,
	until, now time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE lockout_records
			  SET lockout_count = lockout_count + 1,
			      locked_until = GREATEST(COALESCE(locked_until, $2), $2),
			      updated_at = $3
			  WHERE actor_id = $1`

	result, err := querier.ExecContext(ctx, query, actorID, until, now)
	if err != nil {
		return apperrors.Wrap(err, "failed to apply lockout")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if rows == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "lockout record not found")
	}

	return nil
}

// Get retrieves the lockout record for an actor, or ErrNotFound.
func (p *PostgreSQLLockoutRepository) Get(
	ctx context.Context,
	actorID string,
) (*threatDomain.LockoutRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT failed_count, lockout_count, locked_until, created_at, updated_at
			  FROM lockout_records
			  WHERE actor_id = $1`

	record := threatDomain.LockoutRecord{ActorID: actorID}
	err := querier.QueryRowContext(ctx, query, actorID).Scan(
		&record.FailedCount,
		&record.LockoutCount,
		&record.LockedUntil,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, "lockout record not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get lockout record")
	}

	return &record, nil
}

// Reset removes the actor's lockout record entirely. Resetting an actor with
// no record is not an error.
func (p *PostgreSQLLockoutRepository) Reset(ctx context.Context, actorID string) error {
	querier := database.GetTx(ctx, p.db)

	_, err := querier.ExecContext(ctx, `DELETE FROM lockout_records WHERE actor_id = $1`, actorID)
	if err != nil {
		return apperrors.Wrap(err, "failed to reset lockout record")
	}

	return nil
}

// DeleteStale removes records not updated since the cutoff whose lockout, if
// any, has expired. Returns the count.
func (p *PostgreSQLLockoutRepository) DeleteStale(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM lockout_records
			  WHERE updated_at < $1 AND (locked_until IS NULL OR locked_until < $1)`

	result, err := querier.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete stale lockout records")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}

	return count, nil
}
