// Package repository implements registry-driven access to stored PHI field
// values for the key rotation orchestrator.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/database"
	apperrors "github.com/FatihBerkayBahceci/eye-book-sub002/internal/errors"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/phi"
)

// PostgreSQLFieldStore enumerates and rewrites stored PHI field values.
// Entity and field names come from the PHI registry, never from user input;
// they are still quoted with pq.QuoteIdentifier since they are interpolated
// into SQL. Intended to run inside the rotation transaction via
// database.GetTx().
type PostgreSQLFieldStore struct {
	db *sql.DB
}

// NewPostgreSQLFieldStore creates a new field store.
func NewPostgreSQLFieldStore(db *sql.DB) *PostgreSQLFieldStore {
	return &PostgreSQLFieldStore{db: db}
}

// ListFieldValues returns every non-empty stored value of one registered
// field, ordered by row id for deterministic rotation progress.
func (p *PostgreSQLFieldStore) ListFieldValues(
	ctx context.Context,
	entityType, field string,
) ([]phi.FieldValue, error) {
	querier := database.GetTx(ctx, p.db)

	query := fmt.Sprintf(
		`SELECT id, %s FROM %s WHERE %s IS NOT NULL AND %s <> '' ORDER BY id`,
		pq.QuoteIdentifier(field),
		pq.QuoteIdentifier(entityType),
		pq.QuoteIdentifier(field),
		pq.QuoteIdentifier(field),
	)

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list field values")
	}
	defer func() {
		_ = rows.Close()
	}()

	values := make([]phi.FieldValue, 0)
	for rows.Next() {
		var value phi.FieldValue
		if err := rows.Scan(&value.ID, &value.Value); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan field value")
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate field values")
	}

	return values, nil
}

// UpdateFieldValue writes a re-encrypted value back to its row.
func (p *PostgreSQLFieldStore) UpdateFieldValue(
	ctx context.Context,
	entityType, field string,
	id int64,
	value string,
) error {
	querier := database.GetTx(ctx, p.db)

	query := fmt.Sprintf(
		`UPDATE %s SET %s = $1 WHERE id = $2`,
		pq.QuoteIdentifier(entityType),
		pq.QuoteIdentifier(field),
	)

	result, err := querier.ExecContext(ctx, query, value, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update field value")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to read affected rows")
	}
	if rows == 0 {
		return apperrors.Wrap(apperrors.ErrNotFound, "field value row not found")
	}

	return nil
}
