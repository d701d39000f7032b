// Package repository implements PostgreSQL persistence for audit events.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/database"
	apperrors "github.com/FatihBerkayBahceci/eye-book-sub002/internal/errors"
)

const eventColumns = `id, event_type, actor_id, session_id, ip_address, user_agent,
		resource_type, resource_id, risk_level, details, signature, created_at`

// PostgreSQLAuditEventRepository implements audit event persistence for
// PostgreSQL. Events are append-only: there is no update operation, and the
// only delete path is retention cleanup. Uses transaction support via
// database.GetTx().
type PostgreSQLAuditEventRepository struct {
	db *sql.DB
}

// NewPostgreSQLAuditEventRepository creates a new PostgreSQL audit event repository.
func NewPostgreSQLAuditEventRepository(db *sql.DB) *PostgreSQLAuditEventRepository {
	return &PostgreSQLAuditEventRepository{db: db}
}

// Create inserts a new audit event. Handles nil details as database NULL.
func (p *PostgreSQLAuditEventRepository) Create(ctx context.Context, event *auditDomain.Event) error {
	querier := database.GetTx(ctx, p.db)

	var detailsJSON []byte
	var err error

	if event.Details != nil {
		detailsJSON, err = json.Marshal(event.Details)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit event details")
		}
	}

	query := `INSERT INTO audit_events (` + eventColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = querier.ExecContext(
		ctx,
		query,
		event.ID,
		string(event.EventType),
		event.Request.ActorID,
		event.Request.SessionID,
		event.Request.IPAddress,
		event.Request.UserAgent,
		event.ResourceType,
		event.ResourceID,
		string(event.RiskLevel),
		detailsJSON,
		event.Signature,
		event.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit event")
	}

	return nil
}

// GetByID retrieves a single audit event. Returns ErrEventNotFound if the
// event does not exist.
func (p *PostgreSQLAuditEventRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*auditDomain.Event, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + eventColumns + ` FROM audit_events WHERE id = $1`

	event, err := scanEvent(querier.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, auditDomain.ErrEventNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get audit event")
	}

	return event, nil
}

// List retrieves audit events ordered by created_at descending (newest first)
// with pagination and the optional filters from input.
func (p *PostgreSQLAuditEventRepository) List(
	ctx context.Context,
	input *auditDomain.ListEventsInput,
) ([]*auditDomain.Event, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + eventColumns + ` FROM audit_events WHERE 1=1`
	args := make([]any, 0, 6)

	if input.EventType != "" {
		args = append(args, string(input.EventType))
		query += fmt.Sprintf(" AND event_type = $%d", len(args))
	}
	if input.ActorID != "" {
		args = append(args, input.ActorID)
		query += fmt.Sprintf(" AND actor_id = $%d", len(args))
	}
	if input.RiskLevel != "" {
		args = append(args, string(input.RiskLevel))
		query += fmt.Sprintf(" AND risk_level = $%d", len(args))
	}
	if input.CreatedAtFrom != nil {
		args = append(args, *input.CreatedAtFrom)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if input.CreatedAtTo != nil {
		args = append(args, *input.CreatedAtTo)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}

	args = append(args, input.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, input.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}
	defer func() {
		_ = rows.Close()
	}()

	events := make([]*auditDomain.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit event")
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit events")
	}

	return events, nil
}

// CountByTypeAndActorSince counts events of one type from one actor created
// at or after the given time. Used for repeated-pattern detection.
func (p *PostgreSQLAuditEventRepository) CountByTypeAndActorSince(
	ctx context.Context,
	eventType auditDomain.EventType,
	actorID string,
	since time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM audit_events
			  WHERE event_type = $1 AND actor_id = $2 AND created_at >= $3`

	var count int64
	err := querier.QueryRowContext(ctx, query, string(eventType), actorID, since).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count audit events")
	}

	return count, nil
}

// CountDistinctIPsByActorSince counts distinct source addresses seen for one
// actor since the given time. Used for multi-source access detection.
func (p *PostgreSQLAuditEventRepository) CountDistinctIPsByActorSince(
	ctx context.Context,
	actorID string,
	since time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(DISTINCT ip_address) FROM audit_events
			  WHERE actor_id = $1 AND created_at >= $2 AND ip_address <> ''`

	var count int64
	err := querier.QueryRowContext(ctx, query, actorID, since).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count distinct addresses")
	}

	return count, nil
}

// DeleteOlderThan removes events created before the cutoff and returns the
// count. Retention cleanup summary events are kept regardless of age so the
// trail always shows when cleanups ran.
func (p *PostgreSQLAuditEventRepository) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM audit_events WHERE created_at < $1 AND event_type <> $2`

	result, err := querier.ExecContext(ctx, query, cutoff, string(auditDomain.EventRetentionCleanup))
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired audit events")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}

	return count, nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*auditDomain.Event, error) {
	var event auditDomain.Event
	var eventType, riskLevel string
	var detailsJSON []byte

	err := row.Scan(
		&event.ID,
		&eventType,
		&event.Request.ActorID,
		&event.Request.SessionID,
		&event.Request.IPAddress,
		&event.Request.UserAgent,
		&event.ResourceType,
		&event.ResourceID,
		&riskLevel,
		&detailsJSON,
		&event.Signature,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	event.EventType = auditDomain.EventType(eventType)
	event.RiskLevel = auditDomain.RiskLevel(riskLevel)

	if detailsJSON != nil {
		if err := json.Unmarshal(detailsJSON, &event.Details); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit event details: %w", err)
		}
	}

	return &event, nil
}
