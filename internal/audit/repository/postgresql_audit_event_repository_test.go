package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
)

func newMockDB(t *testing.T) (*PostgreSQLAuditEventRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	return NewPostgreSQLAuditEventRepository(db), mock
}

func eventColumnNames() []string {
	return []string{
		"id", "event_type", "actor_id", "session_id", "ip_address", "user_agent",
		"resource_type", "resource_id", "risk_level", "details", "signature", "created_at",
	}
}

func TestPostgreSQLAuditEventRepository_Create(t *testing.T) {
	repo, mock := newMockDB(t)
	ctx := context.Background()

	event := &auditDomain.Event{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: auditDomain.EventPHIAccess,
		Request: auditDomain.RequestContext{
			ActorID:   "user-42",
			IPAddress: "203.0.113.9",
		},
		ResourceType: "patients",
		ResourceID:   "17",
		RiskLevel:    auditDomain.RiskLow,
		Details:      map[string]any{"fields": "email"},
		Signature:    []byte("signature"),
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec(`INSERT INTO audit_events`).
		WithArgs(
			event.ID,
			"phi_access",
			"user-42",
			"",
			"203.0.113.9",
			"",
			"patients",
			"17",
			"low",
			[]byte(`{"fields":"email"}`),
			[]byte("signature"),
			event.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(ctx, event)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLAuditEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockDB(t)

		id := uuid.Must(uuid.NewV7())
		createdAt := time.Now().UTC()

		rows := sqlmock.NewRows(eventColumnNames()).AddRow(
			id, "phi_access", "user-42", "session-1", "203.0.113.9", "Mozilla/5.0",
			"patients", "17", "low", []byte(`{"fields":"email"}`), []byte("signature"), createdAt,
		)

		mock.ExpectQuery(`FROM audit_events WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(rows)

		event, err := repo.GetByID(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, id, event.ID)
		assert.Equal(t, auditDomain.EventPHIAccess, event.EventType)
		assert.Equal(t, "user-42", event.Request.ActorID)
		assert.Equal(t, map[string]any{"fields": "email"}, event.Details)
		assert.Equal(t, []byte("signature"), event.Signature)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		repo, mock := newMockDB(t)

		id := uuid.Must(uuid.NewV7())
		mock.ExpectQuery(`FROM audit_events WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(eventColumnNames()))

		event, err := repo.GetByID(ctx, id)

		assert.Nil(t, event)
		assert.ErrorIs(t, err, auditDomain.ErrEventNotFound)
	})
}

func TestPostgreSQLAuditEventRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_NoFilters", func(t *testing.T) {
		repo, mock := newMockDB(t)

		rows := sqlmock.NewRows(eventColumnNames()).AddRow(
			uuid.Must(uuid.NewV7()), "login_failed", "user-42", "", "203.0.113.9", "",
			"", "", "medium", nil, []byte("signature"), time.Now().UTC(),
		)

		mock.ExpectQuery(`FROM audit_events WHERE 1=1 ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
			WithArgs(50, 0).
			WillReturnRows(rows)

		events, err := repo.List(ctx, &auditDomain.ListEventsInput{Limit: 50})

		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, auditDomain.EventLoginFailed, events[0].EventType)
		assert.Nil(t, events[0].Details)
	})

	t.Run("Success_AllFilters", func(t *testing.T) {
		repo, mock := newMockDB(t)

		from := time.Now().UTC().Add(-time.Hour)
		to := time.Now().UTC()

		mock.ExpectQuery(`FROM audit_events WHERE 1=1 AND event_type = \$1 AND actor_id = \$2 AND risk_level = \$3 AND created_at >= \$4 AND created_at <= \$5 ORDER BY created_at DESC LIMIT \$6 OFFSET \$7`).
			WithArgs("phi_access", "user-42", "high", from, to, 10, 20).
			WillReturnRows(sqlmock.NewRows(eventColumnNames()))

		events, err := repo.List(ctx, &auditDomain.ListEventsInput{
			Offset:        20,
			Limit:         10,
			EventType:     auditDomain.EventPHIAccess,
			ActorID:       "user-42",
			RiskLevel:     auditDomain.RiskHigh,
			CreatedAtFrom: &from,
			CreatedAtTo:   &to,
		})

		require.NoError(t, err)
		assert.Empty(t, events)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLAuditEventRepository_CountByTypeAndActorSince(t *testing.T) {
	repo, mock := newMockDB(t)
	ctx := context.Background()
	since := time.Now().UTC().Add(-time.Hour)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM audit_events`).
		WithArgs("login_failed", "user-42", since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))

	count, err := repo.CountByTypeAndActorSince(ctx, auditDomain.EventLoginFailed, "user-42", since)

	assert.NoError(t, err)
	assert.Equal(t, int64(21), count)
}

func TestPostgreSQLAuditEventRepository_CountDistinctIPsByActorSince(t *testing.T) {
	repo, mock := newMockDB(t)
	ctx := context.Background()
	since := time.Now().UTC().Add(-24 * time.Hour)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT ip_address\) FROM audit_events`).
		WithArgs("user-42", since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	count, err := repo.CountDistinctIPsByActorSince(ctx, "user-42", since)

	assert.NoError(t, err)
	assert.Equal(t, int64(6), count)
}

func TestPostgreSQLAuditEventRepository_DeleteOlderThan(t *testing.T) {
	repo, mock := newMockDB(t)
	ctx := context.Background()
	cutoff := time.Now().UTC().AddDate(-7, 0, 0)

	// Cleanup summary events survive retention so the trail shows cleanup runs.
	mock.ExpectExec(`DELETE FROM audit_events WHERE created_at < \$1 AND event_type <> \$2`).
		WithArgs(cutoff, "audit_retention_cleanup").
		WillReturnResult(sqlmock.NewResult(0, 1234))

	count, err := repo.DeleteOlderThan(ctx, cutoff)

	assert.NoError(t, err)
	assert.Equal(t, int64(1234), count)
}
