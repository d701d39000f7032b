package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
)

// TestAuditTrailIntegrity_EndToEnd verifies signing, tamper detection, and
// retention cleanup against a real database.
func TestAuditTrailIntegrity_EndToEnd(t *testing.T) {
	tc := setupTestContext(t)
	ctx := context.Background()

	auditUseCase, err := tc.container.AuditUseCase()
	require.NoError(t, err, "failed to get audit use case")

	t.Run("SignedEventRoundTrip", func(t *testing.T) {
		event, err := auditUseCase.LogEvent(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventPHIAccess,
			Request: auditDomain.RequestContext{
				ActorID:   "staff-42",
				IPAddress: "10.1.2.3",
				UserAgent: "integration-test",
			},
			ResourceType: "patients",
			ResourceID:   "1",
			RiskLevel:    auditDomain.RiskLow,
			Details:      map[string]any{"fields": []string{"email"}},
		})
		require.NoError(t, err, "failed to log audit event")
		assert.NotEmpty(t, event.Signature, "signature should be populated at write time")

		stored, err := auditUseCase.GetEvent(ctx, event.ID)
		require.NoError(t, err, "failed to get audit event")
		assert.Equal(t, event.Signature, stored.Signature)

		err = auditUseCase.VerifyIntegrity(ctx, event.ID)
		assert.NoError(t, err, "verification should succeed for an untouched event")
	})

	t.Run("TamperDetection", func(t *testing.T) {
		event, err := auditUseCase.LogEvent(ctx, &auditDomain.LogEventInput{
			EventType:    auditDomain.EventPHIModification,
			Request:      auditDomain.RequestContext{ActorID: "staff-42"},
			ResourceType: "patients",
			ResourceID:   "2",
		})
		require.NoError(t, err, "failed to log audit event")

		result, err := tc.db.Exec(
			"UPDATE audit_events SET resource_id = '999' WHERE id = $1",
			event.ID,
		)
		require.NoError(t, err, "failed to tamper with audit event")
		rowsAffected, _ := result.RowsAffected()
		require.Equal(t, int64(1), rowsAffected, "UPDATE should affect exactly 1 row")

		err = auditUseCase.VerifyIntegrity(ctx, event.ID)
		assert.ErrorIs(t, err, auditDomain.ErrSignatureInvalid,
			"verification should fail for a tampered event")

		// The failed check itself lands in the trail as a critical event.
		followUps, err := auditUseCase.ListEvents(ctx, &auditDomain.ListEventsInput{
			Limit:     10,
			EventType: auditDomain.EventIntegrityFailed,
		})
		require.NoError(t, err, "failed to list audit events")
		require.Len(t, followUps, 1, "expected one integrity failure event")
		assert.Equal(t, auditDomain.RiskCritical, followUps[0].RiskLevel)
		assert.Equal(t, event.ID.String(), followUps[0].ResourceID)
	})

	t.Run("RetentionCleanup", func(t *testing.T) {
		event, err := auditUseCase.LogEvent(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventLoginSuccess,
			Request:   auditDomain.RequestContext{ActorID: "staff-old"},
		})
		require.NoError(t, err, "failed to log audit event")

		_, err = tc.db.Exec(
			"UPDATE audit_events SET created_at = now() - interval '11 years' WHERE id = $1",
			event.ID,
		)
		require.NoError(t, err, "failed to age audit event")

		deleted, err := auditUseCase.CleanupExpired(ctx)
		require.NoError(t, err, "cleanup should succeed")
		assert.Equal(t, int64(1), deleted, "exactly the aged event should be deleted")

		_, err = auditUseCase.GetEvent(ctx, event.ID)
		assert.ErrorIs(t, err, auditDomain.ErrEventNotFound)

		summaries, err := auditUseCase.ListEvents(ctx, &auditDomain.ListEventsInput{
			Limit:     10,
			EventType: auditDomain.EventRetentionCleanup,
		})
		require.NoError(t, err, "failed to list audit events")
		require.Len(t, summaries, 1, "expected one cleanup summary event")
		assert.EqualValues(t, 1, summaries[0].Details["deleted"])
	})
}
