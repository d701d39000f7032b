// Package usecase implements business logic orchestration for the audit trail.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
)

// AuditEventRepository defines the interface for audit event persistence.
//
// Events are append-only; the only delete path is retention cleanup. All
// operations support transaction context propagation via database.GetTx.
type AuditEventRepository interface {
	// Create inserts a new audit event.
	Create(ctx context.Context, event *auditDomain.Event) error

	// GetByID retrieves a single event, or ErrEventNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*auditDomain.Event, error)

	// List retrieves events newest first with pagination and optional filters.
	List(ctx context.Context, input *auditDomain.ListEventsInput) ([]*auditDomain.Event, error)

	// CountByTypeAndActorSince counts same-type events from one actor since a time.
	CountByTypeAndActorSince(
		ctx context.Context,
		eventType auditDomain.EventType,
		actorID string,
		since time.Time,
	) (int64, error)

	// CountDistinctIPsByActorSince counts distinct source addresses for one actor.
	CountDistinctIPsByActorSince(ctx context.Context, actorID string, since time.Time) (int64, error)

	// DeleteOlderThan removes events created before the cutoff, keeping
	// retention cleanup summary events, and returns the count.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Notifier delivers security alerts for high-risk events. Implementations
// must not block; delivery is fire-and-forget from the caller's perspective.
type Notifier interface {
	Notify(ctx context.Context, event *auditDomain.Event)
}

// AuditUseCase defines the audit trail business operations.
type AuditUseCase interface {
	// LogEvent signs and persists a new audit event, alerts security staff
	// when the risk level warrants it, and runs suspicious pattern analysis
	// for the event's actor. Notification and analysis are best-effort; a
	// failure there never fails the write.
	LogEvent(ctx context.Context, input *auditDomain.LogEventInput) (*auditDomain.Event, error)

	// GetEvent retrieves a single event, or ErrEventNotFound.
	GetEvent(ctx context.Context, id uuid.UUID) (*auditDomain.Event, error)

	// ListEvents retrieves events newest first with pagination and filters.
	ListEvents(ctx context.Context, input *auditDomain.ListEventsInput) ([]*auditDomain.Event, error)

	// VerifyIntegrity recomputes the signature of a stored event. On mismatch
	// it records a critical integrity_check_failed event and returns
	// ErrSignatureInvalid.
	VerifyIntegrity(ctx context.Context, id uuid.UUID) error

	// CleanupExpired deletes events older than the retention period and
	// writes a cleanup summary event, atomically. Returns the deleted count.
	CleanupExpired(ctx context.Context) (int64, error)

	// Wait blocks until all in-flight pattern analyses complete. Used during
	// shutdown.
	Wait()
}
