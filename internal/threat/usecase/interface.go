// Package usecase implements the brute-force protection state machine.
package usecase

import (
	"context"
	"time"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
	threatDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/domain"
)

// LockoutRepository defines the interface for per-actor failure state.
//
// IncrementFailure must be atomic under concurrent attempts for the same
// actor, and ApplyLockout must never shorten an existing lockout.
type LockoutRepository interface {
	// IncrementFailure records one failure and returns the updated record,
	// creating it on first failure.
	IncrementFailure(ctx context.Context, actorID string, now time.Time) (*threatDomain.LockoutRecord, error)

	// ApplyLockout locks the actor until the given time and bumps the
	// lockout counter.
	ApplyLockout(ctx context.Context, actorID string, until, now time.Time) error

	// Get retrieves the actor's record, or ErrNotFound.
	Get(ctx context.Context, actorID string) (*threatDomain.LockoutRecord, error)

	// Reset removes the actor's record.
	Reset(ctx context.Context, actorID string) error

	// DeleteStale removes expired records not updated since the cutoff.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// BlacklistRepository defines the interface for permanent blacklist entries.
type BlacklistRepository interface {
	// Add inserts an entry; adding an existing actor is a no-op.
	Add(ctx context.Context, entry *threatDomain.BlacklistEntry) error

	// Exists reports whether the actor is blacklisted.
	Exists(ctx context.Context, actorID string) (bool, error)

	// Remove deletes the entry, or returns ErrNotBlacklisted.
	Remove(ctx context.Context, actorID string) error

	// List retrieves all entries newest first.
	List(ctx context.Context) ([]*threatDomain.BlacklistEntry, error)
}

// EventLogger records security events in the audit trail. Satisfied by the
// audit use case.
type EventLogger interface {
	LogEvent(ctx context.Context, input *auditDomain.LogEventInput) (*auditDomain.Event, error)
}

// ThreatUseCase defines the brute-force protection operations.
type ThreatUseCase interface {
	// CheckAndRegisterAuthAttempt processes one authentication attempt.
	// Attempts by locked or blacklisted actors are denied without touching
	// the failure counter. A success resets the counter; a failure
	// increments it and may trigger a lockout or, at the cumulative
	// threshold, a permanent blacklist. Every outcome is audited.
	CheckAndRegisterAuthAttempt(
		ctx context.Context,
		actorID string,
		success bool,
		request auditDomain.RequestContext,
	) (*threatDomain.Decision, error)

	// Status reports the actor's current standing without recording an attempt.
	Status(ctx context.Context, actorID string) (*threatDomain.Decision, error)

	// ClearBlacklist removes an actor from the blacklist and resets their
	// failure state. Operator action; audited.
	ClearBlacklist(ctx context.Context, actorID string, request auditDomain.RequestContext) error

	// ListBlacklist retrieves all blacklist entries.
	ListBlacklist(ctx context.Context) ([]*threatDomain.BlacklistEntry, error)

	// CleanupStale removes lockout records idle for longer than olderThan.
	CleanupStale(ctx context.Context, olderThan time.Duration) (int64, error)
}
