package usecase

import (
	"context"
	"log/slog"
	"time"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
	apperrors "github.com/FatihBerkayBahceci/eye-book-sub002/internal/errors"
	threatDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/domain"
)

// Config holds the brute-force protection thresholds.
type Config struct {
	// MaxAttempts is the number of consecutive failures that triggers a lockout.
	MaxAttempts int
	// BlacklistThreshold is the cumulative failure count that triggers a
	// permanent blacklist. Resets only on successful authentication.
	BlacklistThreshold int
}

// threatUseCase implements the ThreatUseCase interface.
type threatUseCase struct {
	lockoutRepo   LockoutRepository
	blacklistRepo BlacklistRepository
	events        EventLogger
	config        Config
	logger        *slog.Logger
	now           func() time.Time
}

// CheckAndRegisterAuthAttempt processes one authentication attempt.
func (t *threatUseCase) CheckAndRegisterAuthAttempt(
	ctx context.Context,
	actorID string,
	success bool,
	request auditDomain.RequestContext,
) (*threatDomain.Decision, error) {
	now := t.now().UTC()
	request.ActorID = actorID

	blacklisted, err := t.blacklistRepo.Exists(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		t.audit(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventLoginFailed,
			Request:   request,
			RiskLevel: auditDomain.RiskMedium,
			Details:   map[string]any{"denied": "blacklisted"},
		})
		return &threatDomain.Decision{Blacklisted: true}, nil
	}

	record, err := t.lockoutRepo.Get(ctx, actorID)
	if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if record != nil && record.LockedAt(now) {
		t.audit(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventLoginFailed,
			Request:   request,
			RiskLevel: auditDomain.RiskMedium,
			Details:   map[string]any{"denied": "locked"},
		})
		return &threatDomain.Decision{
			Locked:     true,
			RetryAfter: record.LockedUntil.Sub(now),
		}, nil
	}

	if success {
		if err := t.lockoutRepo.Reset(ctx, actorID); err != nil {
			return nil, err
		}
		t.audit(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventLoginSuccess,
			Request:   request,
			RiskLevel: auditDomain.RiskLow,
		})
		return &threatDomain.Decision{Allowed: true}, nil
	}

	return t.registerFailure(ctx, actorID, request, now)
}

// registerFailure counts a failed attempt and applies whatever escalation the
// new counter value calls for. Blacklisting wins over a same-attempt lockout.
func (t *threatUseCase) registerFailure(
	ctx context.Context,
	actorID string,
	request auditDomain.RequestContext,
	now time.Time,
) (*threatDomain.Decision, error) {
	record, err := t.lockoutRepo.IncrementFailure(ctx, actorID, now)
	if err != nil {
		return nil, err
	}

	t.audit(ctx, &auditDomain.LogEventInput{
		EventType: auditDomain.EventLoginFailed,
		Request:   request,
		RiskLevel: auditDomain.RiskHigh,
		Details:   map[string]any{"failed_count": record.FailedCount},
	})

	if record.FailedCount >= t.config.BlacklistThreshold {
		err := t.blacklistRepo.Add(ctx, &threatDomain.BlacklistEntry{
			ActorID:   actorID,
			Reason:    "exceeded failure threshold",
			CreatedAt: now,
		})
		if err != nil {
			return nil, err
		}
		t.audit(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventBlacklistApplied,
			Request:   request,
			RiskLevel: auditDomain.RiskCritical,
			Details:   map[string]any{"failed_count": record.FailedCount},
		})
		return &threatDomain.Decision{Allowed: true, Blacklisted: true}, nil
	}

	if record.FailedCount%t.config.MaxAttempts == 0 {
		duration := threatDomain.LockoutDuration(record.LockoutCount + 1)
		until := now.Add(duration)
		if err := t.lockoutRepo.ApplyLockout(ctx, actorID, until, now); err != nil {
			return nil, err
		}
		t.audit(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventLockoutApplied,
			Request:   request,
			RiskLevel: auditDomain.RiskHigh,
			Details: map[string]any{
				"failed_count":     record.FailedCount,
				"lockout_number":   record.LockoutCount + 1,
				"duration_seconds": int(duration.Seconds()),
			},
		})
		return &threatDomain.Decision{Allowed: true, Locked: true, RetryAfter: duration}, nil
	}

	return &threatDomain.Decision{Allowed: true}, nil
}

// Status reports the actor's current standing.
func (t *threatUseCase) Status(
	ctx context.Context,
	actorID string,
) (*threatDomain.Decision, error) {
	blacklisted, err := t.blacklistRepo.Exists(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return &threatDomain.Decision{Blacklisted: true}, nil
	}

	record, err := t.lockoutRepo.Get(ctx, actorID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return &threatDomain.Decision{Allowed: true}, nil
		}
		return nil, err
	}

	now := t.now().UTC()
	if record.LockedAt(now) {
		return &threatDomain.Decision{
			Locked:     true,
			RetryAfter: record.LockedUntil.Sub(now),
		}, nil
	}

	return &threatDomain.Decision{Allowed: true}, nil
}

// ClearBlacklist removes an actor from the blacklist and resets their
// failure state.
func (t *threatUseCase) ClearBlacklist(
	ctx context.Context,
	actorID string,
	request auditDomain.RequestContext,
) error {
	if err := t.blacklistRepo.Remove(ctx, actorID); err != nil {
		return err
	}
	if err := t.lockoutRepo.Reset(ctx, actorID); err != nil {
		return err
	}

	t.audit(ctx, &auditDomain.LogEventInput{
		EventType:    auditDomain.EventBlacklistCleared,
		Request:      request,
		ResourceType: "blacklist_entries",
		ResourceID:   actorID,
		RiskLevel:    auditDomain.RiskMedium,
	})

	return nil
}

// ListBlacklist retrieves all blacklist entries.
func (t *threatUseCase) ListBlacklist(ctx context.Context) ([]*threatDomain.BlacklistEntry, error) {
	return t.blacklistRepo.List(ctx)
}

// CleanupStale removes lockout records idle for longer than olderThan.
func (t *threatUseCase) CleanupStale(
	ctx context.Context,
	olderThan time.Duration,
) (int64, error) {
	cutoff := t.now().UTC().Add(-olderThan)
	return t.lockoutRepo.DeleteStale(ctx, cutoff)
}

// audit records a security event best-effort. Protection decisions must not
// fail because the audit write did.
func (t *threatUseCase) audit(ctx context.Context, input *auditDomain.LogEventInput) {
	if t.events == nil {
		return
	}
	if _, err := t.events.LogEvent(ctx, input); err != nil {
		t.logger.Error("failed to audit auth attempt",
			slog.String("event_type", string(input.EventType)),
			slog.Any("error", err),
		)
	}
}

// NewThreatUseCase creates a new threat use case instance.
func NewThreatUseCase(
	lockoutRepo LockoutRepository,
	blacklistRepo BlacklistRepository,
	events EventLogger,
	config Config,
	logger *slog.Logger,
) ThreatUseCase {
	return &threatUseCase{
		lockoutRepo:   lockoutRepo,
		blacklistRepo: blacklistRepo,
		events:        events,
		config:        config,
		logger:        logger,
		now:           time.Now,
	}
}
