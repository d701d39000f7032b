package usecase

import (
	"context"
	"time"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/metrics"
	threatDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/domain"
)

// threatUseCaseWithMetrics decorates ThreatUseCase with metrics instrumentation.
type threatUseCaseWithMetrics struct {
	next    ThreatUseCase
	metrics metrics.BusinessMetrics
}

// NewThreatUseCaseWithMetrics wraps a ThreatUseCase with metrics recording.
func NewThreatUseCaseWithMetrics(useCase ThreatUseCase, m metrics.BusinessMetrics) ThreatUseCase {
	return &threatUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// CheckAndRegisterAuthAttempt records metrics for auth attempt processing.
func (t *threatUseCaseWithMetrics) CheckAndRegisterAuthAttempt(
	ctx context.Context,
	actorID string,
	success bool,
	request auditDomain.RequestContext,
) (*threatDomain.Decision, error) {
	start := time.Now()
	decision, err := t.next.CheckAndRegisterAuthAttempt(ctx, actorID, success, request)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "threat", "auth_attempt_check", status)
	t.metrics.RecordDuration(ctx, "threat", "auth_attempt_check", time.Since(start), status)

	return decision, err
}

// Status records metrics for standing lookups.
func (t *threatUseCaseWithMetrics) Status(
	ctx context.Context,
	actorID string,
) (*threatDomain.Decision, error) {
	start := time.Now()
	decision, err := t.next.Status(ctx, actorID)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "threat", "status_get", status)
	t.metrics.RecordDuration(ctx, "threat", "status_get", time.Since(start), status)

	return decision, err
}

// ClearBlacklist records metrics for blacklist removal operations.
func (t *threatUseCaseWithMetrics) ClearBlacklist(
	ctx context.Context,
	actorID string,
	request auditDomain.RequestContext,
) error {
	start := time.Now()
	err := t.next.ClearBlacklist(ctx, actorID, request)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "threat", "blacklist_clear", status)
	t.metrics.RecordDuration(ctx, "threat", "blacklist_clear", time.Since(start), status)

	return err
}

// ListBlacklist records metrics for blacklist list operations.
func (t *threatUseCaseWithMetrics) ListBlacklist(
	ctx context.Context,
) ([]*threatDomain.BlacklistEntry, error) {
	start := time.Now()
	entries, err := t.next.ListBlacklist(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "threat", "blacklist_list", status)
	t.metrics.RecordDuration(ctx, "threat", "blacklist_list", time.Since(start), status)

	return entries, err
}

// CleanupStale records metrics for lockout cleanup operations.
func (t *threatUseCaseWithMetrics) CleanupStale(
	ctx context.Context,
	olderThan time.Duration,
) (int64, error) {
	start := time.Now()
	count, err := t.next.CleanupStale(ctx, olderThan)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "threat", "lockout_cleanup", status)
	t.metrics.RecordDuration(ctx, "threat", "lockout_cleanup", time.Since(start), status)

	return count, err
}
