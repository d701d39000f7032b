package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/metrics"
)

// auditUseCaseWithMetrics decorates AuditUseCase with metrics instrumentation.
type auditUseCaseWithMetrics struct {
	next    AuditUseCase
	metrics metrics.BusinessMetrics
}

// NewAuditUseCaseWithMetrics wraps an AuditUseCase with metrics recording.
func NewAuditUseCaseWithMetrics(useCase AuditUseCase, m metrics.BusinessMetrics) AuditUseCase {
	return &auditUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// LogEvent records metrics for event write operations.
func (a *auditUseCaseWithMetrics) LogEvent(
	ctx context.Context,
	input *auditDomain.LogEventInput,
) (*auditDomain.Event, error) {
	start := time.Now()
	event, err := a.next.LogEvent(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "event_log", status)
	a.metrics.RecordDuration(ctx, "audit", "event_log", time.Since(start), status)

	return event, err
}

// GetEvent records metrics for single event retrieval operations.
func (a *auditUseCaseWithMetrics) GetEvent(
	ctx context.Context,
	id uuid.UUID,
) (*auditDomain.Event, error) {
	start := time.Now()
	event, err := a.next.GetEvent(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "event_get", status)
	a.metrics.RecordDuration(ctx, "audit", "event_get", time.Since(start), status)

	return event, err
}

// ListEvents records metrics for event list operations.
func (a *auditUseCaseWithMetrics) ListEvents(
	ctx context.Context,
	input *auditDomain.ListEventsInput,
) ([]*auditDomain.Event, error) {
	start := time.Now()
	events, err := a.next.ListEvents(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "event_list", status)
	a.metrics.RecordDuration(ctx, "audit", "event_list", time.Since(start), status)

	return events, err
}

// VerifyIntegrity records metrics for event verification operations.
func (a *auditUseCaseWithMetrics) VerifyIntegrity(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := a.next.VerifyIntegrity(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "event_verify", status)
	a.metrics.RecordDuration(ctx, "audit", "event_verify", time.Since(start), status)

	return err
}

// Wait delegates to the wrapped use case.
func (a *auditUseCaseWithMetrics) Wait() {
	a.next.Wait()
}

// CleanupExpired records metrics for retention cleanup operations.
func (a *auditUseCaseWithMetrics) CleanupExpired(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := a.next.CleanupExpired(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "retention_cleanup", status)
	a.metrics.RecordDuration(ctx, "audit", "retention_cleanup", time.Since(start), status)

	return count, err
}
