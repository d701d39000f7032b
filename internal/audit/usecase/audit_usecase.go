package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
	auditService "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/service"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/database"
	apperrors "github.com/FatihBerkayBahceci/eye-book-sub002/internal/errors"
)

const (
	defaultListLimit = 50

	// patternAnalysisTimeout bounds the background count queries so a slow
	// database cannot keep analysis goroutines alive indefinitely.
	patternAnalysisTimeout = 30 * time.Second
)

// Config holds the tunable policy knobs of the audit trail.
type Config struct {
	// RetentionDays is how long events are kept before cleanup removes them.
	RetentionDays int
	// PatternRepeatThreshold is the number of same-type events from one actor
	// within one hour that counts as suspicious.
	PatternRepeatThreshold int
	// PatternDistinctIPThreshold is the number of distinct source addresses
	// for one actor within 24 hours that counts as suspicious.
	PatternDistinctIPThreshold int
}

// auditUseCase implements the AuditUseCase interface.
type auditUseCase struct {
	txManager database.TxManager
	eventRepo AuditEventRepository
	signer    auditService.IntegritySigner
	notifier  Notifier
	config    Config
	logger    *slog.Logger
	now       func() time.Time
	wg        sync.WaitGroup
}

// LogEvent signs and persists a new audit event.
func (a *auditUseCase) LogEvent(
	ctx context.Context,
	input *auditDomain.LogEventInput,
) (*auditDomain.Event, error) {
	return a.logEvent(ctx, input, true)
}

// logEvent is the shared write path. System-generated follow-up events
// (suspicious activity, integrity failures, cleanup summaries) pass
// analyze=false so they never re-trigger pattern analysis.
func (a *auditUseCase) logEvent(
	ctx context.Context,
	input *auditDomain.LogEventInput,
	analyze bool,
) (*auditDomain.Event, error) {
	riskLevel := input.RiskLevel
	if riskLevel == "" {
		riskLevel = auditDomain.RiskLow
	}

	event := &auditDomain.Event{
		ID:           uuid.Must(uuid.NewV7()),
		EventType:    input.EventType,
		Request:      input.Request,
		ResourceType: input.ResourceType,
		ResourceID:   input.ResourceID,
		RiskLevel:    riskLevel,
		Details:      input.Details,
		CreatedAt:    a.now().UTC(),
	}

	signature, err := a.signer.Sign(event)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to sign audit event")
	}
	event.Signature = signature

	if err := a.eventRepo.Create(ctx, event); err != nil {
		return nil, apperrors.Wrap(err, "failed to create audit event")
	}

	if event.RiskLevel.Notifiable() && a.notifier != nil {
		a.notifier.Notify(ctx, event)
	}

	// Pattern analysis is best-effort and runs off the write path, detached
	// from the request context, so its count queries never delay or fail the
	// action that produced the event.
	if analyze {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()

			analysisCtx, cancel := context.WithTimeout(
				context.WithoutCancel(ctx), patternAnalysisTimeout,
			)
			defer cancel()

			a.analyzePatterns(analysisCtx, event)
		}()
	}

	return event, nil
}

// analyzePatterns checks the event's actor for suspicious behavior and
// records a high-risk suspicious_activity_detected event once a threshold is
// reached. An actor flagged within the last hour is not flagged again, so
// concurrent writes past the threshold produce one finding instead of a flood.
// Analysis failures are logged, never propagated; the original event is
// already durably stored.
func (a *auditUseCase) analyzePatterns(ctx context.Context, event *auditDomain.Event) {
	actorID := event.Request.ActorID
	if actorID == "" {
		return
	}

	now := a.now().UTC()

	var repeats, distinctIPs, flagged int64
	var g errgroup.Group
	g.Go(func() error {
		var err error
		repeats, err = a.eventRepo.CountByTypeAndActorSince(
			ctx, event.EventType, actorID, now.Add(-time.Hour),
		)
		return err
	})
	g.Go(func() error {
		var err error
		distinctIPs, err = a.eventRepo.CountDistinctIPsByActorSince(ctx, actorID, now.Add(-24*time.Hour))
		return err
	})
	g.Go(func() error {
		var err error
		flagged, err = a.eventRepo.CountByTypeAndActorSince(
			ctx, auditDomain.EventSuspiciousActivity, actorID, now.Add(-time.Hour),
		)
		return err
	})
	if err := g.Wait(); err != nil {
		a.logger.Error("pattern analysis failed", slog.Any("error", err))
		return
	}

	if flagged > 0 {
		return
	}

	if repeats >= int64(a.config.PatternRepeatThreshold) {
		a.recordSuspicious(ctx, event, map[string]any{
			"pattern":    "repeated_events",
			"event_type": string(event.EventType),
			"count":      repeats,
			"window":     "1h",
		})
	}

	if distinctIPs >= int64(a.config.PatternDistinctIPThreshold) {
		a.recordSuspicious(ctx, event, map[string]any{
			"pattern": "multiple_source_addresses",
			"count":   distinctIPs,
			"window":  "24h",
		})
	}
}

func (a *auditUseCase) recordSuspicious(
	ctx context.Context,
	trigger *auditDomain.Event,
	details map[string]any,
) {
	_, err := a.logEvent(ctx, &auditDomain.LogEventInput{
		EventType: auditDomain.EventSuspiciousActivity,
		Request:   trigger.Request,
		RiskLevel: auditDomain.RiskHigh,
		Details:   details,
	}, false)
	if err != nil {
		a.logger.Error("failed to record suspicious activity",
			slog.String("actor_id", trigger.Request.ActorID),
			slog.Any("error", err),
		)
	}
}

// Wait blocks until all in-flight pattern analyses complete. Used during
// shutdown.
func (a *auditUseCase) Wait() {
	a.wg.Wait()
}

// GetEvent retrieves a single audit event.
func (a *auditUseCase) GetEvent(ctx context.Context, id uuid.UUID) (*auditDomain.Event, error) {
	return a.eventRepo.GetByID(ctx, id)
}

// ListEvents retrieves audit events newest first.
func (a *auditUseCase) ListEvents(
	ctx context.Context,
	input *auditDomain.ListEventsInput,
) ([]*auditDomain.Event, error) {
	if input.Limit <= 0 {
		input.Limit = defaultListLimit
	}

	events, err := a.eventRepo.List(ctx, input)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit events")
	}

	return events, nil
}

// VerifyIntegrity recomputes the signature of a stored event. A mismatch is
// itself a critical security finding and goes into the audit trail.
func (a *auditUseCase) VerifyIntegrity(ctx context.Context, id uuid.UUID) error {
	event, err := a.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := a.signer.Verify(event); err != nil {
		_, logErr := a.logEvent(ctx, &auditDomain.LogEventInput{
			EventType:    auditDomain.EventIntegrityFailed,
			ResourceType: "audit_events",
			ResourceID:   id.String(),
			RiskLevel:    auditDomain.RiskCritical,
			Details: map[string]any{
				"event_type": string(event.EventType),
				"created_at": event.CreatedAt.Format(time.RFC3339Nano),
			},
		}, false)
		if logErr != nil {
			a.logger.Error("failed to record integrity failure",
				slog.String("event_id", id.String()),
				slog.Any("error", logErr),
			)
		}
		return err
	}

	return nil
}

// CleanupExpired deletes events past retention and records a summary event.
// Both happen in one transaction so the summary never reports a cleanup that
// did not commit.
func (a *auditUseCase) CleanupExpired(ctx context.Context) (int64, error) {
	cutoff := a.now().UTC().AddDate(0, 0, -a.config.RetentionDays)

	var deleted int64
	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = a.eventRepo.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return err
		}

		_, err = a.logEvent(ctx, &auditDomain.LogEventInput{
			EventType: auditDomain.EventRetentionCleanup,
			RiskLevel: auditDomain.RiskLow,
			Details: map[string]any{
				"deleted":        deleted,
				"cutoff":         cutoff.Format(time.RFC3339),
				"retention_days": a.config.RetentionDays,
			},
		}, false)
		return err
	})
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to clean up audit events")
	}

	return deleted, nil
}

// NewAuditUseCase creates a new audit use case instance. The notifier may be
// nil when alerting is not wired, e.g. in CLI maintenance commands.
func NewAuditUseCase(
	txManager database.TxManager,
	eventRepo AuditEventRepository,
	signer auditService.IntegritySigner,
	notifier Notifier,
	config Config,
	logger *slog.Logger,
) AuditUseCase {
	return &auditUseCase{
		txManager: txManager,
		eventRepo: eventRepo,
		signer:    signer,
		notifier:  notifier,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}
