package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/app"
	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/config"
)

// RunClearBlacklist removes an actor from the permanent blacklist and resets
// their failure state. The operator action is recorded in the audit trail.
func RunClearBlacklist(ctx context.Context, actorID string, format string) error {
	if actorID == "" {
		return fmt.Errorf("actor must not be empty")
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)

	logger := container.Logger()
	defer closeContainer(container, logger)

	threatUseCase, err := container.ThreatUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize threat use case: %w", err)
	}

	if err := threatUseCase.ClearBlacklist(ctx, actorID, auditDomain.RequestContext{}); err != nil {
		return fmt.Errorf("failed to clear blacklist entry: %w", err)
	}

	logger.Info("blacklist entry cleared", slog.String("actor_id", actorID))

	if format == "json" {
		outputJSON(map[string]interface{}{"actor_id": actorID, "cleared": true})
	} else {
		fmt.Printf("Cleared blacklist entry for actor %s\n", actorID)
	}

	return nil
}

// RunCleanLockouts removes expired lockout records that have been idle for
// longer than the given number of days.
func RunCleanLockouts(ctx context.Context, days int, format string) error {
	if days <= 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("cleaning stale lockout records", slog.Int("days", days))

	defer closeContainer(container, logger)

	threatUseCase, err := container.ThreatUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize threat use case: %w", err)
	}

	count, err := threatUseCase.CleanupStale(ctx, time.Duration(days)*24*time.Hour)
	if err != nil {
		return fmt.Errorf("failed to clean lockout records: %w", err)
	}

	logger.Info("lockout cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
	)

	if format == "json" {
		outputJSON(map[string]interface{}{"count": count, "days": days})
	} else {
		fmt.Printf("Removed %d stale lockout record(s) older than %d day(s)\n", count, days)
	}

	return nil
}
