package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/app"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/config"
)

// RunCleanAuditLogs deletes audit events older than the retention period and
// records a cleanup summary event. A positive days argument overrides the
// configured retention period for this run.
//
// Requirements: Database must be migrated and accessible.
func RunCleanAuditLogs(ctx context.Context, days int, format string) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	cfg := config.Load()
	if days > 0 {
		cfg.AuditRetentionDays = days
	}

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("cleaning audit logs",
		slog.Int("retention_days", cfg.AuditRetentionDays),
	)

	defer closeContainer(container, logger)

	auditUseCase, err := container.AuditUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize audit use case: %w", err)
	}

	count, err := auditUseCase.CleanupExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete audit logs: %w", err)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("retention_days", cfg.AuditRetentionDays),
	)

	if format == "json" {
		outputJSON(map[string]interface{}{
			"count":          count,
			"retention_days": cfg.AuditRetentionDays,
		})
	} else {
		fmt.Printf(
			"Successfully deleted %d audit event(s) older than %d day(s)\n",
			count, cfg.AuditRetentionDays,
		)
	}

	return nil
}
