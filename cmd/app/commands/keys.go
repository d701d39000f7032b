package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/app"
	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/config"
)

// RunInitKey ensures an active data key exists, generating the first one when
// the key table is empty. Safe to run repeatedly.
//
// Requirements: Database must be migrated and KMS_KEY_URI configured.
func RunInitKey(ctx context.Context, format string) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)

	logger := container.Logger()
	defer closeContainer(container, logger)

	keyUseCase, err := container.KeyUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize key use case: %w", err)
	}

	key, err := keyUseCase.ActiveKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize active key: %w", err)
	}
	defer key.Close()

	logger.Info("active data key ready", slog.Int("version", key.Version))

	if format == "json" {
		outputJSON(map[string]interface{}{"version": key.Version, "status": string(key.Status)})
	} else {
		fmt.Printf("Active data key ready (version %d)\n", key.Version)
	}

	return nil
}

// RunRotateKeys rotates the data key and re-encrypts every registered PHI
// field value under the new key. The re-encryption and the key swap happen in
// one transaction; on failure everything rolls back and the old key stays
// active.
//
// Run during a maintenance window: concurrent writers are not supported.
func RunRotateKeys(ctx context.Context, format string) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting key rotation")

	defer closeContainer(container, logger)

	rotationUseCase, err := container.RotationUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize rotation use case: %w", err)
	}

	result, err := rotationUseCase.RotateAndReencrypt(ctx)
	if err != nil {
		return fmt.Errorf("key rotation failed: %w", err)
	}

	logger.Info("key rotation completed",
		slog.Int("old_version", result.OldVersion),
		slog.Int("new_version", result.NewVersion),
		slog.Int("processed", result.Processed),
	)

	if format == "json" {
		outputJSON(map[string]interface{}{
			"old_version": result.OldVersion,
			"new_version": result.NewVersion,
			"processed":   result.Processed,
		})
	} else {
		fmt.Printf(
			"Rotated key version %d -> %d, re-encrypted %d value(s)\n",
			result.OldVersion, result.NewVersion, result.Processed,
		)
	}

	return nil
}

// RunPurgeRetiredKeys deletes retired data keys. Rotation re-encrypts every
// stored value before retiring a key, so retired keys reference no data.
func RunPurgeRetiredKeys(ctx context.Context, format string) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)

	logger := container.Logger()
	defer closeContainer(container, logger)

	keyUseCase, err := container.KeyUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize key use case: %w", err)
	}

	count, err := keyUseCase.PurgeRetired(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge retired keys: %w", err)
	}

	logger.Info("retired keys purged", slog.Int64("count", count))

	// The purge already committed; the audit write is best-effort.
	if auditUseCase, err := container.AuditUseCase(); err == nil {
		_, err := auditUseCase.LogEvent(ctx, &auditDomain.LogEventInput{
			EventType:    auditDomain.EventKeysPurged,
			ResourceType: "encryption_keys",
			RiskLevel:    auditDomain.RiskMedium,
			Details:      map[string]any{"purged": count},
		})
		if err != nil {
			logger.Error("failed to audit key purge", slog.Any("error", err))
		}
	}

	if format == "json" {
		outputJSON(map[string]interface{}{"count": count})
	} else {
		fmt.Printf("Purged %d retired key(s)\n", count)
	}

	return nil
}

// outputJSON prints a result map as indented JSON for machine consumption.
func outputJSON(result map[string]interface{}) {
	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Println(string(jsonBytes))
}
