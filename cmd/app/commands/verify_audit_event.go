package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/app"
	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/config"
	apperrors "github.com/FatihBerkayBahceci/eye-book-sub002/internal/errors"
)

// RunVerifyAuditEvent recomputes the integrity signature of a stored audit
// event. A tampered event is reported as invalid; the integrity failure is
// recorded in the audit trail by the use case.
func RunVerifyAuditEvent(ctx context.Context, id string, format string) error {
	eventID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid event id %q: %w", id, err)
	}

	cfg := config.Load()
	container := app.NewContainer(cfg)

	logger := container.Logger()
	defer closeContainer(container, logger)

	auditUseCase, err := container.AuditUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize audit use case: %w", err)
	}

	err = auditUseCase.VerifyIntegrity(ctx, eventID)
	valid := err == nil

	if err != nil && !apperrors.Is(err, auditDomain.ErrSignatureInvalid) {
		return fmt.Errorf("failed to verify audit event: %w", err)
	}

	logger.Info("audit event verified",
		slog.String("id", eventID.String()),
		slog.Bool("valid", valid),
	)

	if format == "json" {
		outputJSON(map[string]interface{}{"id": eventID.String(), "valid": valid})
	} else if valid {
		fmt.Printf("Audit event %s: signature VALID\n", eventID)
	} else {
		fmt.Printf("Audit event %s: signature INVALID (event tampered)\n", eventID)
	}

	return nil
}
