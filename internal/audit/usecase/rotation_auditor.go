package usecase

import (
	"context"
	"strconv"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
	cryptoDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/domain"
)

// rotationAuditor records completed key rotations in the audit trail. It
// satisfies the crypto use case's RotationAuditor interface.
type rotationAuditor struct {
	events AuditUseCase
}

// NewRotationAuditor creates an auditor that writes key rotation events
// through the given audit use case.
func NewRotationAuditor(events AuditUseCase) *rotationAuditor {
	return &rotationAuditor{events: events}
}

// RecordKeyRotation writes an encryption_key_rotated event. The result carries
// only key digests, never raw key material.
func (a *rotationAuditor) RecordKeyRotation(
	ctx context.Context,
	result *cryptoDomain.RotationResult,
) error {
	_, err := a.events.LogEvent(ctx, &auditDomain.LogEventInput{
		EventType:    auditDomain.EventKeyRotated,
		ResourceType: "encryption_keys",
		ResourceID:   strconv.Itoa(result.NewVersion),
		RiskLevel:    auditDomain.RiskMedium,
		Details: map[string]any{
			"old_version":    result.OldVersion,
			"new_version":    result.NewVersion,
			"processed":      result.Processed,
			"old_key_digest": result.OldKeyDigest,
			"new_key_digest": result.NewKeyDigest,
		},
	})
	return err
}
