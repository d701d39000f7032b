package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/domain"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/metrics"
)

// keyUseCaseWithMetrics decorates KeyUseCase with metrics instrumentation.
type keyUseCaseWithMetrics struct {
	next    KeyUseCase
	metrics metrics.BusinessMetrics
}

// NewKeyUseCaseWithMetrics wraps a KeyUseCase with metrics recording.
func NewKeyUseCaseWithMetrics(useCase KeyUseCase, m metrics.BusinessMetrics) KeyUseCase {
	return &keyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// ActiveKey records metrics for active key resolution.
func (k *keyUseCaseWithMetrics) ActiveKey(ctx context.Context) (*cryptoDomain.DataKey, error) {
	start := time.Now()
	key, err := k.next.ActiveKey(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "crypto", "key_active", status)
	k.metrics.RecordDuration(ctx, "crypto", "key_active", time.Since(start), status)

	return key, err
}

// BeginRotation records metrics for rotation start operations.
func (k *keyUseCaseWithMetrics) BeginRotation(
	ctx context.Context,
) (*cryptoDomain.DataKey, *cryptoDomain.DataKey, error) {
	start := time.Now()
	active, pending, err := k.next.BeginRotation(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "crypto", "key_rotation_begin", status)
	k.metrics.RecordDuration(ctx, "crypto", "key_rotation_begin", time.Since(start), status)

	return active, pending, err
}

// CommitRotation records metrics for rotation commit operations.
func (k *keyUseCaseWithMetrics) CommitRotation(ctx context.Context, oldVersion, newVersion int) error {
	start := time.Now()
	err := k.next.CommitRotation(ctx, oldVersion, newVersion)

	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "crypto", "key_rotation_commit", status)
	k.metrics.RecordDuration(ctx, "crypto", "key_rotation_commit", time.Since(start), status)

	return err
}

// AbortRotation records metrics for rotation abort operations.
func (k *keyUseCaseWithMetrics) AbortRotation(ctx context.Context, pendingVersion int) error {
	start := time.Now()
	err := k.next.AbortRotation(ctx, pendingVersion)

	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "crypto", "key_rotation_abort", status)
	k.metrics.RecordDuration(ctx, "crypto", "key_rotation_abort", time.Since(start), status)

	return err
}

// PurgeRetired records metrics for retired key purge operations.
func (k *keyUseCaseWithMetrics) PurgeRetired(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := k.next.PurgeRetired(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	k.metrics.RecordOperation(ctx, "crypto", "key_purge_retired", status)
	k.metrics.RecordDuration(ctx, "crypto", "key_purge_retired", time.Since(start), status)

	return count, err
}

// rotationUseCaseWithMetrics decorates RotationUseCase with metrics instrumentation.
type rotationUseCaseWithMetrics struct {
	next    RotationUseCase
	metrics metrics.BusinessMetrics
}

// NewRotationUseCaseWithMetrics wraps a RotationUseCase with metrics recording.
func NewRotationUseCaseWithMetrics(useCase RotationUseCase, m metrics.BusinessMetrics) RotationUseCase {
	return &rotationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// RotateAndReencrypt records metrics for full key rotation runs.
func (r *rotationUseCaseWithMetrics) RotateAndReencrypt(
	ctx context.Context,
) (*cryptoDomain.RotationResult, error) {
	start := time.Now()
	result, err := r.next.RotateAndReencrypt(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "crypto", "key_rotate", status)
	r.metrics.RecordDuration(ctx, "crypto", "key_rotate", time.Since(start), status)

	return result, err
}
