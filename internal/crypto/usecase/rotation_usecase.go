package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"

	cryptoDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/domain"
	cryptoService "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/service"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/database"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/errors"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/phi"
)

// rotationUseCase implements the RotationUseCase interface.
//
// The registry drives the work list: every registered entity/field pair is
// enumerated, decrypted under the old key, and re-encrypted under the new
// one. The whole pass plus the key status swap runs in one transaction, so a
// failure anywhere leaves the database exactly as it was before the rotation
// started.
type rotationUseCase struct {
	txManager   database.TxManager
	keys        KeyUseCase
	registry    *phi.Registry
	fieldCipher cryptoService.FieldCipher
	fieldStore  FieldStore
	auditor     RotationAuditor
	logger      *slog.Logger
}

// RotateAndReencrypt rotates the data key and re-encrypts all registered fields.
func (r *rotationUseCase) RotateAndReencrypt(
	ctx context.Context,
) (*cryptoDomain.RotationResult, error) {
	oldKey, newKey, err := r.keys.BeginRotation(ctx)
	if err != nil {
		return nil, err
	}
	defer oldKey.Close()
	defer newKey.Close()

	result := &cryptoDomain.RotationResult{
		OldVersion:   oldKey.Version,
		NewVersion:   newKey.Version,
		OldKeyDigest: keyDigest(oldKey.Material),
		NewKeyDigest: keyDigest(newKey.Material),
	}

	err = r.txManager.WithTx(ctx, func(ctx context.Context) error {
		for _, entity := range r.registry.Entities() {
			for _, field := range r.registry.Fields(entity) {
				if err := r.reencryptField(ctx, entity, field, oldKey, newKey, result); err != nil {
					return err
				}
			}
		}
		return r.keys.CommitRotation(ctx, oldKey.Version, newKey.Version)
	})
	if err != nil {
		r.abort(ctx, newKey.Version)
		return nil, &cryptoDomain.RotationAbortedError{Processed: result.Processed, Err: err}
	}

	r.logger.Info("key rotation committed",
		slog.Int("old_version", result.OldVersion),
		slog.Int("new_version", result.NewVersion),
		slog.Int("processed", result.Processed),
	)

	if r.auditor != nil {
		if err := r.auditor.RecordKeyRotation(ctx, result); err != nil {
			r.logger.Error("failed to audit key rotation", slog.Any("error", err))
		}
	}

	return result, nil
}

// reencryptField rewrites every stored value of one entity field under the
// new key. A value that fails to decrypt aborts the rotation; silently
// skipping it would strand that value on the retired key.
func (r *rotationUseCase) reencryptField(
	ctx context.Context,
	entity, field string,
	oldKey, newKey *cryptoDomain.DataKey,
	result *cryptoDomain.RotationResult,
) error {
	values, err := r.fieldStore.ListFieldValues(ctx, entity, field)
	if err != nil {
		return err
	}

	for _, value := range values {
		plaintext, err := r.fieldCipher.DecryptString(value.Value, oldKey.Material)
		if err != nil {
			return errors.Wrap(err, "failed to decrypt "+entity+"."+field)
		}

		envelope, err := r.fieldCipher.EncryptString(plaintext, newKey.Material)
		if err != nil {
			return errors.Wrap(err, "failed to encrypt "+entity+"."+field)
		}

		if err := r.fieldStore.UpdateFieldValue(ctx, entity, field, value.ID, envelope); err != nil {
			return err
		}
		result.Processed++
	}

	return nil
}

// abort discards the pending key after a rolled-back rotation. The rollback
// already restored the data; a leftover pending key would only block the
// next attempt.
func (r *rotationUseCase) abort(ctx context.Context, pendingVersion int) {
	if err := r.keys.AbortRotation(ctx, pendingVersion); err != nil {
		r.logger.Error("failed to discard pending key after aborted rotation",
			slog.Int("pending_version", pendingVersion),
			slog.Any("error", err),
		)
	}
}

func keyDigest(material []byte) string {
	sum := sha256.Sum256(material)
	return hex.EncodeToString(sum[:])
}

// NewRotationUseCase creates a new rotation use case instance. The auditor
// may be nil when audit recording is not wired, e.g. in CLI key tooling.
func NewRotationUseCase(
	txManager database.TxManager,
	keys KeyUseCase,
	registry *phi.Registry,
	fieldCipher cryptoService.FieldCipher,
	fieldStore FieldStore,
	auditor RotationAuditor,
	logger *slog.Logger,
) RotationUseCase {
	return &rotationUseCase{
		txManager:   txManager,
		keys:        keys,
		registry:    registry,
		fieldCipher: fieldCipher,
		fieldStore:  fieldStore,
		auditor:     auditor,
		logger:      logger,
	}
}
