// Package usecase defines the business logic interfaces for data key
// lifecycle management and key rotation.
package usecase

import (
	"context"

	cryptoDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/domain"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/phi"
)

// DataKeyRepository defines the interface for data key persistence.
//
// Implementations must support transaction context propagation via
// database.GetTx so that rotation status changes can join the re-encryption
// transaction. Only wrapped key material is ever stored.
type DataKeyRepository interface {
	// Create stores a new data key and fills in its assigned version.
	Create(ctx context.Context, key *cryptoDomain.DataKey) error

	// GetActive returns the single key with active status, or ErrNoActiveKey.
	GetActive(ctx context.Context) (*cryptoDomain.DataKey, error)

	// GetPending returns the pending key of an in-flight rotation, or ErrNotFound.
	GetPending(ctx context.Context) (*cryptoDomain.DataKey, error)

	// UpdateStatus transitions a key to a new lifecycle status.
	UpdateStatus(ctx context.Context, version int, status cryptoDomain.KeyStatus) error

	// Delete removes a key row by version.
	Delete(ctx context.Context, version int) error

	// DeleteByStatus removes all keys with the given status and returns the count.
	DeleteByStatus(ctx context.Context, status cryptoDomain.KeyStatus) (int64, error)
}

// FieldStore enumerates and rewrites stored PHI field values during rotation.
type FieldStore interface {
	ListFieldValues(ctx context.Context, entityType, field string) ([]phi.FieldValue, error)
	UpdateFieldValue(ctx context.Context, entityType, field string, id int64, value string) error
}

// KeyUseCase manages the data key lifecycle.
//
// At any moment exactly one key is active. A rotation introduces a second key
// in pending status; committing the rotation retires the old key and activates
// the new one atomically. A pending key left behind by a crashed rotation
// blocks further rotations until it is aborted.
type KeyUseCase interface {
	// ActiveKey returns the active data key with plaintext material unwrapped.
	// On first use, when no key exists yet, a fresh key is generated, wrapped,
	// and persisted as active. Returns ErrKeyUnavailable when key material
	// cannot be generated or unwrapped; there is no weak fallback.
	//
	// Callers own the returned key and must Close() it after use.
	ActiveKey(ctx context.Context) (*cryptoDomain.DataKey, error)

	// BeginRotation generates the next key in pending status and returns both
	// the current active key and the new pending key with plaintext material.
	// Returns ErrRotationInProgress if a pending key already exists.
	//
	// Callers own both returned keys and must Close() them after use.
	BeginRotation(ctx context.Context) (active, pending *cryptoDomain.DataKey, err error)

	// CommitRotation retires the old key and activates the new one. The two
	// status changes are atomic; when the context already carries a
	// transaction they join it, so the swap commits together with the
	// re-encryption work.
	CommitRotation(ctx context.Context, oldVersion, newVersion int) error

	// AbortRotation discards a pending key, unblocking future rotations.
	AbortRotation(ctx context.Context, pendingVersion int) error

	// PurgeRetired deletes all retired keys and returns the count. Only safe
	// once no stored value is encrypted under a retired key, which rotation
	// guarantees by re-encrypting everything before the old key is retired.
	PurgeRetired(ctx context.Context) (int64, error)
}

// RotationAuditor records a completed key rotation in the audit trail.
// Implementations must not block rotation on audit failures.
type RotationAuditor interface {
	RecordKeyRotation(ctx context.Context, result *cryptoDomain.RotationResult) error
}

// RotationUseCase re-encrypts all registered PHI fields under a new key.
type RotationUseCase interface {
	// RotateAndReencrypt begins a rotation, re-encrypts every registered
	// field value under the new key, and commits the key swap, all within a
	// single transaction. On any failure the transaction rolls back, the
	// pending key is discarded, and a RotationAbortedError reports how many
	// values had been processed; every stored value still decrypts under the
	// pre-rotation key and the rotation is safe to retry.
	RotateAndReencrypt(ctx context.Context) (*cryptoDomain.RotationResult, error)
}
