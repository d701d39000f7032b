package usecase

import (
	"context"
	"crypto/rand"
	"time"

	cryptoDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/domain"
	cryptoService "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/service"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/database"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/errors"
)

// keyUseCase implements the KeyUseCase interface.
//
// Plaintext key material exists only in memory between unwrap and Close();
// the repository sees wrapped material exclusively.
type keyUseCase struct {
	txManager database.TxManager
	keyRepo   DataKeyRepository
	wrapper   cryptoService.KeyWrapper
}

// generate produces fresh random key material. A failure of the randomness
// source maps to ErrKeyUnavailable so callers abort instead of falling back
// to a weak key.
func (k *keyUseCase) generate() ([]byte, error) {
	material := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(material); err != nil {
		return nil, errors.Wrap(cryptoDomain.ErrKeyUnavailable, err.Error())
	}
	return material, nil
}

// create generates, wraps, and persists a new key in the given status,
// returning it with plaintext material populated.
func (k *keyUseCase) create(
	ctx context.Context,
	status cryptoDomain.KeyStatus,
) (*cryptoDomain.DataKey, error) {
	material, err := k.generate()
	if err != nil {
		return nil, err
	}

	wrapped, err := k.wrapper.Wrap(material)
	if err != nil {
		cryptoDomain.Zero(material)
		return nil, errors.Wrap(cryptoDomain.ErrKeyUnavailable, err.Error())
	}

	key := &cryptoDomain.DataKey{
		Material:   material,
		WrappedKey: wrapped,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}
	if err := k.keyRepo.Create(ctx, key); err != nil {
		key.Close()
		return nil, err
	}

	return key, nil
}

// unwrap populates the plaintext material of a stored key.
func (k *keyUseCase) unwrap(key *cryptoDomain.DataKey) error {
	material, err := k.wrapper.Unwrap(key.WrappedKey)
	if err != nil {
		return errors.Wrap(cryptoDomain.ErrKeyUnavailable, err.Error())
	}
	key.Material = material
	return nil
}

// ActiveKey returns the active data key, generating the first key on first use.
func (k *keyUseCase) ActiveKey(ctx context.Context) (*cryptoDomain.DataKey, error) {
	key, err := k.keyRepo.GetActive(ctx)
	if err == nil {
		if err := k.unwrap(key); err != nil {
			return nil, err
		}
		return key, nil
	}
	if !errors.Is(err, cryptoDomain.ErrNoActiveKey) {
		return nil, err
	}

	key, err = k.create(ctx, cryptoDomain.KeyStatusActive)
	if err == nil {
		return key, nil
	}

	// A concurrent caller may have created the first key; the partial unique
	// index on active status rejects the second insert. Re-read once.
	key, getErr := k.keyRepo.GetActive(ctx)
	if getErr != nil {
		return nil, err
	}
	if err := k.unwrap(key); err != nil {
		return nil, err
	}
	return key, nil
}

// BeginRotation creates the next key in pending status.
func (k *keyUseCase) BeginRotation(
	ctx context.Context,
) (active, pending *cryptoDomain.DataKey, err error) {
	if _, err := k.keyRepo.GetPending(ctx); err == nil {
		return nil, nil, cryptoDomain.ErrRotationInProgress
	} else if !errors.Is(err, errors.ErrNotFound) {
		return nil, nil, err
	}

	active, err = k.ActiveKey(ctx)
	if err != nil {
		return nil, nil, err
	}

	pending, err = k.create(ctx, cryptoDomain.KeyStatusPending)
	if err != nil {
		active.Close()
		return nil, nil, err
	}

	return active, pending, nil
}

// CommitRotation retires the old key and activates the new one atomically.
func (k *keyUseCase) CommitRotation(ctx context.Context, oldVersion, newVersion int) error {
	return k.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := k.keyRepo.UpdateStatus(ctx, oldVersion, cryptoDomain.KeyStatusRetired); err != nil {
			return err
		}
		return k.keyRepo.UpdateStatus(ctx, newVersion, cryptoDomain.KeyStatusActive)
	})
}

// AbortRotation deletes a pending key left by a failed or crashed rotation.
func (k *keyUseCase) AbortRotation(ctx context.Context, pendingVersion int) error {
	return k.keyRepo.Delete(ctx, pendingVersion)
}

// PurgeRetired deletes all retired keys.
func (k *keyUseCase) PurgeRetired(ctx context.Context) (int64, error) {
	return k.keyRepo.DeleteByStatus(ctx, cryptoDomain.KeyStatusRetired)
}

// NewKeyUseCase creates a new key use case instance.
func NewKeyUseCase(
	txManager database.TxManager,
	keyRepo DataKeyRepository,
	wrapper cryptoService.KeyWrapper,
) KeyUseCase {
	return &keyUseCase{
		txManager: txManager,
		keyRepo:   keyRepo,
		wrapper:   wrapper,
	}
}
