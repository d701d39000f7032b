package domain

import (
	"fmt"

	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors so
// callers can branch on intent (errors.Is) without inspecting messages.
var (
	// ErrKeyUnavailable indicates no usable encryption key could be obtained.
	// Raised when the secure randomness source fails during key generation or
	// when the wrapping key cannot unwrap stored material. There is no weak
	// fallback; callers must treat this as fatal for the operation.
	ErrKeyUnavailable = errors.New("encryption key unavailable")

	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrEncryptionFailed indicates an encryption operation failed. Callers
	// must reject the write rather than fall back to storing plaintext.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed indicates a decryption operation failed due to a
	// malformed envelope, a wrong key, or tampered ciphertext. The specific
	// cause is not disclosed to prevent information leakage.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrNoActiveKey indicates no data key currently has active status.
	ErrNoActiveKey = errors.Wrap(errors.ErrNotFound, "no active data key")

	// ErrRotationInProgress indicates a pending key already exists, meaning a
	// previous rotation was started and neither committed nor aborted.
	ErrRotationInProgress = errors.Wrap(errors.ErrConflict, "key rotation already in progress")
)

// RotationAbortedError reports a key rotation that was rolled back entirely.
// The active key pointer is unchanged and every stored value still decrypts
// under the pre-rotation key, so the rotation is safe to retry. Processed
// counts the records re-encrypted before the failure, for diagnostics only.
type RotationAbortedError struct {
	Processed int
	Err       error
}

// Error implements the error interface.
func (e *RotationAbortedError) Error() string {
	return fmt.Sprintf("key rotation aborted after %d records: %v", e.Processed, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RotationAbortedError) Unwrap() error {
	return e.Err
}
