// Package domain defines the key lifecycle domain models for PHI field encryption.
//
// A single symmetric data key encrypts all registered PHI fields. The plaintext
// key material lives only in memory; at rest the key is wrapped by an external
// key-wrapping key (KMS). Rotation supersedes the active key rather than
// deleting it, so previously encrypted values stay readable until every field
// has been re-encrypted.
package domain

import "time"

// DataKey represents a symmetric encryption key for PHI fields.
// Material is the plaintext key, populated only after unwrapping and never
// persisted; WrappedKey is what is stored.
type DataKey struct {
	Version    int       // Monotonically increasing version number
	Material   []byte    // Plaintext key (memory only, zero after use)
	WrappedKey []byte    // Key material encrypted by the KMS wrapping key
	Status     KeyStatus // Lifecycle status (pending, active, retired)
	CreatedAt  time.Time
}

// IsActive reports whether this key is the one used for new encryptions.
func (k *DataKey) IsActive() bool {
	return k.Status == KeyStatusActive
}

// Close zeroes the plaintext key material.
func (k *DataKey) Close() {
	Zero(k.Material)
	k.Material = nil
}
