// Package service provides the cryptographic services for PHI field encryption:
// AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305), the envelope codec used for
// stored field values, and wrapping of key material at rest.
package service

import (
	cryptoDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// FieldCipher encrypts and decrypts individual PHI field values as opaque
// envelope strings. Implementations must generate a fresh random nonce per
// encryption call, so identical plaintexts never produce identical envelopes.
type FieldCipher interface {
	// EncryptString encrypts a single field value under the given key and
	// returns the serialized envelope. Empty input passes through unchanged.
	EncryptString(plaintext string, key []byte) (string, error)

	// DecryptString decrypts an envelope produced by EncryptString. Empty
	// input passes through unchanged. Returns ErrDecryptionFailed on a
	// malformed envelope, a wrong key, or tampered ciphertext.
	DecryptString(envelope string, key []byte) (string, error)
}

// KeyWrapper encrypts data-key material for persistence and decrypts it on
// load. Backed by an external key-wrapping key (KMS); raw key material never
// reaches the datastore.
type KeyWrapper interface {
	Wrap(material []byte) ([]byte, error)
	Unwrap(wrapped []byte) ([]byte, error)
}
