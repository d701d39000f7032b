package service

import (
	"encoding/base64"

	cryptoDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/crypto/domain"
)

// FieldCipherService implements FieldCipher on top of an AEADManager.
//
// The envelope format is base64(nonce || ciphertext) where the nonce is the
// 12-byte random IV generated per call and the ciphertext carries the AEAD
// authentication tag. Two encryptions of the same plaintext therefore never
// produce the same envelope.
//
// Empty values pass through unchanged in both directions. This keeps empty
// and populated fields distinguishable from the stored shape alone, which is
// a documented contract of the storage format rather than an oversight:
// changing it would break compatibility with values already on disk.
type FieldCipherService struct {
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewFieldCipher creates a FieldCipherService using the given algorithm for
// new encryptions.
func NewFieldCipher(aeadManager AEADManager, alg cryptoDomain.Algorithm) *FieldCipherService {
	return &FieldCipherService{
		aeadManager: aeadManager,
		algorithm:   alg,
	}
}

// EncryptString encrypts a single field value under the given key.
// Empty input is returned unchanged, never encrypted and never padded.
func (f *FieldCipherService) EncryptString(plaintext string, key []byte) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	aead, err := f.aeadManager.CreateCipher(key, f.algorithm)
	if err != nil {
		return "", err
	}

	ciphertext, nonce, err := aead.Encrypt([]byte(plaintext), nil)
	if err != nil {
		return "", cryptoDomain.ErrEncryptionFailed
	}

	envelope := make([]byte, 0, len(nonce)+len(ciphertext))
	envelope = append(envelope, nonce...)
	envelope = append(envelope, ciphertext...)

	return base64.StdEncoding.EncodeToString(envelope), nil
}

// DecryptString decrypts an envelope produced by EncryptString. Empty input is
// returned unchanged. Malformed envelopes, wrong keys, and tampered ciphertext
// all surface as ErrDecryptionFailed so callers can render "value unavailable"
// without leaking which of the three happened.
func (f *FieldCipherService) DecryptString(envelope string, key []byte) (string, error) {
	if envelope == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	aead, err := f.aeadManager.CreateCipher(key, f.algorithm)
	if err != nil {
		return "", err
	}

	nonceSize := 12
	if len(raw) <= nonceSize {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	plaintext, err := aead.Decrypt(raw[nonceSize:], raw[:nonceSize], nil)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	return string(plaintext), nil
}
