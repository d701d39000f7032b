package domain

// Algorithm represents the authenticated encryption algorithm used for PHI fields.
//
// Both supported algorithms provide Authenticated Encryption with Associated Data
// (AEAD), so every ciphertext carries an integrity tag and tampering is detected
// at decryption time. The subsystem never encrypts PHI with an unauthenticated mode.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	// Preferred on CPUs with AES-NI hardware acceleration. 256-bit key,
	// 12-byte nonce, 16-byte authentication tag.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption
	// algorithm. Constant-time in software, preferred on platforms without
	// AES hardware acceleration. 256-bit key, 12-byte nonce, 16-byte tag.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// KeyStatus tracks a data key through its lifecycle.
//
// Exactly one key is active at any time. A rotation creates a pending key,
// re-encrypts every registered PHI field under it inside one transaction, and
// only then promotes it to active while the previous key moves to retired.
// Retired keys reference no data and are eligible for purging.
type KeyStatus string

const (
	// KeyStatusPending marks a freshly generated key that is not yet active.
	// Pending keys exist only during a rotation window.
	KeyStatusPending KeyStatus = "pending"

	// KeyStatusActive marks the single key used for all new encryptions.
	KeyStatusActive KeyStatus = "active"

	// KeyStatusRetired marks a key no stored value references anymore.
	KeyStatusRetired KeyStatus = "retired"
)

// KeySize is the required key length in bytes for both supported algorithms.
const KeySize = 32
