package domain

// RotationResult summarizes a committed key rotation. The digests are SHA-256
// fingerprints of the old and new key material, safe to log and audit; they
// do not reveal the keys themselves.
type RotationResult struct {
	OldVersion   int
	NewVersion   int
	Processed    int
	OldKeyDigest string
	NewKeyDigest string
}
