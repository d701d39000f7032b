package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
)

const minSecretSize = 32

type integritySigner struct {
	secret []byte
}

// NewIntegritySigner creates an HMAC-based audit event signer. The secret is
// base64-encoded and must decode to at least 32 bytes; the actual signing key
// is derived from it with HKDF-SHA256, keeping the raw secret out of the MAC.
func NewIntegritySigner(encodedSecret string) (IntegritySigner, error) {
	secret, err := base64.StdEncoding.DecodeString(encodedSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid base64", auditDomain.ErrSigningSecretInvalid)
	}
	if len(secret) < minSecretSize {
		return nil, fmt.Errorf(
			"%w: need at least %d bytes, got %d",
			auditDomain.ErrSigningSecretInvalid, minSecretSize, len(secret),
		)
	}
	return &integritySigner{secret: secret}, nil
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key.
// Info parameter: "audit-event-integrity-v1" (versioned for future algorithm changes).
func (s *integritySigner) deriveSigningKey() ([]byte, error) {
	info := []byte("audit-event-integrity-v1")
	reader := hkdf.New(sha256.New, s.secret, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(reader, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// canonicalize converts an audit event to its canonical byte representation.
// Format: id || event_type || actor_id || session_id || ip_address ||
// user_agent || resource_type || resource_id || risk_level || details ||
// created_at. Variable-length fields are length-prefixed to prevent ambiguity.
func (s *integritySigner) canonicalize(event *auditDomain.Event) ([]byte, error) {
	buf := make([]byte, 0, 1024)

	buf = append(buf, event.ID[:]...)
	buf = appendLengthPrefixed(buf, []byte(string(event.EventType)))
	buf = appendLengthPrefixed(buf, []byte(event.Request.ActorID))
	buf = appendLengthPrefixed(buf, []byte(event.Request.SessionID))
	buf = appendLengthPrefixed(buf, []byte(event.Request.IPAddress))
	buf = appendLengthPrefixed(buf, []byte(event.Request.UserAgent))
	buf = appendLengthPrefixed(buf, []byte(event.ResourceType))
	buf = appendLengthPrefixed(buf, []byte(event.ResourceID))
	buf = appendLengthPrefixed(buf, []byte(string(event.RiskLevel)))

	if event.Details != nil {
		detailsBytes, err := json.Marshal(event.Details)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal event details: %w", err)
		}
		buf = appendLengthPrefixed(buf, detailsBytes)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(event.CreatedAt.UnixNano()))
	buf = append(buf, timeBytes...)

	return buf, nil
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	dataLen := len(data)
	if dataLen > 0xFFFFFFFF {
		panic("data length exceeds uint32 max")
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(dataLen))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// Sign generates the HMAC-SHA256 signature for the audit event.
func (s *integritySigner) Sign(event *auditDomain.Event) ([]byte, error) {
	signingKey, err := s.deriveSigningKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer zero(signingKey)

	canonical, err := s.canonicalize(event)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize event: %w", err)
	}

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonical)
	return mac.Sum(nil), nil
}

// Verify checks the event's stored signature against its content.
func (s *integritySigner) Verify(event *auditDomain.Event) error {
	expected, err := s.Sign(event)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(event.Signature, expected) {
		return auditDomain.ErrSignatureInvalid
	}

	return nil
}

// zero overwrites sensitive data in memory with zeros.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
