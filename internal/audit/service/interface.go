// Package service provides the integrity signing service for audit events.
package service

import (
	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
)

// IntegritySigner signs audit events at write time and verifies stored events
// against their signatures.
type IntegritySigner interface {
	// Sign computes the HMAC-SHA256 signature over the event's canonical
	// serialization.
	Sign(event *auditDomain.Event) ([]byte, error)

	// Verify recomputes the event's signature and compares it to the stored
	// one in constant time. Returns ErrSignatureInvalid on mismatch.
	Verify(event *auditDomain.Event) error
}
