// Package domain defines the tamper-evident audit trail domain models.
//
// Every security-relevant operation produces an immutable audit event. Each
// event carries an HMAC signature computed over its canonical serialization,
// so any after-the-fact modification of a stored event is detectable.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies the kind of operation an audit event records.
type EventType string

// Audit event types.
const (
	EventPHIAccess          EventType = "phi_access"
	EventPHIModification    EventType = "phi_modification"
	EventLoginSuccess       EventType = "login_success"
	EventLoginFailed        EventType = "login_failed"
	EventLockoutApplied     EventType = "lockout_applied"
	EventBlacklistApplied   EventType = "blacklist_applied"
	EventBlacklistCleared   EventType = "blacklist_cleared"
	EventKeyRotated         EventType = "encryption_key_rotated"
	EventKeysPurged         EventType = "encryption_keys_purged"
	EventRetentionCleanup   EventType = "audit_retention_cleanup"
	EventSuspiciousActivity EventType = "suspicious_activity_detected"
	EventIntegrityFailed    EventType = "integrity_check_failed"
)

// RiskLevel classifies the severity of an audit event.
type RiskLevel string

// Risk levels, ordered from least to most severe. Events at RiskHigh or
// RiskCritical trigger security notifications.
const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Notifiable reports whether events at this risk level alert security staff.
func (r RiskLevel) Notifiable() bool {
	return r == RiskHigh || r == RiskCritical
}

// RequestContext captures who performed an operation and from where. All
// fields are optional; system-initiated operations carry an empty context.
type RequestContext struct {
	ActorID   string
	SessionID string
	IPAddress string
	UserAgent string
}

// Event is one immutable entry in the audit trail. Signature is the
// HMAC-SHA256 over the event's canonical serialization; it is computed once
// at write time and never updated.
type Event struct {
	ID           uuid.UUID
	EventType    EventType
	Request      RequestContext
	ResourceType string
	ResourceID   string
	RiskLevel    RiskLevel
	Details      map[string]any
	Signature    []byte
	CreatedAt    time.Time
}

// LogEventInput carries the caller-supplied portion of a new audit event.
// ID, Signature, and CreatedAt are assigned at write time.
type LogEventInput struct {
	EventType    EventType
	Request      RequestContext
	ResourceType string
	ResourceID   string
	RiskLevel    RiskLevel
	Details      map[string]any
}

// ListEventsInput holds pagination and the optional filters for querying the
// audit trail. Zero values mean no filter; time boundaries are inclusive.
type ListEventsInput struct {
	Offset        int
	Limit         int
	EventType     EventType
	ActorID       string
	RiskLevel     RiskLevel
	CreatedAtFrom *time.Time
	CreatedAtTo   *time.Time
}
