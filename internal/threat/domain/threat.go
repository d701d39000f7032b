// Package domain defines the brute-force protection domain models.
//
// Repeated authentication failures escalate through temporary lockouts with
// progressively longer durations, and finally to a permanent blacklist that
// only an operator can clear. A successful authentication resets the failure
// counter; attempts made while locked are denied without touching it.
package domain

import "time"

// Lockout escalation schedule. The first lockout lasts five minutes and each
// subsequent one steps up, capped at 24 hours.
var lockoutSchedule = []time.Duration{
	5 * time.Minute,
	15 * time.Minute,
	time.Hour,
	4 * time.Hour,
	24 * time.Hour,
}

// LockoutDuration returns the duration of the n-th lockout for an actor
// (1-based). Values beyond the schedule stay at the cap.
func LockoutDuration(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	if n > len(lockoutSchedule) {
		n = len(lockoutSchedule)
	}
	return lockoutSchedule[n-1]
}

// LockoutRecord tracks authentication failures for one actor. FailedCount
// accumulates across lockouts and resets only on success; LockoutCount drives
// the escalation schedule. LockedUntil is nil when the actor is not locked.
type LockoutRecord struct {
	ActorID      string
	FailedCount  int
	LockoutCount int
	LockedUntil  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LockedAt reports whether the record is locked at the given time.
func (r *LockoutRecord) LockedAt(now time.Time) bool {
	return r.LockedUntil != nil && r.LockedUntil.After(now)
}

// BlacklistEntry marks an actor as permanently denied. Entries never expire;
// removal requires an explicit operator action.
type BlacklistEntry struct {
	ActorID   string
	Reason    string
	CreatedAt time.Time
}

// Decision is the outcome of an authentication attempt check.
//
// Allowed is false only when the actor was already locked or blacklisted
// before the attempt; an attempt that itself triggers a lockout is still
// reported as allowed, with Locked set for the follow-up state.
type Decision struct {
	Allowed     bool
	Locked      bool
	Blacklisted bool
	RetryAfter  time.Duration
}
