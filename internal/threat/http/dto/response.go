package dto

import (
	"time"

	threatDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/domain"
)

// DecisionResponse represents an access decision in API responses.
type DecisionResponse struct {
	Allowed           bool  `json:"allowed"`
	Locked            bool  `json:"locked"`
	Blacklisted       bool  `json:"blacklisted"`
	RetryAfterSeconds int64 `json:"retry_after_seconds,omitempty"`
}

// MapDecisionToResponse converts a domain decision to an API response.
func MapDecisionToResponse(decision *threatDomain.Decision) DecisionResponse {
	return DecisionResponse{
		Allowed:           decision.Allowed,
		Locked:            decision.Locked,
		Blacklisted:       decision.Blacklisted,
		RetryAfterSeconds: int64(decision.RetryAfter.Seconds()),
	}
}

// BlacklistEntryResponse represents a blacklist entry in API responses.
type BlacklistEntryResponse struct {
	ActorID   string    `json:"actor_id"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// ListBlacklistResponse represents the full blacklist in API responses.
type ListBlacklistResponse struct {
	Data []BlacklistEntryResponse `json:"data"`
}

// MapBlacklistToListResponse converts domain blacklist entries to a list API response.
func MapBlacklistToListResponse(entries []*threatDomain.BlacklistEntry) ListBlacklistResponse {
	entryResponses := make([]BlacklistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		entryResponses = append(entryResponses, BlacklistEntryResponse{
			ActorID:   entry.ActorID,
			Reason:    entry.Reason,
			CreatedAt: entry.CreatedAt,
		})
	}
	return ListBlacklistResponse{
		Data: entryResponses,
	}
}
