// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/base64"
	"time"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
)

// EventResponse represents an audit event in API responses.
type EventResponse struct {
	ID           string         `json:"id"`
	EventType    string         `json:"event_type"`
	ActorID      string         `json:"actor_id,omitempty"`
	SessionID    string         `json:"session_id,omitempty"`
	IPAddress    string         `json:"ip_address,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	ResourceType string         `json:"resource_type,omitempty"`
	ResourceID   string         `json:"resource_id,omitempty"`
	RiskLevel    string         `json:"risk_level"`
	Details      map[string]any `json:"details,omitempty"`
	Signature    string         `json:"signature"`
	CreatedAt    time.Time      `json:"created_at"`
}

// MapEventToResponse converts a domain audit event to an API response.
func MapEventToResponse(event *auditDomain.Event) EventResponse {
	return EventResponse{
		ID:           event.ID.String(),
		EventType:    string(event.EventType),
		ActorID:      event.Request.ActorID,
		SessionID:    event.Request.SessionID,
		IPAddress:    event.Request.IPAddress,
		UserAgent:    event.Request.UserAgent,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		RiskLevel:    string(event.RiskLevel),
		Details:      event.Details,
		Signature:    base64.StdEncoding.EncodeToString(event.Signature),
		CreatedAt:    event.CreatedAt,
	}
}

// ListEventsResponse represents a paginated list of audit events in API responses.
type ListEventsResponse struct {
	Data []EventResponse `json:"data"`
}

// MapEventsToListResponse converts a slice of domain audit events to a list API response.
func MapEventsToListResponse(events []*auditDomain.Event) ListEventsResponse {
	eventResponses := make([]EventResponse, 0, len(events))
	for _, event := range events {
		eventResponses = append(eventResponses, MapEventToResponse(event))
	}
	return ListEventsResponse{
		Data: eventResponses,
	}
}

// VerifyResponse contains the result of an integrity check on one event.
type VerifyResponse struct {
	ID    string `json:"id"`
	Valid bool   `json:"valid"`
}
