// Package http provides HTTP handlers for audit trail forensics operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/http/dto"
	auditUseCase "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/usecase"
	apperrors "github.com/FatihBerkayBahceci/eye-book-sub002/internal/errors"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/httputil"
)

// AuditEventHandler handles HTTP requests for audit event operations.
type AuditEventHandler struct {
	auditUseCase auditUseCase.AuditUseCase
	logger       *slog.Logger
}

// NewAuditEventHandler creates a new audit event handler with required dependencies.
func NewAuditEventHandler(
	useCase auditUseCase.AuditUseCase,
	logger *slog.Logger,
) *AuditEventHandler {
	return &AuditEventHandler{
		auditUseCase: useCase,
		logger:       logger,
	}
}

// RegisterRoutes registers the audit event routes on the given group.
func (h *AuditEventHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/audit-events", h.ListHandler)
	rg.GET("/audit-events/:id", h.GetHandler)
	rg.GET("/audit-events/:id/verify", h.VerifyHandler)
}

// ListHandler retrieves audit events with pagination and optional filters.
// GET /v1/audit-events?offset=0&limit=50&event_type=phi_access&actor_id=u1&risk_level=high
// &created_at_from=2026-02-01T00:00:00Z&created_at_to=2026-02-14T23:59:59Z
// Returns 200 OK with events ordered by created_at descending (newest first).
// Timestamps accept RFC3339 and are converted to UTC; both boundaries are inclusive.
func (h *AuditEventHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	input := &auditDomain.ListEventsInput{
		Offset:    offset,
		Limit:     limit,
		EventType: auditDomain.EventType(c.Query("event_type")),
		ActorID:   c.Query("actor_id"),
		RiskLevel: auditDomain.RiskLevel(c.Query("risk_level")),
	}

	if fromStr := c.Query("created_at_from"); fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			httputil.HandleValidationErrorGin(c,
				fmt.Errorf("invalid created_at_from format: must be RFC3339 (e.g., 2026-02-01T00:00:00Z)"),
				h.logger)
			return
		}
		utcTime := parsed.UTC()
		input.CreatedAtFrom = &utcTime
	}

	if toStr := c.Query("created_at_to"); toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			httputil.HandleValidationErrorGin(c,
				fmt.Errorf("invalid created_at_to format: must be RFC3339 (e.g., 2026-02-14T23:59:59Z)"),
				h.logger)
			return
		}
		utcTime := parsed.UTC()
		input.CreatedAtTo = &utcTime
	}

	if input.CreatedAtFrom != nil && input.CreatedAtTo != nil &&
		input.CreatedAtFrom.After(*input.CreatedAtTo) {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("created_at_from must be before or equal to created_at_to"),
			h.logger)
		return
	}

	events, err := h.auditUseCase.ListEvents(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEventsToListResponse(events))
}

// GetHandler retrieves a single audit event by its identifier.
// GET /v1/audit-events/:id
// Returns 200 OK with the event, or 404 Not Found.
func (h *AuditEventHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid event id: must be a UUID"), h.logger)
		return
	}

	event, err := h.auditUseCase.GetEvent(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEventToResponse(event))
}

// VerifyHandler recomputes and checks the integrity signature of one event.
// GET /v1/audit-events/:id/verify
// Returns 200 OK with valid=true or valid=false. A failed check is a normal
// query result for the caller; the critical follow-up event is recorded by
// the use case.
func (h *AuditEventHandler) VerifyHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid event id: must be a UUID"), h.logger)
		return
	}

	err = h.auditUseCase.VerifyIntegrity(c.Request.Context(), id)
	if err != nil {
		if apperrors.Is(err, auditDomain.ErrSignatureInvalid) {
			c.JSON(http.StatusOK, dto.VerifyResponse{ID: id.String(), Valid: false})
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.VerifyResponse{ID: id.String(), Valid: true})
}
