// Package http provides HTTP handlers for brute-force protection operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	auditDomain "github.com/FatihBerkayBahceci/eye-book-sub002/internal/audit/domain"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/httputil"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/http/dto"
	threatUseCase "github.com/FatihBerkayBahceci/eye-book-sub002/internal/threat/usecase"
	"github.com/FatihBerkayBahceci/eye-book-sub002/internal/validation"
)

// ThreatHandler handles HTTP requests for brute-force protection operations.
type ThreatHandler struct {
	threatUseCase threatUseCase.ThreatUseCase
	logger        *slog.Logger
}

// NewThreatHandler creates a new threat handler with required dependencies.
func NewThreatHandler(
	useCase threatUseCase.ThreatUseCase,
	logger *slog.Logger,
) *ThreatHandler {
	return &ThreatHandler{
		threatUseCase: useCase,
		logger:        logger,
	}
}

// RegisterRoutes registers the threat protection routes on the given group.
func (h *ThreatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth-attempts", h.AuthAttemptHandler)
	rg.GET("/lockouts/:actor", h.StatusHandler)
	rg.GET("/blacklist", h.ListBlacklistHandler)
	rg.DELETE("/blacklist/:actor", h.ClearBlacklistHandler)
}

// AuthAttemptHandler registers one authentication attempt and returns the
// resulting access decision.
// POST /v1/auth-attempts
// The caller reports the attempt outcome; source address and user agent are
// taken from the request when not supplied. Returns 200 OK with the decision.
func (h *ThreatHandler) AuthAttemptHandler(c *gin.Context) {
	var request dto.AuthAttemptRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := request.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, validation.WrapValidationError(err), h.logger)
		return
	}

	userAgent := request.UserAgent
	if userAgent == "" {
		userAgent = c.Request.UserAgent()
	}

	decision, err := h.threatUseCase.CheckAndRegisterAuthAttempt(
		c.Request.Context(),
		request.ActorID,
		request.Success,
		auditDomain.RequestContext{
			SessionID: request.SessionID,
			IPAddress: c.ClientIP(),
			UserAgent: userAgent,
		},
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDecisionToResponse(decision))
}

// StatusHandler reports an actor's current standing without recording an attempt.
// GET /v1/lockouts/:actor
func (h *ThreatHandler) StatusHandler(c *gin.Context) {
	decision, err := h.threatUseCase.Status(c.Request.Context(), c.Param("actor"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDecisionToResponse(decision))
}

// ListBlacklistHandler retrieves all blacklist entries, newest first.
// GET /v1/blacklist
func (h *ThreatHandler) ListBlacklistHandler(c *gin.Context) {
	entries, err := h.threatUseCase.ListBlacklist(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapBlacklistToListResponse(entries))
}

// ClearBlacklistHandler removes an actor from the blacklist.
// DELETE /v1/blacklist/:actor
// Returns 204 No Content on success, or 404 Not Found when the actor is not
// blacklisted.
func (h *ThreatHandler) ClearBlacklistHandler(c *gin.Context) {
	err := h.threatUseCase.ClearBlacklist(
		c.Request.Context(),
		c.Param("actor"),
		auditDomain.RequestContext{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		},
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
