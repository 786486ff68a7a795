package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/OluAde/ledger_recon_app/internal/core/ports/services"
	"github.com/OluAde/ledger_recon_app/internal/dto"
	"github.com/OluAde/ledger_recon_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// periodHandler handles HTTP requests for the fiscal period lifecycle.
type periodHandler struct {
	postingService portssvc.PostingSvcFacade
}

// newPeriodHandler creates a new periodHandler.
func newPeriodHandler(postingService portssvc.PostingSvcFacade) *periodHandler {
	return &periodHandler{postingService: postingService}
}

// registerPeriodRoutes registers fiscal period routes nested under an entity.
func registerPeriodRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newPeriodHandler(postingService)

	periods := rg.Group("/periods")
	{
		periods.POST("", h.createPeriod)
		periods.GET("", h.listPeriods)
		periods.GET("/:periodID/close-checklist", h.closeChecklist)
		periods.POST("/:periodID/close", h.closePeriod)
		periods.POST("/:periodID/reopen", h.reopenPeriod)
		periods.POST("/:periodID/lock", h.lockPeriod)
	}
}

// createPeriod godoc
// @Summary Open a fiscal period
// @Description Opens a new fiscal period. Ranges may not overlap an existing period for the entity.
// @Tags periods
// @Accept  json
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   period body dto.CreatePeriodRequest true "Period details"
// @Success 201 {object} dto.PeriodResponse
// @Failure 409 {object} map[string]string "Overlapping period"
// @Security BearerAuth
// @Router /entities/{entity_id}/periods [post]
func (h *periodHandler) createPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")

	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePeriod", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	period, err := h.postingService.CreatePeriod(c.Request.Context(), entityID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create period")
		return
	}

	logger.Info("Fiscal period created", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	c.JSON(http.StatusCreated, dto.ToPeriodResponse(period))
}

// listPeriods godoc
// @Summary List fiscal periods
// @Description Retrieves all fiscal periods for an entity ordered by start date
// @Tags periods
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Success 200 {array} dto.PeriodResponse
// @Security BearerAuth
// @Router /entities/{entity_id}/periods [get]
func (h *periodHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")

	periods, err := h.postingService.ListPeriodsForEntity(c.Request.Context(), entityID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list periods")
		return
	}

	responses := make([]dto.PeriodResponse, len(periods))
	for i := range periods {
		responses[i] = dto.ToPeriodResponse(&periods[i])
	}
	c.JSON(http.StatusOK, responses)
}

// closeChecklist godoc
// @Summary Preview the close checklist
// @Description Enumerates everything currently blocking the period from closing, without attempting the close
// @Tags periods
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.ClosePeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Security BearerAuth
// @Router /entities/{entity_id}/periods/{periodID}/close-checklist [get]
func (h *periodHandler) closeChecklist(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	periodID := c.Param("periodID")

	checklist, err := h.postingService.ClosePeriodChecklist(c.Request.Context(), entityID, periodID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to build close checklist")
		return
	}

	c.JSON(http.StatusOK, dto.ClosePeriodResponse{
		Success:        checklist.Success,
		BlockingIssues: checklist.BlockingIssues,
	})
}

// closePeriod godoc
// @Summary Close a fiscal period
// @Description Closes the period when nothing blocks it. A blocked close returns 422 with the full blocking list.
// @Tags periods
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   periodID path string true "Period ID"
// @Success 200 {object} dto.ClosePeriodResponse
// @Failure 404 {object} map[string]string "Period not found"
// @Failure 422 {object} dto.ClosePeriodResponse "Close blocked"
// @Security BearerAuth
// @Router /entities/{entity_id}/periods/{periodID}/close [post]
func (h *periodHandler) closePeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	periodID := c.Param("periodID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	checklist, err := h.postingService.ClosePeriod(c.Request.Context(), entityID, periodID, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to close period")
		return
	}

	resp := dto.ClosePeriodResponse{
		Success:        checklist.Success,
		BlockingIssues: checklist.BlockingIssues,
	}
	if !checklist.Success {
		logger.Warn("Period close blocked",
			slog.String("period_id", periodID),
			slog.Int("blocking_issues", len(checklist.BlockingIssues)),
		)
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}

	logger.Info("Fiscal period closed", slog.String("period_id", periodID))
	c.JSON(http.StatusOK, resp)
}

// reopenPeriod godoc
// @Summary Reopen a closed period
// @Description Transitions a CLOSED period back to OPEN. LOCKED periods cannot be reopened.
// @Tags periods
// @Param   entity_id path string true "Entity ID"
// @Param   periodID path string true "Period ID"
// @Success 204 "No Content"
// @Failure 422 {object} map[string]string "Period is locked or not closed"
// @Security BearerAuth
// @Router /entities/{entity_id}/periods/{periodID}/reopen [post]
func (h *periodHandler) reopenPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	periodID := c.Param("periodID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.postingService.ReopenPeriod(c.Request.Context(), entityID, periodID, actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to reopen period")
		return
	}

	logger.Info("Fiscal period reopened", slog.String("period_id", periodID))
	c.Status(http.StatusNoContent)
}

// lockPeriod godoc
// @Summary Lock a closed period
// @Description Transitions a CLOSED period to LOCKED. Locking is irreversible.
// @Tags periods
// @Param   entity_id path string true "Entity ID"
// @Param   periodID path string true "Period ID"
// @Success 204 "No Content"
// @Failure 422 {object} map[string]string "Period is not closed"
// @Security BearerAuth
// @Router /entities/{entity_id}/periods/{periodID}/lock [post]
func (h *periodHandler) lockPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	periodID := c.Param("periodID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.postingService.LockPeriod(c.Request.Context(), entityID, periodID, actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to lock period")
		return
	}

	logger.Info("Fiscal period locked", slog.String("period_id", periodID))
	c.Status(http.StatusNoContent)
}
