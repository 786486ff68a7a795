package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/OluAde/ledger_recon_app/internal/core/ports/services"
	"github.com/OluAde/ledger_recon_app/internal/dto"
	"github.com/OluAde/ledger_recon_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journals.
type journalHandler struct {
	postingService portssvc.PostingSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(postingService portssvc.PostingSvcFacade) *journalHandler {
	return &journalHandler{postingService: postingService}
}

// registerJournalRoutes registers journal and account-statement routes nested under an entity.
func registerJournalRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newJournalHandler(postingService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.postJournal)
		journals.GET("", h.listJournals)
		journals.GET("/:journalID", h.getJournal)
		journals.POST("/:journalID/post", h.postDraftJournal)
		journals.POST("/:journalID/reverse", h.reverseJournal)
	}

	// Account statement sits beside the chart-of-accounts routes but is served
	// by the posting engine, which owns transaction history.
	rg.GET("/accounts/:accountID/transactions", h.listAccountTransactions)
}

// postJournal godoc
// @Summary Post a journal entry
// @Description Validates and commits a balanced journal entry. With asDraft set the entry is saved unposted.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   journal body dto.CreateJournalRequest true "Journal draft"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Unbalanced or invalid journal"
// @Failure 422 {object} map[string]string "Period closed or locked"
// @Security BearerAuth
// @Router /entities/{entity_id}/journals [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")

	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	journal, err := h.postingService.PostJournal(c.Request.Context(), entityID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post journal")
		return
	}

	logger.Info("Journal posted", slog.String("journal_id", journal.JournalID), slog.String("status", string(journal.Status)))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// getJournal godoc
// @Summary Get a journal entry
// @Description Retrieves a journal and its transaction lines
// @Tags journals
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} map[string]string "Journal not found"
// @Security BearerAuth
// @Router /entities/{entity_id}/journals/{journalID} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	journalID := c.Param("journalID")

	journal, err := h.postingService.GetJournalByID(c.Request.Context(), entityID, journalID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve journal")
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// listJournals godoc
// @Summary List journals
// @Description Retrieves a token-paginated list of journals for an entity
// @Tags journals
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Param   includeReversals query bool false "Include reversal journals"
// @Success 200 {object} dto.ListJournalsResponse
// @Security BearerAuth
// @Router /entities/{entity_id}/journals [get]
func (h *journalHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")

	var params dto.ListJournalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListJournals", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.postingService.ListJournals(c.Request.Context(), entityID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list journals")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// postDraftJournal godoc
// @Summary Post a draft journal
// @Description Posts a previously saved draft, re-running all period and balance checks as of now
// @Tags journals
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 409 {object} map[string]string "Journal is not a draft"
// @Failure 422 {object} map[string]string "Period closed or locked"
// @Security BearerAuth
// @Router /entities/{entity_id}/journals/{journalID}/post [post]
func (h *journalHandler) postDraftJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	journalID := c.Param("journalID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	journal, err := h.postingService.PostDraftJournal(c.Request.Context(), entityID, journalID, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post draft journal")
		return
	}

	logger.Info("Draft journal posted", slog.String("journal_id", journalID))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// reverseJournal godoc
// @Summary Reverse a posted journal
// @Description Creates a mirrored journal entry; the original is never mutated. Period checks run against the reversal date.
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   journalID path string true "Journal ID"
// @Param   reversal body dto.ReverseJournalRequest true "Reversal date"
// @Success 201 {object} dto.JournalResponse
// @Failure 409 {object} map[string]string "Journal is not posted or already reversed"
// @Failure 422 {object} map[string]string "Reversal period closed or locked"
// @Security BearerAuth
// @Router /entities/{entity_id}/journals/{journalID}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	journalID := c.Param("journalID")

	var req dto.ReverseJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReverseJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reversal, err := h.postingService.ReverseJournal(c.Request.Context(), entityID, journalID, req.Date, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reverse journal")
		return
	}

	logger.Info("Journal reversed",
		slog.String("original_journal_id", journalID),
		slog.String("reversal_journal_id", reversal.JournalID),
	)
	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversal))
}

// listAccountTransactions godoc
// @Summary List transactions for an account
// @Description Retrieves a token-paginated account statement
// @Tags accounts
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /entities/{entity_id}/accounts/{accountID}/transactions [get]
func (h *journalHandler) listAccountTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	accountID := c.Param("accountID")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListAccountTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.postingService.ListTransactionsByAccount(c.Request.Context(), entityID, accountID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list account transactions")
		return
	}

	c.JSON(http.StatusOK, resp)
}
