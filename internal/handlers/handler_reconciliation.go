package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/OluAde/ledger_recon_app/internal/core/ports/services"
	"github.com/OluAde/ledger_recon_app/internal/dto"
	"github.com/OluAde/ledger_recon_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reconciliationHandler handles HTTP requests for the reconciliation workflow.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

// newReconciliationHandler creates a new reconciliationHandler.
func newReconciliationHandler(reconciliationService portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: reconciliationService}
}

// registerReconciliationRoutes registers reconciliation workflow routes nested under an entity.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconciliationService)

	recs := rg.Group("/reconciliations")
	{
		recs.POST("", h.createReconciliation)
		recs.GET("/:reconciliationID", h.getReconciliation)
		recs.POST("/:reconciliationID/ingest", h.ingestStatement)
		recs.POST("/:reconciliationID/auto-match", h.autoMatch)
		recs.POST("/:reconciliationID/matches", h.manualMatch)
		recs.POST("/:reconciliationID/matches/:statementTxnID/confirm", h.confirmMatch)
		recs.POST("/:reconciliationID/matches/:statementTxnID/reject", h.rejectMatch)
		recs.DELETE("/:reconciliationID/matches/:statementTxnID", h.unmatchStatementLine)
		recs.POST("/:reconciliationID/exclude/:statementTxnID", h.excludeStatementLine)
		recs.POST("/:reconciliationID/auto-create-charges", h.autoCreateCharges)
		recs.POST("/:reconciliationID/adjustments", h.addAdjustment)
		recs.POST("/:reconciliationID/create-journal-entries", h.postAdjustments)
		recs.POST("/:reconciliationID/submit", h.submit)
		recs.POST("/:reconciliationID/approve", h.approve)
		recs.POST("/:reconciliationID/reject", h.reject)
	}
}

// actorOrAbort extracts the authenticated actor, writing a 401 when absent.
func actorOrAbort(c *gin.Context, logger *slog.Logger) (string, bool) {
	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return actorID, ok
}

// createReconciliation godoc
// @Summary Start a reconciliation
// @Description Starts the workflow for a (bank account, period) pair, carrying forward outstanding items still open from the prior period
// @Tags reconciliations
// @Accept  json
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   reconciliation body dto.CreateReconciliationRequest true "Reconciliation details"
// @Success 201 {object} dto.ReconciliationResponse
// @Failure 409 {object} map[string]string "Reconciliation already exists for the pair"
// @Security BearerAuth
// @Router /entities/{entity_id}/reconciliations [post]
func (h *reconciliationHandler) createReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")

	var req dto.CreateReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReconciliation", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	rec, err := h.reconciliationService.CreateReconciliation(c.Request.Context(), entityID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create reconciliation")
		return
	}

	logger.Info("Reconciliation created",
		slog.String("reconciliation_id", rec.ReconciliationID),
		slog.String("bank_account_id", rec.BankAccountID),
		slog.String("period_id", rec.PeriodID),
	)
	c.JSON(http.StatusCreated, dto.ToReconciliationResponse(rec))
}

// getReconciliation godoc
// @Summary Get a reconciliation
// @Description Retrieves a reconciliation with its adjustments and outstanding items
// @Tags reconciliations
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   reconciliationID path string true "Reconciliation ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 404 {object} map[string]string "Reconciliation not found"
// @Security BearerAuth
// @Router /entities/{entity_id}/reconciliations/{reconciliationID} [get]
func (h *reconciliationHandler) getReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	reconciliationID := c.Param("reconciliationID")

	rec, err := h.reconciliationService.GetReconciliationByID(c.Request.Context(), entityID, reconciliationID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve reconciliation")
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationResponse(rec))
}

// ingestStatement godoc
// @Summary Ingest a bank statement
// @Description Parses and stores statement lines. Re-submitting the same batch reports duplicates instead of inserting twice.
// @Tags reconciliations
// @Accept  json
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   reconciliationID path string true "Reconciliation ID"
// @Param   statement body dto.IngestStatementRequest true "Raw statement content"
// @Success 200 {object} dto.IngestResponse
// @Failure 400 {object} map[string]string "Unparseable statement"
// @Security BearerAuth
// @Router /entities/{entity_id}/reconciliations/{reconciliationID}/ingest [post]
func (h *reconciliationHandler) ingestStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	reconciliationID := c.Param("reconciliationID")

	var req dto.IngestStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for IngestStatement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	report, err := h.reconciliationService.IngestStatement(c.Request.Context(), entityID, reconciliationID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to ingest statement")
		return
	}

	logger.Info("Statement ingested",
		slog.String("reconciliation_id", reconciliationID),
		slog.Int("ingested", report.Ingested),
		slog.Int("duplicates", report.Duplicates),
		slog.Int("errors", len(report.Errors)),
	)
	c.JSON(http.StatusOK, report)
}

// autoMatch godoc
// @Summary Run automatic matching
// @Description Runs the matching passes in priority order and reports counts per match type plus remaining unmatched items
// @Tags reconciliations
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   reconciliationID path string true "Reconciliation ID"
// @Success 200 {object} dto.AutoMatchResponse
// @Failure 422 {object} map[string]string "Reconciliation not in matching state"
// @Security BearerAuth
// @Router /entities/{entity_id}/reconciliations/{reconciliationID}/auto-match [post]
func (h *reconciliationHandler) autoMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	reconciliationID := c.Param("reconciliationID")

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	result, err := h.reconciliationService.AutoMatch(c.Request.Context(), entityID, reconciliationID, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to run automatic matching")
		return
	}

	logger.Info("Automatic matching completed",
		slog.String("reconciliation_id", reconciliationID),
		slog.Int("exact", result.Exact),
		slog.Int("fuzzy", result.Fuzzy),
		slog.Int("group", result.Group),
		slog.Int("unmatched_bank_lines", result.UnmatchedBankLines),
	)
	c.JSON(http.StatusOK, result)
}

// manualMatch godoc
// @Summary Match a statement line by hand
// @Description Pairs one statement line with ledger lines, recording the actor. Manual matches override automatic classification.
// @Tags reconciliations
// @Accept  json
// @Param   entity_id path string true "Entity ID"
// @Param   reconciliationID path string true "Reconciliation ID"
// @Param   match body dto.ManualMatchRequest true "Statement line and ledger line IDs"
// @Success 204 "No Content"
// @Failure 409 {object} map[string]string "A side is already matched"
// @Security BearerAuth
// @Router /entities/{entity_id}/reconciliations/{reconciliationID}/matches [post]
func (h *reconciliationHandler) manualMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	reconciliationID := c.Param("reconciliationID")

	var req dto.ManualMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ManualMatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	if err := h.reconciliationService.ManualMatch(c.Request.Context(), entityID, reconciliationID, req, actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to match statement line")
		return
	}

	logger.Info("Manual match recorded",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("statement_txn_id", req.StatementTxnID),
		slog.Int("ledger_lines", len(req.TransactionIDs)),
	)
	c.Status(http.StatusNoContent)
}

// confirmMatch godoc
// @Summary Confirm a suggested match
// @Description Accepts a suggested pairing, upgrading the statement line and its ledger lines to matched
// @Tags reconciliations
// @Param   entity_id path string true "Entity ID"
// @Param   reconciliationID path string true "Reconciliation ID"
// @Param   statementTxnID path string true "Statement Transaction ID"
// @Success 204 "No Content"
// @Failure 409 {object} map[string]string "Statement line is not suggested"
// @Security BearerAuth
// @Router /entities/{entity_id}/reconciliations/{reconciliationID}/matches/{statementTxnID}/confirm [post]
func (h *reconciliationHandler) confirmMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	reconciliationID := c.Param("reconciliationID")
	statementTxnID := c.Param("statementTxnID")

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	if err := h.reconciliationService.ConfirmMatch(c.Request.Context(), entityID, reconciliationID, statementTxnID, actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to confirm match")
		return
	}

	logger.Info("Suggested match confirmed",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("statement_txn_id", statementTxnID),
	)
	c.Status(http.StatusNoContent)
}

// rejectMatch godoc
// @Summary Reject a suggested match
// @Description Discards a suggested pairing, returning both sides to unmatched and withdrawing any charge proposal raised for the line
// @Tags reconciliations
// @Param   entity_id path string true "Entity ID"
// @Param   reconciliationID path string true "Reconciliation ID"
// @Param   statementTxnID path string true "Statement Transaction ID"
// @Success 204 "No Content"
// @Failure 409 {object} map[string]string "Statement line is not suggested"
// @Security BearerAuth
// @Router /entities/{entity_id}/reconciliations/{reconciliationID}/matches/{statementTxnID}/reject [post]
func (h *reconciliationHandler) rejectMatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	reconciliationID := c.Param("reconciliationID")
	statementTxnID := c.Param("statementTxnID")

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	if err := h.reconciliationService.RejectMatch(c.Request.Context(), entityID, reconciliationID, statementTxnID, actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to reject match")
		return
	}

	logger.Info("Suggested match rejected",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("statement_txn_id", statementTxnID),
	)
	c.Status(http.StatusNoContent)
}

// unmatchStatementLine godoc
// @Summary Unmatch a statement line
// @Description Clears a match, returning the statement line and its ledger lines to unmatched
// @Tags reconciliations
// @Param   entity_id path string true "Entity ID"
// @Param   reconciliationID path string true "Reconciliation ID"
// @Param   statementTxnID path string true "Statement Transaction ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Statement line not found"
// @Security BearerAuth
// @Router /entities/{entity_id}/reconciliations/{reconciliationID}/matches/{statementTxnID} [delete]
func (h *reconciliationHandler) unmatchStatementLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	reconciliationID := c.Param("reconciliationID")
	statementTxnID := c.Param("statementTxnID")

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	if err := h.reconciliationService.UnmatchStatementLine(c.Request.Context(), entityID, reconciliationID, statementTxnID, actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to unmatch statement line")
		return
	}

	logger.Info("Statement line unmatched",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("statement_txn_id", statementTxnID),
	)
	c.Status(http.StatusNoContent)
}

// excludeStatementLine godoc
// @Summary Exclude a statement line
// @Description Marks a statement line as excluded from matching and balance checks
// @Tags reconciliations
// @Param   entity_id path string true "Entity ID"
// @Param   reconciliationID path string true "Reconciliation ID"
// @Param   statementTxnID path string true "Statement Transaction ID"
// @Success 204 "No Content"
// @Failure 409 {object} map[string]string "Statement line is already matched"
// @Security BearerAuth
// @Router /entities/{entity_id}/reconciliations/{reconciliationID}/exclude/{statementTxnID} [post]
func (h *reconciliationHandler) excludeStatementLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	reconciliationID := c.Param("reconciliationID")
	statementTxnID := c.Param("statementTxnID")

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	if err := h.reconciliationService.ExcludeStatementLine(c.Request.Context(), entityID, reconciliationID, statementTxnID, actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to exclude statement line")
		return
	}

	logger.Info("Statement line excluded",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("statement_txn_id", statementTxnID),
	)
	c.Status(http.StatusNoContent)
}

// autoCreateCharges godoc
// @Summary Classify charges into adjustment proposals
// @Description Runs the charge classifier over unmatched bank lines and records balanced adjustment proposals
// @Tags reconciliations
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   reconciliationID path string true "Reconciliation ID"
// @Success 200 {array} dto.AdjustmentResponse
// @Security BearerAuth
// @Router /entities/{entity_id}/reconciliations/{reconciliationID}/auto-create-charges [post]
func (h *reconciliationHandler) autoCreateCharges(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	reconciliationID := c.Param("reconciliationID")

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	adjustments, err := h.reconciliationService.AutoCreateCharges(c.Request.Context(), entityID, reconciliationID, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to classify charges")
		return
	}

	logger.Info("Charges classified",
		slog.String("reconciliation_id", reconciliationID),
		slog.Int("proposals", len(adjustments)),
	)
	responses := make([]dto.AdjustmentResponse, len(adjustments))
	for i := range adjustments {
		responses[i] = dto.ToAdjustmentResponse(&adjustments[i])
	}
	c.JSON(http.StatusOK, responses)
}

// addAdjustment godoc
// @Summary Propose a manual adjustment
// @Description Records a manual adjustment proposal on the reconciliation
// @Tags reconciliations
// @Accept  json
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   reconciliationID path string true "Reconciliation ID"
// @Param   adjustment body dto.CreateAdjustmentRequest true "Adjustment details"
// @Success 201 {object} dto.AdjustmentResponse
// @Security BearerAuth
// @Router /entities/{entity_id}/reconciliations/{reconciliationID}/adjustments [post]
func (h *reconciliationHandler) addAdjustment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	reconciliationID := c.Param("reconciliationID")

	var req dto.CreateAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddAdjustment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	adjustment, err := h.reconciliationService.AddAdjustment(c.Request.Context(), entityID, reconciliationID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add adjustment")
		return
	}

	logger.Info("Adjustment proposed",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("adjustment_id", adjustment.AdjustmentID),
	)
	c.JSON(http.StatusCreated, dto.ToAdjustmentResponse(adjustment))
}

// postAdjustments godoc
// @Summary Post proposed adjustments
// @Description Posts all proposed adjustments through the posting engine as balanced journal entries
// @Tags reconciliations
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   reconciliationID path string true "Reconciliation ID"
// @Success 200 {array} dto.AdjustmentResponse
// @Failure 422 {object} map[string]string "Period closed or locked"
// @Security BearerAuth
// @Router /entities/{entity_id}/reconciliations/{reconciliationID}/create-journal-entries [post]
func (h *reconciliationHandler) postAdjustments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	reconciliationID := c.Param("reconciliationID")

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	adjustments, err := h.reconciliationService.PostAdjustments(c.Request.Context(), entityID, reconciliationID, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post adjustments")
		return
	}

	logger.Info("Adjustments posted",
		slog.String("reconciliation_id", reconciliationID),
		slog.Int("posted", len(adjustments)),
	)
	responses := make([]dto.AdjustmentResponse, len(adjustments))
	for i := range adjustments {
		responses[i] = dto.ToAdjustmentResponse(&adjustments[i])
	}
	c.JSON(http.StatusOK, responses)
}

// submit godoc
// @Summary Submit for approval
// @Description Submits the reconciliation for approval. Fails with the residual amount when the adjusted balances are not exactly equal.
// @Tags reconciliations
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   reconciliationID path string true "Reconciliation ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 422 {object} map[string]string "Adjusted balances differ"
// @Security BearerAuth
// @Router /entities/{entity_id}/reconciliations/{reconciliationID}/submit [post]
func (h *reconciliationHandler) submit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	reconciliationID := c.Param("reconciliationID")

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	rec, err := h.reconciliationService.Submit(c.Request.Context(), entityID, reconciliationID, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to submit reconciliation")
		return
	}

	logger.Info("Reconciliation submitted",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("prepared_by", rec.PreparedBy),
	)
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(rec))
}

// approve godoc
// @Summary Approve a submitted reconciliation
// @Description Approves and immediately locks the reconciliation. The approver must differ from the preparer.
// @Tags reconciliations
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   reconciliationID path string true "Reconciliation ID"
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 403 {object} map[string]string "Approver prepared this reconciliation"
// @Security BearerAuth
// @Router /entities/{entity_id}/reconciliations/{reconciliationID}/approve [post]
func (h *reconciliationHandler) approve(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	reconciliationID := c.Param("reconciliationID")

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	rec, err := h.reconciliationService.Approve(c.Request.Context(), entityID, reconciliationID, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve reconciliation")
		return
	}

	logger.Info("Reconciliation approved",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("approved_by", rec.ApprovedBy),
	)
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(rec))
}

// reject godoc
// @Summary Reject a submitted reconciliation
// @Description Returns a submitted reconciliation to adjusting with a reviewer comment. Prior adjustments are retained.
// @Tags reconciliations
// @Accept  json
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   reconciliationID path string true "Reconciliation ID"
// @Param   rejection body dto.RejectReconciliationRequest true "Reviewer comment"
// @Success 200 {object} dto.ReconciliationResponse
// @Security BearerAuth
// @Router /entities/{entity_id}/reconciliations/{reconciliationID}/reject [post]
func (h *reconciliationHandler) reject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	reconciliationID := c.Param("reconciliationID")

	var req dto.RejectReconciliationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Reject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	rec, err := h.reconciliationService.Reject(c.Request.Context(), entityID, reconciliationID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reject reconciliation")
		return
	}

	logger.Info("Reconciliation rejected",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("comment", req.Comment),
	)
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(rec))
}
