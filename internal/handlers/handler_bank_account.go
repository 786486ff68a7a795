package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/OluAde/ledger_recon_app/internal/core/ports/services"
	"github.com/OluAde/ledger_recon_app/internal/dto"
	"github.com/OluAde/ledger_recon_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// bankAccountHandler handles HTTP requests for entity bank accounts.
type bankAccountHandler struct {
	bankAccountService portssvc.BankAccountSvcFacade
}

// newBankAccountHandler creates a new bankAccountHandler.
func newBankAccountHandler(bankAccountService portssvc.BankAccountSvcFacade) *bankAccountHandler {
	return &bankAccountHandler{bankAccountService: bankAccountService}
}

// registerBankAccountRoutes registers bank account routes nested under an entity.
func registerBankAccountRoutes(rg *gin.RouterGroup, bankAccountService portssvc.BankAccountSvcFacade) {
	h := newBankAccountHandler(bankAccountService)

	bankAccounts := rg.Group("/bank-accounts")
	{
		bankAccounts.POST("", h.createBankAccount)
		bankAccounts.GET("", h.listBankAccounts)
		bankAccounts.GET("/:bankAccountID", h.getBankAccount)
	}
}

// createBankAccount godoc
// @Summary Register a bank account
// @Description Registers a bank account linked to a reconcilable GL account
// @Tags bank-accounts
// @Accept  json
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   bankAccount body dto.CreateBankAccountRequest true "Bank account details"
// @Success 201 {object} dto.BankAccountResponse
// @Failure 400 {object} map[string]string "GL account missing or not reconcilable"
// @Security BearerAuth
// @Router /entities/{entity_id}/bank-accounts [post]
func (h *bankAccountHandler) createBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")

	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	bankAccount, err := h.bankAccountService.CreateBankAccount(c.Request.Context(), entityID, req, creatorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create bank account")
		return
	}

	logger.Info("Bank account created", slog.String("bank_account_id", bankAccount.BankAccountID))
	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(bankAccount))
}

// getBankAccount godoc
// @Summary Get a bank account
// @Description Retrieves a single bank account by ID within an entity
// @Tags bank-accounts
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Param   bankAccountID path string true "Bank Account ID"
// @Success 200 {object} dto.BankAccountResponse
// @Failure 404 {object} map[string]string "Bank account not found"
// @Security BearerAuth
// @Router /entities/{entity_id}/bank-accounts/{bankAccountID} [get]
func (h *bankAccountHandler) getBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")
	bankAccountID := c.Param("bankAccountID")

	bankAccount, err := h.bankAccountService.GetBankAccountByID(c.Request.Context(), entityID, bankAccountID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve bank account")
		return
	}

	c.JSON(http.StatusOK, dto.ToBankAccountResponse(bankAccount))
}

// listBankAccounts godoc
// @Summary List bank accounts
// @Description Retrieves all active bank accounts for an entity
// @Tags bank-accounts
// @Produce  json
// @Param   entity_id path string true "Entity ID"
// @Success 200 {array} dto.BankAccountResponse
// @Security BearerAuth
// @Router /entities/{entity_id}/bank-accounts [get]
func (h *bankAccountHandler) listBankAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entityID := c.Param("entity_id")

	bankAccounts, err := h.bankAccountService.ListBankAccounts(c.Request.Context(), entityID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list bank accounts")
		return
	}

	responses := make([]dto.BankAccountResponse, len(bankAccounts))
	for i := range bankAccounts {
		responses[i] = dto.ToBankAccountResponse(&bankAccounts[i])
	}
	c.JSON(http.StatusOK, responses)
}
