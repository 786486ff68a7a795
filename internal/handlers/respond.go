package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/OluAde/ledger_recon_app/internal/apperrors"
	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	"github.com/OluAde/ledger_recon_app/internal/core/services"
	"github.com/gin-gonic/gin"
)

// respondServiceError translates service-layer failures into HTTP responses.
// Known sentinel errors surface their message; anything unrecognized becomes a
// 500 with the fallback message so internals never leak to the client.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var mismatch apperrors.BalanceMismatchError
	var badTransition domain.ErrInvalidTransition
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, services.ErrJournalUnbalanced),
		errors.Is(err, services.ErrJournalMinEntries),
		errors.Is(err, services.ErrJournalMinAccounts),
		errors.Is(err, services.ErrCurrencyMismatch),
		errors.Is(err, services.ErrDescriptionMissing),
		errors.Is(err, services.ErrNoPeriodForDate),
		errors.Is(err, services.ErrAccountNotFound):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrMatchConflict),
		errors.Is(err, apperrors.ErrConflict),
		errors.As(err, &badTransition):
		logger.Warn("Conflicting request", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden),
		errors.Is(err, apperrors.ErrApprovalIntegrity):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrPeriodClosed),
		errors.Is(err, apperrors.ErrPeriodLocked):
		logger.Warn("Period rejected posting", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &mismatch):
		logger.Warn("Balance mismatch", slog.String("residual", mismatch.Residual.String()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    mismatch.Error(),
			"residual": mismatch.Residual,
		})
	case errors.As(err, &appErr):
		logger.Error("Request failed", slog.String("error", err.Error()))
		c.JSON(appErr.Code, gin.H{"error": fallback})
	default:
		logger.Error("Request failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
