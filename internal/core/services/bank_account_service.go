package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/OluAde/ledger_recon_app/internal/apperrors"
	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	portsrepo "github.com/OluAde/ledger_recon_app/internal/core/ports/repositories"
	portssvc "github.com/OluAde/ledger_recon_app/internal/core/ports/services"
	"github.com/OluAde/ledger_recon_app/internal/dto"
	"github.com/OluAde/ledger_recon_app/internal/middleware"
)

// bankAccountService manages entity bank account records.
type bankAccountService struct {
	bankRepo   portsrepo.BankRepositoryFacade
	accountSvc portssvc.AccountSvcFacade
}

// NewBankAccountService creates a new BankAccountService.
func NewBankAccountService(bankRepo portsrepo.BankRepositoryFacade, accountSvc portssvc.AccountSvcFacade) portssvc.BankAccountSvcFacade {
	return &bankAccountService{bankRepo: bankRepo, accountSvc: accountSvc}
}

var _ portssvc.BankAccountSvcFacade = (*bankAccountService)(nil)

// CreateBankAccount registers a bank account. The linked GL account must be
// flagged reconcilable and carry the same currency.
func (s *bankAccountService) CreateBankAccount(ctx context.Context, entityID string, req dto.CreateBankAccountRequest, creatorID string) (*domain.BankAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	glAccount, err := s.accountSvc.GetAccountByID(ctx, entityID, req.GLAccountID)
	if err != nil {
		return nil, err
	}
	if !glAccount.Reconcilable {
		return nil, fmt.Errorf("%w: GL account %s is not flagged reconcilable", apperrors.ErrValidation, glAccount.Code)
	}
	if glAccount.CurrencyCode != req.CurrencyCode {
		return nil, fmt.Errorf("%w: GL account currency %s does not match bank account currency %s", apperrors.ErrValidation, glAccount.CurrencyCode, req.CurrencyCode)
	}

	now := time.Now().UTC()
	bankAccount := domain.BankAccount{
		BankAccountID:  uuid.NewString(),
		EntityID:       entityID,
		Name:           req.Name,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		CurrencyCode:   req.CurrencyCode,
		GLAccountID:    req.GLAccountID,
		OpeningBalance: req.OpeningBalance,
		CurrentBalance: req.OpeningBalance,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.bankRepo.SaveBankAccount(ctx, bankAccount); err != nil {
		logger.Error("Failed to save bank account", slog.String("error", err.Error()), slog.String("entity_id", entityID))
		return nil, fmt.Errorf("failed to save bank account: %w", err)
	}

	logger.Info("Bank account created",
		slog.String("bank_account_id", bankAccount.BankAccountID),
		slog.String("bank_name", bankAccount.BankName),
		slog.String("gl_account_id", bankAccount.GLAccountID),
	)
	return &bankAccount, nil
}

// GetBankAccountByID retrieves a bank account, verifying it belongs to the entity.
func (s *bankAccountService) GetBankAccountByID(ctx context.Context, entityID string, bankAccountID string) (*domain.BankAccount, error) {
	bankAccount, err := s.bankRepo.FindBankAccountByID(ctx, bankAccountID)
	if err != nil {
		return nil, err
	}
	if bankAccount.EntityID != entityID {
		return nil, apperrors.ErrNotFound // Obscure existence across entities
	}
	return bankAccount, nil
}

// ListBankAccounts retrieves all active bank accounts for an entity.
func (s *bankAccountService) ListBankAccounts(ctx context.Context, entityID string) ([]domain.BankAccount, error) {
	return s.bankRepo.ListBankAccounts(ctx, entityID)
}
