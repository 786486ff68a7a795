package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/OluAde/ledger_recon_app/internal/apperrors"
	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	portsrepo "github.com/OluAde/ledger_recon_app/internal/core/ports/repositories"
	portssvc "github.com/OluAde/ledger_recon_app/internal/core/ports/services"
	"github.com/OluAde/ledger_recon_app/internal/dto"
	"github.com/OluAde/ledger_recon_app/internal/middleware"
)

// accountService provides chart-of-accounts operations.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a new account in the entity's chart of accounts.
func (s *accountService) CreateAccount(ctx context.Context, entityID string, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if existing, err := s.accountRepo.FindAccountByCode(ctx, entityID, req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: account code %s already exists in entity %s", apperrors.ErrDuplicate, req.Code, entityID)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check account code uniqueness: %w", err)
	}

	parentID := ""
	if req.ParentAccountID != nil {
		parent, err := s.accountRepo.FindAccountByID(ctx, *req.ParentAccountID)
		if err != nil {
			return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrNotFound, *req.ParentAccountID)
		}
		if parent.EntityID != entityID {
			return nil, apperrors.ErrNotFound // Obscure existence across entities
		}
		parentID = parent.AccountID
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		EntityID:        entityID,
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		CurrencyCode:    req.CurrencyCode,
		ParentAccountID: parentID,
		Description:     req.Description,
		Reconcilable:    req.Reconcilable,
		IsActive:        true,
		Balance:         decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("entity_id", entityID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// GetAccountByID retrieves an account, verifying it belongs to the entity.
func (s *accountService) GetAccountByID(ctx context.Context, entityID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.EntityID != entityID {
		return nil, apperrors.ErrNotFound // Obscure existence across entities
	}
	return account, nil
}

// GetAccountByIDs retrieves multiple accounts keyed by ID, all entity-scoped.
func (s *accountService) GetAccountByIDs(ctx context.Context, entityID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for id, acc := range accounts {
		if acc.EntityID != entityID {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

// GetAccountByCode retrieves an account by its code within an entity.
func (s *accountService) GetAccountByCode(ctx context.Context, entityID string, code string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByCode(ctx, entityID, code)
}

// ListAccounts retrieves a paginated list of accounts in an entity.
func (s *accountService) ListAccounts(ctx context.Context, entityID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.accountRepo.ListAccounts(ctx, entityID, limit, offset)
}

// DeactivateAccount marks an account as inactive; referenced accounts are
// never physically deleted.
func (s *accountService) DeactivateAccount(ctx context.Context, entityID string, accountID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, entityID, accountID)
	if err != nil {
		return err
	}
	if !account.Balance.IsZero() {
		return fmt.Errorf("%w: account %s has a non-zero balance", apperrors.ErrConflict, account.Code)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, actorID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return err
	}
	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}
