package services

import (
	"context"

	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	"github.com/OluAde/ledger_recon_app/internal/dto"
)

// BankAccountSvcFacade defines operations on entity bank accounts.
type BankAccountSvcFacade interface {
	// CreateBankAccount registers a bank account linked to a reconcilable GL account.
	CreateBankAccount(ctx context.Context, entityID string, req dto.CreateBankAccountRequest, creatorID string) (*domain.BankAccount, error)

	// GetBankAccountByID retrieves a specific bank account.
	GetBankAccountByID(ctx context.Context, entityID string, bankAccountID string) (*domain.BankAccount, error)

	// ListBankAccounts retrieves all active bank accounts for an entity.
	ListBankAccounts(ctx context.Context, entityID string) ([]domain.BankAccount, error)
}
