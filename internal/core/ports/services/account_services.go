package services

import (
	"context"

	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	"github.com/OluAde/ledger_recon_app/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, entityID string, accountID string) (*domain.Account, error)

	// GetAccountByIDs retrieves multiple accounts by their IDs, keyed by ID.
	GetAccountByIDs(ctx context.Context, entityID string, accountIDs []string) (map[string]domain.Account, error)

	// GetAccountByCode retrieves an account by its code within an entity.
	GetAccountByCode(ctx context.Context, entityID string, code string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts in an entity.
	ListAccounts(ctx context.Context, entityID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account in the chart of accounts.
	CreateAccount(ctx context.Context, entityID string, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error)

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, entityID string, accountID string, actorID string) error
}

// AccountSvcFacade combines all account service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
