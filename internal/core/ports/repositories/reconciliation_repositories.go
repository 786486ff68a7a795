package repositories

import (
	"context"

	"github.com/OluAde/ledger_recon_app/internal/core/domain"
)

// ReconciliationReader defines read operations for reconciliation data
type ReconciliationReader interface {
	// FindReconciliationByID retrieves a reconciliation with its adjustments and outstanding items.
	FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error)

	// FindReconciliationByBankAccountAndPeriod retrieves the single reconciliation for a (bank account, period) pair.
	FindReconciliationByBankAccountAndPeriod(ctx context.Context, bankAccountID string, periodID string) (*domain.Reconciliation, error)

	// ListReconciliationsByPeriod retrieves all reconciliations in a period for an entity.
	ListReconciliationsByPeriod(ctx context.Context, entityID string, periodID string) ([]domain.Reconciliation, error)
}

// ReconciliationWriter defines write operations for reconciliation data
type ReconciliationWriter interface {
	// SaveReconciliation persists a new reconciliation. One per (bank account, period).
	SaveReconciliation(ctx context.Context, recon domain.Reconciliation) error

	// UpdateReconciliation persists workflow state, balances and review fields.
	UpdateReconciliation(ctx context.Context, recon domain.Reconciliation) error

	// SaveAdjustment persists a proposed adjustment.
	SaveAdjustment(ctx context.Context, adj domain.ReconciliationAdjustment) error

	// UpdateAdjustment persists adjustment status and journal linkage.
	UpdateAdjustment(ctx context.Context, adj domain.ReconciliationAdjustment) error

	// DeleteProposedAdjustmentsByStatementTxn removes unposted adjustment
	// proposals raised for a statement line. Posted adjustments are untouched.
	DeleteProposedAdjustmentsByStatementTxn(ctx context.Context, reconciliationID string, statementTxnID string) error

	// SaveOutstandingItems persists outstanding items for a reconciliation.
	SaveOutstandingItems(ctx context.Context, items []domain.OutstandingItem) error

	// MarkOutstandingItemCleared flags an outstanding item as cleared.
	MarkOutstandingItemCleared(ctx context.Context, outstandingItemID string, updatedBy string) error
}

// ReconciliationRepositoryFacade combines all reconciliation repository interfaces
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
}

// ReconciliationRepositoryWithTx extends the facade with transaction capabilities
type ReconciliationRepositoryWithTx interface {
	ReconciliationRepositoryFacade
	TransactionManager
}
