package repositories

import (
	"context"
	"time"

	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournalsByEntity retrieves a paginated list of journals for a given entity using token-based pagination.
	// It returns the journals, a token for the next page, and an error.
	ListJournalsByEntity(ctx context.Context, entityID string, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error)

	// CountDraftsByPeriod returns the number of unposted draft journals in a period.
	CountDraftsByPeriod(ctx context.Context, entityID string, periodID string) (int, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournal persists a journal and its transactions, updating account balances within a transaction.
	// Balance changes are empty for drafts; drafts do not touch account balances.
	SaveJournal(ctx context.Context, journal domain.Journal, transactions []domain.Transaction, balanceChanges map[string]decimal.Decimal) error

	// UpdateJournalStatusAndLinks updates the status and reversal linkage (original/reversing IDs) of a journal.
	UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, originalJournalID *string, updatedByUserID string, updatedAt time.Time) error

	// PostDraftJournal flips a draft to POSTED and applies its balance changes atomically.
	PostDraftJournal(ctx context.Context, journalID string, balanceChanges map[string]decimal.Decimal, updatedByUserID string, updatedAt time.Time) error
}

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionsByJournalID retrieves all transactions associated with a single journal ID.
	FindTransactionsByJournalID(ctx context.Context, journalID string) ([]domain.Transaction, error)

	// ListTransactionsByAccountID retrieves a paginated list of transactions for a specific account using token-based pagination.
	ListTransactionsByAccountID(ctx context.Context, entityID, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// FindUnmatchedTransactions retrieves posted lines on an account within a date
	// range that have not been matched to a statement line.
	FindUnmatchedTransactions(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error)

	// AccountBalanceAsOf returns the signed sum of the account's non-draft lines
	// with a transaction date on or before the given date.
	AccountBalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)
}

// TransactionMatcher defines reconciliation-state updates on ledger lines.
type TransactionMatcher interface {
	// MarkTransactionsMatched sets the match state of ledger lines to a statement line.
	// Returns apperrors.ErrMatchConflict if any line is already matched.
	MarkTransactionsMatched(ctx context.Context, transactionIDs []string, statementTxnID string, status domain.MatchStatus, updatedBy string, updatedAt time.Time) error

	// UnmatchTransactions clears the match state of ledger lines.
	UnmatchTransactions(ctx context.Context, transactionIDs []string, updatedBy string, updatedAt time.Time) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	TransactionReader
	TransactionMatcher
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
