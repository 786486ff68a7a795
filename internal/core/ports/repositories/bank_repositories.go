package repositories

import (
	"context"
	"time"

	"github.com/OluAde/ledger_recon_app/internal/core/domain"
)

// BankAccountReader defines read operations for bank account data
type BankAccountReader interface {
	// FindBankAccountByID retrieves a specific bank account.
	FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error)

	// ListBankAccounts retrieves all active bank accounts for an entity.
	ListBankAccounts(ctx context.Context, entityID string) ([]domain.BankAccount, error)
}

// BankAccountWriter defines write operations for bank account data
type BankAccountWriter interface {
	// SaveBankAccount persists a new bank account.
	SaveBankAccount(ctx context.Context, bankAccount domain.BankAccount) error

	// UpdateLastReconciled records the date a bank account was last reconciled through.
	UpdateLastReconciled(ctx context.Context, bankAccountID string, reconciledThrough time.Time, updatedBy string, updatedAt time.Time) error
}

// StatementReader defines read operations for imported statement lines
type StatementReader interface {
	// FindStatementTxnByID retrieves one statement line.
	FindStatementTxnByID(ctx context.Context, statementTxnID string) (*domain.BankStatementTransaction, error)

	// ListStatementTransactions retrieves lines for a bank account within a date
	// range, optionally filtered to one match status (nil means all).
	ListStatementTransactions(ctx context.Context, bankAccountID string, from, to time.Time, status *domain.MatchStatus) ([]domain.BankStatementTransaction, error)
}

// StatementWriter defines write operations for imported statement lines
type StatementWriter interface {
	// InsertStatementTransactions inserts lines idempotently: rows whose
	// (bank_account, date, amount, reference) key already exists are skipped.
	// Returns the number actually inserted.
	InsertStatementTransactions(ctx context.Context, txns []domain.BankStatementTransaction) (int, error)

	// UpdateStatementMatch sets match status, type, confidence, matched line ids
	// and actor on one statement line. Returns apperrors.ErrMatchConflict if the
	// line is already matched and force is false.
	UpdateStatementMatch(ctx context.Context, txn domain.BankStatementTransaction, force bool) error

	// UpdateChargeFlags persists classification flags on a statement line.
	UpdateChargeFlags(ctx context.Context, statementTxnID string, flags domain.ChargeFlags, updatedBy string, updatedAt time.Time) error
}

// BankRepositoryFacade combines bank account and statement repository interfaces
type BankRepositoryFacade interface {
	BankAccountReader
	BankAccountWriter
	StatementReader
	StatementWriter
}
