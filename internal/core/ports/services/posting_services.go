package services

import (
	"context"
	"time"

	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	"github.com/OluAde/ledger_recon_app/internal/dto"
)

// JournalPosterSvc is the posting contract consumed by every sub-ledger
// (invoicing, payroll, fixed assets, inventory) and by the reconciliation
// workflow for adjustment entries.
type JournalPosterSvc interface {
	// PostJournal validates and commits a balanced journal draft. Drafts with
	// AsDraft set are persisted unposted and block period close.
	PostJournal(ctx context.Context, entityID string, req dto.CreateJournalRequest, actorID string) (*domain.Journal, error)

	// PostDraftJournal posts a previously saved draft, re-running all period
	// and balance checks as of now.
	PostDraftJournal(ctx context.Context, entityID string, journalID string, actorID string) (*domain.Journal, error)

	// ReverseJournal creates a mirrored journal for a posted one. Period checks
	// run against the reversal date, not the original date.
	ReverseJournal(ctx context.Context, entityID string, journalID string, reversalDate time.Time, actorID string) (*domain.Journal, error)
}

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves a specific journal with its transactions.
	GetJournalByID(ctx context.Context, entityID string, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a paginated list of journals in an entity.
	ListJournals(ctx context.Context, entityID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)

	// ListTransactionsByAccount retrieves transactions for a specific account.
	ListTransactionsByAccount(ctx context.Context, entityID string, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// PeriodSvc defines fiscal period lifecycle operations. Period close is the
// posting engine's gate: it re-validates every blocking condition inside the
// same critical section used for posting.
type PeriodSvc interface {
	// CreatePeriod opens a new fiscal period.
	CreatePeriod(ctx context.Context, entityID string, req dto.CreatePeriodRequest, actorID string) (*domain.FiscalPeriod, error)

	// ClosePeriodChecklist enumerates everything currently blocking a close.
	ClosePeriodChecklist(ctx context.Context, entityID string, periodID string) (*domain.CloseChecklist, error)

	// ClosePeriod closes the period when the checklist is empty; otherwise it
	// returns the full blocking list, never a bare failure.
	ClosePeriod(ctx context.Context, entityID string, periodID string, actorID string) (*domain.CloseChecklist, error)

	// ReopenPeriod transitions CLOSED back to OPEN.
	ReopenPeriod(ctx context.Context, entityID string, periodID string, actorID string) error

	// LockPeriod transitions CLOSED to LOCKED. Irreversible.
	LockPeriod(ctx context.Context, entityID string, periodID string, actorID string) error

	// ListPeriodsForEntity retrieves all periods for an entity ordered by start date.
	ListPeriodsForEntity(ctx context.Context, entityID string) ([]domain.FiscalPeriod, error)
}

// PostingSvcFacade combines posting, journal reads and period lifecycle.
type PostingSvcFacade interface {
	JournalPosterSvc
	JournalReaderSvc
	PeriodSvc
}
