package services

import (
	"context"

	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	"github.com/OluAde/ledger_recon_app/internal/dto"
)

// ReconciliationSvcFacade coordinates the per-(bank account, period) workflow:
// ingestion -> matching -> adjustment -> approval -> lock. It is the only
// component permitted to lock a reconciliation and, through the period close
// gate, influence period state.
type ReconciliationSvcFacade interface {
	// CreateReconciliation starts the workflow for (bank account, period),
	// carrying forward outstanding items open in the prior period.
	CreateReconciliation(ctx context.Context, entityID string, req dto.CreateReconciliationRequest, actorID string) (*domain.Reconciliation, error)

	// GetReconciliationByID retrieves a reconciliation with adjustments and outstanding items.
	GetReconciliationByID(ctx context.Context, entityID string, reconciliationID string) (*domain.Reconciliation, error)

	// IngestStatement parses and stores statement lines idempotently. The first
	// successful ingestion moves DRAFT -> MATCHING.
	IngestStatement(ctx context.Context, entityID string, reconciliationID string, req dto.IngestStatementRequest, actorID string) (*dto.IngestResponse, error)

	// AutoMatch runs the matching passes in priority order and returns counts
	// per match type plus the remaining unmatched items.
	AutoMatch(ctx context.Context, entityID string, reconciliationID string, actorID string) (*dto.AutoMatchResponse, error)

	// ManualMatch pairs a statement line with ledger lines by hand, recording
	// the actor. Manual matches override automatic classification.
	ManualMatch(ctx context.Context, entityID string, reconciliationID string, req dto.ManualMatchRequest, actorID string) error

	// ConfirmMatch accepts a suggested pairing, upgrading it to matched and
	// recording the actor.
	ConfirmMatch(ctx context.Context, entityID string, reconciliationID string, statementTxnID string, actorID string) error

	// RejectMatch discards a suggested pairing, returning both sides to
	// unmatched and withdrawing any charge proposal raised for the line.
	RejectMatch(ctx context.Context, entityID string, reconciliationID string, statementTxnID string, actorID string) error

	// UnmatchStatementLine clears a match, returning both sides to unmatched.
	UnmatchStatementLine(ctx context.Context, entityID string, reconciliationID string, statementTxnID string, actorID string) error

	// ExcludeStatementLine marks a statement line as excluded from matching.
	ExcludeStatementLine(ctx context.Context, entityID string, reconciliationID string, statementTxnID string, actorID string) error

	// AutoCreateCharges runs the charge classifier over unmatched bank lines
	// and records the resulting balanced adjustment proposals.
	AutoCreateCharges(ctx context.Context, entityID string, reconciliationID string, actorID string) ([]domain.ReconciliationAdjustment, error)

	// AddAdjustment records a manual adjustment proposal.
	AddAdjustment(ctx context.Context, entityID string, reconciliationID string, req dto.CreateAdjustmentRequest, actorID string) (*domain.ReconciliationAdjustment, error)

	// PostAdjustments posts all proposed adjustments through the posting
	// engine; each posted adjustment reduces the running difference.
	PostAdjustments(ctx context.Context, entityID string, reconciliationID string, actorID string) ([]domain.ReconciliationAdjustment, error)

	// Submit moves ADJUSTING -> SUBMITTED, only when the adjusted balances are
	// exactly equal; otherwise a BalanceMismatchError carrying the residual.
	Submit(ctx context.Context, entityID string, reconciliationID string, actorID string) (*domain.Reconciliation, error)

	// Approve requires an approver distinct from the preparer and immediately
	// locks the reconciliation.
	Approve(ctx context.Context, entityID string, reconciliationID string, actorID string) (*domain.Reconciliation, error)

	// Reject returns a submitted reconciliation to ADJUSTING with a reviewer
	// comment; prior adjustments are retained.
	Reject(ctx context.Context, entityID string, reconciliationID string, req dto.RejectReconciliationRequest, actorID string) (*domain.Reconciliation, error)
}
