package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus is the workflow state of one (bank account, period) reconciliation.
type ReconciliationStatus string

const (
	ReconDraft     ReconciliationStatus = "DRAFT"
	ReconMatching  ReconciliationStatus = "MATCHING"
	ReconAdjusting ReconciliationStatus = "ADJUSTING"
	ReconSubmitted ReconciliationStatus = "SUBMITTED"
	ReconApproved  ReconciliationStatus = "APPROVED"
	ReconRejected  ReconciliationStatus = "REJECTED"
	ReconLocked    ReconciliationStatus = "LOCKED"
)

// reconTransitions is the exhaustive transition table for the workflow.
// Any transition not listed here is rejected; caller-supplied status values
// are never trusted directly.
var reconTransitions = map[ReconciliationStatus][]ReconciliationStatus{
	ReconDraft:     {ReconMatching},
	ReconMatching:  {ReconAdjusting},
	ReconAdjusting: {ReconSubmitted},
	ReconSubmitted: {ReconApproved, ReconRejected},
	ReconApproved:  {ReconLocked},
	ReconRejected:  {ReconAdjusting},
	ReconLocked:    {},
}

// ErrInvalidTransition is returned when a workflow transition is not in the table.
type ErrInvalidTransition struct {
	From ReconciliationStatus
	To   ReconciliationStatus
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid reconciliation transition %s -> %s", e.From, e.To)
}

// CanTransition reports whether moving from -> to is permitted by the workflow.
func CanTransition(from, to ReconciliationStatus) bool {
	for _, allowed := range reconTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition validates and returns the new status, or ErrInvalidTransition.
func (r *Reconciliation) Transition(to ReconciliationStatus) error {
	if !CanTransition(r.Status, to) {
		return ErrInvalidTransition{From: r.Status, To: to}
	}
	r.Status = to
	return nil
}

// ApplyOutstandingItem folds a newly recorded outstanding item into the
// adjusted bank balance: a deposit in transit raises it, an outstanding
// cheque lowers it. The difference is recomputed in the same step.
func (r *Reconciliation) ApplyOutstandingItem(item OutstandingItem) {
	switch item.Kind {
	case DepositInTransit:
		r.AdjustedBankBalance = r.AdjustedBankBalance.Add(item.Amount)
	case OutstandingCheque:
		r.AdjustedBankBalance = r.AdjustedBankBalance.Sub(item.Amount)
	}
	r.Difference = r.AdjustedBankBalance.Sub(r.AdjustedBookBalance)
}

// Editable reports whether the reconciliation and its adjustments may still be
// modified. Everything from SUBMITTED onward is frozen except via Reject.
func (r *Reconciliation) Editable() bool {
	switch r.Status {
	case ReconDraft, ReconMatching, ReconAdjusting:
		return true
	}
	return false
}

// Reconciliation is one workflow instance per (BankAccount, FiscalPeriod).
type Reconciliation struct {
	ReconciliationID string               `json:"reconciliationID"`
	EntityID         string               `json:"entityID"`
	BankAccountID    string               `json:"bankAccountID"`
	PeriodID         string               `json:"periodID"`
	Status           ReconciliationStatus `json:"status"`

	StatementOpeningBalance decimal.Decimal `json:"statementOpeningBalance"`
	StatementClosingBalance decimal.Decimal `json:"statementClosingBalance"`
	BookOpeningBalance      decimal.Decimal `json:"bookOpeningBalance"`
	BookClosingBalance      decimal.Decimal `json:"bookClosingBalance"`
	AdjustedBankBalance     decimal.Decimal `json:"adjustedBankBalance"`
	AdjustedBookBalance     decimal.Decimal `json:"adjustedBookBalance"`
	// Difference must reach exactly zero before Submit is accepted.
	Difference decimal.Decimal `json:"difference"`

	PreparedBy      string     `json:"preparedBy,omitempty"` // Actor who submitted
	SubmittedAt     *time.Time `json:"submittedAt,omitempty"`
	ApprovedBy      string     `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	ReviewerComment string     `json:"reviewerComment,omitempty"` // Set on rejection

	OutstandingItems []OutstandingItem          `json:"outstandingItems,omitempty"`
	Adjustments      []ReconciliationAdjustment `json:"adjustments,omitempty"`
	AuditFields
}

// AdjustmentSide indicates which balance an adjustment corrects.
type AdjustmentSide string

const (
	AdjustBank AdjustmentSide = "BANK"
	AdjustBook AdjustmentSide = "BOOK"
)

// AdjustmentStatus tracks an adjustment from proposal to posting.
type AdjustmentStatus string

const (
	AdjustmentProposed AdjustmentStatus = "PROPOSED"
	AdjustmentPosted   AdjustmentStatus = "POSTED"
)

// ReconciliationAdjustment is a proposed or posted correction. Once posted it
// is immutable and linked to the journal entry it produced; correcting it
// requires a new reversing adjustment.
type ReconciliationAdjustment struct {
	AdjustmentID     string           `json:"adjustmentID"`
	ReconciliationID string           `json:"reconciliationID"`
	StatementTxnID   string           `json:"statementTxnID,omitempty"` // Bank line that prompted this, if any
	AdjustmentType   string           `json:"adjustmentType"`           // Charge rule name or "MANUAL"
	Side             AdjustmentSide   `json:"side"`
	Amount           decimal.Decimal  `json:"amount"` // Positive magnitude; the debit and credit legs carry the direction
	DebitAccountID   string           `json:"debitAccountID"`
	CreditAccountID  string           `json:"creditAccountID"`
	Description      string           `json:"description"`
	Status           AdjustmentStatus `json:"status"`
	JournalID        *string          `json:"journalID,omitempty"` // Set once posted
	AuditFields
}

// OutstandingItemKind classifies a book-side item awaiting bank clearance.
type OutstandingItemKind string

const (
	OutstandingCheque OutstandingItemKind = "OUTSTANDING_CHEQUE"
	DepositInTransit  OutstandingItemKind = "DEPOSIT_IN_TRANSIT"
)

// OutstandingItem is a ledger-side entry not yet reflected on the bank
// statement. Items open at lock time roll forward into the next period's
// reconciliation.
type OutstandingItem struct {
	OutstandingItemID string              `json:"outstandingItemID"`
	ReconciliationID  string              `json:"reconciliationID"`
	Kind              OutstandingItemKind `json:"kind"`
	TransactionID     string              `json:"transactionID"` // Ledger line awaiting clearance
	Amount            decimal.Decimal     `json:"amount"`
	ItemDate          time.Time           `json:"itemDate"`
	Description       string              `json:"description"`
	CarriedFromID     *string             `json:"carriedFromID,omitempty"` // Prior period's item when rolled forward
	Cleared           bool                `json:"cleared"`
	AuditFields
}
