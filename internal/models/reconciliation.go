package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reconciliation is one workflow row per (bank account, fiscal period).
type Reconciliation struct {
	ReconciliationID string `db:"reconciliation_id"`
	EntityID         string `db:"entity_id"`
	BankAccountID    string `db:"bank_account_id"`
	PeriodID         string `db:"period_id"`
	Status           string `db:"status"`

	StatementOpeningBalance decimal.Decimal `db:"statement_opening_balance"`
	StatementClosingBalance decimal.Decimal `db:"statement_closing_balance"`
	BookOpeningBalance      decimal.Decimal `db:"book_opening_balance"`
	BookClosingBalance      decimal.Decimal `db:"book_closing_balance"`
	AdjustedBankBalance     decimal.Decimal `db:"adjusted_bank_balance"`
	AdjustedBookBalance     decimal.Decimal `db:"adjusted_book_balance"`
	Difference              decimal.Decimal `db:"difference"`

	PreparedBy      string     `db:"prepared_by"` // Nullable
	SubmittedAt     *time.Time `db:"submitted_at"`
	ApprovedBy      string     `db:"approved_by"` // Nullable
	ApprovedAt      *time.Time `db:"approved_at"`
	ReviewerComment string     `db:"reviewer_comment"` // Nullable
	AuditFields
}

// ReconciliationAdjustment is a proposed or posted correction row.
type ReconciliationAdjustment struct {
	AdjustmentID     string          `db:"adjustment_id"`
	ReconciliationID string          `db:"reconciliation_id"`
	StatementTxnID   *string         `db:"statement_txn_id"` // Nullable
	AdjustmentType   string          `db:"adjustment_type"`
	Side             string          `db:"side"`
	Amount           decimal.Decimal `db:"amount"`
	DebitAccountID   string          `db:"debit_account_id"`
	CreditAccountID  string          `db:"credit_account_id"`
	Description      string          `db:"description"`
	Status           string          `db:"status"`
	JournalID        *string         `db:"journal_id"` // Nullable, set once posted
	AuditFields
}

// OutstandingItem is a ledger-side entry not yet reflected on the bank statement.
type OutstandingItem struct {
	OutstandingItemID string          `db:"outstanding_item_id"`
	ReconciliationID  string          `db:"reconciliation_id"`
	Kind              string          `db:"kind"`
	TransactionID     string          `db:"transaction_id"`
	Amount            decimal.Decimal `db:"amount"`
	ItemDate          time.Time       `db:"item_date"`
	Description       string          `db:"description"`
	CarriedFromID     *string         `db:"carried_from_id"` // Nullable
	Cleared           bool            `db:"cleared"`
	AuditFields
}
