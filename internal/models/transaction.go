package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction line is a Debit or a Credit.
type TransactionType string

const (
	Debit  TransactionType = "DEBIT"
	Credit TransactionType = "CREDIT"
)

// Transaction represents a single line item within a Journal, affecting one account.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	JournalID       string          `db:"journal_id"`
	AccountID       string          `db:"account_id"`
	Amount          decimal.Decimal `db:"amount"` // Positive value
	TransactionType TransactionType `db:"transaction_type"`
	CurrencyCode    string          `db:"currency_code"`
	Notes           string          `db:"notes"` // Nullable
	TransactionDate time.Time       `db:"transaction_date"`
	RunningBalance  decimal.Decimal `db:"running_balance"` // Balance after this transaction

	// Reconciliation state for lines on reconcilable accounts.
	MatchStatus    string  `db:"match_status"`
	StatementTxnID *string `db:"statement_txn_id"` // Nullable

	// Joined from journals in account-statement queries; not a column on transactions.
	JournalDate        time.Time `db:"journal_date"`
	JournalDescription string    `db:"journal_description"`
	AuditFields
}
