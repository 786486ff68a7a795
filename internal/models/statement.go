package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankStatementTransaction is one imported external statement line.
// Amount is signed from the bank's perspective: credits positive, debits negative.
type BankStatementTransaction struct {
	StatementTxnID string           `db:"statement_txn_id"`
	BankAccountID  string           `db:"bank_account_id"`
	TxnDate        time.Time        `db:"txn_date"`
	Description    string           `db:"description"`
	Reference      string           `db:"reference"`
	Amount         decimal.Decimal  `db:"amount"`
	RunningBalance *decimal.Decimal `db:"running_balance"` // Nullable, as supplied by the bank
	MatchStatus    string           `db:"match_status"`
	MatchType      string           `db:"match_type"` // Nullable
	Confidence     float64          `db:"confidence"`
	MatchedLineIDs []string         `db:"matched_line_ids"` // text[] of ledger transaction ids
	MatchedBy      string           `db:"matched_by"`       // Nullable
	MatchedAt      *time.Time       `db:"matched_at"`       // Nullable

	// Charge classification flags.
	IsBankCharge bool `db:"is_bank_charge"`
	IsEMTL       bool `db:"is_emtl"`
	IsStampDuty  bool `db:"is_stamp_duty"`
	IsVAT        bool `db:"is_vat"`
	IsWHT        bool `db:"is_wht"`
	IsInterest   bool `db:"is_interest"`
	AuditFields
}
