package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchStatus is the reconciliation state of one imported statement line.
type MatchStatus string

const (
	MatchUnmatched MatchStatus = "UNMATCHED"
	MatchSuggested MatchStatus = "SUGGESTED"
	MatchMatched   MatchStatus = "MATCHED"
	MatchExcluded  MatchStatus = "EXCLUDED"
)

// MatchType records how a statement line was paired with ledger lines.
type MatchType string

const (
	MatchTypeExact     MatchType = "EXACT"
	MatchTypeFuzzy     MatchType = "FUZZY"
	MatchTypeOneToMany MatchType = "ONE_TO_MANY"
	MatchTypeManyToOne MatchType = "MANY_TO_ONE"
	MatchTypeRule      MatchType = "RULE"
	MatchTypeManual    MatchType = "MANUAL"
)

// ChargeFlags mark a statement line as a recognized bank-side charge category.
type ChargeFlags struct {
	IsBankCharge bool `json:"isBankCharge"`
	IsEMTL       bool `json:"isEMTL"`
	IsStampDuty  bool `json:"isStampDuty"`
	IsVAT        bool `json:"isVAT"`
	IsWHT        bool `json:"isWHT"`
	IsInterest   bool `json:"isInterest"`
}

// BankStatementTransaction is one imported external statement line.
// Amount is signed from the bank's perspective: credits (money in) positive,
// debits (money out) negative.
type BankStatementTransaction struct {
	StatementTxnID string           `json:"statementTxnID"`
	BankAccountID  string           `json:"bankAccountID"`
	TxnDate        time.Time        `json:"txnDate"`
	Description    string           `json:"description"`
	Reference      string           `json:"reference"`
	Amount         decimal.Decimal  `json:"amount"`
	RunningBalance *decimal.Decimal `json:"runningBalance,omitempty"` // As supplied by the bank, if at all
	MatchStatus    MatchStatus      `json:"matchStatus"`
	MatchType      MatchType        `json:"matchType,omitempty"`
	Confidence     float64          `json:"confidence"`
	MatchedLineIDs []string         `json:"matchedLineIDs,omitempty"` // Ledger transaction ids this line settles
	MatchedBy      string           `json:"matchedBy,omitempty"`      // Actor for manual matches
	MatchedAt      *time.Time       `json:"matchedAt,omitempty"`
	ChargeFlags
	AuditFields
}
