package domain

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// ChargeRule is one data-described classification rule applied to the
// description of an unmatched bank statement line. Rules are evaluated in
// order; the first match wins.
type ChargeRule struct {
	Name              string          // e.g. "EMTL"
	Pattern           *regexp.Regexp  // Matched against the uppercased description
	Flag              string          // Which ChargeFlags field to set
	AmountCap         decimal.Decimal // Zero means no cap; typical-amount sanity check
	DebitAccountCode  string          // Account code debited by the proposal
	CreditAccountCode string          // Account code credited by the proposal
}

// Charge flag names used by ChargeRule.Flag.
const (
	FlagBankCharge = "BANK_CHARGE"
	FlagEMTL       = "EMTL"
	FlagStampDuty  = "STAMP_DUTY"
	FlagVAT        = "VAT"
	FlagWHT        = "WHT"
	FlagInterest   = "INTEREST"
)

// ChargeProposal is a balanced two-line adjustment proposed by the classifier
// for a recognized bank-side charge. The classifier never proposes anything
// it cannot fully balance.
type ChargeProposal struct {
	RuleName          string          `json:"ruleName"`
	StatementTxnID    string          `json:"statementTxnID"`
	Flag              string          `json:"flag"`
	Amount            decimal.Decimal `json:"amount"` // Absolute value of the charge
	DebitAccountCode  string          `json:"debitAccountCode"`
	CreditAccountCode string          `json:"creditAccountCode"`
	Description       string          `json:"description"`
	Confidence        float64         `json:"confidence"`
}
