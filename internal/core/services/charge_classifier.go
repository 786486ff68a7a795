package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/OluAde/ledger_recon_app/internal/core/domain"
)

// BankLegCode is the placeholder account code in a charge rule standing for
// the reconciled bank account's own GL account. The workflow substitutes the
// real account when posting the proposal.
const BankLegCode = "BANK"

// Default chart codes targeted by the built-in rules.
const (
	codeBankCharges    = "6300"
	codeEMTLExpense    = "6310"
	codeStampDuty      = "6320"
	codeVATExpense     = "6330"
	codeWHTReceivable  = "1450"
	codeInterestIncome = "4200"
)

// DefaultChargeRules returns the built-in ordered rule set for Nigerian bank
// statements. First match wins, so the more specific levy patterns come
// before the generic fee patterns.
func DefaultChargeRules() []domain.ChargeRule {
	return []domain.ChargeRule{
		{
			Name:              "EMTL",
			Pattern:           regexp.MustCompile(`EMTL|ELECTRONIC MONEY TRANSFER LEVY|E-?LEVY`),
			Flag:              domain.FlagEMTL,
			AmountCap:         decimal.NewFromInt(50),
			DebitAccountCode:  codeEMTLExpense,
			CreditAccountCode: BankLegCode,
		},
		{
			Name:              "STAMP_DUTY",
			Pattern:           regexp.MustCompile(`STAMP DUTY|STAMP DTY|STMP DUTY`),
			Flag:              domain.FlagStampDuty,
			AmountCap:         decimal.NewFromInt(50),
			DebitAccountCode:  codeStampDuty,
			CreditAccountCode: BankLegCode,
		},
		{
			Name:              "WHT_ON_INTEREST",
			Pattern:           regexp.MustCompile(`WHT|WITHHOLDING TAX`),
			Flag:              domain.FlagWHT,
			DebitAccountCode:  codeWHTReceivable,
			CreditAccountCode: BankLegCode,
		},
		{
			Name:              "VAT_ON_CHARGES",
			Pattern:           regexp.MustCompile(`\bVAT\b`),
			Flag:              domain.FlagVAT,
			DebitAccountCode:  codeVATExpense,
			CreditAccountCode: BankLegCode,
		},
		{
			Name:              "INTEREST_EARNED",
			Pattern:           regexp.MustCompile(`INTEREST|INT\.? PAID|INT CREDIT`),
			Flag:              domain.FlagInterest,
			DebitAccountCode:  BankLegCode,
			CreditAccountCode: codeInterestIncome,
		},
		{
			Name:              "POS_CARD_FEE",
			Pattern:           regexp.MustCompile(`POS FEE|CARD MAINT|ATM FEE|CARD FEE`),
			Flag:              domain.FlagBankCharge,
			DebitAccountCode:  codeBankCharges,
			CreditAccountCode: BankLegCode,
		},
		{
			Name:              "TRANSFER_FEE",
			Pattern:           regexp.MustCompile(`TRANSFER FEE|NIP FEE|TRF CHARGE|NIP CHARGE|COMMISSION`),
			Flag:              domain.FlagBankCharge,
			DebitAccountCode:  codeBankCharges,
			CreditAccountCode: BankLegCode,
		},
		{
			Name:              "ACCOUNT_MAINTENANCE",
			Pattern:           regexp.MustCompile(`MAINTENANCE FEE|ACCT MAINT|ACCOUNT MAINT|SMS ALERT|ALERT FEE|COT\b`),
			Flag:              domain.FlagBankCharge,
			DebitAccountCode:  codeBankCharges,
			CreditAccountCode: BankLegCode,
		},
	}
}

// ChargeClassifier applies an ordered set of data-described rules to the
// description of unmatched bank statement lines. It never proposes an
// adjustment it cannot fully balance.
type ChargeClassifier struct {
	rules []domain.ChargeRule
}

// NewChargeClassifier creates a classifier with the given rule set; nil falls
// back to the built-in rules.
func NewChargeClassifier(rules []domain.ChargeRule) *ChargeClassifier {
	if rules == nil {
		rules = DefaultChargeRules()
	}
	return &ChargeClassifier{rules: rules}
}

// Classify returns the balanced adjustment proposal for a recognized charge
// line, or nil when no rule applies. Rules are evaluated in order; first
// match wins. Money-in rules only apply to credit lines and money-out rules
// only to debit lines, and a rule with an amount cap rejects lines above it.
func (c *ChargeClassifier) Classify(line domain.BankStatementTransaction) *domain.ChargeProposal {
	if line.Amount.IsZero() {
		return nil
	}
	desc := strings.ToUpper(line.Description)
	moneyIn := line.Amount.IsPositive()

	for _, rule := range c.rules {
		if !rule.Pattern.MatchString(desc) {
			continue
		}
		ruleIsMoneyIn := rule.DebitAccountCode == BankLegCode
		if moneyIn != ruleIsMoneyIn {
			continue
		}
		amount := line.Amount.Abs()
		if rule.AmountCap.IsPositive() && amount.GreaterThan(rule.AmountCap) {
			continue
		}
		return &domain.ChargeProposal{
			RuleName:          rule.Name,
			StatementTxnID:    line.StatementTxnID,
			Flag:              rule.Flag,
			Amount:            amount,
			DebitAccountCode:  rule.DebitAccountCode,
			CreditAccountCode: rule.CreditAccountCode,
			Description:       fmt.Sprintf("%s: %s", rule.Name, line.Description),
			Confidence:        0.9,
		}
	}
	return nil
}

// FlagsFor maps a rule flag name onto the statement line's flag fields.
func FlagsFor(flag string) domain.ChargeFlags {
	var f domain.ChargeFlags
	switch flag {
	case domain.FlagEMTL:
		f.IsEMTL = true
	case domain.FlagStampDuty:
		f.IsStampDuty = true
	case domain.FlagVAT:
		f.IsVAT = true
	case domain.FlagWHT:
		f.IsWHT = true
	case domain.FlagInterest:
		f.IsInterest = true
	case domain.FlagBankCharge:
		f.IsBankCharge = true
	}
	return f
}
