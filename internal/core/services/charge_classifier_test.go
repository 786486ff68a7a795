package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	"github.com/OluAde/ledger_recon_app/internal/core/services"
)

func chargeLine(amount, description string) domain.BankStatementTransaction {
	return domain.BankStatementTransaction{
		StatementTxnID: uuid.NewString(),
		TxnDate:        time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Description:    description,
		Amount:         decimal.RequireFromString(amount),
		MatchStatus:    domain.MatchUnmatched,
	}
}

func TestChargeClassifier_EMTLDebitLine(t *testing.T) {
	classifier := services.NewChargeClassifier(nil)
	line := chargeLine("-50", "EMTL CHARGE")

	proposal := classifier.Classify(line)

	require.NotNil(t, proposal)
	assert.Equal(t, "EMTL", proposal.RuleName)
	assert.Equal(t, domain.FlagEMTL, proposal.Flag)
	assert.True(t, proposal.Amount.Equal(decimal.NewFromInt(50)))
	// Debit the levy expense, credit the bank: posting this reduces the
	// reconciliation difference by exactly the charge amount.
	assert.Equal(t, "6310", proposal.DebitAccountCode)
	assert.Equal(t, services.BankLegCode, proposal.CreditAccountCode)
}

func TestChargeClassifier_AmountCapRejectsImplausibleLevy(t *testing.T) {
	classifier := services.NewChargeClassifier(nil)
	// EMTL is a flat 50 naira levy; a 5,000 line with that narrative is
	// something else and must not be auto-proposed.
	line := chargeLine("-5000", "EMTL CHARGE")

	proposal := classifier.Classify(line)

	assert.Nil(t, proposal)
}

func TestChargeClassifier_InterestIsMoneyIn(t *testing.T) {
	classifier := services.NewChargeClassifier(nil)
	line := chargeLine("1234.56", "INTEREST CREDIT JAN")

	proposal := classifier.Classify(line)

	require.NotNil(t, proposal)
	assert.Equal(t, "INTEREST_EARNED", proposal.RuleName)
	assert.Equal(t, services.BankLegCode, proposal.DebitAccountCode)
	assert.Equal(t, "4200", proposal.CreditAccountCode)
}

func TestChargeClassifier_WHTBeatsInterestOnCombinedNarrative(t *testing.T) {
	classifier := services.NewChargeClassifier(nil)
	// Tax withheld on interest is money out; the WHT rule is ordered first so
	// the combined narrative does not classify as interest income.
	line := chargeLine("-123.46", "WHT ON INTEREST JAN")

	proposal := classifier.Classify(line)

	require.NotNil(t, proposal)
	assert.Equal(t, "WHT_ON_INTEREST", proposal.RuleName)
	assert.Equal(t, "1450", proposal.DebitAccountCode)
}

func TestChargeClassifier_DirectionMismatchRejected(t *testing.T) {
	classifier := services.NewChargeClassifier(nil)
	// A credit line with a fee narrative (e.g. a fee refund) is not a charge.
	line := chargeLine("100", "NIP FEE")

	proposal := classifier.Classify(line)

	assert.Nil(t, proposal)
}

func TestChargeClassifier_UnrecognizedLineStaysUnmatched(t *testing.T) {
	classifier := services.NewChargeClassifier(nil)
	line := chargeLine("-75000", "CHQ 0001123 ADEBAYO VENTURES")

	proposal := classifier.Classify(line)

	assert.Nil(t, proposal)
}

func TestChargeClassifier_FirstMatchWins(t *testing.T) {
	classifier := services.NewChargeClassifier(nil)
	line := chargeLine("-53.75", "VAT ON NIP TRANSFER FEE")

	proposal := classifier.Classify(line)

	require.NotNil(t, proposal)
	assert.Equal(t, "VAT_ON_CHARGES", proposal.RuleName)
}

func TestChargeClassifier_CaseInsensitiveDescriptions(t *testing.T) {
	classifier := services.NewChargeClassifier(nil)
	line := chargeLine("-50", "stamp duty on transfer")

	proposal := classifier.Classify(line)

	require.NotNil(t, proposal)
	assert.Equal(t, "STAMP_DUTY", proposal.RuleName)
}

func TestFlagsFor(t *testing.T) {
	assert.True(t, services.FlagsFor(domain.FlagEMTL).IsEMTL)
	assert.True(t, services.FlagsFor(domain.FlagStampDuty).IsStampDuty)
	assert.True(t, services.FlagsFor(domain.FlagInterest).IsInterest)
	assert.True(t, services.FlagsFor(domain.FlagBankCharge).IsBankCharge)
	assert.Equal(t, domain.ChargeFlags{}, services.FlagsFor("UNKNOWN"))
}
