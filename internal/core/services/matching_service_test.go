package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	"github.com/OluAde/ledger_recon_app/internal/core/services"
)

func bankLine(date time.Time, amount string, ref string) domain.BankStatementTransaction {
	return domain.BankStatementTransaction{
		StatementTxnID: uuid.NewString(),
		TxnDate:        date,
		Amount:         decimal.RequireFromString(amount),
		Reference:      ref,
		MatchStatus:    domain.MatchUnmatched,
	}
}

func ledgerLine(date time.Time, amount string, txnType domain.TransactionType) domain.Transaction {
	return domain.Transaction{
		TransactionID:   uuid.NewString(),
		TransactionDate: date,
		Amount:          decimal.RequireFromString(amount),
		TransactionType: txnType,
		MatchStatus:     domain.MatchUnmatched,
	}
}

func TestMatcher_ExactMatchIsAutoConfirmed(t *testing.T) {
	day := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	// AR settlement: ledger debit to the bank account, statement credit.
	bank := []domain.BankStatementTransaction{bankLine(day, "1075000", "INV-001")}
	ledger := []domain.Transaction{ledgerLine(day, "1075000", domain.Debit)}

	matcher := services.NewMatcher(services.DefaultMatchConfig())
	run, err := matcher.Run(context.Background(), bank, ledger)

	require.NoError(t, err)
	require.Len(t, run.Exact, 1)
	assert.Equal(t, domain.MatchTypeExact, run.Exact[0].MatchType)
	assert.Equal(t, 1.0, run.Exact[0].Confidence)
	assert.Empty(t, run.Fuzzy)
	assert.Empty(t, run.UnmatchedBank)
	assert.Empty(t, run.UnmatchedBook)
}

func TestMatcher_ExactNeverDowngradedToSuggested(t *testing.T) {
	day := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	bank := []domain.BankStatementTransaction{bankLine(day, "500.25", "A")}
	// A near-miss candidate alongside the exact one must not steal the match.
	ledger := []domain.Transaction{
		ledgerLine(day, "500.25", domain.Debit),
		ledgerLine(day.AddDate(0, 0, -1), "500.25", domain.Debit),
	}

	matcher := services.NewMatcher(services.DefaultMatchConfig())
	run, err := matcher.Run(context.Background(), bank, ledger)

	require.NoError(t, err)
	require.Len(t, run.Exact, 1)
	assert.True(t, run.Exact[0].LedgerLines[0].TransactionDate.Equal(day))
	assert.Empty(t, run.Fuzzy)
	assert.Len(t, run.UnmatchedBook, 1)
}

func TestMatcher_ToleranceBoundary(t *testing.T) {
	day := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	// Tolerance at 1bp of a percent on 1,000,000.00 is exactly 1.00.
	cfg := services.MatchConfig{ToleranceBps: 1, DateWindowDays: 3, MaxGroupSize: 4}

	t.Run("difference of exactly the tolerance matches", func(t *testing.T) {
		bank := []domain.BankStatementTransaction{bankLine(day, "1000000.00", "X")}
		ledger := []domain.Transaction{ledgerLine(day, "999999.00", domain.Debit)}

		run, err := services.NewMatcher(cfg).Run(context.Background(), bank, ledger)

		require.NoError(t, err)
		require.Len(t, run.Fuzzy, 1)
		assert.Equal(t, domain.MatchTypeFuzzy, run.Fuzzy[0].MatchType)
	})

	t.Run("one minor unit beyond the tolerance does not match", func(t *testing.T) {
		bank := []domain.BankStatementTransaction{bankLine(day, "1000000.00", "X")}
		ledger := []domain.Transaction{ledgerLine(day, "999998.99", domain.Debit)}

		run, err := services.NewMatcher(cfg).Run(context.Background(), bank, ledger)

		require.NoError(t, err)
		assert.Empty(t, run.Fuzzy)
		assert.Len(t, run.UnmatchedBank, 1)
		assert.Len(t, run.UnmatchedBook, 1)
	})
}

func TestMatcher_FuzzyTieBreakPrefersOlderLedgerLine(t *testing.T) {
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	bank := []domain.BankStatementTransaction{bankLine(day, "2000.00", "T")}
	older := ledgerLine(day.AddDate(0, 0, -2), "2000.00", domain.Debit)
	newer := ledgerLine(day.AddDate(0, 0, 2), "2000.00", domain.Debit)
	ledger := []domain.Transaction{newer, older}

	run, err := services.NewMatcher(services.DefaultMatchConfig()).Run(context.Background(), bank, ledger)

	require.NoError(t, err)
	require.Len(t, run.Fuzzy, 1)
	assert.Equal(t, older.TransactionID, run.Fuzzy[0].LedgerLines[0].TransactionID)
}

func TestMatcher_OneLedgerLineToManyBankLines(t *testing.T) {
	day := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	// 100,000 receivable settled by the bank in two tranches the same day.
	b1 := bankLine(day, "60000", "PART-1")
	b2 := bankLine(day, "40000", "PART-2")
	l := ledgerLine(day, "100000", domain.Debit)

	run, err := services.NewMatcher(services.DefaultMatchConfig()).Run(context.Background(), []domain.BankStatementTransaction{b1, b2}, []domain.Transaction{l})

	require.NoError(t, err)
	require.Len(t, run.Groups, 2)
	for _, pair := range run.Groups {
		assert.Equal(t, domain.MatchTypeOneToMany, pair.MatchType)
		assert.Equal(t, l.TransactionID, pair.LedgerLines[0].TransactionID)
		assert.InDelta(t, 0.95, pair.Confidence, 0.0001)
	}
	assert.Empty(t, run.UnmatchedBank)
	assert.Empty(t, run.UnmatchedBook)
}

func TestMatcher_ManyLedgerLinesToOneBankLine(t *testing.T) {
	day := time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC)
	b := bankLine(day, "-75000", "BULK-PAY")
	// Two cheques drawn the same day, presented together.
	l1 := ledgerLine(day, "50000", domain.Credit)
	l2 := ledgerLine(day, "25000", domain.Credit)

	run, err := services.NewMatcher(services.DefaultMatchConfig()).Run(context.Background(), []domain.BankStatementTransaction{b}, []domain.Transaction{l1, l2})

	require.NoError(t, err)
	require.Len(t, run.Groups, 1)
	assert.Equal(t, domain.MatchTypeManyToOne, run.Groups[0].MatchType)
	assert.Len(t, run.Groups[0].LedgerLines, 2)
}

func TestMatcher_RemainderReportedOnBothSides(t *testing.T) {
	day := time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC)
	charge := bankLine(day, "-50", "EMTL CHARGE")
	unclearedCheque := ledgerLine(day, "12345", domain.Credit)

	run, err := services.NewMatcher(services.DefaultMatchConfig()).Run(context.Background(), []domain.BankStatementTransaction{charge}, []domain.Transaction{unclearedCheque})

	require.NoError(t, err)
	assert.Empty(t, run.Exact)
	assert.Empty(t, run.Fuzzy)
	assert.Empty(t, run.Groups)
	require.Len(t, run.UnmatchedBank, 1)
	require.Len(t, run.UnmatchedBook, 1)
	assert.Equal(t, charge.StatementTxnID, run.UnmatchedBank[0].StatementTxnID)
	assert.Equal(t, unclearedCheque.TransactionID, run.UnmatchedBook[0].TransactionID)
}

func TestMatcher_CancelledContextAbortsWithoutPartialResult(t *testing.T) {
	day := time.Date(2026, 1, 25, 0, 0, 0, 0, time.UTC)
	bank := []domain.BankStatementTransaction{bankLine(day, "100", "A"), bankLine(day, "200", "B")}
	ledger := []domain.Transaction{ledgerLine(day, "100", domain.Debit), ledgerLine(day, "200", domain.Debit)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := services.NewMatcher(services.DefaultMatchConfig()).Run(ctx, bank, ledger)

	require.Error(t, err)
	assert.Nil(t, run)
}

func TestMatcher_DeterministicAcrossInputOrder(t *testing.T) {
	day := time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC)
	b1 := bankLine(day, "300", "R1")
	b2 := bankLine(day, "300", "R2")
	l1 := ledgerLine(day, "300", domain.Debit)
	l2 := ledgerLine(day, "300", domain.Debit)

	matcher := services.NewMatcher(services.DefaultMatchConfig())
	runA, err := matcher.Run(context.Background(), []domain.BankStatementTransaction{b1, b2}, []domain.Transaction{l1, l2})
	require.NoError(t, err)
	runB, err := matcher.Run(context.Background(), []domain.BankStatementTransaction{b2, b1}, []domain.Transaction{l2, l1})
	require.NoError(t, err)

	require.Len(t, runA.Exact, 2)
	require.Len(t, runB.Exact, 2)
	for i := range runA.Exact {
		assert.Equal(t, runA.Exact[i].StatementTxn.StatementTxnID, runB.Exact[i].StatementTxn.StatementTxnID)
		assert.Equal(t, runA.Exact[i].LedgerLines[0].TransactionID, runB.Exact[i].LedgerLines[0].TransactionID)
	}
}
