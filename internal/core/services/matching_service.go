package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/OluAde/ledger_recon_app/internal/core/domain"
)

// MatchConfig holds the tunable parameters of the matching passes.
type MatchConfig struct {
	// ToleranceBps is the relative amount tolerance in basis points of a
	// percent: 1 means +-0.01% of the bank line amount.
	ToleranceBps int64
	// DateWindowDays bounds how far apart a fuzzy pair's dates may be.
	DateWindowDays int
	// MaxGroupSize bounds the subset search in the group pass.
	MaxGroupSize int
}

// DefaultMatchConfig mirrors the documented defaults.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{ToleranceBps: 1, DateWindowDays: 3, MaxGroupSize: 4}
}

// MatchPair is one proposed or confirmed pairing of a statement line with
// ledger lines. Exact pairs are auto-confirmed; everything else is a
// suggestion requiring human confirmation.
type MatchPair struct {
	StatementTxn domain.BankStatementTransaction
	LedgerLines  []domain.Transaction
	MatchType    domain.MatchType
	Confidence   float64
}

// MatchRun is the complete outcome of one batch over a (bank account, period)
// pair. Unmatched remainders are reported on both sides so the caller can
// route book lines to outstanding items and bank lines to the classifier.
type MatchRun struct {
	Exact         []MatchPair
	Fuzzy         []MatchPair
	Groups        []MatchPair
	UnmatchedBank []domain.BankStatementTransaction
	UnmatchedBook []domain.Transaction
}

// Matcher pairs imported statement lines against unmatched ledger lines.
// It is purely computational; the caller persists the results, serialized
// per reconciliation.
type Matcher struct {
	cfg MatchConfig
}

// NewMatcher creates a Matcher with the given configuration. Zero or negative
// group size falls back to the default.
func NewMatcher(cfg MatchConfig) *Matcher {
	if cfg.MaxGroupSize <= 0 {
		cfg.MaxGroupSize = DefaultMatchConfig().MaxGroupSize
	}
	if cfg.DateWindowDays < 0 {
		cfg.DateWindowDays = 0
	}
	return &Matcher{cfg: cfg}
}

// ledgerSignedAmount converts a ledger line on the bank GL account into the
// bank statement's sign convention: debits to the bank asset account are
// money in (positive), credits are money out (negative).
func ledgerSignedAmount(txn domain.Transaction) decimal.Decimal {
	if txn.TransactionType == domain.Debit {
		return txn.Amount
	}
	return txn.Amount.Neg()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func daysApart(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}

// tolerance returns the absolute amount tolerance for a given bank amount.
// The boundary is inclusive: a difference of exactly the tolerance matches.
func (m *Matcher) tolerance(bankAmount decimal.Decimal) decimal.Decimal {
	return bankAmount.Abs().Mul(decimal.NewFromInt(m.cfg.ToleranceBps)).Div(decimal.NewFromInt(1000000))
}

// Run executes the matching passes in strict priority order. Each pass only
// sees items left unmatched by prior passes. A context error aborts the whole
// run with no partial result; the caller persists nothing.
func (m *Matcher) Run(ctx context.Context, bankLines []domain.BankStatementTransaction, ledgerLines []domain.Transaction) (*MatchRun, error) {
	// Deterministic input order regardless of storage order: date, then
	// amount, then id.
	bank := make([]domain.BankStatementTransaction, len(bankLines))
	copy(bank, bankLines)
	sort.Slice(bank, func(i, j int) bool {
		if !sameDay(bank[i].TxnDate, bank[j].TxnDate) {
			return bank[i].TxnDate.Before(bank[j].TxnDate)
		}
		if !bank[i].Amount.Equal(bank[j].Amount) {
			return bank[i].Amount.LessThan(bank[j].Amount)
		}
		return bank[i].StatementTxnID < bank[j].StatementTxnID
	})
	ledger := make([]domain.Transaction, len(ledgerLines))
	copy(ledger, ledgerLines)
	sort.Slice(ledger, func(i, j int) bool {
		if !sameDay(ledger[i].TransactionDate, ledger[j].TransactionDate) {
			return ledger[i].TransactionDate.Before(ledger[j].TransactionDate)
		}
		return ledger[i].TransactionID < ledger[j].TransactionID
	})

	run := &MatchRun{}
	usedBank := make(map[string]bool)
	usedLedger := make(map[string]bool)

	if err := m.exactPass(ctx, bank, ledger, usedBank, usedLedger, run); err != nil {
		return nil, err
	}
	if err := m.fuzzyPass(ctx, bank, ledger, usedBank, usedLedger, run); err != nil {
		return nil, err
	}
	if err := m.groupPass(ctx, bank, ledger, usedBank, usedLedger, run); err != nil {
		return nil, err
	}

	for _, b := range bank {
		if !usedBank[b.StatementTxnID] {
			run.UnmatchedBank = append(run.UnmatchedBank, b)
		}
	}
	for _, l := range ledger {
		if !usedLedger[l.TransactionID] {
			run.UnmatchedBook = append(run.UnmatchedBook, l)
		}
	}
	return run, nil
}

// exactPass pairs lines with identical amount (to the minor unit) and date.
// Pairs are auto-confirmed at confidence 1.0, never merely suggested.
func (m *Matcher) exactPass(ctx context.Context, bank []domain.BankStatementTransaction, ledger []domain.Transaction, usedBank, usedLedger map[string]bool, run *MatchRun) error {
	for _, b := range bank {
		if err := ctx.Err(); err != nil {
			return err
		}
		if usedBank[b.StatementTxnID] {
			continue
		}
		for _, l := range ledger {
			if usedLedger[l.TransactionID] {
				continue
			}
			if !sameDay(b.TxnDate, l.TransactionDate) {
				continue
			}
			if !b.Amount.Equal(ledgerSignedAmount(l)) {
				continue
			}
			usedBank[b.StatementTxnID] = true
			usedLedger[l.TransactionID] = true
			run.Exact = append(run.Exact, MatchPair{
				StatementTxn: b,
				LedgerLines:  []domain.Transaction{l},
				MatchType:    domain.MatchTypeExact,
				Confidence:   1.0,
			})
			break
		}
	}
	return nil
}

// fuzzyCandidate is one scored ledger line for a bank line.
type fuzzyCandidate struct {
	line  domain.Transaction
	score float64
}

// fuzzyPass pairs lines whose amounts agree within tolerance and whose dates
// fall within the window. Candidates are ranked by a score weighting amount
// closeness over date closeness; identical scores prefer the earlier-dated
// ledger line. Results are suggestions, not confirmations.
func (m *Matcher) fuzzyPass(ctx context.Context, bank []domain.BankStatementTransaction, ledger []domain.Transaction, usedBank, usedLedger map[string]bool, run *MatchRun) error {
	for _, b := range bank {
		if err := ctx.Err(); err != nil {
			return err
		}
		if usedBank[b.StatementTxnID] {
			continue
		}
		tol := m.tolerance(b.Amount)

		var candidates []fuzzyCandidate
		for _, l := range ledger {
			if usedLedger[l.TransactionID] {
				continue
			}
			days := daysApart(b.TxnDate, l.TransactionDate)
			if days > m.cfg.DateWindowDays {
				continue
			}
			diff := b.Amount.Sub(ledgerSignedAmount(l)).Abs()
			if diff.GreaterThan(tol) {
				continue
			}
			candidates = append(candidates, fuzzyCandidate{
				line:  l,
				score: m.pairScore(diff, tol, days),
			})
		}
		if len(candidates) == 0 {
			continue
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].score != candidates[j].score {
				return candidates[i].score > candidates[j].score
			}
			// Oldest-first settlement assumption on ties.
			return candidates[i].line.TransactionDate.Before(candidates[j].line.TransactionDate)
		})

		best := candidates[0]
		usedBank[b.StatementTxnID] = true
		usedLedger[best.line.TransactionID] = true
		run.Fuzzy = append(run.Fuzzy, MatchPair{
			StatementTxn: b,
			LedgerLines:  []domain.Transaction{best.line},
			MatchType:    domain.MatchTypeFuzzy,
			Confidence:   best.score,
		})
	}
	return nil
}

// pairScore combines amount closeness and date closeness. A zero-tolerance
// configuration still scores exact-amount candidates at full amount closeness.
func (m *Matcher) pairScore(diff, tol decimal.Decimal, days int) float64 {
	amountCloseness := 1.0
	if tol.IsPositive() {
		ratio, _ := diff.Div(tol).Float64()
		amountCloseness = 1.0 - ratio
	}
	dateCloseness := 1.0
	if m.cfg.DateWindowDays > 0 {
		dateCloseness = 1.0 - float64(days)/float64(m.cfg.DateWindowDays)
	} else if days > 0 {
		dateCloseness = 0
	}
	score := 0.7*amountCloseness + 0.3*dateCloseness
	if score < 0 {
		return 0
	}
	return score
}

// groupPass proposes many-to-one matches (several ledger lines summing to one
// bank line) and one-to-many matches (several bank lines summing to one
// ledger line), bounded by MaxGroupSize to keep the subset search tractable.
func (m *Matcher) groupPass(ctx context.Context, bank []domain.BankStatementTransaction, ledger []domain.Transaction, usedBank, usedLedger map[string]bool, run *MatchRun) error {
	// Many-to-one: ledger subset -> bank line.
	for _, b := range bank {
		if err := ctx.Err(); err != nil {
			return err
		}
		if usedBank[b.StatementTxnID] {
			continue
		}
		var pool []domain.Transaction
		for _, l := range ledger {
			if !usedLedger[l.TransactionID] && daysApart(b.TxnDate, l.TransactionDate) <= m.cfg.DateWindowDays {
				pool = append(pool, l)
			}
		}
		tol := m.tolerance(b.Amount)
		subset, residual := findLedgerSubset(pool, b.Amount, tol, m.cfg.MaxGroupSize)
		if len(subset) < 2 {
			continue
		}
		usedBank[b.StatementTxnID] = true
		for _, l := range subset {
			usedLedger[l.TransactionID] = true
		}
		run.Groups = append(run.Groups, MatchPair{
			StatementTxn: b,
			LedgerLines:  subset,
			MatchType:    domain.MatchTypeManyToOne,
			Confidence:   groupConfidence(residual, tol),
		})
	}

	// One-to-many: bank subset -> ledger line. The proposal is recorded per
	// statement line, all pointing at the same ledger line.
	for _, l := range ledger {
		if err := ctx.Err(); err != nil {
			return err
		}
		if usedLedger[l.TransactionID] {
			continue
		}
		target := ledgerSignedAmount(l)
		var pool []domain.BankStatementTransaction
		for _, b := range bank {
			if !usedBank[b.StatementTxnID] && daysApart(b.TxnDate, l.TransactionDate) <= m.cfg.DateWindowDays {
				pool = append(pool, b)
			}
		}
		tol := target.Abs().Mul(decimal.NewFromInt(m.cfg.ToleranceBps)).Div(decimal.NewFromInt(1000000))
		subset, residual := findBankSubset(pool, target, tol, m.cfg.MaxGroupSize)
		if len(subset) < 2 {
			continue
		}
		usedLedger[l.TransactionID] = true
		confidence := groupConfidence(residual, tol)
		for _, b := range subset {
			usedBank[b.StatementTxnID] = true
			run.Groups = append(run.Groups, MatchPair{
				StatementTxn: b,
				LedgerLines:  []domain.Transaction{l},
				MatchType:    domain.MatchTypeOneToMany,
				Confidence:   confidence,
			})
		}
	}
	return nil
}

// groupConfidence scores a group proposal on its residual: zero residual is
// the strongest possible suggestion but still short of auto-confirmation.
func groupConfidence(residual, tol decimal.Decimal) float64 {
	if residual.IsZero() {
		return 0.95
	}
	if tol.IsPositive() {
		ratio, _ := residual.Div(tol).Float64()
		return 0.95 * (1.0 - ratio)
	}
	return 0
}

// findLedgerSubset searches for up to maxSize ledger lines whose signed
// amounts sum to target within tol, preferring the subset with the smallest
// residual. Depth-first with size bounding; pools are period-scoped so the
// search stays small in practice.
func findLedgerSubset(pool []domain.Transaction, target, tol decimal.Decimal, maxSize int) ([]domain.Transaction, decimal.Decimal) {
	var best []domain.Transaction
	bestResidual := decimal.Zero

	var recurse func(start int, current []domain.Transaction, sum decimal.Decimal)
	recurse = func(start int, current []domain.Transaction, sum decimal.Decimal) {
		if len(current) >= 2 {
			residual := target.Sub(sum).Abs()
			if !residual.GreaterThan(tol) {
				if best == nil || residual.LessThan(bestResidual) {
					best = append([]domain.Transaction(nil), current...)
					bestResidual = residual
				}
			}
		}
		if len(current) == maxSize {
			return
		}
		for i := start; i < len(pool); i++ {
			recurse(i+1, append(current, pool[i]), sum.Add(ledgerSignedAmount(pool[i])))
		}
	}
	recurse(0, nil, decimal.Zero)
	return best, bestResidual
}

// findBankSubset is the bank-side mirror of findLedgerSubset.
func findBankSubset(pool []domain.BankStatementTransaction, target, tol decimal.Decimal, maxSize int) ([]domain.BankStatementTransaction, decimal.Decimal) {
	var best []domain.BankStatementTransaction
	bestResidual := decimal.Zero

	var recurse func(start int, current []domain.BankStatementTransaction, sum decimal.Decimal)
	recurse = func(start int, current []domain.BankStatementTransaction, sum decimal.Decimal) {
		if len(current) >= 2 {
			residual := target.Sub(sum).Abs()
			if !residual.GreaterThan(tol) {
				if best == nil || residual.LessThan(bestResidual) {
					best = append([]domain.BankStatementTransaction(nil), current...)
					bestResidual = residual
				}
			}
		}
		if len(current) == maxSize {
			return
		}
		for i := start; i < len(pool); i++ {
			recurse(i+1, append(current, pool[i]), sum.Add(pool[i].Amount))
		}
	}
	recurse(0, nil, decimal.Zero)
	return best, bestResidual
}
