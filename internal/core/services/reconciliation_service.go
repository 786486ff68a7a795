package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/OluAde/ledger_recon_app/internal/apperrors"
	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	portsrepo "github.com/OluAde/ledger_recon_app/internal/core/ports/repositories"
	portssvc "github.com/OluAde/ledger_recon_app/internal/core/ports/services"
	"github.com/OluAde/ledger_recon_app/internal/dto"
	"github.com/OluAde/ledger_recon_app/internal/ingest"
	"github.com/OluAde/ledger_recon_app/internal/middleware"
	"github.com/OluAde/ledger_recon_app/internal/utils"
)

// reconciliationService drives the per-(bank account, period) workflow:
// ingestion, matching, adjustment, approval, lock. Confirmation and posting
// within one reconciliation are serialized; reconciliations for different
// bank accounts proceed independently.
type reconciliationService struct {
	reconRepo   portsrepo.ReconciliationRepositoryWithTx
	bankRepo    portsrepo.BankRepositoryFacade
	journalRepo portsrepo.JournalRepositoryWithTx
	periodRepo  portsrepo.PeriodRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	poster      portssvc.JournalPosterSvc
	matcher     *Matcher
	classifier  *ChargeClassifier

	reconLocks *utils.KeyedMutex
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(
	reconRepo portsrepo.ReconciliationRepositoryWithTx,
	bankRepo portsrepo.BankRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryWithTx,
	periodRepo portsrepo.PeriodRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
	poster portssvc.JournalPosterSvc,
	matchCfg MatchConfig,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		reconRepo:   reconRepo,
		bankRepo:    bankRepo,
		journalRepo: journalRepo,
		periodRepo:  periodRepo,
		accountSvc:  accountSvc,
		poster:      poster,
		matcher:     NewMatcher(matchCfg),
		classifier:  NewChargeClassifier(nil),
		reconLocks:  utils.NewKeyedMutex(),
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// loadScoped fetches a reconciliation with its bank account and period,
// verifying entity ownership. Cross-entity access reads as not-found.
func (s *reconciliationService) loadScoped(ctx context.Context, entityID string, reconciliationID string) (*domain.Reconciliation, *domain.BankAccount, *domain.FiscalPeriod, error) {
	recon, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, nil, nil, err
	}
	if recon.EntityID != entityID {
		return nil, nil, nil, apperrors.ErrNotFound
	}
	bankAccount, err := s.bankRepo.FindBankAccountByID(ctx, recon.BankAccountID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load bank account for reconciliation: %w", err)
	}
	period, err := s.periodRepo.FindPeriodByID(ctx, recon.PeriodID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load fiscal period for reconciliation: %w", err)
	}
	return recon, bankAccount, period, nil
}

// CreateReconciliation starts the workflow for (bank account, period).
// Outstanding items still open on the prior period's locked reconciliation
// are carried forward as this period's opening outstanding set.
func (s *reconciliationService) CreateReconciliation(ctx context.Context, entityID string, req dto.CreateReconciliationRequest, actorID string) (*domain.Reconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	bankAccount, err := s.bankRepo.FindBankAccountByID(ctx, req.BankAccountID)
	if err != nil {
		return nil, err
	}
	if bankAccount.EntityID != entityID {
		return nil, apperrors.ErrNotFound
	}
	if !bankAccount.IsActive {
		return nil, fmt.Errorf("%w: bank account is inactive", apperrors.ErrValidation)
	}

	glAccount, err := s.accountSvc.GetAccountByID(ctx, entityID, bankAccount.GLAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load GL account for bank account: %w", err)
	}
	if !glAccount.Reconcilable {
		return nil, fmt.Errorf("%w: GL account %s is not flagged reconcilable", apperrors.ErrValidation, glAccount.Code)
	}

	period, err := s.periodRepo.FindPeriodByID(ctx, req.PeriodID)
	if err != nil {
		return nil, err
	}
	if period.EntityID != entityID {
		return nil, apperrors.ErrNotFound
	}
	if period.Status != domain.PeriodOpen {
		return nil, fmt.Errorf("%w: period %s is %s", apperrors.ErrConflict, period.Name, period.Status)
	}

	if existing, err := s.reconRepo.FindReconciliationByBankAccountAndPeriod(ctx, req.BankAccountID, req.PeriodID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: reconciliation %s already covers this bank account and period", apperrors.ErrDuplicate, existing.ReconciliationID)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing reconciliation: %w", err)
	}

	// The book side is the GL balance as the period end saw it, not the live
	// balance, so postings dated after the period never skew the comparison.
	bookClosing, err := s.journalRepo.AccountBalanceAsOf(ctx, bankAccount.GLAccountID, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to compute book balance at period end: %w", err)
	}

	now := time.Now().UTC()
	recon := domain.Reconciliation{
		ReconciliationID:        uuid.NewString(),
		EntityID:                entityID,
		BankAccountID:           req.BankAccountID,
		PeriodID:                req.PeriodID,
		Status:                  domain.ReconDraft,
		StatementOpeningBalance: req.StatementOpeningBalance,
		StatementClosingBalance: req.StatementClosingBalance,
		BookOpeningBalance:      bankAccount.OpeningBalance,
		BookClosingBalance:      bookClosing,
		AdjustedBankBalance:     req.StatementClosingBalance,
		AdjustedBookBalance:     bookClosing,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	recon.Difference = recon.AdjustedBankBalance.Sub(recon.AdjustedBookBalance)

	carried := s.carryForwardOutstanding(ctx, bankAccount.BankAccountID, period, recon.ReconciliationID, actorID, now)
	for i := range carried {
		recon.ApplyOutstandingItem(carried[i])
	}
	if prior := s.priorLockedReconciliation(ctx, bankAccount.BankAccountID, period); prior != nil {
		recon.BookOpeningBalance = prior.BookClosingBalance
	}

	if err := s.reconRepo.SaveReconciliation(ctx, recon); err != nil {
		logger.Error("Failed to save reconciliation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reconciliation: %w", err)
	}
	if len(carried) > 0 {
		if err := s.reconRepo.SaveOutstandingItems(ctx, carried); err != nil {
			return nil, fmt.Errorf("failed to carry forward outstanding items: %w", err)
		}
		recon.OutstandingItems = carried
	}

	logger.Info("Reconciliation created",
		slog.String("reconciliation_id", recon.ReconciliationID),
		slog.String("bank_account_id", req.BankAccountID),
		slog.String("period_id", req.PeriodID),
		slog.Int("carried_outstanding", len(carried)),
	)
	return &recon, nil
}

// priorLockedReconciliation finds the locked reconciliation of the period
// immediately preceding the given one, if any.
func (s *reconciliationService) priorLockedReconciliation(ctx context.Context, bankAccountID string, period *domain.FiscalPeriod) *domain.Reconciliation {
	periods, err := s.periodRepo.ListPeriods(ctx, period.EntityID)
	if err != nil {
		return nil
	}
	var prior *domain.FiscalPeriod
	for i := range periods {
		p := periods[i]
		if p.EndDate.Before(period.StartDate) && (prior == nil || p.EndDate.After(prior.EndDate)) {
			prior = &p
		}
	}
	if prior == nil {
		return nil
	}
	recon, err := s.reconRepo.FindReconciliationByBankAccountAndPeriod(ctx, bankAccountID, prior.PeriodID)
	if err != nil || recon.Status != domain.ReconLocked {
		return nil
	}
	return recon
}

// carryForwardOutstanding copies the prior locked reconciliation's uncleared
// outstanding items into the new reconciliation.
func (s *reconciliationService) carryForwardOutstanding(ctx context.Context, bankAccountID string, period *domain.FiscalPeriod, newReconID string, actorID string, now time.Time) []domain.OutstandingItem {
	prior := s.priorLockedReconciliation(ctx, bankAccountID, period)
	if prior == nil {
		return nil
	}
	var carried []domain.OutstandingItem
	for _, item := range prior.OutstandingItems {
		if item.Cleared {
			continue
		}
		src := item.OutstandingItemID
		carried = append(carried, domain.OutstandingItem{
			OutstandingItemID: uuid.NewString(),
			ReconciliationID:  newReconID,
			Kind:              item.Kind,
			TransactionID:     item.TransactionID,
			Amount:            item.Amount,
			ItemDate:          item.ItemDate,
			Description:       item.Description,
			CarriedFromID:     &src,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		})
	}
	return carried
}

// GetReconciliationByID retrieves a reconciliation with adjustments and outstanding items.
func (s *reconciliationService) GetReconciliationByID(ctx context.Context, entityID string, reconciliationID string) (*domain.Reconciliation, error) {
	recon, _, _, err := s.loadScoped(ctx, entityID, reconciliationID)
	return recon, err
}

// IngestStatement parses and stores statement lines. Re-ingesting the same
// file is idempotent: duplicate rows are skipped by the storage key, not
// reprocessed. The first successful ingestion moves DRAFT -> MATCHING.
func (s *reconciliationService) IngestStatement(ctx context.Context, entityID string, reconciliationID string, req dto.IngestStatementRequest, actorID string) (*dto.IngestResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	recon, bankAccount, _, err := s.loadScoped(ctx, entityID, reconciliationID)
	if err != nil {
		return nil, err
	}
	if !recon.Editable() {
		return nil, fmt.Errorf("%w: reconciliation is %s", apperrors.ErrConflict, recon.Status)
	}

	parser, err := ingest.NewParser(req.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	lines, lineErrs := parser.Parse([]byte(req.Raw))

	now := time.Now().UTC()
	txns := make([]domain.BankStatementTransaction, len(lines))
	for i, line := range lines {
		txns[i] = domain.BankStatementTransaction{
			StatementTxnID: uuid.NewString(),
			BankAccountID:  bankAccount.BankAccountID,
			TxnDate:        line.TxnDate,
			Description:    line.Description,
			Reference:      line.Reference,
			Amount:         line.Amount,
			RunningBalance: line.RunningBalance,
			MatchStatus:    domain.MatchUnmatched,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}

	inserted := 0
	if len(txns) > 0 {
		inserted, err = s.bankRepo.InsertStatementTransactions(ctx, txns)
		if err != nil {
			logger.Error("Failed to insert statement transactions", slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to store statement lines: %w", err)
		}
	}

	if recon.Status == domain.ReconDraft && inserted > 0 {
		if err := recon.Transition(domain.ReconMatching); err != nil {
			return nil, err
		}
		recon.LastUpdatedAt = now
		recon.LastUpdatedBy = actorID
		if err := s.reconRepo.UpdateReconciliation(ctx, *recon); err != nil {
			return nil, fmt.Errorf("failed to advance reconciliation to matching: %w", err)
		}
	}

	logger.Info("Statement ingested",
		slog.String("reconciliation_id", reconciliationID),
		slog.Int("parsed", len(lines)),
		slog.Int("ingested", inserted),
		slog.Int("errors", len(lineErrs)),
	)
	return &dto.IngestResponse{
		Parsed:     len(lines),
		Ingested:   inserted,
		Duplicates: len(lines) - inserted,
		Errors:     lineErrs,
	}, nil
}

// AutoMatch runs the matching passes over the unmatched sets of both sides.
// Suggestion generation is read-only; persistence of confirmations and
// suggestions is serialized per reconciliation. A context error aborts before
// anything is persisted.
func (s *reconciliationService) AutoMatch(ctx context.Context, entityID string, reconciliationID string, actorID string) (*dto.AutoMatchResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	recon, bankAccount, period, err := s.loadScoped(ctx, entityID, reconciliationID)
	if err != nil {
		return nil, err
	}
	if recon.Status != domain.ReconMatching {
		return nil, fmt.Errorf("%w: reconciliation is %s, expected MATCHING", apperrors.ErrConflict, recon.Status)
	}

	s.reconLocks.Lock(reconciliationID)
	defer s.reconLocks.Unlock(reconciliationID)

	unmatchedStatus := domain.MatchUnmatched
	bankLines, err := s.bankRepo.ListStatementTransactions(ctx, bankAccount.BankAccountID, period.StartDate, period.EndDate, &unmatchedStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to list unmatched statement lines: %w", err)
	}
	bookLines, err := s.journalRepo.FindUnmatchedTransactions(ctx, bankAccount.GLAccountID, period.StartDate, period.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list unmatched ledger lines: %w", err)
	}

	run, err := s.matcher.Run(ctx, bankLines, bookLines)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	resp := &dto.AutoMatchResponse{}

	// Exact pairs are confirmed immediately on both sides.
	for _, pair := range run.Exact {
		if err := s.persistPair(ctx, pair, domain.MatchMatched, actorID, now); err != nil {
			return nil, err
		}
		resp.Exact++
	}
	// Fuzzy and group pairs are recorded as suggestions awaiting confirmation.
	for _, pair := range run.Fuzzy {
		if err := s.persistPair(ctx, pair, domain.MatchSuggested, actorID, now); err != nil {
			return nil, err
		}
		resp.Fuzzy++
	}
	for _, pair := range run.Groups {
		if err := s.persistPair(ctx, pair, domain.MatchSuggested, actorID, now); err != nil {
			return nil, err
		}
		resp.Group++
	}

	// Book-side remainder: ledger lines awaiting bank clearance. Each recorded
	// item immediately moves the adjusted bank balance toward the books.
	outstanding := s.buildOutstandingItems(recon, run.UnmatchedBook, actorID, now)
	if len(outstanding) > 0 {
		if err := s.reconRepo.SaveOutstandingItems(ctx, outstanding); err != nil {
			return nil, fmt.Errorf("failed to save outstanding items: %w", err)
		}
		for i := range outstanding {
			recon.ApplyOutstandingItem(outstanding[i])
		}
	}
	resp.OutstandingItems = len(outstanding)
	resp.UnmatchedBookLines = len(run.UnmatchedBook)

	// Bank-side remainder: hand recognized charge lines to the classifier.
	for _, line := range run.UnmatchedBank {
		proposal := s.classifier.Classify(line)
		if proposal == nil {
			resp.UnmatchedBankLines++
			continue
		}
		if err := s.recordChargeProposal(ctx, recon, bankAccount, line, proposal, actorID, now); err != nil {
			return nil, err
		}
		resp.ChargesClassified++
	}

	dirty := len(outstanding) > 0

	// The workflow moves on to adjusting only once every statement line is
	// matched, excluded, or tracked as outstanding. Suggested pairings still
	// need a confirm or reject before they count as resolved.
	suggestedStatus := domain.MatchSuggested
	pendingSuggested, err := s.bankRepo.ListStatementTransactions(ctx, bankAccount.BankAccountID, period.StartDate, period.EndDate, &suggestedStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggested statement lines: %w", err)
	}
	newSuggestions := resp.Fuzzy + resp.Group + resp.ChargesClassified
	if resp.UnmatchedBankLines == 0 && newSuggestions == 0 && len(pendingSuggested) == 0 && recon.Status == domain.ReconMatching {
		if err := recon.Transition(domain.ReconAdjusting); err == nil {
			dirty = true
		}
	}
	if dirty {
		recon.LastUpdatedAt = now
		recon.LastUpdatedBy = actorID
		if err := s.reconRepo.UpdateReconciliation(ctx, *recon); err != nil {
			return nil, fmt.Errorf("failed to update reconciliation after matching: %w", err)
		}
	}

	logger.Info("Auto-match completed",
		slog.String("reconciliation_id", reconciliationID),
		slog.Int("exact", resp.Exact),
		slog.Int("fuzzy", resp.Fuzzy),
		slog.Int("group", resp.Group),
		slog.Int("charges", resp.ChargesClassified),
		slog.Int("unmatched_bank", resp.UnmatchedBankLines),
		slog.Int("unmatched_book", resp.UnmatchedBookLines),
	)
	return resp, nil
}

// persistPair writes one match pair to both sides.
func (s *reconciliationService) persistPair(ctx context.Context, pair MatchPair, status domain.MatchStatus, actorID string, now time.Time) error {
	lineIDs := make([]string, len(pair.LedgerLines))
	for i, l := range pair.LedgerLines {
		lineIDs[i] = l.TransactionID
	}
	txn := pair.StatementTxn
	txn.MatchStatus = status
	txn.MatchType = pair.MatchType
	txn.Confidence = pair.Confidence
	txn.MatchedLineIDs = lineIDs
	txn.MatchedAt = &now
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actorID
	if err := s.bankRepo.UpdateStatementMatch(ctx, txn, false); err != nil {
		return fmt.Errorf("failed to record match for statement line %s: %w", txn.StatementTxnID, err)
	}
	if err := s.journalRepo.MarkTransactionsMatched(ctx, lineIDs, txn.StatementTxnID, status, actorID, now); err != nil {
		return fmt.Errorf("failed to record match on ledger lines: %w", err)
	}
	return nil
}

// buildOutstandingItems classifies unmatched book lines: credits to the bank
// account are money going out (outstanding cheques), debits are money coming
// in (deposits in transit). Lines already tracked are skipped.
func (s *reconciliationService) buildOutstandingItems(recon *domain.Reconciliation, bookLines []domain.Transaction, actorID string, now time.Time) []domain.OutstandingItem {
	tracked := make(map[string]bool, len(recon.OutstandingItems))
	for _, item := range recon.OutstandingItems {
		tracked[item.TransactionID] = true
	}
	var items []domain.OutstandingItem
	for _, line := range bookLines {
		if tracked[line.TransactionID] {
			continue
		}
		kind := domain.DepositInTransit
		if line.TransactionType == domain.Credit {
			kind = domain.OutstandingCheque
		}
		items = append(items, domain.OutstandingItem{
			OutstandingItemID: uuid.NewString(),
			ReconciliationID:  recon.ReconciliationID,
			Kind:              kind,
			TransactionID:     line.TransactionID,
			Amount:            line.Amount,
			ItemDate:          line.TransactionDate,
			Description:       line.JournalDescription,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		})
	}
	return items
}

// recordChargeProposal stores a classifier proposal as a proposed adjustment,
// flags the statement line, and marks it rule-suggested.
func (s *reconciliationService) recordChargeProposal(ctx context.Context, recon *domain.Reconciliation, bankAccount *domain.BankAccount, line domain.BankStatementTransaction, proposal *domain.ChargeProposal, actorID string, now time.Time) error {
	debitID, err := s.resolveChargeAccount(ctx, recon.EntityID, bankAccount, proposal.DebitAccountCode)
	if err != nil {
		return err
	}
	creditID, err := s.resolveChargeAccount(ctx, recon.EntityID, bankAccount, proposal.CreditAccountCode)
	if err != nil {
		return err
	}

	// The amount is a positive magnitude; the rule's debit and credit legs
	// carry the direction (a charge credits the bank leg, interest debits it).
	adj := domain.ReconciliationAdjustment{
		AdjustmentID:     uuid.NewString(),
		ReconciliationID: recon.ReconciliationID,
		StatementTxnID:   line.StatementTxnID,
		AdjustmentType:   proposal.RuleName,
		Side:             domain.AdjustBook,
		Amount:           proposal.Amount,
		DebitAccountID:   debitID,
		CreditAccountID:  creditID,
		Description:      proposal.Description,
		Status:           domain.AdjustmentProposed,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.reconRepo.SaveAdjustment(ctx, adj); err != nil {
		return fmt.Errorf("failed to save charge adjustment: %w", err)
	}
	if err := s.bankRepo.UpdateChargeFlags(ctx, line.StatementTxnID, FlagsFor(proposal.Flag), actorID, now); err != nil {
		return fmt.Errorf("failed to flag statement line: %w", err)
	}

	line.MatchStatus = domain.MatchSuggested
	line.MatchType = domain.MatchTypeRule
	line.Confidence = proposal.Confidence
	line.LastUpdatedAt = now
	line.LastUpdatedBy = actorID
	if err := s.bankRepo.UpdateStatementMatch(ctx, line, false); err != nil {
		return fmt.Errorf("failed to mark statement line rule-suggested: %w", err)
	}
	return nil
}

// resolveChargeAccount maps a charge rule account code to an account id; the
// BANK placeholder resolves to the reconciled bank account's GL account.
func (s *reconciliationService) resolveChargeAccount(ctx context.Context, entityID string, bankAccount *domain.BankAccount, code string) (string, error) {
	if code == BankLegCode {
		return bankAccount.GLAccountID, nil
	}
	account, err := s.accountSvc.GetAccountByCode(ctx, entityID, code)
	if err != nil {
		return "", fmt.Errorf("charge rule references unknown account code %s: %w", code, err)
	}
	return account.AccountID, nil
}

// ManualMatch pairs a statement line with ledger lines by hand. Manual
// matches take precedence over any automatic classification and are recorded
// with the acting user.
func (s *reconciliationService) ManualMatch(ctx context.Context, entityID string, reconciliationID string, req dto.ManualMatchRequest, actorID string) error {
	recon, bankAccount, _, err := s.loadScoped(ctx, entityID, reconciliationID)
	if err != nil {
		return err
	}
	if !recon.Editable() {
		return fmt.Errorf("%w: reconciliation is %s", apperrors.ErrConflict, recon.Status)
	}

	s.reconLocks.Lock(reconciliationID)
	defer s.reconLocks.Unlock(reconciliationID)

	txn, err := s.bankRepo.FindStatementTxnByID(ctx, req.StatementTxnID)
	if err != nil {
		return err
	}
	if txn.BankAccountID != bankAccount.BankAccountID {
		return apperrors.ErrNotFound
	}

	now := time.Now().UTC()
	if err := s.journalRepo.MarkTransactionsMatched(ctx, req.TransactionIDs, txn.StatementTxnID, domain.MatchMatched, actorID, now); err != nil {
		return err
	}

	txn.MatchStatus = domain.MatchMatched
	txn.MatchType = domain.MatchTypeManual
	txn.Confidence = 1.0
	txn.MatchedLineIDs = req.TransactionIDs
	txn.MatchedBy = actorID
	txn.MatchedAt = &now
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actorID
	return s.bankRepo.UpdateStatementMatch(ctx, *txn, true)
}

// ConfirmMatch upgrades a suggested pairing to a confirmed match, recording
// the actor. Rule-suggested charge lines confirm the same way; their proposed
// adjustment is posted later through PostAdjustments.
func (s *reconciliationService) ConfirmMatch(ctx context.Context, entityID string, reconciliationID string, statementTxnID string, actorID string) error {
	recon, bankAccount, _, err := s.loadScoped(ctx, entityID, reconciliationID)
	if err != nil {
		return err
	}
	if !recon.Editable() {
		return fmt.Errorf("%w: reconciliation is %s", apperrors.ErrConflict, recon.Status)
	}

	s.reconLocks.Lock(reconciliationID)
	defer s.reconLocks.Unlock(reconciliationID)

	txn, err := s.bankRepo.FindStatementTxnByID(ctx, statementTxnID)
	if err != nil {
		return err
	}
	if txn.BankAccountID != bankAccount.BankAccountID {
		return apperrors.ErrNotFound
	}
	if txn.MatchStatus != domain.MatchSuggested {
		return fmt.Errorf("%w: statement line is %s, expected SUGGESTED", apperrors.ErrConflict, txn.MatchStatus)
	}

	now := time.Now().UTC()
	if len(txn.MatchedLineIDs) > 0 {
		if err := s.journalRepo.MarkTransactionsMatched(ctx, txn.MatchedLineIDs, txn.StatementTxnID, domain.MatchMatched, actorID, now); err != nil {
			return err
		}
	}

	txn.MatchStatus = domain.MatchMatched
	txn.Confidence = 1.0
	txn.MatchedBy = actorID
	txn.MatchedAt = &now
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actorID
	return s.bankRepo.UpdateStatementMatch(ctx, *txn, true)
}

// RejectMatch discards a suggested pairing, returning both sides to unmatched.
// Rejecting a rule-suggested charge line also withdraws its unposted
// adjustment proposal.
func (s *reconciliationService) RejectMatch(ctx context.Context, entityID string, reconciliationID string, statementTxnID string, actorID string) error {
	recon, bankAccount, _, err := s.loadScoped(ctx, entityID, reconciliationID)
	if err != nil {
		return err
	}
	if !recon.Editable() {
		return fmt.Errorf("%w: reconciliation is %s", apperrors.ErrConflict, recon.Status)
	}

	s.reconLocks.Lock(reconciliationID)
	defer s.reconLocks.Unlock(reconciliationID)

	txn, err := s.bankRepo.FindStatementTxnByID(ctx, statementTxnID)
	if err != nil {
		return err
	}
	if txn.BankAccountID != bankAccount.BankAccountID {
		return apperrors.ErrNotFound
	}
	if txn.MatchStatus != domain.MatchSuggested {
		return fmt.Errorf("%w: statement line is %s, expected SUGGESTED", apperrors.ErrConflict, txn.MatchStatus)
	}

	now := time.Now().UTC()
	if len(txn.MatchedLineIDs) > 0 {
		if err := s.journalRepo.UnmatchTransactions(ctx, txn.MatchedLineIDs, actorID, now); err != nil {
			return err
		}
	}
	if txn.MatchType == domain.MatchTypeRule {
		if err := s.reconRepo.DeleteProposedAdjustmentsByStatementTxn(ctx, recon.ReconciliationID, txn.StatementTxnID); err != nil {
			return err
		}
	}

	txn.MatchStatus = domain.MatchUnmatched
	txn.MatchType = ""
	txn.Confidence = 0
	txn.MatchedLineIDs = nil
	txn.MatchedBy = actorID
	txn.MatchedAt = nil
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actorID
	return s.bankRepo.UpdateStatementMatch(ctx, *txn, true)
}

// UnmatchStatementLine clears a match, returning both sides to unmatched.
func (s *reconciliationService) UnmatchStatementLine(ctx context.Context, entityID string, reconciliationID string, statementTxnID string, actorID string) error {
	recon, bankAccount, _, err := s.loadScoped(ctx, entityID, reconciliationID)
	if err != nil {
		return err
	}
	if !recon.Editable() {
		return fmt.Errorf("%w: reconciliation is %s", apperrors.ErrConflict, recon.Status)
	}

	s.reconLocks.Lock(reconciliationID)
	defer s.reconLocks.Unlock(reconciliationID)

	txn, err := s.bankRepo.FindStatementTxnByID(ctx, statementTxnID)
	if err != nil {
		return err
	}
	if txn.BankAccountID != bankAccount.BankAccountID {
		return apperrors.ErrNotFound
	}

	now := time.Now().UTC()
	if len(txn.MatchedLineIDs) > 0 {
		if err := s.journalRepo.UnmatchTransactions(ctx, txn.MatchedLineIDs, actorID, now); err != nil {
			return err
		}
	}
	txn.MatchStatus = domain.MatchUnmatched
	txn.MatchType = ""
	txn.Confidence = 0
	txn.MatchedLineIDs = nil
	txn.MatchedBy = actorID
	txn.MatchedAt = nil
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actorID
	return s.bankRepo.UpdateStatementMatch(ctx, *txn, true)
}

// ExcludeStatementLine removes a statement line from matching consideration.
func (s *reconciliationService) ExcludeStatementLine(ctx context.Context, entityID string, reconciliationID string, statementTxnID string, actorID string) error {
	recon, bankAccount, _, err := s.loadScoped(ctx, entityID, reconciliationID)
	if err != nil {
		return err
	}
	if !recon.Editable() {
		return fmt.Errorf("%w: reconciliation is %s", apperrors.ErrConflict, recon.Status)
	}

	s.reconLocks.Lock(reconciliationID)
	defer s.reconLocks.Unlock(reconciliationID)

	txn, err := s.bankRepo.FindStatementTxnByID(ctx, statementTxnID)
	if err != nil {
		return err
	}
	if txn.BankAccountID != bankAccount.BankAccountID {
		return apperrors.ErrNotFound
	}
	if txn.MatchStatus == domain.MatchMatched {
		return fmt.Errorf("%w: unmatch the line before excluding it", apperrors.ErrConflict)
	}

	now := time.Now().UTC()
	txn.MatchStatus = domain.MatchExcluded
	txn.MatchType = ""
	txn.Confidence = 0
	txn.MatchedLineIDs = nil
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actorID
	return s.bankRepo.UpdateStatementMatch(ctx, *txn, true)
}

// AutoCreateCharges runs the classifier over the remaining unmatched bank
// lines and records balanced adjustment proposals for everything recognized.
func (s *reconciliationService) AutoCreateCharges(ctx context.Context, entityID string, reconciliationID string, actorID string) ([]domain.ReconciliationAdjustment, error) {
	recon, bankAccount, period, err := s.loadScoped(ctx, entityID, reconciliationID)
	if err != nil {
		return nil, err
	}
	if !recon.Editable() {
		return nil, fmt.Errorf("%w: reconciliation is %s", apperrors.ErrConflict, recon.Status)
	}

	s.reconLocks.Lock(reconciliationID)
	defer s.reconLocks.Unlock(reconciliationID)

	unmatchedStatus := domain.MatchUnmatched
	lines, err := s.bankRepo.ListStatementTransactions(ctx, bankAccount.BankAccountID, period.StartDate, period.EndDate, &unmatchedStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to list unmatched statement lines: %w", err)
	}

	now := time.Now().UTC()
	var created []domain.ReconciliationAdjustment
	for _, line := range lines {
		proposal := s.classifier.Classify(line)
		if proposal == nil {
			continue
		}
		if err := s.recordChargeProposal(ctx, recon, bankAccount, line, proposal, actorID, now); err != nil {
			return nil, err
		}
	}

	// Return the full refreshed adjustment set.
	refreshed, err := s.reconRepo.FindReconciliationByID(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	for _, adj := range refreshed.Adjustments {
		if adj.Status == domain.AdjustmentProposed {
			created = append(created, adj)
		}
	}
	return created, nil
}

// AddAdjustment records a manual adjustment proposal.
func (s *reconciliationService) AddAdjustment(ctx context.Context, entityID string, reconciliationID string, req dto.CreateAdjustmentRequest, actorID string) (*domain.ReconciliationAdjustment, error) {
	recon, _, _, err := s.loadScoped(ctx, entityID, reconciliationID)
	if err != nil {
		return nil, err
	}
	if !recon.Editable() {
		return nil, fmt.Errorf("%w: reconciliation is %s", apperrors.ErrConflict, recon.Status)
	}
	if req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: adjustment amount must be non-zero", apperrors.ErrValidation)
	}

	accounts, err := s.accountSvc.GetAccountByIDs(ctx, entityID, []string{req.DebitAccountID, req.CreditAccountID})
	if err != nil {
		return nil, err
	}
	if _, ok := accounts[req.DebitAccountID]; !ok {
		return nil, fmt.Errorf("%w: debit account %s", apperrors.ErrNotFound, req.DebitAccountID)
	}
	if _, ok := accounts[req.CreditAccountID]; !ok {
		return nil, fmt.Errorf("%w: credit account %s", apperrors.ErrNotFound, req.CreditAccountID)
	}

	now := time.Now().UTC()
	adj := domain.ReconciliationAdjustment{
		AdjustmentID:     uuid.NewString(),
		ReconciliationID: reconciliationID,
		StatementTxnID:   req.StatementTxnID,
		AdjustmentType:   "MANUAL",
		Side:             req.Side,
		Amount:           req.Amount,
		DebitAccountID:   req.DebitAccountID,
		CreditAccountID:  req.CreditAccountID,
		Description:      req.Description,
		Status:           domain.AdjustmentProposed,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.reconRepo.SaveAdjustment(ctx, adj); err != nil {
		return nil, fmt.Errorf("failed to save adjustment: %w", err)
	}
	return &adj, nil
}

// PostAdjustments posts every proposed adjustment through the posting engine.
// Each posted adjustment becomes an immutable journal entry and reduces the
// running difference.
func (s *reconciliationService) PostAdjustments(ctx context.Context, entityID string, reconciliationID string, actorID string) ([]domain.ReconciliationAdjustment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	recon, bankAccount, period, err := s.loadScoped(ctx, entityID, reconciliationID)
	if err != nil {
		return nil, err
	}
	if recon.Status != domain.ReconAdjusting {
		return nil, fmt.Errorf("%w: reconciliation is %s, expected ADJUSTING", apperrors.ErrConflict, recon.Status)
	}

	s.reconLocks.Lock(reconciliationID)
	defer s.reconLocks.Unlock(reconciliationID)

	now := time.Now().UTC()
	var posted []domain.ReconciliationAdjustment
	for i := range recon.Adjustments {
		adj := recon.Adjustments[i]
		if adj.Status != domain.AdjustmentProposed {
			continue
		}

		journalReq := dto.CreateJournalRequest{
			Date:         period.EndDate,
			Description:  adj.Description,
			CurrencyCode: bankAccount.CurrencyCode,
			SourceType:   domain.SourceReconAdjustment,
			Transactions: []dto.CreateTransactionRequest{
				{AccountID: adj.DebitAccountID, Amount: adj.Amount.Abs(), TransactionType: domain.Debit},
				{AccountID: adj.CreditAccountID, Amount: adj.Amount.Abs(), TransactionType: domain.Credit},
			},
		}
		journal, err := s.poster.PostJournal(ctx, entityID, journalReq, actorID)
		if err != nil {
			return nil, fmt.Errorf("failed to post adjustment %s: %w", adj.AdjustmentID, err)
		}

		adj.Status = domain.AdjustmentPosted
		adj.JournalID = &journal.JournalID
		adj.LastUpdatedAt = now
		adj.LastUpdatedBy = actorID
		if err := s.reconRepo.UpdateAdjustment(ctx, adj); err != nil {
			return nil, fmt.Errorf("failed to record posted adjustment %s: %w", adj.AdjustmentID, err)
		}

		// The adjusted balance follows the bank leg of the posted journal:
		// a debit to the bank GL account raises it, a credit lowers it. An
		// adjustment that never touches the bank account moves neither.
		delta := decimal.Zero
		switch {
		case adj.DebitAccountID == bankAccount.GLAccountID:
			delta = adj.Amount.Abs()
		case adj.CreditAccountID == bankAccount.GLAccountID:
			delta = adj.Amount.Abs().Neg()
		}
		switch adj.Side {
		case domain.AdjustBank:
			recon.AdjustedBankBalance = recon.AdjustedBankBalance.Add(delta)
		case domain.AdjustBook:
			recon.AdjustedBookBalance = recon.AdjustedBookBalance.Add(delta)
		}

		// A charge adjustment settles its originating statement line.
		if adj.StatementTxnID != "" {
			if txn, err := s.bankRepo.FindStatementTxnByID(ctx, adj.StatementTxnID); err == nil {
				txn.MatchStatus = domain.MatchMatched
				txn.MatchType = domain.MatchTypeRule
				txn.MatchedAt = &now
				txn.LastUpdatedAt = now
				txn.LastUpdatedBy = actorID
				if err := s.bankRepo.UpdateStatementMatch(ctx, *txn, true); err != nil {
					return nil, fmt.Errorf("failed to settle statement line %s: %w", adj.StatementTxnID, err)
				}
			}
		}

		posted = append(posted, adj)
	}

	recon.Difference = recon.AdjustedBankBalance.Sub(recon.AdjustedBookBalance)
	recon.LastUpdatedAt = now
	recon.LastUpdatedBy = actorID
	if err := s.reconRepo.UpdateReconciliation(ctx, *recon); err != nil {
		return nil, fmt.Errorf("failed to update reconciliation balances: %w", err)
	}

	logger.Info("Adjustments posted",
		slog.String("reconciliation_id", reconciliationID),
		slog.Int("posted", len(posted)),
		slog.String("difference", recon.Difference.String()),
	)
	return posted, nil
}

// Submit moves ADJUSTING -> SUBMITTED, only when the adjusted balances agree
// exactly. A residual difference is returned to the caller, never swallowed.
func (s *reconciliationService) Submit(ctx context.Context, entityID string, reconciliationID string, actorID string) (*domain.Reconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	recon, _, _, err := s.loadScoped(ctx, entityID, reconciliationID)
	if err != nil {
		return nil, err
	}

	s.reconLocks.Lock(reconciliationID)
	defer s.reconLocks.Unlock(reconciliationID)

	recon.Difference = recon.AdjustedBankBalance.Sub(recon.AdjustedBookBalance)
	if !recon.Difference.IsZero() {
		return nil, apperrors.BalanceMismatchError{Residual: recon.Difference}
	}
	if err := recon.Transition(domain.ReconSubmitted); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
	}

	now := time.Now().UTC()
	recon.PreparedBy = actorID
	recon.SubmittedAt = &now
	recon.LastUpdatedAt = now
	recon.LastUpdatedBy = actorID
	if err := s.reconRepo.UpdateReconciliation(ctx, *recon); err != nil {
		return nil, fmt.Errorf("failed to submit reconciliation: %w", err)
	}

	logger.Info("Reconciliation submitted", slog.String("reconciliation_id", reconciliationID), slog.String("prepared_by", actorID))
	return recon, nil
}

// Approve requires an approver distinct from the preparer. Approval is final
// and immediately locks the reconciliation, which marks the bank account
// reconciled through the period end.
func (s *reconciliationService) Approve(ctx context.Context, entityID string, reconciliationID string, actorID string) (*domain.Reconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	recon, bankAccount, period, err := s.loadScoped(ctx, entityID, reconciliationID)
	if err != nil {
		return nil, err
	}

	s.reconLocks.Lock(reconciliationID)
	defer s.reconLocks.Unlock(reconciliationID)

	if actorID == recon.PreparedBy {
		return nil, apperrors.ErrApprovalIntegrity
	}
	if err := recon.Transition(domain.ReconApproved); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
	}
	if err := recon.Transition(domain.ReconLocked); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
	}

	now := time.Now().UTC()
	recon.ApprovedBy = actorID
	recon.ApprovedAt = &now
	recon.LastUpdatedAt = now
	recon.LastUpdatedBy = actorID
	if err := s.reconRepo.UpdateReconciliation(ctx, *recon); err != nil {
		return nil, fmt.Errorf("failed to approve reconciliation: %w", err)
	}

	if err := s.bankRepo.UpdateLastReconciled(ctx, bankAccount.BankAccountID, period.EndDate, actorID, now); err != nil {
		logger.Error("Failed to update last-reconciled date", slog.String("error", err.Error()), slog.String("bank_account_id", bankAccount.BankAccountID))
		return nil, fmt.Errorf("failed to update bank account reconciled date: %w", err)
	}

	logger.Info("Reconciliation approved and locked",
		slog.String("reconciliation_id", reconciliationID),
		slog.String("approved_by", actorID),
		slog.String("prepared_by", recon.PreparedBy),
	)
	return recon, nil
}

// Reject returns a submitted reconciliation to ADJUSTING with a reviewer
// comment. Prior adjustments are retained.
func (s *reconciliationService) Reject(ctx context.Context, entityID string, reconciliationID string, req dto.RejectReconciliationRequest, actorID string) (*domain.Reconciliation, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	recon, _, _, err := s.loadScoped(ctx, entityID, reconciliationID)
	if err != nil {
		return nil, err
	}

	s.reconLocks.Lock(reconciliationID)
	defer s.reconLocks.Unlock(reconciliationID)

	if err := recon.Transition(domain.ReconRejected); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
	}
	if err := recon.Transition(domain.ReconAdjusting); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
	}

	now := time.Now().UTC()
	recon.ReviewerComment = req.Comment
	recon.LastUpdatedAt = now
	recon.LastUpdatedBy = actorID
	if err := s.reconRepo.UpdateReconciliation(ctx, *recon); err != nil {
		return nil, fmt.Errorf("failed to reject reconciliation: %w", err)
	}

	logger.Info("Reconciliation rejected", slog.String("reconciliation_id", reconciliationID), slog.String("rejected_by", actorID))
	return recon, nil
}
