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
	"github.com/OluAde/ledger_recon_app/internal/middleware"
	"github.com/OluAde/ledger_recon_app/internal/utils"
	"github.com/OluAde/ledger_recon_app/internal/utils/accounting"
)

var (
	ErrJournalUnbalanced  = errors.New("journal entries do not balance to zero")
	ErrJournalMinEntries  = errors.New("journal must have at least two transaction entries")
	ErrJournalMinAccounts = errors.New("journal must affect at least two different accounts")
	ErrAccountNotFound    = errors.New("account not found")
	ErrCurrencyMismatch   = errors.New("account currency does not match journal currency")
	ErrDescriptionMissing = errors.New("journal description is required")
	ErrNoPeriodForDate    = errors.New("no fiscal period covers the entry date")
)

// postingService validates and commits balanced journal entries from
// sub-ledgers and gates fiscal period closing on reconciliation completeness.
type postingService struct {
	accountSvc  portssvc.AccountSvcFacade
	journalRepo portsrepo.JournalRepositoryWithTx
	periodRepo  portsrepo.PeriodRepositoryFacade
	bankRepo    portsrepo.BankRepositoryFacade
	reconRepo   portsrepo.ReconciliationRepositoryFacade

	// periodLocks serializes post/reverse/close per (entity, period) so the
	// balance check and the append are atomic with respect to each other and
	// to a concurrent close attempt.
	periodLocks *utils.KeyedMutex
}

// NewPostingService creates a new PostingService.
func NewPostingService(
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountSvc portssvc.AccountSvcFacade,
	periodRepo portsrepo.PeriodRepositoryFacade,
	bankRepo portsrepo.BankRepositoryFacade,
	reconRepo portsrepo.ReconciliationRepositoryFacade,
) portssvc.PostingSvcFacade {
	return &postingService{
		accountSvc:  accountSvc,
		journalRepo: journalRepo,
		periodRepo:  periodRepo,
		bankRepo:    bankRepo,
		reconRepo:   reconRepo,
		periodLocks: utils.NewKeyedMutex(),
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

func periodLockKey(entityID, periodID string) string {
	return entityID + "|" + periodID
}

// getSignedAmount applies the correct sign to a transaction amount based on account type and transaction type.
func (s *postingService) getSignedAmount(txn domain.Transaction, accountType domain.AccountType) (decimal.Decimal, error) {
	return accounting.CalculateSignedAmount(txn, accountType)
}

// validateJournalBalance checks if the transactions for a journal balance properly.
// The equality is exact decimal equality; there is no rounding tolerance.
func (s *postingService) validateJournalBalance(transactions []domain.Transaction) error {
	if len(transactions) < 2 {
		return ErrJournalMinEntries
	}

	zero := decimal.NewFromInt(0)
	debitsSum := zero
	creditsSum := zero

	for _, txn := range transactions {
		if txn.Amount.LessThanOrEqual(zero) {
			return fmt.Errorf("%w: transaction amount must be positive for account %s", apperrors.ErrValidation, txn.AccountID)
		}
		if txn.TransactionType == domain.Debit {
			debitsSum = debitsSum.Add(txn.Amount)
		} else {
			creditsSum = creditsSum.Add(txn.Amount)
		}
	}

	if !debitsSum.Equal(creditsSum) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s",
			ErrJournalUnbalanced, debitsSum.String(), creditsSum.String())
	}
	return nil
}

// calculateJournalAmount computes the economic value of a balanced journal:
// the sum of its debit side.
func (s *postingService) calculateJournalAmount(transactions []domain.Transaction) decimal.Decimal {
	totalDebits := decimal.Zero
	for _, txn := range transactions {
		if txn.TransactionType == domain.Debit {
			totalDebits = totalDebits.Add(txn.Amount)
		}
	}
	return totalDebits
}

// checkPeriodPostable distinguishes the closed and locked rejections: closed
// is user-actionable (reopen or redate), locked is permanent.
func checkPeriodPostable(period *domain.FiscalPeriod) error {
	switch period.Status {
	case domain.PeriodLocked:
		return fmt.Errorf("%w: period %s", apperrors.ErrPeriodLocked, period.Name)
	case domain.PeriodClosed:
		return fmt.Errorf("%w: period %s", apperrors.ErrPeriodClosed, period.Name)
	}
	return nil
}

// PostJournal validates and commits a balanced journal draft from a sub-ledger.
func (s *postingService) PostJournal(ctx context.Context, entityID string, req dto.CreateJournalRequest, actorID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if len(req.Transactions) < 2 {
		return nil, ErrJournalMinEntries
	}
	accountSet := make(map[string]bool)
	for _, txn := range req.Transactions {
		accountSet[txn.AccountID] = true
	}
	if len(accountSet) < 2 {
		return nil, ErrJournalMinAccounts
	}
	if req.Description == "" {
		return nil, ErrDescriptionMissing
	}

	period, err := s.periodRepo.FindPeriodForDate(ctx, entityID, req.Date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoPeriodForDate, req.Date.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to resolve fiscal period: %w", err)
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()

	domainTransactions := make([]domain.Transaction, len(req.Transactions))
	accountIDs := make([]string, 0, len(req.Transactions))
	for i, txnReq := range req.Transactions {
		if txnReq.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: transaction amount must be positive for account %s", apperrors.ErrValidation, txnReq.AccountID)
		}
		transactionDate := req.Date
		if txnReq.TransactionDate != nil {
			transactionDate = *txnReq.TransactionDate
		}
		domainTransactions[i] = domain.Transaction{
			TransactionID:   uuid.NewString(),
			JournalID:       journalID,
			AccountID:       txnReq.AccountID,
			Amount:          txnReq.Amount,
			TransactionType: txnReq.TransactionType,
			CurrencyCode:    req.CurrencyCode,
			Notes:           txnReq.Notes,
			TransactionDate: transactionDate,
			MatchStatus:     domain.MatchUnmatched,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
		accountIDs = append(accountIDs, txnReq.AccountID)
	}

	if err := s.validateJournalBalance(domainTransactions); err != nil {
		return nil, err
	}

	uniqueAccountIDs := uniqueStrings(accountIDs)
	accountsMap, err := s.accountSvc.GetAccountByIDs(ctx, entityID, uniqueAccountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts for journal creation", slog.String("error", err.Error()), slog.String("entity_id", entityID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	accountTypes := make(map[string]domain.AccountType)
	for _, id := range uniqueAccountIDs {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
		if acc.CurrencyCode != req.CurrencyCode {
			return nil, fmt.Errorf("%w: account currency %s does not match journal currency %s for account %s", ErrCurrencyMismatch, acc.CurrencyCode, req.CurrencyCode, id)
		}
		accountTypes[id] = acc.AccountType
	}

	status := domain.Posted
	balanceChanges := make(map[string]decimal.Decimal)
	if req.AsDraft {
		status = domain.Draft // Drafts do not touch balances until posted
	} else {
		for _, txn := range domainTransactions {
			signedAmount, err := s.getSignedAmount(txn, accountTypes[txn.AccountID])
			if err != nil {
				return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
			}
			balanceChanges[txn.AccountID] = balanceChanges[txn.AccountID].Add(signedAmount)
		}
	}

	domainJournal := domain.Journal{
		JournalID:    journalID,
		EntityID:     entityID,
		JournalDate:  req.Date,
		PeriodID:     period.PeriodID,
		Description:  req.Description,
		CurrencyCode: req.CurrencyCode,
		SourceType:   req.SourceType,
		Status:       status,
		Amount:       s.calculateJournalAmount(domainTransactions),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	// Critical section: the period-state check and the append must be atomic
	// with respect to concurrent postings and a concurrent close attempt.
	lockKey := periodLockKey(entityID, period.PeriodID)
	s.periodLocks.Lock(lockKey)
	defer s.periodLocks.Unlock(lockKey)

	currentPeriod, err := s.periodRepo.FindPeriodByID(ctx, period.PeriodID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-check fiscal period: %w", err)
	}
	if err := checkPeriodPostable(currentPeriod); err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveJournal(ctx, domainJournal, domainTransactions, balanceChanges); err != nil {
		logger.Error("Failed to save journal", slog.String("error", err.Error()), slog.String("entity_id", entityID))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}

	logger.Info("Journal committed",
		slog.String("journal_id", domainJournal.JournalID),
		slog.String("entity_id", entityID),
		slog.String("period_id", period.PeriodID),
		slog.String("source_type", string(req.SourceType)),
		slog.String("status", string(status)),
		slog.String("amount", domainJournal.Amount.String()),
		slog.String("actor_id", actorID),
	)
	domainJournal.Transactions = nil
	return &domainJournal, nil
}

// PostDraftJournal posts a previously saved draft, re-running period and
// balance checks as of now.
func (s *postingService) PostDraftJournal(ctx context.Context, entityID string, journalID string, actorID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if journal.EntityID != entityID {
		return nil, apperrors.ErrNotFound
	}
	if journal.Status != domain.Draft {
		return nil, fmt.Errorf("%w: journal status is %s, expected DRAFT", apperrors.ErrConflict, journal.Status)
	}

	transactions, err := s.journalRepo.FindTransactionsByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve draft transactions: %w", err)
	}
	if err := s.validateJournalBalance(transactions); err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(transactions))
	for _, txn := range transactions {
		accountIDs = append(accountIDs, txn.AccountID)
	}
	accountsMap, err := s.accountSvc.GetAccountByIDs(ctx, entityID, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	balanceChanges := make(map[string]decimal.Decimal)
	for _, txn := range transactions {
		acc, ok := accountsMap[txn.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, txn.AccountID)
		}
		signedAmount, err := s.getSignedAmount(txn, acc.AccountType)
		if err != nil {
			return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
		}
		balanceChanges[txn.AccountID] = balanceChanges[txn.AccountID].Add(signedAmount)
	}

	now := time.Now().UTC()
	lockKey := periodLockKey(entityID, journal.PeriodID)
	s.periodLocks.Lock(lockKey)
	defer s.periodLocks.Unlock(lockKey)

	period, err := s.periodRepo.FindPeriodByID(ctx, journal.PeriodID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-check fiscal period: %w", err)
	}
	if err := checkPeriodPostable(period); err != nil {
		return nil, err
	}

	if err := s.journalRepo.PostDraftJournal(ctx, journalID, balanceChanges, actorID, now); err != nil {
		logger.Error("Failed to post draft journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to post draft journal: %w", err)
	}

	journal.Status = domain.Posted
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = actorID
	logger.Info("Draft journal posted", slog.String("journal_id", journalID), slog.String("actor_id", actorID))
	return journal, nil
}

// ReverseJournal creates a new journal entry that reverses a previously
// posted journal. The original is never mutated; the period gate is evaluated
// against the reversal date.
func (s *postingService) ReverseJournal(ctx context.Context, entityID string, journalID string, reversalDate time.Time, actorID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	originalJournal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve original journal: %w", err)
	}
	if originalJournal.EntityID != entityID {
		return nil, apperrors.ErrNotFound
	}
	if originalJournal.Status != domain.Posted {
		return nil, fmt.Errorf("%w: journal status is %s, expected POSTED", apperrors.ErrConflict, originalJournal.Status)
	}
	if originalJournal.OriginalJournalID != nil {
		return nil, fmt.Errorf("%w: cannot reverse a journal that is already a reversal", apperrors.ErrConflict)
	}

	originalTransactions, err := s.journalRepo.FindTransactionsByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve original transactions: %w", err)
	}

	// The reversal posts into the period containing the reversal date, which
	// need not be the original's period.
	reversalPeriod, err := s.periodRepo.FindPeriodForDate(ctx, entityID, reversalDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNoPeriodForDate, reversalDate.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to resolve reversal period: %w", err)
	}

	now := time.Now().UTC()
	newJournalID := uuid.NewString()

	reversingJournal := domain.Journal{
		JournalID:         newJournalID,
		EntityID:          entityID,
		JournalDate:       reversalDate,
		PeriodID:          reversalPeriod.PeriodID,
		CurrencyCode:      originalJournal.CurrencyCode,
		SourceType:        originalJournal.SourceType,
		Status:            domain.Posted,
		OriginalJournalID: &originalJournal.JournalID,
		Description:       fmt.Sprintf("Reversal of Journal: %s", originalJournal.Description),
		Amount:            originalJournal.Amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	reversingTransactions := make([]domain.Transaction, len(originalTransactions))
	accIDList := make([]string, 0, len(originalTransactions))
	for i, origTx := range originalTransactions {
		accIDList = append(accIDList, origTx.AccountID)
		newTxType := domain.Credit
		if origTx.TransactionType == domain.Credit {
			newTxType = domain.Debit
		}
		reversingTransactions[i] = domain.Transaction{
			TransactionID:   uuid.NewString(),
			JournalID:       newJournalID,
			AccountID:       origTx.AccountID,
			Amount:          origTx.Amount,
			TransactionType: newTxType,
			CurrencyCode:    origTx.CurrencyCode,
			Notes:           origTx.Notes,
			TransactionDate: reversalDate,
			MatchStatus:     domain.MatchUnmatched,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}

	accountsMap, err := s.accountSvc.GetAccountByIDs(ctx, entityID, uniqueStrings(accIDList))
	if err != nil {
		return nil, fmt.Errorf("failed to get account details for reversal: %w", err)
	}

	balanceChanges := make(map[string]decimal.Decimal)
	for _, revTx := range reversingTransactions {
		acc, ok := accountsMap[revTx.AccountID]
		if !ok {
			return nil, fmt.Errorf("internal error: account %s not found during balance calculation", revTx.AccountID)
		}
		signedAmount, err := s.getSignedAmount(revTx, acc.AccountType)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate signed amount for reversal: %w", err)
		}
		balanceChanges[revTx.AccountID] = balanceChanges[revTx.AccountID].Add(signedAmount)
	}

	lockKey := periodLockKey(entityID, reversalPeriod.PeriodID)
	s.periodLocks.Lock(lockKey)
	defer s.periodLocks.Unlock(lockKey)

	currentPeriod, err := s.periodRepo.FindPeriodByID(ctx, reversalPeriod.PeriodID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-check reversal period: %w", err)
	}
	if err := checkPeriodPostable(currentPeriod); err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveJournal(ctx, reversingJournal, reversingTransactions, balanceChanges); err != nil {
		logger.Error("Failed to save reversing journal entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reversing journal: %w", err)
	}

	if err := s.journalRepo.UpdateJournalStatusAndLinks(ctx, originalJournal.JournalID, domain.Reversed, &newJournalID, originalJournal.OriginalJournalID, actorID, now); err != nil {
		logger.Error("Failed to update original journal status after reversal", slog.String("error", err.Error()), slog.String("original_journal_id", originalJournal.JournalID))
		return nil, fmt.Errorf("failed to update original journal status: %w", err)
	}

	logger.Info("Journal reversed",
		slog.String("original_journal_id", originalJournal.JournalID),
		slog.String("reversing_journal_id", newJournalID),
		slog.String("actor_id", actorID),
	)
	reversingJournal.Transactions = nil
	return &reversingJournal, nil
}

// GetJournalByID retrieves a specific journal entry with its transactions.
func (s *postingService) GetJournalByID(ctx context.Context, entityID string, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}
	if journal.EntityID != entityID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}

	transactions, err := s.journalRepo.FindTransactionsByJournalID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transactions for journal %s: %w", journalID, apperrors.ErrInternal)
	}
	for i := range transactions {
		transactions[i].JournalDate = journal.JournalDate
		transactions[i].JournalDescription = journal.Description
	}
	journal.Transactions = transactions
	return journal, nil
}

// ListJournals retrieves a paginated list of journals for an entity.
func (s *postingService) ListJournals(ctx context.Context, entityID string, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	journals, nextToken, err := s.journalRepo.ListJournalsByEntity(ctx, entityID, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		logger.Error("Failed to list journals from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve journals: %w", err)
	}

	journalResponses := make([]dto.JournalResponse, len(journals))
	for i, journal := range journals {
		journalResponses[i] = dto.ToJournalResponse(&journal)
	}
	return &dto.ListJournalsResponse{Journals: journalResponses, NextToken: nextToken}, nil
}

// ListTransactionsByAccount retrieves transactions for a specific account.
func (s *postingService) ListTransactionsByAccount(ctx context.Context, entityID string, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	transactions, nextToken, err := s.journalRepo.ListTransactionsByAccountID(ctx, entityID, accountID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(transactions),
		NextToken:    nextToken,
	}, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
