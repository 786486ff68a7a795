package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/OluAde/ledger_recon_app/internal/apperrors"
	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	portsrepo "github.com/OluAde/ledger_recon_app/internal/core/ports/repositories"
	"github.com/OluAde/ledger_recon_app/internal/models"
	"github.com/OluAde/ledger_recon_app/internal/utils/accounting"
	"github.com/OluAde/ledger_recon_app/internal/utils/mapping"
	"github.com/OluAde/ledger_recon_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxJournalRepository creates a new repository for journal data.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

const journalColumns = `journal_id, entity_id, journal_date, period_id, description, currency_code, source_type, status, original_journal_id, reversing_journal_id, amount, created_at, created_by, last_updated_at, last_updated_by`

const transactionColumns = `transaction_id, journal_id, account_id, amount, transaction_type, currency_code, notes, transaction_date, running_balance, match_status, statement_txn_id, created_at, created_by, last_updated_at, last_updated_by`

// SaveJournal persists a journal and its transaction lines atomically.
// For posted journals the affected account rows are locked, balances applied
// and per-line running balances computed inside the same transaction. Drafts
// carry empty balanceChanges and touch no account rows.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal, transactions []domain.Transaction, balanceChanges map[string]decimal.Decimal) error {
	modelJournal := mapping.ToModelJournal(journal)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	journalQuery := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err = tx.Exec(ctx, journalQuery,
		modelJournal.JournalID,
		modelJournal.EntityID,
		modelJournal.JournalDate,
		modelJournal.PeriodID,
		modelJournal.Description,
		modelJournal.CurrencyCode,
		modelJournal.SourceType,
		modelJournal.Status,
		modelJournal.OriginalJournalID,
		modelJournal.ReversingJournalID,
		modelJournal.Amount,
		modelJournal.CreatedAt,
		modelJournal.CreatedBy,
		modelJournal.LastUpdatedAt,
		modelJournal.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: journal with ID %s already exists", apperrors.ErrDuplicate, modelJournal.JournalID)
		}
		return apperrors.NewAppError(500, "failed to insert journal "+modelJournal.JournalID, err)
	}

	accountIDs := make([]string, 0, len(transactions))
	seen := map[string]bool{}
	for _, txn := range transactions {
		if !seen[txn.AccountID] {
			seen[txn.AccountID] = true
			accountIDs = append(accountIDs, txn.AccountID)
		}
	}

	applyBalances := len(balanceChanges) > 0

	// Running balances start from the balances read under lock, before the
	// bulk update is applied.
	currentRunningBalances := map[string]decimal.Decimal{}
	lockedAccounts := map[string]domain.Account{}
	if applyBalances {
		lockedAccounts, err = r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
		if err != nil {
			return fmt.Errorf("failed to lock accounts for journal %s: %w", modelJournal.JournalID, err)
		}
		for id, acc := range lockedAccounts {
			currentRunningBalances[id] = acc.Balance
		}

		if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, journal.CreatedBy, journal.CreatedAt); err != nil {
			return fmt.Errorf("failed to update account balances for journal %s: %w", modelJournal.JournalID, err)
		}
	}

	// Sort by transaction ID so running balances are deterministic when a
	// journal hits the same account more than once.
	ordered := make([]domain.Transaction, len(transactions))
	copy(ordered, transactions)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].TransactionID < ordered[j].TransactionID })

	txnQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`

	batch := &pgx.Batch{}
	for _, txn := range ordered {
		modelTxn := mapping.ToModelTransaction(txn)
		if modelTxn.MatchStatus == "" {
			modelTxn.MatchStatus = string(domain.MatchUnmatched)
		}

		if applyBalances {
			lockedAccount, ok := lockedAccounts[txn.AccountID]
			if !ok {
				return apperrors.NewAppError(500, "internal error: locked account "+txn.AccountID+" not found during transaction processing", nil)
			}
			signedAmount, err := accounting.CalculateSignedAmount(txn, lockedAccount.AccountType)
			if err != nil {
				return apperrors.NewAppError(500, "failed to calculate signed amount for transaction "+txn.TransactionID, err)
			}
			newRunningBalance := currentRunningBalances[txn.AccountID].Add(signedAmount)
			modelTxn.RunningBalance = newRunningBalance
			currentRunningBalances[txn.AccountID] = newRunningBalance
		}

		batch.Queue(txnQuery,
			modelTxn.TransactionID,
			modelTxn.JournalID,
			modelTxn.AccountID,
			modelTxn.Amount,
			modelTxn.TransactionType,
			modelTxn.CurrencyCode,
			modelTxn.Notes,
			modelTxn.TransactionDate,
			modelTxn.RunningBalance,
			modelTxn.MatchStatus,
			modelTxn.StatementTxnID,
			modelTxn.CreatedAt,
			modelTxn.CreatedBy,
			modelTxn.LastUpdatedAt,
			modelTxn.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute transaction batch for journal "+modelJournal.JournalID, err)
	}

	return r.Commit(ctx, tx)
}

// PostDraftJournal flips a draft to POSTED and applies its balance changes atomically.
func (r *PgxJournalRepository) PostDraftJournal(ctx context.Context, journalID string, balanceChanges map[string]decimal.Decimal, updatedByUserID string, updatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	updateQuery := `
		UPDATE journals
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE journal_id = $1 AND status = $5;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery, journalID, models.Posted, updatedAt, updatedByUserID, models.Draft)
	if err != nil {
		return apperrors.NewAppError(500, "failed to post draft journal "+journalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the journal is gone or it is no longer a draft.
		return fmt.Errorf("%w: journal %s is not in DRAFT status", apperrors.ErrConflict, journalID)
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		accountIDs = append(accountIDs, id)
	}

	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to lock accounts while posting draft %s: %w", journalID, err)
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, updatedByUserID, updatedAt); err != nil {
		return fmt.Errorf("failed to update account balances while posting draft %s: %w", journalID, err)
	}

	// Backfill running balances on the draft's lines now that they hit the ledger.
	lines, err := r.findTransactionsInTx(ctx, tx, journalID)
	if err != nil {
		return err
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].TransactionID < lines[j].TransactionID })

	currentRunningBalances := map[string]decimal.Decimal{}
	for id, acc := range lockedAccounts {
		currentRunningBalances[id] = acc.Balance
	}

	rbQuery := `
		UPDATE transactions
		SET running_balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1;
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		lockedAccount, ok := lockedAccounts[line.AccountID]
		if !ok {
			return apperrors.NewAppError(500, "internal error: locked account "+line.AccountID+" not found while posting draft "+journalID, nil)
		}
		signedAmount, err := accounting.CalculateSignedAmount(line, lockedAccount.AccountType)
		if err != nil {
			return apperrors.NewAppError(500, "failed to calculate signed amount for transaction "+line.TransactionID, err)
		}
		newRunningBalance := currentRunningBalances[line.AccountID].Add(signedAmount)
		currentRunningBalances[line.AccountID] = newRunningBalance
		batch.Queue(rbQuery, line.TransactionID, newRunningBalance, updatedAt, updatedByUserID)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to backfill running balances for journal "+journalID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateJournalStatusAndLinks updates the status and reversal linkage of a journal.
func (r *PgxJournalRepository) UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, originalJournalID *string, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE journals
		SET status = $2,
		    reversing_journal_id = COALESCE($3, reversing_journal_id),
		    original_journal_id = COALESCE($4, original_journal_id),
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE journal_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, journalID, string(status), reversingJournalID, originalJournalID, updatedAt, updatedByUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for journal "+journalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// scanJournalRow scans one journal row shaped by journalColumns.
func scanJournalRow(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	var originalID sql.NullString
	var reversingID sql.NullString

	err := row.Scan(
		&m.JournalID,
		&m.EntityID,
		&m.JournalDate,
		&m.PeriodID,
		&m.Description,
		&m.CurrencyCode,
		&m.SourceType,
		&m.Status,
		&originalID,
		&reversingID,
		&m.Amount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Journal{}, err
	}

	if originalID.Valid {
		m.OriginalJournalID = &originalID.String
	}
	if reversingID.Valid {
		m.ReversingJournalID = &reversingID.String
	}
	return m, nil
}

// FindJournalByID retrieves a journal by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `
		SELECT ` + journalColumns + `
		FROM journals
		WHERE journal_id = $1;
	`
	m, err := scanJournalRow(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by ID "+journalID, err)
	}

	domainJournal := mapping.ToDomainJournal(m)
	return &domainJournal, nil
}

// ListJournalsByEntity retrieves a paginated list of journals using token-based pagination.
func (r *PgxJournalRepository) ListJournalsByEntity(ctx context.Context, entityID string, limit int, nextToken *string, includeReversals bool) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + journalColumns + `
		FROM journals
		WHERE entity_id = $1
	`
	if !includeReversals {
		baseQuery += ` AND original_journal_id IS NULL`
	}
	orderByClause := `ORDER BY journal_date DESC, created_at DESC`

	args := []interface{}{entityID}

	if nextToken != nil && *nextToken != "" {
		lastJournalDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		baseQuery += ` AND (journal_date, created_at) < ($2, $3)`
		args = append(args, lastJournalDate, lastCreatedAt)
	}

	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journals for entity "+entityID, err)
	}
	defer rows.Close()

	journals := []domain.Journal{}
	for rows.Next() {
		m, err := scanJournalRow(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal row for entity "+entityID, err)
		}
		journals = append(journals, mapping.ToDomainJournal(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal rows for entity "+entityID, err)
	}

	var newNextToken *string
	if len(journals) > limit {
		last := journals[limit-1]
		token := pagination.EncodeToken(last.JournalDate, last.CreatedAt)
		newNextToken = &token
		journals = journals[:limit]
	}

	return journals, newNextToken, nil
}

// CountDraftsByPeriod returns the number of unposted draft journals in a period.
func (r *PgxJournalRepository) CountDraftsByPeriod(ctx context.Context, entityID string, periodID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM journals
		WHERE entity_id = $1 AND period_id = $2 AND status = $3;
	`
	var count int
	if err := r.Pool.QueryRow(ctx, query, entityID, periodID, models.Draft).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count draft journals for period "+periodID, err)
	}
	return count, nil
}

// scanTransactionRows collects transaction rows shaped by transactionColumns.
func scanTransactionRows(rows pgx.Rows) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var stmtID sql.NullString
		err := rows.Scan(
			&t.TransactionID,
			&t.JournalID,
			&t.AccountID,
			&t.Amount,
			&t.TransactionType,
			&t.CurrencyCode,
			&t.Notes,
			&t.TransactionDate,
			&t.RunningBalance,
			&t.MatchStatus,
			&stmtID,
			&t.CreatedAt,
			&t.CreatedBy,
			&t.LastUpdatedAt,
			&t.LastUpdatedBy,
		)
		if err != nil {
			return nil, err
		}
		if stmtID.Valid {
			t.StatementTxnID = &stmtID.String
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *PgxJournalRepository) findTransactionsInTx(ctx context.Context, tx pgx.Tx, journalID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE journal_id = $1
		ORDER BY transaction_id;
	`
	rows, err := tx.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for journal "+journalID, err)
	}
	defer rows.Close()

	transactions, err := scanTransactionRows(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan transaction rows for journal "+journalID, err)
	}
	return mapping.ToDomainTransactionSlice(transactions), nil
}

// FindTransactionsByJournalID retrieves all transactions associated with a specific journal.
func (r *PgxJournalRepository) FindTransactionsByJournalID(ctx context.Context, journalID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE journal_id = $1
		ORDER BY transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions for journal "+journalID, err)
	}
	defer rows.Close()

	transactions, err := scanTransactionRows(rows)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan transaction rows for journal "+journalID, err)
	}
	return mapping.ToDomainTransactionSlice(transactions), nil
}

// ListTransactionsByAccountID retrieves a paginated list of transactions for a specific account
// using token-based pagination. Reversal journals are included; drafts are not.
func (r *PgxJournalRepository) ListTransactionsByAccountID(ctx context.Context, entityID, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT t.transaction_id, t.journal_id, t.account_id, t.amount, t.transaction_type, t.currency_code, t.notes,
		       t.transaction_date, t.running_balance, t.match_status, t.statement_txn_id,
		       t.created_at, t.created_by, t.last_updated_at, t.last_updated_by,
		       j.journal_date, j.description
		FROM transactions t
		JOIN journals j ON t.journal_id = j.journal_id
		WHERE t.account_id = $1 AND j.entity_id = $2 AND j.status <> 'DRAFT'
	`
	orderByClause := `ORDER BY j.journal_date DESC, t.created_at DESC`

	args := []interface{}{accountID, entityID}

	if nextToken != nil && *nextToken != "" {
		lastJournalDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		baseQuery += ` AND (j.journal_date, t.created_at) < ($3, $4)`
		args = append(args, lastJournalDate, lastCreatedAt)
	}

	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions for account "+accountID, err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var stmtID sql.NullString
		err := rows.Scan(
			&t.TransactionID,
			&t.JournalID,
			&t.AccountID,
			&t.Amount,
			&t.TransactionType,
			&t.CurrencyCode,
			&t.Notes,
			&t.TransactionDate,
			&t.RunningBalance,
			&t.MatchStatus,
			&stmtID,
			&t.CreatedAt,
			&t.CreatedBy,
			&t.LastUpdatedAt,
			&t.LastUpdatedBy,
			&t.JournalDate,
			&t.JournalDescription,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row for account "+accountID, err)
		}
		if stmtID.Valid {
			t.StatementTxnID = &stmtID.String
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows for account "+accountID, err)
	}

	var newNextToken *string
	if len(transactions) > limit {
		last := transactions[limit-1]
		token := pagination.EncodeToken(last.JournalDate, last.CreatedAt)
		newNextToken = &token
		transactions = transactions[:limit]
	}

	return mapping.ToDomainTransactionSlice(transactions), newNextToken, nil
}

// FindUnmatchedTransactions retrieves posted lines on an account within a date
// range that have not been matched to a statement line.
func (r *PgxJournalRepository) FindUnmatchedTransactions(ctx context.Context, accountID string, from, to time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT t.transaction_id, t.journal_id, t.account_id, t.amount, t.transaction_type, t.currency_code, t.notes,
		       t.transaction_date, t.running_balance, t.match_status, t.statement_txn_id,
		       t.created_at, t.created_by, t.last_updated_at, t.last_updated_by,
		       j.journal_date, j.description
		FROM transactions t
		JOIN journals j ON t.journal_id = j.journal_id
		WHERE t.account_id = $1
		  AND j.status = 'POSTED'
		  AND t.match_status = 'UNMATCHED'
		  AND t.transaction_date >= $2 AND t.transaction_date <= $3
		ORDER BY t.transaction_date, t.transaction_id;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query unmatched transactions for account "+accountID, err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var stmtID sql.NullString
		err := rows.Scan(
			&t.TransactionID,
			&t.JournalID,
			&t.AccountID,
			&t.Amount,
			&t.TransactionType,
			&t.CurrencyCode,
			&t.Notes,
			&t.TransactionDate,
			&t.RunningBalance,
			&t.MatchStatus,
			&stmtID,
			&t.CreatedAt,
			&t.CreatedBy,
			&t.LastUpdatedAt,
			&t.LastUpdatedBy,
			&t.JournalDate,
			&t.JournalDescription,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan unmatched transaction row for account "+accountID, err)
		}
		if stmtID.Valid {
			t.StatementTxnID = &stmtID.String
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating unmatched transaction rows for account "+accountID, err)
	}

	return mapping.ToDomainTransactionSlice(transactions), nil
}

// AccountBalanceAsOf returns the signed sum of the account's non-draft lines
// with a transaction date on or before the given date. Reversed journals stay
// in the sum because their reversal entries net them out.
func (r *PgxJournalRepository) AccountBalanceAsOf(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE
				WHEN a.account_type IN ('ASSET', 'EXPENSE') THEN
					CASE WHEN t.transaction_type = 'DEBIT' THEN t.amount ELSE -t.amount END
				ELSE
					CASE WHEN t.transaction_type = 'CREDIT' THEN t.amount ELSE -t.amount END
			END), 0)
		FROM transactions t
		JOIN journals j ON t.journal_id = j.journal_id
		JOIN accounts a ON t.account_id = a.account_id
		WHERE t.account_id = $1
		  AND j.status <> 'DRAFT'
		  AND t.transaction_date <= $2;
	`
	var balance decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, asOf).Scan(&balance); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to compute balance as of date for account "+accountID, err)
	}
	return balance, nil
}

// MarkTransactionsMatched sets the match state of ledger lines to a statement line.
// Returns apperrors.ErrMatchConflict if any line is already matched.
func (r *PgxJournalRepository) MarkTransactionsMatched(ctx context.Context, transactionIDs []string, statementTxnID string, status domain.MatchStatus, updatedBy string, updatedAt time.Time) error {
	if len(transactionIDs) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// A line already MATCHED must never be silently re-matched. SUGGESTED
	// lines may be upgraded when the suggestion is confirmed.
	query := `
		UPDATE transactions
		SET match_status = $2, statement_txn_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE transaction_id = ANY($1)
		  AND match_status <> 'MATCHED';
	`
	cmdTag, err := tx.Exec(ctx, query, transactionIDs, string(status), statementTxnID, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark transactions matched for statement line "+statementTxnID, err)
	}
	if int(cmdTag.RowsAffected()) != len(transactionIDs) {
		return fmt.Errorf("%w: %d of %d ledger lines were already matched", apperrors.ErrMatchConflict, len(transactionIDs)-int(cmdTag.RowsAffected()), len(transactionIDs))
	}

	return r.Commit(ctx, tx)
}

// UnmatchTransactions clears the match state of ledger lines.
func (r *PgxJournalRepository) UnmatchTransactions(ctx context.Context, transactionIDs []string, updatedBy string, updatedAt time.Time) error {
	if len(transactionIDs) == 0 {
		return nil
	}

	query := `
		UPDATE transactions
		SET match_status = 'UNMATCHED', statement_txn_id = NULL, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = ANY($1);
	`
	_, err := r.Pool.Exec(ctx, query, transactionIDs, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to unmatch transactions", err)
	}
	return nil
}
