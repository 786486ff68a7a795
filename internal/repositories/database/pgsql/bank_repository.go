package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/OluAde/ledger_recon_app/internal/apperrors"
	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	portsrepo "github.com/OluAde/ledger_recon_app/internal/core/ports/repositories"
	"github.com/OluAde/ledger_recon_app/internal/models"
	"github.com/OluAde/ledger_recon_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const bankAccountColumns = `bank_account_id, entity_id, name, bank_name, account_number, currency_code, gl_account_id, opening_balance, current_balance, last_reconciled, is_active, created_at, created_by, last_updated_at, last_updated_by`

const statementColumns = `statement_txn_id, bank_account_id, txn_date, description, reference, amount, running_balance, match_status, match_type, confidence, matched_line_ids, matched_by, matched_at, is_bank_charge, is_emtl, is_stamp_duty, is_vat, is_wht, is_interest, created_at, created_by, last_updated_at, last_updated_by`

type PgxBankRepository struct {
	pool *pgxpool.Pool
}

// newPgxBankRepository creates a new repository for bank account and statement data.
func newPgxBankRepository(pool *pgxpool.Pool) portsrepo.BankRepositoryFacade {
	return &PgxBankRepository{pool: pool}
}

// Ensure PgxBankRepository implements portsrepo.BankRepositoryFacade
var _ portsrepo.BankRepositoryFacade = (*PgxBankRepository)(nil)

func scanBankAccountRow(row pgx.Row) (models.BankAccount, error) {
	var m models.BankAccount
	var lastReconciled sql.NullTime
	err := row.Scan(
		&m.BankAccountID,
		&m.EntityID,
		&m.Name,
		&m.BankName,
		&m.AccountNumber,
		&m.CurrencyCode,
		&m.GLAccountID,
		&m.OpeningBalance,
		&m.CurrentBalance,
		&lastReconciled,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.BankAccount{}, err
	}
	if lastReconciled.Valid {
		m.LastReconciled = &lastReconciled.Time
	}
	return m, nil
}

// SaveBankAccount persists a new bank account.
func (r *PgxBankRepository) SaveBankAccount(ctx context.Context, bankAccount domain.BankAccount) error {
	m := mapping.ToModelBankAccount(bankAccount)

	query := `
		INSERT INTO bank_accounts (` + bankAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.pool.Exec(ctx, query,
		m.BankAccountID,
		m.EntityID,
		m.Name,
		m.BankName,
		m.AccountNumber,
		m.CurrencyCode,
		m.GLAccountID,
		m.OpeningBalance,
		m.CurrentBalance,
		m.LastReconciled,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: bank account %s already exists", apperrors.ErrDuplicate, m.AccountNumber)
		}
		return fmt.Errorf("failed to save bank account %s: %w", m.BankAccountID, err)
	}
	return nil
}

// FindBankAccountByID retrieves a specific bank account.
func (r *PgxBankRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `
		SELECT ` + bankAccountColumns + `
		FROM bank_accounts
		WHERE bank_account_id = $1;
	`
	m, err := scanBankAccountRow(r.pool.QueryRow(ctx, query, bankAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}
	d := mapping.ToDomainBankAccount(m)
	return &d, nil
}

// ListBankAccounts retrieves all active bank accounts for an entity.
func (r *PgxBankRepository) ListBankAccounts(ctx context.Context, entityID string) ([]domain.BankAccount, error) {
	query := `
		SELECT ` + bankAccountColumns + `
		FROM bank_accounts
		WHERE entity_id = $1 AND is_active = TRUE
		ORDER BY name;
	`
	rows, err := r.pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank accounts for entity %s: %w", entityID, err)
	}
	defer rows.Close()

	accounts := []models.BankAccount{}
	for rows.Next() {
		m, err := scanBankAccountRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank account row for entity %s: %w", entityID, err)
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank account rows for entity %s: %w", entityID, err)
	}

	return mapping.ToDomainBankAccountSlice(accounts), nil
}

// UpdateLastReconciled records the date a bank account was last reconciled through.
func (r *PgxBankRepository) UpdateLastReconciled(ctx context.Context, bankAccountID string, reconciledThrough time.Time, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE bank_accounts
		SET last_reconciled = $2, last_updated_at = $3, last_updated_by = $4
		WHERE bank_account_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, bankAccountID, reconciledThrough, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update last reconciled for bank account %s: %w", bankAccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanStatementRow(row pgx.Row) (models.BankStatementTransaction, error) {
	var m models.BankStatementTransaction
	var runningBalance decimal.NullDecimal
	var matchType sql.NullString
	var matchedBy sql.NullString
	var matchedAt sql.NullTime
	err := row.Scan(
		&m.StatementTxnID,
		&m.BankAccountID,
		&m.TxnDate,
		&m.Description,
		&m.Reference,
		&m.Amount,
		&runningBalance,
		&m.MatchStatus,
		&matchType,
		&m.Confidence,
		&m.MatchedLineIDs,
		&matchedBy,
		&matchedAt,
		&m.IsBankCharge,
		&m.IsEMTL,
		&m.IsStampDuty,
		&m.IsVAT,
		&m.IsWHT,
		&m.IsInterest,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.BankStatementTransaction{}, err
	}
	if runningBalance.Valid {
		m.RunningBalance = &runningBalance.Decimal
	}
	if matchType.Valid {
		m.MatchType = matchType.String
	}
	if matchedBy.Valid {
		m.MatchedBy = matchedBy.String
	}
	if matchedAt.Valid {
		m.MatchedAt = &matchedAt.Time
	}
	return m, nil
}

// FindStatementTxnByID retrieves one statement line.
func (r *PgxBankRepository) FindStatementTxnByID(ctx context.Context, statementTxnID string) (*domain.BankStatementTransaction, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM bank_statement_transactions
		WHERE statement_txn_id = $1;
	`
	m, err := scanStatementRow(r.pool.QueryRow(ctx, query, statementTxnID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find statement line %s: %w", statementTxnID, err)
	}
	d := mapping.ToDomainStatementTransaction(m)
	return &d, nil
}

// ListStatementTransactions retrieves lines for a bank account within a date
// range, optionally filtered to one match status.
func (r *PgxBankRepository) ListStatementTransactions(ctx context.Context, bankAccountID string, from, to time.Time, status *domain.MatchStatus) ([]domain.BankStatementTransaction, error) {
	query := `
		SELECT ` + statementColumns + `
		FROM bank_statement_transactions
		WHERE bank_account_id = $1 AND txn_date >= $2 AND txn_date <= $3
	`
	args := []interface{}{bankAccountID, from, to}
	if status != nil {
		query += ` AND match_status = $4`
		args = append(args, string(*status))
	}
	query += ` ORDER BY txn_date, statement_txn_id;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query statement lines for bank account %s: %w", bankAccountID, err)
	}
	defer rows.Close()

	lines := []models.BankStatementTransaction{}
	for rows.Next() {
		m, err := scanStatementRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement line row for bank account %s: %w", bankAccountID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating statement line rows for bank account %s: %w", bankAccountID, err)
	}

	return mapping.ToDomainStatementTransactionSlice(lines), nil
}

// InsertStatementTransactions inserts lines idempotently. The table carries a
// unique constraint on (bank_account_id, txn_date, amount, reference); rows
// hitting it are skipped so re-importing an overlapping file is safe.
func (r *PgxBankRepository) InsertStatementTransactions(ctx context.Context, txns []domain.BankStatementTransaction) (int, error) {
	if len(txns) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO bank_statement_transactions (` + statementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (bank_account_id, txn_date, amount, reference) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, txn := range txns {
		m := mapping.ToModelStatementTransaction(txn)
		if m.MatchStatus == "" {
			m.MatchStatus = string(domain.MatchUnmatched)
		}
		var matchType interface{}
		if m.MatchType != "" {
			matchType = m.MatchType
		}
		var matchedBy interface{}
		if m.MatchedBy != "" {
			matchedBy = m.MatchedBy
		}
		batch.Queue(query,
			m.StatementTxnID,
			m.BankAccountID,
			m.TxnDate,
			m.Description,
			m.Reference,
			m.Amount,
			m.RunningBalance,
			m.MatchStatus,
			matchType,
			m.Confidence,
			m.MatchedLineIDs,
			matchedBy,
			m.MatchedAt,
			m.IsBankCharge,
			m.IsEMTL,
			m.IsStampDuty,
			m.IsVAT,
			m.IsWHT,
			m.IsInterest,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	inserted := 0
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to insert statement line %s: %w", txns[i].StatementTxnID, err)
			}
			continue
		}
		inserted += int(ct.RowsAffected())
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close statement insert batch: %w", err)
	}
	if batchErr != nil {
		return 0, batchErr
	}

	return inserted, nil
}

// UpdateStatementMatch sets match state on one statement line. When force is
// false a line that is already MATCHED is left untouched and
// apperrors.ErrMatchConflict is returned.
func (r *PgxBankRepository) UpdateStatementMatch(ctx context.Context, txn domain.BankStatementTransaction, force bool) error {
	m := mapping.ToModelStatementTransaction(txn)

	query := `
		UPDATE bank_statement_transactions
		SET match_status = $2, match_type = NULLIF($3, ''), confidence = $4, matched_line_ids = $5,
		    matched_by = NULLIF($6, ''), matched_at = $7, last_updated_at = $8, last_updated_by = $9
		WHERE statement_txn_id = $1
	`
	if !force {
		query += ` AND match_status <> 'MATCHED'`
	}
	query += ";"

	cmdTag, err := r.pool.Exec(ctx, query,
		m.StatementTxnID,
		m.MatchStatus,
		m.MatchType,
		m.Confidence,
		m.MatchedLineIDs,
		m.MatchedBy,
		m.MatchedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update match state for statement line %s: %w", m.StatementTxnID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Distinguish a missing line from one that is already matched.
		if _, findErr := r.FindStatementTxnByID(ctx, m.StatementTxnID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: statement line %s is already matched", apperrors.ErrMatchConflict, m.StatementTxnID)
	}
	return nil
}

// UpdateChargeFlags persists classification flags on a statement line.
func (r *PgxBankRepository) UpdateChargeFlags(ctx context.Context, statementTxnID string, flags domain.ChargeFlags, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE bank_statement_transactions
		SET is_bank_charge = $2, is_emtl = $3, is_stamp_duty = $4, is_vat = $5, is_wht = $6, is_interest = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE statement_txn_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		statementTxnID,
		flags.IsBankCharge,
		flags.IsEMTL,
		flags.IsStampDuty,
		flags.IsVAT,
		flags.IsWHT,
		flags.IsInterest,
		updatedAt,
		updatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update charge flags for statement line %s: %w", statementTxnID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
