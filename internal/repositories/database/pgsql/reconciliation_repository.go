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
)

const reconciliationColumns = `reconciliation_id, entity_id, bank_account_id, period_id, status, statement_opening_balance, statement_closing_balance, book_opening_balance, book_closing_balance, adjusted_bank_balance, adjusted_book_balance, difference, prepared_by, submitted_at, approved_by, approved_at, reviewer_comment, created_at, created_by, last_updated_at, last_updated_by`

const adjustmentColumns = `adjustment_id, reconciliation_id, statement_txn_id, adjustment_type, side, amount, debit_account_id, credit_account_id, description, status, journal_id, created_at, created_by, last_updated_at, last_updated_by`

const outstandingItemColumns = `outstanding_item_id, reconciliation_id, kind, transaction_id, amount, item_date, description, carried_from_id, cleared, created_at, created_by, last_updated_at, last_updated_by`

type PgxReconciliationRepository struct {
	BaseRepository
}

// newPgxReconciliationRepository creates a new repository for reconciliation data.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryWithTx {
	return &PgxReconciliationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxReconciliationRepository implements portsrepo.ReconciliationRepositoryWithTx
var _ portsrepo.ReconciliationRepositoryWithTx = (*PgxReconciliationRepository)(nil)

func scanReconciliationRow(row pgx.Row) (models.Reconciliation, error) {
	var m models.Reconciliation
	var preparedBy, approvedBy, reviewerComment sql.NullString
	var submittedAt, approvedAt sql.NullTime
	err := row.Scan(
		&m.ReconciliationID,
		&m.EntityID,
		&m.BankAccountID,
		&m.PeriodID,
		&m.Status,
		&m.StatementOpeningBalance,
		&m.StatementClosingBalance,
		&m.BookOpeningBalance,
		&m.BookClosingBalance,
		&m.AdjustedBankBalance,
		&m.AdjustedBookBalance,
		&m.Difference,
		&preparedBy,
		&submittedAt,
		&approvedBy,
		&approvedAt,
		&reviewerComment,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Reconciliation{}, err
	}
	if preparedBy.Valid {
		m.PreparedBy = preparedBy.String
	}
	if approvedBy.Valid {
		m.ApprovedBy = approvedBy.String
	}
	if reviewerComment.Valid {
		m.ReviewerComment = reviewerComment.String
	}
	if submittedAt.Valid {
		m.SubmittedAt = &submittedAt.Time
	}
	if approvedAt.Valid {
		m.ApprovedAt = &approvedAt.Time
	}
	return m, nil
}

// SaveReconciliation persists a new reconciliation. The table carries a unique
// constraint on (bank_account_id, period_id) so a second reconciliation for
// the same pair is rejected.
func (r *PgxReconciliationRepository) SaveReconciliation(ctx context.Context, recon domain.Reconciliation) error {
	m := mapping.ToModelReconciliation(recon)

	query := `
		INSERT INTO reconciliations (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''), $14, NULLIF($15, ''), $16, NULLIF($17, ''), $18, $19, $20, $21);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ReconciliationID,
		m.EntityID,
		m.BankAccountID,
		m.PeriodID,
		m.Status,
		m.StatementOpeningBalance,
		m.StatementClosingBalance,
		m.BookOpeningBalance,
		m.BookClosingBalance,
		m.AdjustedBankBalance,
		m.AdjustedBookBalance,
		m.Difference,
		m.PreparedBy,
		m.SubmittedAt,
		m.ApprovedBy,
		m.ApprovedAt,
		m.ReviewerComment,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: reconciliation already exists for bank account %s in period %s", apperrors.ErrDuplicate, m.BankAccountID, m.PeriodID)
		}
		return fmt.Errorf("failed to save reconciliation %s: %w", m.ReconciliationID, err)
	}
	return nil
}

// UpdateReconciliation persists workflow state, balances and review fields.
func (r *PgxReconciliationRepository) UpdateReconciliation(ctx context.Context, recon domain.Reconciliation) error {
	m := mapping.ToModelReconciliation(recon)

	query := `
		UPDATE reconciliations
		SET status = $2,
		    statement_opening_balance = $3,
		    statement_closing_balance = $4,
		    book_opening_balance = $5,
		    book_closing_balance = $6,
		    adjusted_bank_balance = $7,
		    adjusted_book_balance = $8,
		    difference = $9,
		    prepared_by = NULLIF($10, ''),
		    submitted_at = $11,
		    approved_by = NULLIF($12, ''),
		    approved_at = $13,
		    reviewer_comment = NULLIF($14, ''),
		    last_updated_at = $15,
		    last_updated_by = $16
		WHERE reconciliation_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.ReconciliationID,
		m.Status,
		m.StatementOpeningBalance,
		m.StatementClosingBalance,
		m.BookOpeningBalance,
		m.BookClosingBalance,
		m.AdjustedBankBalance,
		m.AdjustedBookBalance,
		m.Difference,
		m.PreparedBy,
		m.SubmittedAt,
		m.ApprovedBy,
		m.ApprovedAt,
		m.ReviewerComment,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update reconciliation %s: %w", m.ReconciliationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindReconciliationByID retrieves a reconciliation with its adjustments and outstanding items.
func (r *PgxReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM reconciliations
		WHERE reconciliation_id = $1;
	`
	m, err := scanReconciliationRow(r.Pool.QueryRow(ctx, query, reconciliationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reconciliation %s: %w", reconciliationID, err)
	}

	recon := mapping.ToDomainReconciliation(m)

	recon.Adjustments, err = r.findAdjustments(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	recon.OutstandingItems, err = r.findOutstandingItems(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}

	return &recon, nil
}

// FindReconciliationByBankAccountAndPeriod retrieves the single reconciliation for a (bank account, period) pair.
func (r *PgxReconciliationRepository) FindReconciliationByBankAccountAndPeriod(ctx context.Context, bankAccountID string, periodID string) (*domain.Reconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM reconciliations
		WHERE bank_account_id = $1 AND period_id = $2;
	`
	m, err := scanReconciliationRow(r.Pool.QueryRow(ctx, query, bankAccountID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reconciliation for bank account %s in period %s: %w", bankAccountID, periodID, err)
	}

	recon := mapping.ToDomainReconciliation(m)

	recon.Adjustments, err = r.findAdjustments(ctx, recon.ReconciliationID)
	if err != nil {
		return nil, err
	}
	recon.OutstandingItems, err = r.findOutstandingItems(ctx, recon.ReconciliationID)
	if err != nil {
		return nil, err
	}

	return &recon, nil
}

// ListReconciliationsByPeriod retrieves all reconciliations in a period for an entity.
// Adjustments and outstanding items are not loaded for listings.
func (r *PgxReconciliationRepository) ListReconciliationsByPeriod(ctx context.Context, entityID string, periodID string) ([]domain.Reconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM reconciliations
		WHERE entity_id = $1 AND period_id = $2
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, entityID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliations for period %s: %w", periodID, err)
	}
	defer rows.Close()

	recons := []domain.Reconciliation{}
	for rows.Next() {
		m, err := scanReconciliationRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation row for period %s: %w", periodID, err)
		}
		recons = append(recons, mapping.ToDomainReconciliation(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation rows for period %s: %w", periodID, err)
	}

	return recons, nil
}

func (r *PgxReconciliationRepository) findAdjustments(ctx context.Context, reconciliationID string) ([]domain.ReconciliationAdjustment, error) {
	query := `
		SELECT ` + adjustmentColumns + `
		FROM reconciliation_adjustments
		WHERE reconciliation_id = $1
		ORDER BY created_at, adjustment_id;
	`
	rows, err := r.Pool.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query adjustments for reconciliation %s: %w", reconciliationID, err)
	}
	defer rows.Close()

	adjustments := []domain.ReconciliationAdjustment{}
	for rows.Next() {
		var m models.ReconciliationAdjustment
		var stmtID, journalID sql.NullString
		err := rows.Scan(
			&m.AdjustmentID,
			&m.ReconciliationID,
			&stmtID,
			&m.AdjustmentType,
			&m.Side,
			&m.Amount,
			&m.DebitAccountID,
			&m.CreditAccountID,
			&m.Description,
			&m.Status,
			&journalID,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan adjustment row for reconciliation %s: %w", reconciliationID, err)
		}
		if stmtID.Valid {
			m.StatementTxnID = &stmtID.String
		}
		if journalID.Valid {
			m.JournalID = &journalID.String
		}
		adjustments = append(adjustments, mapping.ToDomainAdjustment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating adjustment rows for reconciliation %s: %w", reconciliationID, err)
	}
	return adjustments, nil
}

func (r *PgxReconciliationRepository) findOutstandingItems(ctx context.Context, reconciliationID string) ([]domain.OutstandingItem, error) {
	query := `
		SELECT ` + outstandingItemColumns + `
		FROM outstanding_items
		WHERE reconciliation_id = $1
		ORDER BY item_date, outstanding_item_id;
	`
	rows, err := r.Pool.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outstanding items for reconciliation %s: %w", reconciliationID, err)
	}
	defer rows.Close()

	items := []domain.OutstandingItem{}
	for rows.Next() {
		var m models.OutstandingItem
		var carriedFromID sql.NullString
		err := rows.Scan(
			&m.OutstandingItemID,
			&m.ReconciliationID,
			&m.Kind,
			&m.TransactionID,
			&m.Amount,
			&m.ItemDate,
			&m.Description,
			&carriedFromID,
			&m.Cleared,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outstanding item row for reconciliation %s: %w", reconciliationID, err)
		}
		if carriedFromID.Valid {
			m.CarriedFromID = &carriedFromID.String
		}
		items = append(items, mapping.ToDomainOutstandingItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outstanding item rows for reconciliation %s: %w", reconciliationID, err)
	}
	return items, nil
}

// SaveAdjustment persists a proposed adjustment.
func (r *PgxReconciliationRepository) SaveAdjustment(ctx context.Context, adj domain.ReconciliationAdjustment) error {
	m := mapping.ToModelAdjustment(adj)

	query := `
		INSERT INTO reconciliation_adjustments (` + adjustmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AdjustmentID,
		m.ReconciliationID,
		m.StatementTxnID,
		m.AdjustmentType,
		m.Side,
		m.Amount,
		m.DebitAccountID,
		m.CreditAccountID,
		m.Description,
		m.Status,
		m.JournalID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: adjustment %s already exists", apperrors.ErrDuplicate, m.AdjustmentID)
		}
		return fmt.Errorf("failed to save adjustment %s: %w", m.AdjustmentID, err)
	}
	return nil
}

// UpdateAdjustment persists adjustment status and journal linkage.
func (r *PgxReconciliationRepository) UpdateAdjustment(ctx context.Context, adj domain.ReconciliationAdjustment) error {
	m := mapping.ToModelAdjustment(adj)

	query := `
		UPDATE reconciliation_adjustments
		SET status = $2, journal_id = $3, description = $4, last_updated_at = $5, last_updated_by = $6
		WHERE adjustment_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.AdjustmentID,
		m.Status,
		m.JournalID,
		m.Description,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update adjustment %s: %w", m.AdjustmentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteProposedAdjustmentsByStatementTxn removes unposted adjustment
// proposals raised for a statement line. Posted adjustments are untouched.
func (r *PgxReconciliationRepository) DeleteProposedAdjustmentsByStatementTxn(ctx context.Context, reconciliationID string, statementTxnID string) error {
	query := `
		DELETE FROM reconciliation_adjustments
		WHERE reconciliation_id = $1 AND statement_txn_id = $2 AND status = $3;
	`
	_, err := r.Pool.Exec(ctx, query, reconciliationID, statementTxnID, string(domain.AdjustmentProposed))
	if err != nil {
		return fmt.Errorf("failed to delete proposed adjustments for statement line %s: %w", statementTxnID, err)
	}
	return nil
}

// SaveOutstandingItems persists outstanding items for a reconciliation.
func (r *PgxReconciliationRepository) SaveOutstandingItems(ctx context.Context, items []domain.OutstandingItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO outstanding_items (` + outstandingItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (outstanding_item_id) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		m := mapping.ToModelOutstandingItem(item)
		batch.Queue(query,
			m.OutstandingItemID,
			m.ReconciliationID,
			m.Kind,
			m.TransactionID,
			m.Amount,
			m.ItemDate,
			m.Description,
			m.CarriedFromID,
			m.Cleared,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := r.Pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to save outstanding items: %w", err)
	}
	return nil
}

// MarkOutstandingItemCleared flags an outstanding item as cleared.
func (r *PgxReconciliationRepository) MarkOutstandingItemCleared(ctx context.Context, outstandingItemID string, updatedBy string) error {
	query := `
		UPDATE outstanding_items
		SET cleared = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE outstanding_item_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, outstandingItemID, time.Now().UTC(), updatedBy)
	if err != nil {
		return fmt.Errorf("failed to mark outstanding item %s cleared: %w", outstandingItemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
