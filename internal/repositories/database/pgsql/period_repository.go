package pgsql

import (
	"context"
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

const periodColumns = `period_id, entity_id, name, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	pool *pgxpool.Pool
}

// newPgxPeriodRepository creates a new repository for fiscal period data.
func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{pool: pool}
}

// Ensure PgxPeriodRepository implements portsrepo.PeriodRepositoryFacade
var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func scanPeriodRow(row pgx.Row) (models.FiscalPeriod, error) {
	var m models.FiscalPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.EntityID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SavePeriod persists a new fiscal period. The fiscal_periods table carries an
// exclusion constraint on (entity_id, daterange) so overlapping ranges are
// rejected by the database.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	m := mapping.ToModelFiscalPeriod(period)

	query := `
		INSERT INTO fiscal_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		m.PeriodID,
		m.EntityID,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // Unique violation (id or name)
				return fmt.Errorf("%w: period %s already exists for entity %s", apperrors.ErrDuplicate, m.Name, m.EntityID)
			case "23P01": // Exclusion violation (overlapping date range)
				return fmt.Errorf("%w: period %s overlaps an existing period for entity %s", apperrors.ErrDuplicate, m.Name, m.EntityID)
			}
		}
		return fmt.Errorf("failed to save fiscal period %s: %w", m.PeriodID, err)
	}
	return nil
}

// FindPeriodByID retrieves a specific fiscal period.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE period_id = $1;
	`
	m, err := scanPeriodRow(r.pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal period %s: %w", periodID, err)
	}
	p := mapping.ToDomainFiscalPeriod(m)
	return &p, nil
}

// FindPeriodForDate resolves the fiscal period containing the given date for an entity.
func (r *PgxPeriodRepository) FindPeriodForDate(ctx context.Context, entityID string, date time.Time) (*domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE entity_id = $1 AND start_date <= $2 AND end_date >= $2;
	`
	m, err := scanPeriodRow(r.pool.QueryRow(ctx, query, entityID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fiscal period for date %s: %w", date.Format("2006-01-02"), err)
	}
	p := mapping.ToDomainFiscalPeriod(m)
	return &p, nil
}

// FindNextPeriod returns the period immediately following the given one, if any.
func (r *PgxPeriodRepository) FindNextPeriod(ctx context.Context, entityID string, periodID string) (*domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE entity_id = $1
		  AND start_date > (SELECT end_date FROM fiscal_periods WHERE period_id = $2)
		ORDER BY start_date
		LIMIT 1;
	`
	m, err := scanPeriodRow(r.pool.QueryRow(ctx, query, entityID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period following %s: %w", periodID, err)
	}
	p := mapping.ToDomainFiscalPeriod(m)
	return &p, nil
}

// ListPeriods retrieves all periods for an entity ordered by start date.
func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, entityID string) ([]domain.FiscalPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM fiscal_periods
		WHERE entity_id = $1
		ORDER BY start_date;
	`
	rows, err := r.pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fiscal periods for entity %s: %w", entityID, err)
	}
	defer rows.Close()

	periods := []models.FiscalPeriod{}
	for rows.Next() {
		m, err := scanPeriodRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal period row for entity %s: %w", entityID, err)
		}
		periods = append(periods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fiscal period rows for entity %s: %w", entityID, err)
	}

	return mapping.ToDomainFiscalPeriodSlice(periods), nil
}

// UpdatePeriodStatus transitions a period's status.
func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE fiscal_periods
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE period_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query, periodID, string(status), updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status for fiscal period %s: %w", periodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
