package repositories

import (
	"context"
	"time"

	"github.com/OluAde/ledger_recon_app/internal/core/domain"
)

// PeriodReader defines read operations for fiscal period data
type PeriodReader interface {
	// FindPeriodByID retrieves a specific fiscal period.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// FindPeriodForDate resolves the fiscal period containing the given date for an entity.
	FindPeriodForDate(ctx context.Context, entityID string, date time.Time) (*domain.FiscalPeriod, error)

	// FindNextPeriod returns the period immediately following the given one, if any.
	FindNextPeriod(ctx context.Context, entityID string, periodID string) (*domain.FiscalPeriod, error)

	// ListPeriods retrieves all periods for an entity ordered by start date.
	ListPeriods(ctx context.Context, entityID string) ([]domain.FiscalPeriod, error)
}

// PeriodWriter defines write operations for fiscal period data
type PeriodWriter interface {
	// SavePeriod persists a new fiscal period. Overlapping ranges are rejected.
	SavePeriod(ctx context.Context, period domain.FiscalPeriod) error

	// UpdatePeriodStatus transitions a period's status.
	UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, updatedBy string, updatedAt time.Time) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
}
