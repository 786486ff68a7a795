package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/OluAde/ledger_recon_app/internal/apperrors"
	"github.com/OluAde/ledger_recon_app/internal/core/domain"
	"github.com/OluAde/ledger_recon_app/internal/dto"
	"github.com/OluAde/ledger_recon_app/internal/middleware"
)

// CreatePeriod opens a new fiscal period for an entity. Overlap with an
// existing period is rejected by the repository's range constraint.
func (s *postingService) CreatePeriod(ctx context.Context, entityID string, req dto.CreatePeriodRequest, actorID string) (*domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: period end date must be after start date", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	period := domain.FiscalPeriod{
		PeriodID:  uuid.NewString(),
		EntityID:  entityID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    domain.PeriodOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: period overlaps an existing period", apperrors.ErrDuplicate)
		}
		logger.Error("Failed to save fiscal period", slog.String("error", err.Error()), slog.String("entity_id", entityID))
		return nil, fmt.Errorf("failed to save fiscal period: %w", err)
	}

	logger.Info("Fiscal period opened", slog.String("period_id", period.PeriodID), slog.String("name", period.Name))
	return &period, nil
}

// buildCloseChecklist collects every condition currently blocking a close.
// The caller gets the full list in one pass, never just the first failure.
func (s *postingService) buildCloseChecklist(ctx context.Context, entityID string, periodID string) (*domain.CloseChecklist, error) {
	checklist := &domain.CloseChecklist{BlockingIssues: []string{}}

	draftCount, err := s.journalRepo.CountDraftsByPeriod(ctx, entityID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to count draft journals: %w", err)
	}
	if draftCount > 0 {
		checklist.BlockingIssues = append(checklist.BlockingIssues,
			fmt.Sprintf("%d draft journal(s) in the period are not yet posted", draftCount))
	}

	bankAccounts, err := s.bankRepo.ListBankAccounts(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	for _, ba := range bankAccounts {
		recon, err := s.reconRepo.FindReconciliationByBankAccountAndPeriod(ctx, ba.BankAccountID, periodID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				checklist.BlockingIssues = append(checklist.BlockingIssues,
					fmt.Sprintf("bank account %s (%s) has no reconciliation for this period", ba.AccountNumber, ba.BankName))
				continue
			}
			return nil, fmt.Errorf("failed to check reconciliation for bank account %s: %w", ba.BankAccountID, err)
		}
		if recon.Status != domain.ReconLocked {
			checklist.BlockingIssues = append(checklist.BlockingIssues,
				fmt.Sprintf("bank account %s (%s) reconciliation is %s, not LOCKED", ba.AccountNumber, ba.BankName, recon.Status))
		}
	}

	checklist.Success = len(checklist.BlockingIssues) == 0
	return checklist, nil
}

// ClosePeriodChecklist enumerates everything currently blocking a close
// without attempting the close itself.
func (s *postingService) ClosePeriodChecklist(ctx context.Context, entityID string, periodID string) (*domain.CloseChecklist, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.EntityID != entityID {
		return nil, apperrors.ErrNotFound
	}
	return s.buildCloseChecklist(ctx, entityID, periodID)
}

// ClosePeriod transitions an open period to CLOSED when nothing blocks it.
// The checklist is re-evaluated inside the same critical section used by
// posting, so a journal racing the close cannot slip in after the check.
func (s *postingService) ClosePeriod(ctx context.Context, entityID string, periodID string, actorID string) (*domain.CloseChecklist, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if period.EntityID != entityID {
		return nil, apperrors.ErrNotFound
	}

	lockKey := periodLockKey(entityID, periodID)
	s.periodLocks.Lock(lockKey)
	defer s.periodLocks.Unlock(lockKey)

	current, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.PeriodOpen {
		return nil, fmt.Errorf("%w: period status is %s, expected OPEN", apperrors.ErrConflict, current.Status)
	}

	checklist, err := s.buildCloseChecklist(ctx, entityID, periodID)
	if err != nil {
		return nil, err
	}
	if !checklist.Success {
		logger.Info("Period close blocked",
			slog.String("period_id", periodID),
			slog.Int("blocking_issues", len(checklist.BlockingIssues)),
		)
		return checklist, nil
	}

	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, domain.PeriodClosed, actorID, time.Now().UTC()); err != nil {
		logger.Error("Failed to close period", slog.String("error", err.Error()), slog.String("period_id", periodID))
		return nil, fmt.Errorf("failed to close period: %w", err)
	}

	logger.Info("Fiscal period closed", slog.String("period_id", periodID), slog.String("actor_id", actorID))
	return checklist, nil
}

// ReopenPeriod transitions CLOSED back to OPEN. Locked periods stay locked.
func (s *postingService) ReopenPeriod(ctx context.Context, entityID string, periodID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return err
	}
	if period.EntityID != entityID {
		return apperrors.ErrNotFound
	}

	lockKey := periodLockKey(entityID, periodID)
	s.periodLocks.Lock(lockKey)
	defer s.periodLocks.Unlock(lockKey)

	current, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return err
	}
	switch current.Status {
	case domain.PeriodLocked:
		return fmt.Errorf("%w: period %s", apperrors.ErrPeriodLocked, current.Name)
	case domain.PeriodOpen:
		return fmt.Errorf("%w: period is already open", apperrors.ErrConflict)
	}

	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, domain.PeriodOpen, actorID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to reopen period: %w", err)
	}
	logger.Info("Fiscal period reopened", slog.String("period_id", periodID), slog.String("actor_id", actorID))
	return nil
}

// LockPeriod transitions CLOSED to LOCKED. There is no unlock.
func (s *postingService) LockPeriod(ctx context.Context, entityID string, periodID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return err
	}
	if period.EntityID != entityID {
		return apperrors.ErrNotFound
	}

	lockKey := periodLockKey(entityID, periodID)
	s.periodLocks.Lock(lockKey)
	defer s.periodLocks.Unlock(lockKey)

	current, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return err
	}
	if current.Status != domain.PeriodClosed {
		return fmt.Errorf("%w: period status is %s, expected CLOSED", apperrors.ErrConflict, current.Status)
	}

	if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, domain.PeriodLocked, actorID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to lock period: %w", err)
	}
	logger.Info("Fiscal period locked", slog.String("period_id", periodID), slog.String("actor_id", actorID))
	return nil
}

// ListPeriodsForEntity retrieves all periods for an entity ordered by start date.
func (s *postingService) ListPeriodsForEntity(ctx context.Context, entityID string) ([]domain.FiscalPeriod, error) {
	return s.periodRepo.ListPeriods(ctx, entityID)
}
