package services

import (
	portsrepo "github.com/OluAde/ledger_recon_app/internal/core/ports/repositories"
	portssvc "github.com/OluAde/ledger_recon_app/internal/core/ports/services"
	"github.com/OluAde/ledger_recon_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Account service first; the posting engine and reconciliation workflow
	// both depend on it.
	container.Account = NewAccountService(repos.AccountRepo)

	container.Posting = NewPostingService(
		repos.JournalRepo,
		container.Account,
		repos.PeriodRepo,
		repos.BankRepo,
		repos.ReconciliationRepo,
	)

	container.BankAccount = NewBankAccountService(repos.BankRepo, container.Account)

	container.Reconciliation = NewReconciliationService(
		repos.ReconciliationRepo,
		repos.BankRepo,
		repos.JournalRepo,
		repos.PeriodRepo,
		container.Account,
		container.Posting,
		MatchConfig{
			ToleranceBps:   cfg.MatchToleranceBps,
			DateWindowDays: cfg.MatchDateWindowDays,
			MaxGroupSize:   cfg.MatchMaxGroupSize,
		},
	)

	return container
}
