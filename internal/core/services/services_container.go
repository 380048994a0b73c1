package services

import (
	portsrepo "github.com/SscSPs/family_bank/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
	"github.com/SscSPs/family_bank/internal/platform/config"
)

// Collaborators are the optional outside systems the services talk to. Leave
// a field nil when the integration is not configured.
type Collaborators struct {
	Treasury   portssvc.TreasuryProvider
	EventCache portssvc.ProcessedEventCache
	Publisher  portssvc.EventPublisher
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, collab Collaborators) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo)
	container.Family = NewFamilyService(repos.FamilyRepo, repos.LinkRepo, repos.CardRepo, container.Account)
	container.Journal = NewJournalService(repos.JournalRepo, repos.AccountRepo)
	container.Allocation = NewAllocationService(container.Account, container.Family, container.Journal)

	reconOpts := []ReconciliationOption{WithAutoHealThreshold(cfg.AutoHealThresholdCents)}
	bankingOpts := []BankingOption{}
	if collab.Treasury != nil {
		reconOpts = append(reconOpts, WithTreasuryProvider(collab.Treasury))
		bankingOpts = append(bankingOpts, WithWithdrawalProvider(collab.Treasury))
	}
	container.Reconciliation = NewReconciliationService(repos.AccountRepo, repos.ReconciliationRepo, repos.LinkRepo, container.Journal, reconOpts...)

	eventOpts := []EventAdapterOption{}
	if collab.EventCache != nil {
		eventOpts = append(eventOpts, WithProcessedEventCache(collab.EventCache))
	}
	if collab.Publisher != nil {
		eventOpts = append(eventOpts, WithEventPublisher(collab.Publisher))
	}
	container.Events = NewEventAdapterService(
		repos.ProcessedEventRepo,
		repos.LinkRepo,
		repos.CardRepo,
		repos.TransferRepo,
		container.Account,
		container.Journal,
		eventOpts...,
	)

	container.Banking = NewBankingService(
		container.Account,
		container.Family,
		container.Journal,
		container.Allocation,
		repos.LinkRepo,
		repos.TransferRepo,
		bankingOpts...,
	)

	return container
}
