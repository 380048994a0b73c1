package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/SscSPs/family_bank/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo)
	treasuryRepo := newPgxTreasuryRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:        accountRepo,
		JournalRepo:        journalRepo,
		ReconciliationRepo: newPgxReconciliationRepository(dbPool),
		ProcessedEventRepo: treasuryRepo,
		LinkRepo:           treasuryRepo,
		CardRepo:           treasuryRepo,
		TransferRepo:       treasuryRepo,
		FamilyRepo:         newPgxFamilyRepository(dbPool),
	}
}
