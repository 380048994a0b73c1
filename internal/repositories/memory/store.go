// Package memory keeps the whole ledger in process memory. It backs the
// "memory" storage driver and the service tests. A single mutex serialises
// every write, which gives each posting the same atomicity the Postgres
// repositories get from row locks.
package memory

import (
	"sync"

	"github.com/SscSPs/family_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/family_bank/internal/core/ports/repositories"
)

// Store implements every repository port.
type Store struct {
	mu sync.RWMutex

	accounts       map[string]*domain.LedgerAccount
	accountsByCode map[string]string

	entries    map[string]*domain.JournalEntry
	entryOrder []string
	sequence   int64
	processed  map[string]domain.ProcessedEvent
	runs       map[string]domain.ReconciliationRun
	runOrder   []string
	links      map[string]domain.FinancialAccountLink
	cards      map[string]domain.Card
	transfers  map[string]domain.ExternalTransfer
	splits     map[string]domain.AllocationSplit
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:       make(map[string]*domain.LedgerAccount),
		accountsByCode: make(map[string]string),
		entries:        make(map[string]*domain.JournalEntry),
		processed:      make(map[string]domain.ProcessedEvent),
		runs:           make(map[string]domain.ReconciliationRun),
		links:          make(map[string]domain.FinancialAccountLink),
		cards:          make(map[string]domain.Card),
		transfers:      make(map[string]domain.ExternalTransfer),
		splits:         make(map[string]domain.AllocationSplit),
	}
}

// NewRepositoryProvider wires one store into every repository slot.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:        s,
		JournalRepo:        s,
		ReconciliationRepo: s,
		ProcessedEventRepo: s,
		LinkRepo:           s,
		CardRepo:           s,
		TransferRepo:       s,
		FamilyRepo:         s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade        = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade        = (*Store)(nil)
	_ portsrepo.ReconciliationRunRepository    = (*Store)(nil)
	_ portsrepo.ProcessedEventRepository       = (*Store)(nil)
	_ portsrepo.FinancialAccountLinkRepository = (*Store)(nil)
	_ portsrepo.CardRepository                 = (*Store)(nil)
	_ portsrepo.ExternalTransferRepository     = (*Store)(nil)
	_ portsrepo.FamilyRepository               = (*Store)(nil)
)
