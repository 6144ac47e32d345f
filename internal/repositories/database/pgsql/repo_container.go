package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository over one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Ledger:          newPgxLedgerStore(dbPool),
		AccountRepo:     newPgxAccountRepository(dbPool),
		JournalRepo:     newPgxJournalRepository(dbPool),
		ProjectRepo:     newPgxProjectRepository(dbPool),
		PartyRepo:       newPgxPartyRepository(dbPool),
		ExpenseRepo:     newPgxExpenseRepository(dbPool),
		PurchaseRepo:    newPgxPurchaseRepository(dbPool),
		InstallmentRepo: newPgxInstallmentRepository(dbPool),
		AuditRepo:       newPgxAuditRepository(dbPool),
		UserRepo:        newPgxUserRepository(dbPool),
	}
}
