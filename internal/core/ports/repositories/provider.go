package repositories

// RepositoryProvider bundles every repository implementation for wiring at
// startup.
type RepositoryProvider struct {
	Ledger          LedgerStore
	AccountRepo     AccountRepository
	JournalRepo     JournalRepository
	ProjectRepo     ProjectRepository
	PartyRepo       PartyRepository
	ExpenseRepo     ExpenseRepository
	PurchaseRepo    PurchaseRepository
	InstallmentRepo InstallmentRepository
	AuditRepo       AuditRepository
	UserRepo        UserRepository
}
