package services

// ServiceContainer bundles every service facade for route registration.
type ServiceContainer struct {
	Auth      AuthSvcFacade
	Account   AccountSvcFacade
	Treasury  TreasurySvcFacade
	Journal   JournalSvcFacade
	Project   ProjectSvcFacade
	Party     PartySvcFacade
	Expense   ExpenseSvcFacade
	Purchase  PurchaseSvcFacade
	Inventory InventorySvcFacade
	Sales     SalesSvcFacade
	Partner   PartnerSvcFacade
	Audit     AuditSvcFacade
}
