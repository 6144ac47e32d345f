package repositories

import (
	"context"
	"time"

	"github.com/buildra/construction_finance_app/internal/core/domain"
)

// AccountRepository reads and maintains treasury accounts outside of
// coordinator transactions.
type AccountRepository interface {
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, account domain.Account) error
	DeactivateAccount(ctx context.Context, accountID, actorID string, now time.Time) error
}

// JournalRepository provides read access to the append-only ledger.
type JournalRepository interface {
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
	ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// ProjectRepository reads project aggregates.
type ProjectRepository interface {
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, limit, offset int) ([]domain.Project, error)
	FindBudgetItem(ctx context.Context, projectID, budgetItemID string) (*domain.BudgetItem, error)
	FindUnit(ctx context.Context, projectID, unitID string) (*domain.Unit, error)
	ListUnits(ctx context.Context, projectID string) ([]domain.Unit, error)
	ListPartners(ctx context.Context, projectID string) ([]domain.ProjectPartner, error)
	InsertUnit(ctx context.Context, unit domain.Unit) error
}

// PartyRepository reads customers, suppliers and employees.
type PartyRepository interface {
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
	SaveCustomer(ctx context.Context, customer domain.Customer) error
	ListCustomers(ctx context.Context, limit, offset int) ([]domain.Customer, error)
	FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error)
	SaveSupplier(ctx context.Context, supplier domain.Supplier) error
	ListSuppliers(ctx context.Context, limit, offset int) ([]domain.Supplier, error)
	FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error)
	FindEmployeesByIDs(ctx context.Context, employeeIDs []string) (map[string]domain.Employee, error)
	SaveEmployee(ctx context.Context, employee domain.Employee) error
	ListEmployees(ctx context.Context, limit, offset int) ([]domain.Employee, error)
}

// ExpenseRepository reads expense documents.
type ExpenseRepository interface {
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListExpensesByProject(ctx context.Context, projectID string, limit, offset int) ([]domain.Expense, error)
}

// PurchaseRepository reads purchase invoices and inventory.
type PurchaseRepository interface {
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.PurchaseInvoice, error)
	ListInvoicesBySupplier(ctx context.Context, supplierID string, limit, offset int) ([]domain.PurchaseInvoice, error)
	FindItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error)
	SaveItem(ctx context.Context, item domain.InventoryItem) error
	ListItems(ctx context.Context, limit, offset int) ([]domain.InventoryItem, error)
}

// InstallmentRepository reads installment schedules.
type InstallmentRepository interface {
	FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error)
	ListInstallmentsByUnit(ctx context.Context, unitID string) ([]domain.Installment, error)
	ListInstallmentsByCustomer(ctx context.Context, customerID string) ([]domain.Installment, error)
}

// AuditRepository appends to and reads the audit log.
type AuditRepository interface {
	AppendAuditRecord(ctx context.Context, record domain.AuditRecord) error
	ListAuditRecords(ctx context.Context, limit, offset int) ([]domain.AuditRecord, error)
}

// UserRepository reads application users for authentication.
type UserRepository interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	SaveUser(ctx context.Context, user domain.User) error
}
