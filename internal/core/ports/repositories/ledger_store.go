package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/buildra/construction_finance_app/internal/core/domain"
)

// LedgerTx exposes the multi-key atomic primitives of the underlying store to
// one coordinator operation. Every method applies to the same database
// transaction; either the whole set of writes commits or none do.
//
// Balance and stock mutators are plain signed deltas. Sufficiency validation
// belongs to the caller, which must lock the contended row first via
// AccountForUpdate / ItemForUpdate, check, and only then mutate.
type LedgerTx interface {
	// Accounts
	AccountForUpdate(ctx context.Context, accountID string) (*domain.Account, error)
	AdjustAccountBalance(ctx context.Context, accountID string, delta decimal.Decimal) error
	InsertAccount(ctx context.Context, account domain.Account) error

	// Party balances
	AdjustCustomerBalance(ctx context.Context, customerID string, delta decimal.Decimal) error
	AdjustSupplierBalance(ctx context.Context, supplierID string, delta decimal.Decimal) error
	AdjustEmployeeBalance(ctx context.Context, employeeID string, field domain.EmployeeBalanceField, delta decimal.Decimal) error

	// Projects and budgets
	AdjustProjectTotals(ctx context.Context, projectID string, delta domain.ProjectTotalsDelta) error
	AdjustBudgetSpent(ctx context.Context, projectID, budgetItemID string, delta decimal.Decimal) error
	InsertProject(ctx context.Context, project domain.Project) error
	InsertBudgetItems(ctx context.Context, items []domain.BudgetItem) error
	UpdateUnitSale(ctx context.Context, unit domain.Unit) error
	ReplaceProjectPartners(ctx context.Context, projectID string, partners []domain.ProjectPartner) error

	// Inventory
	ItemForUpdate(ctx context.Context, itemID string) (*domain.InventoryItem, error)
	ApplyStock(ctx context.Context, itemID string, stockDelta, newAverageCost decimal.Decimal, lastPurchasePrice *decimal.Decimal) error

	// Documents
	InsertExpense(ctx context.Context, expense domain.Expense) error
	UpdateExpense(ctx context.Context, expense domain.Expense) error
	DeleteExpense(ctx context.Context, expenseID string) error
	InsertInvoice(ctx context.Context, invoice domain.PurchaseInvoice) error
	InsertInstallments(ctx context.Context, rows []domain.Installment) error
	DeleteInstallmentsByUnit(ctx context.Context, unitID string) error
	MarkInstallmentPaid(ctx context.Context, installmentID, accountID, actorID string, paidAt time.Time) error
	InsertSalaryPayments(ctx context.Context, rows []domain.SalaryPayment) error

	// Journal
	AppendJournalEntry(ctx context.Context, entry domain.JournalEntry) error

	// Sequence counter. Returns the post-increment value in a single
	// atomic call; concurrent callers never observe the same value.
	NextSequence(ctx context.Context, counter domain.CounterType) (int64, error)
}

// LedgerStore runs a coordinator operation inside a single database
// transaction. fn returning an error rolls everything back.
type LedgerStore interface {
	InTx(ctx context.Context, fn func(tx LedgerTx) error) error
}
