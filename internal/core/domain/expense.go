package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a transactional spending document charged to a project and one
// of its budget items, paid out of a treasury account. Recording, updating
// and deleting an expense move project.Spent, the budget item's SpentAmount
// and the account balance together, atomically.
//
// AccountID may be empty on historical rows (a recognized data-integrity
// gap); deletion then skips the treasury reversal with a warning.
type Expense struct {
	ExpenseID        string          `json:"expenseID"`
	ProjectID        string          `json:"projectID"`
	BudgetItemID     string          `json:"budgetItemID"`
	ExpenseType      string          `json:"expenseType"`
	AccountID        string          `json:"accountID,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	ExpenseDate      time.Time       `json:"expenseDate"`
	Description      string          `json:"description"`
	WithdrawalNumber *string         `json:"withdrawalNumber,omitempty"` // set on inventory withdrawals only
	AuditFields
}
