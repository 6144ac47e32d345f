package dto

import (
	"github.com/shopspring/decimal"
)

// TransferRequest defines the payload for moving money between accounts.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Note          string          `json:"note"`
}

// SalaryItemRequest is one employee's payout within a salary batch.
type SalaryItemRequest struct {
	EmployeeID string          `json:"employeeID" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
}

// PaySalariesRequest defines the payload for a batch salary payout.
type PaySalariesRequest struct {
	AccountID string              `json:"accountID" binding:"required"`
	PayMonth  string              `json:"payMonth" binding:"required"` // YYYY-MM
	Items     []SalaryItemRequest `json:"items" binding:"required,min=1"`
}

// PayEmployeeRequest defines a cash disbursement to an employee against one
// of the three tracked sub-balances. ADVANCE and CUSTODY raise what the
// employee holds; REWARD pays out accrued reward and lowers it.
type PayEmployeeRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Field     string          `json:"field" binding:"required,oneof=ADVANCE CUSTODY REWARD"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Note      string          `json:"note"`
}

// GrantRewardRequest defines a cashless reward accrual for an employee.
type GrantRewardRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason"`
}
