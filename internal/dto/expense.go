package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/buildra/construction_finance_app/internal/core/domain"
)

// CreateExpenseRequest defines the payload for recording a project expense.
type CreateExpenseRequest struct {
	ProjectID    string          `json:"projectID" binding:"required"`
	BudgetItemID string          `json:"budgetItemID" binding:"required"`
	ExpenseType  string          `json:"expenseType" binding:"required"`
	AccountID    string          `json:"accountID" binding:"required"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	ExpenseDate  time.Time       `json:"expenseDate" binding:"required"`
	Description  string          `json:"description"`
}

// UpdateExpenseRequest defines the payload for amending an expense. Nil
// fields are left unchanged.
type UpdateExpenseRequest struct {
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	BudgetItemID *string          `json:"budgetItemID,omitempty"`
	ExpenseDate  *time.Time       `json:"expenseDate,omitempty"`
	Description  *string          `json:"description,omitempty"`
}

// ExpenseResponse defines the data returned for an expense document.
type ExpenseResponse struct {
	ExpenseID        string          `json:"expenseID"`
	ProjectID        string          `json:"projectID"`
	BudgetItemID     string          `json:"budgetItemID"`
	ExpenseType      string          `json:"expenseType"`
	AccountID        string          `json:"accountID,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	ExpenseDate      time.Time       `json:"expenseDate"`
	Description      string          `json:"description,omitempty"`
	WithdrawalNumber *string         `json:"withdrawalNumber,omitempty"`
}

// ToExpenseResponse converts a domain.Expense to its response DTO.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:        e.ExpenseID,
		ProjectID:        e.ProjectID,
		BudgetItemID:     e.BudgetItemID,
		ExpenseType:      e.ExpenseType,
		AccountID:        e.AccountID,
		Amount:           e.Amount,
		ExpenseDate:      e.ExpenseDate,
		Description:      e.Description,
		WithdrawalNumber: e.WithdrawalNumber,
	}
}
