package domain

import (
	"github.com/shopspring/decimal"
)

// AccountKind classifies a treasury-level account.
type AccountKind string

const (
	Treasury    AccountKind = "TREASURY"
	Bank        AccountKind = "BANK"
	ProjectFund AccountKind = "PROJECT_FUND"
)

// Account represents a cash-like balance bucket (a safe, a bank account, or a
// project's dedicated fund). Its balance is only ever moved by atomic deltas
// applied together with the journal entry that explains them; it is never
// overwritten directly.
type Account struct {
	AccountID   string          `json:"accountID"`
	Name        string          `json:"name"`
	Kind        AccountKind     `json:"kind"`
	Balance     decimal.Decimal `json:"balance"`
	Description string          `json:"description"`
	IsActive    bool            `json:"isActive"`
	AuditFields
}

// CanCover reports whether the account balance is sufficient for an outflow.
func (a *Account) CanCover(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}
