package dto

import (
	"github.com/shopspring/decimal"

	"github.com/buildra/construction_finance_app/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating a treasury account.
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	Kind           string          `json:"kind" binding:"required,oneof=TREASURY BANK PROJECT_FUND"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Description    string          `json:"description"`
}

// UpdateAccountRequest defines the payload for renaming an account.
type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID   string          `json:"accountID"`
	Name        string          `json:"name"`
	Kind        string          `json:"kind"`
	Balance     decimal.Decimal `json:"balance"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"isActive"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   a.AccountID,
		Name:        a.Name,
		Kind:        string(a.Kind),
		Balance:     a.Balance,
		Description: a.Description,
		IsActive:    a.IsActive,
	}
}

// ToAccountResponses converts a slice of accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
