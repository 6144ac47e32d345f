package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/buildra/construction_finance_app/internal/core/domain"
)

// BookUnitRequest defines the payload for booking or directly selling a unit.
// Status selects the target state: BOOKED records a booking date, SOLD is a
// final sale. A remaining balance (actualPrice - paidAmount) requires
// installmentCount; a fully paid unit forbids it.
type BookUnitRequest struct {
	CustomerID       string          `json:"customerID" binding:"required"`
	Status           string          `json:"status" binding:"required,oneof=BOOKED SOLD"`
	ActualPrice      decimal.Decimal `json:"actualPrice" binding:"required"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	InstallmentCount int             `json:"installmentCount"`
	Date             time.Time       `json:"date" binding:"required"`
}

// CollectInstallmentRequest defines the payload for collecting one
// installment into a treasury account.
type CollectInstallmentRequest struct {
	AccountID string `json:"accountID" binding:"required"`
}

// UnitResponse defines the data returned for a unit.
type UnitResponse struct {
	UnitID           string           `json:"unitID"`
	ProjectID        string           `json:"projectID"`
	Code             string           `json:"code"`
	Area             decimal.Decimal  `json:"area"`
	Status           string           `json:"status"`
	SuggestedPrice   decimal.Decimal  `json:"suggestedPrice"`
	ActualPrice      *decimal.Decimal `json:"actualPrice,omitempty"`
	CustomerID       *string          `json:"customerID,omitempty"`
	PaidAmount       decimal.Decimal  `json:"paidAmount"`
	InstallmentCount int              `json:"installmentCount"`
	BookingDate      *time.Time       `json:"bookingDate,omitempty"`
	SaleDate         *time.Time       `json:"saleDate,omitempty"`
}

// ToUnitResponse converts a domain.Unit to its response DTO.
func ToUnitResponse(u *domain.Unit) UnitResponse {
	return UnitResponse{
		UnitID:           u.UnitID,
		ProjectID:        u.ProjectID,
		Code:             u.Code,
		Area:             u.Area,
		Status:           string(u.Status),
		SuggestedPrice:   u.SuggestedPrice,
		ActualPrice:      u.ActualPrice,
		CustomerID:       u.CustomerID,
		PaidAmount:       u.PaidAmount,
		InstallmentCount: u.InstallmentCount,
		BookingDate:      u.BookingDate,
		SaleDate:         u.SaleDate,
	}
}

// InstallmentResponse defines the data returned for an installment row.
type InstallmentResponse struct {
	InstallmentID string          `json:"installmentID"`
	UnitID        string          `json:"unitID"`
	CustomerID    string          `json:"customerID"`
	Sequence      int             `json:"sequence"`
	DueDate       time.Time       `json:"dueDate"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
}

// ToInstallmentResponses converts a slice of installments.
func ToInstallmentResponses(rows []domain.Installment) []InstallmentResponse {
	out := make([]InstallmentResponse, len(rows))
	for i, r := range rows {
		out[i] = InstallmentResponse{
			InstallmentID: r.InstallmentID,
			UnitID:        r.UnitID,
			CustomerID:    r.CustomerID,
			Sequence:      r.Sequence,
			DueDate:       r.DueDate,
			Amount:        r.Amount,
			Status:        string(r.Status),
			PaidAt:        r.PaidAt,
		}
	}
	return out
}
