package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// UnitStatus is the sale state of a unit.
type UnitStatus string

const (
	UnitAvailable UnitStatus = "AVAILABLE"
	UnitBooked    UnitStatus = "BOOKED"
	UnitSold      UnitStatus = "SOLD"
)

// Unit is a sellable area within a project. Lifecycle:
//
//	available -> booked -> sold
//	available -> sold
//	booked    -> available   (cancellation, reversing financial effects)
//
// SOLD is terminal.
type Unit struct {
	UnitID           string           `json:"unitID"`
	ProjectID        string           `json:"projectID"`
	Code             string           `json:"code"`
	Area             decimal.Decimal  `json:"area"`
	Status           UnitStatus       `json:"status"`
	SuggestedPrice   decimal.Decimal  `json:"suggestedPrice"`
	ActualPrice      *decimal.Decimal `json:"actualPrice,omitempty"`
	CustomerID       *string          `json:"customerID,omitempty"`
	PaidAmount       decimal.Decimal  `json:"paidAmount"`
	InstallmentCount int              `json:"installmentCount"`
	BookingDate      *time.Time       `json:"bookingDate,omitempty"`
	SaleDate         *time.Time       `json:"saleDate,omitempty"`
	AuditFields
}

// CanTransition reports whether moving the unit to the target status is a
// legal state-machine transition.
func (u *Unit) CanTransition(to UnitStatus) bool {
	switch u.Status {
	case UnitAvailable:
		return to == UnitBooked || to == UnitSold
	case UnitBooked:
		return to == UnitSold || to == UnitAvailable
	default:
		return false
	}
}

// ValidateSaleTerms enforces the booking validation rules: the paid amount
// must not exceed the price, and a remaining balance requires an installment
// plan while a fully paid unit forbids one (mutually exclusive).
func ValidateSaleTerms(actualPrice, paidAmount decimal.Decimal, installmentCount int) error {
	if actualPrice.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("actual price must be positive")
	}
	if paidAmount.IsNegative() {
		return fmt.Errorf("paid amount must not be negative")
	}
	remaining := actualPrice.Sub(paidAmount)
	if remaining.IsNegative() {
		return fmt.Errorf("paid amount %s exceeds unit price %s", paidAmount, actualPrice)
	}
	if remaining.IsPositive() && installmentCount <= 0 {
		return fmt.Errorf("remaining amount %s requires an installment count", remaining)
	}
	if remaining.IsZero() && installmentCount > 0 {
		return fmt.Errorf("a fully paid unit cannot have installments")
	}
	return nil
}

// ClearSaleFields resets the unit to its never-sold shape after a cancelled
// booking. Optional fields are nilled out, not zeroed, so serialization omits
// them entirely.
func (u *Unit) ClearSaleFields() {
	u.Status = UnitAvailable
	u.ActualPrice = nil
	u.CustomerID = nil
	u.PaidAmount = decimal.Zero
	u.InstallmentCount = 0
	u.BookingDate = nil
	u.SaleDate = nil
}
