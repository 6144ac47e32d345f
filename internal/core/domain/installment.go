package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InstallmentStatus is the collection state of one installment row.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "PENDING"
	InstallmentPaid    InstallmentStatus = "PAID"
)

// Installment is one scheduled collection for a booked unit's remaining
// balance.
type Installment struct {
	InstallmentID string            `json:"installmentID"`
	ProjectID     string            `json:"projectID"`
	UnitID        string            `json:"unitID"`
	CustomerID    string            `json:"customerID"`
	Sequence      int               `json:"sequence"`
	DueDate       time.Time         `json:"dueDate"`
	Amount        decimal.Decimal   `json:"amount"`
	Status        InstallmentStatus `json:"status"`
	PaidAt        *time.Time        `json:"paidAt,omitempty"`
	AccountID     *string           `json:"accountID,omitempty"` // account the collection was deposited into
	AuditFields
}

// BuildInstallmentSchedule splits a remaining balance into count monthly
// amounts due from firstDue onward. All rows share the same rounded amount
// except the last, which absorbs the rounding remainder so the schedule sums
// to remaining exactly.
func BuildInstallmentSchedule(remaining decimal.Decimal, count int, firstDue time.Time) ([]decimal.Decimal, []time.Time, error) {
	if count <= 0 {
		return nil, nil, fmt.Errorf("installment count must be positive")
	}
	if remaining.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("remaining amount must be positive")
	}

	per := remaining.DivRound(decimal.NewFromInt(int64(count)), 2)
	amounts := make([]decimal.Decimal, count)
	dueDates := make([]time.Time, count)
	running := decimal.Zero
	for i := 0; i < count; i++ {
		if i == count-1 {
			amounts[i] = remaining.Sub(running)
		} else {
			amounts[i] = per
			running = running.Add(per)
		}
		dueDates[i] = firstDue.AddDate(0, i, 0)
	}
	return amounts, dueDates, nil
}
