package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryPayment records one employee's payout within a salary batch.
type SalaryPayment struct {
	PaymentID  string          `json:"paymentID"`
	EmployeeID string          `json:"employeeID"`
	AccountID  string          `json:"accountID"`
	Amount     decimal.Decimal `json:"amount"`
	PayMonth   string          `json:"payMonth"` // YYYY-MM
	PaidAt     time.Time       `json:"paidAt"`
	AuditFields
}
