package domain

import "github.com/shopspring/decimal"

// Customer is a unit buyer. A positive Balance is a receivable: the amount the
// customer still owes the business.
type Customer struct {
	CustomerID string          `json:"customerID"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Balance    decimal.Decimal `json:"balance"`
	AuditFields
}

// Supplier provides materials and services. A positive Balance is a payable:
// the amount the business still owes the supplier.
type Supplier struct {
	SupplierID string          `json:"supplierID"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone"`
	Balance    decimal.Decimal `json:"balance"`
	AuditFields
}

// EmployeeBalanceField selects one of an employee's sub-balances.
type EmployeeBalanceField string

const (
	EmployeeAdvance EmployeeBalanceField = "ADVANCE"
	EmployeeCustody EmployeeBalanceField = "CUSTODY"
	EmployeeReward  EmployeeBalanceField = "REWARD"
)

// Employee carries a monthly salary plus three tracked sub-balances:
// advances taken against future salaries, cash held in custody for site
// spending, and accrued rewards.
type Employee struct {
	EmployeeID     string          `json:"employeeID"`
	Name           string          `json:"name"`
	Salary         decimal.Decimal `json:"salary"`
	AdvanceBalance decimal.Decimal `json:"advanceBalance"`
	CustodyBalance decimal.Decimal `json:"custodyBalance"`
	RewardBalance  decimal.Decimal `json:"rewardBalance"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}
