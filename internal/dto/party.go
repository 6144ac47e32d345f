package dto

import (
	"github.com/shopspring/decimal"

	"github.com/buildra/construction_finance_app/internal/core/domain"
)

// CreateCustomerRequest defines the payload for creating a customer.
type CreateCustomerRequest struct {
	Name           string          `json:"name" binding:"required"`
	Phone          string          `json:"phone"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// CreateSupplierRequest defines the payload for creating a supplier.
type CreateSupplierRequest struct {
	Name           string          `json:"name" binding:"required"`
	Phone          string          `json:"phone"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// CreateEmployeeRequest defines the payload for creating an employee.
type CreateEmployeeRequest struct {
	Name   string          `json:"name" binding:"required"`
	Salary decimal.Decimal `json:"salary"`
}

// CustomerResponse defines the data returned for a customer.
type CustomerResponse struct {
	CustomerID string          `json:"customerID"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone,omitempty"`
	Balance    decimal.Decimal `json:"balance"`
}

// SupplierResponse defines the data returned for a supplier.
type SupplierResponse struct {
	SupplierID string          `json:"supplierID"`
	Name       string          `json:"name"`
	Phone      string          `json:"phone,omitempty"`
	Balance    decimal.Decimal `json:"balance"`
}

// EmployeeResponse defines the data returned for an employee.
type EmployeeResponse struct {
	EmployeeID     string          `json:"employeeID"`
	Name           string          `json:"name"`
	Salary         decimal.Decimal `json:"salary"`
	AdvanceBalance decimal.Decimal `json:"advanceBalance"`
	CustodyBalance decimal.Decimal `json:"custodyBalance"`
	RewardBalance  decimal.Decimal `json:"rewardBalance"`
	IsActive       bool            `json:"isActive"`
}

// ToCustomerResponse converts a domain.Customer to its DTO.
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{CustomerID: c.CustomerID, Name: c.Name, Phone: c.Phone, Balance: c.Balance}
}

// ToSupplierResponse converts a domain.Supplier to its DTO.
func ToSupplierResponse(s *domain.Supplier) SupplierResponse {
	return SupplierResponse{SupplierID: s.SupplierID, Name: s.Name, Phone: s.Phone, Balance: s.Balance}
}

// ToEmployeeResponse converts a domain.Employee to its DTO.
func ToEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		EmployeeID:     e.EmployeeID,
		Name:           e.Name,
		Salary:         e.Salary,
		AdvanceBalance: e.AdvanceBalance,
		CustodyBalance: e.CustodyBalance,
		RewardBalance:  e.RewardBalance,
		IsActive:       e.IsActive,
	}
}
