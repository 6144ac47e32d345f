package domain

import "github.com/shopspring/decimal"

// Project is the top-level aggregate. It owns its units, budget items and
// partners, and references its dedicated fund account by ID.
//
// Spent, CollectedFromSales and CollectedFromPartners are materialized running
// totals; every document mutation that touches them moves them in the same
// transaction as the source document.
type Project struct {
	ProjectID             string          `json:"projectID"`
	Name                  string          `json:"name"`
	EstimatedCosts        decimal.Decimal `json:"estimatedCosts"`
	Spent                 decimal.Decimal `json:"spent"`
	CollectedFromSales    decimal.Decimal `json:"collectedFromSales"`
	CollectedFromPartners decimal.Decimal `json:"collectedFromPartners"`
	FundAccountID         string          `json:"fundAccountID"`
	BudgetItems           []BudgetItem    `json:"budgetItems,omitempty"`
	Units                 []Unit          `json:"units,omitempty"`
	Partners              []ProjectPartner `json:"partners,omitempty"`
	AuditFields
}

// ProjectedProfit is the distributable amount: collected sales minus spend.
func (p *Project) ProjectedProfit() decimal.Decimal {
	return p.CollectedFromSales.Sub(p.Spent)
}

// BudgetItem is a named spending category within a project, with an allocated
// ceiling and a running spent total.
type BudgetItem struct {
	BudgetItemID       string          `json:"budgetItemID"`
	ProjectID          string          `json:"projectID"`
	GlobalBudgetItemID string          `json:"globalBudgetItemID"`
	Name               string          `json:"name"`
	AllocatedAmount    decimal.Decimal `json:"allocatedAmount"`
	SpentAmount        decimal.Decimal `json:"spentAmount"`
	AuditFields
}

// ProjectTotalsDelta is a signed adjustment to a project's running totals.
// Zero fields leave the corresponding total untouched.
type ProjectTotalsDelta struct {
	Spent                 decimal.Decimal
	CollectedFromSales    decimal.Decimal
	CollectedFromPartners decimal.Decimal
}

// IsZero reports whether the delta moves nothing.
func (d ProjectTotalsDelta) IsZero() bool {
	return d.Spent.IsZero() && d.CollectedFromSales.IsZero() && d.CollectedFromPartners.IsZero()
}

// ProjectPartner records one partner's stake in a project.
type ProjectPartner struct {
	PartnerID       string          `json:"partnerID"`
	ProjectID       string          `json:"projectID"`
	Name            string          `json:"name"`
	SharePercent    decimal.Decimal `json:"sharePercent"`
	TotalInvestment decimal.Decimal `json:"totalInvestment"`
	AuditFields
}
