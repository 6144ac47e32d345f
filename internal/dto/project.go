package dto

import (
	"github.com/shopspring/decimal"

	"github.com/buildra/construction_finance_app/internal/core/domain"
)

// BudgetItemRequest defines one budget line on project creation.
type BudgetItemRequest struct {
	GlobalBudgetItemID string          `json:"globalBudgetItemID"`
	Name               string          `json:"name" binding:"required"`
	AllocatedAmount    decimal.Decimal `json:"allocatedAmount"`
}

// CreateProjectRequest defines the payload for creating a project. A
// dedicated fund account is created alongside it.
type CreateProjectRequest struct {
	Name           string              `json:"name" binding:"required"`
	EstimatedCosts decimal.Decimal     `json:"estimatedCosts"`
	BudgetItems    []BudgetItemRequest `json:"budgetItems"`
}

// CreateUnitRequest defines the payload for adding a unit to a project.
type CreateUnitRequest struct {
	Code           string          `json:"code" binding:"required"`
	Area           decimal.Decimal `json:"area" binding:"required"`
	SuggestedPrice decimal.Decimal `json:"suggestedPrice"`
}

// PartnerRequest defines one partner row on a partner-map update.
type PartnerRequest struct {
	PartnerID       string          `json:"partnerID,omitempty"` // empty for new partners
	Name            string          `json:"name" binding:"required"`
	SharePercent    decimal.Decimal `json:"sharePercent"`
	TotalInvestment decimal.Decimal `json:"totalInvestment"`
}

// UpdatePartnersRequest replaces a project's partner map. Investment
// increases are funded from fundingSourceAccountID when given, otherwise
// treated as external capital.
type UpdatePartnersRequest struct {
	Partners               []PartnerRequest `json:"partners" binding:"required"`
	FundingSourceAccountID *string          `json:"fundingSourceAccountID,omitempty"`
}

// PayPartnerProfitRequest defines the payload for a profit distribution out
// of the project fund.
type PayPartnerProfitRequest struct {
	PartnerID string          `json:"partnerID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// BudgetItemResponse defines the data returned for a budget line.
type BudgetItemResponse struct {
	BudgetItemID       string          `json:"budgetItemID"`
	GlobalBudgetItemID string          `json:"globalBudgetItemID,omitempty"`
	Name               string          `json:"name"`
	AllocatedAmount    decimal.Decimal `json:"allocatedAmount"`
	SpentAmount        decimal.Decimal `json:"spentAmount"`
}

// ProjectResponse defines the data returned for a project.
type ProjectResponse struct {
	ProjectID             string               `json:"projectID"`
	Name                  string               `json:"name"`
	EstimatedCosts        decimal.Decimal      `json:"estimatedCosts"`
	Spent                 decimal.Decimal      `json:"spent"`
	CollectedFromSales    decimal.Decimal      `json:"collectedFromSales"`
	CollectedFromPartners decimal.Decimal      `json:"collectedFromPartners"`
	FundAccountID         string               `json:"fundAccountID"`
	BudgetItems           []BudgetItemResponse `json:"budgetItems,omitempty"`
	Units                 []UnitResponse       `json:"units,omitempty"`
}

// ToProjectResponse converts a domain.Project to its response DTO.
func ToProjectResponse(p *domain.Project) ProjectResponse {
	items := make([]BudgetItemResponse, len(p.BudgetItems))
	for i, b := range p.BudgetItems {
		items[i] = BudgetItemResponse{
			BudgetItemID:       b.BudgetItemID,
			GlobalBudgetItemID: b.GlobalBudgetItemID,
			Name:               b.Name,
			AllocatedAmount:    b.AllocatedAmount,
			SpentAmount:        b.SpentAmount,
		}
	}
	units := make([]UnitResponse, len(p.Units))
	for i := range p.Units {
		units[i] = ToUnitResponse(&p.Units[i])
	}
	return ProjectResponse{
		ProjectID:             p.ProjectID,
		Name:                  p.Name,
		EstimatedCosts:        p.EstimatedCosts,
		Spent:                 p.Spent,
		CollectedFromSales:    p.CollectedFromSales,
		CollectedFromPartners: p.CollectedFromPartners,
		FundAccountID:         p.FundAccountID,
		BudgetItems:           items,
		Units:                 units,
	}
}
