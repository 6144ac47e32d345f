package dto

import (
	"github.com/shopspring/decimal"

	"github.com/buildra/construction_finance_app/internal/core/domain"
)

// CreateInventoryItemRequest defines the payload for registering a stocked
// material.
type CreateInventoryItemRequest struct {
	Name string `json:"name" binding:"required"`
	Unit string `json:"unit" binding:"required"`
}

// InventoryItemResponse defines the data returned for an inventory item.
type InventoryItemResponse struct {
	ItemID            string           `json:"itemID"`
	Name              string           `json:"name"`
	Unit              string           `json:"unit"`
	Stock             decimal.Decimal  `json:"stock"`
	AverageCost       decimal.Decimal  `json:"averageCost"`
	LastPurchasePrice *decimal.Decimal `json:"lastPurchasePrice,omitempty"`
}

// ToInventoryItemResponse converts a domain.InventoryItem to its DTO.
func ToInventoryItemResponse(i *domain.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ItemID:            i.ItemID,
		Name:              i.Name,
		Unit:              i.Unit,
		Stock:             i.Stock,
		AverageCost:       i.AverageCost,
		LastPurchasePrice: i.LastPurchasePrice,
	}
}

// ToInventoryItemResponses converts a slice of items.
func ToInventoryItemResponses(items []domain.InventoryItem) []InventoryItemResponse {
	out := make([]InventoryItemResponse, len(items))
	for i := range items {
		out[i] = ToInventoryItemResponse(&items[i])
	}
	return out
}
