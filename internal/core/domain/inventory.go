package domain

import "github.com/shopspring/decimal"

// InventoryItem is a stocked material costed at a quantity-weighted mean of
// its purchase prices.
type InventoryItem struct {
	ItemID            string           `json:"itemID"`
	Name              string           `json:"name"`
	Unit              string           `json:"unit"` // measurement unit, e.g. "ton", "m3"
	Stock             decimal.Decimal  `json:"stock"`
	AverageCost       decimal.Decimal  `json:"averageCost"`
	LastPurchasePrice *decimal.Decimal `json:"lastPurchasePrice,omitempty"`
	AuditFields
}

// WeightedAverageCost recomputes an item's average cost after a restock:
//
//	(oldStock*oldCost + qty*price) / (oldStock + qty)
//
// A restock with zero combined quantity keeps the old cost.
func WeightedAverageCost(oldStock, oldCost, qty, price decimal.Decimal) decimal.Decimal {
	combined := oldStock.Add(qty)
	if combined.IsZero() {
		return oldCost
	}
	value := oldStock.Mul(oldCost).Add(qty.Mul(price))
	return value.DivRound(combined, 4)
}

// WithdrawalCost picks the unit cost used for an inventory withdrawal: the
// most recent purchase price when any purchase history exists, otherwise the
// current average cost. The second return reports that the average-cost
// fallback was taken (callers log a warning when it is also zero).
func (i *InventoryItem) WithdrawalCost() (decimal.Decimal, bool) {
	if i.LastPurchasePrice != nil {
		return *i.LastPurchasePrice, false
	}
	return i.AverageCost, true
}
