package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/buildra/construction_finance_app/internal/core/domain"
)

// InvoiceLineRequest is one item position on an inventory purchase invoice.
type InvoiceLineRequest struct {
	ItemID    string          `json:"itemID" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"required"`
}

// CreatePurchaseInvoiceRequest defines the payload for recording a supplier
// invoice. PROJECT purchases require projectID and budgetItemID; INVENTORY
// purchases require lines. A positive paidAmount requires paymentAccountID.
type CreatePurchaseInvoiceRequest struct {
	SupplierID       string               `json:"supplierID" binding:"required"`
	PurchaseType     string               `json:"purchaseType" binding:"required,oneof=INVENTORY PROJECT"`
	ProjectID        *string              `json:"projectID,omitempty"`
	BudgetItemID     *string              `json:"budgetItemID,omitempty"`
	Lines            []InvoiceLineRequest `json:"lines,omitempty"`
	Total            decimal.Decimal      `json:"total"`
	PaidAmount       decimal.Decimal      `json:"paidAmount"`
	PaymentAccountID *string              `json:"paymentAccountID,omitempty"`
	InvoiceDate      time.Time            `json:"invoiceDate" binding:"required"`
	Description      string               `json:"description"`
}

// PaySupplierRequest defines the payload for paying down a supplier balance.
type PaySupplierRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Note      string          `json:"note"`
}

// WithdrawToProjectRequest defines the payload for issuing stock to a project.
type WithdrawToProjectRequest struct {
	ItemID       string          `json:"itemID" binding:"required"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	ProjectID    string          `json:"projectID" binding:"required"`
	BudgetItemID string          `json:"budgetItemID" binding:"required"`
}

// InvoiceLineResponse mirrors one stored invoice line.
type InvoiceLineResponse struct {
	ItemID    string          `json:"itemID"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// PurchaseInvoiceResponse defines the data returned for an invoice.
type PurchaseInvoiceResponse struct {
	InvoiceID        string                `json:"invoiceID"`
	InvoiceNumber    string                `json:"invoiceNumber"`
	SupplierID       string                `json:"supplierID"`
	PurchaseType     string                `json:"purchaseType"`
	ProjectID        *string               `json:"projectID,omitempty"`
	BudgetItemID     *string               `json:"budgetItemID,omitempty"`
	Total            decimal.Decimal       `json:"total"`
	PaidAmount       decimal.Decimal       `json:"paidAmount"`
	PaymentAccountID *string               `json:"paymentAccountID,omitempty"`
	InvoiceDate      time.Time             `json:"invoiceDate"`
	Description      string                `json:"description,omitempty"`
	Lines            []InvoiceLineResponse `json:"lines,omitempty"`
}

// ToPurchaseInvoiceResponse converts a domain.PurchaseInvoice to its DTO.
func ToPurchaseInvoiceResponse(inv *domain.PurchaseInvoice) PurchaseInvoiceResponse {
	lines := make([]InvoiceLineResponse, len(inv.Lines))
	for i, l := range inv.Lines {
		lines[i] = InvoiceLineResponse{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	return PurchaseInvoiceResponse{
		InvoiceID:        inv.InvoiceID,
		InvoiceNumber:    inv.InvoiceNumber,
		SupplierID:       inv.SupplierID,
		PurchaseType:     string(inv.PurchaseType),
		ProjectID:        inv.ProjectID,
		BudgetItemID:     inv.BudgetItemID,
		Total:            inv.Total,
		PaidAmount:       inv.PaidAmount,
		PaymentAccountID: inv.PaymentAccountID,
		InvoiceDate:      inv.InvoiceDate,
		Description:      inv.Description,
		Lines:            lines,
	}
}
