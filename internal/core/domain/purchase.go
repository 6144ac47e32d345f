package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseType selects where an invoice's cost lands: restocking inventory at
// weighted-average cost, or charged directly to a project budget item.
type PurchaseType string

const (
	PurchaseInventory PurchaseType = "INVENTORY"
	PurchaseProject   PurchaseType = "PROJECT"
)

// PurchaseInvoice is a supplier invoice. Recording one always raises the
// supplier's payable by the full total; an optional partial payment then
// lowers it again out of the payment account.
type PurchaseInvoice struct {
	InvoiceID        string          `json:"invoiceID"`
	InvoiceNumber    string          `json:"invoiceNumber"`
	SupplierID       string          `json:"supplierID"`
	PurchaseType     PurchaseType    `json:"purchaseType"`
	ProjectID        *string         `json:"projectID,omitempty"`      // PROJECT purchases only
	BudgetItemID     *string         `json:"budgetItemID,omitempty"`   // PROJECT purchases only
	Total            decimal.Decimal `json:"total"`
	PaidAmount       decimal.Decimal `json:"paidAmount"`
	PaymentAccountID *string         `json:"paymentAccountID,omitempty"`
	InvoiceDate      time.Time       `json:"invoiceDate"`
	Description      string          `json:"description"`
	Lines            []InvoiceLine   `json:"lines,omitempty"`
	AuditFields
}

// InvoiceLine is one purchased item position on an inventory invoice.
type InvoiceLine struct {
	LineID    string          `json:"lineID"`
	InvoiceID string          `json:"invoiceID"`
	ItemID    string          `json:"itemID"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// LinesTotal sums quantity times unit price across all lines.
func (inv *PurchaseInvoice) LinesTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range inv.Lines {
		total = total.Add(l.Quantity.Mul(l.UnitPrice))
	}
	return total
}
