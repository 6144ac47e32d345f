package domain

import "fmt"

// CounterType names one gap-free document number sequence.
type CounterType string

const (
	CounterPurchaseInvoice CounterType = "purchase_invoice"
	CounterWithdrawal      CounterType = "inventory_withdrawal"
)

// counterPrefixes maps a counter to the prefix of its formatted numbers.
var counterPrefixes = map[CounterType]string{
	CounterPurchaseInvoice: "PI",
	CounterWithdrawal:      "WD",
}

// FormatDocumentNumber renders a committed sequence value as the visible
// document number, e.g. PI-0042.
func FormatDocumentNumber(counter CounterType, value int64) string {
	prefix, ok := counterPrefixes[counter]
	if !ok {
		prefix = string(counter)
	}
	return fmt.Sprintf("%s-%04d", prefix, value)
}
