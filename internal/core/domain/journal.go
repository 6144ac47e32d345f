package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is a dated debit/credit pair recording one financial movement.
// Entries are immutable once written; corrections are made by appending an
// offsetting entry, never by editing in place.
//
// Each side is keyed by account ID where a real treasury account is involved,
// with the display name captured as a snapshot so that renaming an account
// does not orphan history. Synthetic sides (expense categories, accounts
// payable, inventory, capital) carry a name only and a nil account ID.
type JournalEntry struct {
	EntryID           string          `json:"entryID"`
	EntryDate         time.Time       `json:"entryDate"`
	Description       string          `json:"description"`
	DebitAccountID    *string         `json:"debitAccountID,omitempty"`
	DebitAccountName  string          `json:"debitAccountName"`
	CreditAccountID   *string         `json:"creditAccountID,omitempty"`
	CreditAccountName string          `json:"creditAccountName"`
	Amount            decimal.Decimal `json:"amount"` // always > 0
	AuditFields
}

// Well-known synthetic ledger sides. These never correspond to an accounts
// row; they name the non-cash half of a movement.
const (
	LedgerAccountsPayable     = "Accounts payable"
	LedgerInventory           = "Inventory"
	LedgerCapital             = "Capital"
	LedgerSalariesExpense     = "Salaries expense"
	LedgerPartnerDistribution = "Partner profit distribution"
	LedgerCustomerReceivable  = "Customer receivables"
	LedgerProjectPurchases    = "Project purchase expenses"
	LedgerEmployeeAdvances    = "Employee advances"
	LedgerEmployeeCustody     = "Employee custody"
	LedgerEmployeeRewards     = "Employee rewards"
)
