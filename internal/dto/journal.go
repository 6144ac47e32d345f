package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/buildra/construction_finance_app/internal/core/domain"
)

// ListEntriesParams holds token-pagination parameters for journal listings.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// JournalEntryResponse defines the data returned for one ledger entry.
type JournalEntryResponse struct {
	EntryID           string          `json:"entryID"`
	EntryDate         time.Time       `json:"entryDate"`
	Description       string          `json:"description"`
	DebitAccountID    *string         `json:"debitAccountID,omitempty"`
	DebitAccountName  string          `json:"debitAccountName"`
	CreditAccountID   *string         `json:"creditAccountID,omitempty"`
	CreditAccountName string          `json:"creditAccountName"`
	Amount            decimal.Decimal `json:"amount"`
}

// ListEntriesResponse is a page of journal entries with a continuation token.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to its DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		EntryID:           e.EntryID,
		EntryDate:         e.EntryDate,
		Description:       e.Description,
		DebitAccountID:    e.DebitAccountID,
		DebitAccountName:  e.DebitAccountName,
		CreditAccountID:   e.CreditAccountID,
		CreditAccountName: e.CreditAccountName,
		Amount:            e.Amount,
	}
}

// ToJournalEntryResponses converts a slice of entries.
func ToJournalEntryResponses(entries []domain.JournalEntry) []JournalEntryResponse {
	out := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		out[i] = ToJournalEntryResponse(&entries[i])
	}
	return out
}
