package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildra/construction_finance_app/internal/core/domain"
	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
	"github.com/buildra/construction_finance_app/internal/core/services"
	"github.com/buildra/construction_finance_app/internal/dto"
)

// recordingJournalRepo captures the limit the service resolves before the
// repository call.
type recordingJournalRepo struct {
	lastLimit int
	entries   []domain.JournalEntry
	nextToken *string
}

var _ portsrepo.JournalRepository = (*recordingJournalRepo)(nil)

func (r *recordingJournalRepo) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return &r.entries[0], nil
}

func (r *recordingJournalRepo) ListEntries(ctx context.Context, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	r.lastLimit = limit
	return r.entries, r.nextToken, nil
}

func (r *recordingJournalRepo) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	r.lastLimit = limit
	return r.entries, r.nextToken, nil
}

func TestJournalService_PageSizeNormalization(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{name: "zero falls back to default", requested: 0, want: 20},
		{name: "negative falls back to default", requested: -5, want: 20},
		{name: "within range passes through", requested: 50, want: 50},
		{name: "above cap falls back to default", requested: 500, want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &recordingJournalRepo{}
			svc := services.NewJournalService(repo)

			_, err := svc.ListEntries(context.Background(), dto.ListEntriesParams{Limit: tt.requested})
			require.NoError(t, err)
			assert.Equal(t, tt.want, repo.lastLimit)
		})
	}
}

func TestJournalService_ListEntriesPassesTokenThrough(t *testing.T) {
	token := "2026-04-01T00:00:00Z|entry-5"
	repo := &recordingJournalRepo{
		entries: []domain.JournalEntry{{
			EntryID:           "entry-1",
			EntryDate:         time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
			Description:       "Office rent",
			DebitAccountName:  "Rent expense",
			CreditAccountName: "Main safe",
			Amount:            decimal.NewFromInt(1200),
		}},
		nextToken: &token,
	}
	svc := services.NewJournalService(repo)

	resp, err := svc.ListEntriesByAccount(context.Background(), "acc-1", dto.ListEntriesParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "entry-1", resp.Entries[0].EntryID)
	require.NotNil(t, resp.NextToken)
	assert.Equal(t, token, *resp.NextToken)
}
