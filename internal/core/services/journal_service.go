package services

import (
	"context"

	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/dto"
)

const defaultJournalPageSize = 20

// journalService serves read-only views of the append-only ledger.
type journalService struct {
	journalRepo portsrepo.JournalRepository
}

// NewJournalService creates a new journal read service.
func NewJournalService(journalRepo portsrepo.JournalRepository) portssvc.JournalSvcFacade {
	return &journalService{journalRepo: journalRepo}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

func (s *journalService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := normalizePageSize(params.Limit)
	entries, nextToken, err := s.journalRepo.ListEntries(ctx, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListEntriesResponse{
		Entries:   dto.ToJournalEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

func (s *journalService) ListEntriesByAccount(ctx context.Context, accountID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	limit := normalizePageSize(params.Limit)
	entries, nextToken, err := s.journalRepo.ListEntriesByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListEntriesResponse{
		Entries:   dto.ToJournalEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

func normalizePageSize(limit int) int {
	if limit <= 0 || limit > 100 {
		return defaultJournalPageSize
	}
	return limit
}
