package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buildra/construction_finance_app/internal/apperrors"
	"github.com/buildra/construction_finance_app/internal/core/domain"
	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/dto"
	"github.com/buildra/construction_finance_app/internal/middleware"
)

// partnerService coordinates partner funding and profit distribution.
type partnerService struct {
	ledger      portsrepo.LedgerStore
	projectRepo portsrepo.ProjectRepository
	auditSvc    portssvc.AuditSvcFacade
}

// NewPartnerService creates a new partner coordinator.
func NewPartnerService(ledger portsrepo.LedgerStore, projectRepo portsrepo.ProjectRepository, auditSvc portssvc.AuditSvcFacade) portssvc.PartnerSvcFacade {
	return &partnerService{ledger: ledger, projectRepo: projectRepo, auditSvc: auditSvc}
}

var _ portssvc.PartnerSvcFacade = (*partnerService)(nil)

// UpdatePartners replaces a project's partner map. Investment increases move
// money into the project fund: from the funding source account when one is
// given (internal transfer), otherwise as an external capital injection.
// Investment decreases only rewrite the stored map; they trigger no fund
// movement.
func (s *partnerService) UpdatePartners(ctx context.Context, actorID, projectID string, req dto.UpdatePartnersRequest) ([]domain.ProjectPartner, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project %s: %w", projectID, err)
	}
	existing, err := s.projectRepo.ListPartners(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners for project %s: %w", projectID, err)
	}
	previousInvestment := make(map[string]decimal.Decimal, len(existing))
	for _, p := range existing {
		previousInvestment[p.PartnerID] = p.TotalInvestment
	}

	now := time.Now().UTC()
	totalIncrease := decimal.Zero
	partners := make([]domain.ProjectPartner, len(req.Partners))
	for i, in := range req.Partners {
		if in.TotalInvestment.IsNegative() {
			return nil, fmt.Errorf("%w: partner investment must not be negative", apperrors.ErrValidation)
		}
		partnerID := in.PartnerID
		if partnerID == "" {
			partnerID = uuid.NewString()
		}
		partners[i] = domain.ProjectPartner{
			PartnerID:       partnerID,
			ProjectID:       projectID,
			Name:            in.Name,
			SharePercent:    in.SharePercent,
			TotalInvestment: in.TotalInvestment,
			AuditFields:     domain.NewAuditFields(actorID, now),
		}
		if increase := in.TotalInvestment.Sub(previousInvestment[partnerID]); increase.IsPositive() {
			totalIncrease = totalIncrease.Add(increase)
		}
	}

	err = s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		if totalIncrease.IsPositive() {
			fundID := project.FundAccountID
			entry := domain.JournalEntry{
				EntryID:          uuid.NewString(),
				EntryDate:        now,
				Description:      fmt.Sprintf("Partner funding for project %s", project.Name),
				DebitAccountID:   &fundID,
				DebitAccountName: project.Name + " fund",
				Amount:           totalIncrease,
				AuditFields:      domain.NewAuditFields(actorID, now),
			}
			if req.FundingSourceAccountID != nil {
				source, err := tx.AccountForUpdate(ctx, *req.FundingSourceAccountID)
				if err != nil {
					return fmt.Errorf("failed to lock funding source account: %w", err)
				}
				if !source.CanCover(totalIncrease) {
					return fmt.Errorf("%w: account %q holds %s, funding needs %s",
						apperrors.ErrInsufficientFunds, source.Name, source.Balance, totalIncrease)
				}
				if err := tx.AdjustAccountBalance(ctx, source.AccountID, totalIncrease.Neg()); err != nil {
					return err
				}
				sourceID := source.AccountID
				entry.CreditAccountID = &sourceID
				entry.CreditAccountName = source.Name
			} else {
				entry.CreditAccountName = domain.LedgerCapital
			}
			if err := tx.AdjustAccountBalance(ctx, project.FundAccountID, totalIncrease); err != nil {
				return err
			}
			if err := tx.AdjustProjectTotals(ctx, projectID, domain.ProjectTotalsDelta{CollectedFromPartners: totalIncrease}); err != nil {
				return err
			}
			if err := tx.AppendJournalEntry(ctx, entry); err != nil {
				return err
			}
		}
		// The stored map is always overwritten, funded or not.
		return tx.ReplaceProjectPartners(ctx, projectID, partners)
	})
	if err != nil {
		logger.Error("Failed to update partners", slog.String("project_id", projectID), slog.String("error", err.Error()))
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "update", Entity: "project_partners", EntityID: projectID,
		Details: map[string]any{"fundingIncrease": totalIncrease.String(), "partnerCount": len(partners)},
	})
	logger.Info("Project partners updated",
		slog.String("project_id", projectID),
		slog.String("funding_increase", totalIncrease.String()))
	return partners, nil
}

// PayPartnerProfit distributes profit out of the project fund. The amount
// must not exceed the projected profit (collected sales minus spend) nor the
// fund balance; the payout reduces recognized distributable profit.
func (s *partnerService) PayPartnerProfit(ctx context.Context, actorID, projectID string, req dto.PayPartnerProfitRequest) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: profit amount must be positive", apperrors.ErrValidation)
	}
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to resolve project %s: %w", projectID, err)
	}
	if req.Amount.GreaterThan(project.ProjectedProfit()) {
		return fmt.Errorf("%w: amount %s exceeds projected profit %s",
			apperrors.ErrValidation, req.Amount, project.ProjectedProfit())
	}

	now := time.Now().UTC()
	err = s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		fund, err := tx.AccountForUpdate(ctx, project.FundAccountID)
		if err != nil {
			return fmt.Errorf("failed to lock project fund: %w", err)
		}
		if !fund.CanCover(req.Amount) {
			return fmt.Errorf("%w: project fund holds %s, payout needs %s",
				apperrors.ErrInsufficientFunds, fund.Balance, req.Amount)
		}
		if err := tx.AdjustAccountBalance(ctx, fund.AccountID, req.Amount.Neg()); err != nil {
			return err
		}
		if err := tx.AdjustProjectTotals(ctx, projectID, domain.ProjectTotalsDelta{CollectedFromSales: req.Amount.Neg()}); err != nil {
			return err
		}
		fundID := fund.AccountID
		return tx.AppendJournalEntry(ctx, domain.JournalEntry{
			EntryID:           uuid.NewString(),
			EntryDate:         now,
			Description:       fmt.Sprintf("Profit distribution for project %s", project.Name),
			DebitAccountName:  domain.LedgerPartnerDistribution,
			CreditAccountID:   &fundID,
			CreditAccountName: fund.Name,
			Amount:            req.Amount,
			AuditFields:       domain.NewAuditFields(actorID, now),
		})
	})
	if err != nil {
		logger.Error("Failed to pay partner profit", slog.String("project_id", projectID), slog.String("error", err.Error()))
		return err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "pay_profit", Entity: "project", EntityID: projectID,
		Details: map[string]any{"partnerID": req.PartnerID, "amount": req.Amount.String()},
	})
	logger.Info("Partner profit paid", slog.String("project_id", projectID), slog.String("amount", req.Amount.String()))
	return nil
}
