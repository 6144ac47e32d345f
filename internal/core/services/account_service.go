package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/buildra/construction_finance_app/internal/apperrors"
	"github.com/buildra/construction_finance_app/internal/core/domain"
	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/dto"
	"github.com/buildra/construction_finance_app/internal/middleware"
)

// accountService serves account reads and non-monetary maintenance. Anything
// that moves a balance goes through the treasury coordinator instead.
type accountService struct {
	accountRepo portsrepo.AccountRepository
	auditSvc    portssvc.AuditSvcFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepository, auditSvc portssvc.AuditSvcFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo, auditSvc: auditSvc}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

func (s *accountService) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.accountRepo.ListAccounts(ctx, limit, offset)
}

func (s *accountService) UpdateAccount(ctx context.Context, actorID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	account.Touch(actorID, time.Now().UTC())

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		ActorID: actorID, Action: "update", Entity: "account", EntityID: accountID,
		Details: map[string]any{"name": account.Name},
	})
	return account, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, actorID, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.Balance.IsZero() {
		return fmt.Errorf("%w: account %q still holds %s, empty it before deactivating",
			apperrors.ErrConflict, account.Name, account.Balance)
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, actorID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return err
	}
	s.auditSvc.Record(ctx, domain.AuditRecord{
		ActorID: actorID, Action: "deactivate", Entity: "account", EntityID: accountID,
	})
	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}
