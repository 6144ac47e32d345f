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

// salesService coordinates the unit sale state machine: bookings, direct
// sales, sale confirmation, cancellation and installment collection.
type salesService struct {
	ledger          portsrepo.LedgerStore
	projectRepo     portsrepo.ProjectRepository
	partyRepo       portsrepo.PartyRepository
	installmentRepo portsrepo.InstallmentRepository
	auditSvc        portssvc.AuditSvcFacade
}

// NewSalesService creates a new sales coordinator.
func NewSalesService(ledger portsrepo.LedgerStore, projectRepo portsrepo.ProjectRepository, partyRepo portsrepo.PartyRepository, installmentRepo portsrepo.InstallmentRepository, auditSvc portssvc.AuditSvcFacade) portssvc.SalesSvcFacade {
	return &salesService{
		ledger:          ledger,
		projectRepo:     projectRepo,
		partyRepo:       partyRepo,
		installmentRepo: installmentRepo,
		auditSvc:        auditSvc,
	}
}

var _ portssvc.SalesSvcFacade = (*salesService)(nil)

// BookUnit moves an available unit to BOOKED or SOLD. Any paid amount is
// deposited into the project fund and counted as collected sales; the
// remaining balance becomes a customer receivable with a monthly installment
// schedule whose last row absorbs the rounding remainder.
func (s *salesService) BookUnit(ctx context.Context, actorID, projectID, unitID string, req dto.BookUnitRequest) (*domain.Unit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	target := domain.UnitStatus(req.Status)
	if target != domain.UnitBooked && target != domain.UnitSold {
		return nil, fmt.Errorf("%w: target status must be BOOKED or SOLD", apperrors.ErrValidation)
	}
	if err := domain.ValidateSaleTerms(req.ActualPrice, req.PaidAmount, req.InstallmentCount); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project %s: %w", projectID, err)
	}
	unit, err := s.projectRepo.FindUnit(ctx, projectID, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve unit %s: %w", unitID, err)
	}
	if !unit.CanTransition(target) {
		return nil, fmt.Errorf("%w: unit is %s, cannot move to %s", apperrors.ErrConflict, unit.Status, target)
	}
	customer, err := s.partyRepo.FindCustomerByID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer %s: %w", req.CustomerID, err)
	}

	now := time.Now().UTC()
	price := req.ActualPrice
	customerID := customer.CustomerID
	remaining := price.Sub(req.PaidAmount)

	unit.Status = target
	unit.ActualPrice = &price
	unit.CustomerID = &customerID
	unit.PaidAmount = req.PaidAmount
	unit.InstallmentCount = req.InstallmentCount
	if target == domain.UnitSold {
		saleDate := req.Date
		unit.SaleDate = &saleDate
	} else {
		bookingDate := req.Date
		unit.BookingDate = &bookingDate
	}
	unit.Touch(actorID, now)

	err = s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		if err := tx.UpdateUnitSale(ctx, *unit); err != nil {
			return err
		}
		if req.PaidAmount.IsPositive() {
			if err := tx.AdjustAccountBalance(ctx, project.FundAccountID, req.PaidAmount); err != nil {
				return err
			}
			if err := tx.AdjustProjectTotals(ctx, project.ProjectID, domain.ProjectTotalsDelta{CollectedFromSales: req.PaidAmount}); err != nil {
				return err
			}
			fundID := project.FundAccountID
			if err := tx.AppendJournalEntry(ctx, domain.JournalEntry{
				EntryID:           uuid.NewString(),
				EntryDate:         req.Date,
				Description:       fmt.Sprintf("Down payment for unit %s by %s", unit.Code, customer.Name),
				DebitAccountID:    &fundID,
				DebitAccountName:  project.Name + " fund",
				CreditAccountName: domain.LedgerCustomerReceivable,
				Amount:            req.PaidAmount,
				AuditFields:       domain.NewAuditFields(actorID, now),
			}); err != nil {
				return err
			}
		}
		if remaining.IsPositive() {
			if err := tx.AdjustCustomerBalance(ctx, customer.CustomerID, remaining); err != nil {
				return err
			}
			amounts, dueDates, err := domain.BuildInstallmentSchedule(remaining, req.InstallmentCount, req.Date.AddDate(0, 1, 0))
			if err != nil {
				return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
			}
			rows := make([]domain.Installment, len(amounts))
			for i := range amounts {
				rows[i] = domain.Installment{
					InstallmentID: uuid.NewString(),
					ProjectID:     project.ProjectID,
					UnitID:        unit.UnitID,
					CustomerID:    customer.CustomerID,
					Sequence:      i + 1,
					DueDate:       dueDates[i],
					Amount:        amounts[i],
					Status:        domain.InstallmentPending,
					AuditFields:   domain.NewAuditFields(actorID, now),
				}
			}
			if err := tx.InsertInstallments(ctx, rows); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to book unit", slog.String("unit_id", unitID), slog.String("error", err.Error()))
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "book", Entity: "unit", EntityID: unitID,
		Details: map[string]any{"status": string(target), "price": price.String(), "paid": req.PaidAmount.String()},
	})
	logger.Info("Unit booked", slog.String("unit_id", unitID), slog.String("status", string(target)))
	return unit, nil
}

// ConfirmSale finalizes a booked unit. No money moves; only the status and
// sale date change.
func (s *salesService) ConfirmSale(ctx context.Context, actorID, projectID, unitID string) (*domain.Unit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	unit, err := s.projectRepo.FindUnit(ctx, projectID, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve unit %s: %w", unitID, err)
	}
	if !unit.CanTransition(domain.UnitSold) || unit.Status != domain.UnitBooked {
		return nil, fmt.Errorf("%w: unit is %s, only booked units can be confirmed", apperrors.ErrConflict, unit.Status)
	}

	now := time.Now().UTC()
	unit.Status = domain.UnitSold
	unit.SaleDate = &now
	unit.Touch(actorID, now)

	err = s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		return tx.UpdateUnitSale(ctx, *unit)
	})
	if err != nil {
		logger.Error("Failed to confirm sale", slog.String("unit_id", unitID), slog.String("error", err.Error()))
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "confirm_sale", Entity: "unit", EntityID: unitID,
	})
	logger.Info("Sale confirmed", slog.String("unit_id", unitID))
	return unit, nil
}

// CancelBooking returns a booked unit to AVAILABLE, reversing the deposit out
// of the project fund, zeroing the customer's receivable for the unit and
// deleting the generated installment schedule.
func (s *salesService) CancelBooking(ctx context.Context, actorID, projectID, unitID string) (*domain.Unit, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project %s: %w", projectID, err)
	}
	unit, err := s.projectRepo.FindUnit(ctx, projectID, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve unit %s: %w", unitID, err)
	}
	if unit.Status != domain.UnitBooked {
		return nil, fmt.Errorf("%w: unit is %s, only booked units can be cancelled", apperrors.ErrConflict, unit.Status)
	}

	paid := unit.PaidAmount
	var remaining decimal.Decimal
	if unit.ActualPrice != nil {
		remaining = unit.ActualPrice.Sub(paid)
	}
	customerID := unit.CustomerID

	now := time.Now().UTC()
	cancelled := *unit
	cancelled.ClearSaleFields()
	cancelled.Touch(actorID, now)

	err = s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		if paid.IsPositive() {
			fund, err := tx.AccountForUpdate(ctx, project.FundAccountID)
			if err != nil {
				return fmt.Errorf("failed to lock project fund: %w", err)
			}
			if !fund.CanCover(paid) {
				return fmt.Errorf("%w: project fund holds %s, refund needs %s",
					apperrors.ErrInsufficientFunds, fund.Balance, paid)
			}
			if err := tx.AdjustAccountBalance(ctx, fund.AccountID, paid.Neg()); err != nil {
				return err
			}
			if err := tx.AdjustProjectTotals(ctx, project.ProjectID, domain.ProjectTotalsDelta{CollectedFromSales: paid.Neg()}); err != nil {
				return err
			}
			fundID := fund.AccountID
			if err := tx.AppendJournalEntry(ctx, domain.JournalEntry{
				EntryID:           uuid.NewString(),
				EntryDate:         now,
				Description:       fmt.Sprintf("Booking cancelled for unit %s", unit.Code),
				DebitAccountName:  domain.LedgerCustomerReceivable,
				CreditAccountID:   &fundID,
				CreditAccountName: fund.Name,
				Amount:            paid,
				AuditFields:       domain.NewAuditFields(actorID, now),
			}); err != nil {
				return err
			}
		}
		if customerID != nil && remaining.IsPositive() {
			if err := tx.AdjustCustomerBalance(ctx, *customerID, remaining.Neg()); err != nil {
				return err
			}
		}
		if err := tx.DeleteInstallmentsByUnit(ctx, unit.UnitID); err != nil {
			return err
		}
		return tx.UpdateUnitSale(ctx, cancelled)
	})
	if err != nil {
		logger.Error("Failed to cancel booking", slog.String("unit_id", unitID), slog.String("error", err.Error()))
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "cancel_booking", Entity: "unit", EntityID: unitID,
		Details: map[string]any{"refunded": paid.String()},
	})
	logger.Info("Booking cancelled", slog.String("unit_id", unitID))
	return &cancelled, nil
}

// CollectInstallment deposits one pending installment into a treasury
// account, lowers the customer's receivable and counts the amount as
// collected sales for the project.
func (s *salesService) CollectInstallment(ctx context.Context, actorID, installmentID string, req dto.CollectInstallmentRequest) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	installment, err := s.installmentRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		return fmt.Errorf("failed to find installment %s: %w", installmentID, err)
	}
	if installment.Status != domain.InstallmentPending {
		return fmt.Errorf("%w: installment is already %s", apperrors.ErrConflict, installment.Status)
	}
	customer, err := s.partyRepo.FindCustomerByID(ctx, installment.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to resolve customer %s: %w", installment.CustomerID, err)
	}

	now := time.Now().UTC()
	err = s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		account, err := tx.AccountForUpdate(ctx, req.AccountID)
		if err != nil {
			return fmt.Errorf("failed to lock account %s: %w", req.AccountID, err)
		}
		if err := tx.AdjustAccountBalance(ctx, account.AccountID, installment.Amount); err != nil {
			return err
		}
		if err := tx.AdjustCustomerBalance(ctx, customer.CustomerID, installment.Amount.Neg()); err != nil {
			return err
		}
		if err := tx.AdjustProjectTotals(ctx, installment.ProjectID, domain.ProjectTotalsDelta{CollectedFromSales: installment.Amount}); err != nil {
			return err
		}
		if err := tx.MarkInstallmentPaid(ctx, installment.InstallmentID, account.AccountID, actorID, now); err != nil {
			return err
		}
		accountID := account.AccountID
		return tx.AppendJournalEntry(ctx, domain.JournalEntry{
			EntryID:           uuid.NewString(),
			EntryDate:         now,
			Description:       fmt.Sprintf("Installment %d collected from %s", installment.Sequence, customer.Name),
			DebitAccountID:    &accountID,
			DebitAccountName:  account.Name,
			CreditAccountName: domain.LedgerCustomerReceivable,
			Amount:            installment.Amount,
			AuditFields:       domain.NewAuditFields(actorID, now),
		})
	})
	if err != nil {
		logger.Error("Failed to collect installment", slog.String("installment_id", installmentID), slog.String("error", err.Error()))
		return err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "collect", Entity: "installment", EntityID: installmentID,
		Details: map[string]any{"amount": installment.Amount.String()},
	})
	logger.Info("Installment collected", slog.String("installment_id", installmentID))
	return nil
}
