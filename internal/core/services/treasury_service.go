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

// treasuryService coordinates account-level money movements: account
// creation with opening balances, inter-account transfers and salary
// batches.
type treasuryService struct {
	ledger    portsrepo.LedgerStore
	partyRepo portsrepo.PartyRepository
	auditSvc  portssvc.AuditSvcFacade
}

// NewTreasuryService creates a new treasury coordinator.
func NewTreasuryService(ledger portsrepo.LedgerStore, partyRepo portsrepo.PartyRepository, auditSvc portssvc.AuditSvcFacade) portssvc.TreasurySvcFacade {
	return &treasuryService{ledger: ledger, partyRepo: partyRepo, auditSvc: auditSvc}
}

var _ portssvc.TreasurySvcFacade = (*treasuryService)(nil)

// CreateAccount opens a treasury account. A positive opening balance is an
// external capital injection and gets its own journal entry.
func (s *treasuryService) CreateAccount(ctx context.Context, actorID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Name:        req.Name,
		Kind:        domain.AccountKind(req.Kind),
		Balance:     req.OpeningBalance,
		Description: req.Description,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(actorID, now),
	}

	err := s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		if err := tx.InsertAccount(ctx, account); err != nil {
			return err
		}
		if req.OpeningBalance.IsPositive() {
			accountID := account.AccountID
			return tx.AppendJournalEntry(ctx, domain.JournalEntry{
				EntryID:           uuid.NewString(),
				EntryDate:         now,
				Description:       fmt.Sprintf("Opening balance for %s", account.Name),
				DebitAccountID:    &accountID,
				DebitAccountName:  account.Name,
				CreditAccountName: domain.LedgerCapital,
				Amount:            req.OpeningBalance,
				AuditFields:       domain.NewAuditFields(actorID, now),
			})
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to create account", slog.String("name", req.Name), slog.String("error", err.Error()))
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "create", Entity: "account", EntityID: account.AccountID,
		Details: map[string]any{"name": account.Name, "openingBalance": req.OpeningBalance.String()},
	})
	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("name", account.Name))
	return &account, nil
}

// Transfer moves money between two accounts. The source is locked and
// checked for sufficiency before either balance moves.
func (s *treasuryService) Transfer(ctx context.Context, actorID string, req dto.TransferRequest) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}
	if req.FromAccountID == req.ToAccountID {
		return fmt.Errorf("%w: source and destination accounts must differ", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	err := s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		// Locks are taken in account ID order so concurrent opposite-direction
		// transfers cannot deadlock on each other's rows.
		firstID, secondID := req.FromAccountID, req.ToAccountID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}
		first, err := tx.AccountForUpdate(ctx, firstID)
		if err != nil {
			return fmt.Errorf("failed to lock account %s: %w", firstID, err)
		}
		second, err := tx.AccountForUpdate(ctx, secondID)
		if err != nil {
			return fmt.Errorf("failed to lock account %s: %w", secondID, err)
		}
		from, to := first, second
		if from.AccountID != req.FromAccountID {
			from, to = to, from
		}
		if !from.CanCover(req.Amount) {
			return fmt.Errorf("%w: account %q holds %s, transfer needs %s",
				apperrors.ErrInsufficientFunds, from.Name, from.Balance, req.Amount)
		}
		if err := tx.AdjustAccountBalance(ctx, from.AccountID, req.Amount.Neg()); err != nil {
			return err
		}
		if err := tx.AdjustAccountBalance(ctx, to.AccountID, req.Amount); err != nil {
			return err
		}
		fromID, toID := from.AccountID, to.AccountID
		return tx.AppendJournalEntry(ctx, domain.JournalEntry{
			EntryID:           uuid.NewString(),
			EntryDate:         now,
			Description:       req.Note,
			DebitAccountID:    &toID,
			DebitAccountName:  to.Name,
			CreditAccountID:   &fromID,
			CreditAccountName: from.Name,
			Amount:            req.Amount,
			AuditFields:       domain.NewAuditFields(actorID, now),
		})
	})
	if err != nil {
		logger.Error("Failed to transfer", slog.String("from", req.FromAccountID), slog.String("to", req.ToAccountID), slog.String("error", err.Error()))
		return err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "transfer", Entity: "account", EntityID: req.FromAccountID,
		Details: map[string]any{"to": req.ToAccountID, "amount": req.Amount.String()},
	})
	logger.Info("Transfer completed", slog.String("amount", req.Amount.String()))
	return nil
}

// PaySalaries pays a salary batch out of one account. The whole batch total
// is gated on the account balance before any row is written; one journal
// entry covers the batch. Returns the total paid.
func (s *treasuryService) PaySalaries(ctx context.Context, actorID string, req dto.PaySalariesRequest) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	employeeIDs := make([]string, len(req.Items))
	total := decimal.Zero
	for i, item := range req.Items {
		if item.Amount.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, fmt.Errorf("%w: salary amount must be positive for employee %s", apperrors.ErrValidation, item.EmployeeID)
		}
		employeeIDs[i] = item.EmployeeID
		total = total.Add(item.Amount)
	}
	employees, err := s.partyRepo.FindEmployeesByIDs(ctx, employeeIDs)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to resolve employees: %w", err)
	}
	for _, id := range employeeIDs {
		if _, ok := employees[id]; !ok {
			return decimal.Zero, fmt.Errorf("%w: employee %s", apperrors.ErrNotFound, id)
		}
	}

	now := time.Now().UTC()
	err = s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		account, err := tx.AccountForUpdate(ctx, req.AccountID)
		if err != nil {
			return fmt.Errorf("failed to lock account %s: %w", req.AccountID, err)
		}
		if !account.CanCover(total) {
			return fmt.Errorf("%w: account %q holds %s, salary batch needs %s",
				apperrors.ErrInsufficientFunds, account.Name, account.Balance, total)
		}
		if err := tx.AdjustAccountBalance(ctx, account.AccountID, total.Neg()); err != nil {
			return err
		}
		rows := make([]domain.SalaryPayment, len(req.Items))
		for i, item := range req.Items {
			rows[i] = domain.SalaryPayment{
				PaymentID:   uuid.NewString(),
				EmployeeID:  item.EmployeeID,
				AccountID:   account.AccountID,
				Amount:      item.Amount,
				PayMonth:    req.PayMonth,
				PaidAt:      now,
				AuditFields: domain.NewAuditFields(actorID, now),
			}
		}
		if err := tx.InsertSalaryPayments(ctx, rows); err != nil {
			return err
		}
		accountID := account.AccountID
		return tx.AppendJournalEntry(ctx, domain.JournalEntry{
			EntryID:           uuid.NewString(),
			EntryDate:         now,
			Description:       fmt.Sprintf("Salaries for %s (%d employees)", req.PayMonth, len(req.Items)),
			DebitAccountName:  domain.LedgerSalariesExpense,
			CreditAccountID:   &accountID,
			CreditAccountName: account.Name,
			Amount:            total,
			AuditFields:       domain.NewAuditFields(actorID, now),
		})
	})
	if err != nil {
		logger.Error("Failed to pay salaries", slog.String("pay_month", req.PayMonth), slog.String("error", err.Error()))
		return decimal.Zero, err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "pay_salaries", Entity: "account", EntityID: req.AccountID,
		Details: map[string]any{"payMonth": req.PayMonth, "total": total.String(), "employees": len(req.Items)},
	})
	logger.Info("Salaries paid", slog.String("pay_month", req.PayMonth), slog.String("total", total.String()))
	return total, nil
}

// employeeLedgerSides names the synthetic journal side for each sub-balance.
var employeeLedgerSides = map[domain.EmployeeBalanceField]string{
	domain.EmployeeAdvance: domain.LedgerEmployeeAdvances,
	domain.EmployeeCustody: domain.LedgerEmployeeCustody,
	domain.EmployeeReward:  domain.LedgerEmployeeRewards,
}

// PayEmployee disburses cash from a treasury account to an employee against
// one of the three sub-balances. An ADVANCE or CUSTODY payout raises the
// employee's balance (money they now hold or owe back); a REWARD payout
// settles accrued reward and must not exceed it.
func (s *treasuryService) PayEmployee(ctx context.Context, actorID, employeeID string, req dto.PayEmployeeRequest) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	field := domain.EmployeeBalanceField(req.Field)
	side, ok := employeeLedgerSides[field]
	if !ok {
		return fmt.Errorf("%w: unknown balance field %q", apperrors.ErrValidation, req.Field)
	}
	employee, err := s.partyRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to resolve employee %s: %w", employeeID, err)
	}
	if field == domain.EmployeeReward && req.Amount.GreaterThan(employee.RewardBalance) {
		return fmt.Errorf("%w: employee %q has %s accrued reward, payout needs %s",
			apperrors.ErrValidation, employee.Name, employee.RewardBalance, req.Amount)
	}

	balanceDelta := req.Amount
	if field == domain.EmployeeReward {
		balanceDelta = req.Amount.Neg()
	}

	now := time.Now().UTC()
	err = s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		account, err := tx.AccountForUpdate(ctx, req.AccountID)
		if err != nil {
			return fmt.Errorf("failed to lock account %s: %w", req.AccountID, err)
		}
		if !account.CanCover(req.Amount) {
			return fmt.Errorf("%w: account %q holds %s, payment needs %s",
				apperrors.ErrInsufficientFunds, account.Name, account.Balance, req.Amount)
		}
		if err := tx.AdjustAccountBalance(ctx, account.AccountID, req.Amount.Neg()); err != nil {
			return err
		}
		if err := tx.AdjustEmployeeBalance(ctx, employee.EmployeeID, field, balanceDelta); err != nil {
			return err
		}
		accountID := account.AccountID
		return tx.AppendJournalEntry(ctx, domain.JournalEntry{
			EntryID:           uuid.NewString(),
			EntryDate:         now,
			Description:       fmt.Sprintf("%s payment to %s", side, employee.Name),
			DebitAccountName:  side,
			CreditAccountID:   &accountID,
			CreditAccountName: account.Name,
			Amount:            req.Amount,
			AuditFields:       domain.NewAuditFields(actorID, now),
		})
	})
	if err != nil {
		logger.Error("Failed to pay employee", slog.String("employee_id", employeeID), slog.String("error", err.Error()))
		return err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "pay", Entity: "employee", EntityID: employeeID,
		Details: map[string]any{"field": req.Field, "amount": req.Amount.String()},
	})
	logger.Info("Employee paid",
		slog.String("employee_id", employeeID),
		slog.String("field", req.Field),
		slog.String("amount", req.Amount.String()))
	return nil
}

// GrantEmployeeReward accrues reward for an employee without moving cash.
// The accrual is recognized as salary expense; the payout happens later
// through PayEmployee with the REWARD field.
func (s *treasuryService) GrantEmployeeReward(ctx context.Context, actorID, employeeID string, req dto.GrantRewardRequest) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: reward amount must be positive", apperrors.ErrValidation)
	}
	employee, err := s.partyRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to resolve employee %s: %w", employeeID, err)
	}

	now := time.Now().UTC()
	err = s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		if err := tx.AdjustEmployeeBalance(ctx, employee.EmployeeID, domain.EmployeeReward, req.Amount); err != nil {
			return err
		}
		description := fmt.Sprintf("Reward for %s", employee.Name)
		if req.Reason != "" {
			description = fmt.Sprintf("Reward for %s: %s", employee.Name, req.Reason)
		}
		return tx.AppendJournalEntry(ctx, domain.JournalEntry{
			EntryID:           uuid.NewString(),
			EntryDate:         now,
			Description:       description,
			DebitAccountName:  domain.LedgerSalariesExpense,
			CreditAccountName: domain.LedgerEmployeeRewards,
			Amount:            req.Amount,
			AuditFields:       domain.NewAuditFields(actorID, now),
		})
	})
	if err != nil {
		logger.Error("Failed to grant reward", slog.String("employee_id", employeeID), slog.String("error", err.Error()))
		return err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "grant_reward", Entity: "employee", EntityID: employeeID,
		Details: map[string]any{"amount": req.Amount.String()},
	})
	logger.Info("Reward granted", slog.String("employee_id", employeeID), slog.String("amount", req.Amount.String()))
	return nil
}
