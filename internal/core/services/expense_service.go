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

// expenseService coordinates the expense lifecycle. Each operation applies
// its full effect set (project spend, budget spend, account balance, journal
// entry, document row) inside one ledger transaction.
type expenseService struct {
	ledger      portsrepo.LedgerStore
	expenseRepo portsrepo.ExpenseRepository
	projectRepo portsrepo.ProjectRepository
	auditSvc    portssvc.AuditSvcFacade
}

// NewExpenseService creates a new expense coordinator.
func NewExpenseService(ledger portsrepo.LedgerStore, expenseRepo portsrepo.ExpenseRepository, projectRepo portsrepo.ProjectRepository, auditSvc portssvc.AuditSvcFacade) portssvc.ExpenseSvcFacade {
	return &expenseService{
		ledger:      ledger,
		expenseRepo: expenseRepo,
		projectRepo: projectRepo,
		auditSvc:    auditSvc,
	}
}

var _ portssvc.ExpenseSvcFacade = (*expenseService)(nil)

// RecordExpense validates the linked entities, then atomically raises
// project.Spent and the budget item's SpentAmount, lowers the account
// balance, stores the document and appends the journal entry.
func (s *expenseService) RecordExpense(ctx context.Context, actorID string, req dto.CreateExpenseRequest) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
	}

	project, err := s.projectRepo.FindProjectByID(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project %s: %w", req.ProjectID, err)
	}
	budgetItem, err := s.projectRepo.FindBudgetItem(ctx, req.ProjectID, req.BudgetItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve budget item %s: %w", req.BudgetItemID, err)
	}

	now := time.Now().UTC()
	expense := domain.Expense{
		ExpenseID:    uuid.NewString(),
		ProjectID:    project.ProjectID,
		BudgetItemID: budgetItem.BudgetItemID,
		ExpenseType:  req.ExpenseType,
		AccountID:    req.AccountID,
		Amount:       req.Amount,
		ExpenseDate:  req.ExpenseDate,
		Description:  req.Description,
		AuditFields:  domain.NewAuditFields(actorID, now),
	}

	err = s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		account, err := tx.AccountForUpdate(ctx, req.AccountID)
		if err != nil {
			return fmt.Errorf("failed to lock account %s: %w", req.AccountID, err)
		}
		if !account.CanCover(req.Amount) {
			return fmt.Errorf("%w: account %q holds %s, expense needs %s",
				apperrors.ErrInsufficientFunds, account.Name, account.Balance, req.Amount)
		}

		if err := tx.AdjustAccountBalance(ctx, account.AccountID, req.Amount.Neg()); err != nil {
			return err
		}
		if err := tx.AdjustProjectTotals(ctx, project.ProjectID, domain.ProjectTotalsDelta{Spent: req.Amount}); err != nil {
			return err
		}
		if err := tx.AdjustBudgetSpent(ctx, project.ProjectID, budgetItem.BudgetItemID, req.Amount); err != nil {
			return err
		}
		if err := tx.InsertExpense(ctx, expense); err != nil {
			return err
		}
		accountID := account.AccountID
		return tx.AppendJournalEntry(ctx, domain.JournalEntry{
			EntryID:           uuid.NewString(),
			EntryDate:         req.ExpenseDate,
			Description:       req.Description,
			DebitAccountName:  budgetItem.Name,
			CreditAccountID:   &accountID,
			CreditAccountName: account.Name,
			Amount:            req.Amount,
			AuditFields:       domain.NewAuditFields(actorID, now),
		})
	})
	if err != nil {
		logger.Error("Failed to record expense", slog.String("project_id", req.ProjectID), slog.String("error", err.Error()))
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "create", Entity: "expense", EntityID: expense.ExpenseID,
		Details: map[string]any{"projectID": project.ProjectID, "amount": req.Amount.String()},
	})
	logger.Info("Expense recorded", slog.String("expense_id", expense.ExpenseID), slog.String("amount", req.Amount.String()))
	return &expense, nil
}

// UpdateExpense applies the amount delta to project spend, budget spend and
// the account balance. A raised amount re-checks account sufficiency for the
// delta before any counter moves; a changed budget item reverses the old line
// in full and charges the new one.
func (s *expenseService) UpdateExpense(ctx context.Context, actorID, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	if original.WithdrawalNumber != nil {
		return nil, fmt.Errorf("%w: inventory withdrawals cannot be edited", apperrors.ErrConflict)
	}

	updated := *original
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
		}
		updated.Amount = *req.Amount
	}
	if req.BudgetItemID != nil {
		if _, err := s.projectRepo.FindBudgetItem(ctx, original.ProjectID, *req.BudgetItemID); err != nil {
			return nil, fmt.Errorf("failed to resolve budget item %s: %w", *req.BudgetItemID, err)
		}
		updated.BudgetItemID = *req.BudgetItemID
	}
	if req.ExpenseDate != nil {
		updated.ExpenseDate = *req.ExpenseDate
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}

	delta := updated.Amount.Sub(original.Amount)
	budgetChanged := updated.BudgetItemID != original.BudgetItemID
	now := time.Now().UTC()
	updated.Touch(actorID, now)

	err = s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		if delta.IsPositive() {
			account, err := tx.AccountForUpdate(ctx, original.AccountID)
			if err != nil {
				return fmt.Errorf("failed to lock account %s: %w", original.AccountID, err)
			}
			if !account.CanCover(delta) {
				return fmt.Errorf("%w: account %q holds %s, update needs %s more",
					apperrors.ErrInsufficientFunds, account.Name, account.Balance, delta)
			}
		}

		if !delta.IsZero() {
			// Spending more decreases the balance further; spending
			// less gives it back.
			if err := tx.AdjustAccountBalance(ctx, original.AccountID, delta.Neg()); err != nil {
				return err
			}
			if err := tx.AdjustProjectTotals(ctx, original.ProjectID, domain.ProjectTotalsDelta{Spent: delta}); err != nil {
				return err
			}
		}
		if budgetChanged {
			if err := tx.AdjustBudgetSpent(ctx, original.ProjectID, original.BudgetItemID, original.Amount.Neg()); err != nil {
				return err
			}
			if err := tx.AdjustBudgetSpent(ctx, original.ProjectID, updated.BudgetItemID, updated.Amount); err != nil {
				return err
			}
		} else if !delta.IsZero() {
			if err := tx.AdjustBudgetSpent(ctx, original.ProjectID, original.BudgetItemID, delta); err != nil {
				return err
			}
		}
		return tx.UpdateExpense(ctx, updated)
	})
	if err != nil {
		logger.Error("Failed to update expense", slog.String("expense_id", expenseID), slog.String("error", err.Error()))
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "update", Entity: "expense", EntityID: expenseID,
		Details: map[string]any{"delta": delta.String()},
	})
	logger.Info("Expense updated", slog.String("expense_id", expenseID), slog.String("delta", delta.String()))
	return &updated, nil
}

// DeleteExpense fully reverses the stored amount from project spend, budget
// spend and the account balance, then removes the document. When the stored
// row carries no account ID the treasury reversal is skipped with a warning
// rather than failing the whole reversal.
func (s *expenseService) DeleteExpense(ctx context.Context, actorID, expenseID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}

	err = s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		if err := tx.AdjustProjectTotals(ctx, expense.ProjectID, domain.ProjectTotalsDelta{Spent: expense.Amount.Neg()}); err != nil {
			return err
		}
		if err := tx.AdjustBudgetSpent(ctx, expense.ProjectID, expense.BudgetItemID, expense.Amount.Neg()); err != nil {
			return err
		}
		if expense.AccountID == "" {
			logger.Warn("Expense has no account reference, skipping treasury reversal",
				slog.String("expense_id", expenseID))
		} else {
			if err := tx.AdjustAccountBalance(ctx, expense.AccountID, expense.Amount); err != nil {
				return err
			}
		}
		return tx.DeleteExpense(ctx, expenseID)
	})
	if err != nil {
		logger.Error("Failed to delete expense", slog.String("expense_id", expenseID), slog.String("error", err.Error()))
		return err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: time.Now().UTC(), ActorID: actorID, Action: "delete", Entity: "expense", EntityID: expenseID,
		Details: map[string]any{"amount": expense.Amount.String()},
	})
	logger.Info("Expense deleted", slog.String("expense_id", expenseID))
	return nil
}
