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

// inventoryService coordinates stock withdrawals to projects and manages the
// item catalogue.
type inventoryService struct {
	ledger       portsrepo.LedgerStore
	projectRepo  portsrepo.ProjectRepository
	purchaseRepo portsrepo.PurchaseRepository
	auditSvc     portssvc.AuditSvcFacade
}

// NewInventoryService creates a new inventory coordinator.
func NewInventoryService(ledger portsrepo.LedgerStore, projectRepo portsrepo.ProjectRepository, purchaseRepo portsrepo.PurchaseRepository, auditSvc portssvc.AuditSvcFacade) portssvc.InventorySvcFacade {
	return &inventoryService{ledger: ledger, projectRepo: projectRepo, purchaseRepo: purchaseRepo, auditSvc: auditSvc}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// WithdrawToProject issues stock to a project as a synthetic expense tagged
// with a generated withdrawal number. The unit cost is the most recent
// purchase price when one exists, otherwise the current average cost (which
// may be zero; logged as a warning, not an error).
func (s *inventoryService) WithdrawToProject(ctx context.Context, actorID string, req dto.WithdrawToProjectRequest) (*domain.Expense, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: withdrawal quantity must be positive", apperrors.ErrValidation)
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
	var expense domain.Expense

	err = s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		item, err := tx.ItemForUpdate(ctx, req.ItemID)
		if err != nil {
			return fmt.Errorf("failed to lock inventory item %s: %w", req.ItemID, err)
		}
		if item.Stock.LessThan(req.Quantity) {
			return fmt.Errorf("%w: item %q has %s in stock, withdrawal needs %s",
				apperrors.ErrValidation, item.Name, item.Stock, req.Quantity)
		}

		cost, usedFallback := item.WithdrawalCost()
		if usedFallback && cost.IsZero() {
			logger.Warn("Withdrawal costed at zero: item has no purchase history and zero average cost",
				slog.String("item_id", item.ItemID))
		}
		total := cost.Mul(req.Quantity)

		seq, err := tx.NextSequence(ctx, domain.CounterWithdrawal)
		if err != nil {
			return fmt.Errorf("failed to reserve withdrawal number: %w", err)
		}
		number := domain.FormatDocumentNumber(domain.CounterWithdrawal, seq)

		expense = domain.Expense{
			ExpenseID:        uuid.NewString(),
			ProjectID:        project.ProjectID,
			BudgetItemID:     budgetItem.BudgetItemID,
			ExpenseType:      "inventory_withdrawal",
			Amount:           total,
			ExpenseDate:      now,
			Description:      fmt.Sprintf("Withdrawal %s: %s x %s %s", number, item.Name, req.Quantity, item.Unit),
			WithdrawalNumber: &number,
			AuditFields:      domain.NewAuditFields(actorID, now),
		}

		if err := tx.InsertExpense(ctx, expense); err != nil {
			return err
		}
		if err := tx.AdjustProjectTotals(ctx, project.ProjectID, domain.ProjectTotalsDelta{Spent: total}); err != nil {
			return err
		}
		if err := tx.AdjustBudgetSpent(ctx, project.ProjectID, budgetItem.BudgetItemID, total); err != nil {
			return err
		}
		if err := tx.ApplyStock(ctx, item.ItemID, req.Quantity.Neg(), item.AverageCost, item.LastPurchasePrice); err != nil {
			return err
		}
		return tx.AppendJournalEntry(ctx, domain.JournalEntry{
			EntryID:           uuid.NewString(),
			EntryDate:         now,
			Description:       expense.Description,
			DebitAccountName:  budgetItem.Name,
			CreditAccountName: domain.LedgerInventory,
			Amount:            total,
			AuditFields:       domain.NewAuditFields(actorID, now),
		})
	})
	if err != nil {
		logger.Error("Failed to withdraw from inventory", slog.String("item_id", req.ItemID), slog.String("error", err.Error()))
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "create", Entity: "inventory_withdrawal", EntityID: expense.ExpenseID,
		Details: map[string]any{"withdrawalNumber": *expense.WithdrawalNumber, "amount": expense.Amount.String()},
	})
	logger.Info("Inventory withdrawn to project",
		slog.String("withdrawal_number", *expense.WithdrawalNumber),
		slog.String("project_id", project.ProjectID))
	return &expense, nil
}

// CreateItem registers a new material with zero stock and cost. Stock and
// cost only move through invoices and withdrawals afterwards.
func (s *inventoryService) CreateItem(ctx context.Context, actorID string, req dto.CreateInventoryItemRequest) (*domain.InventoryItem, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	item := domain.InventoryItem{
		ItemID:      uuid.NewString(),
		Name:        req.Name,
		Unit:        req.Unit,
		Stock:       decimal.Zero,
		AverageCost: decimal.Zero,
		AuditFields: domain.NewAuditFields(actorID, now),
	}
	if err := s.purchaseRepo.SaveItem(ctx, item); err != nil {
		logger.Error("Failed to create inventory item", slog.String("name", req.Name), slog.String("error", err.Error()))
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "create", Entity: "inventory_item", EntityID: item.ItemID,
		Details: map[string]any{"name": item.Name, "unit": item.Unit},
	})
	return &item, nil
}

func (s *inventoryService) GetItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	return s.purchaseRepo.FindItemByID(ctx, itemID)
}

func (s *inventoryService) ListItems(ctx context.Context, limit, offset int) ([]domain.InventoryItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.purchaseRepo.ListItems(ctx, limit, offset)
}
