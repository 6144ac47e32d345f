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

// purchaseService coordinates supplier invoices and supplier payments.
type purchaseService struct {
	ledger       portsrepo.LedgerStore
	purchaseRepo portsrepo.PurchaseRepository
	partyRepo    portsrepo.PartyRepository
	projectRepo  portsrepo.ProjectRepository
	auditSvc     portssvc.AuditSvcFacade
}

// NewPurchaseService creates a new purchase coordinator.
func NewPurchaseService(ledger portsrepo.LedgerStore, purchaseRepo portsrepo.PurchaseRepository, partyRepo portsrepo.PartyRepository, projectRepo portsrepo.ProjectRepository, auditSvc portssvc.AuditSvcFacade) portssvc.PurchaseSvcFacade {
	return &purchaseService{
		ledger:       ledger,
		purchaseRepo: purchaseRepo,
		partyRepo:    partyRepo,
		projectRepo:  projectRepo,
		auditSvc:     auditSvc,
	}
}

var _ portssvc.PurchaseSvcFacade = (*purchaseService)(nil)

// RecordPurchaseInvoice assigns the next sequential invoice number, raises
// the supplier payable by the full total and journals it; an optional partial
// payment is settled from the payment account in the same transaction.
// INVENTORY invoices restock each line at weighted-average cost; PROJECT
// invoices charge the project and budget item instead.
func (s *purchaseService) RecordPurchaseInvoice(ctx context.Context, actorID string, req dto.CreatePurchaseInvoiceRequest) (*domain.PurchaseInvoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	supplier, err := s.partyRepo.FindSupplierByID(ctx, req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve supplier %s: %w", req.SupplierID, err)
	}

	purchaseType := domain.PurchaseType(req.PurchaseType)
	invoice := domain.PurchaseInvoice{
		InvoiceID:        uuid.NewString(),
		SupplierID:       supplier.SupplierID,
		PurchaseType:     purchaseType,
		ProjectID:        req.ProjectID,
		BudgetItemID:     req.BudgetItemID,
		Total:            req.Total,
		PaidAmount:       req.PaidAmount,
		PaymentAccountID: req.PaymentAccountID,
		InvoiceDate:      req.InvoiceDate,
		Description:      req.Description,
	}

	var budgetItem *domain.BudgetItem
	switch purchaseType {
	case domain.PurchaseInventory:
		if len(req.Lines) == 0 {
			return nil, fmt.Errorf("%w: inventory invoice requires line items", apperrors.ErrValidation)
		}
		invoice.Lines = make([]domain.InvoiceLine, len(req.Lines))
		for i, l := range req.Lines {
			if l.Quantity.LessThanOrEqual(decimal.Zero) || l.UnitPrice.IsNegative() {
				return nil, fmt.Errorf("%w: invalid quantity or price for item %s", apperrors.ErrValidation, l.ItemID)
			}
			invoice.Lines[i] = domain.InvoiceLine{
				LineID:    uuid.NewString(),
				InvoiceID: invoice.InvoiceID,
				ItemID:    l.ItemID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
			}
		}
		invoice.Total = invoice.LinesTotal()
	case domain.PurchaseProject:
		if req.ProjectID == nil || req.BudgetItemID == nil {
			return nil, fmt.Errorf("%w: project invoice requires project and budget item", apperrors.ErrValidation)
		}
		budgetItem, err = s.projectRepo.FindBudgetItem(ctx, *req.ProjectID, *req.BudgetItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve budget item %s: %w", *req.BudgetItemID, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown purchase type %q", apperrors.ErrValidation, req.PurchaseType)
	}

	if invoice.Total.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: invoice total must be positive", apperrors.ErrValidation)
	}
	if invoice.PaidAmount.IsNegative() || invoice.PaidAmount.GreaterThan(invoice.Total) {
		return nil, fmt.Errorf("%w: paid amount must be between zero and the invoice total", apperrors.ErrValidation)
	}
	if invoice.PaidAmount.IsPositive() && invoice.PaymentAccountID == nil {
		return nil, fmt.Errorf("%w: a payment account is required when paid amount is set", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	invoice.AuditFields = domain.NewAuditFields(actorID, now)

	debitSide := domain.LedgerInventory
	if purchaseType == domain.PurchaseProject {
		debitSide = domain.LedgerProjectPurchases
	}

	err = s.ledger.InTx(ctx, func(tx portsrepo.LedgerTx) error {
		seq, err := tx.NextSequence(ctx, domain.CounterPurchaseInvoice)
		if err != nil {
			return fmt.Errorf("failed to reserve invoice number: %w", err)
		}
		invoice.InvoiceNumber = domain.FormatDocumentNumber(domain.CounterPurchaseInvoice, seq)

		if err := tx.InsertInvoice(ctx, invoice); err != nil {
			return err
		}
		if err := tx.AdjustSupplierBalance(ctx, supplier.SupplierID, invoice.Total); err != nil {
			return err
		}
		if err := tx.AppendJournalEntry(ctx, domain.JournalEntry{
			EntryID:           uuid.NewString(),
			EntryDate:         invoice.InvoiceDate,
			Description:       fmt.Sprintf("Purchase invoice %s from %s", invoice.InvoiceNumber, supplier.Name),
			DebitAccountName:  debitSide,
			CreditAccountName: domain.LedgerAccountsPayable,
			Amount:            invoice.Total,
			AuditFields:       domain.NewAuditFields(actorID, now),
		}); err != nil {
			return err
		}

		if invoice.PaidAmount.IsPositive() {
			account, err := tx.AccountForUpdate(ctx, *invoice.PaymentAccountID)
			if err != nil {
				return fmt.Errorf("failed to lock payment account %s: %w", *invoice.PaymentAccountID, err)
			}
			if !account.CanCover(invoice.PaidAmount) {
				return fmt.Errorf("%w: account %q holds %s, payment needs %s",
					apperrors.ErrInsufficientFunds, account.Name, account.Balance, invoice.PaidAmount)
			}
			if err := tx.AdjustAccountBalance(ctx, account.AccountID, invoice.PaidAmount.Neg()); err != nil {
				return err
			}
			if err := tx.AdjustSupplierBalance(ctx, supplier.SupplierID, invoice.PaidAmount.Neg()); err != nil {
				return err
			}
			accountID := account.AccountID
			if err := tx.AppendJournalEntry(ctx, domain.JournalEntry{
				EntryID:           uuid.NewString(),
				EntryDate:         invoice.InvoiceDate,
				Description:       fmt.Sprintf("Payment on invoice %s", invoice.InvoiceNumber),
				DebitAccountName:  domain.LedgerAccountsPayable,
				CreditAccountID:   &accountID,
				CreditAccountName: account.Name,
				Amount:            invoice.PaidAmount,
				AuditFields:       domain.NewAuditFields(actorID, now),
			}); err != nil {
				return err
			}
		}

		switch purchaseType {
		case domain.PurchaseInventory:
			for _, line := range invoice.Lines {
				item, err := tx.ItemForUpdate(ctx, line.ItemID)
				if err != nil {
					return fmt.Errorf("failed to lock inventory item %s: %w", line.ItemID, err)
				}
				newCost := domain.WeightedAverageCost(item.Stock, item.AverageCost, line.Quantity, line.UnitPrice)
				price := line.UnitPrice
				if err := tx.ApplyStock(ctx, item.ItemID, line.Quantity, newCost, &price); err != nil {
					return err
				}
			}
		case domain.PurchaseProject:
			if err := tx.AdjustProjectTotals(ctx, *invoice.ProjectID, domain.ProjectTotalsDelta{Spent: invoice.Total}); err != nil {
				return err
			}
			if err := tx.AdjustBudgetSpent(ctx, *invoice.ProjectID, budgetItem.BudgetItemID, invoice.Total); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to record purchase invoice", slog.String("supplier_id", req.SupplierID), slog.String("error", err.Error()))
		return nil, err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "create", Entity: "purchase_invoice", EntityID: invoice.InvoiceID,
		Details: map[string]any{"invoiceNumber": invoice.InvoiceNumber, "total": invoice.Total.String()},
	})
	logger.Info("Purchase invoice recorded",
		slog.String("invoice_number", invoice.InvoiceNumber),
		slog.String("total", invoice.Total.String()))
	return &invoice, nil
}

// PaySupplier settles part of a supplier payable out of a treasury account.
func (s *purchaseService) PaySupplier(ctx context.Context, actorID, supplierID string, req dto.PaySupplierRequest) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	supplier, err := s.partyRepo.FindSupplierByID(ctx, supplierID)
	if err != nil {
		return fmt.Errorf("failed to resolve supplier %s: %w", supplierID, err)
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
		if err := tx.AdjustSupplierBalance(ctx, supplier.SupplierID, req.Amount.Neg()); err != nil {
			return err
		}
		accountID := account.AccountID
		return tx.AppendJournalEntry(ctx, domain.JournalEntry{
			EntryID:           uuid.NewString(),
			EntryDate:         now,
			Description:       fmt.Sprintf("Payment to supplier %s", supplier.Name),
			DebitAccountName:  domain.LedgerAccountsPayable,
			CreditAccountID:   &accountID,
			CreditAccountName: account.Name,
			Amount:            req.Amount,
			AuditFields:       domain.NewAuditFields(actorID, now),
		})
	})
	if err != nil {
		logger.Error("Failed to pay supplier", slog.String("supplier_id", supplierID), slog.String("error", err.Error()))
		return err
	}

	s.auditSvc.Record(ctx, domain.AuditRecord{
		At: now, ActorID: actorID, Action: "pay", Entity: "supplier", EntityID: supplierID,
		Details: map[string]any{"amount": req.Amount.String()},
	})
	logger.Info("Supplier paid", slog.String("supplier_id", supplierID), slog.String("amount", req.Amount.String()))
	return nil
}
