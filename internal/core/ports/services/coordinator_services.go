package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/buildra/construction_finance_app/internal/core/domain"
	"github.com/buildra/construction_finance_app/internal/dto"
)

// ExpenseSvcFacade coordinates the expense lifecycle: every operation moves
// project spend, budget spend, the treasury balance and the journal together.
type ExpenseSvcFacade interface {
	RecordExpense(ctx context.Context, actorID string, req dto.CreateExpenseRequest) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, actorID, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, actorID, expenseID string) error
}

// PurchaseSvcFacade coordinates supplier invoices and payments.
type PurchaseSvcFacade interface {
	RecordPurchaseInvoice(ctx context.Context, actorID string, req dto.CreatePurchaseInvoiceRequest) (*domain.PurchaseInvoice, error)
	PaySupplier(ctx context.Context, actorID, supplierID string, req dto.PaySupplierRequest) error
}

// InventorySvcFacade coordinates stock withdrawals to projects and manages
// the item catalogue.
type InventorySvcFacade interface {
	WithdrawToProject(ctx context.Context, actorID string, req dto.WithdrawToProjectRequest) (*domain.Expense, error)
	CreateItem(ctx context.Context, actorID string, req dto.CreateInventoryItemRequest) (*domain.InventoryItem, error)
	GetItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error)
	ListItems(ctx context.Context, limit, offset int) ([]domain.InventoryItem, error)
}

// SalesSvcFacade coordinates the unit sale state machine and installment
// collection.
type SalesSvcFacade interface {
	BookUnit(ctx context.Context, actorID, projectID, unitID string, req dto.BookUnitRequest) (*domain.Unit, error)
	ConfirmSale(ctx context.Context, actorID, projectID, unitID string) (*domain.Unit, error)
	CancelBooking(ctx context.Context, actorID, projectID, unitID string) (*domain.Unit, error)
	CollectInstallment(ctx context.Context, actorID, installmentID string, req dto.CollectInstallmentRequest) error
}

// PartnerSvcFacade coordinates partner funding and profit distribution.
type PartnerSvcFacade interface {
	UpdatePartners(ctx context.Context, actorID, projectID string, req dto.UpdatePartnersRequest) ([]domain.ProjectPartner, error)
	PayPartnerProfit(ctx context.Context, actorID, projectID string, req dto.PayPartnerProfitRequest) error
}

// TreasurySvcFacade coordinates account-level money movements.
type TreasurySvcFacade interface {
	CreateAccount(ctx context.Context, actorID string, req dto.CreateAccountRequest) (*domain.Account, error)
	Transfer(ctx context.Context, actorID string, req dto.TransferRequest) error
	PaySalaries(ctx context.Context, actorID string, req dto.PaySalariesRequest) (decimal.Decimal, error)
	PayEmployee(ctx context.Context, actorID, employeeID string, req dto.PayEmployeeRequest) error
	GrantEmployeeReward(ctx context.Context, actorID, employeeID string, req dto.GrantRewardRequest) error
}
