package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildra/construction_finance_app/internal/apperrors"
	"github.com/buildra/construction_finance_app/internal/core/domain"
	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/core/services"
	"github.com/buildra/construction_finance_app/internal/dto"
)

func newPurchaseFixture() (*fakeLedger, portssvc.PurchaseSvcFacade) {
	l := newFakeLedger()
	seedSupplier(l, "sup-1", "Steel Co")
	seedAccount(l, "safe", "Main safe", decimal.NewFromInt(100000))
	seedProjectWithBudget(l, "proj-1", "fund-1", "bi-1")
	seedItem(l, "item-1", "Rebar", decimal.NewFromInt(10), decimal.NewFromInt(50), nil)
	svc := services.NewPurchaseService(l, &fakePurchaseRepo{l}, &fakePartyRepo{l}, &fakeProjectRepo{l}, nopAudit{})
	return l, svc
}

func inventoryInvoiceRequest() dto.CreatePurchaseInvoiceRequest {
	return dto.CreatePurchaseInvoiceRequest{
		SupplierID:   "sup-1",
		PurchaseType: "INVENTORY",
		Lines: []dto.InvoiceLineRequest{
			{ItemID: "item-1", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(70)},
		},
		InvoiceDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRecordPurchaseInvoice_InventoryRestocksAtWeightedAverage(t *testing.T) {
	l, svc := newPurchaseFixture()

	invoice, err := svc.RecordPurchaseInvoice(context.Background(), "user-1", inventoryInvoiceRequest())
	require.NoError(t, err)

	// Total comes from the lines: 10 x 70.
	assert.True(t, decimal.NewFromInt(700).Equal(invoice.Total))
	assert.Equal(t, "PI-0001", invoice.InvoiceNumber)

	// Supplier payable rose by the full total; nothing was paid.
	assert.True(t, decimal.NewFromInt(700).Equal(l.state.suppliers["sup-1"].Balance))
	assert.True(t, decimal.NewFromInt(100000).Equal(l.state.accounts["safe"].Balance))

	// 10 @ 50 plus 10 @ 70 averages to 60; stock doubled.
	item := l.state.items["item-1"]
	assert.True(t, decimal.NewFromInt(20).Equal(item.Stock))
	assert.True(t, decimal.NewFromInt(60).Equal(item.AverageCost))
	require.NotNil(t, item.LastPurchasePrice)
	assert.True(t, decimal.NewFromInt(70).Equal(*item.LastPurchasePrice))

	require.Len(t, l.state.journal, 1)
	assert.Equal(t, domain.LedgerInventory, l.state.journal[0].DebitAccountName)
	assert.Equal(t, domain.LedgerAccountsPayable, l.state.journal[0].CreditAccountName)
}

func TestRecordPurchaseInvoice_PartialPaymentSettlesInSameTransaction(t *testing.T) {
	l, svc := newPurchaseFixture()

	req := inventoryInvoiceRequest()
	req.PaidAmount = decimal.NewFromInt(300)
	account := "safe"
	req.PaymentAccountID = &account

	invoice, err := svc.RecordPurchaseInvoice(context.Background(), "user-1", req)
	require.NoError(t, err)

	// Payable is total minus the partial payment.
	assert.True(t, decimal.NewFromInt(400).Equal(l.state.suppliers["sup-1"].Balance))
	assert.True(t, decimal.NewFromInt(99700).Equal(l.state.accounts["safe"].Balance))
	assert.True(t, decimal.NewFromInt(300).Equal(invoice.PaidAmount))

	// Invoice journal plus payment journal.
	require.Len(t, l.state.journal, 2)
	assert.Equal(t, domain.LedgerAccountsPayable, l.state.journal[1].DebitAccountName)
}

func TestRecordPurchaseInvoice_SequentialNumbers(t *testing.T) {
	_, svc := newPurchaseFixture()

	first, err := svc.RecordPurchaseInvoice(context.Background(), "user-1", inventoryInvoiceRequest())
	require.NoError(t, err)
	second, err := svc.RecordPurchaseInvoice(context.Background(), "user-1", inventoryInvoiceRequest())
	require.NoError(t, err)

	assert.Equal(t, "PI-0001", first.InvoiceNumber)
	assert.Equal(t, "PI-0002", second.InvoiceNumber)
}

func TestRecordPurchaseInvoice_FailedPaymentRollsBackTheNumber(t *testing.T) {
	l, svc := newPurchaseFixture()

	req := inventoryInvoiceRequest()
	req.PaidAmount = decimal.NewFromInt(300)
	missing := "no-such-account"
	req.PaymentAccountID = &missing

	_, err := svc.RecordPurchaseInvoice(context.Background(), "user-1", req)
	require.Error(t, err)

	// The whole transaction rolled back: no invoice, no payable, counter unmoved.
	assert.Empty(t, l.state.invoices)
	assert.True(t, l.state.suppliers["sup-1"].Balance.IsZero())

	next, err := svc.RecordPurchaseInvoice(context.Background(), "user-1", inventoryInvoiceRequest())
	require.NoError(t, err)
	assert.Equal(t, "PI-0001", next.InvoiceNumber)
}

func TestRecordPurchaseInvoice_ProjectPurchaseChargesBudget(t *testing.T) {
	l, svc := newPurchaseFixture()

	projectID, budgetItemID := "proj-1", "bi-1"
	req := dto.CreatePurchaseInvoiceRequest{
		SupplierID:   "sup-1",
		PurchaseType: "PROJECT",
		ProjectID:    &projectID,
		BudgetItemID: &budgetItemID,
		Total:        decimal.NewFromInt(5000),
		InvoiceDate:  time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	_, err := svc.RecordPurchaseInvoice(context.Background(), "user-1", req)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(5000).Equal(l.state.projects["proj-1"].Spent))
	assert.True(t, decimal.NewFromInt(5000).Equal(l.state.budgets[budgetKey("proj-1", "bi-1")].SpentAmount))
	assert.True(t, decimal.NewFromInt(5000).Equal(l.state.suppliers["sup-1"].Balance))

	// Inventory stayed untouched.
	assert.True(t, decimal.NewFromInt(10).Equal(l.state.items["item-1"].Stock))
}

func TestRecordPurchaseInvoice_Validation(t *testing.T) {
	_, svc := newPurchaseFixture()

	t.Run("inventory invoice without lines", func(t *testing.T) {
		req := inventoryInvoiceRequest()
		req.Lines = nil
		_, err := svc.RecordPurchaseInvoice(context.Background(), "user-1", req)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("project invoice without budget item", func(t *testing.T) {
		projectID := "proj-1"
		_, err := svc.RecordPurchaseInvoice(context.Background(), "user-1", dto.CreatePurchaseInvoiceRequest{
			SupplierID: "sup-1", PurchaseType: "PROJECT", ProjectID: &projectID,
			Total: decimal.NewFromInt(100), InvoiceDate: time.Now(),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("paid amount above total", func(t *testing.T) {
		req := inventoryInvoiceRequest()
		req.PaidAmount = decimal.NewFromInt(701)
		account := "safe"
		req.PaymentAccountID = &account
		_, err := svc.RecordPurchaseInvoice(context.Background(), "user-1", req)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("payment without account", func(t *testing.T) {
		req := inventoryInvoiceRequest()
		req.PaidAmount = decimal.NewFromInt(100)
		_, err := svc.RecordPurchaseInvoice(context.Background(), "user-1", req)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestPaySupplier(t *testing.T) {
	l, svc := newPurchaseFixture()

	_, err := svc.RecordPurchaseInvoice(context.Background(), "user-1", inventoryInvoiceRequest())
	require.NoError(t, err)

	err = svc.PaySupplier(context.Background(), "user-1", "sup-1", dto.PaySupplierRequest{
		AccountID: "safe", Amount: decimal.NewFromInt(700),
	})
	require.NoError(t, err)

	assert.True(t, l.state.suppliers["sup-1"].Balance.IsZero())
	assert.True(t, decimal.NewFromInt(99300).Equal(l.state.accounts["safe"].Balance))
}

func TestPaySupplier_InsufficientAccount(t *testing.T) {
	l, svc := newPurchaseFixture()
	seedAccount(l, "small", "Petty cash", decimal.NewFromInt(10))

	err := svc.PaySupplier(context.Background(), "user-1", "sup-1", dto.PaySupplierRequest{
		AccountID: "small", Amount: decimal.NewFromInt(11),
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
}
