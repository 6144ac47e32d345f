package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildra/construction_finance_app/internal/core/domain"
	"github.com/buildra/construction_finance_app/internal/core/services"
	"github.com/buildra/construction_finance_app/internal/dto"
)

func sumAccountBalances(l *fakeLedger) decimal.Decimal {
	total := decimal.Zero
	for _, a := range l.state.accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// journalCashDelta sums the journal's real-account legs: a debited account
// gained money, a credited account paid it. Synthetic sides carry no cash.
func journalCashDelta(l *fakeLedger) decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.state.journal {
		if e.DebitAccountID != nil {
			total = total.Add(e.Amount)
		}
		if e.CreditAccountID != nil {
			total = total.Sub(e.Amount)
		}
	}
	return total
}

// Money only enters or leaves the accounts through journaled movements: after
// any mix of operations the change in total cash must equal the sum of the
// journal's real-account legs, and the party balances must carry the rest.
func TestMixedOperations_CashMatchesJournal(t *testing.T) {
	l := newFakeLedger()
	seedAccount(l, "safe", "Main safe", decimal.NewFromInt(100000))
	seedAccount(l, "fund-1", "Tower A fund", decimal.Zero)
	seedProjectWithBudget(l, "proj-1", "fund-1", "bi-1")
	seedSupplier(l, "sup-1", "Delta Cement")
	seedCustomer(l, "cust-1", "Ahmed")
	seedUnit(l, "unit-1", "proj-1", domain.UnitAvailable)
	seedItem(l, "item-1", "Cement", decimal.NewFromInt(10), decimal.NewFromInt(50), nil)

	expenseSvc := services.NewExpenseService(l, &fakeExpenseRepo{l}, &fakeProjectRepo{l}, nopAudit{})
	purchaseSvc := services.NewPurchaseService(l, &fakePurchaseRepo{l}, &fakePartyRepo{l}, &fakeProjectRepo{l}, nopAudit{})
	salesSvc := services.NewSalesService(l, &fakeProjectRepo{l}, &fakePartyRepo{l}, &fakeInstallmentRepo{l}, nopAudit{})

	before := sumAccountBalances(l)
	ctx := context.Background()

	_, err := expenseSvc.RecordExpense(ctx, "user-1", dto.CreateExpenseRequest{
		ProjectID: "proj-1", BudgetItemID: "bi-1", ExpenseType: "labor",
		AccountID: "safe", Amount: decimal.NewFromInt(2500),
		ExpenseDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	paymentAccount := "safe"
	_, err = purchaseSvc.RecordPurchaseInvoice(ctx, "user-1", dto.CreatePurchaseInvoiceRequest{
		SupplierID:   "sup-1",
		PurchaseType: "INVENTORY",
		Lines: []dto.InvoiceLineRequest{
			{ItemID: "item-1", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(70)},
		},
		PaidAmount:       decimal.NewFromInt(300),
		PaymentAccountID: &paymentAccount,
		InvoiceDate:      time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = salesSvc.BookUnit(ctx, "user-1", "proj-1", "unit-1", dto.BookUnitRequest{
		CustomerID: "cust-1", Status: "BOOKED",
		ActualPrice: decimal.NewFromInt(100000), PaidAmount: decimal.NewFromInt(40000),
		InstallmentCount: 6,
		Date:             time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var pendingID string
	for id := range l.state.installments {
		pendingID = id
		break
	}
	require.NotEmpty(t, pendingID)
	err = salesSvc.CollectInstallment(ctx, "user-1", pendingID, dto.CollectInstallmentRequest{AccountID: "safe"})
	require.NoError(t, err)

	// -2500 expense, -300 partial invoice payment, +40000 down payment,
	// +10000 installment.
	wantDelta := decimal.NewFromInt(47200)
	after := sumAccountBalances(l)
	assert.True(t, wantDelta.Equal(after.Sub(before)),
		"cash delta %s, want %s", after.Sub(before), wantDelta)
	assert.True(t, wantDelta.Equal(journalCashDelta(l)),
		"journal cash legs sum to %s, want %s", journalCashDelta(l), wantDelta)

	// The non-cash halves sit on the party balances: the supplier is owed
	// the unpaid invoice remainder, the customer owes the unfinanced rest.
	assert.True(t, decimal.NewFromInt(400).Equal(l.state.suppliers["sup-1"].Balance))
	assert.True(t, decimal.NewFromInt(50000).Equal(l.state.customers["cust-1"].Balance))
}
