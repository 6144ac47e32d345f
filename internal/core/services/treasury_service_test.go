package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildra/construction_finance_app/internal/apperrors"
	"github.com/buildra/construction_finance_app/internal/core/domain"
	portssvc "github.com/buildra/construction_finance_app/internal/core/ports/services"
	"github.com/buildra/construction_finance_app/internal/core/services"
	"github.com/buildra/construction_finance_app/internal/dto"
)

func newTreasuryFixture() (*fakeLedger, portssvc.TreasurySvcFacade) {
	l := newFakeLedger()
	svc := services.NewTreasuryService(l, &fakePartyRepo{l}, nopAudit{})
	return l, svc
}

func TestCreateAccount_OpeningBalanceIsJournalled(t *testing.T) {
	l, svc := newTreasuryFixture()

	account, err := svc.CreateAccount(context.Background(), "user-1", dto.CreateAccountRequest{
		Name:           "Main safe",
		Kind:           "TREASURY",
		OpeningBalance: decimal.NewFromInt(50000),
	})
	require.NoError(t, err)

	stored := l.state.accounts[account.AccountID]
	assert.True(t, decimal.NewFromInt(50000).Equal(stored.Balance))
	assert.True(t, stored.IsActive)

	require.Len(t, l.state.journal, 1)
	entry := l.state.journal[0]
	require.NotNil(t, entry.DebitAccountID)
	assert.Equal(t, account.AccountID, *entry.DebitAccountID)
	assert.Equal(t, domain.LedgerCapital, entry.CreditAccountName)
	assert.True(t, decimal.NewFromInt(50000).Equal(entry.Amount))
}

func TestCreateAccount_ZeroOpeningBalanceSkipsJournal(t *testing.T) {
	l, svc := newTreasuryFixture()

	_, err := svc.CreateAccount(context.Background(), "user-1", dto.CreateAccountRequest{
		Name: "Site cash", Kind: "TREASURY", OpeningBalance: decimal.Zero,
	})
	require.NoError(t, err)
	assert.Empty(t, l.state.journal)
}

func TestCreateAccount_RejectsNegativeOpeningBalance(t *testing.T) {
	_, svc := newTreasuryFixture()

	_, err := svc.CreateAccount(context.Background(), "user-1", dto.CreateAccountRequest{
		Name: "Broken", Kind: "TREASURY", OpeningBalance: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTransfer_ConservesTotalMoney(t *testing.T) {
	l, svc := newTreasuryFixture()
	seedAccount(l, "safe", "Main safe", decimal.NewFromInt(10000))
	seedAccount(l, "bank", "Bank", decimal.NewFromInt(500))

	err := svc.Transfer(context.Background(), "user-1", dto.TransferRequest{
		FromAccountID: "safe", ToAccountID: "bank", Amount: decimal.NewFromInt(3000), Note: "weekly deposit",
	})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(7000).Equal(l.state.accounts["safe"].Balance))
	assert.True(t, decimal.NewFromInt(3500).Equal(l.state.accounts["bank"].Balance))

	require.Len(t, l.state.journal, 1)
	entry := l.state.journal[0]
	assert.Equal(t, "bank", *entry.DebitAccountID)
	assert.Equal(t, "safe", *entry.CreditAccountID)
}

func TestTransfer_InsufficientSource(t *testing.T) {
	l, svc := newTreasuryFixture()
	seedAccount(l, "safe", "Main safe", decimal.NewFromInt(100))
	seedAccount(l, "bank", "Bank", decimal.Zero)

	err := svc.Transfer(context.Background(), "user-1", dto.TransferRequest{
		FromAccountID: "safe", ToAccountID: "bank", Amount: decimal.NewFromInt(101),
	})
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	assert.True(t, decimal.NewFromInt(100).Equal(l.state.accounts["safe"].Balance))
	assert.True(t, l.state.accounts["bank"].Balance.IsZero())
}

func TestTransfer_RejectsSameAccount(t *testing.T) {
	l, svc := newTreasuryFixture()
	seedAccount(l, "safe", "Main safe", decimal.NewFromInt(100))

	err := svc.Transfer(context.Background(), "user-1", dto.TransferRequest{
		FromAccountID: "safe", ToAccountID: "safe", Amount: decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestPaySalaries_BatchIsAtomic(t *testing.T) {
	l, svc := newTreasuryFixture()
	seedAccount(l, "safe", "Main safe", decimal.NewFromInt(10000))
	seedEmployee(l, "emp-1", "Mona", decimal.NewFromInt(4000))
	seedEmployee(l, "emp-2", "Karim", decimal.NewFromInt(5000))

	total, err := svc.PaySalaries(context.Background(), "user-1", dto.PaySalariesRequest{
		AccountID: "safe",
		PayMonth:  "2026-08",
		Items: []dto.SalaryItemRequest{
			{EmployeeID: "emp-1", Amount: decimal.NewFromInt(4000)},
			{EmployeeID: "emp-2", Amount: decimal.NewFromInt(5000)},
		},
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(9000).Equal(total))

	assert.True(t, decimal.NewFromInt(1000).Equal(l.state.accounts["safe"].Balance))
	require.Len(t, l.state.salaries, 2)
	assert.Equal(t, "2026-08", l.state.salaries[0].PayMonth)

	require.Len(t, l.state.journal, 1)
	assert.Equal(t, domain.LedgerSalariesExpense, l.state.journal[0].DebitAccountName)
	assert.True(t, decimal.NewFromInt(9000).Equal(l.state.journal[0].Amount))
}

func TestPaySalaries_WholeBatchGatedOnBalance(t *testing.T) {
	l, svc := newTreasuryFixture()
	seedAccount(l, "safe", "Main safe", decimal.NewFromInt(8999))
	seedEmployee(l, "emp-1", "Mona", decimal.NewFromInt(4000))
	seedEmployee(l, "emp-2", "Karim", decimal.NewFromInt(5000))

	_, err := svc.PaySalaries(context.Background(), "user-1", dto.PaySalariesRequest{
		AccountID: "safe",
		PayMonth:  "2026-08",
		Items: []dto.SalaryItemRequest{
			{EmployeeID: "emp-1", Amount: decimal.NewFromInt(4000)},
			{EmployeeID: "emp-2", Amount: decimal.NewFromInt(5000)},
		},
	})
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	// Not even the first employee got paid.
	assert.Empty(t, l.state.salaries)
	assert.True(t, decimal.NewFromInt(8999).Equal(l.state.accounts["safe"].Balance))
}

func TestPaySalaries_UnknownEmployeeFailsUpfront(t *testing.T) {
	l, svc := newTreasuryFixture()
	seedAccount(l, "safe", "Main safe", decimal.NewFromInt(10000))
	seedEmployee(l, "emp-1", "Mona", decimal.NewFromInt(4000))

	_, err := svc.PaySalaries(context.Background(), "user-1", dto.PaySalariesRequest{
		AccountID: "safe",
		PayMonth:  "2026-08",
		Items: []dto.SalaryItemRequest{
			{EmployeeID: "emp-1", Amount: decimal.NewFromInt(4000)},
			{EmployeeID: "ghost", Amount: decimal.NewFromInt(100)},
		},
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.True(t, decimal.NewFromInt(10000).Equal(l.state.accounts["safe"].Balance))
}

func TestTransfer_DirectionIndependentOfLockOrder(t *testing.T) {
	// The sort key of the source relative to the destination must never
	// change which account pays and which receives.
	l, svc := newTreasuryFixture()
	seedAccount(l, "aaa-bank", "Bank", decimal.NewFromInt(1000))
	seedAccount(l, "zzz-safe", "Main safe", decimal.NewFromInt(1000))

	err := svc.Transfer(context.Background(), "user-1", dto.TransferRequest{
		FromAccountID: "zzz-safe", ToAccountID: "aaa-bank", Amount: decimal.NewFromInt(300),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(700).Equal(l.state.accounts["zzz-safe"].Balance))
	assert.True(t, decimal.NewFromInt(1300).Equal(l.state.accounts["aaa-bank"].Balance))

	err = svc.Transfer(context.Background(), "user-1", dto.TransferRequest{
		FromAccountID: "aaa-bank", ToAccountID: "zzz-safe", Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(800).Equal(l.state.accounts["zzz-safe"].Balance))
	assert.True(t, decimal.NewFromInt(1200).Equal(l.state.accounts["aaa-bank"].Balance))

	require.Len(t, l.state.journal, 2)
	assert.Equal(t, "aaa-bank", *l.state.journal[0].DebitAccountID)
	assert.Equal(t, "zzz-safe", *l.state.journal[0].CreditAccountID)
	assert.Equal(t, "zzz-safe", *l.state.journal[1].DebitAccountID)
	assert.Equal(t, "aaa-bank", *l.state.journal[1].CreditAccountID)
}

func TestPayEmployee_AdvanceRaisesEmployeeBalance(t *testing.T) {
	l, svc := newTreasuryFixture()
	seedAccount(l, "safe", "Main safe", decimal.NewFromInt(5000))
	seedEmployee(l, "emp-1", "Mona", decimal.NewFromInt(4000))

	err := svc.PayEmployee(context.Background(), "user-1", "emp-1", dto.PayEmployeeRequest{
		AccountID: "safe", Field: "ADVANCE", Amount: decimal.NewFromInt(1500),
	})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(3500).Equal(l.state.accounts["safe"].Balance))
	assert.True(t, decimal.NewFromInt(1500).Equal(l.state.employees["emp-1"].AdvanceBalance))
	assert.True(t, l.state.employees["emp-1"].CustodyBalance.IsZero())

	require.Len(t, l.state.journal, 1)
	entry := l.state.journal[0]
	assert.Equal(t, domain.LedgerEmployeeAdvances, entry.DebitAccountName)
	require.NotNil(t, entry.CreditAccountID)
	assert.Equal(t, "safe", *entry.CreditAccountID)
}

func TestPayEmployee_CustodyRaisesEmployeeBalance(t *testing.T) {
	l, svc := newTreasuryFixture()
	seedAccount(l, "safe", "Main safe", decimal.NewFromInt(5000))
	seedEmployee(l, "emp-1", "Mona", decimal.NewFromInt(4000))

	err := svc.PayEmployee(context.Background(), "user-1", "emp-1", dto.PayEmployeeRequest{
		AccountID: "safe", Field: "CUSTODY", Amount: decimal.NewFromInt(800),
	})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(4200).Equal(l.state.accounts["safe"].Balance))
	assert.True(t, decimal.NewFromInt(800).Equal(l.state.employees["emp-1"].CustodyBalance))
	require.Len(t, l.state.journal, 1)
	assert.Equal(t, domain.LedgerEmployeeCustody, l.state.journal[0].DebitAccountName)
}

func TestGrantRewardThenPayItOut(t *testing.T) {
	l, svc := newTreasuryFixture()
	seedAccount(l, "safe", "Main safe", decimal.NewFromInt(5000))
	seedEmployee(l, "emp-1", "Mona", decimal.NewFromInt(4000))

	err := svc.GrantEmployeeReward(context.Background(), "user-1", "emp-1", dto.GrantRewardRequest{
		Amount: decimal.NewFromInt(600), Reason: "finishing phase one early",
	})
	require.NoError(t, err)

	// Accrual moves no cash, only the reward balance and the journal.
	assert.True(t, decimal.NewFromInt(5000).Equal(l.state.accounts["safe"].Balance))
	assert.True(t, decimal.NewFromInt(600).Equal(l.state.employees["emp-1"].RewardBalance))
	require.Len(t, l.state.journal, 1)
	assert.Equal(t, domain.LedgerSalariesExpense, l.state.journal[0].DebitAccountName)
	assert.Equal(t, domain.LedgerEmployeeRewards, l.state.journal[0].CreditAccountName)
	assert.Nil(t, l.state.journal[0].CreditAccountID)

	err = svc.PayEmployee(context.Background(), "user-1", "emp-1", dto.PayEmployeeRequest{
		AccountID: "safe", Field: "REWARD", Amount: decimal.NewFromInt(600),
	})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(4400).Equal(l.state.accounts["safe"].Balance))
	assert.True(t, l.state.employees["emp-1"].RewardBalance.IsZero())
	require.Len(t, l.state.journal, 2)
	assert.Equal(t, domain.LedgerEmployeeRewards, l.state.journal[1].DebitAccountName)
}

func TestPayEmployee_RewardPayoutCappedAtAccrual(t *testing.T) {
	l, svc := newTreasuryFixture()
	seedAccount(l, "safe", "Main safe", decimal.NewFromInt(5000))
	seedEmployee(l, "emp-1", "Mona", decimal.NewFromInt(4000))

	err := svc.PayEmployee(context.Background(), "user-1", "emp-1", dto.PayEmployeeRequest{
		AccountID: "safe", Field: "REWARD", Amount: decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.True(t, decimal.NewFromInt(5000).Equal(l.state.accounts["safe"].Balance))
}

func TestPayEmployee_InsufficientAccountLeavesStateUntouched(t *testing.T) {
	l, svc := newTreasuryFixture()
	seedAccount(l, "safe", "Main safe", decimal.NewFromInt(100))
	seedEmployee(l, "emp-1", "Mona", decimal.NewFromInt(4000))

	err := svc.PayEmployee(context.Background(), "user-1", "emp-1", dto.PayEmployeeRequest{
		AccountID: "safe", Field: "ADVANCE", Amount: decimal.NewFromInt(101),
	})
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	assert.True(t, decimal.NewFromInt(100).Equal(l.state.accounts["safe"].Balance))
	assert.True(t, l.state.employees["emp-1"].AdvanceBalance.IsZero())
	assert.Empty(t, l.state.journal)
}

func TestPayEmployee_Validation(t *testing.T) {
	l, svc := newTreasuryFixture()
	seedAccount(l, "safe", "Main safe", decimal.NewFromInt(5000))
	seedEmployee(l, "emp-1", "Mona", decimal.NewFromInt(4000))

	t.Run("unknown employee", func(t *testing.T) {
		err := svc.PayEmployee(context.Background(), "user-1", "ghost", dto.PayEmployeeRequest{
			AccountID: "safe", Field: "ADVANCE", Amount: decimal.NewFromInt(10),
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("unknown field", func(t *testing.T) {
		err := svc.PayEmployee(context.Background(), "user-1", "emp-1", dto.PayEmployeeRequest{
			AccountID: "safe", Field: "BONUS", Amount: decimal.NewFromInt(10),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		err := svc.PayEmployee(context.Background(), "user-1", "emp-1", dto.PayEmployeeRequest{
			AccountID: "safe", Field: "ADVANCE", Amount: decimal.Zero,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("non-positive reward grant", func(t *testing.T) {
		err := svc.GrantEmployeeReward(context.Background(), "user-1", "emp-1", dto.GrantRewardRequest{
			Amount: decimal.NewFromInt(-5),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}
