package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/buildra/construction_finance_app/internal/apperrors"
	"github.com/buildra/construction_finance_app/internal/core/domain"
	portsrepo "github.com/buildra/construction_finance_app/internal/core/ports/repositories"
)

// PgxLedgerStore runs coordinator operations inside a single pgx transaction.
type PgxLedgerStore struct {
	pool *pgxpool.Pool
}

// newPgxLedgerStore creates the transactional ledger store.
func newPgxLedgerStore(pool *pgxpool.Pool) portsrepo.LedgerStore {
	return &PgxLedgerStore{pool: pool}
}

var _ portsrepo.LedgerStore = (*PgxLedgerStore)(nil)

// InTx begins a transaction, exposes it to fn through the LedgerTx primitives
// and commits on success. Any error from fn rolls the whole set of writes
// back.
func (s *PgxLedgerStore) InTx(ctx context.Context, fn func(tx portsrepo.LedgerTx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// No-op when already committed.
		_ = tx.Rollback(ctx)
	}()

	if err := fn(&ledgerTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ledgerTx implements the LedgerTx primitives against one pgx.Tx.
type ledgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)

func mapPgError(err error, action string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, action)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// AccountForUpdate loads an account under a row lock, serializing every
// concurrent balance movement on it until this transaction ends.
func (t *ledgerTx) AccountForUpdate(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `
		SELECT account_id, name, kind, balance, description, is_active, created_at, created_by, last_updated_at, last_updated_by
		FROM accounts
		WHERE account_id = $1
		FOR UPDATE;
	`
	var acc domain.Account
	err := t.tx.QueryRow(ctx, query, accountID).Scan(
		&acc.AccountID, &acc.Name, &acc.Kind, &acc.Balance, &acc.Description, &acc.IsActive,
		&acc.CreatedAt, &acc.CreatedBy, &acc.LastUpdatedAt, &acc.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}
	return &acc, nil
}

func (t *ledgerTx) AdjustAccountBalance(ctx context.Context, accountID string, delta decimal.Decimal) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE accounts SET balance = balance + $1, last_updated_at = NOW() WHERE account_id = $2;`,
		delta, accountID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance of account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

func (t *ledgerTx) InsertAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (account_id, name, kind, balance, description, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := t.tx.Exec(ctx, query,
		account.AccountID, account.Name, account.Kind, account.Balance, account.Description, account.IsActive,
		account.CreatedAt, account.CreatedBy, account.LastUpdatedAt, account.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("insert account %s", account.AccountID))
	}
	return nil
}

func (t *ledgerTx) AdjustCustomerBalance(ctx context.Context, customerID string, delta decimal.Decimal) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE customers SET balance = balance + $1, last_updated_at = NOW() WHERE customer_id = $2;`,
		delta, customerID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance of customer %s: %w", customerID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
	}
	return nil
}

func (t *ledgerTx) AdjustSupplierBalance(ctx context.Context, supplierID string, delta decimal.Decimal) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE suppliers SET balance = balance + $1, last_updated_at = NOW() WHERE supplier_id = $2;`,
		delta, supplierID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance of supplier %s: %w", supplierID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: supplier %s", apperrors.ErrNotFound, supplierID)
	}
	return nil
}

var employeeBalanceColumns = map[domain.EmployeeBalanceField]string{
	domain.EmployeeAdvance: "advance_balance",
	domain.EmployeeCustody: "custody_balance",
	domain.EmployeeReward:  "reward_balance",
}

func (t *ledgerTx) AdjustEmployeeBalance(ctx context.Context, employeeID string, field domain.EmployeeBalanceField, delta decimal.Decimal) error {
	column, ok := employeeBalanceColumns[field]
	if !ok {
		return fmt.Errorf("%w: unknown employee balance field %q", apperrors.ErrValidation, field)
	}
	// column comes from the fixed map above, never from input
	query := fmt.Sprintf(`UPDATE employees SET %s = %s + $1, last_updated_at = NOW() WHERE employee_id = $2;`, column, column)
	tag, err := t.tx.Exec(ctx, query, delta, employeeID)
	if err != nil {
		return fmt.Errorf("failed to adjust %s of employee %s: %w", column, employeeID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: employee %s", apperrors.ErrNotFound, employeeID)
	}
	return nil
}

func (t *ledgerTx) AdjustProjectTotals(ctx context.Context, projectID string, delta domain.ProjectTotalsDelta) error {
	if delta.IsZero() {
		return nil
	}
	query := `
		UPDATE projects
		SET spent = spent + $1,
		    collected_from_sales = collected_from_sales + $2,
		    collected_from_partners = collected_from_partners + $3,
		    last_updated_at = NOW()
		WHERE project_id = $4;
	`
	tag, err := t.tx.Exec(ctx, query, delta.Spent, delta.CollectedFromSales, delta.CollectedFromPartners, projectID)
	if err != nil {
		return fmt.Errorf("failed to adjust totals of project %s: %w", projectID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: project %s", apperrors.ErrNotFound, projectID)
	}
	return nil
}

func (t *ledgerTx) AdjustBudgetSpent(ctx context.Context, projectID, budgetItemID string, delta decimal.Decimal) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE budget_items SET spent_amount = spent_amount + $1, last_updated_at = NOW() WHERE project_id = $2 AND budget_item_id = $3;`,
		delta, projectID, budgetItemID)
	if err != nil {
		return fmt.Errorf("failed to adjust spent of budget item %s: %w", budgetItemID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: budget item %s in project %s", apperrors.ErrNotFound, budgetItemID, projectID)
	}
	return nil
}

func (t *ledgerTx) InsertProject(ctx context.Context, project domain.Project) error {
	query := `
		INSERT INTO projects (project_id, name, estimated_costs, spent, collected_from_sales, collected_from_partners, fund_account_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, 0, 0, 0, $4, $5, $6, $7, $8);
	`
	_, err := t.tx.Exec(ctx, query,
		project.ProjectID, project.Name, project.EstimatedCosts, project.FundAccountID,
		project.CreatedAt, project.CreatedBy, project.LastUpdatedAt, project.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("insert project %s", project.ProjectID))
	}
	return nil
}

func (t *ledgerTx) InsertBudgetItems(ctx context.Context, items []domain.BudgetItem) error {
	query := `
		INSERT INTO budget_items (budget_item_id, project_id, global_budget_item_id, name, allocated_amount, spent_amount, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9);
	`
	for _, item := range items {
		_, err := t.tx.Exec(ctx, query,
			item.BudgetItemID, item.ProjectID, item.GlobalBudgetItemID, item.Name, item.AllocatedAmount,
			item.CreatedAt, item.CreatedBy, item.LastUpdatedAt, item.LastUpdatedBy)
		if err != nil {
			return mapPgError(err, fmt.Sprintf("insert budget item %s", item.BudgetItemID))
		}
	}
	return nil
}

func (t *ledgerTx) UpdateUnitSale(ctx context.Context, unit domain.Unit) error {
	query := `
		UPDATE units
		SET status = $1,
		    actual_price = $2,
		    customer_id = $3,
		    paid_amount = $4,
		    installment_count = $5,
		    booking_date = $6,
		    sale_date = $7,
		    last_updated_at = $8,
		    last_updated_by = $9
		WHERE unit_id = $10 AND project_id = $11;
	`
	tag, err := t.tx.Exec(ctx, query,
		unit.Status, unit.ActualPrice, unit.CustomerID, unit.PaidAmount, unit.InstallmentCount,
		unit.BookingDate, unit.SaleDate, unit.LastUpdatedAt, unit.LastUpdatedBy,
		unit.UnitID, unit.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to update unit %s: %w", unit.UnitID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: unit %s in project %s", apperrors.ErrNotFound, unit.UnitID, unit.ProjectID)
	}
	return nil
}

func (t *ledgerTx) ReplaceProjectPartners(ctx context.Context, projectID string, partners []domain.ProjectPartner) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM project_partners WHERE project_id = $1;`, projectID); err != nil {
		return fmt.Errorf("failed to clear partners of project %s: %w", projectID, err)
	}
	query := `
		INSERT INTO project_partners (partner_id, project_id, name, share_percent, total_investment, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, p := range partners {
		_, err := t.tx.Exec(ctx, query,
			p.PartnerID, projectID, p.Name, p.SharePercent, p.TotalInvestment,
			p.CreatedAt, p.CreatedBy, p.LastUpdatedAt, p.LastUpdatedBy)
		if err != nil {
			return mapPgError(err, fmt.Sprintf("insert partner %s", p.PartnerID))
		}
	}
	return nil
}

// ItemForUpdate loads an inventory item under a row lock so concurrent
// restocks and withdrawals serialize on it.
func (t *ledgerTx) ItemForUpdate(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	query := `
		SELECT item_id, name, unit, stock, average_cost, last_purchase_price, created_at, created_by, last_updated_at, last_updated_by
		FROM inventory_items
		WHERE item_id = $1
		FOR UPDATE;
	`
	var item domain.InventoryItem
	err := t.tx.QueryRow(ctx, query, itemID).Scan(
		&item.ItemID, &item.Name, &item.Unit, &item.Stock, &item.AverageCost, &item.LastPurchasePrice,
		&item.CreatedAt, &item.CreatedBy, &item.LastUpdatedAt, &item.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: inventory item %s", apperrors.ErrNotFound, itemID)
		}
		return nil, fmt.Errorf("failed to lock inventory item %s: %w", itemID, err)
	}
	return &item, nil
}

func (t *ledgerTx) ApplyStock(ctx context.Context, itemID string, stockDelta, newAverageCost decimal.Decimal, lastPurchasePrice *decimal.Decimal) error {
	query := `
		UPDATE inventory_items
		SET stock = stock + $1,
		    average_cost = $2,
		    last_purchase_price = COALESCE($3, last_purchase_price),
		    last_updated_at = NOW()
		WHERE item_id = $4;
	`
	tag, err := t.tx.Exec(ctx, query, stockDelta, newAverageCost, lastPurchasePrice, itemID)
	if err != nil {
		return fmt.Errorf("failed to apply stock change to item %s: %w", itemID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: inventory item %s", apperrors.ErrNotFound, itemID)
	}
	return nil
}

func (t *ledgerTx) InsertExpense(ctx context.Context, expense domain.Expense) error {
	query := `
		INSERT INTO expenses (expense_id, project_id, budget_item_id, expense_type, account_id, amount, expense_date, description, withdrawal_number, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := t.tx.Exec(ctx, query,
		expense.ExpenseID, expense.ProjectID, expense.BudgetItemID, expense.ExpenseType, expense.AccountID,
		expense.Amount, expense.ExpenseDate, expense.Description, expense.WithdrawalNumber,
		expense.CreatedAt, expense.CreatedBy, expense.LastUpdatedAt, expense.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("insert expense %s", expense.ExpenseID))
	}
	return nil
}

func (t *ledgerTx) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	query := `
		UPDATE expenses
		SET budget_item_id = $1,
		    expense_type = $2,
		    amount = $3,
		    expense_date = $4,
		    description = $5,
		    last_updated_at = $6,
		    last_updated_by = $7
		WHERE expense_id = $8;
	`
	tag, err := t.tx.Exec(ctx, query,
		expense.BudgetItemID, expense.ExpenseType, expense.Amount, expense.ExpenseDate, expense.Description,
		expense.LastUpdatedAt, expense.LastUpdatedBy, expense.ExpenseID)
	if err != nil {
		return fmt.Errorf("failed to update expense %s: %w", expense.ExpenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expense.ExpenseID)
	}
	return nil
}

func (t *ledgerTx) DeleteExpense(ctx context.Context, expenseID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1;`, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s", apperrors.ErrNotFound, expenseID)
	}
	return nil
}

func (t *ledgerTx) InsertInvoice(ctx context.Context, invoice domain.PurchaseInvoice) error {
	query := `
		INSERT INTO purchase_invoices (invoice_id, invoice_number, supplier_id, purchase_type, project_id, budget_item_id, total, paid_amount, payment_account_id, invoice_date, description, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := t.tx.Exec(ctx, query,
		invoice.InvoiceID, invoice.InvoiceNumber, invoice.SupplierID, invoice.PurchaseType,
		invoice.ProjectID, invoice.BudgetItemID, invoice.Total, invoice.PaidAmount, invoice.PaymentAccountID,
		invoice.InvoiceDate, invoice.Description,
		invoice.CreatedAt, invoice.CreatedBy, invoice.LastUpdatedAt, invoice.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("insert invoice %s", invoice.InvoiceID))
	}

	lineQuery := `
		INSERT INTO purchase_invoice_lines (line_id, invoice_id, item_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5);
	`
	for _, line := range invoice.Lines {
		if _, err := t.tx.Exec(ctx, lineQuery, line.LineID, invoice.InvoiceID, line.ItemID, line.Quantity, line.UnitPrice); err != nil {
			return mapPgError(err, fmt.Sprintf("insert invoice line %s", line.LineID))
		}
	}
	return nil
}

func (t *ledgerTx) InsertInstallments(ctx context.Context, rows []domain.Installment) error {
	query := `
		INSERT INTO installments (installment_id, project_id, unit_id, customer_id, sequence, due_date, amount, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, row := range rows {
		_, err := t.tx.Exec(ctx, query,
			row.InstallmentID, row.ProjectID, row.UnitID, row.CustomerID, row.Sequence, row.DueDate,
			row.Amount, row.Status, row.CreatedAt, row.CreatedBy, row.LastUpdatedAt, row.LastUpdatedBy)
		if err != nil {
			return mapPgError(err, fmt.Sprintf("insert installment %s", row.InstallmentID))
		}
	}
	return nil
}

func (t *ledgerTx) DeleteInstallmentsByUnit(ctx context.Context, unitID string) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM installments WHERE unit_id = $1;`, unitID); err != nil {
		return fmt.Errorf("failed to delete installments of unit %s: %w", unitID, err)
	}
	return nil
}

// MarkInstallmentPaid flips a PENDING row to PAID. The status guard in the
// WHERE clause makes double collection impossible even under races.
func (t *ledgerTx) MarkInstallmentPaid(ctx context.Context, installmentID, accountID, actorID string, paidAt time.Time) error {
	query := `
		UPDATE installments
		SET status = $1, paid_at = $2, account_id = $3, last_updated_at = $2, last_updated_by = $4
		WHERE installment_id = $5 AND status = $6;
	`
	tag, err := t.tx.Exec(ctx, query,
		domain.InstallmentPaid, paidAt, accountID, actorID, installmentID, domain.InstallmentPending)
	if err != nil {
		return fmt.Errorf("failed to mark installment %s paid: %w", installmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: installment %s is not pending", apperrors.ErrConflict, installmentID)
	}
	return nil
}

func (t *ledgerTx) InsertSalaryPayments(ctx context.Context, rows []domain.SalaryPayment) error {
	query := `
		INSERT INTO salary_payments (payment_id, employee_id, account_id, amount, pay_month, paid_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, row := range rows {
		_, err := t.tx.Exec(ctx, query,
			row.PaymentID, row.EmployeeID, row.AccountID, row.Amount, row.PayMonth, row.PaidAt,
			row.CreatedAt, row.CreatedBy, row.LastUpdatedAt, row.LastUpdatedBy)
		if err != nil {
			return mapPgError(err, fmt.Sprintf("insert salary payment %s", row.PaymentID))
		}
	}
	return nil
}

func (t *ledgerTx) AppendJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (entry_id, entry_date, description, debit_account_id, debit_account_name, credit_account_id, credit_account_name, amount, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := t.tx.Exec(ctx, query,
		entry.EntryID, entry.EntryDate, entry.Description,
		entry.DebitAccountID, entry.DebitAccountName, entry.CreditAccountID, entry.CreditAccountName,
		entry.Amount, entry.CreatedAt, entry.CreatedBy, entry.LastUpdatedAt, entry.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("append journal entry %s", entry.EntryID))
	}
	return nil
}

// NextSequence advances a document number counter and returns the new value
// in one atomic statement. The row update serializes concurrent callers, so
// no two commits ever share a number.
func (t *ledgerTx) NextSequence(ctx context.Context, counter domain.CounterType) (int64, error) {
	query := `
		UPDATE counters
		SET current_value = current_value + 1, last_updated_at = NOW()
		WHERE counter_type = $1
		RETURNING current_value;
	`
	var value int64
	err := t.tx.QueryRow(ctx, query, counter).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: counter %s", apperrors.ErrNotFound, counter)
		}
		return 0, fmt.Errorf("failed to advance counter %s: %w", counter, err)
	}
	return value, nil
}
